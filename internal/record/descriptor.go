package record

import (
	"fmt"
	"reflect"
	"regexp"
	"sync"
)

// tagName is the struct tag holding column names.
const tagName = "db"

var (
	modelType  = reflect.TypeOf(Model{})
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// descriptors caches *Descriptor by struct type.
	descriptors sync.Map
)

// Attribute describes one field of a record type.
type Attribute struct {
	// Name is the column name.
	Name string

	// Field is the Go struct field name.
	Field string

	Kind Kind

	// Nullable is set for pointer fields; nil is their null state.
	Nullable bool

	// Transient attributes are tagged `db:"-"` and never persisted.
	Transient bool

	// MultiValued attributes are slices, arrays or maps and never persisted.
	MultiValued bool

	index       []int
	elem        reflect.Type // field type with the pointer level removed
	cardinality int          // enums only
}

// Persistent reports whether the attribute maps to a column.
func (a *Attribute) Persistent() bool {
	return a.Kind != KindInvalid && !a.Transient && !a.MultiValued
}

// Descriptor is the mapping table of a record type, built once by reflection
// and shared by every operation on that type.
type Descriptor struct {
	// Table is the type's simple name.
	Table string

	// Type is the struct type.
	Type reflect.Type

	// Attributes lists the examined fields in declaration order, including
	// transient and multi-valued ones. Unsupported fields are not listed.
	Attributes []Attribute

	columns []*Attribute
}

// Columns returns the persistent attributes in declaration order.
func (d *Descriptor) Columns() []*Attribute {
	return d.columns
}

// Describe returns the descriptor of rec's type.
func Describe(rec Record) (*Descriptor, error) {
	t := reflect.TypeOf(rec)
	if t == nil || t.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("%w: %T", ErrNotRecord, rec)
	}
	return describe(t.Elem())
}

// describe returns the cached descriptor of struct type t, building it on
// first use.
func describe(t reflect.Type) (*Descriptor, error) {
	if v, ok := descriptors.Load(t); ok {
		return v.(*Descriptor), nil
	}
	d, err := buildDescriptor(t)
	if err != nil {
		return nil, err
	}
	v, _ := descriptors.LoadOrStore(t, d)
	return v.(*Descriptor), nil
}

func buildDescriptor(t reflect.Type) (*Descriptor, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrNotRecord, t)
	}
	if !embedsModel(t) {
		return nil, fmt.Errorf("%w: %s does not embed record.Model", ErrNotRecord, t)
	}
	if !identifier.MatchString(t.Name()) {
		return nil, fmt.Errorf("%w: table %q", ErrInvalidIdentifier, t.Name())
	}

	d := &Descriptor{Table: t.Name(), Type: t}
	seen := map[string]bool{IdentityColumn: true}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous || !sf.IsExported() {
			continue
		}

		kind, nullable, multi := kindOf(sf.Type)
		if kind == KindInvalid && !multi {
			continue
		}

		tag := sf.Tag.Get(tagName)
		a := Attribute{
			Name:        tag,
			Field:       sf.Name,
			Kind:        kind,
			Nullable:    nullable,
			Transient:   tag == "-",
			MultiValued: multi,
			index:       sf.Index,
			elem:        sf.Type,
		}
		if nullable {
			a.elem = sf.Type.Elem()
		}
		if a.Name == "" || a.Transient {
			a.Name = columnName(sf.Name)
		}
		if kind == KindEnum {
			a.cardinality = enumCardinality(a.elem)
		}

		if a.Persistent() {
			if !identifier.MatchString(a.Name) {
				return nil, fmt.Errorf("%w: column %q of %s", ErrInvalidIdentifier, a.Name, t.Name())
			}
			if seen[a.Name] {
				return nil, fmt.Errorf("%w: duplicate column %q in %s", ErrInvalidIdentifier, a.Name, t.Name())
			}
			seen[a.Name] = true
		}
		d.Attributes = append(d.Attributes, a)
	}

	for i := range d.Attributes {
		if d.Attributes[i].Persistent() {
			d.columns = append(d.columns, &d.Attributes[i])
		}
	}
	return d, nil
}

func embedsModel(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type == modelType {
			return true
		}
	}
	return false
}

// columnName derives a column name from a Go field name by lower-casing its
// leading run of capitals: Name→name, JoinedAt→joinedAt, URL→url, URLPath→urlPath.
func columnName(field string) string {
	b := []byte(field)
	n := 0
	for n < len(b) && 'A' <= b[n] && b[n] <= 'Z' {
		n++
	}
	// Keep the last capital of a run when it starts the next word.
	if n > 1 && n < len(b) && 'a' <= b[n] && b[n] <= 'z' {
		n--
	}
	for i := 0; i < n; i++ {
		b[i] += 'a' - 'A'
	}
	return string(b)
}
