package record

import (
	"reflect"
	"time"
)

// Kind is the closed set of scalar kinds an attribute can have.
// Fields whose type maps to no Kind are not persisted.
type Kind uint8

// Supported attribute kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindString
	KindTime
	KindEnum
)

// SQL column types used in generated DDL.
const (
	columnText    = "TEXT"
	columnInteger = "INTEGER"
	columnReal    = "REAL"
	columnDate    = "DATE"
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt16:   "int16",
	KindInt32:   "int32",
	KindInt64:   "int64",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindTime:    "time",
	KindEnum:    "enum",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ColumnType returns the SQL type declared for columns of this kind.
// Unknown kinds map to TEXT.
func (k Kind) ColumnType() string {
	switch k {
	case KindString:
		return columnText
	case KindBool, KindInt16, KindInt32, KindInt64, KindEnum:
		return columnInteger
	case KindFloat32, KindFloat64:
		return columnReal
	case KindTime:
		return columnDate
	default:
		return columnText
	}
}

// Enum is implemented by integer-backed enumeration types. A value is stored
// as its ordinal, which must lie in [0, Cardinality()).
//
//	type Status int
//
//	const (
//	    StatusDraft Status = iota
//	    StatusActive
//	    StatusArchived
//	)
//
//	func (Status) Cardinality() int { return 3 }
type Enum interface {
	Cardinality() int
}

var (
	enumType = reflect.TypeOf((*Enum)(nil)).Elem()
	timeType = reflect.TypeOf(time.Time{})
)

// kindOf classifies a field type. A single pointer level makes the field
// nullable. Slices, arrays and maps are reported as multi-valued.
func kindOf(t reflect.Type) (kind Kind, nullable, multiValued bool) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		nullable = true
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return KindInvalid, nullable, true
	}

	if t == timeType {
		return KindTime, nullable, false
	}
	if isIntKind(t.Kind()) && reflect.PointerTo(t).Implements(enumType) {
		return KindEnum, nullable, false
	}

	switch t.Kind() {
	case reflect.Bool:
		return KindBool, nullable, false
	case reflect.Int8, reflect.Int16:
		return KindInt16, nullable, false
	case reflect.Int32:
		return KindInt32, nullable, false
	case reflect.Int, reflect.Int64:
		return KindInt64, nullable, false
	case reflect.Float32:
		return KindFloat32, nullable, false
	case reflect.Float64:
		return KindFloat64, nullable, false
	case reflect.String:
		return KindString, nullable, false
	}
	return KindInvalid, nullable, false
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

// enumCardinality returns the number of values of an Enum type t.
func enumCardinality(t reflect.Type) int {
	return reflect.New(t).Interface().(Enum).Cardinality()
}
