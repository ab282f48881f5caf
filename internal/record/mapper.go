package record

import (
	"fmt"
	"reflect"
)

// Populate writes every persistent attribute of rec from row, then copies
// the row's _id column, if any, onto rec's identity.
func Populate(row *Row, rec Record) error {
	d, rv, err := describeValue(rec)
	if err != nil {
		return err
	}
	return d.populate(row, rv)
}

// Extract returns the column values of rec keyed by column name.
// The identity is never included.
func Extract(rec Record) (map[string]any, error) {
	d, rv, err := describeValue(rec)
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(d.columns))
	for _, a := range d.columns {
		values[a.Name] = encode(a, rv)
	}
	return values, nil
}

// describeValue returns rec's descriptor and the struct value rec points to.
func describeValue(rec Record) (*Descriptor, reflect.Value, error) {
	d, err := Describe(rec)
	if err != nil {
		return nil, reflect.Value{}, err
	}
	p := reflect.ValueOf(rec)
	if p.IsNil() {
		return nil, reflect.Value{}, fmt.Errorf("%w: nil %s", ErrNotRecord, p.Type())
	}
	return d, p.Elem(), nil
}

// populate decodes row into a copy of rv and stores the copy only when every
// column decoded, so a failed read leaves the record as it was.
func (d *Descriptor) populate(row *Row, rv reflect.Value) error {
	tmp := reflect.New(d.Type)
	tmp.Elem().Set(rv)

	for _, a := range d.columns {
		if err := decode(row, a, tmp.Elem()); err != nil {
			return fmt.Errorf("populating %s: %w", d.Table, err)
		}
	}

	if i := row.Index(IdentityColumn); i >= 0 {
		m := tmp.Interface().(Record).model()
		if row.IsNull(i) {
			m.ID = nil
		} else {
			id, err := row.Int64(i)
			if err != nil {
				return fmt.Errorf("populating %s identity: %w", d.Table, err)
			}
			m.setID(id)
		}
	}

	rv.Set(tmp.Elem())
	return nil
}

// values returns the column values of rv in declaration order.
func (d *Descriptor) values(rv reflect.Value) []any {
	out := make([]any, len(d.columns))
	for i, a := range d.columns {
		out[i] = encode(a, rv)
	}
	return out
}
