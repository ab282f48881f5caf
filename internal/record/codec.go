package record

import (
	"fmt"
	"reflect"
	"time"
)

// TimestampFormat is the layout of stored dates: yyyy-MM-dd HH:mm:ss, UTC,
// no zone and no fractional seconds.
const TimestampFormat = "2006-01-02 15:04:05"

// decode reads attribute a from row into the struct value rv.
// A column missing from the row leaves the field untouched.
func decode(row *Row, a *Attribute, rv reflect.Value) error {
	i := row.Index(a.Name)
	if i < 0 {
		return nil
	}
	fv := rv.FieldByIndex(a.index)

	if row.IsNull(i) {
		setNull(fv)
		return nil
	}

	switch a.Kind {
	case KindString:
		s, err := row.Text(i)
		if err != nil {
			return err
		}
		set(fv, a, reflect.ValueOf(s))
		return nil

	case KindTime:
		t, err := decodeTime(row, i)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", a.Name, err)
		}
		set(fv, a, reflect.ValueOf(t))
		return nil
	}

	// Remaining kinds are numeric. An empty string is the write-side
	// representation of a null number and reads back as null.
	if row.isBlank(i) {
		setNull(fv)
		return nil
	}

	switch a.Kind {
	case KindBool:
		n, err := row.Int64(i)
		if err != nil {
			return err
		}
		set(fv, a, reflect.ValueOf(n == 1))

	case KindInt16, KindInt32, KindInt64:
		n, err := row.Int64(i)
		if err != nil {
			return err
		}
		v := reflect.New(a.elem).Elem()
		if v.OverflowInt(n) {
			return fmt.Errorf("decoding %s: %w: %d does not fit %s", a.Name, ErrValueOutOfRange, n, a.elem)
		}
		v.SetInt(n)
		set(fv, a, v)

	case KindFloat32, KindFloat64:
		f, err := row.Float64(i)
		if err != nil {
			return err
		}
		v := reflect.New(a.elem).Elem()
		v.SetFloat(f)
		set(fv, a, v)

	case KindEnum:
		n, err := row.Int64(i)
		if err != nil {
			return err
		}
		if n < 0 || n >= int64(a.cardinality) {
			setNull(fv)
			return nil
		}
		v := reflect.New(a.elem).Elem()
		v.SetInt(n)
		set(fv, a, v)
	}
	return nil
}

func decodeTime(row *Row, i int) (time.Time, error) {
	if t, ok := row.values[i].(time.Time); ok {
		// The driver yields the zero time for text it cannot parse and
		// keeps any fraction it found.
		if t.IsZero() || t.Nanosecond() != 0 {
			return time.Time{}, fmt.Errorf("%w: driver value %s", ErrMalformedTimestamp, t.Format(time.RFC3339Nano))
		}
		return t.UTC(), nil
	}
	s, err := row.Text(i)
	if err != nil {
		return time.Time{}, err
	}
	// Parse alone would accept a trailing fraction of a second.
	if len(s) != len(TimestampFormat) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	t, err := time.ParseInLocation(TimestampFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return t, nil
}

// set assigns v to the field, allocating the pointer of nullable fields.
func set(fv reflect.Value, a *Attribute, v reflect.Value) {
	if v.Type() != a.elem {
		v = v.Convert(a.elem)
	}
	if a.Nullable {
		p := reflect.New(a.elem)
		p.Elem().Set(v)
		fv.Set(p)
		return
	}
	fv.Set(v)
}

// setNull stores the null state: nil for pointers, the zero value otherwise.
func setNull(fv reflect.Value) {
	fv.Set(reflect.Zero(fv.Type()))
}

// encode returns the column value of attribute a in the struct value rv.
// A nil number or string encodes as "", a nil date, bool or enum as SQL NULL.
func encode(a *Attribute, rv reflect.Value) any {
	fv := rv.FieldByIndex(a.index)
	if a.Nullable {
		if fv.IsNil() {
			switch a.Kind {
			case KindTime, KindBool, KindEnum:
				return nil
			default:
				return ""
			}
		}
		fv = fv.Elem()
	}

	switch a.Kind {
	case KindBool:
		if fv.Bool() {
			return int64(1)
		}
		return int64(0)
	case KindInt16, KindInt32, KindInt64, KindEnum:
		return fv.Int()
	case KindFloat32, KindFloat64:
		return fv.Float()
	case KindString:
		return fv.String()
	case KindTime:
		return fv.Interface().(time.Time).UTC().Format(TimestampFormat)
	}
	return nil
}
