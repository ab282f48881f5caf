package record

import (
	"context"
	"fmt"
	"reflect"
)

// Ptr constrains a type parameter to *T where *T is a Record. It lets the
// query functions be called with the struct type alone:
//
//	people, err := record.Where[Person](ctx, engine, "age > ?", 30)
type Ptr[T any] interface {
	*T
	Record
}

// Where returns every record of type T matching predicate, in result-set
// order. predicate is a SQL boolean expression with positional ? parameters;
// an empty predicate matches every row.
func Where[T any, P Ptr[T]](ctx context.Context, e *Engine, predicate string, args ...any) ([]*T, error) {
	d, err := descriptorFor[T]()
	if err != nil {
		return nil, err
	}
	query := "SELECT " + d.selectList() + " FROM " + d.Table + whereClause(predicate)
	return materialize[T, P](ctx, e, d, "where", query, args)
}

// FindAll returns every record of type T.
func FindAll[T any, P Ptr[T]](ctx context.Context, e *Engine) ([]*T, error) {
	return Where[T, P](ctx, e, "")
}

// FindFirst returns the first record of type T in result-set order, or nil
// when the table is empty.
func FindFirst[T any, P Ptr[T]](ctx context.Context, e *Engine) (*T, error) {
	return FindFirstWhere[T, P](ctx, e, "")
}

// FindFirstWhere returns the first record of type T matching predicate, or
// nil when none does.
func FindFirstWhere[T any, P Ptr[T]](ctx context.Context, e *Engine, predicate string, args ...any) (*T, error) {
	list, err := Where[T, P](ctx, e, predicate, args...)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// FindLast returns the record of type T with the greatest identity, or nil
// when the table is empty. It is not the most recently inserted record
// when identities were assigned out of order.
func FindLast[T any, P Ptr[T]](ctx context.Context, e *Engine) (*T, error) {
	d, err := descriptorFor[T]()
	if err != nil {
		return nil, err
	}
	predicate := IdentityColumn + " = (SELECT max(" + IdentityColumn + ") FROM " + d.Table + ")"
	return FindFirstWhere[T, P](ctx, e, predicate)
}

// Count returns the number of records of type T.
func Count[T any, P Ptr[T]](ctx context.Context, e *Engine) (int64, error) {
	return CountWhere[T, P](ctx, e, "")
}

// CountWhere returns the number of records of type T matching predicate.
// An empty result counts as zero.
func CountWhere[T any, P Ptr[T]](ctx context.Context, e *Engine, predicate string, args ...any) (int64, error) {
	d, err := descriptorFor[T]()
	if err != nil {
		return 0, err
	}
	query := "SELECT count(1) FROM " + d.Table + whereClause(predicate)

	var n int64
	seen := false
	err = e.query(ctx, "count", d.Table, query, args, func(row *Row) error {
		if seen || row.IsNull(0) {
			return nil
		}
		seen = true
		var err error
		n, err = row.Int64(0)
		return err
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Query runs caller-supplied SQL and maps each result row onto a new
// record of type T. Columns without a matching attribute are ignored and
// attributes without a matching column keep their zero value.
func Query[T any, P Ptr[T]](ctx context.Context, e *Engine, query string, args ...any) ([]*T, error) {
	d, err := descriptorFor[T]()
	if err != nil {
		return nil, err
	}
	return materialize[T, P](ctx, e, d, "query", query, args)
}

func materialize[T any, P Ptr[T]](ctx context.Context, e *Engine, d *Descriptor, op, query string, args []any) ([]*T, error) {
	var out []*T
	err := e.query(ctx, op, d.Table, query, args, func(row *Row) error {
		v := new(T)
		if err := d.populate(row, reflect.ValueOf(P(v)).Elem()); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func descriptorFor[T any]() (*Descriptor, error) {
	d, err := describe(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, fmt.Errorf("describing record: %w", err)
	}
	return d, nil
}

func whereClause(predicate string) string {
	if predicate == "" {
		return ""
	}
	return " WHERE " + predicate
}
