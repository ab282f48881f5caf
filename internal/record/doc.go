// Package record maps Go structs onto SQLite tables without hand-written
// mapping code.
//
// A record type is a struct embedding Model:
//
//	type Person struct {
//	    record.Model
//	    Name   string
//	    Age    *int32
//	    Joined *time.Time
//	    Notes  []string // multi-valued: never persisted
//	    Cache  string `db:"-"` // transient: never persisted
//	}
//
// The package provides:
//   - A descriptor table per record type, built once by reflection
//   - A codec converting each supported scalar kind to and from its column
//   - DDL generation (CREATE TABLE Person (_id INTEGER PRIMARY KEY, ...);)
//   - CRUD and query operations serialised through one mutex per Engine
//
// # Mapping Rules
//
//   - Table name: the struct's simple name, unmodified.
//   - Column name: the `db:"name"` tag, otherwise the field name with its
//     leading capitals lower-cased (JoinedAt → joinedAt).
//   - Supported kinds: bool, int8/int16, int32, int/int64, float32, float64,
//     string, time.Time and integer types implementing Enum. A pointer field
//     is nullable.
//   - Slices, arrays, maps and `db:"-"` fields are excluded. Fields of any
//     other type are silently ignored.
//
// # Column Values
//
//   - bool: INTEGER 0/1; nil writes NULL.
//   - numbers and strings: native values; nil writes "". A blank number
//     reads back as nil, a blank string as "". SQLite orders text above
//     numbers, so a predicate like "age > ?" also matches nil ages.
//   - time.Time: TEXT in TimestampFormat (UTC); nil writes NULL. Stored text
//     in any other format fails the read with ErrMalformedTimestamp.
//     Raw Query results may carry dates the driver already parsed from DATE
//     columns; those fail when the driver gave up (zero time) or kept a
//     fraction, but the driver's own ISO forms (2006-01-02T15:04:05Z) are
//     accepted there. Structured reads see the stored text and reject them.
//   - Enum: its ordinal; nil writes NULL. An ordinal outside the enum reads
//     back as nil.
//
// # Thread Safety
//
// Engine holds a single mutex around every storage operation, whatever the
// record type: at most one statement is in flight per Engine. Use one
// Engine per process.
//
// # Usage
//
//	engine := record.NewEngine(db, record.Config{Name: "app", Version: 1})
//	if err := engine.Register(&Person{}); err != nil {
//	    return err
//	}
//	if err := engine.Bootstrap(ctx); err != nil {
//	    return err
//	}
//
//	p := &Person{Name: "Ana"}
//	if err := engine.Save(ctx, p); err != nil { // p.ID is now set
//	    return err
//	}
//	adults, err := record.Where[Person](ctx, engine, "age >= ?", 18)
package record
