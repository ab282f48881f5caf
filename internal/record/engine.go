package record

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultVersion is the schema version used when Config.Version is unset.
const DefaultVersion = 1

// Logger defines the logging interface used by the Engine.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Connector hands out dedicated connections. It is implemented by *sql.DB.
type Connector interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Config is the engine configuration. It is fixed at construction.
type Config struct {
	// Name identifies the database in logs.
	Name string

	// Version is the schema version recorded by Bootstrap.
	// Zero means DefaultVersion.
	Version int

	// OnCreate runs inside the bootstrap transaction of a fresh database,
	// before any table is created.
	OnCreate func(ctx context.Context, tx *sql.Tx) error

	// OnCreated runs after the tables of a fresh database are committed.
	OnCreated func(ctx context.Context) error

	// OnUpgrade runs inside a transaction when the stored version is older
	// than Version. Tables are never altered by the engine itself.
	OnUpgrade func(ctx context.Context, tx *sql.Tx, oldVersion, newVersion int) error
}

// Engine persists records. Every storage operation of every record type is
// serialised through one mutex: the engine takes the lock, acquires a
// dedicated connection, runs its statement and releases the connection
// before unlocking.
//
// All public methods are thread-safe.
type Engine struct {
	db  Connector
	cfg Config

	mu     sync.Mutex // guards every storage operation and the fields below
	logger Logger
	closed bool
	tables []*Descriptor

	trace func(op string) (done func()) // brackets the locked region; tests only
}

// NewEngine creates an engine over db.
func NewEngine(db Connector, cfg Config) *Engine {
	if cfg.Version <= 0 {
		cfg.Version = DefaultVersion
	}
	return &Engine{
		db:     db,
		cfg:    cfg,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the engine.
func (e *Engine) SetLogger(logger Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.logger = logger
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Close tears the engine down. Operations started afterwards fail with
// ErrEngineClosed. The underlying database is owned by the caller and is
// not closed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.logger.Info("record engine closed", "database", e.cfg.Name)
	return nil
}

// withConn runs fn with a dedicated connection inside the engine's
// mutual-exclusion domain.
func (e *Engine) withConn(ctx context.Context, op, table string, fn func(conn *sql.Conn) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.trace != nil {
		defer e.trace(op)()
	}

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close() //nolint:errcheck // Returns the connection to the pool

	start := time.Now()
	err = fn(conn)
	e.logger.Debug("storage operation",
		"op", op,
		"table", table,
		"duration", time.Since(start),
		"ok", err == nil,
	)
	return err
}

// query runs a row-returning statement and calls fn for each row.
func (e *Engine) query(ctx context.Context, op, table, query string, args []any, fn func(*Row) error) error {
	return e.withConn(ctx, op, table, func(conn *sql.Conn) error {
		e.logger.Debug("executing query", "sql", query)
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("querying %s: %w", table, err)
		}
		defer rows.Close() //nolint:errcheck // Close error is superseded by rows.Err

		columns, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("reading columns: %w", err)
		}
		for rows.Next() {
			row, err := scanRow(rows, columns)
			if err != nil {
				return err
			}
			if err := fn(row); err != nil {
				return err
			}
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating %s: %w", table, err)
		}
		return nil
	})
}

// Load reads the row whose identity is id into rec. When no row matches,
// rec is left unmodified and no error is returned.
func (e *Engine) Load(ctx context.Context, rec Record, id int64) error {
	d, rv, err := describeValue(rec)
	if err != nil {
		return err
	}
	query := "SELECT " + d.selectList() + " FROM " + d.Table + " WHERE " + IdentityColumn + " = ?"

	found := false
	return e.query(ctx, "load", d.Table, query, []any{id}, func(row *Row) error {
		if found {
			return nil
		}
		found = true
		return d.populate(row, rv)
	})
}

// Save inserts rec when it has no identity, storing the generated identity
// back onto rec, and updates its row otherwise. An update that matches no
// row is not an error.
func (e *Engine) Save(ctx context.Context, rec Record) error {
	d, rv, err := describeValue(rec)
	if err != nil {
		return err
	}
	m := rec.model()
	values := d.values(rv)

	if m.ID == nil {
		query := d.insertStatement()
		return e.withConn(ctx, "insert", d.Table, func(conn *sql.Conn) error {
			e.logger.Debug("executing statement", "sql", query)
			res, err := conn.ExecContext(ctx, query, values...)
			if err != nil {
				return fmt.Errorf("inserting into %s: %w", d.Table, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("reading identity of %s: %w", d.Table, err)
			}
			m.setID(id)
			return nil
		})
	}

	if len(d.columns) == 0 {
		return nil
	}
	id := *m.ID
	query := d.updateStatement()
	args := append(values, id)
	return e.withConn(ctx, "update", d.Table, func(conn *sql.Conn) error {
		e.logger.Debug("executing statement", "sql", query)
		res, err := conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("updating %s %d: %w", d.Table, id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			e.logger.Warn("update matched no row", "table", d.Table, "id", id)
		}
		return nil
	})
}

// Delete removes rec's row. rec keeps its identity. Records that were never
// saved fail with ErrNotPersisted without touching storage.
func (e *Engine) Delete(ctx context.Context, rec Record) error {
	d, _, err := describeValue(rec)
	if err != nil {
		return err
	}
	m := rec.model()
	if m.ID == nil {
		return fmt.Errorf("deleting from %s: %w", d.Table, ErrNotPersisted)
	}
	id := *m.ID
	query := "DELETE FROM " + d.Table + " WHERE " + IdentityColumn + " = ?"
	return e.withConn(ctx, "delete", d.Table, func(conn *sql.Conn) error {
		e.logger.Debug("executing statement", "sql", query)
		if _, err := conn.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("deleting %s %d: %w", d.Table, id, err)
		}
		return nil
	})
}

// Exec runs a caller-supplied statement with positional arguments.
func (e *Engine) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := e.withConn(ctx, "exec", "", func(conn *sql.Conn) error {
		e.logger.Debug("executing statement", "sql", query)
		var err error
		res, err = conn.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("executing statement: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (d *Descriptor) insertStatement() string {
	if len(d.columns) == 0 {
		return "INSERT INTO " + d.Table + " DEFAULT VALUES"
	}
	names := make([]string, len(d.columns))
	marks := make([]string, len(d.columns))
	for i, a := range d.columns {
		names[i] = a.Name
		marks[i] = "?"
	}
	return "INSERT INTO " + d.Table + " (" + strings.Join(names, ", ") +
		") VALUES (" + strings.Join(marks, ", ") + ")"
}

func (d *Descriptor) updateStatement() string {
	sets := make([]string, len(d.columns))
	for i, a := range d.columns {
		sets[i] = a.Name + " = ?"
	}
	return "UPDATE " + d.Table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + IdentityColumn + " = ?"
}
