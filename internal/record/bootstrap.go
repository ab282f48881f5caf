package record

import (
	"context"
	"database/sql"
	"fmt"
)

// Register adds record types to the set of tables created by Bootstrap.
// Types are created in registration order; registering a type twice has no
// effect.
func (e *Engine) Register(records ...Record) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, rec := range records {
		d, err := Describe(rec)
		if err != nil {
			return fmt.Errorf("registering %T: %w", rec, err)
		}
		if !e.registered(d) {
			e.tables = append(e.tables, d)
		}
	}
	return nil
}

func (e *Engine) registered(d *Descriptor) bool {
	for _, t := range e.tables {
		if t == d {
			return true
		}
	}
	return false
}

// Tables returns the registered descriptors in registration order.
func (e *Engine) Tables() []*Descriptor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Descriptor(nil), e.tables...)
}

// Bootstrap prepares the database for the registered record types. It must
// run once at startup, before any concurrent traffic.
//
// The schema version is kept in SQLite's user_version header:
//   - 0 (fresh database): OnCreate runs, every registered table is created
//     and the version is recorded, all in one transaction; OnCreated runs
//     after commit.
//   - older than Config.Version: OnUpgrade runs and the version is bumped
//     in one transaction. Existing tables are not altered.
//   - newer than Config.Version: ErrDowngrade.
//
// OnCreate and OnUpgrade run while the engine is locked and must use the
// transaction they are given rather than the engine. OnCreated runs
// unlocked and may use the engine.
func (e *Engine) Bootstrap(ctx context.Context) error {
	created := false
	err := e.withConn(ctx, "bootstrap", "", func(conn *sql.Conn) error {
		version, err := userVersion(ctx, conn)
		if err != nil {
			return err
		}

		switch {
		case version == 0:
			if err := e.createTables(ctx, conn); err != nil {
				return err
			}
			created = true
		case version < e.cfg.Version:
			if err := e.upgrade(ctx, conn, version); err != nil {
				return err
			}
		case version > e.cfg.Version:
			return fmt.Errorf("%w: database at %d, engine at %d", ErrDowngrade, version, e.cfg.Version)
		default:
			e.logger.Debug("database schema up to date", "database", e.cfg.Name, "version", version)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bootstrapping %s: %w", e.cfg.Name, err)
	}

	if created && e.cfg.OnCreated != nil {
		if err := e.cfg.OnCreated(ctx); err != nil {
			return fmt.Errorf("database created hook: %w", err)
		}
	}
	return nil
}

// createTables builds a fresh database in a single transaction.
func (e *Engine) createTables(ctx context.Context, conn *sql.Conn) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if e.cfg.OnCreate != nil {
		if err := e.cfg.OnCreate(ctx, tx); err != nil {
			return fmt.Errorf("database creation hook: %w", err)
		}
	}

	for _, d := range e.tables {
		ddl := d.CreateTableStatement()
		e.logger.Debug("creating table", "table", d.Table, "sql", ddl)
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("creating table %s: %w", d.Table, err)
		}
	}

	if err := setUserVersion(ctx, tx, e.cfg.Version); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema: %w", err)
	}

	e.logger.Info("database created",
		"database", e.cfg.Name,
		"version", e.cfg.Version,
		"tables", len(e.tables),
	)
	return nil
}

// upgrade moves the recorded version forward from old to Config.Version.
func (e *Engine) upgrade(ctx context.Context, conn *sql.Conn, old int) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if e.cfg.OnUpgrade != nil {
		if err := e.cfg.OnUpgrade(ctx, tx, old, e.cfg.Version); err != nil {
			return fmt.Errorf("database upgrade hook: %w", err)
		}
	}
	if err := setUserVersion(ctx, tx, e.cfg.Version); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing upgrade: %w", err)
	}

	e.logger.Info("database upgraded",
		"database", e.cfg.Name,
		"from", old,
		"to", e.cfg.Version,
	)
	return nil
}

func userVersion(ctx context.Context, conn *sql.Conn) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

func setUserVersion(ctx context.Context, tx *sql.Tx, v int) error {
	// PRAGMA takes no bound parameters; v is an int.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v)); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}
