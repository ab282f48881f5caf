// Package database provides the SQLite connection used by the record engine.
//
// This package manages:
//   - Opening the database file (directory creation, 0600 permissions)
//   - go-sqlite3 connection options (busy timeout, optional WAL mode)
//   - A single-connection pool matching the engine's serialised access
//   - Health checks and the schema version header
//
// Table creation is not done here: the record engine derives DDL from the
// registered record types and runs it from Engine.Bootstrap.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: "./data/records.db", BusyTimeout: 5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	engine := record.NewEngine(db, record.Config{Name: "records", Version: 1})
package database
