// activerecord opens the configured SQLite database, creates the tables of
// its record types on first start, and reports what is stored.
//
// Configuration is read from configs/config.yaml, or from the file named by
// ACTIVERECORD_CONFIG.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/activerecord/internal/infrastructure/config"
	"github.com/nerrad567/activerecord/internal/infrastructure/database"
	"github.com/nerrad567/activerecord/internal/infrastructure/logging"
	"github.com/nerrad567/activerecord/internal/record"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on success, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting activerecord",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", db.Path())

	engine, err := openEngine(ctx, db, cfg.Database, log)
	if err != nil {
		return err
	}
	defer engine.Close() //nolint:errcheck // Close never fails

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	schemaVersion, err := db.UserVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	log.Info("schema ready",
		"version", schemaVersion,
		"tables", len(engine.Tables()),
		"open_connections", db.Stats().OpenConnections,
	)

	return report(ctx, engine, log)
}

// openEngine creates the record engine, registers the record types and
// bootstraps the schema. A fresh database is seeded with a welcome note.
func openEngine(ctx context.Context, db *database.DB, cfg config.DatabaseConfig, log *logging.Logger) (*record.Engine, error) {
	var engine *record.Engine
	engine = record.NewEngine(db, record.Config{
		Name:    cfg.Name,
		Version: cfg.Version,
		OnCreated: func(ctx context.Context) error {
			return engine.Save(ctx, &Note{
				Body:     "database created",
				Priority: PriorityLow,
				Created:  time.Now(),
			})
		},
		OnUpgrade: func(_ context.Context, _ *sql.Tx, oldVersion, newVersion int) error {
			log.Warn("schema version raised; existing tables are kept as they are",
				"from", oldVersion,
				"to", newVersion,
			)
			return nil
		},
	})
	engine.SetLogger(log.With("component", "record"))

	if err := engine.Register(records()...); err != nil {
		return nil, fmt.Errorf("registering records: %w", err)
	}
	if err := engine.Bootstrap(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}

// report logs the number of stored records of each type and the latest note.
func report(ctx context.Context, engine *record.Engine, log *logging.Logger) error {
	people, err := record.Count[Person](ctx, engine)
	if err != nil {
		return fmt.Errorf("counting people: %w", err)
	}
	notes, err := record.Count[Note](ctx, engine)
	if err != nil {
		return fmt.Errorf("counting notes: %w", err)
	}
	urgent, err := record.CountWhere[Note](ctx, engine, "priority = ?", int(PriorityHigh))
	if err != nil {
		return fmt.Errorf("counting urgent notes: %w", err)
	}
	log.Info("records stored",
		"people", people,
		"notes", notes,
		"urgent_notes", urgent,
	)

	last, err := record.FindLast[Note](ctx, engine)
	if err != nil {
		return fmt.Errorf("reading latest note: %w", err)
	}
	if last != nil {
		log.Info("latest note",
			"id", *last.ID,
			"body", last.Body,
			"created", last.Created.Format(time.RFC3339),
		)
	}
	return nil
}

// getConfigPath returns the configuration file path.
// Uses ACTIVERECORD_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("ACTIVERECORD_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
