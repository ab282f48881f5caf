package record

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/activerecord/internal/infrastructure/database"
)

// Person is the record used by the end-to-end scenarios.
type Person struct {
	Model
	Name   string
	Age    *int32
	Joined *time.Time
}

// Status is an enum with three values.
type Status int

const (
	StatusDraft Status = iota
	StatusActive
	StatusArchived
)

func (Status) Cardinality() int { return 3 }

// Sample has one nullable field of every supported kind plus fields that
// must be ignored.
type Sample struct {
	Model
	Flag   *bool
	Small  *int16
	Medium *int32
	Large  *int64
	Single *float32
	Double *float64
	Label  *string
	Stamp  *time.Time
	Status *Status

	Tags    []string
	Extra   map[string]int
	Raw     []byte
	Scratch string `db:"-"`
	Owner   *Person
	Done    chan struct{}
	Counter uint32
	hidden  int //nolint:unused // Must be ignored by the descriptor
}

// Plain has non-pointer fields, which have no null state.
type Plain struct {
	Model
	Total  int
	Ratio  float64
	Active bool
	Title  string `db:"title_text"`
	Day    time.Time
	Level  Status
}

// Empty has no persistent attributes.
type Empty struct {
	Model
	Notes []string
}

func ptr[T any](v T) *T { return &v }

// openTestDB opens a SQLite database in a temporary directory.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), database.Config{
		Path:        filepath.Join(t.TempDir(), "records.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close() //nolint:errcheck // Test cleanup
	})
	return db
}

// newTestEngine returns a bootstrapped engine with the given record types.
func newTestEngine(t *testing.T, records ...Record) *Engine {
	t.Helper()

	e := NewEngine(openTestDB(t), Config{Name: "test", Version: 1})
	if err := e.Register(records...); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := e.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	return e
}

// rowFrom builds a row from extracted column values plus an identity.
func rowFrom(values map[string]any, id any) *Row {
	columns := []string{IdentityColumn}
	vals := []any{id}
	for c, v := range values {
		columns = append(columns, c)
		vals = append(vals, v)
	}
	return NewRow(columns, vals)
}
