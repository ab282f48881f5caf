package main

import (
	"time"

	"github.com/nerrad567/activerecord/internal/record"
)

// Person is a contact in the address book.
type Person struct {
	record.Model
	Name  string
	Email string
	Born  *time.Time
}

// Priority ranks a note.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// Cardinality implements record.Enum.
func (Priority) Cardinality() int { return 3 }

// Note is a dated remark, optionally about a person.
type Note struct {
	record.Model
	PersonID *int64 `db:"person_id"`
	Body     string
	Priority Priority
	Created  time.Time

	// Draft is kept in memory only.
	Draft string `db:"-"`
}

// records lists the record types created at bootstrap, in creation order.
func records() []record.Record {
	return []record.Record{&Person{}, &Note{}}
}
