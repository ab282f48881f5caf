package record

import "errors"

// Domain errors for the record package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, record.ErrNotPersisted) {
//	    // the record has never been saved
//	}
var (
	// ErrNotRecord is returned when a value is not a pointer to a struct
	// embedding Model.
	ErrNotRecord = errors.New("record: not a record type")

	// ErrInvalidIdentifier is returned when a table or column name is not a
	// valid SQL identifier.
	ErrInvalidIdentifier = errors.New("record: invalid SQL identifier")

	// ErrNotPersisted is returned when an operation needs the record's
	// identity but the record has never been saved.
	ErrNotPersisted = errors.New("record: identity not set")

	// ErrMalformedTimestamp is returned when a stored date does not match
	// TimestampFormat.
	ErrMalformedTimestamp = errors.New("record: malformed timestamp")

	// ErrValueOutOfRange is returned when a stored number does not fit the
	// Go type of its field.
	ErrValueOutOfRange = errors.New("record: value out of range")

	// ErrEngineClosed is returned by every storage operation after Close.
	ErrEngineClosed = errors.New("record: engine closed")

	// ErrDowngrade is returned by Bootstrap when the database was created by
	// a newer schema version than the engine is configured for.
	ErrDowngrade = errors.New("record: database version is newer than configured")
)
