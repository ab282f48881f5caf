package record

// IdentityColumn is the primary key column every table carries.
const IdentityColumn = "_id"

// Model is embedded by every record type. It holds the record's identity,
// which is nil until the record is first saved.
//
//	type Person struct {
//	    record.Model
//	    Name   string
//	    Age    *int32
//	    Joined *time.Time
//	}
type Model struct {
	ID *int64
}

// Record is implemented by pointers to structs that embed Model.
type Record interface {
	model() *Model
}

func (m *Model) model() *Model { return m }

// IsSaved reports whether the record has an identity, i.e. has been saved
// or loaded.
func (m *Model) IsSaved() bool {
	return m.ID != nil
}

func (m *Model) setID(id int64) {
	m.ID = &id
}
