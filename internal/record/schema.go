package record

import "strings"

// TableName returns the table of rec's type: the type's simple name,
// unmodified.
func TableName(rec Record) (string, error) {
	d, err := Describe(rec)
	if err != nil {
		return "", err
	}
	return d.Table, nil
}

// CreateTableStatement returns the DDL creating rec's table.
//
//	CREATE TABLE Person (_id INTEGER PRIMARY KEY, name TEXT, age INTEGER, joined DATE);
func CreateTableStatement(rec Record) (string, error) {
	d, err := Describe(rec)
	if err != nil {
		return "", err
	}
	return d.CreateTableStatement(), nil
}

// CreateTableStatement returns the DDL creating the descriptor's table.
// Columns follow declaration order; transient and multi-valued attributes
// are skipped.
func (d *Descriptor) CreateTableStatement() string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(d.Table)
	sb.WriteString(" (")
	sb.WriteString(IdentityColumn)
	sb.WriteString(" INTEGER PRIMARY KEY")
	for _, a := range d.columns {
		sb.WriteString(", ")
		sb.WriteString(a.Name)
		sb.WriteByte(' ')
		sb.WriteString(a.Kind.ColumnType())
	}
	sb.WriteString(");")
	return sb.String()
}

// selectList returns the projection of structured selects: the identity
// followed by every column. Dates are read as text so that driver-side
// timestamp coercion never hides a malformed value.
func (d *Descriptor) selectList() string {
	var sb strings.Builder
	sb.WriteString(IdentityColumn)
	for _, a := range d.columns {
		sb.WriteString(", ")
		if a.Kind == KindTime {
			sb.WriteString("CAST(")
			sb.WriteString(a.Name)
			sb.WriteString(" AS TEXT) AS ")
		}
		sb.WriteString(a.Name)
	}
	return sb.String()
}
