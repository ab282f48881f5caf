package record

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Row is one result row with named columns, per-column null checks and typed
// accessors. Values are the raw driver values: nil, int64, float64, bool,
// string, []byte or time.Time.
type Row struct {
	columns []string
	index   map[string]int
	values  []any
}

// NewRow builds a row from column names and matching values.
// It panics if the lengths differ.
func NewRow(columns []string, values []any) *Row {
	if len(columns) != len(values) {
		panic(fmt.Sprintf("record: %d columns but %d values", len(columns), len(values)))
	}
	r := &Row{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		values:  values,
	}
	for i, c := range columns {
		if _, dup := r.index[c]; !dup {
			r.index[c] = i
		}
	}
	return r
}

// scanRow reads the current row of rows.
func scanRow(rows *sql.Rows, columns []string) (*Row, error) {
	values := make([]any, len(columns))
	dests := make([]any, len(columns))
	for i := range values {
		dests[i] = &values[i]
	}
	if err := rows.Scan(dests...); err != nil {
		return nil, fmt.Errorf("scanning row: %w", err)
	}
	return NewRow(columns, values), nil
}

// Columns returns the column names in result order.
func (r *Row) Columns() []string {
	return r.columns
}

// Index returns the position of the named column, or -1 when absent.
func (r *Row) Index(column string) int {
	if i, ok := r.index[column]; ok {
		return i
	}
	return -1
}

// IsNull reports whether column i holds SQL NULL.
func (r *Row) IsNull(i int) bool {
	return r.values[i] == nil
}

// isBlank reports whether column i holds an empty string.
func (r *Row) isBlank(i int) bool {
	switch v := r.values[i].(type) {
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	}
	return false
}

// Int64 returns column i as an integer. Reals must be whole numbers and text
// is parsed as a base-10 integer.
func (r *Row) Int64(i int) (int64, error) {
	switch v := r.values[i].(type) {
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("column %s: %w: %v is not a whole int64", r.columns[i], ErrValueOutOfRange, v)
		}
		return int64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		return parseInt(r.columns[i], v)
	case []byte:
		return parseInt(r.columns[i], string(v))
	default:
		return 0, fmt.Errorf("column %s: cannot read %T as integer", r.columns[i], v)
	}
}

// Float64 returns column i as a real number.
func (r *Row) Float64(i int) (float64, error) {
	switch v := r.values[i].(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case string:
		return parseFloat(r.columns[i], v)
	case []byte:
		return parseFloat(r.columns[i], string(v))
	default:
		return 0, fmt.Errorf("column %s: cannot read %T as real", r.columns[i], v)
	}
}

// Text returns column i as a string. Driver-parsed times are rendered with
// TimestampFormat.
func (r *Row) Text(i int) (string, error) {
	switch v := r.values[i].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.UTC().Format(TimestampFormat), nil
	default:
		return "", fmt.Errorf("column %s: cannot read %T as text", r.columns[i], v)
	}
}

func parseInt(column, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return n, nil
}

func parseFloat(column, s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return f, nil
}
