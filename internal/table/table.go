// Package table parses uploaded tabular data (CSV, XLSX, JSON) into a
// column-ordered table of loosely typed records.
package table

import (
	"strings"
)

// Record is a single row keyed by column name.
// Values are string, float64, bool or nil depending on the source format.
type Record map[string]any

// Table is a parsed upload: ordered columns plus rows.
type Table struct {
	Columns []string
	Rows    []Record
}

// New returns an empty table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds a row built from positional values. Missing trailing values are nil.
func (t *Table) Append(values ...any) {
	r := make(Record, len(t.Columns))
	for i, c := range t.Columns {
		if i < len(values) {
			r[c] = values[i]
		} else {
			r[c] = nil
		}
	}
	t.Rows = append(t.Rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column resolves name against the table's columns, ignoring case and
// surrounding whitespace. It returns the column as spelled in the table.
func (t *Table) Column(name string) (string, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for _, c := range t.Columns {
		if strings.ToLower(strings.TrimSpace(c)) == want {
			return c, true
		}
	}
	return "", false
}

