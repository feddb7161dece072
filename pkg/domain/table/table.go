// Package table holds the loosely typed rows returned by a data source
// before they are checked against an entity schema.
package table

import (
	"github.com/Velocidex/ordereddict"
)

// Table is the materialised result of a "select all rows" query.
// Rows keep the column order reported by the source.
type Table struct {
	Name    string
	Columns []string
	Rows    []*ordereddict.Dict
}

// New creates an empty table with the given columns
func New(name string, columns ...string) *Table {
	return &Table{
		Name:    name,
		Columns: columns,
	}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the column was returned by the source. When the
// source reported no column list, the first row's keys are consulted.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	if len(t.Columns) == 0 && len(t.Rows) > 0 {
		_, pres := t.Rows[0].Get(name)
		return pres
	}
	return false
}

// Append adds a row built from values in column order
func (t *Table) Append(values ...interface{}) *Table {
	row := ordereddict.NewDict()
	for i, c := range t.Columns {
		var v interface{}
		if i < len(values) {
			v = values[i]
		}
		row.Set(c, v)
	}
	t.Rows = append(t.Rows, row)
	return t
}

// AppendRow adds an already built row. Columns are learnt from the first row
// when the table has none.
func (t *Table) AppendRow(row *ordereddict.Dict) {
	if len(t.Columns) == 0 {
		t.Columns = append(t.Columns, row.Keys()...)
	}
	t.Rows = append(t.Rows, row)
}

// ValidName reports whether name is a plain SQL identifier that can be
// placed in a query or URL path without escaping.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
