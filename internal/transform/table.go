package transform

import (
	"fmt"
)

// Kind is the value kind held by a Column.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

// String returns a human-readable name for k.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "timestamp"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Column is a named, typed vector of cells. A nil cell is a null.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// Table is a column-oriented in-memory table.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable creates an empty table with the given columns.
func NewTable(columns ...Column) *Table {
	t := &Table{index: make(map[string]int, len(columns))}
	for _, c := range columns {
		col := c
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, &col)
	}
	return t
}

// Columns returns the columns in source order.
func (t *Table) Columns() []*Column {
	return t.columns
}

// Column looks a column up by exact name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// ColumnNames returns the column names in source order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return t.rows
}

// AppendRow appends one row; values must be in column order.
func (t *Table) AppendRow(values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row %d has %d values, table has %d columns", t.rows, len(values), len(t.columns))
	}
	for i, v := range values {
		t.columns[i].Values = append(t.columns[i].Values, v)
	}
	t.rows++
	return nil
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Values[i]
	}
	return row
}
