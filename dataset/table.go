package dataset

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrColumnMismatch indicates a row or column whose length does not match
// the table shape.
var ErrColumnMismatch = errors.New("cell count does not match table shape")

// Table is a generic flat tabular representation: named columns over string
// cells. It is the interchange form between datasets, model exports and the
// delimited-file writer.
type Table struct {
	names []string
	rows  [][]string
}

// NewTable creates an empty table with the given column names.
func NewTable(names ...string) *Table {
	return &Table{names: append([]string(nil), names...)}
}

// Names returns the column names.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// AddRow appends a row. The cell count must match the column count.
func (t *Table) AddRow(cells ...string) error {
	if len(cells) != len(t.names) {
		return fmt.Errorf("row has %d cells, want %d: %w", len(cells), len(t.names), ErrColumnMismatch)
	}
	t.rows = append(t.rows, append([]string(nil), cells...))

	return nil
}

// Row returns the i-th row. The returned slice is owned by the table and
// must not be modified.
func (t *Table) Row(i int) []string {
	return t.rows[i]
}

// Rows returns all rows. The returned slices are owned by the table and must
// not be modified.
func (t *Table) Rows() [][]string {
	return t.rows
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx := -1
	for i, n := range t.names {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("table has no column %q", name)
	}

	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}

	return out, nil
}

// FloatColumn returns the named column parsed as float64 values.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		out[i] = v
	}

	return out, nil
}

// AppendColumn appends a column to the right of the table. The cell count
// must match the row count.
func (t *Table) AppendColumn(name string, cells []string) error {
	if len(cells) != len(t.rows) {
		return fmt.Errorf("column %q has %d cells, want %d: %w", name, len(cells), len(t.rows), ErrColumnMismatch)
	}
	t.names = append(t.names, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], cells[i])
	}

	return nil
}

// FormatFloat renders a float64 cell with the shortest representation that
// round-trips exactly through ParseFloat. Exported coefficient tables rely
// on this for lossless re-loading.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FormatInt renders an integer cell.
func FormatInt(v int) string {
	return strconv.Itoa(v)
}
