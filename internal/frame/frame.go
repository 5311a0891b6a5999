//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package frame provides a small in-memory, column-oriented table used by
// the extract and transform stages.
//
// Cells are one of: nil (missing), string, float64 or time.Time. A column's
// Kind describes which of the non-missing types its cells hold.
package frame

import (
	"fmt"
	"strings"
)

// Kind is the value type held by a column.
type Kind int

const (
	// KindText columns hold string cells.
	KindText Kind = iota
	// KindNumber columns hold float64 cells.
	KindNumber
	// KindDate columns hold time.Time cells.
	KindDate
)

// String returns the kind name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// NullCount returns the number of missing cells.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v == nil {
			n++
		}
	}
	return n
}

// Frame is an ordered set of equal-length columns.
type Frame struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates an empty frame with the given row count.
func New(rows int) *Frame {
	return &Frame{index: make(map[string]int), rows: rows}
}

// FromRecords builds a text frame from a header and string records.
// Every record must have exactly len(header) fields.
func FromRecords(header []string, records [][]string) (*Frame, error) {
	f := New(len(records))
	for i, name := range header {
		values := make([]any, len(records))
		for r, rec := range records {
			if len(rec) != len(header) {
				return nil, fmt.Errorf("record %d has %d fields, expected %d", r+1, len(rec), len(header))
			}
			values[r] = rec[i]
		}
		if err := f.Add(&Column{Name: name, Kind: KindText, Values: values}); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Columns returns the columns in order. The slice must not be modified.
func (f *Frame) Columns() []*Column {
	return f.columns
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the named column, or nil.
func (f *Frame) Column(name string) *Column {
	i, ok := f.index[name]
	if !ok {
		return nil
	}
	return f.columns[i]
}

// Value returns the cell at row for the named column, or nil when the
// column is absent.
func (f *Frame) Value(row int, name string) any {
	c := f.Column(name)
	if c == nil {
		return nil
	}
	return c.Values[row]
}

// Add appends a column. Names must be unique and lengths must match.
func (f *Frame) Add(c *Column) error {
	if _, dup := f.index[c.Name]; dup {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(c.Values) != f.rows {
		return fmt.Errorf("column %q has %d values, expected %d", c.Name, len(c.Values), f.rows)
	}
	f.index[c.Name] = len(f.columns)
	f.columns = append(f.columns, c)
	return nil
}

// Rename changes column names in place. It fails if the result would
// contain duplicate names.
func (f *Frame) Rename(fn func(string) string) error {
	index := make(map[string]int, len(f.columns))
	for i, c := range f.columns {
		name := fn(c.Name)
		if _, dup := index[name]; dup {
			return fmt.Errorf("duplicate column %q after rename", name)
		}
		index[name] = i
	}
	for name, i := range index {
		f.columns[i].Name = name
	}
	f.index = index
	return nil
}

// Drop removes the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := f.columns[:0]
	f.index = make(map[string]int, len(f.columns))
	for _, c := range f.columns {
		if drop[c.Name] {
			continue
		}
		f.index[c.Name] = len(kept)
		kept = append(kept, c)
	}
	f.columns = kept
}

// Filter keeps the rows for which keep returns true, preserving order.
func (f *Frame) Filter(keep func(row int) bool) {
	rows := make([]int, 0, f.rows)
	for r := 0; r < f.rows; r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	for _, c := range f.columns {
		values := make([]any, len(rows))
		for i, r := range rows {
			values[i] = c.Values[r]
		}
		c.Values = values
	}
	f.rows = len(rows)
}

// RowKey encodes the named cells of a row into a comparable string. With no
// names, every column participates.
func (f *Frame) RowKey(row int, names ...string) string {
	var b strings.Builder
	if len(names) == 0 {
		for _, c := range f.columns {
			b.WriteString(Key(c.Values[row]))
			b.WriteByte(0x1f)
		}
		return b.String()
	}
	for _, n := range names {
		b.WriteString(Key(f.Value(row, n)))
		b.WriteByte(0x1f)
	}
	return b.String()
}
