// Copyright 2023 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datamodel

import (
	"fmt"
	"sort"
)

// Table is an ordered set of named columns with rows of cells. Index keeps
// the position each row had in the result set it was taken from, so that
// filtered and sorted slices still know where they came from.
type Table struct {
	Columns []string
	Index   []int64
	Rows    [][]Cell
}

// NewTable returns an empty table with the given columns.
func NewTable(columns ...string) *Table {
	return &Table{Columns: append([]string{}, columns...)}
}

// EmptyTable has no columns and no rows.
func EmptyTable() *Table {
	return &Table{Columns: []string{}}
}

// Len is the number of rows. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) IsEmpty() bool { return t.Len() == 0 }

// ColumnIndex returns the position of name or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// HasColumns reports the first missing column, if any.
func (t *Table) HasColumns(names ...string) (missing []string) {
	for _, n := range names {
		if !t.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Append adds a row. The index continues from the last row.
func (t *Table) Append(cells ...Cell) error {
	if len(cells) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(cells), len(t.Columns))
	}
	next := int64(len(t.Rows))
	if n := len(t.Index); n > 0 {
		next = t.Index[n-1] + 1
	}
	t.Rows = append(t.Rows, append([]Cell{}, cells...))
	t.Index = append(t.Index, next)
	return nil
}

// MustAppend is Append for rows built in code; it panics on width mismatch.
func (t *Table) MustAppend(cells ...Cell) *Table {
	if err := t.Append(cells...); err != nil {
		panic(err)
	}
	return t
}

// Row gives named access to the i-th row.
func (t *Table) Row(i int) Row { return Row{t: t, i: i} }

// Get returns the cell at row i, column name. Missing columns yield Null.
func (t *Table) Get(i int, name string) Cell {
	c := t.ColumnIndex(name)
	if c < 0 || i < 0 || i >= t.Len() {
		return Null()
	}
	return t.Rows[i][c]
}

// Set replaces a cell; it is a no-op for unknown columns.
func (t *Table) Set(i int, name string, v Cell) {
	c := t.ColumnIndex(name)
	if c < 0 || i < 0 || i >= t.Len() {
		return
	}
	t.Rows[i][c] = v
}

// Column returns the cells of one column.
func (t *Table) Column(name string) []Cell {
	c := t.ColumnIndex(name)
	if c < 0 {
		return nil
	}
	out := make([]Cell, t.Len())
	for i, r := range t.Rows {
		out[i] = r[c]
	}
	return out
}

// Floats returns the numeric values of a column, skipping non-numeric cells.
func (t *Table) Floats(name string) []float64 {
	var out []float64
	for _, c := range t.Column(name) {
		if v, ok := c.Float64(); ok {
			out = append(out, v)
		}
	}
	return out
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: append([]string{}, t.Columns...),
		Index:   append([]int64{}, t.Index...),
		Rows:    make([][]Cell, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]Cell{}, r...)
	}
	return out
}

// Filter keeps the rows for which keep is true, with their original index.
func (t *Table) Filter(keep func(r Row) bool) *Table {
	out := &Table{Columns: append([]string{}, t.Columns...)}
	for i := range t.Rows {
		if keep(t.Row(i)) {
			out.Rows = append(out.Rows, append([]Cell{}, t.Rows[i]...))
			out.Index = append(out.Index, t.indexAt(i))
		}
	}
	return out
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.Len() {
		n = t.Len()
	}
	out := &Table{Columns: append([]string{}, t.Columns...)}
	for i := 0; i < n; i++ {
		out.Rows = append(out.Rows, append([]Cell{}, t.Rows[i]...))
		out.Index = append(out.Index, t.indexAt(i))
	}
	return out
}

// Slice returns rows [from, to).
func (t *Table) Slice(from, to int) *Table {
	if to > t.Len() {
		to = t.Len()
	}
	if from < 0 {
		from = 0
	}
	out := &Table{Columns: append([]string{}, t.Columns...)}
	for i := from; i < to; i++ {
		out.Rows = append(out.Rows, append([]Cell{}, t.Rows[i]...))
		out.Index = append(out.Index, t.indexAt(i))
	}
	return out
}

// SortStable orders the rows by less, keeping the order of equal rows.
func (t *Table) SortStable(less func(a, b Row) bool) *Table {
	out := t.Clone()
	order := make([]int, out.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return less(t.Row(order[a]), t.Row(order[b]))
	})
	rows := make([][]Cell, len(order))
	index := make([]int64, len(order))
	for dst, src := range order {
		rows[dst] = out.Rows[src]
		index[dst] = out.indexAt(src)
	}
	out.Rows, out.Index = rows, index
	return out
}

// Select projects the table onto columns, in that order.
func (t *Table) Select(columns ...string) (*Table, error) {
	if missing := t.HasColumns(columns...); len(missing) > 0 {
		return nil, fmt.Errorf("missing columns %v", missing)
	}
	pos := make([]int, len(columns))
	for i, c := range columns {
		pos[i] = t.ColumnIndex(c)
	}
	out := &Table{Columns: append([]string{}, columns...), Index: append([]int64{}, t.Index...)}
	for _, r := range t.Rows {
		row := make([]Cell, len(pos))
		for i, p := range pos {
			row[i] = r[p]
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// Drop removes the named columns if present.
func (t *Table) Drop(columns ...string) *Table {
	drop := map[string]bool{}
	for _, c := range columns {
		drop[c] = true
	}
	var keep []string
	for _, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, c)
		}
	}
	if keep == nil {
		keep = []string{}
	}
	out, _ := t.Select(keep...)
	return out
}

// Rename changes column names; unknown keys are ignored.
func (t *Table) Rename(names map[string]string) *Table {
	out := t.Clone()
	for i, c := range out.Columns {
		if n, ok := names[c]; ok {
			out.Columns[i] = n
		}
	}
	return out
}

// WithColumn appends a column computed per row, or replaces it if it exists.
func (t *Table) WithColumn(name string, value func(r Row) Cell) *Table {
	out := t.Clone()
	c := out.ColumnIndex(name)
	if c < 0 {
		out.Columns = append(out.Columns, name)
	}
	for i := range out.Rows {
		v := value(t.Row(i))
		if c < 0 {
			out.Rows[i] = append(out.Rows[i], v)
		} else {
			out.Rows[i][c] = v
		}
	}
	return out
}

func (t *Table) indexAt(i int) int64 {
	if i < len(t.Index) {
		return t.Index[i]
	}
	return int64(i)
}

// Row is a view on one row of a Table.
type Row struct {
	t *Table
	i int
}

// Get returns the cell in column name.
func (r Row) Get(name string) Cell { return r.t.Get(r.i, name) }

// Position is the row number inside its table.
func (r Row) Position() int { return r.i }
