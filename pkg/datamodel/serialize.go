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
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// ErrSerialization is returned when a payload cannot be turned into a Table.
var ErrSerialization = errors.New("serialization error")

// isoLayout keeps every fractional digit, so timestamps survive the round trip.
const isoLayout = "2006-01-02T15:04:05.999999999"

// Column dtypes written next to the data, named like their pandas counterparts.
const (
	DtypeInt      = "int64"
	DtypeFloat    = "float64"
	DtypeObject   = "object"
	DtypeDateTime = "datetime64[ns]"
)

var dateLayouts = []string{
	isoLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Payload is the store form of a ChartPeriodDict: every table is a JSON
// string. Entries that are not tables are kept as they are.
type Payload map[string]map[string]json.RawMessage

// StorePayload is the content of all-chart-data-store.
type StorePayload map[string]Payload

type splitTable struct {
	Columns []string        `json:"columns"`
	Index   []int64         `json:"index"`
	Data    [][]interface{} `json:"data"`
	Dtypes  []string        `json:"dtypes,omitempty"`
}

// SerializeTable encodes a table in split orientation.
func SerializeTable(t *Table) (string, error) {
	if t == nil {
		t = EmptyTable()
	}
	st := splitTable{
		Columns: t.Columns,
		Index:   make([]int64, t.Len()),
		Data:    make([][]interface{}, t.Len()),
		Dtypes:  make([]string, len(t.Columns)),
	}
	if st.Columns == nil {
		st.Columns = []string{}
	}
	for c := range t.Columns {
		st.Dtypes[c] = columnDtype(t, c)
	}
	for i, r := range t.Rows {
		st.Index[i] = t.indexAt(i)
		row := make([]interface{}, len(r))
		for c, cell := range r {
			if st.Dtypes[c] == DtypeObject && cell.Kind == KindFloat {
				row[c] = floatLiteral(cell.f)
				continue
			}
			row[c] = cell.Interface()
		}
		st.Data[i] = row
	}
	b, err := json.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return string(b), nil
}

func columnDtype(t *Table, c int) string {
	kind := KindNull
	for _, r := range t.Rows {
		k := r[c].Kind
		switch {
		case k == KindNull:
			continue
		case kind == KindNull:
			kind = k
		case kind == k:
		default:
			// mixed Int and Float stay apart as object
			return DtypeObject
		}
	}
	switch kind {
	case KindInt:
		return DtypeInt
	case KindFloat:
		return DtypeFloat
	case KindDateTime:
		return DtypeDateTime
	}
	return DtypeObject
}

// floatLiteral writes f with a decimal point so that an object column can
// tell 3.0 from 3 when it is read back.
func floatLiteral(f float64) interface{} {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return json.Number(s)
}

// DeserializeTable decodes a split-orientation table. Without dtypes, date
// columns are recognised by their name.
func DeserializeTable(s string) (*Table, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var st splitTable
	if err := dec.Decode(&st); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if st.Columns == nil {
		return nil, fmt.Errorf("%w: no columns", ErrSerialization)
	}
	if len(st.Dtypes) != 0 && len(st.Dtypes) != len(st.Columns) {
		return nil, fmt.Errorf("%w: %d dtypes for %d columns", ErrSerialization, len(st.Dtypes), len(st.Columns))
	}
	if len(st.Index) != 0 && len(st.Index) != len(st.Data) {
		return nil, fmt.Errorf("%w: %d index entries for %d rows", ErrSerialization, len(st.Index), len(st.Data))
	}

	dtypes := st.Dtypes
	if len(dtypes) == 0 {
		dtypes = make([]string, len(st.Columns))
		for i, c := range st.Columns {
			if IsDateColumn(c) {
				dtypes[i] = DtypeDateTime
			}
		}
	}

	t := &Table{Columns: st.Columns}
	if len(st.Data) > 0 {
		t.Index = make([]int64, len(st.Data))
		t.Rows = make([][]Cell, len(st.Data))
	}
	for i, raw := range st.Data {
		if len(raw) != len(st.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d values for %d columns", ErrSerialization, i, len(raw), len(st.Columns))
		}
		row := make([]Cell, len(raw))
		for c, v := range raw {
			cell, err := decodeCell(v, dtypes[c])
			if err != nil {
				return nil, fmt.Errorf("%w: column %q row %d: %w", ErrSerialization, st.Columns[c], i, err)
			}
			row[c] = cell
		}
		t.Rows[i] = row
		if len(st.Index) > 0 {
			t.Index[i] = st.Index[i]
		} else {
			t.Index[i] = int64(i)
		}
	}
	return t, nil
}

func decodeCell(v interface{}, dtype string) (Cell, error) {
	if v == nil {
		return Null(), nil
	}
	switch dtype {
	case DtypeDateTime:
		s, ok := v.(string)
		if !ok {
			return Null(), fmt.Errorf("expected a date string, got %T", v)
		}
		ts, err := ParseDate(s)
		if err != nil {
			return Null(), err
		}
		return DateTime(ts), nil
	case DtypeFloat:
		if n, ok := v.(json.Number); ok {
			f, err := n.Float64()
			if err != nil {
				return Null(), err
			}
			return Float(f), nil
		}
	case DtypeInt:
		if n, ok := v.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				return Int(i), nil
			}
			f, err := n.Float64()
			if err != nil {
				return Null(), err
			}
			return Float(f), nil
		}
	}
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil && !strings.ContainsAny(x.String(), ".eE") {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Null(), err
		}
		return Float(f), nil
	case string:
		return Text(x), nil
	case bool:
		return CellOf(x), nil
	}
	return Null(), fmt.Errorf("unsupported value %T", v)
}

// ParseDate accepts the ISO forms written by SerializeTable and the plain
// forms returned by the databases.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var ts time.Time
		if ts, err = time.Parse(layout, s); err == nil {
			return Naive(ts), nil
		}
	}
	return time.Time{}, err
}

// IsDateColumn guesses from the name whether a column holds timestamps.
func IsDateColumn(name string) bool {
	n := strings.ToLower(name)
	return n == "date" || n == "datetime" || n == "modified" ||
		strings.HasSuffix(n, "_time") || strings.HasSuffix(n, "_at") ||
		strings.HasPrefix(n, "timestamp")
}

// SerializeChart encodes every table of a chart as a JSON string.
func SerializeChart(d ChartPeriodDict) (Payload, error) {
	out := Payload{}
	for period, roles := range d {
		out[period] = map[string]json.RawMessage{}
		for role, t := range roles {
			s, err := SerializeTable(t)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", period, role, err)
			}
			raw, err := json.Marshal(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
			}
			out[period][role] = raw
		}
	}
	return out, nil
}

// DeserializeChart restores the tables of a payload. Entries that are not
// tables are returned unchanged in the second result and logged.
func DeserializeChart(p Payload) (ChartPeriodDict, Payload) {
	out := ChartPeriodDict{}
	rest := Payload{}
	for period, roles := range p {
		out[period] = PeriodTables{}
		for role, raw := range roles {
			t, err := decodeRaw(raw)
			if err != nil {
				zap.S().Warnf("Could not deserialize %s/%s: %s", period, role, err)
				if rest[period] == nil {
					rest[period] = map[string]json.RawMessage{}
				}
				rest[period][role] = raw
				continue
			}
			out[period][role] = t
		}
	}
	return out, rest
}

func decodeRaw(raw json.RawMessage) (*Table, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return nil, fmt.Errorf("%w: not a table string", ErrSerialization)
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return DeserializeTable(s)
}

// SerializeCharts encodes all charts for the browser store.
func SerializeCharts(c Charts) (StorePayload, error) {
	out := StorePayload{}
	for key, d := range c {
		p, err := SerializeChart(d)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out[key] = p
	}
	return out, nil
}

// DeserializeCharts is the inverse of SerializeCharts.
func DeserializeCharts(sp StorePayload) (Charts, StorePayload) {
	out := Charts{}
	rest := StorePayload{}
	for key, p := range sp {
		d, r := DeserializeChart(p)
		out[key] = d
		if len(r) > 0 {
			rest[key] = r
		}
	}
	return out, rest
}
