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
	"math"
	"strconv"
	"time"
)

// CellKind tags the value held by a Cell.
type CellKind uint8

const (
	KindNull CellKind = iota
	KindInt
	KindFloat
	KindText
	KindDateTime
)

// Cell is a single value of a Table.
type Cell struct {
	t    time.Time
	s    string
	f    float64
	i    int64
	Kind CellKind
}

// Null returns an empty cell.
func Null() Cell { return Cell{} }

// Int returns an integer cell.
func Int(v int64) Cell { return Cell{Kind: KindInt, i: v} }

// Float returns a float cell. NaN becomes Null.
func Float(v float64) Cell {
	if math.IsNaN(v) {
		return Null()
	}
	return Cell{Kind: KindFloat, f: v}
}

// Text returns a string cell.
func Text(v string) Cell { return Cell{Kind: KindText, s: v} }

// DateTime returns a timestamp cell. Timestamps are naive: the wall clock is
// kept and the location is dropped.
func DateTime(v time.Time) Cell { return Cell{Kind: KindDateTime, t: Naive(v)} }

// Naive keeps the wall clock of t and moves it to UTC.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

func (c Cell) IsNull() bool { return c.Kind == KindNull }

// IsNumeric is true for Int and Float cells.
func (c Cell) IsNumeric() bool { return c.Kind == KindInt || c.Kind == KindFloat }

// Float64 returns the numeric value; non-numeric cells report false.
func (c Cell) Float64() (float64, bool) {
	switch c.Kind {
	case KindInt:
		return float64(c.i), true
	case KindFloat:
		return c.f, true
	}
	return 0, false
}

// FloatOr returns the numeric value or fallback.
func (c Cell) FloatOr(fallback float64) float64 {
	if v, ok := c.Float64(); ok {
		return v
	}
	return fallback
}

// Int64 returns the integer value; floats are truncated.
func (c Cell) Int64() (int64, bool) {
	switch c.Kind {
	case KindInt:
		return c.i, true
	case KindFloat:
		if math.IsInf(c.f, 0) {
			return 0, false
		}
		return int64(c.f), true
	case KindText:
		v, err := strconv.ParseInt(c.s, 10, 64)
		return v, err == nil
	}
	return 0, false
}

// Time returns the timestamp of a DateTime cell.
func (c Cell) Time() (time.Time, bool) {
	if c.Kind != KindDateTime {
		return time.Time{}, false
	}
	return c.t, true
}

// Str returns the raw string of a Text cell.
func (c Cell) Str() (string, bool) {
	if c.Kind != KindText {
		return "", false
	}
	return c.s, true
}

// String formats the cell for display.
func (c Cell) String() string {
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return strconv.FormatFloat(c.f, 'f', -1, 64)
	case KindText:
		return c.s
	case KindDateTime:
		return c.t.Format("2006-01-02 15:04:05")
	}
	return ""
}

// Equal compares kind and value.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindInt:
		return c.i == o.i
	case KindFloat:
		return c.f == o.f
	case KindText:
		return c.s == o.s
	case KindDateTime:
		return c.t.Equal(o.t)
	}
	return true
}

// Interface returns the plain Go value, used for JSON encoding.
func (c Cell) Interface() interface{} {
	switch c.Kind {
	case KindInt:
		return c.i
	case KindFloat:
		if math.IsInf(c.f, 0) {
			return nil
		}
		return c.f
	case KindText:
		return c.s
	case KindDateTime:
		return c.t.Format(isoLayout)
	}
	return nil
}

// CellOf converts a scanned or decoded Go value.
func CellOf(v interface{}) Cell {
	switch x := v.(type) {
	case nil:
		return Null()
	case Cell:
		return x
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		if x > math.MaxInt64 {
			return Float(float64(x))
		}
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case bool:
		if x {
			return Int(1)
		}
		return Int(0)
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case time.Time:
		return DateTime(x)
	}
	return Null()
}
