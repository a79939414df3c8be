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

package services

import (
	"fmt"
	"math"

	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"gonum.org/v1/gonum/stat"
)

const (
	orderIndexAverage = 0
	orderIndexMachine = 1
)

func requireColumns(t *datamodel.Table, columns ...string) error {
	if missing := t.HasColumns(columns...); len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %v", ErrSchema, missing)
	}
	return nil
}

func withOrderIndex(t *datamodel.Table, idx int64) *datamodel.Table {
	return t.Filter(func(r datamodel.Row) bool {
		v, ok := r.Get("order_index").Int64()
		return ok && v == idx
	})
}

// mean of the numeric cells of column, skipping nulls. No values give Null.
func mean(t *datamodel.Table, column string) datamodel.Cell {
	values := t.Floats(column)
	if len(values) == 0 {
		return datamodel.Null()
	}
	return datamodel.Float(stat.Mean(values, nil))
}

// sortByColumn orders rows by a numeric column. Rows without a value go
// last in both directions; equal rows keep their order.
func sortByColumn(t *datamodel.Table, column string, descending bool) *datamodel.Table {
	return t.SortStable(func(a, b datamodel.Row) bool {
		x, okX := a.Get(column).Float64()
		y, okY := b.Get(column).Float64()
		switch {
		case !okX:
			return false
		case !okY:
			return true
		case descending:
			return x > y
		}
		return x < y
	})
}

// compareTuple compares two rows lexicographically over columns, treating
// missing values as 0.
func compareTuple(a, b datamodel.Row, columns []string) int {
	for _, c := range columns {
		x := a.Get(c).FloatOr(0)
		y := b.Get(c).FloatOr(0)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
	}
	return 0
}

// fillNull replaces null or non-numeric cells of columns with v.
func fillNull(t *datamodel.Table, v float64, columns ...string) *datamodel.Table {
	out := t
	for _, c := range columns {
		if !out.HasColumn(c) {
			continue
		}
		c := c
		out = out.WithColumn(c, func(r datamodel.Row) datamodel.Cell {
			if cell := r.Get(c); cell.IsNumeric() {
				return cell
			}
			return datamodel.Float(v)
		})
	}
	return out
}

// round rounds half away from zero to the given decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
