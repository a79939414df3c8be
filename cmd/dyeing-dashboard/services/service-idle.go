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
	"context"
	"regexp"
	"sort"

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/database"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

// TopReasons is the number of reason columns kept per machine.
const TopReasons = 5

var (
	idleAdminColumns = []string{"central_id", "central_name", "period", "date", "refresh_time", "write_time"}
	idleRoles        = []string{datamodel.RoleAllMachine, datamodel.RoleHighest, datamodel.RoleLowest, datamodel.RoleOverall}
	reasonColumn     = regexp.MustCompile(`^reason(\d+)`)
)

// IsReasonColumn reports whether column holds the hours of one stop reason.
func IsReasonColumn(column string) bool {
	return reasonColumn.MatchString(column)
}

// ReasonCode returns the integer suffix of a reason column as a string.
func ReasonCode(column string) (string, bool) {
	m := reasonColumn.FindStringSubmatch(column)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// MachineIdle builds chart 6 for every period of the idle template.
func (a *Assembler) MachineIdle(ctx context.Context) (datamodel.ChartPeriodDict, error) {
	return a.perPeriod(ctx, datamodel.Chart6Key, a.periods(TemplateMachineIdle), idleRoles,
		func(ctx context.Context, tok database.PeriodToken) (datamodel.PeriodTables, error) {
			raw, err := a.query(ctx, TemplateMachineIdle, map[string]string{"period_replace": tok.Token})
			if err != nil {
				return nil, err
			}
			return BuildMachineIdle(raw)
		})
}

// BuildMachineIdle picks the machines with the highest and lowest idle
// time, keeps their top reasons and computes the overall figures.
func BuildMachineIdle(raw *datamodel.Table) (datamodel.PeriodTables, error) {
	if err := requireColumns(raw, "order_index", "machine_name", "sum_hour"); err != nil {
		return nil, err
	}
	t := raw.Drop(idleAdminColumns...)
	machines := withOrderIndex(t, 0)
	totals := withOrderIndex(t, 1)

	out := datamodel.PeriodTables{
		datamodel.RoleAllMachine: machines,
		datamodel.RoleHighest:    datamodel.NewTable("machine_name", "sum_hour"),
		datamodel.RoleLowest:     datamodel.NewTable("machine_name", "sum_hour"),
		datamodel.RoleOverall:    overallIdle(machines, totals),
	}
	if hi := sortByColumn(machines, "sum_hour", true); !hi.IsEmpty() {
		out[datamodel.RoleHighest] = TopReasonRow(hi, 0, TopReasons)
	}
	if lo := sortByColumn(machines, "sum_hour", false); !lo.IsEmpty() {
		out[datamodel.RoleLowest] = TopReasonRow(lo, 0, TopReasons)
	}
	return out, nil
}

// overallIdle: total_sum_hour is the mean of sum_hour over the total rows,
// not a sum over machines.
func overallIdle(machines, totals *datamodel.Table) *datamodel.Table {
	total := mean(totals, "sum_hour")
	count := machines.Len()
	avg := datamodel.Float(0)
	if v, ok := total.Float64(); ok && count > 0 {
		avg = datamodel.Float(v / float64(count))
	}
	if total.IsNull() {
		total = datamodel.Float(0)
	}
	return datamodel.NewTable("total_sum_hour", "avg_per_machine", "machine_count").
		MustAppend(total, avg, datamodel.Int(int64(count)))
}

// Reason is one non-zero reason column of a machine.
type Reason struct {
	Column string
	Hours  float64
}

// TopReasonsOf returns the n largest non-zero reasons of row i, largest
// first. Equal values keep their column order.
func TopReasonsOf(t *datamodel.Table, i, n int) []Reason {
	var reasons []Reason
	for _, c := range t.Columns {
		if !IsReasonColumn(c) {
			continue
		}
		if v := t.Get(i, c).FloatOr(0); v > 0 {
			reasons = append(reasons, Reason{Column: c, Hours: v})
		}
	}
	sort.SliceStable(reasons, func(a, b int) bool { return reasons[a].Hours > reasons[b].Hours })
	if len(reasons) > n {
		reasons = reasons[:n]
	}
	return reasons
}

// TopReasonRow returns row i reduced to machine_name, sum_hour and its top
// reasons in descending order.
func TopReasonRow(t *datamodel.Table, i, n int) *datamodel.Table {
	reasons := TopReasonsOf(t, i, n)
	columns := []string{"machine_name", "sum_hour"}
	cells := []datamodel.Cell{t.Get(i, "machine_name"), t.Get(i, "sum_hour")}
	for _, r := range reasons {
		columns = append(columns, r.Column)
		cells = append(cells, datamodel.Float(r.Hours))
	}
	return datamodel.NewTable(columns...).MustAppend(cells...)
}

// SortForDetail orders machines by idle_hour descending, then by name. Tables
// without idle_hour are ordered by sum_hour.
func SortForDetail(t *datamodel.Table) *datamodel.Table {
	key := "idle_hour"
	if !t.HasColumn(key) {
		key = "sum_hour"
	}
	return t.SortStable(func(a, b datamodel.Row) bool {
		x, y := a.Get(key).FloatOr(0), b.Get(key).FloatOr(0)
		if x != y {
			return x > y
		}
		return a.Get("machine_name").String() < b.Get("machine_name").String()
	})
}
