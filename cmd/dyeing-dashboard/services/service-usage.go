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

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/database"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

var (
	usageMetrics = []string{"run", "idle", "down", "repair"}
	summaryRoles = []string{datamodel.RoleAvg, datamodel.RoleBest, datamodel.RoleWorst, datamodel.RoleAllMachine}
)

// MachineUsage builds chart 1 for every period of the usage template.
func (a *Assembler) MachineUsage(ctx context.Context) (datamodel.ChartPeriodDict, error) {
	return a.perPeriod(ctx, datamodel.Chart1Key, a.periods(TemplateMachineUsage), summaryRoles,
		func(ctx context.Context, tok database.PeriodToken) (datamodel.PeriodTables, error) {
			raw, err := a.query(ctx, TemplateMachineUsage, map[string]string{"period_replace": tok.Token})
			if err != nil {
				return nil, err
			}
			return BuildMachineUsage(raw)
		})
}

// BuildMachineUsage splits usage rows into the average, the best and worst
// machine by run and all machines sorted by run.
func BuildMachineUsage(raw *datamodel.Table) (datamodel.PeriodTables, error) {
	if err := requireColumns(raw, "run", "order_index"); err != nil {
		return nil, err
	}
	machines := withOrderIndex(raw, orderIndexMachine)

	avg := withOrderIndex(raw, orderIndexAverage)
	if avg.IsEmpty() {
		avg = synthesizeAverage(raw, machines, usageMetrics)
	}

	byRunDesc := sortByColumn(machines, "run", true)
	all := sortByColumn(machines, "run", false)
	return datamodel.PeriodTables{
		datamodel.RoleAvg:        avg,
		datamodel.RoleBest:       byRunDesc.Head(1),
		datamodel.RoleWorst:      all.Head(1),
		datamodel.RoleAllMachine: all,
	}, nil
}

// synthesizeAverage builds a single row with the mean of every metric over
// the machine rows, the period of the first raw row and no machine name.
func synthesizeAverage(raw, machines *datamodel.Table, metrics []string) *datamodel.Table {
	columns := append(append([]string{}, metrics...), "period", "machine_name")
	avg := datamodel.NewTable(columns...)
	row := make([]datamodel.Cell, 0, len(columns))
	for _, m := range metrics {
		row = append(row, mean(machines, m))
	}
	row = append(row, raw.Get(0, "period"), datamodel.Null())
	avg.MustAppend(row...)
	return avg
}
