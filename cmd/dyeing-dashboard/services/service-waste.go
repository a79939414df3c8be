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

// WasteMetrics are ranked in this order.
var WasteMetrics = []string{"steam_ton", "power_kwh", "water_ton"}

// MachineWaste builds chart 4 for every period of the waste template.
func (a *Assembler) MachineWaste(ctx context.Context) (datamodel.ChartPeriodDict, error) {
	return a.perPeriod(ctx, datamodel.Chart4Key, a.periods(TemplateMachineWaste), summaryRoles,
		func(ctx context.Context, tok database.PeriodToken) (datamodel.PeriodTables, error) {
			raw, err := a.query(ctx, TemplateMachineWaste, map[string]string{"period_replace": tok.Token})
			if err != nil {
				return nil, err
			}
			return BuildMachineWaste(raw)
		})
}

// BuildMachineWaste ranks machines by (steam, power, water). The lowest
// consumption is best. Missing values count as 0 for ranking; the
// synthesized average skips them.
func BuildMachineWaste(raw *datamodel.Table) (datamodel.PeriodTables, error) {
	if err := requireColumns(raw, append([]string{"order_index"}, WasteMetrics...)...); err != nil {
		return nil, err
	}
	machines := withOrderIndex(raw, orderIndexMachine)

	avg := withOrderIndex(raw, orderIndexAverage)
	if avg.IsEmpty() {
		avg = synthesizeAverage(raw, machines, WasteMetrics)
	}

	filled := fillNull(machines, 0, WasteMetrics...)
	all := filled.SortStable(func(x, y datamodel.Row) bool {
		return compareTuple(x, y, WasteMetrics) < 0
	})
	worstFirst := filled.SortStable(func(x, y datamodel.Row) bool {
		return compareTuple(x, y, WasteMetrics) > 0
	})
	return datamodel.PeriodTables{
		datamodel.RoleAvg:        avg,
		datamodel.RoleBest:       all.Head(1),
		datamodel.RoleWorst:      worstFirst.Head(1),
		datamodel.RoleAllMachine: all,
	}, nil
}
