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

// Store keys of the six charts.
const (
	Chart1Key = "chart-1-data-store"
	Chart2Key = "chart-2-data-store"
	Chart3Key = "chart-3-data-store"
	Chart4Key = "chart-4-data-store"
	Chart5Key = "chart-5-data-store"
	Chart6Key = "chart-6-data-store"
)

// ChartKeys lists the store keys in chart order.
var ChartKeys = []string{Chart1Key, Chart2Key, Chart3Key, Chart4Key, Chart5Key, Chart6Key}

// Roles of a table inside one period.
const (
	RoleAvg        = "avg"
	RoleBest       = "best"
	RoleWorst      = "worst"
	RoleAllMachine = "all_machine"
	RoleHighest    = "highest"
	RoleLowest     = "lowest"
	RoleOverall    = "overall"
	// RoleWindow carries window_start, window_end and now for the timeline.
	RoleWindow = "window"
)

// Periods.
const (
	PeriodToday     = "today"
	PeriodThisWeek  = "this_week"
	PeriodThisMonth = "this_month"

	Timeframe24h = "24_hrs"
	Timeframe48h = "48_hrs"
	Timeframe72h = "72_hrs"

	// VariantDesktop and VariantMobile are the period keys of chart 2.
	VariantDesktop = "desktop"
	VariantMobile  = "mobile"
)

var (
	DefaultPeriods = []string{PeriodToday, PeriodThisWeek, PeriodThisMonth}
	Timeframes     = []string{Timeframe24h, Timeframe48h, Timeframe72h}
)

// PeriodTables maps a role to its table.
type PeriodTables map[string]*Table

// Table returns the table of role, or an empty table.
func (p PeriodTables) Table(role string) *Table {
	if t, ok := p[role]; ok && t != nil {
		return t
	}
	return EmptyTable()
}

// ChartPeriodDict maps a period to its role tables.
type ChartPeriodDict map[string]PeriodTables

// Period returns the role tables of period; unknown periods yield an empty
// PeriodTables.
func (d ChartPeriodDict) Period(period string) PeriodTables {
	if p, ok := d[period]; ok && p != nil {
		return p
	}
	return PeriodTables{}
}

// EnsurePeriods adds an empty table for every role missing in every period.
func (d ChartPeriodDict) EnsurePeriods(periods []string, roles ...string) {
	for _, p := range periods {
		pt, ok := d[p]
		if !ok || pt == nil {
			pt = PeriodTables{}
			d[p] = pt
		}
		for _, r := range roles {
			if _, ok := pt[r]; !ok || pt[r] == nil {
				pt[r] = EmptyTable()
			}
		}
	}
}

// Charts is the assembled result for all charts, keyed by store key.
type Charts map[string]ChartPeriodDict
