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
	"sort"
	"time"

	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

const (
	monthWindowDays = 30
	weekWindowDays  = 7
)

var productionColumns = []string{"date", "machine_name", "weight_kg", "mmdd"}

// ProductionVolume builds chart 3 from a single query of the last days.
func (a *Assembler) ProductionVolume(ctx context.Context) (datamodel.ChartPeriodDict, error) {
	d := datamodel.ChartPeriodDict{}
	raw, err := a.query(ctx, TemplateProductionVolume, nil)
	if err == nil {
		d, err = BuildProductionVolume(raw)
	}
	if err = tolerate(datamodel.Chart3Key, "all", err); err != nil {
		return nil, err
	}
	if d == nil {
		d = datamodel.ChartPeriodDict{}
	}
	d.EnsurePeriods(datamodel.DefaultPeriods, datamodel.RoleAllMachine)
	return d, nil
}

type productionKey struct {
	date    time.Time
	machine string
}

// BuildProductionVolume sums the weight per day and machine and fills every
// missing day and machine pair with 0. today and this_week share the last 7
// days, this_month covers 30 days. Both windows end at the latest date and
// start no earlier than the first observed date.
func BuildProductionVolume(raw *datamodel.Table) (datamodel.ChartPeriodDict, error) {
	if raw == nil || raw.IsEmpty() {
		return nil, ErrEmptyData
	}
	if err := requireColumns(raw, "date", "machine_name", "weight_kg"); err != nil {
		return nil, err
	}

	sums := map[productionKey]float64{}
	machineSet := map[string]bool{}
	var earliest, latest time.Time
	for i := 0; i < raw.Len(); i++ {
		day, ok := parseDay(raw.Get(i, "date"))
		if !ok {
			continue
		}
		machine := raw.Get(i, "machine_name").String()
		machineSet[machine] = true
		sums[productionKey{day, machine}] += raw.Get(i, "weight_kg").FloatOr(0)
		if latest.IsZero() || day.After(latest) {
			latest = day
		}
		if earliest.IsZero() || day.Before(earliest) {
			earliest = day
		}
	}
	if latest.IsZero() {
		return nil, ErrEmptyData
	}

	machines := make([]string, 0, len(machineSet))
	for m := range machineSet {
		machines = append(machines, m)
	}
	sort.Strings(machines)

	week := productionWindow(sums, machines, earliest, latest, weekWindowDays)
	return datamodel.ChartPeriodDict{
		datamodel.PeriodToday:     {datamodel.RoleAllMachine: week},
		datamodel.PeriodThisWeek:  {datamodel.RoleAllMachine: week.Clone()},
		datamodel.PeriodThisMonth: {datamodel.RoleAllMachine: productionWindow(sums, machines, earliest, latest, monthWindowDays)},
	}, nil
}

func productionWindow(sums map[productionKey]float64, machines []string, earliest, latest time.Time, days int) *datamodel.Table {
	start := latest.AddDate(0, 0, -(days - 1))
	if earliest.After(start) {
		start = earliest
	}
	t := datamodel.NewTable(productionColumns...)
	for day := start; !day.After(latest); day = day.AddDate(0, 0, 1) {
		for _, m := range machines {
			t.MustAppend(
				datamodel.DateTime(day),
				datamodel.Text(m),
				datamodel.Float(sums[productionKey{day, m}]),
				datamodel.Text(day.Format("01/02")),
			)
		}
	}
	return t
}

func parseDay(c datamodel.Cell) (time.Time, bool) {
	ts, ok := c.Time()
	if !ok {
		s, isText := c.Str()
		if !isText {
			return time.Time{}, false
		}
		var err error
		if ts, err = datamodel.ParseDate(s); err != nil {
			return time.Time{}, false
		}
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), true
}
