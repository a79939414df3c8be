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

package charts

import (
	"fmt"
	"math"
	"strconv"

	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

// Card is a block of headline figures next to a chart.
type Card struct {
	Title string     `json:"title"`
	Items []CardItem `json:"items"`
}

type CardItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func formatHours(v float64, unit string) string {
	return strconv.FormatFloat(round1(v), 'f', -1, 64) + unit
}

// ProductionCards summarize the production of a period: total weight, the
// average per day and the machine with the most weight.
func ProductionCards(period string, d datamodel.ChartPeriodDict, o Options) []Card {
	labels := o.Language.Production
	t := d.Period(period).Table(datamodel.RoleAllMachine)
	total := 0.0
	perMachine := map[string]float64{}
	var order []string
	for i := 0; i < t.Len(); i++ {
		w := t.Get(i, "weight_kg").FloatOr(0)
		total += w
		m := t.Get(i, "machine_name").String()
		if _, ok := perMachine[m]; !ok {
			order = append(order, m)
		}
		perMachine[m] += w
	}
	days := len(DailyWeights(t))
	avg := 0.0
	if days > 0 {
		avg = total / float64(days)
	}
	top, topWeight := "-", 0.0
	for _, m := range order {
		if perMachine[m] > topWeight {
			top, topWeight = m, perMachine[m]
		}
	}
	return []Card{{
		Title: fmt.Sprintf("%s - %s", labels.Title, o.periodName(period)),
		Items: []CardItem{
			{Label: labels.TotalWeight, Value: formatWeight(total) + " kg", Color: datamodel.ColorRunning},
			{Label: labels.DailyAverage, Value: formatWeight(avg) + " kg", Color: datamodel.ColorRepair},
			{Label: labels.TopMachine, Value: top, Color: datamodel.ColorIdle},
		},
	}}
}

// IdleCards are the overall idle figures and the highest and lowest machine.
func IdleCards(period string, d datamodel.ChartPeriodDict, o Options) []Card {
	labels := o.Language.Idle
	pt := d.Period(period)
	overall := pt.Table(datamodel.RoleOverall)
	total := overall.Get(0, "total_sum_hour").FloatOr(0)
	avg := overall.Get(0, "avg_per_machine").FloatOr(0)
	count, _ := overall.Get(0, "machine_count").Int64()

	machine := func(role, title string) Card {
		t := pt.Table(role)
		name := "-"
		hours := 0.0
		if !t.IsEmpty() {
			name = t.Get(0, "machine_name").String()
			hours = t.Get(0, "sum_hour").FloatOr(0)
		}
		return Card{Title: title, Items: []CardItem{
			{Label: name, Value: formatHours(hours, labels.Hours), Color: datamodel.ColorDown},
		}}
	}

	return []Card{
		{
			Title: fmt.Sprintf(labels.Overall, o.periodName(period)),
			Items: []CardItem{
				{Label: labels.TotalHours, Value: formatHours(total, labels.Hours), Color: datamodel.ColorRunning},
				{Label: labels.AveragePerUnit, Value: formatHours(avg, labels.Hours), Color: datamodel.ColorRepair},
				{Label: labels.MachineCount, Value: strconv.FormatInt(count, 10), Color: o.foreground()},
			},
		},
		machine(datamodel.RoleHighest, labels.Highest),
		machine(datamodel.RoleLowest, labels.Lowest),
	}
}
