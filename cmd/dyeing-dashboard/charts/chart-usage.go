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

	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"go.uber.org/zap"
)

var (
	usageColumns = []string{"run", "idle", "down", "repair"}
	usageColors  = []string{datamodel.ColorRunning, datamodel.ColorIdle, datamodel.ColorDown, datamodel.ColorRepair}
)

// MachineUsage draws the average, best and worst usage as three donuts. The
// mobile variant stacks them.
func MachineUsage(period string, d datamodel.ChartPeriodDict, o Options) Figure {
	pt := d.Period(period)
	roles := []string{datamodel.RoleAvg, datamodel.RoleBest, datamodel.RoleWorst}
	rows := make([]*datamodel.Table, len(roles))
	for i, role := range roles {
		t := pt.Table(role)
		if t.IsEmpty() {
			return NoData(period, o)
		}
		if missing := t.HasColumns(usageColumns...); len(missing) > 0 {
			zap.S().Warnf("Usage table %s/%s lacks %v", period, role, missing)
			return DataError(o)
		}
		rows[i] = t
	}

	labels := o.Language.Usage
	name := o.periodName(period)
	titles := []string{
		fmt.Sprintf("%s-%s", name, labels.SubplotTitles[0]),
		fmt.Sprintf("%s-%s: %s", name, labels.SubplotTitles[1], rows[1].Get(0, "machine_name").String()),
		fmt.Sprintf("%s-%s: %s", name, labels.SubplotTitles[2], rows[2].Get(0, "machine_name").String()),
	}

	f := Figure{Layout: baseLayout(o, fmt.Sprintf("%s - %s", labels.MainTitle, name))}
	f.Layout.ShowLegend = boolPtr(true)
	domains := pieDomains(len(rows), o.mobile())
	for i, t := range rows {
		f.Data = append(f.Data, usagePie(t, 0, domains[i], o))
		f.Layout.Annotations = append(f.Layout.Annotations, subplotTitle(titles[i], domains[i].X, domains[i].Y[1], o))
	}
	if o.mobile() {
		f.Layout.Height = 900
		f.Layout.Legend.Y = -0.05
	}
	return f
}

// MachineUsageDetail is the summary followed by one figure per three
// machines. Short triples are padded with transparent pies.
func MachineUsageDetail(period string, d datamodel.ChartPeriodDict, o Options) []Figure {
	figures := []Figure{MachineUsage(period, d, o)}
	all := d.Period(period).Table(datamodel.RoleAllMachine)
	if all.IsEmpty() || len(all.HasColumns(usageColumns...)) > 0 {
		return figures
	}
	domains := pieDomains(3, false)
	for _, tr := range triples(all.Len()) {
		f := Figure{Layout: baseLayout(o, "")}
		f.Layout.ShowLegend = boolPtr(false)
		for slot := 0; slot < 3; slot++ {
			i := tr[0] + slot
			if i >= tr[1] {
				f.Data = append(f.Data, placeholderPie(domains[slot], o))
				continue
			}
			f.Data = append(f.Data, usagePie(all, i, domains[slot], o))
			f.Layout.Annotations = append(f.Layout.Annotations,
				subplotTitle(all.Get(i, "machine_name").String(), domains[slot].X, domains[slot].Y[1], o))
		}
		figures = append(figures, f)
	}
	return figures
}

func usagePie(t *datamodel.Table, i int, domain Domain, o Options) Trace {
	values := make([]float64, len(usageColumns))
	for j, c := range usageColumns {
		values[j] = t.Get(i, c).FloatOr(0)
	}
	return Trace{
		Type:         "pie",
		Labels:       o.Language.Usage.Legend[:],
		Values:       values,
		Hole:         0.3,
		Sort:         boolPtr(false),
		TextInfo:     "percent",
		TextPosition: "inside",
		Marker:       &Marker{Colors: usageColors},
		Domain:       &domain,
	}
}

func placeholderPie(domain Domain, o Options) Trace {
	return Trace{
		Type:       "pie",
		Labels:     o.Language.Usage.Legend[:],
		Values:     []float64{1, 0, 0, 0},
		Hole:       0.3,
		Sort:       boolPtr(false),
		TextInfo:   "none",
		HoverInfo:  "skip",
		Marker:     &Marker{Colors: []string{transparent, transparent, transparent, transparent}},
		ShowLegend: boolPtr(false),
		Domain:     &domain,
	}
}

// pieDomains lays n pies out in a row, or in a column when stacked.
func pieDomains(n int, stacked bool) []Domain {
	out := make([]Domain, n)
	for i, span := range columnDomains(n, 0.05) {
		if stacked {
			// first pie at the top
			out[i] = Domain{X: [2]float64{0, 1}, Y: [2]float64{1 - span[1], 1 - span[0]}}
			continue
		}
		out[i] = Domain{X: span, Y: [2]float64{0, 0.9}}
	}
	return out
}
