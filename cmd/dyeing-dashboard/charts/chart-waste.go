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
)

var (
	resourceColumns = []string{"steam_ton", "power_kwh", "water_ton"}
	resourceColors  = []string{datamodel.ColorIdle, datamodel.ColorRepair, datamodel.ColorRunning}
)

type resourceGroup struct {
	title string
	table *datamodel.Table
	row   int
}

// MachineWaste draws the average, best and worst consumption as three bar
// groups on a shared y range.
func MachineWaste(period string, d datamodel.ChartPeriodDict, o Options) Figure {
	pt := d.Period(period)
	labels := o.Language.Resource
	name := o.periodName(period)

	var groups []resourceGroup
	for i, role := range []string{datamodel.RoleAvg, datamodel.RoleBest, datamodel.RoleWorst} {
		t := pt.Table(role)
		if t.IsEmpty() {
			return NoData(period, o)
		}
		if len(t.HasColumns(resourceColumns...)) > 0 {
			return DataError(o)
		}
		title := fmt.Sprintf("%s-%s", name, labels.SubplotTitles[i])
		if role != datamodel.RoleAvg {
			title += ": " + t.Get(0, "machine_name").String()
		}
		groups = append(groups, resourceGroup{title: title, table: t})
	}
	return resourceFigure(fmt.Sprintf("%s - %s", labels.MainTitle, name), groups, true, o)
}

// MachineWasteDetail is the summary followed by one figure per three
// machines, each with its own y range.
func MachineWasteDetail(period string, d datamodel.ChartPeriodDict, o Options) []Figure {
	figures := []Figure{MachineWaste(period, d, o)}
	all := d.Period(period).Table(datamodel.RoleAllMachine)
	if all.IsEmpty() || len(all.HasColumns(resourceColumns...)) > 0 {
		return figures
	}
	for _, tr := range triples(all.Len()) {
		var groups []resourceGroup
		for i := tr[0]; i < tr[1]; i++ {
			groups = append(groups, resourceGroup{title: all.Get(i, "machine_name").String(), table: all, row: i})
		}
		figures = append(figures, resourceFigure("", groups, false, o))
	}
	return figures
}

func resourceFigure(title string, groups []resourceGroup, legend bool, o Options) Figure {
	f := Figure{Layout: baseLayout(o, title)}
	f.Layout.ShowLegend = boolPtr(legend)
	f.Layout.BarMode = "group"

	var values []float64
	for _, g := range groups {
		for _, c := range resourceColumns {
			values = append(values, g.table.Get(g.row, c).FloatOr(0))
		}
	}
	top := upperBound(values, 1.1, 1)

	metrics := o.Language.Resource.Metrics
	cols := columnDomains(3, 0.06)
	for i, g := range groups {
		xref, yref := axisRefs(i)
		for j, c := range resourceColumns {
			v := g.table.Get(g.row, c).FloatOr(0)
			f.Data = append(f.Data, Trace{
				Type:         "bar",
				Name:         metrics[j],
				X:            []interface{}{metrics[j]},
				Y:            []interface{}{v},
				Text:         []string{fmt.Sprintf("%.2f", v)},
				TextPosition: "auto",
				Marker:       &Marker{Color: resourceColors[j]},
				LegendGroup:  c,
				ShowLegend:   boolPtr(legend && i == 0),
				XAxis:        xref,
				YAxis:        yref,
			})
		}
		setAxes(&f.Layout, i,
			&Axis{Domain: cols[i][:], Anchor: yref, Type: "category", ShowGrid: boolPtr(false), TickFont: &Font{Color: o.foreground()}},
			&Axis{Anchor: xref, Range: []float64{0, top}, ShowGrid: boolPtr(false), TickFont: &Font{Color: o.foreground()}},
		)
		f.Layout.Annotations = append(f.Layout.Annotations, subplotTitle(g.title, cols[i], 1, o))
	}
	return f
}
