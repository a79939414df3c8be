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
	"strconv"

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/services"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ReasonPalette is cycled over the sorted reason names of a figure.
var ReasonPalette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7",
	"#F39C12", "#9B59B6", "#E74C3C", "#2ECC71", "#3498DB",
}

type reasonBar struct {
	name  string
	hours float64
}

type machineReasons struct {
	title string
	bars  []reasonBar
}

// ReasonColors assigns palette colors to the union of names, sorted.
func ReasonColors(names ...[]string) map[string]string {
	union := map[string]bool{}
	for _, group := range names {
		for _, n := range group {
			union[n] = true
		}
	}
	sorted := maps.Keys(union)
	slices.Sort(sorted)
	colors := make(map[string]string, len(sorted))
	for i, n := range sorted {
		colors[n] = ReasonPalette[i%len(ReasonPalette)]
	}
	return colors
}

func reasonBars(t *datamodel.Table, i int, o Options) []reasonBar {
	var bars []reasonBar
	for _, r := range services.TopReasonsOf(t, i, services.TopReasons) {
		code, _ := services.ReasonCode(r.Column)
		bars = append(bars, reasonBar{name: o.Reasons.Name(code, o.Language.Idle.ReasonFallback), hours: r.Hours})
	}
	return bars
}

// MachineIdle draws the top stop reasons of the machines with the longest
// and the shortest idle time side by side.
func MachineIdle(period string, d datamodel.ChartPeriodDict, o Options) Figure {
	pt := d.Period(period)
	labels := o.Language.Idle
	var groups []machineReasons
	total := 0
	for _, role := range []struct {
		name  string
		title string
	}{
		{datamodel.RoleHighest, labels.Highest},
		{datamodel.RoleLowest, labels.Lowest},
	} {
		t := pt.Table(role.name)
		g := machineReasons{title: role.title}
		if !t.IsEmpty() {
			g.title = fmt.Sprintf("%s: %s", role.title, t.Get(0, "machine_name").String())
			g.bars = reasonBars(t, 0, o)
		}
		total += len(g.bars)
		groups = append(groups, g)
	}
	if total == 0 {
		return NoData(period, o)
	}
	return idleFigure(fmt.Sprintf("%s - %s", labels.Title, o.periodName(period)), groups, o)
}

// MachineIdleDetail draws every machine, three per figure, ordered by idle
// time. Colors are assigned per figure.
func MachineIdleDetail(period string, d datamodel.ChartPeriodDict, o Options) []Figure {
	all := d.Period(period).Table(datamodel.RoleAllMachine)
	if all.IsEmpty() {
		return []Figure{NoData(period, o)}
	}
	if len(all.HasColumns("machine_name")) > 0 {
		return []Figure{DataError(o)}
	}
	sorted := services.SortForDetail(all)
	var figures []Figure
	for _, tr := range triples(sorted.Len()) {
		var groups []machineReasons
		for i := tr[0]; i < tr[1]; i++ {
			title := sorted.Get(i, "machine_name").String()
			if h, ok := sorted.Get(i, "sum_hour").Float64(); ok {
				title = fmt.Sprintf("%s (%s%s)", title, strconv.FormatFloat(round1(h), 'f', -1, 64), o.Language.Idle.Hours)
			}
			groups = append(groups, machineReasons{title: title, bars: reasonBars(sorted, i, o)})
		}
		figures = append(figures, idleFigure("", groups, o))
	}
	return figures
}

func idleFigure(title string, groups []machineReasons, o Options) Figure {
	f := Figure{Layout: baseLayout(o, title)}
	f.Layout.ShowLegend = boolPtr(true)

	names := make([][]string, len(groups))
	var values []float64
	for i, g := range groups {
		for _, b := range g.bars {
			names[i] = append(names[i], b.name)
			values = append(values, b.hours)
		}
	}
	colors := ReasonColors(names...)
	top := upperBound(values, 1.1, 10)

	shown := map[string]bool{}
	cols := columnDomains(len(groups), 0.08)
	for i, g := range groups {
		xref, yref := axisRefs(i)
		for _, b := range g.bars {
			f.Data = append(f.Data, Trace{
				Type:         "bar",
				Name:         b.name,
				X:            []interface{}{b.name},
				Y:            []interface{}{b.hours},
				Text:         []string{strconv.FormatFloat(round1(b.hours), 'f', -1, 64)},
				TextPosition: "auto",
				Marker:       &Marker{Color: colors[b.name]},
				LegendGroup:  b.name,
				ShowLegend:   boolPtr(!shown[b.name]),
				XAxis:        xref,
				YAxis:        yref,
			})
			shown[b.name] = true
		}
		setAxes(&f.Layout, i,
			&Axis{Domain: cols[i][:], Anchor: yref, Type: "category", ShowGrid: boolPtr(false), TickFont: &Font{Color: o.foreground()}},
			&Axis{Anchor: xref, Range: []float64{0, top}, ShowGrid: boolPtr(false), TickFont: &Font{Color: o.foreground()}},
		)
		f.Layout.Annotations = append(f.Layout.Annotations, subplotTitle(g.title, cols[i], 1, o))
	}
	return f
}
