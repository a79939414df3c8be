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

	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

// maxLabeledPoints is the largest series that gets a label on every point.
const maxLabeledPoints = 7

// DailyWeight is the production of one day summed over machines.
type DailyWeight struct {
	Day    string
	Weight float64
}

// DailyWeights sums weight_kg per mmdd in order of first appearance.
func DailyWeights(t *datamodel.Table) []DailyWeight {
	var out []DailyWeight
	pos := map[string]int{}
	for i := 0; i < t.Len(); i++ {
		day := t.Get(i, "mmdd").String()
		w := t.Get(i, "weight_kg").FloatOr(0)
		if p, ok := pos[day]; ok {
			out[p].Weight += w
			continue
		}
		pos[day] = len(out)
		out = append(out, DailyWeight{Day: day, Weight: w})
	}
	return out
}

// PointLabels labels every point of short series. Longer series only label
// the last maximum and the last minimum.
func PointLabels(values []float64) []string {
	labels := make([]string, len(values))
	if len(values) <= maxLabeledPoints {
		for i, v := range values {
			labels[i] = formatWeight(v)
		}
		return labels
	}
	hi, lo := 0, 0
	for i, v := range values {
		if v >= values[hi] {
			hi = i
		}
		if v <= values[lo] {
			lo = i
		}
	}
	labels[hi] = formatWeight(values[hi])
	labels[lo] = formatWeight(values[lo])
	return labels
}

func formatWeight(v float64) string {
	return strconv.FormatFloat(round1(v), 'f', -1, 64)
}

// ProductionVolume draws the daily production of the period as one line.
func ProductionVolume(period string, d datamodel.ChartPeriodDict, o Options) Figure {
	t := d.Period(period).Table(datamodel.RoleAllMachine)
	if t.IsEmpty() {
		return NoData(period, o)
	}
	if len(t.HasColumns("mmdd", "weight_kg")) > 0 {
		return DataError(o)
	}

	days := DailyWeights(t)
	x := make([]interface{}, len(days))
	y := make([]interface{}, len(days))
	values := make([]float64, len(days))
	for i, dw := range days {
		x[i], y[i], values[i] = dw.Day, dw.Weight, dw.Weight
	}

	f := Figure{Layout: productionLayout(o, fmt.Sprintf("%s - %s", o.Language.Production.Title, o.periodName(period)), values)}
	f.Layout.ShowLegend = boolPtr(false)
	f.Data = []Trace{{
		Type:         "scatter",
		Mode:         "lines+markers+text",
		X:            x,
		Y:            y,
		Text:         PointLabels(values),
		TextPosition: "top right",
		Marker:       &Marker{Color: datamodel.ColorRunning},
		Line:         &Line{Color: datamodel.ColorRunning, Width: 2},
	}}
	return f
}

// ProductionVolumeDetail draws one line per machine.
func ProductionVolumeDetail(period string, d datamodel.ChartPeriodDict, o Options) Figure {
	t := d.Period(period).Table(datamodel.RoleAllMachine)
	if t.IsEmpty() {
		return NoData(period, o)
	}
	if len(t.HasColumns("mmdd", "weight_kg", "machine_name")) > 0 {
		return DataError(o)
	}

	var machines []string
	series := map[string]*Trace{}
	var values []float64
	for i := 0; i < t.Len(); i++ {
		m := t.Get(i, "machine_name").String()
		tr, ok := series[m]
		if !ok {
			machines = append(machines, m)
			tr = &Trace{Type: "scatter", Mode: "lines+markers", Name: m, ShowLegend: boolPtr(true)}
			series[m] = tr
		}
		w := t.Get(i, "weight_kg").FloatOr(0)
		tr.X = append(tr.X, t.Get(i, "mmdd").String())
		tr.Y = append(tr.Y, w)
		values = append(values, w)
	}

	f := Figure{Layout: productionLayout(o, fmt.Sprintf("%s - %s", o.Language.Production.Title, o.periodName(period)), values)}
	f.Layout.ShowLegend = boolPtr(true)
	for _, m := range machines {
		f.Data = append(f.Data, *series[m])
	}
	return f
}

func productionLayout(o Options, title string, values []float64) Layout {
	l := baseLayout(o, title)
	l.Margin = &Margin{L: 30, R: 30, T: 40, B: 20}
	l.XAxis = &Axis{
		Type:      "category",
		ShowGrid:  boolPtr(false),
		ShowLine:  boolPtr(true),
		LineColor: o.foreground(),
		TickFont:  &Font{Color: o.foreground()},
	}
	l.YAxis = &Axis{
		Range:     []float64{0, upperBound(values, 1.3, 10)},
		ShowGrid:  boolPtr(false),
		ShowLine:  boolPtr(true),
		LineColor: o.foreground(),
		TickFont:  &Font{Color: o.foreground()},
	}
	return l
}
