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
	"sort"
	"time"

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

// Machines per timeline page.
const (
	TimelinePageSizeDesktop = 6
	TimelinePageSizeMobile  = 4
)

const (
	timelineMinHeight = 400
	timelineRowHeight = 25
	timelineMarginTop = 60
	timelineMarginBot = 60
)

type tickRule struct {
	maxHours float64
	every    time.Duration
	layout   string
}

// tickRules are checked in order; the last one has no upper bound.
var tickRules = []tickRule{
	{1, 15 * time.Minute, "15:04"},
	{6, time.Hour, "15:04"},
	{12, 2 * time.Hour, "15:04"},
	{24, 3 * time.Hour, "15:04"},
	{48, 6 * time.Hour, "01-02 15:04"},
	{0, 12 * time.Hour, "01-02 15:04"},
}

func tickRuleFor(hours float64) tickRule {
	for _, r := range tickRules[:len(tickRules)-1] {
		if hours <= r.maxHours {
			return r
		}
	}
	return tickRules[len(tickRules)-1]
}

// Millis is the position of t on the timeline axis.
func Millis(t time.Time) float64 {
	return float64(datamodel.Naive(t).UnixMilli())
}

// aligned reports whether t sits on a multiple of every within its day.
func aligned(t time.Time, every time.Duration) bool {
	since := t.Sub(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
	return since%every == 0
}

// Ticks computes the x axis ticks of a window. Candidates run from the
// rounded start to the rounded end and are clipped to the window. The start
// of the window is added unless the first candidate is less than an hour
// away; the end is added only when it is aligned.
func Ticks(w datamodel.Window) ([]float64, []string) {
	rule := tickRuleFor(w.Hours())
	type tick struct {
		at    time.Time
		label string
	}
	var ticks []tick
	for t := w.Start.Round(time.Hour); !t.After(w.End.Round(time.Hour)); t = t.Add(rule.every) {
		if t.Before(w.Start) || t.After(w.End) {
			continue
		}
		ticks = append(ticks, tick{t, t.Format(rule.layout)})
	}

	if len(ticks) == 0 || !ticks[0].at.Equal(w.Start) {
		if len(ticks) == 0 || ticks[0].at.Sub(w.Start) >= time.Hour {
			ticks = append([]tick{{w.Start, w.Start.Format(rule.layout)}}, ticks...)
		}
	}
	if aligned(w.End, rule.every) && ticks[len(ticks)-1].at.Before(w.End) {
		ticks = append(ticks, tick{w.End, w.End.Format(rule.layout)})
	}

	seen := map[float64]bool{}
	var vals []float64
	labels := map[float64]string{}
	for _, t := range ticks {
		v := Millis(t.at)
		if seen[v] {
			continue
		}
		seen[v] = true
		vals = append(vals, v)
		labels[v] = t.label
	}
	sort.Float64s(vals)
	text := make([]string, len(vals))
	for i, v := range vals {
		text[i] = labels[v]
	}
	return vals, text
}

type activity struct {
	machine string
	start   time.Time
	end     time.Time
	minutes float64
	color   string
	batch   string
	state   string
	action  string
}

func activities(t *datamodel.Table) []activity {
	out := make([]activity, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		start, ok := t.Get(i, "start_time").Time()
		if !ok {
			continue
		}
		minutes, ok := t.Get(i, "expected_run_minutes").Float64()
		if !ok {
			continue
		}
		end, ok := t.Get(i, "expected_end_time").Time()
		if !ok {
			end = start.Add(time.Duration(minutes * float64(time.Minute)))
		}
		a := activity{
			machine: t.Get(i, "machine_name").String(),
			start:   start,
			end:     end,
			minutes: minutes,
			color:   t.Get(i, "hex_color").String(),
			batch:   t.Get(i, "batch_no").String(),
			state:   t.Get(i, "state").String(),
			action:  "Activity",
		}
		if s := t.Get(i, "action_name").String(); s != "" {
			a.action = s
		}
		if a.color == "" {
			a.color = "#808080"
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].machine != out[j].machine {
			return out[i].machine < out[j].machine
		}
		return out[i].start.Before(out[j].start)
	})
	return out
}

// MachineSchedule draws the activities of a window as horizontal bars with
// a dashed line at now. Desktop and mobile show one page of machines chosen
// by o.N; the detail variant shows every machine.
func MachineSchedule(timeframe string, d datamodel.ChartPeriodDict, o Options) Figure {
	labels := o.Language.Timeline
	pt := d.Period(timeframe)
	w, ok := datamodel.WindowOf(pt)
	if !ok {
		return Placeholder(fmt.Sprintf("%s: %s", labels.DataError, timeframe), o)
	}
	t := pt.Table(datamodel.RoleAllMachine)
	if t.IsEmpty() {
		return Placeholder(labels.NoData, o)
	}
	if missing := t.HasColumns("machine_name", "start_time", "expected_run_minutes", "batch_no", "state"); len(missing) > 0 {
		return Placeholder(fmt.Sprintf("%s: %s %v", labels.DataError, timeframe, missing), o)
	}
	acts := activities(t)
	if len(acts) == 0 {
		return Placeholder(labels.NoData, o)
	}

	var machines []string
	byMachine := map[string][]activity{}
	for _, a := range acts {
		if _, ok := byMachine[a.machine]; !ok {
			machines = append(machines, a.machine)
		}
		byMachine[a.machine] = append(byMachine[a.machine], a)
	}
	machines = timelinePage(machines, o)

	f := Figure{Layout: baseLayout(o, fmt.Sprintf("%s - %s", labels.Title, o.periodName(timeframe)))}
	f.Layout.ShowLegend = boolPtr(false)
	f.Layout.Legend = nil
	f.Layout.BarCornerRadius = 50
	f.Layout.Margin = &Margin{L: 100, R: 40, T: timelineMarginTop, B: timelineMarginBot}

	stateColors := make([]string, len(machines))
	for i, m := range machines {
		acts := byMachine[m]
		stateColors[i] = datamodel.ParseState(acts[0].state).Color()
		tr := Trace{
			Type:             "bar",
			Name:             m,
			Orientation:      "h",
			Width:            0.7,
			Marker:           &Marker{},
			TextPosition:     "inside",
			InsideTextAnchor: "middle",
			HoverInfo:        "text",
			ShowLegend:       boolPtr(false),
		}
		for _, a := range acts {
			tr.Y = append(tr.Y, m)
			tr.Base = append(tr.Base, Millis(a.start))
			tr.X = append(tr.X, Millis(a.end)-Millis(a.start))
			tr.Marker.Colors = append(tr.Marker.Colors, a.color)
			tr.Text = append(tr.Text, a.batch)
			tr.HoverText = append(tr.HoverText, fmt.Sprintf(
				"<b>%s</b><br>%s<br>%s: %s<br>%s<br>%s: %s<br>%.0f min",
				a.machine, a.state, labels.BatchLabel, a.batch, a.action,
				labels.EndLabel, a.end.Format("2006-01-02 15:04:05"), a.minutes))
		}
		f.Data = append(f.Data, tr)
	}

	vals, text := Ticks(w)
	tickVals := make([]interface{}, len(vals))
	for i, v := range vals {
		tickVals[i] = v
	}
	f.Layout.XAxis = &Axis{
		Type:      "linear",
		Range:     []float64{Millis(w.Start), Millis(w.End)},
		TickMode:  "array",
		TickVals:  tickVals,
		TickText:  text,
		ShowLine:  boolPtr(true),
		LineColor: o.foreground(),
		ShowGrid:  boolPtr(true),
		GridColor: gridColor,
		TickFont:  &Font{Color: o.foreground(), Size: 10},
	}

	// reversed so the first machine is at the top; labels follow their
	// machine.
	reversed := make([]string, len(machines))
	yVals := make([]interface{}, len(machines))
	yText := make([]string, len(machines))
	for i := range machines {
		j := len(machines) - 1 - i
		reversed[i] = machines[j]
		yVals[i] = machines[j]
		yText[i] = fmt.Sprintf(`<span style="color:%s">%s</span>`, stateColors[j], machines[j])
	}
	f.Layout.YAxis = &Axis{
		Type:          "category",
		CategoryOrder: "array",
		CategoryArray: reversed,
		TickMode:      "array",
		TickVals:      yVals,
		TickText:      yText,
		ShowLine:      boolPtr(true),
		LineColor:     o.foreground(),
		ShowGrid:      boolPtr(false),
		TickFont:      &Font{Size: 14},
	}

	now := Millis(w.Now)
	f.Layout.Shapes = []Shape{{
		Type: "line", XRef: "x", YRef: "paper",
		X0: now, X1: now, Y0: 0, Y1: 1,
		Line: &Line{Color: o.foreground(), Width: 2, Dash: "dash"},
	}}

	f.Layout.Height = timelineMinHeight
	if h := timelineMarginTop + timelineMarginBot + len(machines)*timelineRowHeight + 50; h > f.Layout.Height {
		f.Layout.Height = h
	}
	return f
}

// TimelineMachines are the machines of a window in drawing order.
func TimelineMachines(timeframe string, d datamodel.ChartPeriodDict) []string {
	var machines []string
	seen := map[string]bool{}
	for _, a := range activities(d.Period(timeframe).Table(datamodel.RoleAllMachine)) {
		if !seen[a.machine] {
			seen[a.machine] = true
			machines = append(machines, a.machine)
		}
	}
	return machines
}

func timelinePage(machines []string, o Options) []string {
	size := TimelinePageSizeDesktop
	switch o.Variant {
	case models.VariantDetail:
		return machines
	case models.VariantMobile:
		size = TimelinePageSizeMobile
	}
	page := PageOf(o.N, PageCount(len(machines), size))
	from := page * size
	to := from + size
	if to > len(machines) {
		to = len(machines)
	}
	return machines[from:to]
}
