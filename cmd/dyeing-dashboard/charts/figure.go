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

// Package charts turns chart period dictionaries into figure descriptions.
// Every factory is a pure function of its inputs; the same store and the
// same selection always give the same figure.
package charts

import (
	"fmt"

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
)

const (
	// DefaultForeground is the text color on the dark themes.
	DefaultForeground = "#fdfefe"
	transparent       = "rgba(0,0,0,0)"
	gridColor         = "rgba(128,128,128,0.2)"
)

// Figure is rendered by plotly.js on the page. Annotations and shapes are
// part of the layout.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type             string        `json:"type"`
	Name             string        `json:"name,omitempty"`
	X                []interface{} `json:"x,omitempty"`
	Y                []interface{} `json:"y,omitempty"`
	Base             []float64     `json:"base,omitempty"`
	Labels           []string      `json:"labels,omitempty"`
	Values           []float64     `json:"values,omitempty"`
	Hole             float64       `json:"hole,omitempty"`
	Sort             *bool         `json:"sort,omitempty"`
	Mode             string        `json:"mode,omitempty"`
	Orientation      string        `json:"orientation,omitempty"`
	Width            float64       `json:"width,omitempty"`
	Text             []string      `json:"text,omitempty"`
	TextInfo         string        `json:"textinfo,omitempty"`
	TextPosition     string        `json:"textposition,omitempty"`
	InsideTextAnchor string        `json:"insidetextanchor,omitempty"`
	HoverText        []string      `json:"hovertext,omitempty"`
	HoverInfo        string        `json:"hoverinfo,omitempty"`
	Marker           *Marker       `json:"marker,omitempty"`
	Line             *Line         `json:"line,omitempty"`
	LegendGroup      string        `json:"legendgroup,omitempty"`
	ShowLegend       *bool         `json:"showlegend,omitempty"`
	Domain           *Domain       `json:"domain,omitempty"`
	XAxis            string        `json:"xaxis,omitempty"`
	YAxis            string        `json:"yaxis,omitempty"`
}

// Marker holds a single color for bars and lines, or one color per slice or
// segment.
type Marker struct {
	Color  string   `json:"color,omitempty"`
	Colors []string `json:"colors,omitempty"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

type Domain struct {
	X [2]float64 `json:"x"`
	Y [2]float64 `json:"y"`
}

type Font struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

type Title struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Font *Font   `json:"font,omitempty"`
}

type Legend struct {
	Orientation string  `json:"orientation"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor"`
	YAnchor     string  `json:"yanchor"`
	Font        *Font   `json:"font,omitempty"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

type Axis struct {
	Type          string        `json:"type,omitempty"`
	Visible       *bool         `json:"visible,omitempty"`
	Range         []float64     `json:"range,omitempty"`
	Domain        []float64     `json:"domain,omitempty"`
	Anchor        string        `json:"anchor,omitempty"`
	TickMode      string        `json:"tickmode,omitempty"`
	TickVals      []interface{} `json:"tickvals,omitempty"`
	TickText      []string      `json:"ticktext,omitempty"`
	CategoryOrder string        `json:"categoryorder,omitempty"`
	CategoryArray []string      `json:"categoryarray,omitempty"`
	ShowGrid      *bool         `json:"showgrid,omitempty"`
	ShowLine      *bool         `json:"showline,omitempty"`
	ZeroLine      *bool         `json:"zeroline,omitempty"`
	LineColor     string        `json:"linecolor,omitempty"`
	GridColor     string        `json:"gridcolor,omitempty"`
	TickFont      *Font         `json:"tickfont,omitempty"`
}

type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref"`
	YRef      string  `json:"yref"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	XAnchor   string  `json:"xanchor,omitempty"`
	YAnchor   string  `json:"yanchor,omitempty"`
	ShowArrow bool    `json:"showarrow"`
	Font      *Font   `json:"font,omitempty"`
}

type Shape struct {
	Type string  `json:"type"`
	XRef string  `json:"xref"`
	YRef string  `json:"yref"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
	Y0   float64 `json:"y0"`
	Y1   float64 `json:"y1"`
	Line *Line   `json:"line,omitempty"`
}

type Layout struct {
	Title           *Title       `json:"title,omitempty"`
	PaperBgColor    string       `json:"paper_bgcolor"`
	PlotBgColor     string       `json:"plot_bgcolor"`
	Font            Font         `json:"font"`
	ShowLegend      *bool        `json:"showlegend,omitempty"`
	Legend          *Legend      `json:"legend,omitempty"`
	Margin          *Margin      `json:"margin,omitempty"`
	Height          int          `json:"height,omitempty"`
	AutoSize        bool         `json:"autosize"`
	BarMode         string       `json:"barmode,omitempty"`
	BarCornerRadius int          `json:"barcornerradius,omitempty"`
	XAxis           *Axis        `json:"xaxis,omitempty"`
	XAxis2          *Axis        `json:"xaxis2,omitempty"`
	XAxis3          *Axis        `json:"xaxis3,omitempty"`
	YAxis           *Axis        `json:"yaxis,omitempty"`
	YAxis2          *Axis        `json:"yaxis2,omitempty"`
	YAxis3          *Axis        `json:"yaxis3,omitempty"`
	Annotations     []Annotation `json:"annotations,omitempty"`
	Shapes          []Shape      `json:"shapes,omitempty"`
}

// Options carry everything a factory needs besides the data.
type Options struct {
	Language models.Language
	Theme    models.Theme
	Variant  string
	// N is the page turn counter of paginated charts.
	N       int
	Reasons *ReasonMapping
}

// NewOptions resolves language and theme codes.
func NewOptions(language, theme, variant string) Options {
	return Options{
		Language: models.GetLanguage(language),
		Theme:    models.GetTheme(theme),
		Variant:  variant,
	}
}

func (o Options) foreground() string {
	if o.Theme.Text != "" {
		return o.Theme.Text
	}
	return DefaultForeground
}

func (o Options) periodName(period string) string {
	if o.Language.Periods == nil {
		return period
	}
	return o.Language.PeriodName(period)
}

func (o Options) mobile() bool { return o.Variant == models.VariantMobile }

func boolPtr(b bool) *bool { return &b }

func baseLayout(o Options, title string) Layout {
	l := Layout{
		PaperBgColor: transparent,
		PlotBgColor:  transparent,
		Font:         Font{Color: o.foreground()},
		AutoSize:     true,
		Legend: &Legend{
			Orientation: "h",
			X:           0.5,
			Y:           -0.15,
			XAnchor:     "center",
			YAnchor:     "top",
			Font:        &Font{Color: o.foreground()},
		},
	}
	if title != "" {
		l.Title = &Title{Text: title, X: 0.5}
	}
	return l
}

// Placeholder is the figure shown instead of a chart: a single centered
// message and no axes.
func Placeholder(message string, o Options) Figure {
	l := baseLayout(o, "")
	l.Legend = nil
	l.ShowLegend = boolPtr(false)
	l.Title = &Title{Text: message, X: 0.5, Font: &Font{Color: o.foreground()}}
	l.XAxis = &Axis{Visible: boolPtr(false), ShowGrid: boolPtr(false), ZeroLine: boolPtr(false)}
	l.YAxis = &Axis{Visible: boolPtr(false), ShowGrid: boolPtr(false), ZeroLine: boolPtr(false)}
	l.Annotations = []Annotation{{
		Text: message, XRef: "paper", YRef: "paper", X: 0.5, Y: 0.5,
		Font: &Font{Color: o.foreground(), Size: 16},
	}}
	return Figure{Data: []Trace{}, Layout: l}
}

// NoData is the empty state placeholder of period.
func NoData(period string, o Options) Figure {
	format := o.Language.NoData
	if format == "" {
		format = "No data to display for %s"
	}
	return Placeholder(fmt.Sprintf(format, o.periodName(period)), o)
}

// DataError is the placeholder of a table that cannot be drawn.
func DataError(o Options) Figure {
	msg := o.Language.CheckData
	if msg == "" {
		msg = "Please check data availability or report the issue."
	}
	return Placeholder(msg, o)
}

// IsPlaceholder reports whether f carries no traces.
func IsPlaceholder(f Figure) bool { return len(f.Data) == 0 }

// columnDomains splits [0, 1] into n columns with a gap between them.
func columnDomains(n int, gap float64) [][2]float64 {
	out := make([][2]float64, n)
	if n <= 0 {
		return out
	}
	width := (1 - gap*float64(n-1)) / float64(n)
	for i := range out {
		start := float64(i) * (width + gap)
		out[i] = [2]float64{start, start + width}
	}
	return out
}

// subplotTitle places a title above a subplot the way make_subplots does.
func subplotTitle(text string, x [2]float64, y float64, o Options) Annotation {
	return Annotation{
		Text: text, XRef: "paper", YRef: "paper",
		X: (x[0] + x[1]) / 2, Y: y,
		XAnchor: "center", YAnchor: "bottom",
		Font: &Font{Color: o.foreground(), Size: 14},
	}
}

// setAxes assigns the axes of subplot i, counted from 0.
func setAxes(l *Layout, i int, x, y *Axis) {
	switch i {
	case 0:
		l.XAxis, l.YAxis = x, y
	case 1:
		l.XAxis2, l.YAxis2 = x, y
	case 2:
		l.XAxis3, l.YAxis3 = x, y
	}
}

// axisRefs returns the trace references of subplot i.
func axisRefs(i int) (string, string) {
	if i == 0 {
		return "x", "y"
	}
	return fmt.Sprintf("x%d", i+1), fmt.Sprintf("y%d", i+1)
}

// upperBound is factor times the largest value, or floor when nothing is
// positive.
func upperBound(values []float64, factor, floor float64) float64 {
	top := 0.0
	for _, v := range values {
		if v > top {
			top = v
		}
	}
	if top <= 0 {
		return floor
	}
	return top * factor
}

// triples splits n items into groups of three.
func triples(n int) [][2]int {
	var out [][2]int
	for i := 0; i < n; i += 3 {
		end := i + 3
		if end > n {
			end = n
		}
		out = append(out, [2]int{i, end})
	}
	return out
}
