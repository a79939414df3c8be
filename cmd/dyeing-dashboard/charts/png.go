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
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/cristalhq/base64"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

var (
	// ErrNoSnapshot means a chart has no server side rendering.
	ErrNoSnapshot = errors.New("chart has no snapshot")
	// ErrNothingToDraw means the period holds no rows.
	ErrNothingToDraw = errors.New("nothing to draw")
)

const (
	snapshotWidth  = 1024
	snapshotHeight = 400
)

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// RenderPNG draws the production trend or the resource bars of a period as
// a PNG image.
func RenderPNG(chartID, period string, d datamodel.ChartPeriodDict, o Options) ([]byte, error) {
	switch chartID {
	case models.Chart3:
		return productionPNG(period, d, o)
	case models.Chart4:
		return wastePNG(period, d, o)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, chartID)
}

// DataURI embeds a PNG in an img tag.
func DataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func productionPNG(period string, d datamodel.ChartPeriodDict, o Options) ([]byte, error) {
	days := DailyWeights(d.Period(period).Table(datamodel.RoleAllMachine))
	if len(days) == 0 {
		return nil, ErrNothingToDraw
	}
	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	ticks := make([]chart.Tick, len(days))
	for i, dw := range days {
		xs[i], ys[i] = float64(i), dw.Weight
		ticks[i] = chart.Tick{Value: float64(i), Label: dw.Day}
	}
	// a line needs two points
	if len(days) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
	}

	green := hexColor(datamodel.ColorRunning)
	ch := chart.Chart{
		Title:      fmt.Sprintf("%s - %s", o.Language.Production.Title, o.periodName(period)),
		Width:      snapshotWidth,
		Height:     snapshotHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			Name:  o.Language.Production.Weight,
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(ys, 1.3, 10)},
		},
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    o.Language.Production.Weight,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: green, StrokeWidth: 2, DotColor: green, DotWidth: 4},
		}},
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render production chart: %w", err)
	}
	return buf.Bytes(), nil
}

func wastePNG(period string, d datamodel.ChartPeriodDict, o Options) ([]byte, error) {
	pt := d.Period(period)
	labels := o.Language.Resource
	var bars []chart.Value
	var values []float64
	for i, role := range []string{datamodel.RoleAvg, datamodel.RoleBest, datamodel.RoleWorst} {
		t := pt.Table(role)
		if t.IsEmpty() {
			continue
		}
		for j, c := range resourceColumns {
			v := t.Get(0, c).FloatOr(0)
			values = append(values, v)
			bars = append(bars, chart.Value{
				Label: fmt.Sprintf("%s %s", labels.SubplotTitles[i], labels.Metrics[j]),
				Value: v,
				Style: chart.Style{FillColor: hexColor(resourceColors[j]), StrokeColor: hexColor(resourceColors[j])},
			})
		}
	}
	if len(bars) == 0 {
		return nil, ErrNothingToDraw
	}

	ch := chart.BarChart{
		Title:      fmt.Sprintf("%s - %s", labels.MainTitle, o.periodName(period)),
		Width:      snapshotWidth,
		Height:     snapshotHeight,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: upperBound(values, 1.1, 1)}},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render resource chart: %w", err)
	}
	return buf.Bytes(), nil
}
