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
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/helpers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

func englishOptions(variant string) Options {
	return NewOptions(models.LanguageEnglish, models.ThemeBlack, variant)
}

func productionDict(values ...float64) datamodel.ChartPeriodDict {
	t := datamodel.NewTable("date", "machine_name", "weight_kg", "mmdd")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		day := start.AddDate(0, 0, i)
		t.MustAppend(datamodel.DateTime(day), datamodel.Text("M1"), datamodel.Float(v), datamodel.Text(day.Format("01/02")))
		t.MustAppend(datamodel.DateTime(day), datamodel.Text("M2"), datamodel.Float(1), datamodel.Text(day.Format("01/02")))
	}
	return datamodel.ChartPeriodDict{datamodel.PeriodToday: {datamodel.RoleAllMachine: t}}
}

func TestProductionVolumeEmptyDay(t *testing.T) {
	d := datamodel.ChartPeriodDict{}
	d.EnsurePeriods(datamodel.DefaultPeriods, datamodel.RoleAllMachine)

	f := ProductionVolume(datamodel.PeriodToday, d, englishOptions(models.VariantDesktop))
	assert.True(t, IsPlaceholder(f))
	require.NotNil(t, f.Layout.Title)
	assert.Contains(t, f.Layout.Title.Text, "No data to display")
	require.Len(t, f.Layout.Annotations, 1)
	assert.False(t, *f.Layout.XAxis.Visible)
	assert.False(t, *f.Layout.YAxis.Visible)
}

func TestPlaceholderWithoutMessage(t *testing.T) {
	o := englishOptions(models.VariantDesktop)
	f := Placeholder("", o)
	assert.True(t, IsPlaceholder(f))
	require.NotNil(t, f.Layout.Title)
	assert.Empty(t, f.Layout.Title.Text)
	require.NotNil(t, f.Layout.Title.Font)
	assert.Equal(t, o.foreground(), f.Layout.Title.Font.Color)
}

func TestProductionVolumeSumsMachines(t *testing.T) {
	f := ProductionVolume(datamodel.PeriodToday, productionDict(10, 20, 30), englishOptions(models.VariantDesktop))
	require.Len(t, f.Data, 1)
	assert.Equal(t, []interface{}{"01/01", "01/02", "01/03"}, f.Data[0].X)
	assert.Equal(t, []interface{}{11.0, 21.0, 31.0}, f.Data[0].Y)
	assert.Equal(t, []string{"11", "21", "31"}, f.Data[0].Text)
	assert.Equal(t, "category", f.Layout.XAxis.Type)
	assert.InDelta(t, 31*1.3, f.Layout.YAxis.Range[1], 1e-9)
}

func TestPointLabels(t *testing.T) {
	labels := PointLabels([]float64{5, 9, 1, 9, 3, 1, 4, 2})
	assert.Equal(t, []string{"", "", "", "9", "", "1", "", ""}, labels)

	assert.Equal(t, []string{"1", "2"}, PointLabels([]float64{1, 2}))
}

func TestProductionVolumeDetail(t *testing.T) {
	f := ProductionVolumeDetail(datamodel.PeriodToday, productionDict(10, 20), englishOptions(models.VariantDetail))
	require.Len(t, f.Data, 2)
	assert.Equal(t, "M1", f.Data[0].Name)
	assert.Equal(t, "M2", f.Data[1].Name)
	assert.True(t, *f.Layout.ShowLegend)
}

func TestProductionCards(t *testing.T) {
	cards := ProductionCards(datamodel.PeriodToday, productionDict(10, 20), englishOptions(models.VariantDesktop))
	require.Len(t, cards, 1)
	assert.Equal(t, "32 kg", cards[0].Items[0].Value)
	assert.Equal(t, "16 kg", cards[0].Items[1].Value)
	assert.Equal(t, "M1", cards[0].Items[2].Value)
}

func usageDict() datamodel.ChartPeriodDict {
	cols := []string{"run", "idle", "down", "repair", "machine_name"}
	row := func(name string, run float64) *datamodel.Table {
		return datamodel.NewTable(cols...).MustAppend(datamodel.Float(run), datamodel.Float(10), datamodel.Float(5), datamodel.Float(5), datamodel.Text(name))
	}
	all := datamodel.NewTable(cols...)
	for i, n := range []string{"M1", "M2", "M3", "M4"} {
		all.MustAppend(datamodel.Float(float64(40+i*10)), datamodel.Float(10), datamodel.Float(5), datamodel.Float(5), datamodel.Text(n))
	}
	return datamodel.ChartPeriodDict{datamodel.PeriodToday: {
		datamodel.RoleAvg:        row("", 55),
		datamodel.RoleBest:       row("M4", 70),
		datamodel.RoleWorst:      row("M1", 40),
		datamodel.RoleAllMachine: all,
	}}
}

func TestMachineUsage(t *testing.T) {
	f := MachineUsage(datamodel.PeriodToday, usageDict(), englishOptions(models.VariantDesktop))
	require.Len(t, f.Data, 3)
	for _, tr := range f.Data {
		assert.Equal(t, "pie", tr.Type)
		assert.Equal(t, 0.3, tr.Hole)
		assert.Equal(t, "percent", tr.TextInfo)
		assert.Equal(t, []string{"Running", "Idle", "Down", "Repair"}, tr.Labels)
		assert.Equal(t, usageColors, tr.Marker.Colors)
	}
	assert.Equal(t, []float64{70, 10, 5, 5}, f.Data[1].Values)
	require.Len(t, f.Layout.Annotations, 3)
	assert.Equal(t, "Today-Average", f.Layout.Annotations[0].Text)
	assert.Equal(t, "Today-Best: M4", f.Layout.Annotations[1].Text)
	assert.Equal(t, "Today-Worst: M1", f.Layout.Annotations[2].Text)
	assert.Equal(t, "h", f.Layout.Legend.Orientation)
	assert.Equal(t, transparent, f.Layout.PaperBgColor)
}

func TestMachineUsageMobileStacks(t *testing.T) {
	f := MachineUsage(datamodel.PeriodToday, usageDict(), englishOptions(models.VariantMobile))
	require.Len(t, f.Data, 3)
	assert.Equal(t, [2]float64{0, 1}, f.Data[0].Domain.X)
	assert.Greater(t, f.Data[0].Domain.Y[0], f.Data[2].Domain.Y[0])
}

func TestMachineUsageDetailPadsTriples(t *testing.T) {
	figures := MachineUsageDetail(datamodel.PeriodToday, usageDict(), englishOptions(models.VariantDetail))
	require.Len(t, figures, 3)
	last := figures[2]
	require.Len(t, last.Data, 3)
	assert.Equal(t, "none", last.Data[1].TextInfo)
	assert.Equal(t, "none", last.Data[2].TextInfo)
	assert.Len(t, last.Layout.Annotations, 1)
}

func TestMachineWasteSharesRange(t *testing.T) {
	cols := []string{"machine_name", "steam_ton", "power_kwh", "water_ton"}
	row := func(name string, v float64) *datamodel.Table {
		return datamodel.NewTable(cols...).MustAppend(datamodel.Text(name), datamodel.Float(v), datamodel.Float(v/2), datamodel.Float(v/4))
	}
	d := datamodel.ChartPeriodDict{datamodel.PeriodToday: {
		datamodel.RoleAvg:   row("", 4),
		datamodel.RoleBest:  row("M1", 2),
		datamodel.RoleWorst: row("M2", 8),
	}}

	f := MachineWaste(datamodel.PeriodToday, d, englishOptions(models.VariantDesktop))
	require.Len(t, f.Data, 9)
	for _, y := range []*Axis{f.Layout.YAxis, f.Layout.YAxis2, f.Layout.YAxis3} {
		require.NotNil(t, y)
		assert.InDelta(t, 8.8, y.Range[1], 1e-9)
	}
	legends := 0
	for _, tr := range f.Data {
		if *tr.ShowLegend {
			legends++
		}
	}
	assert.Equal(t, 3, legends)
	assert.Equal(t, []string{"8.00"}, f.Data[6].Text)
	assert.Equal(t, "x3", f.Data[6].XAxis)
	assert.Equal(t, resourceColors[0], f.Data[6].Marker.Color)
}

func TestMachineWasteFloor(t *testing.T) {
	cols := []string{"machine_name", "steam_ton", "power_kwh", "water_ton"}
	zero := datamodel.NewTable(cols...).MustAppend(datamodel.Text("M1"), datamodel.Float(0), datamodel.Float(0), datamodel.Float(0))
	d := datamodel.ChartPeriodDict{datamodel.PeriodToday: {
		datamodel.RoleAvg: zero, datamodel.RoleBest: zero, datamodel.RoleWorst: zero,
	}}
	f := MachineWaste(datamodel.PeriodToday, d, englishOptions(models.VariantDesktop))
	assert.Equal(t, []float64{0, 1}, f.Layout.YAxis.Range)
}

func statusDict(rows int) datamodel.ChartPeriodDict {
	desktop := datamodel.NewTable("machine_name", "state", "batch_no")
	for i := 0; i < rows; i++ {
		state := "running"
		if i%2 == 1 {
			state = "stopped"
		}
		desktop.MustAppend(datamodel.Text(fmt.Sprintf("M%d", i+1)), datamodel.Text(state), datamodel.Text("B"))
	}
	return datamodel.ChartPeriodDict{
		datamodel.VariantDesktop: {datamodel.RoleAllMachine: desktop},
		datamodel.VariantMobile:  {datamodel.RoleAllMachine: desktop.Head(rows)},
	}
}

func TestMachineStatusPagination(t *testing.T) {
	d := statusDict(8)
	o := englishOptions(models.VariantDesktop)

	first := MachineStatus(d, o)
	assert.Equal(t, 2, first.PageCount)
	assert.Len(t, first.Rows, 6)
	assert.Equal(t, []string{datamodel.ColorRunning, datamodel.ColorDown}, first.StateColors[:2])

	o.N = 1
	second := MachineStatus(d, o)
	assert.Equal(t, 1, second.Page)
	assert.Len(t, second.Rows, 2)
	assert.Equal(t, "M7", second.Rows[0][0])

	o.N = 2
	assert.Equal(t, first.Rows, MachineStatus(d, o).Rows)

	mobile := englishOptions(models.VariantMobile)
	assert.Len(t, MachineStatus(d, mobile).Rows, StatusPageSizeMobile)

	detail := englishOptions(models.VariantDetail)
	assert.Len(t, MachineStatus(d, detail).Rows, 8)
}

func TestMachineStatusEmptyHasOnePage(t *testing.T) {
	o := englishOptions(models.VariantDesktop)
	o.N = 7
	table := MachineStatus(datamodel.ChartPeriodDict{}, o)
	assert.Equal(t, 1, table.PageCount)
	assert.Equal(t, 0, table.Page)
	assert.Empty(t, table.Rows)
	assert.NotEmpty(t, table.Empty)

	assert.Equal(t, 0, PageOf(5, 0))
	assert.Equal(t, 1, PageCount(0, StatusPageSizeDesktop))
}

func TestMachineStatusThemeSwitch(t *testing.T) {
	d := statusDict(3)
	black := MachineStatus(d, NewOptions(models.LanguageEnglish, models.ThemeBlack, models.VariantDesktop))
	blue := MachineStatus(d, NewOptions(models.LanguageEnglish, models.ThemeDarkBlue, models.VariantDesktop))

	assert.NotEqual(t, black.Style.Header, blue.Style.Header)
	assert.Equal(t, black.Rows, blue.Rows)
	assert.Equal(t, black.StateColors, blue.StateColors)
}

func window(t *testing.T, timeframe string, now time.Time) datamodel.Window {
	t.Helper()
	w, err := datamodel.WindowFor(timeframe, now)
	require.NoError(t, err)
	return w
}

func TestTicks(t *testing.T) {
	noon := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(day, hour, minute int) float64 {
		return Millis(time.Date(2024, 6, day, hour, minute, 0, 0, time.UTC))
	}

	t.Run("24h aligned", func(t *testing.T) {
		vals, text := Ticks(window(t, datamodel.Timeframe24h, noon))
		require.Len(t, vals, 9)
		assert.Equal(t, at(1, 0, 0), vals[0])
		assert.Equal(t, at(2, 0, 0), vals[8])
		assert.Equal(t, []string{"00:00", "03:00", "06:00", "09:00", "12:00", "15:00", "18:00", "21:00", "00:00"}, text)
	})

	t.Run("24h keeps window start", func(t *testing.T) {
		vals, text := Ticks(window(t, datamodel.Timeframe24h, noon.Add(20*time.Minute)))
		require.Len(t, vals, 9)
		assert.Equal(t, at(1, 0, 20), vals[0])
		assert.Equal(t, "00:20", text[0])
		assert.Equal(t, at(1, 3, 0), vals[1])
		assert.Equal(t, at(2, 0, 0), vals[8])
	})

	t.Run("start skipped when next tick is close", func(t *testing.T) {
		w := datamodel.Window{
			Start: time.Date(2024, 6, 1, 0, 40, 0, 0, time.UTC),
			End:   time.Date(2024, 6, 1, 12, 40, 0, 0, time.UTC),
		}
		vals, text := Ticks(w)
		assert.Equal(t, []string{"01:00", "03:00", "05:00", "07:00", "09:00", "11:00"}, text)
		assert.Equal(t, at(1, 1, 0), vals[0])
	})

	t.Run("end added when aligned", func(t *testing.T) {
		w := datamodel.Window{
			Start: time.Date(2024, 6, 1, 0, 40, 0, 0, time.UTC),
			End:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		}
		_, text := Ticks(w)
		assert.Equal(t, []string{"01:00", "03:00", "05:00", "07:00", "09:00", "11:00", "12:00"}, text)
	})

	t.Run("quarter hours", func(t *testing.T) {
		w := datamodel.Window{
			Start: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC),
		}
		_, text := Ticks(w)
		assert.Equal(t, []string{"10:00", "10:15", "10:30", "10:45", "11:00"}, text)
	})

	t.Run("48h", func(t *testing.T) {
		_, text := Ticks(window(t, datamodel.Timeframe48h, noon))
		assert.Equal(t, []string{"05-31 12:00", "05-31 18:00", "06-01 00:00", "06-01 06:00", "06-01 12:00", "06-01 18:00", "06-02 00:00", "06-02 06:00", "06-02 12:00"}, text)
	})

	t.Run("72h", func(t *testing.T) {
		_, text := Ticks(window(t, datamodel.Timeframe72h, noon))
		assert.Equal(t, []string{"05-31 12:00", "06-01 00:00", "06-01 12:00", "06-02 00:00", "06-02 12:00", "06-03 00:00", "06-03 12:00"}, text)
	})
}

func scheduleDict(t *testing.T, now time.Time, machines int) datamodel.ChartPeriodDict {
	w := window(t, datamodel.Timeframe24h, now)
	all := datamodel.NewTable("machine_name", "start_time", "expected_run_minutes", "batch_no", "state", "expected_end_time", "hex_color")
	for i := machines; i >= 1; i-- {
		start := now.Add(-time.Duration(i) * time.Hour)
		state := "running"
		if i == 1 {
			state = "repair"
		}
		all.MustAppend(datamodel.Text(fmt.Sprintf("M%02d", i)), datamodel.DateTime(start), datamodel.Float(120),
			datamodel.Text(fmt.Sprintf("B%d", i)), datamodel.Text(state), datamodel.DateTime(start.Add(2*time.Hour)), datamodel.Text("#ff0000"))
	}
	return datamodel.ChartPeriodDict{datamodel.Timeframe24h: {
		datamodel.RoleAllMachine: all,
		datamodel.RoleWindow:     w.Table(),
	}}
}

func TestMachineScheduleNowLine(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f := MachineSchedule(datamodel.Timeframe24h, scheduleDict(t, now, 2), englishOptions(models.VariantDesktop))

	require.Len(t, f.Data, 2)
	assert.Equal(t, []float64{Millis(now.Add(-12 * time.Hour)), Millis(now.Add(12 * time.Hour))}, f.Layout.XAxis.Range)
	require.Len(t, f.Layout.Shapes, 1)
	line := f.Layout.Shapes[0]
	assert.Equal(t, Millis(now), line.X0)
	assert.Equal(t, Millis(now), line.X1)
	assert.Equal(t, "dash", line.Line.Dash)

	first := f.Data[0]
	assert.Equal(t, "M01", first.Name)
	assert.Equal(t, "h", first.Orientation)
	assert.Equal(t, []float64{Millis(now.Add(-time.Hour))}, first.Base)
	assert.Equal(t, []interface{}{float64(2 * time.Hour / time.Millisecond)}, first.X)
	assert.Equal(t, []string{"B1"}, first.Text)

	assert.Equal(t, []string{"M02", "M01"}, f.Layout.YAxis.CategoryArray)
	assert.Contains(t, f.Layout.YAxis.TickText[1], datamodel.ColorRepair)
	assert.Contains(t, f.Layout.YAxis.TickText[1], "M01")
	assert.Contains(t, f.Layout.YAxis.TickText[0], datamodel.ColorRunning)
}

func TestMachineSchedulePages(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	d := scheduleDict(t, now, 8)
	o := englishOptions(models.VariantDesktop)

	assert.Len(t, MachineSchedule(datamodel.Timeframe24h, d, o).Data, TimelinePageSizeDesktop)
	o.N = 1
	second := MachineSchedule(datamodel.Timeframe24h, d, o)
	require.Len(t, second.Data, 2)
	assert.Equal(t, "M07", second.Data[0].Name)

	assert.Len(t, MachineSchedule(datamodel.Timeframe24h, d, englishOptions(models.VariantDetail)).Data, 8)
}

func TestMachineScheduleWithoutWindow(t *testing.T) {
	f := MachineSchedule(datamodel.Timeframe48h, datamodel.ChartPeriodDict{}, englishOptions(models.VariantDesktop))
	assert.True(t, IsPlaceholder(f))
}

func idleRow(cols []string, vals ...datamodel.Cell) *datamodel.Table {
	return datamodel.NewTable(cols...).MustAppend(vals...)
}

func TestMachineIdleColorCoherence(t *testing.T) {
	o := englishOptions(models.VariantDesktop)
	o.Reasons = NewReasonMapping(map[string]string{"1": "A", "2": "B", "3": "C"})
	d := datamodel.ChartPeriodDict{datamodel.PeriodToday: {
		datamodel.RoleHighest: idleRow([]string{"machine_name", "sum_hour", "reason1_hour", "reason2_hour"},
			datamodel.Text("M1"), datamodel.Float(5), datamodel.Float(3), datamodel.Float(2)),
		datamodel.RoleLowest: idleRow([]string{"machine_name", "sum_hour", "reason2_hour", "reason3_hour"},
			datamodel.Text("M2"), datamodel.Float(5), datamodel.Float(1), datamodel.Float(4)),
	}}

	f := MachineIdle(datamodel.PeriodToday, d, o)
	require.Len(t, f.Data, 4)

	colors := map[string]map[string]bool{}
	var legend []string
	for _, tr := range f.Data {
		if colors[tr.Name] == nil {
			colors[tr.Name] = map[string]bool{}
		}
		colors[tr.Name][tr.Marker.Color] = true
		assert.Equal(t, tr.Name, tr.LegendGroup)
		if *tr.ShowLegend {
			legend = append(legend, tr.Name)
		}
	}
	for name, set := range colors {
		assert.Len(t, set, 1, name)
	}
	assert.ElementsMatch(t, []string{"A", "B", "C"}, legend)
	assert.True(t, colors["A"][ReasonPalette[0]])
	assert.True(t, colors["B"][ReasonPalette[1]])
	assert.True(t, colors["C"][ReasonPalette[2]])

	assert.InDelta(t, 4.4, f.Layout.YAxis.Range[1], 1e-9)
	assert.Equal(t, f.Layout.YAxis.Range, f.Layout.YAxis2.Range)
	assert.Equal(t, "x2", f.Data[2].XAxis)
}

func TestMachineIdleDetailTopFive(t *testing.T) {
	cols := []string{"machine_name", "sum_hour", "idle_hour"}
	vals := []datamodel.Cell{datamodel.Text("M1"), datamodel.Float(33), datamodel.Float(33)}
	for i, v := range []float64{8, 2, 5, 1, 3, 10, 4} {
		cols = append(cols, fmt.Sprintf("reason%d_hour", i+1))
		vals = append(vals, datamodel.Float(v))
	}
	d := datamodel.ChartPeriodDict{datamodel.PeriodToday: {datamodel.RoleAllMachine: idleRow(cols, vals...)}}

	figures := MachineIdleDetail(datamodel.PeriodToday, d, englishOptions(models.VariantDetail))
	require.Len(t, figures, 1)
	var order []string
	var hours []interface{}
	for _, tr := range figures[0].Data {
		order = append(order, tr.Name)
		hours = append(hours, tr.Y[0])
	}
	assert.Equal(t, []string{"Reason 6", "Reason 1", "Reason 3", "Reason 7", "Reason 5"}, order)
	assert.Equal(t, []interface{}{10.0, 8.0, 5.0, 4.0, 3.0}, hours)
}

func TestMachineIdleEmpty(t *testing.T) {
	d := datamodel.ChartPeriodDict{}
	f := MachineIdle(datamodel.PeriodThisWeek, d, englishOptions(models.VariantDesktop))
	assert.True(t, IsPlaceholder(f))
	assert.Equal(t, "No data to display for This Week", f.Layout.Title.Text)
}

func TestIdleCards(t *testing.T) {
	d := datamodel.ChartPeriodDict{datamodel.PeriodToday: {
		datamodel.RoleOverall: idleRow([]string{"total_sum_hour", "avg_per_machine", "machine_count"},
			datamodel.Float(15), datamodel.Float(4.96), datamodel.Int(3)),
		datamodel.RoleHighest: idleRow([]string{"machine_name", "sum_hour"}, datamodel.Text("M2"), datamodel.Float(9)),
	}}
	cards := IdleCards(datamodel.PeriodToday, d, englishOptions(models.VariantDesktop))
	require.Len(t, cards, 3)
	assert.Equal(t, "15h", cards[0].Items[0].Value)
	assert.Equal(t, "5h", cards[0].Items[1].Value)
	assert.Equal(t, "3", cards[0].Items[2].Value)
	assert.Equal(t, "M2", cards[1].Items[0].Label)
	assert.Equal(t, "-", cards[2].Items[0].Label)
}

func TestRenderChartIsPure(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	d := scheduleDict(t, now, 3)
	o := englishOptions(models.VariantDesktop)
	for _, id := range models.ChartIDs {
		a, err := RenderChart(id, datamodel.Timeframe24h, d, o)
		require.NoError(t, err)
		b, err := RenderChart(id, datamodel.Timeframe24h, d, o)
		require.NoError(t, err)
		assert.Equal(t, a, b, id)
	}
	_, err := RenderChart("chart-9", datamodel.PeriodToday, d, o)
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestParseReasonMapping(t *testing.T) {
	names, err := ParseReasonMapping([]byte("1: 等布\n\"2\": 换缸\n10: Maintenance\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "等布", "2": "换缸", "10": "Maintenance"}, names)

	_, err = ParseReasonMapping([]byte("- a\n- b\n"))
	assert.Error(t, err)

	m := NewReasonMapping(names)
	assert.Equal(t, "Maintenance", m.Name("10", ""))
	assert.Equal(t, "Reason 4", m.Name("4", "Reason %s"))
}

func TestReasonMappingReloads(t *testing.T) {
	helpers.InitTestLogging()
	path := filepath.Join(t.TempDir(), "chart6_reason_txt.yml")
	require.NoError(t, os.WriteFile(path, []byte("1: first\n"), 0o600))

	m, err := LoadReasonMapping(path)
	require.NoError(t, err)
	require.NoError(t, m.Watch())
	t.Cleanup(func() { _ = m.Stop() })
	assert.Equal(t, "first", m.Name("1", ""))

	require.NoError(t, os.WriteFile(path, []byte("1: second\n"), 0o600))
	assert.Eventually(t, func() bool { return m.Name("1", "") == "second" }, 2*time.Second, 20*time.Millisecond)
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(models.Chart3, datamodel.PeriodToday, productionDict(10, 20, 5), englishOptions(models.VariantDesktop))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
	assert.Contains(t, DataURI(png), "data:image/png;base64,")

	_, err = RenderPNG(models.Chart5, datamodel.PeriodToday, productionDict(1), englishOptions(models.VariantDesktop))
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = RenderPNG(models.Chart3, datamodel.PeriodToday, datamodel.ChartPeriodDict{}, englishOptions(models.VariantDesktop))
	assert.ErrorIs(t, err, ErrNothingToDraw)
}
