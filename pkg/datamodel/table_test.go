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

package datamodel

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellOf(t *testing.T) {
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.FixedZone("CST", 8*3600))

	assert.Equal(t, Null(), CellOf(nil))
	assert.Equal(t, Int(3), CellOf(int32(3)))
	assert.Equal(t, Int(1), CellOf(true))
	assert.Equal(t, Float(1.5), CellOf(float32(1.5)))
	assert.Equal(t, Text("abc"), CellOf([]byte("abc")))
	assert.Equal(t, Null(), CellOf(math.NaN()))

	c := CellOf(ts)
	got, ok := c.Time()
	require.True(t, ok)
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 12, got.Hour())
}

func TestCellAccessors(t *testing.T) {
	v, ok := Int(4).Float64()
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	_, ok = Text("4").Float64()
	assert.False(t, ok)
	i, ok := Text("4").Int64()
	assert.True(t, ok)
	assert.EqualValues(t, 4, i)

	assert.Equal(t, 7.0, Null().FloatOr(7))
	assert.Equal(t, "2024-01-02 03:04:05", DateTime(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)).String())
	assert.Equal(t, "2.5", Float(2.5).String())
	assert.True(t, Float(2).Equal(Float(2)))
	assert.False(t, Float(2).Equal(Int(2)))
}

func TestTableOperations(t *testing.T) {
	tbl := NewTable("machine_name", "run")
	tbl.MustAppend(Text("A"), Float(30))
	tbl.MustAppend(Text("B"), Float(10))
	tbl.MustAppend(Text("C"), Float(10))
	tbl.MustAppend(Text("D"), Float(50))

	assert.Error(t, tbl.Append(Text("E")))

	sorted := tbl.SortStable(func(a, b Row) bool {
		return a.Get("run").FloatOr(0) < b.Get("run").FloatOr(0)
	})
	names := []string{}
	for _, c := range sorted.Column("machine_name") {
		names = append(names, c.String())
	}
	assert.Equal(t, []string{"B", "C", "A", "D"}, names)
	assert.Equal(t, []int64{1, 2, 0, 3}, sorted.Index)
	assert.Equal(t, Text("A"), tbl.Get(0, "machine_name"), "sorting copies")

	high := tbl.Filter(func(r Row) bool { return r.Get("run").FloatOr(0) > 20 })
	assert.Equal(t, 2, high.Len())
	assert.Equal(t, []int64{0, 3}, high.Index)

	sel, err := tbl.Select("run")
	require.NoError(t, err)
	assert.Equal(t, []string{"run"}, sel.Columns)
	_, err = tbl.Select("idle")
	assert.Error(t, err)

	renamed := tbl.Rename(map[string]string{"machine_name": "机号"})
	assert.True(t, renamed.HasColumn("机号"))
	assert.False(t, tbl.HasColumn("机号"))

	dropped := tbl.Drop("run", "missing")
	assert.Equal(t, []string{"machine_name"}, dropped.Columns)

	doubled := tbl.WithColumn("double", func(r Row) Cell { return Float(r.Get("run").FloatOr(0) * 2) })
	assert.Equal(t, Float(100), doubled.Get(3, "double"))
	assert.Equal(t, []float64{30, 10, 10, 50}, tbl.Floats("run"))
	assert.Equal(t, Null(), tbl.Get(9, "run"))
	assert.Equal(t, []string{"idle"}, tbl.HasColumns("run", "idle"))
}

func TestEnsurePeriods(t *testing.T) {
	d := ChartPeriodDict{PeriodToday: PeriodTables{RoleAvg: NewTable("run")}}
	d.EnsurePeriods(DefaultPeriods, RoleAvg, RoleBest)

	for _, p := range DefaultPeriods {
		require.Contains(t, d, p)
		assert.NotNil(t, d[p][RoleAvg])
		assert.NotNil(t, d[p][RoleBest])
	}
	assert.Equal(t, []string{"run"}, d[PeriodToday][RoleAvg].Columns)
	assert.True(t, d.Period("missing").Table(RoleAvg).IsEmpty())
}

func TestParseState(t *testing.T) {
	assert.Equal(t, RunningState, ParseState("行机"))
	assert.Equal(t, RunningState, ParseState(" Running "))
	assert.Equal(t, StoppedState, ParseState("停機"))
	assert.Equal(t, ShutdownState, ParseState("关机"))
	assert.Equal(t, UnknownState, ParseState("???"))

	assert.Equal(t, ColorDown, ShutdownState.Color())
	assert.Equal(t, ColorIdle, PausedState.Color())
	assert.Equal(t, ColorUnknown, UnknownState.Color())
	assert.Equal(t, []string{"pause", "paused", "暂停", "暫停"}, StateLabels(PausedState))
	assert.Equal(t, "維修", ConvertStateToString(RepairState, "zh_hk"))
	assert.Equal(t, "Running", ConvertStateToString(RunningState, "en"))
}
