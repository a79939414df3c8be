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
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	t := NewTable("date", "machine_name", "weight_kg", "count", "note")
	t.MustAppend(DateTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), Text("M1"), Float(50.5), Int(3), Null())
	t.MustAppend(DateTime(time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC)), Text("M2"), Float(30), Int(0), Text("x"))
	t.MustAppend(Null(), Text("M3"), Null(), Int(-1), Text(""))
	return t
}

func TestSerializeTableRoundTrip(t *testing.T) {
	in := sampleTable()
	s, err := SerializeTable(in)
	require.NoError(t, err)

	out, err := DeserializeTable(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, []string{"date", "machine_name", "weight_kg", "count", "note"}, out.Columns)

	ts, ok := out.Get(1, "date").Time()
	assert.True(t, ok)
	assert.Equal(t, 8, ts.Hour())
	// 30 serialises as an integer literal but stays a float
	assert.Equal(t, KindFloat, out.Get(1, "weight_kg").Kind)
}

func TestSerializeTableKeepsSubMillisecondTimes(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 123456789, time.UTC)
	w, err := WindowFor(Timeframe24h, now)
	require.NoError(t, err)
	in := w.Table()

	s, err := SerializeTable(in)
	require.NoError(t, err)
	out, err := DeserializeTable(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	whole := NewTable("start_time")
	whole.MustAppend(DateTime(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)))
	s, err = SerializeTable(whole)
	require.NoError(t, err)
	out, err = DeserializeTable(s)
	require.NoError(t, err)
	assert.Equal(t, whole, out)
}

func TestSerializeTableKeepsMixedNumericKinds(t *testing.T) {
	in := NewTable("value")
	in.MustAppend(Int(3))
	in.MustAppend(Float(3))
	in.MustAppend(Float(2.5))
	in.MustAppend(Null())

	s, err := SerializeTable(in)
	require.NoError(t, err)
	out, err := DeserializeTable(s)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, KindInt, out.Get(0, "value").Kind)
	assert.Equal(t, KindFloat, out.Get(1, "value").Kind)
}

func TestSerializeTableKeepsIndex(t *testing.T) {
	in := sampleTable().SortStable(func(a, b Row) bool {
		x, _ := a.Get("count").Int64()
		y, _ := b.Get("count").Int64()
		return x < y
	})
	assert.Equal(t, []int64{2, 1, 0}, in.Index)

	s, err := SerializeTable(in)
	require.NoError(t, err)
	out, err := DeserializeTable(s)
	require.NoError(t, err)
	assert.Equal(t, in.Index, out.Index)
}

func TestSerializeEmptyTable(t *testing.T) {
	s, err := SerializeTable(EmptyTable())
	require.NoError(t, err)
	out, err := DeserializeTable(s)
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
	assert.Equal(t, EmptyTable(), out)

	s, err = SerializeTable(NewTable("a", "b"))
	require.NoError(t, err)
	out, err = DeserializeTable(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Columns)
	assert.Equal(t, 0, out.Len())
}

func TestDeserializeTableWithoutDtypes(t *testing.T) {
	s := `{"columns":["date","machine_name","weight_kg","start_time"],"index":[0],"data":[["2024-01-03T00:00:00.000","M1",70,"2024-06-01 10:00:00"]]}`
	out, err := DeserializeTable(s)
	require.NoError(t, err)

	d, ok := out.Get(0, "date").Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), d)
	st, ok := out.Get(0, "start_time").Time()
	require.True(t, ok)
	assert.Equal(t, 10, st.Hour())
	assert.Equal(t, Int(70), out.Get(0, "weight_kg"))
	assert.Equal(t, Text("M1"), out.Get(0, "machine_name"))
}

func TestDeserializeTableErrors(t *testing.T) {
	for _, s := range []string{
		`not json`,
		`{"index":[0],"data":[[1]]}`,
		`{"columns":["a"],"data":[[1,2]]}`,
		`{"columns":["date"],"dtypes":["datetime64[ns]"],"data":[["yesterday"]]}`,
	} {
		_, err := DeserializeTable(s)
		assert.ErrorIs(t, err, ErrSerialization, s)
	}
}

func TestChartRoundTrip(t *testing.T) {
	in := ChartPeriodDict{
		PeriodToday: PeriodTables{
			RoleAllMachine: sampleTable(),
			RoleAvg:        NewTable("run").MustAppend(Float(12.5)),
		},
		PeriodThisWeek: PeriodTables{RoleAllMachine: EmptyTable()},
	}
	p, err := SerializeChart(in)
	require.NoError(t, err)

	out, rest := DeserializeChart(p)
	assert.Empty(t, rest)
	assert.Equal(t, in, out)
}

func TestDeserializeChartPassesThroughInvalidValues(t *testing.T) {
	p := Payload{
		PeriodToday: {
			RoleAllMachine: json.RawMessage(`"{\"columns\":[\"a\"],\"index\":[0],\"data\":[[1]]}"`),
			"note":         json.RawMessage(`{"free":"form"}`),
			"broken":       json.RawMessage(`"{oops"`),
		},
	}
	out, rest := DeserializeChart(p)
	assert.Equal(t, Int(1), out[PeriodToday][RoleAllMachine].Get(0, "a"))
	assert.JSONEq(t, `{"free":"form"}`, string(rest[PeriodToday]["note"]))
	assert.Equal(t, `"{oops"`, string(rest[PeriodToday]["broken"]))
	assert.NotContains(t, out[PeriodToday], "note")
}

func TestChartsRoundTrip(t *testing.T) {
	in := Charts{
		Chart3Key: ChartPeriodDict{PeriodToday: PeriodTables{RoleAllMachine: sampleTable()}},
		Chart6Key: ChartPeriodDict{PeriodThisMonth: PeriodTables{RoleOverall: NewTable("total_sum_hour").MustAppend(Float(3.25))}},
	}
	sp, err := SerializeCharts(in)
	require.NoError(t, err)

	b, err := json.Marshal(sp)
	require.NoError(t, err)
	var decoded StorePayload
	require.NoError(t, json.Unmarshal(b, &decoded))

	out, rest := DeserializeCharts(decoded)
	assert.Empty(t, rest)
	assert.Equal(t, in, out)
}

func TestIsDateColumn(t *testing.T) {
	for name, want := range map[string]bool{
		"date": true, "start_time": true, "created_at": true, "timestamp_ms": true, "modified": true,
		"machine_name": false, "timeline": false, "weight_kg": false,
	} {
		assert.Equal(t, want, IsDateColumn(name), name)
	}
}
