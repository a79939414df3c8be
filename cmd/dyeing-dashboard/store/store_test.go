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

package store

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/united-manufacturing-hub/dyeing-dashboard/internal"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

func testCharts(weight float64) datamodel.Charts {
	t := datamodel.NewTable("date", "machine_name", "weight_kg")
	t.MustAppend(datamodel.DateTime(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)), datamodel.Text("M1"), datamodel.Float(weight))
	return datamodel.Charts{
		datamodel.Chart3Key: datamodel.ChartPeriodDict{
			datamodel.PeriodToday: datamodel.PeriodTables{datamodel.RoleAllMachine: t},
		},
	}
}

func TestStoreBeforePublish(t *testing.T) {
	s := New(nil, clock.NewMock())
	assert.False(t, s.Ready())
	_, err := s.Current()
	assert.ErrorIs(t, err, ErrNoSnapshot)
	assert.NoError(t, s.Warm(context.Background()))
}

func TestStorePublish(t *testing.T) {
	clk := clock.NewMock()
	clk.Set(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s := New(nil, clk)

	first, err := s.Publish(context.Background(), testCharts(50))
	require.NoError(t, err)
	assert.True(t, s.Ready())
	assert.Equal(t, clk.Now(), first.PublishedAt)
	assert.Len(t, first.Version, 32)
	assert.Contains(t, string(first.Raw), datamodel.Chart3Key)

	same, err := s.Publish(context.Background(), testCharts(50))
	require.NoError(t, err)
	assert.Equal(t, first.Version, same.Version)

	changed, err := s.Publish(context.Background(), testCharts(70))
	require.NoError(t, err)
	assert.NotEqual(t, first.Version, changed.Version)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, changed, cur)
}

func TestSnapshotChart(t *testing.T) {
	var nilSnap *Snapshot
	assert.NotNil(t, nilSnap.Chart(datamodel.Chart1Key))

	snap, err := NewSnapshot(testCharts(10), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Chart(datamodel.Chart3Key).Period(datamodel.PeriodToday).Table(datamodel.RoleAllMachine).Len())
	assert.Empty(t, snap.Chart(datamodel.Chart5Key))
}

func TestStoreWarmStart(t *testing.T) {
	cache := internal.NewMemcache(time.Minute)
	producer := New(cache, clock.NewMock())
	published, err := producer.Publish(context.Background(), testCharts(42))
	require.NoError(t, err)

	restarted := New(cache, clock.NewMock())
	require.NoError(t, restarted.Warm(context.Background()))
	cur, err := restarted.Current()
	require.NoError(t, err)
	assert.Equal(t, published.Version, cur.Version)

	table := cur.Chart(datamodel.Chart3Key).Period(datamodel.PeriodToday).Table(datamodel.RoleAllMachine)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, 42.0, table.Get(0, "weight_kg").FloatOr(0))
	assert.Equal(t, datamodel.KindDateTime, table.Get(0, "date").Kind)
}

func TestStoreWarmWithoutMirror(t *testing.T) {
	s := New(internal.NewMemcache(time.Minute), clock.NewMock())
	assert.ErrorIs(t, s.Warm(context.Background()), ErrNoSnapshot)
}

func TestSnapshotOfInvalid(t *testing.T) {
	_, err := SnapshotOf([]byte("not json"), time.Time{})
	assert.ErrorIs(t, err, datamodel.ErrSerialization)
}

func TestStoreLookupKeepsRecentVersions(t *testing.T) {
	s := New(nil, clock.NewMock())
	_, ok := s.Lookup("")
	assert.False(t, ok)

	first, err := s.Publish(context.Background(), testCharts(1))
	require.NoError(t, err)
	for i := 2; i <= HistorySize+1; i++ {
		_, err = s.Publish(context.Background(), testCharts(float64(i)))
		require.NoError(t, err)
	}
	_, ok = s.Lookup(first.Version)
	assert.False(t, ok, "the oldest version is evicted")

	current, err := s.Current()
	require.NoError(t, err)
	got, ok := s.Lookup(current.Version)
	require.True(t, ok)
	assert.Same(t, current, got)

	second, err := NewSnapshot(testCharts(2), time.Time{})
	require.NoError(t, err)
	got, ok = s.Lookup(second.Version)
	require.True(t, ok)
	assert.Equal(t, second.Raw, got.Raw)
}
