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

// Package store holds the latest published chart data. Readers always see
// one complete snapshot; a publication replaces it in a single step.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/goccy/go-json"
	lru "github.com/hashicorp/golang-lru"
	"github.com/united-manufacturing-hub/dyeing-dashboard/internal"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"go.uber.org/zap"
)

// ErrNoSnapshot is returned before the first publication.
var ErrNoSnapshot = errors.New("no snapshot published yet")

// Snapshot is one assembler run in both forms: the tables for the chart
// factories and the serialized all-chart-data-store for the browser.
type Snapshot struct {
	Charts      datamodel.Charts
	Payload     datamodel.StorePayload
	Raw         []byte
	Version     string
	PublishedAt time.Time
}

// Chart returns the dictionary of a chart store key, never nil.
func (s *Snapshot) Chart(key string) datamodel.ChartPeriodDict {
	if s == nil || s.Charts[key] == nil {
		return datamodel.ChartPeriodDict{}
	}
	return s.Charts[key]
}

// HistorySize is the number of recent snapshots that can still be looked up
// by version. A page keeps rendering from the version it holds until its
// next tick.
const HistorySize = 8

type Store struct {
	current atomic.Pointer[Snapshot]
	history *lru.Cache
	cache   *internal.TieredCache
	clock   clock.Clock
}

// New returns an empty store. cache may be nil, then nothing is mirrored.
func New(cache *internal.TieredCache, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.New()
	}
	history, _ := lru.New(HistorySize) //nolint:errcheck // only fails for a size <= 0
	return &Store{cache: cache, clock: clk, history: history}
}

// NewSnapshot serializes charts and fingerprints the result.
func NewSnapshot(charts datamodel.Charts, publishedAt time.Time) (*Snapshot, error) {
	payload, err := datamodel.SerializeCharts(charts)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", datamodel.ErrSerialization, err)
	}
	return &Snapshot{
		Charts:      charts,
		Payload:     payload,
		Raw:         raw,
		Version:     internal.Fingerprint(raw),
		PublishedAt: publishedAt,
	}, nil
}

// Publish replaces the current snapshot with charts and mirrors it.
func (s *Store) Publish(ctx context.Context, charts datamodel.Charts) (*Snapshot, error) {
	snap, err := NewSnapshot(charts, s.clock.Now())
	if err != nil {
		return nil, err
	}
	prev := s.current.Swap(snap)
	s.history.Add(snap.Version, snap)
	if prev != nil && prev.Version == snap.Version {
		zap.S().Debugf("Published snapshot %s (unchanged)", snap.Version)
		return snap, nil
	}
	zap.S().Infof("Published snapshot %s (%d bytes)", snap.Version, len(snap.Raw))
	if s.cache != nil {
		s.cache.Set(ctx, internal.RedisSnapshotKey, snap.Raw)
		s.cache.Set(ctx, internal.RedisSnapshotVersionKey, []byte(snap.Version))
	}
	return snap, nil
}

// Current returns the latest snapshot or ErrNoSnapshot.
func (s *Store) Current() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Lookup returns the snapshot of version if it is the current one or one
// of the last HistorySize publications.
func (s *Store) Lookup(version string) (*Snapshot, bool) {
	if version == "" {
		return nil, false
	}
	if snap := s.current.Load(); snap != nil && snap.Version == version {
		return snap, true
	}
	v, ok := s.history.Get(version)
	if !ok {
		return nil, false
	}
	return v.(*Snapshot), true
}

// Ready reports whether a snapshot has been published.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Warm loads the mirrored snapshot so that a restarted instance serves data
// before its first refresh. A store that already has a snapshot is left alone.
func (s *Store) Warm(ctx context.Context) error {
	if s.cache == nil || s.Ready() {
		return nil
	}
	raw, ok := s.cache.Get(ctx, internal.RedisSnapshotKey)
	if !ok {
		return ErrNoSnapshot
	}
	snap, err := SnapshotOf(raw, s.clock.Now())
	if err != nil {
		return err
	}
	if s.current.CompareAndSwap(nil, snap) {
		s.history.Add(snap.Version, snap)
		zap.S().Infof("Warm started from mirrored snapshot %s", snap.Version)
	}
	return nil
}

// SnapshotOf restores a snapshot from a serialized store. Tables that fail to
// decode are logged and left out.
func SnapshotOf(raw []byte, publishedAt time.Time) (*Snapshot, error) {
	var payload datamodel.StorePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", datamodel.ErrSerialization, err)
	}
	charts, rest := datamodel.DeserializeCharts(payload)
	if len(rest) > 0 {
		zap.S().Warnf("%d chart stores contained values that are not tables", len(rest))
	}
	return &Snapshot{
		Charts:      charts,
		Payload:     payload,
		Raw:         raw,
		Version:     internal.Fingerprint(raw),
		PublishedAt: publishedAt,
	}, nil
}
