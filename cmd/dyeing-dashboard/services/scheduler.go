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

package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/store"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"go.uber.org/zap"
)

var (
	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dyeingdashboard_refresh_duration_seconds",
			Help:    "Duration of a full refresh of all chart stores",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
	refreshFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dyeingdashboard_refresh_failures_total",
			Help: "Refreshes that kept the previous snapshot",
		},
	)
	coalescedTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dyeingdashboard_coalesced_ticks_total",
			Help: "Ticks dropped because the previous refresh was still running",
		},
	)
)

// DefaultRefreshInterval is used when the configured interval is not positive.
const DefaultRefreshInterval = 60 * time.Second

// ChartSource produces a complete set of chart dictionaries.
type ChartSource interface {
	Assemble(ctx context.Context) (datamodel.Charts, error)
}

// Publisher makes a set of charts visible to readers at once.
type Publisher interface {
	Publish(ctx context.Context, charts datamodel.Charts) (*store.Snapshot, error)
}

// Scheduler reruns the assembler periodically and publishes the result.
// A tick that arrives while a refresh is running is dropped.
type Scheduler struct {
	source    ChartSource
	publisher Publisher
	clock     clock.Clock
	interval  time.Duration

	running atomic.Bool
	runs    atomic.Int64
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	once    sync.Once
}

func NewScheduler(source ChartSource, publisher Publisher, clk clock.Clock, interval time.Duration) *Scheduler {
	if clk == nil {
		clk = clock.New()
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Scheduler{
		source:    source,
		publisher: publisher,
		clock:     clk,
		interval:  interval,
	}
}

// Runs returns the number of finished refreshes, failed ones included.
func (s *Scheduler) Runs() int64 { return s.runs.Load() }

// Interval returns the refresh period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Start runs one refresh right away and then one per interval until Stop.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	ticker := s.clock.Ticker(s.interval)
	s.TryRefresh(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.TryRefresh(ctx)
			}
		}
	}()
	zap.S().Infof("Refreshing chart data every %s", s.interval)
}

// TryRefresh starts a refresh in the background unless one is running. It
// reports whether a refresh was started.
func (s *Scheduler) TryRefresh(ctx context.Context) bool {
	if !s.running.CompareAndSwap(false, true) {
		coalescedTicks.Inc()
		zap.S().Debugf("Previous refresh still running, dropping tick")
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.refresh(ctx)
		s.running.Store(false)
		s.runs.Add(1)
	}()
	return true
}

// Refresh runs one refresh synchronously. It returns false without running
// when another refresh is in progress.
func (s *Scheduler) Refresh(ctx context.Context) (bool, error) {
	if !s.running.CompareAndSwap(false, true) {
		coalescedTicks.Inc()
		return false, nil
	}
	err := s.refresh(ctx)
	s.running.Store(false)
	s.runs.Add(1)
	return true, err
}

func (s *Scheduler) refresh(ctx context.Context) error {
	start := s.clock.Now()
	defer func() { refreshDuration.Observe(s.clock.Since(start).Seconds()) }()

	charts, err := s.source.Assemble(ctx)
	if err != nil {
		refreshFailures.Inc()
		zap.S().Errorf("Refresh failed, keeping previous snapshot: %s", err)
		return err
	}
	if _, err = s.publisher.Publish(ctx, charts); err != nil {
		refreshFailures.Inc()
		zap.S().Errorf("Could not publish snapshot, keeping previous one: %s", err)
		return err
	}
	return nil
}

// Stop cancels the running refresh and waits for it, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
