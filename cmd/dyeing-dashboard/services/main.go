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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/database"
	"github.com/united-manufacturing-hub/dyeing-dashboard/internal"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Template names below the sql directory.
const (
	TemplateMachineUsage         = "1_machine_usage"
	TemplateMachineStatusDesktop = "2_machine_status_desktop"
	TemplateMachineStatusMobile  = "2_machine_status_mobile"
	TemplateProductionVolume     = "3_production_volume"
	TemplateMachineWaste         = "4_machine_waste"
	TemplateMachineSchedule      = "5_machine_schedule"
	TemplateMachineIdle          = "6_machine_idle"
)

var (
	// ErrSchema means a result set lacks a column the chart needs.
	ErrSchema = errors.New("schema error")
	// ErrEmptyData means a query returned no rows.
	ErrEmptyData = errors.New("empty data")
)

// Querier runs SQL templates. *database.Connection implements it.
type Querier interface {
	ExecuteTemplate(ctx context.Context, name string, substitutions map[string]string) (*datamodel.Table, error)
	Periods(name string, defaults []string) ([]database.PeriodToken, error)
}

// Assembler builds the chart period dictionaries of all six charts.
type Assembler struct {
	db       Querier
	clock    clock.Clock
	sem      *semaphore.Weighted
	language string
}

func NewAssembler(db Querier, clk clock.Clock, language string) *Assembler {
	if clk == nil {
		clk = clock.New()
	}
	return &Assembler{
		db:       db,
		clock:    clk,
		sem:      semaphore.NewWeighted(internal.MaxInFlightQueries),
		language: language,
	}
}

// Assemble queries every chart. Failing queries and unexpected result sets
// yield empty tables; only an unreachable database is returned as error, so
// that the caller can keep its previous snapshot.
func (a *Assembler) Assemble(ctx context.Context) (datamodel.Charts, error) {
	start := a.clock.Now()
	builders := []struct {
		key   string
		build func(context.Context) (datamodel.ChartPeriodDict, error)
	}{
		{datamodel.Chart1Key, a.MachineUsage},
		{datamodel.Chart2Key, a.MachineStatus},
		{datamodel.Chart3Key, a.ProductionVolume},
		{datamodel.Chart4Key, a.MachineWaste},
		{datamodel.Chart5Key, a.MachineSchedule},
		{datamodel.Chart6Key, a.MachineIdle},
	}

	results := make([]datamodel.ChartPeriodDict, len(builders))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range builders {
		i, b := i, b
		g.Go(func() error {
			d, err := b.build(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", b.key, err)
			}
			results[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	charts := datamodel.Charts{}
	for i, b := range builders {
		charts[b.key] = results[i]
	}
	zap.S().Debugf("Assembled all charts in %s", a.clock.Since(start))
	return charts, nil
}

// query runs a template under the in-flight limit.
func (a *Assembler) query(ctx context.Context, name string, substitutions map[string]string) (*datamodel.Table, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer a.sem.Release(1)
	t, err := a.db.ExecuteTemplate(ctx, name, substitutions)
	if err != nil {
		return nil, err
	}
	if t.IsEmpty() {
		return t, fmt.Errorf("%w: %s returned no rows", ErrEmptyData, name)
	}
	return t, nil
}

// tolerate logs err and swallows it unless the database is unreachable or
// the context is done.
func tolerate(chart, period string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrConnection), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, database.ErrQuery):
		return err
	case errors.Is(err, ErrEmptyData):
		zap.S().Infof("No data for %s/%s", chart, period)
	default:
		zap.S().Warnf("Using empty tables for %s/%s: %s", chart, period, err)
	}
	return nil
}

func (a *Assembler) periods(name string) []database.PeriodToken {
	tokens, err := a.db.Periods(name, datamodel.DefaultPeriods)
	if err != nil || len(tokens) == 0 {
		zap.S().Warnf("Falling back to default periods for %s: %v", name, err)
		tokens = make([]database.PeriodToken, 0, len(datamodel.DefaultPeriods))
		for _, p := range datamodel.DefaultPeriods {
			tokens = append(tokens, database.PeriodToken{Name: p, Token: p})
		}
	}
	return tokens
}

// perPeriod runs build for every period token concurrently and collects the
// results. A period whose build fails with a tolerated error gets empty
// tables for roles.
func (a *Assembler) perPeriod(
	ctx context.Context,
	chart string,
	tokens []database.PeriodToken,
	roles []string,
	build func(ctx context.Context, token database.PeriodToken) (datamodel.PeriodTables, error),
) (datamodel.ChartPeriodDict, error) {
	var mu sync.Mutex
	out := datamodel.ChartPeriodDict{}
	g, gctx := errgroup.WithContext(ctx)
	for _, tok := range tokens {
		tok := tok
		g.Go(func() error {
			pt, err := build(gctx, tok)
			if err = tolerate(chart, tok.Name, err); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			out[tok.Name] = pt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		names = append(names, t.Name)
	}
	out.EnsurePeriods(names, roles...)
	return out, nil
}

func (a *Assembler) now() time.Time {
	return datamodel.Naive(a.clock.Now())
}
