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
	"fmt"
	"time"

	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"golang.org/x/sync/errgroup"
)

const sqlTimeLayout = "2006-01-02 15:04:05"

// defaultActivityColor is used for activities without a usable color.
const defaultActivityColor = "#808080"

var scheduleRequired = []string{"machine_name", "start_time", "expected_run_minutes", "color", "batch_no", "state"}

// MachineSchedule builds chart 5, one query per timeline window.
func (a *Assembler) MachineSchedule(ctx context.Context) (datamodel.ChartPeriodDict, error) {
	now := a.now()
	results := make([]datamodel.PeriodTables, len(datamodel.Timeframes))
	g, gctx := errgroup.WithContext(ctx)
	for i, tf := range datamodel.Timeframes {
		i, tf := i, tf
		g.Go(func() error {
			w, _ := datamodel.WindowFor(tf, now)
			raw, err := a.query(gctx, TemplateMachineSchedule, map[string]string{
				"min_start_time": w.Start.Format(sqlTimeLayout),
				"max_start_time": w.End.Format(sqlTimeLayout),
			})
			var pt datamodel.PeriodTables
			if err == nil {
				pt, err = BuildMachineSchedule(raw, w)
			}
			if err = tolerate(datamodel.Chart5Key, tf, err); err != nil {
				return err
			}
			if pt == nil {
				pt = datamodel.PeriodTables{datamodel.RoleWindow: w.Table()}
			}
			results[i] = pt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := datamodel.ChartPeriodDict{}
	for i, tf := range datamodel.Timeframes {
		out[tf] = results[i]
	}
	out.EnsurePeriods(datamodel.Timeframes, datamodel.RoleAllMachine, datamodel.RoleWindow)
	return out, nil
}

// BuildMachineSchedule drops incomplete activities and derives
// expected_end_time and hex_color.
func BuildMachineSchedule(raw *datamodel.Table, w datamodel.Window) (datamodel.PeriodTables, error) {
	if err := requireColumns(raw, scheduleRequired...); err != nil {
		return nil, err
	}
	complete := raw.Filter(func(r datamodel.Row) bool {
		if _, ok := startTime(r); !ok {
			return false
		}
		for _, c := range scheduleRequired {
			if r.Get(c).IsNull() {
				return false
			}
		}
		_, ok := r.Get("expected_run_minutes").Float64()
		return ok
	})
	withStart := complete.WithColumn("start_time", func(r datamodel.Row) datamodel.Cell {
		ts, _ := startTime(r)
		return datamodel.DateTime(ts)
	})
	withEnd := withStart.WithColumn("expected_end_time", func(r datamodel.Row) datamodel.Cell {
		ts, _ := r.Get("start_time").Time()
		minutes := r.Get("expected_run_minutes").FloatOr(0)
		return datamodel.DateTime(ts.Add(time.Duration(minutes * float64(time.Minute))))
	})
	all := withEnd.WithColumn("hex_color", func(r datamodel.Row) datamodel.Cell {
		return datamodel.Text(HexColor(r.Get("color")))
	})
	return datamodel.PeriodTables{
		datamodel.RoleAllMachine: all,
		datamodel.RoleWindow:     w.Table(),
	}, nil
}

func startTime(r datamodel.Row) (time.Time, bool) {
	c := r.Get("start_time")
	if ts, ok := c.Time(); ok {
		return ts, true
	}
	if s, ok := c.Str(); ok {
		if ts, err := datamodel.ParseDate(s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// HexColor formats the low 24 bits of a signed ARGB integer.
func HexColor(c datamodel.Cell) string {
	v, ok := c.Int64()
	if !ok {
		return defaultActivityColor
	}
	return fmt.Sprintf("#%06x", uint32(v)&0xFFFFFF)
}
