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
	"fmt"
	"time"
)

// Window is the span of the timeline around now.
type Window struct {
	Start time.Time
	End   time.Time
	Now   time.Time
}

// Hours is the length of the window.
func (w Window) Hours() float64 { return w.End.Sub(w.Start).Hours() }

var timeframeOffsets = map[string][2]time.Duration{
	Timeframe24h: {-12 * time.Hour, 12 * time.Hour},
	Timeframe48h: {-24 * time.Hour, 24 * time.Hour},
	Timeframe72h: {-24 * time.Hour, 48 * time.Hour},
}

// WindowFor returns the window of timeframe around now.
func WindowFor(timeframe string, now time.Time) (Window, error) {
	off, ok := timeframeOffsets[timeframe]
	if !ok {
		return Window{}, fmt.Errorf("unknown timeframe %q", timeframe)
	}
	now = Naive(now)
	return Window{Start: now.Add(off[0]), End: now.Add(off[1]), Now: now}, nil
}

// Table stores the window as the window role of a timeline period.
func (w Window) Table() *Table {
	return NewTable("window_start", "window_end", "now").
		MustAppend(DateTime(w.Start), DateTime(w.End), DateTime(w.Now))
}

// WindowOf reads the window role back.
func WindowOf(pt PeriodTables) (Window, bool) {
	t := pt.Table(RoleWindow)
	if t.IsEmpty() {
		return Window{}, false
	}
	start, ok1 := t.Get(0, "window_start").Time()
	end, ok2 := t.Get(0, "window_end").Time()
	now, ok3 := t.Get(0, "now").Time()
	if !ok1 || !ok2 || !ok3 {
		return Window{}, false
	}
	return Window{Start: start, End: end, Now: now}, true
}
