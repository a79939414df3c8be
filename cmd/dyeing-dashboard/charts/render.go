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
	"errors"
	"fmt"

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

// ErrUnknownChart is returned for chart ids outside chart-1 to chart-6.
var ErrUnknownChart = errors.New("unknown chart")

// Render is everything the page shows in the slot of one chart.
type Render struct {
	ChartID   string       `json:"chart_id"`
	Period    string       `json:"period"`
	Figures   []Figure     `json:"figures,omitempty"`
	Table     *StatusTable `json:"table,omitempty"`
	Cards     []Card       `json:"cards,omitempty"`
	Page      int          `json:"page"`
	PageCount int          `json:"page_count"`
}

// RenderChart dispatches to the factory of chartID. period is the timeline
// window for chart-5 and ignored for chart-2.
func RenderChart(chartID, period string, d datamodel.ChartPeriodDict, o Options) (Render, error) {
	r := Render{ChartID: chartID, Period: period, PageCount: 1}
	detail := o.Variant == models.VariantDetail

	switch chartID {
	case models.Chart1:
		if detail {
			r.Figures = MachineUsageDetail(period, d, o)
		} else {
			r.Figures = []Figure{MachineUsage(period, d, o)}
		}
	case models.Chart2:
		t := MachineStatus(d, o)
		r.Table = &t
		r.Page, r.PageCount = t.Page, t.PageCount
	case models.Chart3:
		if detail {
			r.Figures = []Figure{ProductionVolumeDetail(period, d, o)}
		} else {
			r.Figures = []Figure{ProductionVolume(period, d, o)}
		}
		r.Cards = ProductionCards(period, d, o)
	case models.Chart4:
		if detail {
			r.Figures = MachineWasteDetail(period, d, o)
		} else {
			r.Figures = []Figure{MachineWaste(period, d, o)}
		}
	case models.Chart5:
		r.Figures = []Figure{MachineSchedule(period, d, o)}
		if !detail {
			size := TimelinePageSizeDesktop
			if o.mobile() {
				size = TimelinePageSizeMobile
			}
			r.PageCount = PageCount(len(TimelineMachines(period, d)), size)
			r.Page = PageOf(o.N, r.PageCount)
		}
	case models.Chart6:
		if detail {
			r.Figures = MachineIdleDetail(period, d, o)
		} else {
			r.Figures = []Figure{MachineIdle(period, d, o)}
		}
		r.Cards = IdleCards(period, d, o)
	default:
		return r, fmt.Errorf("%w: %s", ErrUnknownChart, chartID)
	}
	return r, nil
}
