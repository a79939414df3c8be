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

package controllers

import (
	"strconv"

	"github.com/coocood/freecache"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/charts"
	"github.com/united-manufacturing-hub/dyeing-dashboard/internal"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"go.uber.org/zap"
)

var (
	figureCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dyeingdashboard_figure_cache_hits_total",
			Help: "Rendered figures served from the memo",
		},
	)
	figureCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dyeingdashboard_figure_cache_misses_total",
			Help: "Rendered figures that had to be built",
		},
	)
)

// DefaultFigureCacheBytes is the memo size when none is configured.
const DefaultFigureCacheBytes = 32 * 1024 * 1024

// FigureCache memoizes rendered charts per snapshot version and inputs.
// Chart factories are pure, so a key fully determines the output.
type FigureCache struct {
	cache *freecache.Cache
}

func NewFigureCache(sizeBytes int) *FigureCache {
	if sizeBytes <= 0 {
		sizeBytes = DefaultFigureCacheBytes
	}
	return &FigureCache{cache: freecache.NewCache(sizeBytes)}
}

func figureKey(version, chartID, period string, o charts.Options, reasonGen uint64) []byte {
	return internal.AsXXHash(
		[]byte(version),
		[]byte(chartID),
		[]byte(period),
		[]byte(o.Language.Code),
		[]byte(o.Theme.Name),
		[]byte(o.Variant),
		[]byte(strconv.Itoa(o.N)),
		[]byte(strconv.FormatUint(reasonGen, 10)),
	)
}

// Render returns the JSON form of charts.RenderChart. An empty version
// disables the memo, which is used for stores sent by the browser.
func (f *FigureCache) Render(version, chartID, period string, d datamodel.ChartPeriodDict, o charts.Options) (json.RawMessage, error) {
	var key []byte
	if version != "" {
		key = figureKey(version, chartID, period, o, o.Reasons.Generation())
		if b, err := f.cache.Get(key); err == nil {
			figureCacheHits.Inc()
			return b, nil
		}
		figureCacheMisses.Inc()
	}

	r, err := charts.RenderChart(chartID, period, d, o)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	if key != nil {
		if err = f.cache.Set(key, b, 0); err != nil {
			zap.S().Debugf("Not memoizing %s/%s: %s", chartID, period, err)
		}
	}
	return b, nil
}

// Clear drops every memoized figure.
func (f *FigureCache) Clear() {
	f.cache.Clear()
}
