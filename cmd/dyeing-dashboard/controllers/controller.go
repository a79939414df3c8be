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
	"context"
	"time"

	"github.com/EagleChen/mapmutex"
	"github.com/goccy/go-json"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/charts"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/database"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/store"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
)

// Names of the browser stores and page components in event outputs.
const (
	OutputChartStore     = "all-chart-data-store"
	OutputStoreVersion   = "all-chart-data-store-version"
	OutputPeriodStore    = "time-period-store"
	OutputTimeframeStore = "chart5-timeframe-store"
	OutputThemeStore     = "theme-store"
	OutputPageStyle      = "dashboard-content.style"
	OutputCardStyle      = "chart-card.style"
	OutputTableStyle     = "chart-2.style"
	OutputURL            = "url"
	OutputPageContent    = "page-content"
)

// DBInfo runs the connection test of GET /api/db-info.
type DBInfo interface {
	Info(ctx context.Context) database.ConnectionInfo
}

// Config holds the page defaults.
type Config struct {
	Language         string
	DefaultTheme     string
	DefaultPeriod    string
	DefaultTimeframe string
	RefreshInterval  time.Duration
	PageTurn         time.Duration
	SessionTTL       time.Duration
	FigureCacheBytes int
}

func (c Config) withDefaults() Config {
	if !models.IsLanguage(c.Language) {
		c.Language = models.LanguageSimplified
	}
	if !models.IsTheme(c.DefaultTheme) {
		c.DefaultTheme = models.ThemeBlack
	}
	if c.DefaultPeriod == "" {
		c.DefaultPeriod = datamodel.PeriodToday
	}
	if !models.IsTimeframe(c.DefaultTimeframe) {
		c.DefaultTimeframe = datamodel.Timeframes[0]
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = time.Minute
	}
	if c.PageTurn <= 0 {
		c.PageTurn = 15 * time.Second
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 12 * time.Hour
	}
	return c
}

// Controller serves the pages and the reactive bindings. It never queries
// the database for a figure; everything is rendered from the published
// snapshot or the store the browser sends.
type Controller struct {
	cfg      Config
	store    *store.Store
	db       DBInfo
	reasons  *charts.ReasonMapping
	sessions *Sessions
	figures  *FigureCache
	locks    *mapmutex.Mutex
}

func New(cfg Config, st *store.Store, db DBInfo, reasons *charts.ReasonMapping) *Controller {
	cfg = cfg.withDefaults()
	return &Controller{
		cfg:     cfg,
		store:   st,
		db:      db,
		reasons: reasons,
		sessions: NewSessions(cfg.SessionTTL, Session{
			Period:    cfg.DefaultPeriod,
			Timeframe: cfg.DefaultTimeframe,
			Theme:     cfg.DefaultTheme,
			Variant:   models.VariantDesktop,
		}),
		figures: NewFigureCache(cfg.FigureCacheBytes),
		// events of one session wait up to about 30 s for each other
		locks: mapmutex.NewCustomizedMapMutex(300, 100000000, 10, 1.1, 0.2),
	}
}

// Sessions exposes the session store.
func (ctl *Controller) Sessions() *Sessions { return ctl.sessions }

func (ctl *Controller) options(sess Session, variant string, n int) charts.Options {
	o := charts.NewOptions(ctl.cfg.Language, sess.Theme, variant)
	o.N = n
	o.Reasons = ctl.reasons
	return o
}

// data returns the charts to render from and the version used for the
// figure memo. A page renders from the store it holds: a version still
// retained by the store is used as is, otherwise the store the browser sent.
// Without either the latest snapshot is used.
func (ctl *Controller) data(version string, browser datamodel.StorePayload) (datamodel.Charts, string) {
	if snap, ok := ctl.store.Lookup(version); ok {
		return snap.Charts, snap.Version
	}
	if len(browser) > 0 {
		c, _ := datamodel.DeserializeCharts(browser)
		return c, ""
	}
	snap, err := ctl.store.Current()
	if err != nil {
		return datamodel.Charts{}, ""
	}
	return snap.Charts, snap.Version
}

func periodOf(chartID string, sess Session) string {
	if chartID == models.Chart5 {
		return sess.Timeframe
	}
	return sess.Period
}

func (ctl *Controller) render(data datamodel.Charts, version, chartID string, sess Session, variant string, n int) (json.RawMessage, error) {
	key, _ := models.StoreKey(chartID)
	return ctl.figures.Render(version, chartID, periodOf(chartID, sess), data[key], ctl.options(sess, variant, n))
}

// renderAll renders every chart of the dashboard into outputs.
func (ctl *Controller) renderAll(outputs map[string]interface{}, data datamodel.Charts, version string, sess Session, n int) error {
	for _, id := range models.ChartIDs {
		r, err := ctl.render(data, version, id, sess, sess.Variant, n)
		if err != nil {
			return err
		}
		outputs[id] = r
	}
	return nil
}
