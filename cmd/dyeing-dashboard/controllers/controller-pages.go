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
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/charts"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/helpers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/layouts"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var mobileAgents = []string{"mobi", "android", "iphone", "ipod", "ipad", "windows phone", "blackberry", "opera mini"}

// IsMobileAgent reports whether a User-Agent header belongs to a phone or
// tablet.
func IsMobileAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, m := range mobileAgents {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

type button struct {
	Value  string
	Label  string
	Color  string
	Active bool
}

type pageState struct {
	Session        Session                `json:"session"`
	Outputs        map[string]interface{} `json:"outputs"`
	Version        string                 `json:"version,omitempty"`
	Store          datamodel.StorePayload `json:"all-chart-data-store,omitempty"`
	TableStyle     charts.TableStyle      `json:"table_style"`
	RefreshMillis  int64                  `json:"refresh_ms"`
	PageTurnMillis int64                  `json:"page_turn_ms"`
}

type dashboardPage struct {
	Lang       models.Language
	Theme      models.Theme
	Variant    string
	Periods    []button
	Timeframes []button
	Themes     []button
	Charts     []string
	State      template.JS
}

type detailPage struct {
	Lang     models.Language
	Theme    models.Theme
	ChartID  string
	Title    string
	Snapshot template.URL
	State    template.JS
}

type notFoundPage struct {
	Lang    models.Language
	Theme   models.Theme
	Message string
}

// state is the initial client state. It carries the store the page was
// rendered from, so that later events of the page stay on it.
func (ctl *Controller) state(sess Session, outputs map[string]interface{}, version string) (template.JS, error) {
	ps := pageState{
		Session:        sess,
		Outputs:        outputs,
		Version:        version,
		TableStyle:     charts.StyleOf(models.GetTheme(sess.Theme)),
		RefreshMillis:  ctl.cfg.RefreshInterval.Milliseconds(),
		PageTurnMillis: ctl.cfg.PageTurn.Milliseconds(),
	}
	if snap, ok := ctl.store.Lookup(version); ok {
		ps.Store = snap.Payload
	}
	b, err := json.Marshal(ps)
	if err != nil {
		return "", err
	}
	// #nosec G203 -- goccy/go-json escapes <, > and & in strings
	return template.JS(b), nil
}

// periodButtons lists the periods of the snapshot, or the defaults before
// the first one.
func periodButtons(data datamodel.Charts, lang models.Language, active string) []button {
	names := datamodel.DefaultPeriods
	if usage := data[datamodel.Chart1Key]; len(usage) > 0 {
		names = make([]string, 0, len(usage))
		for _, p := range datamodel.DefaultPeriods {
			if usage[p] != nil {
				names = append(names, p)
			}
		}
		extra := make([]string, 0)
		for p := range usage {
			if !models.IsPeriod(p) {
				extra = append(extra, p)
			}
		}
		slices.Sort(extra)
		names = append(names, extra...)
	}
	out := make([]button, 0, len(names))
	for _, p := range names {
		out = append(out, button{Value: p, Label: lang.PeriodName(p), Active: p == active})
	}
	return out
}

func themeButtons(lang models.Language, active string) []button {
	out := make([]button, 0, len(models.ThemeOrder))
	for _, name := range models.ThemeNames() {
		t := models.GetTheme(name)
		label := lang.Themes[name]
		if label == "" {
			label = name
		}
		out = append(out, button{Value: name, Label: label, Color: t.Background, Active: name == active})
	}
	return out
}

// GetDesktopHandler serves the dashboard. Phones are sent to the mobile
// layout unless ?view=desktop is given.
func (ctl *Controller) GetDesktopHandler(c *gin.Context) {
	if c.Query("view") != models.VariantDesktop && IsMobileAgent(c.GetHeader("User-Agent")) {
		c.Redirect(http.StatusFound, "/mobile/")
		return
	}
	ctl.dashboard(c, models.VariantDesktop)
}

// GetMobileHandler serves the single column layout.
func (ctl *Controller) GetMobileHandler(c *gin.Context) {
	ctl.dashboard(c, models.VariantMobile)
}

func (ctl *Controller) dashboard(c *gin.Context, variant string) {
	sess := ctl.sessions.FromRequest(c)
	sess.Variant = variant
	ctl.sessions.Save(sess)

	data, version := ctl.data("", nil)
	outputs := map[string]interface{}{}
	if err := ctl.renderAll(outputs, data, version, sess, 0); err != nil {
		helpers.HandleInternalServerError(c, err)
		return
	}
	state, err := ctl.state(sess, outputs, version)
	if err != nil {
		helpers.HandleInternalServerError(c, err)
		return
	}

	lang := models.GetLanguage(ctl.cfg.Language)
	timeframes := make([]button, 0, len(datamodel.Timeframes))
	for _, tf := range datamodel.Timeframes {
		timeframes = append(timeframes, button{Value: tf, Label: lang.PeriodName(tf), Active: tf == sess.Timeframe})
	}
	c.HTML(http.StatusOK, layouts.Dashboard, dashboardPage{
		Lang:       lang,
		Theme:      models.GetTheme(sess.Theme),
		Variant:    variant,
		Periods:    periodButtons(data, lang, sess.Period),
		Timeframes: timeframes,
		Themes:     themeButtons(lang, sess.Theme),
		Charts:     models.ChartIDs,
		State:      state,
	})
}

// GetDetailHandler renders the drill-down of one chart from the session and
// the current snapshot.
func (ctl *Controller) GetDetailHandler(c *gin.Context) {
	var request models.DetailRequest
	if err := c.ShouldBindUri(&request); err != nil {
		helpers.HandleInvalidInputError(c, err)
		return
	}
	sess := ctl.sessions.FromRequest(c)
	lang := models.GetLanguage(ctl.cfg.Language)
	theme := models.GetTheme(sess.Theme)

	if !models.IsChartID(request.ChartID) {
		c.HTML(http.StatusNotFound, layouts.NotFound, notFoundPage{
			Lang:    lang,
			Theme:   theme,
			Message: ctl.notFound(request.ChartID).Message,
		})
		return
	}

	data, version := ctl.data("", nil)
	r, err := ctl.render(data, version, request.ChartID, sess, models.VariantDetail, 0)
	if err != nil {
		helpers.HandleInternalServerError(c, err)
		return
	}
	state, err := ctl.state(sess, map[string]interface{}{request.ChartID: r}, version)
	if err != nil {
		helpers.HandleInternalServerError(c, err)
		return
	}

	page := detailPage{
		Lang:    lang,
		Theme:   theme,
		ChartID: request.ChartID,
		Title:   chartTitle(lang, request.ChartID),
		State:   state,
	}
	key, _ := models.StoreKey(request.ChartID)
	png, err := charts.RenderPNG(request.ChartID, periodOf(request.ChartID, sess), data[key], ctl.options(sess, models.VariantDesktop, 0))
	switch {
	case err == nil:
		// #nosec G203 -- a data URI built from our own PNG
		page.Snapshot = template.URL(charts.DataURI(png))
	case !errors.Is(err, charts.ErrNoSnapshot) && !errors.Is(err, charts.ErrNothingToDraw):
		zap.S().Warnf("Could not render snapshot of %s: %s", request.ChartID, err)
	}
	c.HTML(http.StatusOK, layouts.Detail, page)
}

func chartTitle(lang models.Language, chartID string) string {
	switch chartID {
	case models.Chart1:
		return lang.Usage.MainTitle
	case models.Chart2:
		return lang.StatusTitle
	case models.Chart3:
		return lang.Production.Title
	case models.Chart4:
		return lang.Resource.MainTitle
	case models.Chart5:
		return lang.Timeline.Title
	case models.Chart6:
		return lang.Idle.Title
	}
	return lang.Title
}

// NoRouteHandler answers unknown paths with the not found page.
func (ctl *Controller) NoRouteHandler(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		helpers.HandleTypeNotFound(c, c.Request.URL.Path)
		return
	}
	sess := ctl.sessions.FromRequest(c)
	lang := models.GetLanguage(ctl.cfg.Language)
	c.HTML(http.StatusNotFound, layouts.NotFound, notFoundPage{
		Lang:    lang,
		Theme:   models.GetTheme(sess.Theme),
		Message: fmt.Sprintf(lang.NotFound, strings.TrimPrefix(c.Request.URL.Path, DetailPrefix)),
	})
}
