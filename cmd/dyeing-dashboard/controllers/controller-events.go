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
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/charts"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/helpers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"go.uber.org/zap"
)

var eventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dyeingdashboard_events_total",
		Help: "Controller events by type",
	},
	[]string{"type"},
)

var errInvalidEvent = errors.New("invalid event")

// DetailPrefix is the path of the drill-down pages.
const DetailPrefix = "/details/"

// PostEventHandler applies one user input to the session and answers with
// the components that change. Events of one session are handled one at a
// time in arrival order.
func (ctl *Controller) PostEventHandler(c *gin.Context) {
	var request models.EventRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		helpers.HandleInvalidInputError(c, err)
		return
	}

	sess := ctl.sessions.FromRequest(c)
	if !ctl.locks.TryLock(sess.ID) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "session busy",
			"status":  http.StatusConflict,
			"message": "A previous event of this session is still being handled.",
		})
		return
	}
	defer ctl.locks.Unlock(sess.ID)
	// reload, the previous event may have changed it
	if latest, ok := ctl.sessions.Get(sess.ID); ok {
		sess = latest
	}

	outputs, err := ctl.HandleEvent(&sess, request)
	if errors.Is(err, errInvalidEvent) {
		helpers.HandleInvalidInputError(c, err)
		return
	} else if err != nil {
		helpers.HandleInternalServerError(c, err)
		return
	}
	ctl.sessions.Save(sess)
	eventsTotal.WithLabelValues(request.Type).Inc()
	c.JSON(http.StatusOK, models.EventResponse{Outputs: outputs})
}

// HandleEvent updates sess according to request and returns the new values
// of the affected components. It reads only the published snapshot or the
// store in the request.
func (ctl *Controller) HandleEvent(sess *Session, request models.EventRequest) (map[string]interface{}, error) {
	switch request.Variant {
	case "":
	case models.VariantDesktop, models.VariantMobile:
		sess.Variant = request.Variant
	default:
		return nil, fmt.Errorf("%w: variant %q", errInvalidEvent, request.Variant)
	}
	data, version := ctl.data(request.Version, request.Store)
	outputs := map[string]interface{}{}

	switch request.Type {
	case models.EventPeriod:
		if !models.IsPeriod(request.Value) && data[datamodel.Chart1Key][request.Value] == nil {
			return nil, fmt.Errorf("%w: period %q", errInvalidEvent, request.Value)
		}
		sess.Period = request.Value
		outputs[OutputPeriodStore] = sess.Period
		for _, id := range []string{models.Chart1, models.Chart3, models.Chart4, models.Chart6} {
			r, err := ctl.render(data, version, id, *sess, sess.Variant, request.N)
			if err != nil {
				return nil, err
			}
			outputs[id] = r
		}

	case models.EventTimeframe:
		if !models.IsTimeframe(request.Value) {
			return nil, fmt.Errorf("%w: timeframe %q", errInvalidEvent, request.Value)
		}
		sess.Timeframe = request.Value
		outputs[OutputTimeframeStore] = sess.Timeframe
		r, err := ctl.render(data, version, models.Chart5, *sess, sess.Variant, request.N)
		if err != nil {
			return nil, err
		}
		outputs[models.Chart5] = r

	case models.EventTheme:
		if !models.IsTheme(request.Value) {
			return nil, fmt.Errorf("%w: theme %q", errInvalidEvent, request.Value)
		}
		sess.Theme = request.Value
		theme := models.GetTheme(sess.Theme)
		outputs[OutputThemeStore] = sess.Theme
		outputs[OutputPageStyle] = theme.ContentStyle()
		outputs[OutputCardStyle] = theme.CardStyle()
		outputs[OutputTableStyle] = charts.StyleOf(theme)
		// figures carry the theme colors
		if err := ctl.renderAll(outputs, data, version, *sess, request.N); err != nil {
			return nil, err
		}

	case models.EventRowClick:
		outputs[OutputURL] = DetailPrefix + models.Chart2

	case models.EventURL:
		content, err := ctl.pageContent(request.Value, data, version, *sess)
		if err != nil {
			return nil, err
		}
		outputs[OutputPageContent] = content

	case models.EventTick:
		if snap, err := ctl.store.Current(); err == nil {
			outputs[OutputChartStore] = snap.Payload
			outputs[OutputStoreVersion] = snap.Version
			data, version = snap.Charts, snap.Version
		}
		if err := ctl.renderAll(outputs, data, version, *sess, request.N); err != nil {
			return nil, err
		}

	case models.EventPageTurn:
		if request.Value != models.Chart2 && request.Value != models.Chart5 {
			return nil, fmt.Errorf("%w: %q has no pages", errInvalidEvent, request.Value)
		}
		r, err := ctl.render(data, version, request.Value, *sess, sess.Variant, request.N)
		if err != nil {
			return nil, err
		}
		outputs[request.Value] = r

	default:
		return nil, fmt.Errorf("%w: type %q", errInvalidEvent, request.Type)
	}
	return outputs, nil
}

// NotFoundContent replaces the page for an unknown chart id.
type NotFoundContent struct {
	NotFound string `json:"not_found"`
	Message  string `json:"message"`
	Back     string `json:"back"`
	BackText string `json:"back_text"`
}

// pageContent resolves a location. The dashboard paths yield nil, detail
// paths the detail render and anything else a not found page.
func (ctl *Controller) pageContent(path string, data datamodel.Charts, version string, sess Session) (interface{}, error) {
	switch path {
	case "", "/", "/mobile", "/mobile/":
		return nil, nil
	}
	id := strings.Trim(strings.TrimPrefix(path, DetailPrefix), "/")
	if !strings.HasPrefix(path, DetailPrefix) || !models.IsChartID(id) {
		return ctl.notFound(id), nil
	}
	return ctl.render(data, version, id, sess, models.VariantDetail, 0)
}

func (ctl *Controller) notFound(id string) NotFoundContent {
	lang := models.GetLanguage(ctl.cfg.Language)
	zap.S().Infof("Unknown chart %q requested", id)
	return NotFoundContent{
		NotFound: id,
		Message:  fmt.Sprintf(lang.NotFound, id),
		Back:     "/",
		BackText: lang.Back,
	}
}
