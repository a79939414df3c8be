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
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/charts"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/helpers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/store"
	"go.uber.org/zap"
)

func etagOf(version string) string {
	return `"` + version + `"`
}

func etagMatches(header, version string) bool {
	for _, tag := range strings.Split(header, ",") {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimPrefix(tag, "W/")
		if tag == "*" || strings.Trim(tag, `"`) == version {
			return true
		}
	}
	return false
}

// GetStoreHandler returns the serialized six chart payload. Clients polling
// with If-None-Match get 304 until the next publication.
func (ctl *Controller) GetStoreHandler(c *gin.Context) {
	snap, err := ctl.store.Current()
	if errors.Is(err, store.ErrNoSnapshot) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   err.Error(),
			"status":  http.StatusServiceUnavailable,
			"message": "The chart data has not been loaded yet.",
		})
		return
	} else if err != nil {
		helpers.HandleInternalServerError(c, err)
		return
	}

	c.Header("ETag", etagOf(snap.Version))
	c.Header("Cache-Control", "no-cache")
	if match := c.GetHeader("If-None-Match"); match != "" && etagMatches(match, snap.Version) {
		c.Status(http.StatusNotModified)
		return
	}
	c.JSON(http.StatusOK, models.StoreResponse{
		Version:     snap.Version,
		PublishedAt: snap.PublishedAt.Format(time.RFC3339),
		Store:       snap.Payload,
	})
}

// GetFigureHandler renders one chart. Omitted selections come from the
// session.
func (ctl *Controller) GetFigureHandler(c *gin.Context) {
	var request models.FigureRequest
	if err := c.ShouldBindUri(&request); err != nil {
		helpers.HandleInvalidInputError(c, err)
		return
	}
	if err := c.ShouldBindQuery(&request); err != nil {
		helpers.HandleInvalidInputError(c, err)
		return
	}
	if !models.IsChartID(request.ChartID) {
		helpers.HandleTypeNotFound(c, request.ChartID)
		return
	}

	sess := ctl.sessions.FromRequest(c)
	if request.Period != "" {
		sess.Period = request.Period
	}
	if request.Timeframe != "" {
		if !models.IsTimeframe(request.Timeframe) {
			helpers.HandleInvalidInputError(c, errors.New("unknown timeframe "+request.Timeframe))
			return
		}
		sess.Timeframe = request.Timeframe
	}
	if request.Theme != "" {
		sess.Theme = request.Theme
	}
	variant := sess.Variant
	switch request.Variant {
	case "":
	case models.VariantDesktop, models.VariantMobile, models.VariantDetail:
		variant = request.Variant
	default:
		helpers.HandleInvalidInputError(c, errors.New("unknown variant "+request.Variant))
		return
	}

	data, version := ctl.data("", nil)
	r, err := ctl.render(data, version, request.ChartID, sess, variant, request.Page)
	if err != nil {
		helpers.HandleInternalServerError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", r)
}

// GetSnapshotHandler serves /api/snapshot/chart-3.png and chart-4.png.
func (ctl *Controller) GetSnapshotHandler(c *gin.Context) {
	file := c.Param("file")
	chartID := strings.TrimSuffix(file, ".png")
	if chartID == file || !models.IsChartID(chartID) {
		helpers.HandleTypeNotFound(c, file)
		return
	}
	sess := ctl.sessions.FromRequest(c)
	period := c.DefaultQuery("period", sess.Period)
	if theme := c.Query("theme"); theme != "" {
		sess.Theme = theme
	}

	data, _ := ctl.data("", nil)
	key, _ := models.StoreKey(chartID)
	png, err := charts.RenderPNG(chartID, period, data[key], ctl.options(sess, models.VariantDesktop, 0))
	switch {
	case errors.Is(err, charts.ErrNoSnapshot):
		helpers.HandleTypeNotFound(c, file)
		return
	case errors.Is(err, charts.ErrNothingToDraw):
		c.Status(http.StatusNoContent)
		return
	case err != nil:
		helpers.HandleInternalServerError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GetDBInfoHandler runs a connection test.
func (ctl *Controller) GetDBInfoHandler(c *gin.Context) {
	if ctl.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "no database configured",
			"status":  http.StatusServiceUnavailable,
			"message": "The dashboard runs without a database connection.",
		})
		return
	}
	info := ctl.db.Info(c.Request.Context())
	status := http.StatusOK
	if info.Error != "" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, info)
}

// PostScreenSizeHandler records the viewport the browser reports.
func (ctl *Controller) PostScreenSizeHandler(c *gin.Context) {
	var request models.ScreenSizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		helpers.HandleInvalidInputError(c, err)
		return
	}
	sess := ctl.sessions.FromRequest(c)
	sess.Width, sess.Height = request.Width, request.Height
	ctl.sessions.Save(sess)
	zap.S().Infof("Screen size detected: %dx%d", request.Width, request.Height)
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
