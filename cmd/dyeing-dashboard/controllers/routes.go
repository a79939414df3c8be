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
	"github.com/gin-gonic/gin"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/layouts"
)

// Register mounts the pages, the API and the static files on router.
func Register(router *gin.Engine, ctl *Controller) {
	router.SetHTMLTemplate(layouts.MustTemplates())
	router.StaticFS("/static", layouts.Static())

	router.GET("/", ctl.GetDesktopHandler)
	router.GET("/mobile/", ctl.GetMobileHandler)
	router.GET("/details/:chartID", ctl.GetDetailHandler)
	router.POST("/screen-size", ctl.PostScreenSizeHandler)

	api := router.Group("/api")
	{
		api.GET("/store", ctl.GetStoreHandler)
		api.POST("/events", ctl.PostEventHandler)
		api.GET("/figures/:chartID", ctl.GetFigureHandler)
		api.GET("/snapshot/:file", ctl.GetSnapshotHandler)
		api.GET("/db-info", ctl.GetDBInfoHandler)
	}

	router.NoRoute(ctl.NoRouteHandler)
}
