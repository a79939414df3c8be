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

package models

import "github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"

// Event types accepted by the controller.
const (
	EventPeriod    = "period"
	EventTimeframe = "timeframe"
	EventTheme     = "theme"
	EventRowClick  = "row_click"
	EventURL       = "url"
	EventTick      = "tick"
	EventPageTurn  = "page_turn"
)

// EventRequest is one user input sent by the browser.
type EventRequest struct {
	Type      string `json:"type" binding:"required"`
	Value     string `json:"value"`
	N         int    `json:"n"`
	Page      int    `json:"page"`
	PageCount int    `json:"page_count"`
	Variant   string `json:"variant"`
	// Version and Store are the browser copy of all-chart-data-store. A
	// version the server still holds wins over the store; without either the
	// latest snapshot is used.
	Version string                 `json:"version,omitempty"`
	Store   datamodel.StorePayload `json:"store,omitempty"`
}

// EventResponse maps component ids to their new value.
type EventResponse struct {
	Outputs map[string]interface{} `json:"outputs"`
}

// FigureRequest selects one figure of a chart.
type FigureRequest struct {
	ChartID   string `uri:"chartID" binding:"required"`
	Period    string `form:"period"`
	Timeframe string `form:"timeframe"`
	Theme     string `form:"theme"`
	Variant   string `form:"variant"`
	Page      int    `form:"page"`
}

// DetailRequest selects a detail page.
type DetailRequest struct {
	ChartID string `uri:"chartID" binding:"required"`
}

// ScreenSizeRequest is the viewport reported by the browser.
type ScreenSizeRequest struct {
	Width  int `json:"width" binding:"gte=0"`
	Height int `json:"height" binding:"gte=0"`
}

// StoreResponse is the payload of GET /api/store.
type StoreResponse struct {
	Version     string                 `json:"version"`
	PublishedAt string                 `json:"published_at,omitempty"`
	Store       datamodel.StorePayload `json:"all-chart-data-store"`
}
