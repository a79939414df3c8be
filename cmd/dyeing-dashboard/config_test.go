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

package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "env/db_credentials.yml", cfg.CredentialsPath)
	assert.Equal(t, "sql", cfg.SQLDir)
	assert.Equal(t, "zh_cn", cfg.Language)
	assert.Equal(t, "black", cfg.DefaultTheme)
	assert.Equal(t, "today", cfg.DefaultPeriod)
	assert.Equal(t, "24_hrs", cfg.DefaultTimeframe)
	assert.Equal(t, 60*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 15*time.Second, cfg.PageTurn)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 8050, cfg.HTTPPort)
	assert.Equal(t, 8086, cfg.HealthPort)
	assert.Equal(t, 2112, cfg.MetricsPort)
	assert.False(t, cfg.DryRun)

	ctl := cfg.controllerConfig()
	assert.Equal(t, cfg.PageTurn, ctl.PageTurn)
	assert.Equal(t, cfg.FigureCacheBytes, ctl.FigureCacheBytes)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LANGUAGE", "en")
	t.Setenv("DEFAULT_THEME", "white")
	t.Setenv("DEFAULT_TIMEFRAME", "72_hrs")
	t.Setenv("REFRESH_INTERVAL_SECONDS", "5")
	t.Setenv("DRY_RUN", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Language)
	assert.Equal(t, "white", cfg.DefaultTheme)
	assert.Equal(t, "72_hrs", cfg.DefaultTimeframe)
	assert.Equal(t, 5*time.Second, cfg.RefreshInterval)
	assert.True(t, cfg.DryRun)
}

func TestLoadConfigRejectsUnknownValues(t *testing.T) {
	cases := map[string]string{
		"LANGUAGE":                 "fr",
		"DEFAULT_THEME":            "pink",
		"DEFAULT_PERIOD":           "fortnight",
		"DEFAULT_TIMEFRAME":        "12_hrs",
		"REFRESH_INTERVAL_SECONDS": "0",
		"HTTP_PORT":                "eighty",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestHealthReadiness(t *testing.T) {
	st := store.New(nil, clock.NewMock())
	health := NewHealthHandler(nil, st, nil)

	rec := httptest.NewRecorder()
	health.ReadyEndpoint(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	health.LiveEndpoint(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
