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
	"fmt"
	"time"

	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/controllers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/models"
	"github.com/united-manufacturing-hub/dyeing-dashboard/pkg/datamodel"
	"github.com/united-manufacturing-hub/umh-utils/env"
)

// Config is read from the environment once at start.
type Config struct {
	CredentialsPath   string
	SQLDir            string
	ReasonMappingPath string
	Language          string
	DefaultTheme      string
	DefaultPeriod     string
	DefaultTimeframe  string
	RefreshInterval   time.Duration
	PageTurn          time.Duration
	HTTPPort          int
	HealthPort        int
	MetricsPort       int
	RedisURI          string
	RedisURI2         string
	RedisURI3         string
	RedisPassword     string
	DryRun            bool
	FigureCacheBytes  int
	SessionTTL        time.Duration
}

// LoadConfig reads every setting and validates the enumerations.
func LoadConfig() (Config, error) {
	var c Config
	var err error
	var refresh, pageTurn, sessionTTL int

	texts := []struct {
		key      string
		fallback string
		target   *string
	}{
		{"CREDENTIALS_PATH", "env/db_credentials.yml", &c.CredentialsPath},
		{"SQL_DIR", "sql", &c.SQLDir},
		{"REASON_MAPPING_PATH", "env/chart6_reason_txt.yml", &c.ReasonMappingPath},
		{"LANGUAGE", models.LanguageSimplified, &c.Language},
		{"DEFAULT_THEME", models.ThemeBlack, &c.DefaultTheme},
		{"DEFAULT_PERIOD", datamodel.PeriodToday, &c.DefaultPeriod},
		{"DEFAULT_TIMEFRAME", datamodel.Timeframe24h, &c.DefaultTimeframe},
		{"REDIS_URI", "", &c.RedisURI},
		{"REDIS_URI2", "", &c.RedisURI2},
		{"REDIS_URI3", "", &c.RedisURI3},
		{"REDIS_PASSWORD", "", &c.RedisPassword},
	}
	for _, s := range texts {
		if *s.target, err = env.GetAsString(s.key, false, s.fallback); err != nil {
			return c, err
		}
	}

	ints := []struct {
		key      string
		fallback int
		target   *int
	}{
		{"REFRESH_INTERVAL_SECONDS", 60, &refresh},
		{"PAGE_TURN_SECONDS", 15, &pageTurn},
		{"HTTP_PORT", 8050, &c.HTTPPort},
		{"HEALTH_PORT", 8086, &c.HealthPort},
		{"METRICS_PORT", 2112, &c.MetricsPort},
		{"FIGURE_CACHE_BYTES", controllers.DefaultFigureCacheBytes, &c.FigureCacheBytes},
		{"SESSION_TTL_MINUTES", 720, &sessionTTL},
	}
	for _, i := range ints {
		if *i.target, err = env.GetAsInt(i.key, false, i.fallback); err != nil {
			return c, err
		}
	}
	if c.DryRun, err = env.GetAsBool("DRY_RUN", false, false); err != nil {
		return c, err
	}

	if refresh <= 0 || pageTurn <= 0 || sessionTTL <= 0 {
		return c, fmt.Errorf("REFRESH_INTERVAL_SECONDS, PAGE_TURN_SECONDS and SESSION_TTL_MINUTES must be positive")
	}
	c.RefreshInterval = time.Duration(refresh) * time.Second
	c.PageTurn = time.Duration(pageTurn) * time.Second
	c.SessionTTL = time.Duration(sessionTTL) * time.Minute

	if !models.IsLanguage(c.Language) {
		return c, fmt.Errorf("unknown LANGUAGE %q", c.Language)
	}
	if !models.IsTheme(c.DefaultTheme) {
		return c, fmt.Errorf("unknown DEFAULT_THEME %q", c.DefaultTheme)
	}
	if !models.IsPeriod(c.DefaultPeriod) {
		return c, fmt.Errorf("unknown DEFAULT_PERIOD %q", c.DefaultPeriod)
	}
	if !models.IsTimeframe(c.DefaultTimeframe) {
		return c, fmt.Errorf("unknown DEFAULT_TIMEFRAME %q", c.DefaultTimeframe)
	}
	return c, nil
}

func (c Config) controllerConfig() controllers.Config {
	return controllers.Config{
		Language:         c.Language,
		DefaultTheme:     c.DefaultTheme,
		DefaultPeriod:    c.DefaultPeriod,
		DefaultTimeframe: c.DefaultTimeframe,
		RefreshInterval:  c.RefreshInterval,
		PageTurn:         c.PageTurn,
		SessionTTL:       c.SessionTTL,
		FigureCacheBytes: c.FigureCacheBytes,
	}
}
