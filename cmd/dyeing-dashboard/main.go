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
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/charts"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/controllers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/database"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/helpers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/services"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/store"
	"github.com/united-manufacturing-hub/dyeing-dashboard/internal"
	"go.uber.org/zap"
)

var buildtime string

func main() {
	helpers.InitLogging()
	zap.S().Infof("This is dyeing-dashboard build date: %s", buildtime)

	cfg, err := LoadConfig()
	if err != nil {
		zap.S().Fatalf("Invalid configuration: %s", err)
	}
	InitPrometheus(cfg.MetricsPort)

	creds, err := database.LoadCredentials(cfg.CredentialsPath)
	if err != nil {
		zap.S().Fatalf("Failed to load database credentials: %s", err)
	}
	templates, err := database.NewTemplateStore(cfg.SQLDir)
	if err != nil {
		zap.S().Fatalf("Failed to load query templates: %s", err)
	}
	conn, err := database.Connect(creds, templates)
	if err != nil {
		zap.S().Fatalf("Failed to connect to database: %s", err)
	}

	reasons, err := charts.LoadReasonMapping(cfg.ReasonMappingPath)
	if err != nil {
		zap.S().Warnf("Reason codes will be shown unmapped: %s", err)
	}
	if err = reasons.Watch(); err != nil {
		zap.S().Warnf("Reason mapping will not be reloaded: %s", err)
	}

	clk := clock.New()
	cache := internal.NewTieredCache(cfg.RedisURI, cfg.RedisURI2, cfg.RedisURI3, cfg.RedisPassword, 0, cfg.DryRun, cfg.RefreshInterval*2)
	st := store.New(cache, clk)
	warmCtx, cancelWarm := context.WithTimeout(context.Background(), 5*time.Second)
	if err = st.Warm(warmCtx); err != nil {
		zap.S().Infof("Starting without a mirrored snapshot: %s", err)
	}
	cancelWarm()

	assembler := services.NewAssembler(conn, clk, cfg.Language)
	scheduler := services.NewScheduler(assembler, st, clk, cfg.RefreshInterval)
	scheduler.Start(context.Background())

	ctl := controllers.New(cfg.controllerConfig(), st, conn, reasons)
	srv := SetupRestAPI(ctl, cfg.HTTPPort)

	gs := internal.NewGracefulShutdown(
		internal.ShutdownTask{Name: "scheduler", Run: scheduler.Stop},
		internal.ShutdownTask{Name: "http", Run: srv.Shutdown},
		internal.ShutdownTask{Name: "reason-watcher", Run: func(context.Context) error { return reasons.Stop() }},
		internal.ShutdownTask{Name: "cache", Run: func(context.Context) error { return cache.Close() }},
		internal.ShutdownTask{Name: "database", Run: func(context.Context) error { return conn.Close() }},
	)
	InitHealthCheck(cfg.HealthPort, NewHealthHandler(conn, st, gs))

	gs.Wait()
}
