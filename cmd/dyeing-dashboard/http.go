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
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/gzip"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/mem"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/controllers"
	"github.com/united-manufacturing-hub/dyeing-dashboard/cmd/dyeing-dashboard/store"
	"github.com/united-manufacturing-hub/dyeing-dashboard/internal"
	"go.uber.org/zap"
)

// maxMemoryPercent fails the liveness probe when the host is about to swap.
const maxMemoryPercent = 95.0

// NewRouter builds the gin engine serving the dashboard.
func NewRouter(ctl *controllers.Controller) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - Logs to stdout.
	//   - RFC3339 with UTC time format.
	router.Use(ginzap.Ginzap(zap.L(), time.RFC3339, true))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	router.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// PNG snapshots are already compressed.
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".png"})))

	controllers.Register(router, ctl)
	return router
}

// SetupRestAPI starts serving the dashboard on port.
func SetupRestAPI(ctl *controllers.Controller, port int) *http.Server {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewRouter(ctl),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.S().Infof("Serving dashboard on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalf("Error starting dashboard server: %s", err)
		}
	}()
	return srv
}

func InitPrometheus(port int) {
	// Prometheus
	metricsPath := "/metrics"
	metricsPort := fmt.Sprintf(":%d", port)
	zap.S().Debugf("Setting up metrics %s %v", metricsPath, metricsPort)

	mux := http.NewServeMux()
	mux.Handle(metricsPath, promhttp.Handler())
	go func() {
		/* #nosec G114 */
		err := http.ListenAndServe(metricsPort, mux)
		if err != nil {
			zap.S().Errorf("Error starting metrics: %s", err)
		}
	}()
}

type pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler assembles the liveness and readiness probes. db may be nil
// when the database could not be reached at start.
func NewHealthHandler(db pinger, st *store.Store, gs internal.GracefulShutdownHandler) healthcheck.Handler {
	health := healthcheck.NewHandler()
	health.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000000))
	health.AddLivenessCheck("memory", memoryCheck)

	health.AddReadinessCheck("shutdown", func() error {
		if gs != nil && gs.ShuttingDown() {
			return errors.New("shutting down")
		}
		return nil
	})
	health.AddReadinessCheck("snapshot", func() error {
		if !st.Ready() {
			return store.ErrNoSnapshot
		}
		return nil
	})
	health.AddReadinessCheck("database", healthcheck.Timeout(func() error {
		if db == nil {
			return errors.New("no database connection")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return db.Ping(ctx)
	}, 3*time.Second))
	return health
}

func memoryCheck() error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		// Not every platform exposes memory stats.
		return nil
	}
	if vm.UsedPercent > maxMemoryPercent {
		return fmt.Errorf("memory usage at %.1f%%", vm.UsedPercent)
	}
	return nil
}

func InitHealthCheck(port int, health healthcheck.Handler) {
	zap.S().Debugf("Setting up healthcheck")

	go func() {
		/* #nosec G114 */
		err := http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), health)
		if err != nil {
			zap.S().Errorf("Error starting healthcheck: %s", err)
		}
	}()
}
