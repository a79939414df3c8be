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

package internal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// GracefulShutdownHandler coordinates the shutdown of the dashboard.
type GracefulShutdownHandler interface {
	// Shutdown triggers the shutdown tasks as if SIGTERM was received.
	Shutdown()
	// ShuttingDown reports whether a shutdown is in progress.
	ShuttingDown() bool
	// Wait blocks until the shutdown tasks are complete.
	Wait()
}

// ShutdownTask is one step of the shutdown sequence. Tasks run in order and
// share one deadline.
type ShutdownTask struct {
	Name string
	Run  func(ctx context.Context) error
}

type gracefulShutdown struct {
	quit         chan os.Signal
	shuttingDown atomic.Bool
	wg           sync.WaitGroup
	exit         func(code int)
}

// ShutdownTimeout is the budget for all shutdown tasks together.
const ShutdownTimeout = 30 * time.Second

// NewGracefulShutdown starts waiting for SIGTERM/SIGINT and then runs tasks.
func NewGracefulShutdown(tasks ...ShutdownTask) GracefulShutdownHandler {
	return newGracefulShutdown(ShutdownTimeout, os.Exit, tasks...)
}

func newGracefulShutdown(timeout time.Duration, exit func(code int), tasks ...ShutdownTask) *gracefulShutdown {
	gs := &gracefulShutdown{
		quit: make(chan os.Signal, 1),
		exit: exit,
	}
	gs.wg.Add(1)
	signal.Notify(gs.quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer gs.wg.Done()
		sig := <-gs.quit
		signal.Stop(gs.quit)
		gs.shuttingDown.Store(true)
		zap.S().Infow("Received signal, shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		code := 0
		for _, task := range tasks {
			zap.S().Infow("Running shutdown task", "task", task.Name)
			if err := task.Run(ctx); err != nil {
				zap.S().Errorw("Error during shutdown", "task", task.Name, "error", err)
				code = 1
			}
			if ctx.Err() != nil {
				zap.S().Errorw("Shutdown tasks did not complete in time", "timeout", timeout)
				code = 1
				break
			}
		}
		zap.S().Info("Shutdown tasks completed. Ready to exit.")
		_ = zap.S().Sync()
		gs.exit(code)
	}()

	return gs
}

func (gs *gracefulShutdown) ShuttingDown() bool {
	return gs.shuttingDown.Load()
}

func (gs *gracefulShutdown) Shutdown() {
	if gs.shuttingDown.CompareAndSwap(false, true) {
		select {
		case gs.quit <- syscall.SIGTERM:
		default:
		}
	}
}

func (gs *gracefulShutdown) Wait() {
	gs.wg.Wait()
}
