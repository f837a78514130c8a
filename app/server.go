// Copyright 2025 The Titon Authors
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

package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Start listens on addr, or on the configured address when addr is empty,
// and serves until ctx is done. See [App.Serve].
func (a *App) Start(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.address
	}
	if err := a.runStartHooks(ctx); err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return a.serve(ctx, ln)
}

// Serve runs OnStart hooks, then serves on ln until ctx is done and shuts
// down gracefully. It returns nil after a clean shutdown.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if err := a.runStartHooks(ctx); err != nil {
		_ = ln.Close()
		return fmt.Errorf("startup failed: %w", err)
	}
	return a.serve(ctx, ln)
}

func (a *App) serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           a,
		ReadHeaderTimeout: a.readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	a.logRoutes()
	a.logger.Info("server starting", "address", ln.Addr().String(), "routes", a.router.Len())

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		a.logger.Info("server shutting down", "reason", context.Cause(ctx))
	}

	// ctx is already done; the shutdown gets its own deadline
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.shutdownTimeout)
	defer cancel()

	a.runShutdownHooks(shutdownCtx)
	err := server.Shutdown(shutdownCtx)
	a.shutdownObservability(shutdownCtx)
	a.runStopHooks()

	if err != nil {
		return fmt.Errorf("server forced to shut down: %w", err)
	}
	a.logger.Info("server exited")
	return nil
}

// logRoutes writes the route table at debug level.
func (a *App) logRoutes() {
	for _, rt := range a.router.Routes() {
		a.logger.Debug("route", "name", rt.Name(), "route", rt.String())
	}
}
