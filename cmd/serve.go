// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/retr0h/sqlaudit/internal/api"
	"github.com/retr0h/sqlaudit/internal/api/health"
	"github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/cli"
	"github.com/retr0h/sqlaudit/internal/telemetry"
)

var serveBodyLimit string

// ServerManager responsible for Server operations.
type ServerManager interface {
	cli.Lifecycle
	// GetAuditHandler returns audit handler for registration.
	GetAuditHandler(
		store audit.Store,
		signer audit.Signer,
		verifier audit.Verifier,
	) []func(e *echo.Echo)
	// GetHealthHandler returns health handler for registration.
	GetHealthHandler(
		checker health.Checker,
		startTime time.Time,
		version string,
		metrics health.MetricsProvider,
	) []func(e *echo.Echo)
	// GetMetricsHandler returns Prometheus metrics handler for registration.
	GetMetricsHandler(metricsHandler http.Handler, path string) []func(e *echo.Echo)
	// RegisterHandlers registers a list of handlers with the Echo instance.
	RegisterHandlers(handlers []func(e *echo.Echo))
}

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audit trail over HTTP",
	Long: `Start the HTTP server.

Serves the audit endpoints under /audit, health checks under
/health, and Prometheus metrics. Shuts down gracefully on SIGINT/SIGTERM.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		shutdownTracer, err := telemetry.InitTracer(
			ctx,
			"sqlaudit",
			appConfig.Telemetry.Tracing,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize tracer", err)
		}

		metricsHandler, metricsPath, shutdownMeter, err := telemetry.InitMeter(
			appConfig.Telemetry.Metrics,
		)
		if err != nil {
			cli.LogFatal(logger, "failed to initialize meter", err)
		}

		store := openStore(ctx)
		keys := loadKeys()
		if !keys.CanSign() {
			logger.Warn("no private key configured, POST /audit is disabled")
		}
		if appConfig.API.Server.Security.SigningKey == "" {
			logger.Warn("no signing key configured, audit routes are unauthenticated")
		}

		var sm ServerManager = api.New(appConfig, logger, api.WithBodyLimit(serveBodyLimit))
		sm.RegisterHandlers(sm.GetAuditHandler(store, keys, keys))
		sm.RegisterHandlers(sm.GetHealthHandler(
			&health.StoreChecker{StoreCheck: store.Ping},
			time.Now(),
			buildVersion().GitVersion,
			&health.StoreMetrics{Store: store},
		))
		sm.RegisterHandlers(sm.GetMetricsHandler(metricsHandler, metricsPath))

		sm.Start()
		cli.RunServer(ctx, sm, func() {
			_ = shutdownMeter(context.Background())
			_ = shutdownTracer(context.Background())
			closeStore(store)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveBodyLimit, "body-limit", "64K", "Maximum request body size")
}
