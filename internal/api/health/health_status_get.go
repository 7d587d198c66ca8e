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

package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// GetHealthStatus returns the store status with version, uptime and audit
// statistics.
func (h *Health) GetHealthStatus(
	c echo.Context,
) error {
	ctx := c.Request().Context()

	store := ComponentHealth{Status: "ok"}
	if err := h.Checker.CheckHealth(ctx); err != nil {
		errMsg := err.Error()
		store = ComponentHealth{Status: "error", Error: &errMsg}
	}

	resp := StatusResponse{
		Status:     "ok",
		Components: map[string]ComponentHealth{"store": store},
		Version:    h.Version,
		Uptime:     time.Since(h.StartTime).Round(time.Second).String(),
	}

	if store.Status != "ok" {
		resp.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}

	if h.Metrics != nil {
		stats, err := h.Metrics.GetAuditStats(ctx)
		if err != nil {
			h.logger.Warn(
				"failed to get audit stats",
				slog.String("error", err.Error()),
			)
		} else {
			resp.Audit = stats
		}
	}

	return c.JSON(http.StatusOK, resp)
}
