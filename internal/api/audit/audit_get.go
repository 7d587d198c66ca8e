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

package audit

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	auditstore "github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/validation"
)

// GetAuditEntry returns one audit record by number, annotated with its
// signature and contiguity check.
func (a *Audit) GetAuditEntry(
	c echo.Context,
) error {
	var params GetParams
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &params); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	if errMsg, ok := validation.Struct(params); !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errMsg})
	}

	record, err := a.newSession().Get(c.Request().Context(), params.ID)
	if errors.Is(err, auditstore.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "audit entry not found"})
	}
	if err != nil {
		a.logger.Error(
			"failed to get audit entry",
			slog.Int64("entry_id", params.ID),
			slog.String("error", err.Error()),
		)
		return c.JSON(
			http.StatusInternalServerError,
			ErrorResponse{Error: "failed to get audit entry"},
		)
	}

	return c.JSON(http.StatusOK, record)
}
