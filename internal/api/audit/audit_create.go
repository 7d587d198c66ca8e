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
	"net/http"

	"github.com/labstack/echo/v4"

	auditstore "github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/validation"
)

// PostAuditEntry records the posted fields and finalizes them as one entry.
// An entry that was stored but could not be signed is still reported as
// created, with Signed false; the session has already logged the failure.
func (a *Audit) PostAuditEntry(
	c echo.Context,
) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	if errMsg, ok := validation.Struct(req); !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errMsg})
	}

	session := a.newSession()
	session.Record(auditstore.Fields(req.Fields))

	id, err := session.Finalize(c.Request().Context())
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, CreateResponse{ID: id, Signed: true})
	case id != 0:
		return c.JSON(
			http.StatusCreated,
			CreateResponse{ID: id, Signed: false, Error: "entry stored unsigned"},
		)
	case errors.Is(err, auditstore.ErrSigningUnavailable):
		return c.JSON(
			http.StatusServiceUnavailable,
			ErrorResponse{Error: "audit signing is not configured"},
		)
	default:
		return c.JSON(
			http.StatusInternalServerError,
			ErrorResponse{Error: "failed to write audit entry"},
		)
	}
}
