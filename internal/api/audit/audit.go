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

// Package audit provides the audit trail API handlers.
package audit

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	auditstore "github.com/retr0h/sqlaudit/internal/audit"
)

// New factory to create a new instance.
func New(
	logger *slog.Logger,
	store auditstore.Store,
	signer auditstore.Signer,
	verifier auditstore.Verifier,
	serverIdentity string,
) *Audit {
	return &Audit{
		Store:          store,
		Signer:         signer,
		Verifier:       verifier,
		ServerIdentity: serverIdentity,
		logger:         logger,
	}
}

// RegisterHandlers adds the audit routes to e, wrapping reads and writes
// with the matching guards.
func RegisterHandlers(
	e *echo.Echo,
	a *Audit,
	guards Guards,
) {
	e.GET("/audit", a.GetAuditLogs, guards.Read...)
	e.GET("/audit/count", a.GetAuditCount, guards.Read...)
	e.GET("/audit/:id", a.GetAuditEntry, guards.Read...)
	e.POST("/audit", a.PostAuditEntry, guards.Write...)
}

// newSession returns a Session scoped to one request.
func (a *Audit) newSession() *auditstore.Session {
	return auditstore.NewSession(
		a.logger,
		a.Store,
		a.Signer,
		a.Verifier,
		auditstore.WithServerIdentity(a.ServerIdentity),
	)
}
