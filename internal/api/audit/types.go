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
	"log/slog"

	"github.com/labstack/echo/v4"

	auditstore "github.com/retr0h/sqlaudit/internal/audit"
)

// Guards holds the middleware protecting read and write routes. Empty
// slices leave the routes open.
type Guards struct {
	Read  []echo.MiddlewareFunc
	Write []echo.MiddlewareFunc
}

// Audit implementation of the audit trail API operations.
type Audit struct {
	// Store persists the audit entries.
	Store auditstore.Store
	// Signer signs entries written through POST /audit. May be nil.
	Signer auditstore.Signer
	// Verifier checks signatures of searched entries. May be nil.
	Verifier auditstore.Verifier
	// ServerIdentity is written to entries that do not carry one.
	ServerIdentity string

	logger *slog.Logger
}

// ListParams are the query parameters of GET /audit. Every other query
// parameter naming an audit field is used as a substring filter.
type ListParams struct {
	Page      int    `query:"page"       validate:"omitempty,min=1,max=1000000"`
	PageSize  int    `query:"page_size"  validate:"omitempty,min=1,max=1000"`
	SortBy    string `query:"sort_by"    validate:"audit_field"`
	SortOrder string `query:"sort_order" validate:"audit_order"`
}

// GetParams are the path parameters of GET /audit/:id.
type GetParams struct {
	ID int64 `param:"id" validate:"min=1"`
}

// ListResponse is the body of GET /audit.
type ListResponse struct {
	TotalItems int                 `json:"total_items"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Items      []auditstore.Record `json:"items"`
}

// CountResponse is the body of GET /audit/count.
type CountResponse struct {
	Count int `json:"count"`
}

// CreateRequest is the body of POST /audit.
type CreateRequest struct {
	Fields map[string]string `json:"fields" validate:"required,min=1,dive,keys,audit_field,endkeys"`
}

// CreateResponse is the body of a POST /audit that stored an entry.
type CreateResponse struct {
	ID     int64  `json:"id"`
	Signed bool   `json:"signed"`
	Error  string `json:"error,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
