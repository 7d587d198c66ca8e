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
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	auditstore "github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/validation"
)

// reservedParams are GET /audit query parameters that never act as filters.
var reservedParams = map[string]bool{
	"page":       true,
	"page_size":  true,
	"sort_by":    true,
	"sort_order": true,
}

// GetAuditLogs returns one page of audit records, each annotated with its
// signature and contiguity check.
func (a *Audit) GetAuditLogs(
	c echo.Context,
) error {
	var params ListParams
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &params); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	if errMsg, ok := validation.Struct(params); !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errMsg})
	}

	if params.Page == 0 {
		params.Page = auditstore.DefaultPage
	}
	if params.PageSize == 0 {
		params.PageSize = auditstore.DefaultPageSize
	}

	ctx := c.Request().Context()
	filter := filterFromQuery(c.QueryParams())
	session := a.newSession()

	total, err := session.Count(ctx, filter)
	if err != nil {
		a.logger.Error(
			"failed to count audit entries",
			slog.String("error", err.Error()),
		)
		return c.JSON(
			http.StatusInternalServerError,
			ErrorResponse{Error: "failed to count audit entries"},
		)
	}

	records, err := session.Search(ctx, filter, auditstore.SearchOptions{
		PageSize:  params.PageSize,
		Page:      params.Page,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		a.logger.Error(
			"failed to search audit entries",
			slog.String("error", err.Error()),
		)
		return c.JSON(
			http.StatusInternalServerError,
			ErrorResponse{Error: "failed to search audit entries"},
		)
	}

	return c.JSON(http.StatusOK, ListResponse{
		TotalItems: total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		Items:      records,
	})
}

// filterFromQuery builds a substring filter from the query parameters that
// name an audit field. Unknown names and empty values are ignored.
func filterFromQuery(
	values url.Values,
) auditstore.Filter {
	filter := auditstore.Filter{}
	for name, vals := range values {
		if reservedParams[name] || len(vals) == 0 || vals[0] == "" {
			continue
		}
		if _, ok := auditstore.ParseField(name); !ok {
			continue
		}
		filter[name] = vals[0]
	}

	return filter
}
