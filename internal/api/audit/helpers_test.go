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

package audit_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/retr0h/sqlaudit/internal/api"
	auditapi "github.com/retr0h/sqlaudit/internal/api/audit"
	auditstore "github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/config"
)

// serve registers an audit handler on a fresh server and runs one request
// through it.
func serve(
	logger *slog.Logger,
	store auditstore.Store,
	signer auditstore.Signer,
	verifier auditstore.Verifier,
	method string,
	target string,
	body string,
) *httptest.ResponseRecorder {
	a := api.New(config.Config{}, logger)
	auditapi.RegisterHandlers(
		a.Echo,
		auditapi.New(logger, store, signer, verifier, "test-host"),
		auditapi.Guards{},
	)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()

	a.Echo.ServeHTTP(rec, req)

	return rec
}
