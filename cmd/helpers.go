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
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/audit/sqlstore"
	"github.com/retr0h/sqlaudit/internal/cli"
	"github.com/retr0h/sqlaudit/internal/signer"
)

// openStore opens the configured audit store or exits.
func openStore(
	ctx context.Context,
) *sqlstore.Store {
	store, err := sqlstore.Open(ctx, logger, appConfig.Audit.SQL.URL)
	if err != nil {
		cli.LogFatal(logger, "failed to open audit store", err, "url", appConfig.Audit.SQL.URL)
	}

	return store
}

func closeStore(
	store *sqlstore.Store,
) {
	if err := store.Close(); err != nil {
		logger.Warn("failed to close audit store", slog.String("error", err.Error()))
	}
}

// loadKeys reads the configured key pair or exits. Either key may be
// unconfigured.
func loadKeys() *signer.KeyPair {
	keys, err := signer.Load(appFs, appConfig.Audit.Keys.Public, appConfig.Audit.Keys.Private)
	if err != nil {
		cli.LogFatal(
			logger,
			"failed to load audit keys",
			err,
			"public", appConfig.Audit.Keys.Public,
			"private", appConfig.Audit.Keys.Private,
		)
	}

	if !keys.CanVerify() {
		logger.Warn("no public key configured, signatures will not be checked")
	}

	return keys
}

func newSession(
	store audit.Store,
	keys *signer.KeyPair,
) *audit.Session {
	return audit.NewSession(
		logger,
		store,
		keys,
		keys,
		audit.WithServerIdentity(appConfig.Audit.ServerIdentity),
	)
}

// parseFilters turns key=value terms into a search filter. Terms naming an
// unknown field are returned in ignored.
func parseFilters(
	terms []string,
) (filter audit.Filter, ignored []string, err error) {
	filter = audit.Filter{}
	for _, term := range terms {
		key, value, ok := strings.Cut(term, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid filter %q, expected key=value", term)
		}

		if _, known := audit.ParseField(key); !known {
			ignored = append(ignored, key)
			continue
		}
		filter[key] = value
	}

	return filter, ignored, nil
}

func printJSON(
	v any,
) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		cli.LogFatal(logger, "failed to marshal output", err)
	}

	fmt.Println(string(out))
}
