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
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/retr0h/sqlaudit/internal/audit"

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	entriesWritten, _   = meter.Int64Counter("audit_entries_written", metric.WithDescription("Entries written and signed."))
	signFailures, _     = meter.Int64Counter("audit_sign_failures", metric.WithDescription("Entries left unsigned by a failed finalize."))
	verifications, _    = meter.Int64Counter("audit_verifications", metric.WithDescription("Signature checks by result."))
	retentionDeleted, _ = meter.Int64Counter("audit_retention_deleted", metric.WithDescription("Entries removed by retention sweeps."))
)

func recordVerification(
	ctx context.Context,
	result string,
) {
	verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
