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
	"context"
	"fmt"

	"github.com/retr0h/sqlaudit/internal/audit"
)

// StoreMetrics reports audit statistics read from a Store.
type StoreMetrics struct {
	Store audit.Store
}

// GetAuditStats returns the entry count and highest id.
func (m *StoreMetrics) GetAuditStats(
	ctx context.Context,
) (*AuditStats, error) {
	count, err := m.Store.Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	maxID, err := m.Store.MaxID(ctx)
	if err != nil {
		return nil, fmt.Errorf("max id: %w", err)
	}

	return &AuditStats{Entries: count, MaxID: maxID}, nil
}
