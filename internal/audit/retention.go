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
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default watermarks used when configuration does not provide them.
const (
	DefaultHighWatermark = 10000
	DefaultLowWatermark  = 5000
)

// SweepResult reports what a retention sweep observed and did.
type SweepResult struct {
	Count   int   `json:"count"`
	MaxID   int64 `json:"max_id"`
	Cutoff  int64 `json:"cutoff"`
	Deleted int64 `json:"deleted"`
	Swept   bool  `json:"swept"`
}

// Sweeper trims old entries once the log grows past a high watermark.
type Sweeper struct {
	store  Store
	logger *slog.Logger
}

// NewSweeper creates a Sweeper over store.
func NewSweeper(
	logger *slog.Logger,
	store Store,
) *Sweeper {
	return &Sweeper{
		store:  store,
		logger: logger,
	}
}

// Sweep deletes every entry with an id below maxID-low when more than high
// entries exist, and does nothing otherwise. Entries written concurrently
// always have ids above the cutoff.
func (s *Sweeper) Sweep(
	ctx context.Context,
	high int,
	low int,
) (SweepResult, error) {
	ctx, span := tracer.Start(ctx, "audit.Sweep", trace.WithAttributes(
		attribute.Int("high_watermark", high),
		attribute.Int("low_watermark", low),
	))
	defer span.End()

	var result SweepResult

	if high < 0 || low < 0 {
		return result, fmt.Errorf("%w: high=%d low=%d", ErrInvalidWatermark, high, low)
	}

	count, err := s.store.Count(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("count entries: %w", err)
	}
	result.Count = count

	maxID, err := s.store.MaxID(ctx)
	if err != nil {
		return result, fmt.Errorf("read max id: %w", err)
	}
	result.MaxID = maxID

	s.logger.Info(
		"audit log size",
		slog.Int("count", count),
		slog.Int64("max_id", maxID),
	)

	if count <= high {
		s.logger.Debug(
			"below high watermark, nothing to delete",
			slog.Int("high_watermark", high),
		)
		return result, nil
	}

	result.Cutoff = maxID - int64(low)
	s.logger.Info(
		"above high watermark, deleting entries",
		slog.Int("high_watermark", high),
		slog.Int64("cutoff", result.Cutoff),
	)

	deleted, err := s.store.DeleteBefore(ctx, result.Cutoff)
	if err != nil {
		return result, fmt.Errorf("delete entries before %d: %w", result.Cutoff, err)
	}

	result.Deleted = deleted
	result.Swept = true
	retentionDeleted.Add(ctx, deleted)

	return result, nil
}
