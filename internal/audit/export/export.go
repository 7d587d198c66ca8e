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

// Package export writes the verified audit trail to external destinations,
// paging through the store in batches.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/retr0h/sqlaudit/internal/audit"
)

// Searcher is the part of audit.Session an export reads from.
type Searcher interface {
	Search(ctx context.Context, filter audit.Filter, opts audit.SearchOptions) ([]audit.Record, error)
	Count(ctx context.Context, filter audit.Filter) (int, error)
}

// ensure audit.Session satisfies Searcher at compile time.
var _ Searcher = (*audit.Session)(nil)

// SessionFetcher returns a Fetcher reading filter-matching records in id
// order, each carrying its signature and contiguity checks. Offsets must be
// multiples of limit, which Run guarantees.
func SessionFetcher(
	searcher Searcher,
	filter audit.Filter,
) Fetcher {
	return func(
		ctx context.Context,
		limit int,
		offset int,
	) ([]audit.Record, int, error) {
		total, err := searcher.Count(ctx, filter)
		if err != nil {
			return nil, 0, err
		}

		records, err := searcher.Search(ctx, filter, audit.SearchOptions{
			PageSize:  limit,
			Page:      offset/limit + 1,
			SortBy:    string(audit.FieldNumber),
			SortOrder: string(audit.Asc),
		})
		if err != nil {
			return nil, 0, err
		}

		return records, total, nil
	}
}

// ProgressFunc is called after each batch with the running exported count and total.
type ProgressFunc func(exported int, total int)

// Run paginates through audit records and writes each to the exporter.
// A non-positive batchSize uses audit.DefaultPageSize.
func Run(
	ctx context.Context,
	logger *slog.Logger,
	fetcher Fetcher,
	exporter Exporter,
	batchSize int,
	onProgress ProgressFunc,
) (*Result, error) {
	if err := exporter.Open(ctx); err != nil {
		return nil, fmt.Errorf("opening exporter: %w", err)
	}

	defer func() {
		if closeErr := exporter.Close(ctx); closeErr != nil {
			logger.Error("closing exporter", slog.String("error", closeErr.Error()))
		}
	}()

	if batchSize <= 0 {
		batchSize = audit.DefaultPageSize
	}

	result := &Result{}
	offset := 0

	for {
		records, total, err := fetcher(ctx, batchSize, offset)
		if err != nil {
			return result, fmt.Errorf("fetching entries at offset %d: %w", offset, err)
		}

		result.TotalEntries = total

		for _, record := range records {
			if err := exporter.Write(ctx, record); err != nil {
				return result, fmt.Errorf("writing entry %d: %w", record.Number, err)
			}
			result.ExportedEntries++
		}

		if onProgress != nil {
			onProgress(result.ExportedEntries, total)
		}

		offset += len(records)
		if offset >= total || len(records) < batchSize {
			break
		}
	}

	return result, nil
}
