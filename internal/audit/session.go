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
	"math"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Search defaults.
const (
	DefaultPageSize = 15
	DefaultPage     = 1
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithServerIdentity sets the server_identity written when the caller has
// not recorded one.
func WithServerIdentity(
	name string,
) SessionOption {
	return func(s *Session) {
		s.serverIdentity = name
	}
}

// Session accumulates the fields of one logical operation and writes them as
// a signed entry. A Session belongs to a single request and must not be
// shared between requests.
type Session struct {
	id             string
	logger         *slog.Logger
	store          Store
	signer         Signer
	verifier       Verifier
	checker        *Checker
	serverIdentity string
	data           Fields
}

// NewSession creates an empty Session. A nil signer disables writing and a
// nil verifier reports every signature as unchecked.
func NewSession(
	logger *slog.Logger,
	store Store,
	signer Signer,
	verifier Verifier,
	opts ...SessionOption,
) *Session {
	id := uuid.New().String()
	s := &Session{
		id:       id,
		logger:   logger.With(slog.String("audit_session", id)),
		store:    store,
		signer:   signer,
		verifier: verifier,
		checker:  NewChecker(store),
		data:     Fields{},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the correlation id of the session.
func (s *Session) ID() string {
	return s.id
}

// Data returns a copy of the accumulated fields.
func (s *Session) Data() Fields {
	cp := make(Fields, len(s.data))
	for k, v := range s.data {
		cp[k] = v
	}
	return cp
}

// Record merges fields into the accumulator; later values win.
func (s *Session) Record(
	fields Fields,
) {
	for k, v := range fields {
		s.data[k] = v
	}
}

// Append concatenates each value onto the accumulated value of the same key,
// setting keys not yet present.
func (s *Session) Append(
	fields Fields,
) {
	for k, v := range fields {
		s.data[k] += v
	}
}

// Finalize writes the accumulated fields as an entry: insert unsigned, sign
// the canonical form carrying the assigned id, then store the signature.
// The accumulator is emptied whatever the outcome. A failure after the
// insert leaves an unsigned entry in the store; it is logged and returned
// with the id so callers can report it without failing their own operation.
func (s *Session) Finalize(
	ctx context.Context,
) (int64, error) {
	ctx, span := tracer.Start(ctx, "audit.Finalize")
	defer span.End()

	data := s.data
	defer s.reset()

	if s.signer == nil || !s.signer.CanSign() {
		s.logFailure("refusing to write unsigned audit entry", ErrSigningUnavailable, data)
		span.SetStatus(codes.Error, ErrSigningUnavailable.Error())
		return 0, ErrSigningUnavailable
	}

	entry := NewEntry(data)
	if _, ok := data[string(FieldServerIdentity)]; !ok && s.serverIdentity != "" {
		entry.ServerIdentity = truncate(s.serverIdentity, FieldServerIdentity.MaxLen())
	}

	id, err := s.store.Insert(ctx, entry)
	if err != nil {
		s.logFailure("failed to insert audit entry", err, data)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("insert audit entry: %w", err)
	}
	entry.ID = id
	span.SetAttributes(attribute.Int64("audit.entry_id", id))

	signature, err := s.signer.Sign(Canonical(entry))
	if err != nil {
		signFailures.Add(ctx, 1)
		s.logFailure("failed to sign audit entry", err, data, slog.Int64("entry_id", id))
		span.SetStatus(codes.Error, err.Error())
		return id, fmt.Errorf("sign audit entry %d: %w", id, err)
	}

	if err := s.store.UpdateSignature(ctx, id, signature); err != nil {
		signFailures.Add(ctx, 1)
		s.logFailure("failed to store audit signature", err, data, slog.Int64("entry_id", id))
		span.SetStatus(codes.Error, err.Error())
		return id, fmt.Errorf("update signature of audit entry %d: %w", id, err)
	}

	if err := entry.Sign(signature); err != nil {
		return id, err
	}
	entriesWritten.Add(ctx, 1)

	s.logger.Debug(
		"audit entry written",
		slog.Int64("entry_id", id),
		slog.String("action", entry.Action),
	)

	return id, nil
}

// SearchOptions selects the page and order of a search.
type SearchOptions struct {
	PageSize  int
	Page      int
	SortBy    string
	SortOrder string
}

// Search returns one page of presentation records matching filter. Each
// record carries its own signature check and contiguity check.
func (s *Session) Search(
	ctx context.Context,
	filter Filter,
	opts SearchOptions,
) ([]Record, error) {
	ctx, span := tracer.Start(ctx, "audit.Search")
	defer span.End()

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := opts.Page
	if page <= 0 {
		page = DefaultPage
	}
	// A page whose offset does not fit in an int lies past every entry.
	if page-1 > math.MaxInt/pageSize {
		return []Record{}, nil
	}
	sortBy, ok := ParseField(opts.SortBy)
	if !ok {
		sortBy = FieldNumber
	}

	entries, err := s.store.Query(ctx, Query{
		Filter: filter,
		SortBy: sortBy,
		Order:  ParseOrder(opts.SortOrder),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	span.SetAttributes(attribute.Int("audit.results", len(entries)))

	records := make([]Record, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		records = append(records, e.ToRecord(s.checkSignature(ctx, e), s.checkMissing(ctx, e)))
	}

	return records, nil
}

// Count returns the number of entries matching filter.
func (s *Session) Count(
	ctx context.Context,
	filter Filter,
) (int, error) {
	count, err := s.store.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return count, nil
}

// Clear deletes every entry. Only tests and maintenance use it.
func (s *Session) Clear(
	ctx context.Context,
) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear audit entries: %w", err)
	}
	return nil
}

// Get returns the presentation record of the entry with id, carrying its
// signature and contiguity checks. A missing entry wraps ErrNotFound.
func (s *Session) Get(
	ctx context.Context,
	id int64,
) (*Record, error) {
	ctx, span := tracer.Start(ctx, "audit.Get")
	defer span.End()
	span.SetAttributes(attribute.Int64("audit.entry_id", id))

	e, err := s.store.Get(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("get audit entry: %w", err)
	}

	r := e.ToRecord(s.checkSignature(ctx, e), s.checkMissing(ctx, e))
	return &r, nil
}

func (s *Session) checkSignature(
	ctx context.Context,
	e *Entry,
) string {
	result := CheckFail
	switch {
	case s.verifier == nil || !s.verifier.CanVerify():
		result = CheckUnchecked
	case e.State == StateUnsigned:
		s.logger.Warn("audit entry is unsigned", slog.Int64("entry_id", e.ID))
	case e.Malformed:
		s.logger.Warn("audit entry has undecodable values", slog.Int64("entry_id", e.ID))
	case s.verifier.Verify(Canonical(e), e.Signature):
		result = CheckOK
	default:
		s.logger.Warn("audit entry failed signature check", slog.Int64("entry_id", e.ID))
	}

	recordVerification(ctx, result)
	return result
}

func (s *Session) checkMissing(
	ctx context.Context,
	e *Entry,
) string {
	ok, err := s.checker.IsContiguous(ctx, e.ID)
	if err != nil {
		s.logger.Error(
			"failed to check audit entry neighbours",
			slog.Int64("entry_id", e.ID),
			slog.String("error", err.Error()),
		)
		return CheckFail
	}
	if !ok {
		return CheckFail
	}
	return CheckOK
}

func (s *Session) logFailure(
	msg string,
	err error,
	data Fields,
	attrs ...any,
) {
	args := append([]any{
		slog.String("error", err.Error()),
		slog.Any("data", data),
	}, attrs...)
	s.logger.Error(msg, args...)
}

func (s *Session) reset() {
	s.data = Fields{}
}
