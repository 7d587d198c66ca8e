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

// Package audit provides the signed audit trail: entries, their canonical
// form, the store contract, integrity and retention checks, and the
// request-scoped session that writes and reads them.
package audit

//go:generate go tool github.com/golang/mock/mockgen -source=types.go -destination=mocks/audit.gen.go -package=mocks

import (
	"context"
	"strings"
	"time"
)

// State is the persistence state of an Entry.
type State int

const (
	// StateUnsigned is an entry that was inserted but not yet signed. It is
	// observable between the two commits of Finalize or after a failed sign.
	StateUnsigned State = iota
	// StateSigned is an entry carrying its signature. It is read-only.
	StateSigned
)

// String returns the name of the state.
func (s State) String() string {
	if s == StateSigned {
		return "signed"
	}
	return "unsigned"
}

// Entry represents a single audit log record.
type Entry struct {
	// ID is assigned by the store on insert and never reused.
	ID int64
	// Timestamp is when the entry was constructed, in UTC at microsecond precision.
	Timestamp time.Time
	// Signature is the base64 signature over the canonical form.
	Signature string
	// State tracks whether the entry has been signed.
	State State
	// StoredDate is the date text as read from the store. When set, the
	// canonical form uses it verbatim instead of formatting Timestamp.
	StoredDate string
	// Malformed marks an entry whose stored values could not be decoded.
	// Such an entry never verifies.
	Malformed bool

	Action         string
	Success        int
	Serial         string
	TokenType      string
	User           string
	Realm          string
	Administrator  string
	ActionDetail   string
	Info           string
	ServerIdentity string
	Client         string
	LogLevel       string
	ClearanceLevel string
}

// Fields is the accumulator of an audit session, keyed by field name.
type Fields map[string]string

// Filter maps field names to case-sensitive substrings. Blank values and
// unknown field names are ignored.
type Filter map[string]string

// Order is the sort direction of a query.
type Order string

const (
	// Asc sorts ascending.
	Asc Order = "asc"
	// Desc sorts descending.
	Desc Order = "desc"
)

// ParseOrder returns Desc for "desc" (any case) and Asc otherwise.
func ParseOrder(
	s string,
) Order {
	if strings.EqualFold(strings.TrimSpace(s), string(Desc)) {
		return Desc
	}
	return Asc
}

// Query describes one page of a filtered, sorted read.
type Query struct {
	Filter Filter
	SortBy Field
	Order  Order
	Limit  int
	Offset int
}

// Store persists entries under a store-assigned, strictly increasing id.
type Store interface {
	// Insert writes an unsigned entry and returns its assigned id.
	Insert(ctx context.Context, entry *Entry) (int64, error)
	// UpdateSignature sets the signature of exactly one entry.
	UpdateSignature(ctx context.Context, id int64, signature string) error
	// Query returns the entries matching q.
	Query(ctx context.Context, q Query) ([]Entry, error)
	// Get returns the entry with id, wrapping ErrNotFound when absent.
	Get(ctx context.Context, id int64) (*Entry, error)
	// Count returns the number of entries matching filter.
	Count(ctx context.Context, filter Filter) (int, error)
	// Exists reports whether an entry with id is present.
	Exists(ctx context.Context, id int64) (bool, error)
	// MaxID returns the highest id present, or 0 when empty.
	MaxID(ctx context.Context) (int64, error)
	// DeleteBefore removes every entry with an id below id.
	DeleteBefore(ctx context.Context, id int64) (int64, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// Signer produces a textual signature over a canonical form.
type Signer interface {
	CanSign() bool
	Sign(canonical string) (string, error)
}

// Verifier checks a textual signature against a canonical form.
type Verifier interface {
	CanVerify() bool
	Verify(canonical string, signature string) bool
}

// Check results attached to presentation records.
const (
	CheckOK        = "ok"
	CheckFail      = "fail"
	CheckUnchecked = "unchecked"
)

// Record is the presentation form of an entry returned by Search.
type Record struct {
	Number         int64  `json:"number"`
	Date           string `json:"date"`
	SigCheck       string `json:"sig_check"`
	MissingLine    string `json:"missing_line"`
	Action         string `json:"action"`
	Success        int    `json:"success"`
	Serial         string `json:"serial"`
	TokenType      string `json:"token_type"`
	User           string `json:"user"`
	Realm          string `json:"realm"`
	Administrator  string `json:"administrator"`
	ActionDetail   string `json:"action_detail"`
	Info           string `json:"info"`
	ServerIdentity string `json:"server_identity"`
	Client         string `json:"client"`
	LogLevel       string `json:"log_level"`
	ClearanceLevel string `json:"clearance_level"`
}
