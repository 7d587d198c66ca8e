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
	"fmt"
	"time"
	"unicode/utf8"
)

// Timestamp layouts. DateLayout is part of the canonical form and the stored
// representation, so it must never change.
const (
	DateLayout = "2006-01-02 15:04:05.000000"
	ISOLayout  = "2006-01-02T15:04:05.000000"
)

// DefaultLevel is used for log_level and clearance_level when not supplied.
const DefaultLevel = "default"

// now is the clock used for entry timestamps. Override in tests.
var now = time.Now

// NewEntry builds an unsigned entry from session fields. The timestamp is
// taken at construction, in UTC, at the precision the store preserves.
// Unknown and non-settable keys are ignored; free-text values are cut to
// their column bound.
func NewEntry(
	data Fields,
) *Entry {
	e := &Entry{
		Timestamp:      now().UTC().Truncate(time.Microsecond),
		State:          StateUnsigned,
		LogLevel:       DefaultLevel,
		ClearanceLevel: DefaultLevel,
	}

	for name, value := range data {
		f, ok := ParseField(name)
		if !ok || !f.Settable() {
			continue
		}
		fields[f].set(e, truncate(value, f.MaxLen()))
	}

	return e
}

// Sign moves the entry from unsigned to signed. It is the only transition
// an entry undergoes.
func (e *Entry) Sign(
	signature string,
) error {
	if e.State == StateSigned {
		return ErrAlreadySigned
	}
	if e.ID <= 0 {
		return ErrNotInserted
	}
	if signature == "" {
		return fmt.Errorf("audit: empty signature for entry %d", e.ID)
	}

	e.Signature = signature
	e.State = StateSigned

	return nil
}

// FormatDate renders t in the canonical date layout.
func FormatDate(
	t time.Time,
) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a value written by FormatDate.
func ParseDate(
	s string,
) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ToRecord converts an entry to its presentation form with the given check
// results.
func (e *Entry) ToRecord(
	sigCheck string,
	missingLine string,
) Record {
	date := e.Timestamp.UTC().Format(ISOLayout)
	if e.Timestamp.IsZero() && e.StoredDate != "" {
		date = e.StoredDate
	}

	return Record{
		Number:         e.ID,
		Date:           date,
		SigCheck:       sigCheck,
		MissingLine:    missingLine,
		Action:         e.Action,
		Success:        e.Success,
		Serial:         e.Serial,
		TokenType:      e.TokenType,
		User:           e.User,
		Realm:          e.Realm,
		Administrator:  e.Administrator,
		ActionDetail:   e.ActionDetail,
		Info:           e.Info,
		ServerIdentity: e.ServerIdentity,
		Client:         e.Client,
		LogLevel:       e.LogLevel,
		ClearanceLevel: e.ClearanceLevel,
	}
}

func truncate(
	s string,
	limit int,
) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
