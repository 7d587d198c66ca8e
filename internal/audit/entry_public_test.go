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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/retr0h/sqlaudit/internal/audit"
)

type EntryPublicTestSuite struct {
	suite.Suite
}

func TestEntryPublicTestSuite(t *testing.T) {
	suite.Run(t, new(EntryPublicTestSuite))
}

func (s *EntryPublicTestSuite) TestNewEntry() {
	tests := []struct {
		name         string
		data         audit.Fields
		validateFunc func(e *audit.Entry)
	}{
		{
			name: "maps known fields",
			data: audit.Fields{
				"action":          "login",
				"success":         "1",
				"serial":          "TOTP01",
				"token_type":      "totp",
				"user":            "bob",
				"realm":           "corp",
				"administrator":   "root",
				"action_detail":   "ok",
				"info":            "n/a",
				"server_identity": "pi-2",
				"client":          "192.0.2.1",
				"log_level":       "info",
				"clearance_level": "secret",
			},
			validateFunc: func(e *audit.Entry) {
				s.Equal("login", e.Action)
				s.Equal(1, e.Success)
				s.Equal("TOTP01", e.Serial)
				s.Equal("totp", e.TokenType)
				s.Equal("bob", e.User)
				s.Equal("corp", e.Realm)
				s.Equal("root", e.Administrator)
				s.Equal("ok", e.ActionDetail)
				s.Equal("n/a", e.Info)
				s.Equal("pi-2", e.ServerIdentity)
				s.Equal("192.0.2.1", e.Client)
				s.Equal("info", e.LogLevel)
				s.Equal("secret", e.ClearanceLevel)
			},
		},
		{
			name: "defaults levels and starts unsigned",
			data: audit.Fields{"action": "logout"},
			validateFunc: func(e *audit.Entry) {
				s.Equal(audit.DefaultLevel, e.LogLevel)
				s.Equal(audit.DefaultLevel, e.ClearanceLevel)
				s.Equal(audit.StateUnsigned, e.State)
				s.Empty(e.Signature)
				s.Zero(e.ID)
			},
		},
		{
			name: "ignores unknown and non-settable keys",
			data: audit.Fields{
				"bogus":  "x",
				"number": "99",
				"date":   "1970-01-01 00:00:00.000000",
			},
			validateFunc: func(e *audit.Entry) {
				s.Zero(e.ID)
				s.NotEqual(1970, e.Timestamp.Year())
			},
		},
		{
			name: "parses boolean success",
			data: audit.Fields{"success": "true"},
			validateFunc: func(e *audit.Entry) {
				s.Equal(1, e.Success)
			},
		},
		{
			name: "treats unparsable success as zero",
			data: audit.Fields{"success": "maybe"},
			validateFunc: func(e *audit.Entry) {
				s.Equal(0, e.Success)
			},
		},
		{
			name: "truncates values to the column bound",
			data: audit.Fields{
				"user":   strings.Repeat("u", 30),
				"action": strings.Repeat("ä", 60),
			},
			validateFunc: func(e *audit.Entry) {
				s.Equal(strings.Repeat("u", 20), e.User)
				s.Equal(strings.Repeat("ä", 50), e.Action)
			},
		},
		{
			name: "stamps a UTC timestamp at microsecond precision",
			data: audit.Fields{},
			validateFunc: func(e *audit.Entry) {
				s.Equal(time.UTC, e.Timestamp.Location())
				s.Zero(e.Timestamp.Nanosecond() % 1000)
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.validateFunc(audit.NewEntry(tt.data))
		})
	}
}

func (s *EntryPublicTestSuite) TestSign() {
	tests := []struct {
		name      string
		entry     audit.Entry
		signature string
		wantErr   error
		wantState audit.State
	}{
		{
			name:      "signs an inserted entry",
			entry:     audit.Entry{ID: 1},
			signature: "c2ln",
			wantState: audit.StateSigned,
		},
		{
			name:      "refuses an entry without id",
			entry:     audit.Entry{},
			signature: "c2ln",
			wantErr:   audit.ErrNotInserted,
			wantState: audit.StateUnsigned,
		},
		{
			name:      "refuses to sign twice",
			entry:     audit.Entry{ID: 1, Signature: "b2xk", State: audit.StateSigned},
			signature: "c2ln",
			wantErr:   audit.ErrAlreadySigned,
			wantState: audit.StateSigned,
		},
		{
			name:      "refuses an empty signature",
			entry:     audit.Entry{ID: 1},
			signature: "",
			wantState: audit.StateUnsigned,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			e := tt.entry
			err := e.Sign(tt.signature)

			switch {
			case tt.wantErr != nil:
				s.ErrorIs(err, tt.wantErr)
			case tt.signature == "":
				s.Error(err)
			default:
				s.NoError(err)
				s.Equal(tt.signature, e.Signature)
			}
			s.Equal(tt.wantState, e.State)
		})
	}
}

func (s *EntryPublicTestSuite) TestToRecord() {
	e := audit.Entry{
		ID:        7,
		Timestamp: time.Date(2026, 10, 18, 9, 30, 15, 500000, time.UTC),
		Action:    "login",
		Success:   1,
		User:      "alice",
	}

	r := e.ToRecord(audit.CheckOK, audit.CheckFail)

	s.Equal(int64(7), r.Number)
	s.Equal("2026-10-18T09:30:15.000500", r.Date)
	s.Equal(audit.CheckOK, r.SigCheck)
	s.Equal(audit.CheckFail, r.MissingLine)
	s.Equal("login", r.Action)
	s.Equal(1, r.Success)
	s.Equal("alice", r.User)
}

func (s *EntryPublicTestSuite) TestParseField() {
	tests := []struct {
		name   string
		input  string
		want   audit.Field
		wantOK bool
		column string
	}{
		{name: "number", input: "number", want: audit.FieldNumber, wantOK: true, column: "id"},
		{name: "id alias", input: "id", want: audit.FieldNumber, wantOK: true, column: "id"},
		{name: "user", input: "user", want: audit.FieldUser, wantOK: true, column: "user"},
		{name: "date", input: "date", want: audit.FieldDate, wantOK: true, column: "date"},
		{name: "signature is not a field", input: "signature", wantOK: false},
		{name: "unknown", input: "drop table", wantOK: false},
		{name: "case sensitive", input: "User", wantOK: false},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, ok := audit.ParseField(tt.input)
			s.Equal(tt.wantOK, ok)
			if tt.wantOK {
				s.Equal(tt.want, got)
				s.Equal(tt.column, got.Column())
			}
		})
	}
}

func (s *EntryPublicTestSuite) TestParseOrder() {
	s.Equal(audit.Desc, audit.ParseOrder("desc"))
	s.Equal(audit.Desc, audit.ParseOrder(" DESC "))
	s.Equal(audit.Asc, audit.ParseOrder("asc"))
	s.Equal(audit.Asc, audit.ParseOrder(""))
	s.Equal(audit.Asc, audit.ParseOrder("sideways"))
}
