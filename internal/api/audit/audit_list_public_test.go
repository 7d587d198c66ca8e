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
	"errors"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	auditstore "github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/audit/mocks"
)

type AuditListPublicTestSuite struct {
	suite.Suite

	mockCtrl  *gomock.Controller
	mockStore *mocks.MockStore
	logger    *slog.Logger
}

func (s *AuditListPublicTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockStore = mocks.NewMockStore(s.mockCtrl)
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func (s *AuditListPublicTestSuite) SetupSubTest() {
	s.SetupTest()
}

func (s *AuditListPublicTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *AuditListPublicTestSuite) TestGetAuditLogs() {
	entry := auditstore.Entry{
		ID:        5,
		Timestamp: time.Date(2026, 10, 18, 9, 30, 15, 0, time.UTC),
		Action:    "POST /validate/check",
		Success:   1,
		User:      "alice",
		State:     auditstore.StateUnsigned,
	}

	tests := []struct {
		name         string
		query        string
		setup        func()
		wantCode     int
		wantContains []string
	}{
		{
			name:  "when valid request returns annotated entries",
			query: "",
			setup: func() {
				s.mockStore.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				s.mockStore.EXPECT().
					Query(gomock.Any(), gomock.Any()).
					Return([]auditstore.Entry{entry}, nil)
				s.mockStore.EXPECT().Exists(gomock.Any(), int64(4)).Return(true, nil)
				s.mockStore.EXPECT().Exists(gomock.Any(), int64(6)).Return(false, nil)
			},
			wantCode: http.StatusOK,
			wantContains: []string{
				`"total_items":1`,
				`"page":1`,
				`"page_size":15`,
				`"number":5`,
				`"user":"alice"`,
				`"sig_check":"unchecked"`,
				`"missing_line":"fail"`,
			},
		},
		{
			name:  "when filters and paging are given they reach the store",
			query: "?user=ali&bogus=x&serial=&page=2&page_size=5&sort_by=user&sort_order=desc",
			setup: func() {
				filter := auditstore.Filter{"user": "ali"}
				s.mockStore.EXPECT().Count(gomock.Any(), filter).Return(6, nil)
				s.mockStore.EXPECT().
					Query(gomock.Any(), auditstore.Query{
						Filter: filter,
						SortBy: auditstore.FieldUser,
						Order:  auditstore.Desc,
						Limit:  5,
						Offset: 5,
					}).
					Return([]auditstore.Entry{}, nil)
			},
			wantCode:     http.StatusOK,
			wantContains: []string{`"total_items":6`, `"page":2`, `"items":[]`},
		},
		{
			name:         "when page is negative returns 400",
			query:        "?page=-1",
			wantCode:     http.StatusBadRequest,
			wantContains: []string{`"error"`},
		},
		{
			name:         "when page size exceeds maximum returns 400",
			query:        "?page_size=5000",
			wantCode:     http.StatusBadRequest,
			wantContains: []string{`"error"`},
		},
		{
			name:         "when page exceeds maximum returns 400",
			query:        "?page=9223372036854775807",
			wantCode:     http.StatusBadRequest,
			wantContains: []string{`"error"`},
		},
		{
			name:         "when page is not a number returns 400",
			query:        "?page=abc",
			wantCode:     http.StatusBadRequest,
			wantContains: []string{`"error"`},
		},
		{
			name:         "when sort field is unknown returns 400",
			query:        "?sort_by=signature",
			wantCode:     http.StatusBadRequest,
			wantContains: []string{`unknown audit field`},
		},
		{
			name:         "when sort order is invalid returns 400",
			query:        "?sort_order=sideways",
			wantCode:     http.StatusBadRequest,
			wantContains: []string{`must be asc or desc`},
		},
		{
			name:  "when count fails returns 500",
			query: "",
			setup: func() {
				s.mockStore.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("database is locked"))
			},
			wantCode:     http.StatusInternalServerError,
			wantContains: []string{`"failed to count audit entries"`},
		},
		{
			name:  "when query fails returns 500",
			query: "",
			setup: func() {
				s.mockStore.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
				s.mockStore.EXPECT().
					Query(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database is locked"))
			},
			wantCode:     http.StatusInternalServerError,
			wantContains: []string{`"failed to search audit entries"`},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			if tc.setup != nil {
				tc.setup()
			}

			rec := serve(s.logger, s.mockStore, nil, nil, http.MethodGet, "/audit"+tc.query, "")

			s.Equal(tc.wantCode, rec.Code)
			for _, want := range tc.wantContains {
				s.Contains(rec.Body.String(), want)
			}
		})
	}
}

func (s *AuditListPublicTestSuite) TestGetAuditCount() {
	tests := []struct {
		name         string
		query        string
		setup        func()
		wantCode     int
		wantContains string
	}{
		{
			name:  "when unfiltered returns the total",
			query: "",
			setup: func() {
				s.mockStore.EXPECT().Count(gomock.Any(), auditstore.Filter{}).Return(42, nil)
			},
			wantCode:     http.StatusOK,
			wantContains: `{"count":42}`,
		},
		{
			name:  "when filtered passes known fields only",
			query: "?realm=corp&nope=1",
			setup: func() {
				s.mockStore.EXPECT().
					Count(gomock.Any(), auditstore.Filter{"realm": "corp"}).
					Return(2, nil)
			},
			wantCode:     http.StatusOK,
			wantContains: `{"count":2}`,
		},
		{
			name:  "when store fails returns 500",
			query: "",
			setup: func() {
				s.mockStore.EXPECT().
					Count(gomock.Any(), gomock.Any()).
					Return(0, errors.New("disk I/O error"))
			},
			wantCode:     http.StatusInternalServerError,
			wantContains: `"failed to count audit entries"`,
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			tc.setup()

			rec := serve(s.logger, s.mockStore, nil, nil, http.MethodGet, "/audit/count"+tc.query, "")

			s.Equal(tc.wantCode, rec.Code)
			s.Contains(rec.Body.String(), tc.wantContains)
		})
	}
}

func TestAuditListPublicTestSuite(t *testing.T) {
	suite.Run(t, new(AuditListPublicTestSuite))
}
