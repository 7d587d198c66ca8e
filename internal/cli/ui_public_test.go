// Copyright (c) 2024 John Dewey

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

package cli_test

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/cli"
)

type UITestSuite struct {
	suite.Suite
}

func TestUITestSuite(t *testing.T) {
	suite.Run(t, new(UITestSuite))
}

func captureStdout(
	fn func(),
) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	out, _ := io.ReadAll(r)
	os.Stdout = old

	return string(out)
}

func (suite *UITestSuite) TestBuildRecordTable() {
	tests := []struct {
		name         string
		records      []audit.Record
		validateFunc func(cli.Section)
	}{
		{
			name:    "when no records builds empty section",
			records: []audit.Record{},
			validateFunc: func(s cli.Section) {
				assert.Equal(suite.T(), cli.RecordHeaders, s.Headers)
				assert.Empty(suite.T(), s.Rows)
			},
		},
		{
			name: "when records present builds one row each",
			records: []audit.Record{
				{
					Number:      12,
					Date:        "2026-10-18T09:30:15.000000",
					SigCheck:    audit.CheckOK,
					MissingLine: audit.CheckFail,
					Action:      "login",
					Success:     1,
					User:        "alice",
				},
			},
			validateFunc: func(s cli.Section) {
				assert.Len(suite.T(), s.Rows, 1)
				assert.Len(suite.T(), s.Rows[0], len(cli.RecordHeaders))
				assert.Equal(suite.T(), "12", s.Rows[0][0])
				assert.Equal(suite.T(), audit.CheckOK, s.Rows[0][2])
				assert.Equal(suite.T(), audit.CheckFail, s.Rows[0][3])
				assert.Equal(suite.T(), "1", s.Rows[0][5])
				assert.Equal(suite.T(), "alice", s.Rows[0][8])
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			tc.validateFunc(cli.BuildRecordTable("Audit", tc.records))
		})
	}
}

func (suite *UITestSuite) TestCountChecks() {
	records := []audit.Record{
		{SigCheck: audit.CheckOK, MissingLine: audit.CheckOK},
		{SigCheck: audit.CheckFail, MissingLine: audit.CheckOK},
		{SigCheck: audit.CheckUnchecked, MissingLine: audit.CheckFail},
		{SigCheck: audit.CheckFail, MissingLine: audit.CheckFail},
	}

	badSignatures, gaps := cli.CountChecks(records)

	assert.Equal(suite.T(), 2, badSignatures)
	assert.Equal(suite.T(), 2, gaps)
}

func (suite *UITestSuite) TestPrintCompactTable() {
	tests := []struct {
		name     string
		sections []cli.Section
		contains []string
	}{
		{
			name: "when section with title renders headers and rows",
			sections: []cli.Section{
				{
					Title:   "Audit",
					Headers: []string{"number", "user"},
					Rows:    [][]string{{"1", "alice"}},
				},
			},
			contains: []string{"Audit", "NUMBER", "USER", "alice"},
		},
		{
			name: "when cell exceeds max width truncates",
			sections: []cli.Section{
				{
					Headers: []string{"info"},
					Rows: [][]string{{
						"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
					}},
				},
			},
			contains: []string{"…"},
		},
		{
			name: "when multi-line cell flattens",
			sections: []cli.Section{
				{
					Headers: []string{"info"},
					Rows:    [][]string{{"line one\nline two"}},
				},
			},
			contains: []string{"line one line two"},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			output := captureStdout(func() {
				cli.PrintCompactTable(tc.sections)
			})

			for _, c := range tc.contains {
				assert.Contains(suite.T(), output, c)
			}
		})
	}
}

func (suite *UITestSuite) TestPrintKV() {
	tests := []struct {
		name       string
		pairs      []string
		wantOutput bool
	}{
		{
			name:       "when valid pairs prints output",
			pairs:      []string{"Key", "Value"},
			wantOutput: true,
		},
		{
			name:       "when multiple pairs prints all",
			pairs:      []string{"Name", "test", "Status", "ok"},
			wantOutput: true,
		},
		{
			name:       "when odd number of pairs prints nothing",
			pairs:      []string{"Key"},
			wantOutput: false,
		},
		{
			name:       "when empty prints nothing",
			pairs:      []string{},
			wantOutput: false,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			output := captureStdout(func() {
				cli.PrintKV(tc.pairs...)
			})

			if tc.wantOutput {
				assert.NotEmpty(suite.T(), output)
			} else {
				assert.Empty(suite.T(), output)
			}
		})
	}
}

func (suite *UITestSuite) TestCalculateColumnWidths() {
	tests := []struct {
		name       string
		headers    []string
		rows       [][]string
		minPadding int
		want       []int
	}{
		{
			name:       "when empty headers returns empty",
			headers:    []string{},
			rows:       nil,
			minPadding: 1,
			want:       []int{},
		},
		{
			name:       "when headers wider than rows uses header width",
			headers:    []string{"HOSTNAME", "STATUS"},
			rows:       [][]string{{"a", "b"}},
			minPadding: 1,
			want:       []int{10, 8},
		},
		{
			name:       "when rows wider than headers uses row width",
			headers:    []string{"A", "B"},
			rows:       [][]string{{"longvalue", "anotherlongvalue"}},
			minPadding: 1,
			want:       []int{11, 18},
		},
		{
			name:       "when multi-line content uses longest line width",
			headers:    []string{"DATA"},
			rows:       [][]string{{"short\nvery long line here"}},
			minPadding: 0,
			want:       []int{19},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			got := cli.CalculateColumnWidths(tc.headers, tc.rows, tc.minPadding)

			assert.Equal(suite.T(), tc.want, got)
		})
	}
}

func (suite *UITestSuite) TestGetMaxLineWidth() {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "when single line returns its length",
			text: "hello",
			want: 5,
		},
		{
			name: "when multi-line returns longest",
			text: "short\na much longer line\nmed",
			want: 18,
		},
		{
			name: "when empty returns zero",
			text: "",
			want: 0,
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			got := cli.GetMaxLineWidth(tc.text)

			assert.Equal(suite.T(), tc.want, got)
		})
	}
}
