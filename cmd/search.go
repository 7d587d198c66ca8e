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

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/cli"
	"github.com/retr0h/sqlaudit/internal/validation"
)

var (
	searchFilters  []string
	searchPage     int
	searchPageSize int
	searchSortBy   string
	searchOrder    string
)

// searchCmd represents the search command.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search audit entries and verify them",
	Long: `Search audit entries by substring filters and show one page.

Every entry is checked twice: its signature against the public key
(sig_check) and whether both neighbouring numbers still exist
(missing_line). Filters are field=value terms; unknown fields are ignored.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		if errMsg, ok := validation.Var(searchSortBy, "audit_field"); !ok {
			cli.Exit(logger, 2, "invalid --sort-by", fmt.Errorf("%s", errMsg))
		}
		if errMsg, ok := validation.Var(searchOrder, "audit_order"); !ok {
			cli.Exit(logger, 2, "invalid --order", fmt.Errorf("%s", errMsg))
		}

		filter, ignored, err := parseFilters(searchFilters)
		if err != nil {
			cli.Exit(logger, 2, "invalid --filter", err)
		}
		if len(ignored) > 0 {
			logger.Warn("ignoring unknown filter fields", "fields", strings.Join(ignored, ","))
		}

		store := openStore(ctx)
		defer closeStore(store)

		session := newSession(store, loadKeys())

		total, err := session.Count(ctx, filter)
		if err != nil {
			cli.LogFatal(logger, "failed to count audit entries", err)
		}

		records, err := session.Search(ctx, filter, audit.SearchOptions{
			PageSize:  searchPageSize,
			Page:      searchPage,
			SortBy:    searchSortBy,
			SortOrder: searchOrder,
		})
		if err != nil {
			cli.LogFatal(logger, "failed to search audit entries", err)
		}

		if jsonOutput {
			printJSON(map[string]any{
				"total_items": total,
				"items":       records,
			})
			return
		}

		fmt.Println()
		cli.PrintKV(
			"Total", strconv.Itoa(total),
			"Page", strconv.Itoa(max(searchPage, audit.DefaultPage)),
		)

		if len(records) == 0 {
			fmt.Println("  No audit entries found.")
			return
		}

		cli.PrintCompactTable([]cli.Section{cli.BuildRecordTable("Audit Entries", records)})

		badSignatures, gaps := cli.CountChecks(records)
		if badSignatures > 0 || gaps > 0 {
			fmt.Println()
			cli.PrintKV(
				"Bad signatures", strconv.Itoa(badSignatures),
				"Missing neighbours", strconv.Itoa(gaps),
			)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().
		StringArrayVar(&searchFilters, "filter", nil, "Substring filter as field=value (repeatable)")
	searchCmd.Flags().IntVar(&searchPage, "page", audit.DefaultPage, "Page number, starting at 1")
	searchCmd.Flags().
		IntVar(&searchPageSize, "page-size", audit.DefaultPageSize, "Number of entries per page")
	searchCmd.Flags().StringVar(&searchSortBy, "sort-by", "number", "Field to sort by")
	searchCmd.Flags().StringVar(&searchOrder, "order", "asc", "Sort order, asc or desc")
}
