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

	"github.com/retr0h/sqlaudit/internal/audit/export"
	"github.com/retr0h/sqlaudit/internal/cli"
)

var (
	exportOutput    string
	exportFilters   []string
	exportBatchSize int
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export verified audit entries to a file",
	Long: `Export audit entries to a file for long-term retention.

Entries are read in pages in number order, verified the same way search
verifies them, and written as one JSON object per line (JSONL).
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		filter, ignored, err := parseFilters(exportFilters)
		if err != nil {
			cli.Exit(logger, 2, "invalid --filter", err)
		}
		if len(ignored) > 0 {
			logger.Warn("ignoring unknown filter fields", "fields", strings.Join(ignored, ","))
		}

		store := openStore(ctx)
		defer closeStore(store)

		session := newSession(store, loadKeys())

		result, err := export.Run(
			ctx,
			logger,
			export.SessionFetcher(session, filter),
			export.NewFileExporter(appFs, exportOutput),
			exportBatchSize,
			func(exported int, total int) {
				logger.Debug("export progress", "exported", exported, "total", total)
			},
		)
		if err != nil {
			cli.LogFatal(logger, "export failed", err, "output", exportOutput)
		}

		if jsonOutput {
			printJSON(map[string]any{
				"output":   exportOutput,
				"exported": result.ExportedEntries,
				"total":    result.TotalEntries,
			})
			return
		}

		fmt.Println()
		cli.PrintKV(
			"Exported", strconv.Itoa(result.ExportedEntries),
			"Total", strconv.Itoa(result.TotalEntries),
		)
		cli.PrintKV("Output", exportOutput)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportOutput, "output", "", "Output file path (required)")
	exportCmd.Flags().
		StringArrayVar(&exportFilters, "filter", nil, "Substring filter as field=value (repeatable)")
	exportCmd.Flags().IntVar(&exportBatchSize, "batch-size", 500, "Entries read per page")
	_ = exportCmd.MarkFlagRequired("output")
}
