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
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/cli"
)

var (
	cleanupHigh     int
	cleanupLow      int
	cleanupSchedule string
)

// cleanupCmd represents the cleanup command.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Trim the audit log to its newest entries",
	Long: `Delete old audit entries once the log grows past the high watermark.

When more than --high entries exist, every entry numbered below
max_number - --low is deleted. The watermarks default to the
audit.sql.high_watermark and audit.sql.low_watermark settings.

With --schedule the sweep repeats on a cron schedule until interrupted.

The config file must be named with --config-file or SQLAUDIT_CONFIGFILE;
without one cleanup exits with status 2.
`,
	Annotations: map[string]string{explicitConfigAnnotation: "true"},
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		high := appConfig.Audit.SQL.HighWatermark
		if cmd.Flags().Changed("high") {
			high = cleanupHigh
		}
		low := appConfig.Audit.SQL.LowWatermark
		if cmd.Flags().Changed("low") {
			low = cleanupLow
		}

		store := openStore(ctx)
		sweeper := audit.NewSweeper(logger, store)

		if cleanupSchedule == "" {
			err := sweep(ctx, sweeper, high, low)
			closeStore(store)
			if err != nil {
				cli.LogFatal(logger, "cleanup failed", err)
			}
			return
		}

		scheduler, err := cli.NewScheduler(logger, cleanupSchedule, func() {
			if err := sweep(ctx, sweeper, high, low); err != nil {
				logger.Error("scheduled cleanup failed", slog.String("error", err.Error()))
			}
		})
		if err != nil {
			closeStore(store)
			cli.Exit(logger, 2, "invalid --schedule", err)
		}

		scheduler.Start()
		cli.RunServer(ctx, scheduler, func() {
			closeStore(store)
		})
	},
}

// sweep runs one retention sweep and prints what it found.
func sweep(
	ctx context.Context,
	sweeper *audit.Sweeper,
	high int,
	low int,
) error {
	result, err := sweeper.Sweep(ctx, high, low)
	if err != nil {
		return err
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	fmt.Println()
	cli.PrintKV(
		"Entries", strconv.Itoa(result.Count),
		"Max number", strconv.FormatInt(result.MaxID, 10),
	)
	if result.Swept {
		cli.PrintKV(
			"Cutoff", strconv.FormatInt(result.Cutoff, 10),
			"Deleted", strconv.FormatInt(result.Deleted, 10),
		)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().
		IntVar(&cleanupHigh, "high", audit.DefaultHighWatermark, "Entry count above which entries are deleted")
	cleanupCmd.Flags().
		IntVar(&cleanupLow, "low", audit.DefaultLowWatermark, "Number of newest entries to keep")
	cleanupCmd.Flags().
		StringVar(&cleanupSchedule, "schedule", "", "Cron schedule to repeat the sweep on, e.g. \"@hourly\"")
}
