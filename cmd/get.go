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
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/cli"
)

// getCmd represents the get command.
var getCmd = &cobra.Command{
	Use:   "get <number>",
	Short: "Show one audit entry and verify it",
	Long: `Show the audit entry with the given number.

The entry is checked the same way search checks it: its signature
against the public key and whether both neighbouring numbers exist.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id < 1 {
			cli.Exit(logger, 2, "invalid entry number", err, "number", args[0])
		}

		store := openStore(ctx)
		defer closeStore(store)

		record, err := newSession(store, loadKeys()).Get(ctx, id)
		if errors.Is(err, audit.ErrNotFound) {
			fmt.Printf("  No audit entry numbered %d.\n", id)
			return
		}
		if err != nil {
			cli.LogFatal(logger, "failed to get audit entry", err)
		}

		if jsonOutput {
			printJSON(record)
			return
		}

		fmt.Println()
		cli.PrintCompactTable(
			[]cli.Section{cli.BuildRecordTable("Audit Entry", []audit.Record{*record})},
		)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
