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
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retr0h/sqlaudit/internal/audit"
	"github.com/retr0h/sqlaudit/internal/cli"
)

// logFields are the audit fields settable from the log command, one flag
// each.
var logFields = []audit.Field{
	audit.FieldAction,
	audit.FieldSuccess,
	audit.FieldSerial,
	audit.FieldTokenType,
	audit.FieldUser,
	audit.FieldRealm,
	audit.FieldAdministrator,
	audit.FieldActionDetail,
	audit.FieldInfo,
	audit.FieldServerIdentity,
	audit.FieldClient,
	audit.FieldLogLevel,
	audit.FieldClearanceLevel,
}

func flagName(
	f audit.Field,
) string {
	return strings.ReplaceAll(string(f), "_", "-")
}

// logCmd represents the log command.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Write one signed audit entry",
	Long: `Write one audit entry built from the given flags and sign it.

The entry is inserted first and signed once the database has assigned its
number. A signing failure leaves the entry unsigned; it is logged and the
command still exits 0.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		fields := audit.Fields{}
		for _, f := range logFields {
			name := flagName(f)
			if !cmd.Flags().Changed(name) {
				continue
			}
			value, _ := cmd.Flags().GetString(name)
			fields[string(f)] = value
		}

		store := openStore(ctx)
		defer closeStore(store)

		session := newSession(store, loadKeys())
		session.Record(fields)

		id, err := session.Finalize(ctx)
		signed := err == nil
		if err != nil {
			logger.Warn(
				"audit entry was not signed",
				slog.Int64("entry_id", id),
				slog.String("error", err.Error()),
			)
		}

		if jsonOutput {
			printJSON(map[string]any{"id": id, "signed": signed})
			return
		}

		fmt.Println()
		cli.PrintKV(
			"Number", strconv.FormatInt(id, 10),
			"Signed", strconv.FormatBool(signed),
		)
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	for _, f := range logFields {
		logCmd.Flags().String(flagName(f), "", fmt.Sprintf("Value of the %s field", f))
	}
	_ = logCmd.MarkFlagRequired(flagName(audit.FieldAction))
}
