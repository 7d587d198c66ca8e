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

	"github.com/spf13/cobra"

	"github.com/retr0h/sqlaudit/internal/cli"
	"github.com/retr0h/sqlaudit/internal/signer"
)

var (
	keygenPublic  string
	keygenPrivate string
	keygenBits    int
)

// keygenCmd represents the keygen command.
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an audit signing key pair",
	Long: `Generate an RSA key pair for signing audit entries.

The private key is written as PKCS#8 PEM with mode 0600 and the public key
as PKIX PEM. Point audit.keys.private and audit.keys.public at them.
`,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	Run: func(_ *cobra.Command, _ []string) {
		keys, err := signer.Generate(keygenBits)
		if err != nil {
			cli.LogFatal(logger, "failed to generate key pair", err)
		}

		if err := keys.WritePEM(appFs, keygenPublic, keygenPrivate); err != nil {
			cli.LogFatal(logger, "failed to write key pair", err)
		}

		logger.Info(
			"generated key pair",
			slog.String("public", keygenPublic),
			slog.String("private", keygenPrivate),
			slog.Int("bits", keys.Public().N.BitLen()),
		)

		if !jsonOutput {
			fmt.Println()
			cli.PrintKV("Public", keygenPublic, "Private", keygenPrivate)
		}
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)

	keygenCmd.Flags().StringVar(&keygenPublic, "public", "public.pem", "Public key output path")
	keygenCmd.Flags().StringVar(&keygenPrivate, "private", "private.pem", "Private key output path")
	keygenCmd.Flags().IntVar(&keygenBits, "bits", signer.DefaultBits, "RSA modulus size")
}
