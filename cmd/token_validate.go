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
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/spf13/cobra"

	"github.com/retr0h/sqlaudit/internal/authtoken"
	"github.com/retr0h/sqlaudit/internal/cli"
)

// TokenValidator parses and validates JWT tokens.
type TokenValidator interface {
	Validate(
		tokenString string,
		signingKey string,
	) (*authtoken.CustomClaims, error)
}

// tokenValidateCmd represents the tokenValidate command.
var tokenValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a token for authenticity and claims",
	Long: `Validate an audit API token by checking its signature, lifetime, issuer
and roles, then print the permissions it resolves to.
`,
	Run: func(cmd *cobra.Command, _ []string) {
		security := appConfig.API.Server.Security
		tokenString, _ := cmd.Flags().GetString("token")

		var tm TokenValidator = authtoken.New(logger)
		claims, err := tm.Validate(tokenString, security.SigningKey)
		if err != nil {
			cli.LogFatal(logger, "failed to validate token", err)
		}

		customRoles := make(map[string][]string, len(security.Roles))
		for name, role := range security.Roles {
			customRoles[name] = role.Permissions
		}
		resolved := authtoken.ResolvePermissions(claims.Roles, claims.Permissions, customRoles)
		granted := make([]string, 0, len(resolved))
		for _, p := range authtoken.AllPermissions {
			if authtoken.HasPermission(resolved, p) {
				granted = append(granted, p)
			}
		}

		if jsonOutput {
			printJSON(map[string]any{
				"subject":     claims.Subject,
				"roles":       claims.Roles,
				"permissions": granted,
				"issued_at":   formatClaimTime(claims.IssuedAt),
				"expires_at":  formatClaimTime(claims.ExpiresAt),
			})
			return
		}

		fmt.Println()
		cli.PrintKV("Subject", claims.Subject, "Roles", strings.Join(claims.Roles, ", "))
		cli.PrintKV("Permissions", strings.Join(granted, ", "))
		cli.PrintKV("Issued", formatClaimTime(claims.IssuedAt),
			"Expires", formatClaimTime(claims.ExpiresAt),
		)
	},
}

func formatClaimTime(
	t *jwt.NumericDate,
) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func init() {
	tokenCmd.AddCommand(tokenValidateCmd)

	tokenValidateCmd.PersistentFlags().StringP("token", "t", "", "The Token string")

	_ = tokenValidateCmd.MarkPersistentFlagRequired("token")
}
