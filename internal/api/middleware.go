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

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/retr0h/sqlaudit/internal/authtoken"
)

// Context key constants for injecting user identity into handlers.
const (
	ContextKeySubject = "auth.subject"
	ContextKeyRoles   = "auth.roles"
)

// TokenValidator parses and validates JWT tokens.
type TokenValidator interface {
	Validate(
		tokenString string,
		signingKey string,
	) (*authtoken.CustomClaims, error)
}

// requirePermission returns the middleware guarding a route that needs
// permission. Nothing is returned when no signing key is configured.
func (s *Server) requirePermission(
	permission string,
) []echo.MiddlewareFunc {
	security := s.appConfig.API.Server.Security
	if security.SigningKey == "" {
		return nil
	}

	customRoles := make(map[string][]string, len(security.Roles))
	for name, role := range security.Roles {
		customRoles[name] = role.Permissions
	}

	var tokenManager TokenValidator = authtoken.New(s.logger)

	return []echo.MiddlewareFunc{
		scopeMiddleware(s.logger, tokenManager, security.SigningKey, permission, customRoles),
	}
}

// scopeMiddleware validates the bearer token and checks that it resolves to
// the required permission.
func scopeMiddleware(
	logger *slog.Logger,
	tokenManager TokenValidator,
	signingKey string,
	required string,
	customRoles map[string][]string,
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			authHeader := ctx.Request().Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Error: "Bearer token required",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := tokenManager.Validate(tokenString, signingKey)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Error: "Invalid token: " + err.Error(),
				})
			}

			ctx.Set(ContextKeySubject, claims.Subject)
			ctx.Set(ContextKeyRoles, claims.Roles)

			resolved := authtoken.ResolvePermissions(
				claims.Roles,
				claims.Permissions,
				customRoles,
			)
			if authtoken.HasPermission(resolved, required) {
				return next(ctx)
			}

			granted := make([]string, 0, len(resolved))
			for p := range resolved {
				granted = append(granted, p)
			}
			sort.Strings(granted)

			logger.Warn(
				"permission denied",
				slog.String("subject", claims.Subject),
				slog.String("required", required),
				slog.String("path", ctx.Path()),
			)

			return ctx.JSON(http.StatusForbidden, ErrorResponse{
				Error: fmt.Sprintf(
					"Insufficient permissions. Required: %s, resolved: %v",
					required,
					granted,
				),
			})
		}
	}
}
