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

package authtoken_test

import (
	"encoding/base64"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/suite"

	"github.com/retr0h/sqlaudit/internal/authtoken"
)

type AuthTokenPublicTestSuite struct {
	suite.Suite

	token      *authtoken.Token
	signingKey string
}

func (s *AuthTokenPublicTestSuite) SetupTest() {
	s.token = authtoken.New(slog.Default())
	s.signingKey = "test-signing-key-for-jwt-operations"
}

func (s *AuthTokenPublicTestSuite) TestGenerateAllowedRoles() {
	roles := authtoken.GenerateAllowedRoles(authtoken.RoleHierarchy)

	s.Equal([]string{"admin", "read", "write"}, roles)
}

func (s *AuthTokenPublicTestSuite) TestGenerate() {
	tests := []struct {
		name        string
		signingKey  string
		expectError bool
	}{
		{
			name:       "signs with key",
			signingKey: s.signingKey,
		},
		{
			name:        "refuses empty key",
			signingKey:  "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tokenString, err := s.token.Generate(tt.signingKey, []string{"admin"}, "ops", nil)

			if tt.expectError {
				s.Error(err)
				s.Empty(tokenString)
				return
			}
			s.NoError(err)
			s.NotEmpty(tokenString)
		})
	}
}

func (s *AuthTokenPublicTestSuite) sign(
	claims authtoken.CustomClaims,
) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(s.signingKey))
	s.Require().NoError(err)
	return t
}

func (s *AuthTokenPublicTestSuite) TestValidate() {
	tests := []struct {
		name        string
		tokenFunc   func() string
		signingKey  string
		expectError bool
		errContains string
		validate    func(*authtoken.CustomClaims)
	}{
		{
			name: "valid token",
			tokenFunc: func() string {
				t, _ := s.token.Generate(
					s.signingKey,
					[]string{"write"},
					"collector",
					[]string{authtoken.PermAuditWrite},
				)
				return t
			},
			signingKey: s.signingKey,
			validate: func(claims *authtoken.CustomClaims) {
				s.Equal([]string{"write"}, claims.Roles)
				s.Equal([]string{authtoken.PermAuditWrite}, claims.Permissions)
				s.Equal("collector", claims.Subject)
				s.Equal(authtoken.Issuer, claims.Issuer)
				s.WithinDuration(
					time.Now().Add(authtoken.DefaultLifetime),
					claims.ExpiresAt.Time,
					time.Minute,
				)
			},
		},
		{
			name: "wrong signing key",
			tokenFunc: func() string {
				t, _ := s.token.Generate(s.signingKey, []string{"read"}, "reader", nil)
				return t
			},
			signingKey:  "wrong-key",
			expectError: true,
			errContains: "signature is invalid",
		},
		{
			name: "malformed token",
			tokenFunc: func() string {
				return "not-a-valid-jwt-token"
			},
			signingKey:  s.signingKey,
			expectError: true,
			errContains: "invalid number of segments",
		},
		{
			name: "unexpected signing method",
			tokenFunc: func() string {
				header := base64.RawURLEncoding.EncodeToString(
					[]byte(`{"alg":"none","typ":"JWT"}`),
				)
				payload := base64.RawURLEncoding.EncodeToString(
					[]byte(`{"roles":["admin"]}`),
				)
				return header + "." + payload + "."
			},
			signingKey:  s.signingKey,
			expectError: true,
			errContains: "unexpected signing method",
		},
		{
			name: "expired token",
			tokenFunc: func() string {
				return s.sign(authtoken.CustomClaims{
					Roles: []string{"read"},
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer:    authtoken.Issuer,
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
					},
				})
			},
			signingKey:  s.signingKey,
			expectError: true,
			errContains: "expired",
		},
		{
			name: "token without expiry",
			tokenFunc: func() string {
				return s.sign(authtoken.CustomClaims{
					Roles: []string{"read"},
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer: authtoken.Issuer,
					},
				})
			},
			signingKey:  s.signingKey,
			expectError: true,
			errContains: "no expiry",
		},
		{
			name: "foreign issuer",
			tokenFunc: func() string {
				return s.sign(authtoken.CustomClaims{
					Roles: []string{"read"},
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer:    "someone-else",
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				})
			},
			signingKey:  s.signingKey,
			expectError: true,
			errContains: "unexpected issuer",
		},
		{
			name: "claims fail struct validation",
			tokenFunc: func() string {
				return s.sign(authtoken.CustomClaims{
					Roles: []string{"invalid_role"},
					RegisteredClaims: jwt.RegisteredClaims{
						Issuer:    authtoken.Issuer,
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				})
			},
			signingKey:  s.signingKey,
			expectError: true,
			errContains: "Roles",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			claims, err := s.token.Validate(tt.tokenFunc(), tt.signingKey)

			if tt.expectError {
				s.Error(err)
				s.Nil(claims)
				if tt.errContains != "" {
					s.Contains(err.Error(), tt.errContains)
				}
				return
			}

			s.NoError(err)
			s.Require().NotNil(claims)
			if tt.validate != nil {
				tt.validate(claims)
			}
		})
	}
}

func TestAuthTokenPublicTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTokenPublicTestSuite))
}
