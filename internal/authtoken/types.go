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

// Package authtoken issues and validates the bearer tokens guarding the
// audit API.
package authtoken

import (
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// Issuer is written to and expected in every token.
	Issuer = "sqlaudit"
	// DefaultLifetime is how long a generated token stays valid.
	DefaultLifetime = 24 * time.Hour
)

// RoleHierarchy lists each built-in role with the roles it includes.
var RoleHierarchy = map[string][]string{
	"admin": {"write", "read"},
	"write": {"read"},
	"read":  {},
}

// Token generates and validates HMAC signed JWTs.
type Token struct {
	logger *slog.Logger
}

// CustomClaims are the claims carried by an audit API token.
type CustomClaims struct {
	Roles       []string `json:"roles"                 validate:"required,min=1,dive,oneof=admin write read"`
	Permissions []string `json:"permissions,omitempty" validate:"omitempty,dive,oneof=audit:read audit:write health:read"`
	jwt.RegisteredClaims
}
