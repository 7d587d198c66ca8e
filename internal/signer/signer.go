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

// Package signer signs and verifies audit entries with an RSA key pair
// loaded from PEM files.
package signer

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/retr0h/sqlaudit/internal/audit"
)

// ErrKey is returned when key material is present but cannot be used.
var ErrKey = errors.New("signer: invalid key material")

// DefaultBits is the modulus size used by Generate when none is given.
const DefaultBits = 2048

// ensure KeyPair implements the audit signing contracts at compile time.
var (
	_ audit.Signer   = (*KeyPair)(nil)
	_ audit.Verifier = (*KeyPair)(nil)
)

// KeyPair holds the keys of one process. Either half may be absent: without
// a private key signing fails, without a public key verification is
// unchecked.
type KeyPair struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// New creates a KeyPair from already parsed keys. When only the private key
// is given its public half is used for verification.
func New(
	private *rsa.PrivateKey,
	public *rsa.PublicKey,
) *KeyPair {
	if public == nil && private != nil {
		public = &private.PublicKey
	}
	return &KeyPair{
		private: private,
		public:  public,
	}
}

// Generate creates a fresh key pair.
func Generate(
	bits int,
) (*KeyPair, error) {
	if bits <= 0 {
		bits = DefaultBits
	}

	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}

	return New(key, nil), nil
}

// CanSign reports whether a private key is loaded.
func (k *KeyPair) CanSign() bool {
	return k != nil && k.private != nil
}

// CanVerify reports whether a public key is loaded.
func (k *KeyPair) CanVerify() bool {
	return k != nil && k.public != nil
}

// Public returns the public key, or nil.
func (k *KeyPair) Public() *rsa.PublicKey {
	if k == nil {
		return nil
	}
	return k.public
}

// Sign returns the base64 RSA PKCS#1 v1.5 signature over the SHA-256 digest
// of canonical. The result is deterministic for a given key and input.
func (k *KeyPair) Sign(
	canonical string,
) (string, error) {
	if !k.CanSign() {
		return "", audit.ErrSigningUnavailable
	}

	digest := sha256.Sum256([]byte(canonical))
	sig, err := rsa.SignPKCS1v15(nil, k.private, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign digest: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify reports whether signature is valid for canonical. Malformed or
// empty signatures are reported as invalid, never as errors.
func (k *KeyPair) Verify(
	canonical string,
	signature string,
) bool {
	if !k.CanVerify() || signature == "" {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	digest := sha256.Sum256([]byte(canonical))
	return rsa.VerifyPKCS1v15(k.public, crypto.SHA256, digest[:], sig) == nil
}
