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

package signer

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Load reads the key pair from PEM files on fs. An empty path leaves that
// half of the pair absent; a configured path that cannot be read or parsed
// is an error.
func Load(
	fs afero.Fs,
	publicPath string,
	privatePath string,
) (*KeyPair, error) {
	var (
		private *rsa.PrivateKey
		public  *rsa.PublicKey
	)

	if privatePath != "" {
		data, err := afero.ReadFile(fs, privatePath)
		if err != nil {
			return nil, fmt.Errorf("%w: read private key %s: %w", ErrKey, privatePath, err)
		}
		private, err = ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("private key %s: %w", privatePath, err)
		}
	}

	if publicPath != "" {
		data, err := afero.ReadFile(fs, publicPath)
		if err != nil {
			return nil, fmt.Errorf("%w: read public key %s: %w", ErrKey, publicPath, err)
		}
		public, err = ParsePublicKey(data)
		if err != nil {
			return nil, fmt.Errorf("public key %s: %w", publicPath, err)
		}
	}

	if private != nil && public != nil && !private.PublicKey.Equal(public) {
		return nil, fmt.Errorf("%w: public key does not match private key", ErrKey)
	}

	return New(private, public), nil
}

// ParsePrivateKey decodes a PKCS#1 or PKCS#8 RSA private key.
func ParsePrivateKey(
	data []byte,
) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKey)
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKey, err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", ErrKey)
	}

	return key, nil
}

// ParsePublicKey decodes a PKIX or PKCS#1 RSA public key.
func ParsePublicKey(
	data []byte,
) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrKey)
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKey, err)
	}

	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA public key", ErrKey)
	}

	return key, nil
}

// WritePEM writes the private key (PKCS#8) and public key (PKIX) to fs.
// The private key file is created with mode 0600.
func (k *KeyPair) WritePEM(
	fs afero.Fs,
	publicPath string,
	privatePath string,
) error {
	if !k.CanSign() {
		return fmt.Errorf("%w: no private key to write", ErrKey)
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(k.private)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}

	pubDER, err := x509.MarshalPKIXPublicKey(k.public)
	if err != nil {
		return fmt.Errorf("marshal public key: %w", err)
	}

	if err := writeFile(fs, privatePath, &pem.Block{Type: "PRIVATE KEY", Bytes: privDER}, 0o600); err != nil {
		return err
	}

	return writeFile(fs, publicPath, &pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}, 0o644)
}

func writeFile(
	fs afero.Fs,
	path string,
	block *pem.Block,
	perm os.FileMode,
) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create key directory: %w", err)
	}

	if err := afero.WriteFile(fs, path, pem.EncodeToMemory(block), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
