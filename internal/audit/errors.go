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

package audit

import "errors"

var (
	// ErrSigningUnavailable is returned when no private key is loaded. Finalize
	// refuses to write an entry it cannot sign.
	ErrSigningUnavailable = errors.New("audit: signing unavailable, no private key loaded")
	// ErrStore wraps failures reported by the underlying store.
	ErrStore = errors.New("audit: store error")
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("audit: entry not found")
	// ErrInvalidWatermark is returned by Sweep for negative watermarks.
	ErrInvalidWatermark = errors.New("audit: invalid watermark")
	// ErrAlreadySigned is returned when signing an entry twice.
	ErrAlreadySigned = errors.New("audit: entry already signed")
	// ErrNotInserted is returned when signing an entry without a store id.
	ErrNotInserted = errors.New("audit: entry has no id")
)
