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

import (
	"context"
	"fmt"
)

// Checker detects entries whose immediate neighbours have been deleted.
type Checker struct {
	store Store
}

// NewChecker creates a Checker over store.
func NewChecker(
	store Store,
) *Checker {
	return &Checker{store: store}
}

// IsContiguous reports whether both id-1 and id+1 exist. The first and last
// entries of the log never satisfy this.
func (c *Checker) IsContiguous(
	ctx context.Context,
	id int64,
) (bool, error) {
	before, err := c.store.Exists(ctx, id-1)
	if err != nil {
		return false, fmt.Errorf("check entry %d: %w", id-1, err)
	}
	if !before {
		return false, nil
	}

	after, err := c.store.Exists(ctx, id+1)
	if err != nil {
		return false, fmt.Errorf("check entry %d: %w", id+1, err)
	}

	return after, nil
}
