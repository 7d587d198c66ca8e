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

import "strings"

// valueEscaper escapes the separators inside values so distinct entries never
// share a canonical form.
var valueEscaper = strings.NewReplacer(`\`, `\\`, `,`, `\,`, `=`, `\=`)

// canonicalLabels pairs each canonical label with the field it renders. The
// order and labels are fixed for the lifetime of a deployment; changing
// either invalidates every stored signature.
var canonicalLabels = []struct {
	label string
	field Field
}{
	{"id", FieldNumber},
	{"date", FieldDate},
	{"action", FieldAction},
	{"succ", FieldSuccess},
	{"serial", FieldSerial},
	{"t", FieldTokenType},
	{"u", FieldUser},
	{"r", FieldRealm},
	{"adm", FieldAdministrator},
	{"ad", FieldActionDetail},
	{"i", FieldInfo},
	{"ps", FieldServerIdentity},
	{"c", FieldClient},
	{"l", FieldLogLevel},
	{"cl", FieldClearanceLevel},
}

// Canonical returns the text that is signed for e and re-derived at
// verification. The signature is never part of it. Backslash, comma and
// equals sign inside a value are escaped with a backslash.
func Canonical(
	e *Entry,
) string {
	var b strings.Builder
	for i, c := range canonicalLabels {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(c.label)
		b.WriteByte('=')
		_, _ = valueEscaper.WriteString(&b, c.field.Value(e))
	}
	return b.String()
}
