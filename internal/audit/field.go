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

import "strconv"

// Field names one column of an entry. The set is closed; ParseField is the
// only way from a caller-supplied name to a Field.
type Field string

// The fields of an entry, by their public names.
const (
	FieldNumber         Field = "number"
	FieldDate           Field = "date"
	FieldAction         Field = "action"
	FieldSuccess        Field = "success"
	FieldSerial         Field = "serial"
	FieldTokenType      Field = "token_type"
	FieldUser           Field = "user"
	FieldRealm          Field = "realm"
	FieldAdministrator  Field = "administrator"
	FieldActionDetail   Field = "action_detail"
	FieldInfo           Field = "info"
	FieldServerIdentity Field = "server_identity"
	FieldClient         Field = "client"
	FieldLogLevel       Field = "log_level"
	FieldClearanceLevel Field = "clearance_level"
)

type fieldSpec struct {
	column string
	// maxLen bounds free-text fields; zero means not a free-text field.
	maxLen int
	value  func(e *Entry) string
	set    func(e *Entry, v string)
}

var fields = map[Field]fieldSpec{
	FieldNumber: {
		column: "id",
		value:  func(e *Entry) string { return strconv.FormatInt(e.ID, 10) },
	},
	FieldDate: {
		column: "date",
		value: func(e *Entry) string {
			if e.StoredDate != "" {
				return e.StoredDate
			}
			return FormatDate(e.Timestamp)
		},
	},
	FieldAction: {
		column: "action",
		maxLen: 50,
		value:  func(e *Entry) string { return e.Action },
		set:    func(e *Entry, v string) { e.Action = v },
	},
	FieldSuccess: {
		column: "success",
		value:  func(e *Entry) string { return strconv.Itoa(e.Success) },
		set:    func(e *Entry, v string) { e.Success = parseSuccess(v) },
	},
	FieldSerial: {
		column: "serial",
		maxLen: 20,
		value:  func(e *Entry) string { return e.Serial },
		set:    func(e *Entry, v string) { e.Serial = v },
	},
	FieldTokenType: {
		column: "token_type",
		maxLen: 12,
		value:  func(e *Entry) string { return e.TokenType },
		set:    func(e *Entry, v string) { e.TokenType = v },
	},
	FieldUser: {
		column: "user",
		maxLen: 20,
		value:  func(e *Entry) string { return e.User },
		set:    func(e *Entry, v string) { e.User = v },
	},
	FieldRealm: {
		column: "realm",
		maxLen: 20,
		value:  func(e *Entry) string { return e.Realm },
		set:    func(e *Entry, v string) { e.Realm = v },
	},
	FieldAdministrator: {
		column: "administrator",
		maxLen: 20,
		value:  func(e *Entry) string { return e.Administrator },
		set:    func(e *Entry, v string) { e.Administrator = v },
	},
	FieldActionDetail: {
		column: "action_detail",
		maxLen: 50,
		value:  func(e *Entry) string { return e.ActionDetail },
		set:    func(e *Entry, v string) { e.ActionDetail = v },
	},
	FieldInfo: {
		column: "info",
		maxLen: 50,
		value:  func(e *Entry) string { return e.Info },
		set:    func(e *Entry, v string) { e.Info = v },
	},
	FieldServerIdentity: {
		column: "server_identity",
		maxLen: 20,
		value:  func(e *Entry) string { return e.ServerIdentity },
		set:    func(e *Entry, v string) { e.ServerIdentity = v },
	},
	FieldClient: {
		column: "client",
		maxLen: 20,
		value:  func(e *Entry) string { return e.Client },
		set:    func(e *Entry, v string) { e.Client = v },
	},
	FieldLogLevel: {
		column: "log_level",
		maxLen: 12,
		value:  func(e *Entry) string { return e.LogLevel },
		set:    func(e *Entry, v string) { e.LogLevel = v },
	},
	FieldClearanceLevel: {
		column: "clearance_level",
		maxLen: 12,
		value:  func(e *Entry) string { return e.ClearanceLevel },
		set:    func(e *Entry, v string) { e.ClearanceLevel = v },
	},
}

// fieldAliases are alternate names accepted by ParseField.
var fieldAliases = map[string]Field{
	"id": FieldNumber,
}

// ParseField maps a name to its Field. Unknown names return false.
func ParseField(
	name string,
) (Field, bool) {
	if f, ok := fieldAliases[name]; ok {
		return f, true
	}
	f := Field(name)
	if _, ok := fields[f]; !ok {
		return "", false
	}
	return f, true
}

// Column returns the storage column of the field.
func (f Field) Column() string {
	return fields[f].column
}

// Value returns the textual value of the field on e.
func (f Field) Value(
	e *Entry,
) string {
	spec, ok := fields[f]
	if !ok {
		return ""
	}
	return spec.value(e)
}

// Settable reports whether the field can be set from session data. The id
// and date are never caller-supplied.
func (f Field) Settable() bool {
	return fields[f].set != nil
}

// MaxLen returns the length bound of a free-text field, or zero.
func (f Field) MaxLen() int {
	return fields[f].maxLen
}

func parseSuccess(
	v string,
) int {
	if b, err := strconv.ParseBool(v); err == nil {
		if b {
			return 1
		}
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return 0
}
