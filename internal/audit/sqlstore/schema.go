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

package sqlstore

// schema is applied on Open. AUTOINCREMENT keeps ids from being reused after
// deletion, which the contiguity check relies on. The date column holds the
// canonical fixed-precision text so a round trip never loses precision.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS audit_entries (
    "id"              INTEGER PRIMARY KEY AUTOINCREMENT,
    "date"            TEXT NOT NULL,
    "signature"       TEXT NOT NULL DEFAULT '',
    "action"          TEXT NOT NULL DEFAULT '',
    "success"         INTEGER NOT NULL DEFAULT 0,
    "serial"          TEXT NOT NULL DEFAULT '',
    "token_type"      TEXT NOT NULL DEFAULT '',
    "user"            TEXT NOT NULL DEFAULT '',
    "realm"           TEXT NOT NULL DEFAULT '',
    "administrator"   TEXT NOT NULL DEFAULT '',
    "action_detail"   TEXT NOT NULL DEFAULT '',
    "info"            TEXT NOT NULL DEFAULT '',
    "server_identity" TEXT NOT NULL DEFAULT '',
    "client"          TEXT NOT NULL DEFAULT '',
    "log_level"       TEXT NOT NULL DEFAULT '',
    "clearance_level" TEXT NOT NULL DEFAULT ''
)`,
	`CREATE INDEX IF NOT EXISTS audit_entries_date ON audit_entries ("date")`,
	`CREATE INDEX IF NOT EXISTS audit_entries_user ON audit_entries ("user")`,
	`CREATE INDEX IF NOT EXISTS audit_entries_action ON audit_entries ("action")`,
}

const insertSQL = `INSERT INTO audit_entries (
    "date", "action", "success", "serial", "token_type", "user", "realm",
    "administrator", "action_detail", "info", "server_identity", "client",
    "log_level", "clearance_level"
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
