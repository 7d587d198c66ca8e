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

// Package sqlstore implements audit.Store on a relational database through
// database/sql, using the pure Go SQLite driver.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/retr0h/sqlaudit/internal/audit"
)

// DriverName is the database/sql driver used by Open.
const DriverName = "sqlite"

// ensure Store implements audit.Store at compile time.
var _ audit.Store = (*Store)(nil)

// columns lists the stored columns in scan order.
var columns = []string{
	`"id"`,
	`"date"`,
	`"signature"`,
	`"action"`,
	`"success"`,
	`"serial"`,
	`"token_type"`,
	`"user"`,
	`"realm"`,
	`"administrator"`,
	`"action_detail"`,
	`"info"`,
	`"server_identity"`,
	`"client"`,
	`"log_level"`,
	`"clearance_level"`,
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=FULL",
	"PRAGMA busy_timeout=5000",
}

// Store is an audit.Store backed by a SQL table.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to the database at dsn and creates the schema when missing.
func Open(
	ctx context.Context,
	logger *slog.Logger,
	dsn string,
) (*Store, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", audit.ErrStore, err)
	}

	// SQLite has one writer; a single connection also keeps in-memory
	// databases shared by every call.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := New(logger, db)
	if err := s.init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// New wraps an already opened database. The schema is not created.
func New(
	logger *slog.Logger,
	db *sql.DB,
) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(
	ctx context.Context,
) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping database: %w", audit.ErrStore, err)
	}
	return nil
}

func (s *Store) init(
	ctx context.Context,
) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping database: %w", audit.ErrStore, err)
	}

	for _, p := range pragmas {
		if _, err := s.db.ExecContext(ctx, p); err != nil {
			s.logger.Warn(
				"failed to apply pragma",
				slog.String("pragma", p),
				slog.String("error", err.Error()),
			)
		}
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: create schema: %w", audit.ErrStore, err)
		}
	}

	return nil
}

// Insert writes an unsigned entry and returns the id the database assigned.
func (s *Store) Insert(
	ctx context.Context,
	entry *audit.Entry,
) (int64, error) {
	var id int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertSQL,
			audit.FormatDate(entry.Timestamp),
			entry.Action,
			entry.Success,
			entry.Serial,
			entry.TokenType,
			entry.User,
			entry.Realm,
			entry.Administrator,
			entry.ActionDetail,
			entry.Info,
			entry.ServerIdentity,
			entry.Client,
			entry.LogLevel,
			entry.ClearanceLevel,
		)
		if err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}

		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read inserted id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// UpdateSignature sets the signature of the entry with id. Repeating the
// call with the same signature has no further effect.
func (s *Store) UpdateSignature(
	ctx context.Context,
	id int64,
	signature string,
) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE audit_entries SET "signature" = ? WHERE "id" = ?`, signature, id)
		if err != nil {
			return fmt.Errorf("update signature: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("read affected rows: %w", err)
		}
		if n != 1 {
			return fmt.Errorf("update signature: entry %d not found", id)
		}
		return nil
	})
}

// Query returns one page of entries matching q, ordered by q.SortBy and
// then by id ascending.
func (s *Store) Query(
	ctx context.Context,
	q audit.Query,
) ([]audit.Entry, error) {
	where, args := buildWhere(q.Filter)

	sortBy := q.SortBy
	if _, ok := audit.ParseField(string(sortBy)); !ok {
		sortBy = audit.FieldNumber
	}
	dir := "ASC"
	if q.Order == audit.Desc {
		dir = "DESC"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(
		`SELECT %s FROM audit_entries%s ORDER BY "%s" %s, "id" ASC LIMIT ? OFFSET ?`,
		strings.Join(columns, ", "),
		where,
		sortBy.Column(),
		dir,
	)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query entries: %w", audit.ErrStore, err)
	}
	defer func() { _ = rows.Close() }()

	entries := []audit.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", audit.ErrStore, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate entries: %w", audit.ErrStore, err)
	}

	return entries, nil
}

// Get returns the entry with id, or an error wrapping audit.ErrNotFound.
func (s *Store) Get(
	ctx context.Context,
	id int64,
) (*audit.Entry, error) {
	query := fmt.Sprintf(`SELECT %s FROM audit_entries WHERE "id" = ?`, strings.Join(columns, ", "))
	e, err := scanEntry(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", audit.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get entry %d: %w", audit.ErrStore, id, err)
	}
	return &e, nil
}

// Count returns the number of entries matching filter.
func (s *Store) Count(
	ctx context.Context,
	filter audit.Filter,
) (int, error) {
	where, args := buildWhere(filter)

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM audit_entries`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count entries: %w", audit.ErrStore, err)
	}

	return count, nil
}

// Exists reports whether an entry with id is present.
func (s *Store) Exists(
	ctx context.Context,
	id int64,
) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM audit_entries WHERE "id" = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: check entry %d: %w", audit.ErrStore, id, err)
	}

	return n > 0, nil
}

// MaxID returns the highest id present, or 0 when the table is empty.
func (s *Store) MaxID(
	ctx context.Context,
) (int64, error) {
	var id sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT max("id") FROM audit_entries`).Scan(&id); err != nil {
		return 0, fmt.Errorf("%w: read max id: %w", audit.ErrStore, err)
	}

	return id.Int64, nil
}

// DeleteBefore removes every entry with an id below id.
func (s *Store) DeleteBefore(
	ctx context.Context,
	id int64,
) (int64, error) {
	var deleted int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM audit_entries WHERE "id" < ?`, id)
		if err != nil {
			return fmt.Errorf("delete entries: %w", err)
		}

		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("read affected rows: %w", err)
		}
		return nil
	})

	return deleted, err
}

// Clear removes every entry. Ids already handed out are not reused.
func (s *Store) Clear(
	ctx context.Context,
) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM audit_entries`); err != nil {
			return fmt.Errorf("clear entries: %w", err)
		}
		return nil
	})
}

// inTx runs fn in a transaction, committing on success and rolling back on
// any error.
func (s *Store) inTx(
	ctx context.Context,
	fn func(tx *sql.Tx) error,
) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", audit.ErrStore, err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Error(
				"failed to roll back transaction",
				slog.String("error", rbErr.Error()),
			)
		}
		err = fmt.Errorf("%w: %w", audit.ErrStore, err)
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// buildWhere translates a filter into a WHERE clause of ANDed, case-sensitive
// substring conditions. Unknown fields and blank values are skipped. Keys are
// sorted so the generated statement is stable.
func buildWhere(
	filter audit.Filter,
) (string, []any) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conditions := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		v := filter[k]
		if strings.TrimSpace(v) == "" {
			continue
		}
		f, ok := audit.ParseField(k)
		if !ok {
			continue
		}
		conditions = append(conditions, fmt.Sprintf(`instr(CAST("%s" AS TEXT), ?) > 0`, f.Column()))
		args = append(args, v)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads one row. The date and success columns are read as text so
// that a row edited outside the store still loads; values that do not decode
// mark the entry malformed instead of failing the read.
func scanEntry(
	row scanner,
) (audit.Entry, error) {
	var (
		e       audit.Entry
		date    sql.NullString
		success sql.NullString
	)

	err := row.Scan(
		&e.ID,
		&date,
		&e.Signature,
		&e.Action,
		&success,
		&e.Serial,
		&e.TokenType,
		&e.User,
		&e.Realm,
		&e.Administrator,
		&e.ActionDetail,
		&e.Info,
		&e.ServerIdentity,
		&e.Client,
		&e.LogLevel,
		&e.ClearanceLevel,
	)
	if err != nil {
		return e, fmt.Errorf("scan entry: %w", err)
	}

	e.StoredDate = date.String
	if ts, err := audit.ParseDate(date.String); err == nil {
		e.Timestamp = ts
	} else {
		e.Malformed = true
	}

	if n, err := strconv.Atoi(success.String); err == nil {
		e.Success = n
	} else {
		e.Malformed = true
	}

	e.State = audit.StateUnsigned
	if e.Signature != "" {
		e.State = audit.StateSigned
	}

	return e, nil
}
