package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rickgao/bfo-scripmaster/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS scrip_master (
	name          TEXT    NOT NULL,
	seq           INTEGER NOT NULL,
	exchange      TEXT    NOT NULL DEFAULT '',
	token         TEXT    NOT NULL DEFAULT '',
	lotsize       TEXT    NOT NULL DEFAULT '',
	symbol        TEXT    NOT NULL DEFAULT '',
	tradingsymbol TEXT    NOT NULL DEFAULT '',
	expiry        TEXT    NOT NULL DEFAULT '',
	instrument    TEXT    NOT NULL DEFAULT '',
	optiontype    TEXT    NOT NULL DEFAULT '',
	strikeprice   TEXT    NOT NULL DEFAULT '',
	strike        TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (name, seq)
);
CREATE TABLE IF NOT EXISTS scrip_master_meta (
	name       TEXT    PRIMARY KEY,
	updated_at INTEGER NOT NULL,
	row_count  INTEGER NOT NULL
);`

// SQLiteStore keeps tables in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Exists reports whether the table has a metadata row.
func (s *SQLiteStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.LastModified(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// LastModified returns the time of the last Write.
func (s *SQLiteStore) LastModified(ctx context.Context, name string) (time.Time, error) {
	var micros int64
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM `+metaTable+` WHERE name = ?`, name,
	).Scan(&micros)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query %s meta: %w", name, err)
	}
	return time.UnixMicro(micros), nil
}

// Read loads the rows in write order.
func (s *SQLiteStore) Read(ctx context.Context, name string) (model.Table, error) {
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+columnList+` FROM `+rowsTable+` WHERE name = ? ORDER BY seq`, name)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	defer rows.Close()

	table := model.Table{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		table = append(table, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	return table, nil
}

// Write replaces the table's rows and metadata in one transaction.
func (s *SQLiteStore) Write(ctx context.Context, name string, table model.Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+rowsTable+` WHERE name = ?`, name); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(model.Columns)+2), ", ")
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+rowsTable+` (name, seq, `+columnList+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range table {
		args := append([]any{name, i}, recordArgs(rec)...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", name, i, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO `+metaTable+` (name, updated_at, row_count) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET updated_at = excluded.updated_at, row_count = excluded.row_count`,
		name, s.now().UnixMicro(), len(table))
	if err != nil {
		return fmt.Errorf("update %s meta: %w", name, err)
	}

	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
