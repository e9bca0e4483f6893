package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/bfo-scripmaster/internal/model"
)

const postgresSchema = `
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
	name       TEXT        PRIMARY KEY,
	updated_at TIMESTAMPTZ NOT NULL,
	row_count  INTEGER     NOT NULL
);`

// PostgresStore keeps tables in PostgreSQL. It owns the pool.
type PostgresStore struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewPostgresStore ensures the schema exists and wraps the pool.
func NewPostgresStore(ctx context.Context, db *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("create postgres schema: %w", err)
	}
	return &PostgresStore{db: db, now: time.Now}, nil
}

// Exists reports whether the table has a metadata row.
func (s *PostgresStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.LastModified(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// LastModified returns the time of the last Write.
func (s *PostgresStore) LastModified(ctx context.Context, name string) (time.Time, error) {
	var updatedAt time.Time
	err := s.db.QueryRow(ctx,
		`SELECT updated_at FROM `+metaTable+` WHERE name = $1`, name,
	).Scan(&updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query %s meta: %w", name, err)
	}
	return updatedAt, nil
}

// Read loads the rows in write order.
func (s *PostgresStore) Read(ctx context.Context, name string) (model.Table, error) {
	ok, err := s.Exists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+columnList+` FROM `+rowsTable+` WHERE name = $1 ORDER BY seq`, name)
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

// Write replaces the table's rows using COPY inside a transaction.
func (s *PostgresStore) Write(ctx context.Context, name string, table model.Table) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+rowsTable+` WHERE name = $1`, name); err != nil {
		return fmt.Errorf("clear %s: %w", name, err)
	}

	columns := append([]string{"name", "seq"}, model.Columns...)
	copied, err := tx.CopyFrom(ctx,
		pgx.Identifier{rowsTable},
		columns,
		pgx.CopyFromSlice(len(table), func(i int) ([]any, error) {
			return append([]any{name, int32(i)}, recordArgs(table[i])...), nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	if int(copied) != len(table) {
		return fmt.Errorf("copy %s: wrote %d of %d rows", name, copied, len(table))
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO `+metaTable+` (name, updated_at, row_count) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET updated_at = EXCLUDED.updated_at, row_count = EXCLUDED.row_count`,
		name, s.now(), len(table))
	if err != nil {
		return fmt.Errorf("update %s meta: %w", name, err)
	}

	return tx.Commit(ctx)
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
