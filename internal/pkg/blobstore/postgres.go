package blobstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/unihub/internal/pkg/dberrors"
)

// PostgresTable is the table created by migrations for the postgres driver.
const PostgresTable = "kv_blobs"

// PostgresStore keeps blobs as rows of a key/value table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore wraps an open pool. The schema is owned by the migrator.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get selects the value for key
func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := squirrel.Select("value").
		From(PostgresTable).
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var value string
	err = p.db.QueryRow(ctx, sql, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, p.translate(err)
	}

	return []byte(value), nil
}

// Set upserts the value for key
func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := squirrel.Insert(PostgresTable).
		Columns("key", "value").
		Values(key, string(value)).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := p.db.Exec(ctx, sql, args...); err != nil {
		return p.translate(err)
	}
	return nil
}

// Remove deletes the row for key
func (p *PostgresStore) Remove(ctx context.Context, key string) error {
	query := squirrel.Delete(PostgresTable).
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if _, err := p.db.Exec(ctx, sql, args...); err != nil {
		return p.translate(err)
	}
	return nil
}

func (p *PostgresStore) translate(err error) error {
	if dberrors.IsUndefinedTable(err) {
		return fmt.Errorf("table %s does not exist, run migrations: %w", PostgresTable, err)
	}
	return fmt.Errorf("error executing query: %w", err)
}
