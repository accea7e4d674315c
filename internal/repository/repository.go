// Package repository is the Postgres persistence layer.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is the single not-found signal; callers never see
	// pgx.ErrNoRows directly.
	ErrNotFound = errors.New("record not found")

	// ErrStorageIntegrity marks writes that reference a missing parent row,
	// e.g. an insight for an email that was never stored.
	ErrStorageIntegrity = errors.New("storage integrity violation")
)

// DBTX is the querying surface shared by *pgxpool.Pool and pgx.Tx, so the
// same repository methods run standalone or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// translateErr maps driver errors onto the package sentinels.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		// 外键违规 → 父记录缺失
		return ErrStorageIntegrity
	}
	return err
}
