package pgsql

import (
	"context"
	"errors"
	"net/http"

	sq "github.com/Masterminds/squirrel"
	"github.com/SscSPs/business_management_app/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both the pool and an open transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// psql builds Postgres flavoured statements.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// db returns the transaction stored in ctx, or the pool when there is none.
func (r *BaseRepository) db(ctx context.Context) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// mapWriteError translates constraint violations into application errors.
func mapWriteError(err error, entity string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperrors.NewConflictError(entity + " already exists")
		case "23503": // foreign_key_violation
			return apperrors.NewValidationFailedError(entity + " references a record that does not exist")
		case "23514": // check_violation
			return apperrors.NewValidationFailedError(entity + " violates constraint " + pgErr.ConstraintName)
		}
	}
	return apperrors.NewAppError(http.StatusInternalServerError, "failed to write "+entity, err)
}

// mapReadError turns pgx.ErrNoRows into a not found error.
func mapReadError(err error, entity string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(entity + " not found")
	}
	return apperrors.NewAppError(http.StatusInternalServerError, "failed to read "+entity, err)
}

// checkVersionedUpdate distinguishes a missing row from a stale version when
// an optimistic update touched nothing.
func (r *BaseRepository) checkVersionedUpdate(ctx context.Context, tag pgconn.CommandTag, table, idColumn, id, entity string) error {
	if tag.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	err := r.db(ctx).QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM "+table+" WHERE "+idColumn+" = $1)", id).Scan(&exists)
	if err != nil {
		return mapReadError(err, entity)
	}
	if !exists {
		return apperrors.NewNotFoundError(entity + " not found")
	}
	return apperrors.NewStaleVersionError(entity + " was modified by someone else, reload and retry")
}

// collectOne runs a built query and scans a single row into T.
func collectOne[T any](ctx context.Context, q Querier, b sq.Sqlizer, entity string) (*T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to build "+entity+" query", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(err, entity)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapReadError(err, entity)
	}
	return &m, nil
}

// collectAll runs a built query and scans every row into T.
func collectAll[T any](ctx context.Context, q Querier, b sq.Sqlizer, entity string) ([]T, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to build "+entity+" query", err)
	}
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, mapReadError(err, entity)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapReadError(err, entity)
	}
	return ms, nil
}

// execBuilt runs a built statement.
func execBuilt(ctx context.Context, q Querier, b sq.Sqlizer, entity string) (pgconn.CommandTag, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return pgconn.CommandTag{}, apperrors.NewAppError(http.StatusInternalServerError, "failed to build "+entity+" statement", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return tag, mapWriteError(err, entity)
	}
	return tag, nil
}

// collectRows scans hand-written query results into T.
func collectRows[T any](rows pgx.Rows, entity string) ([]T, error) {
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, mapReadError(err, entity)
	}
	return ms, nil
}
