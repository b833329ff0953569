package database

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riii-services/backend/internal/domain/repositories"
	"github.com/riii-services/backend/internal/infrastructure/clients/postgres"
	"github.com/riii-services/backend/internal/infrastructure/observability"
	apperrors "github.com/riii-services/backend/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

const uniqueViolation = "23505"

var dialect = goqu.Dialect("postgres")

type txKey struct{}

// sqlBuilder is satisfied by every goqu dataset
type sqlBuilder interface {
	ToSQL() (string, []interface{}, error)
}

// store holds the plumbing shared by every table adapter
type store struct {
	client *postgres.Client
}

// ext returns the transaction bound to ctx, or the pool
func (s store) ext(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return s.client.DB()
}

func (s store) get(ctx context.Context, dest interface{}, b sqlBuilder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	return sqlx.GetContext(ctx, s.ext(ctx), dest, query, args...)
}

func (s store) selectAll(ctx context.Context, dest interface{}, b sqlBuilder) error {
	query, args, err := b.ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}
	return sqlx.SelectContext(ctx, s.ext(ctx), dest, query, args...)
}

func (s store) exec(ctx context.Context, b sqlBuilder) (int64, error) {
	query, args, err := b.ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build query", err)
	}
	result, err := s.ext(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// storeError maps a driver error onto the application error taxonomy
func storeError(message string, err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperrors.NewConflictError(fmt.Sprintf("%s: %s", message, pqErr.Message))
	}
	return apperrors.NewStorageError(message, err)
}

// notFoundOr returns a not found error for sql.ErrNoRows, else the mapped store error
func notFoundOr(err error, notFound string, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFoundError(notFound)
	}
	return storeError(message, err)
}

// TxManager runs repository calls inside one database transaction
type TxManager struct {
	client *postgres.Client
}

// NewTxManager creates a transaction manager
func NewTxManager(client *postgres.Client) repositories.Transactor {
	return &TxManager{client: client}
}

// WithinTransaction runs fn in a transaction; adapters called with the
// supplied context join it. A nested call reuses the outer transaction.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewStorageError("failed to begin transaction", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			observability.LoggerFromContext(ctx).Error().Err(rbErr).Msg("failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

// Migrate creates the schema if it does not exist
func Migrate(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Reset truncates every table and restarts the generated ids
func Reset(ctx context.Context, client *postgres.Client) error {
	_, err := client.DB().ExecContext(ctx, `
		TRUNCATE TABLE
			orders,
			services,
			categories,
			locations,
			reviews,
			users,
			blogs
		RESTART IDENTITY
	`)
	if err != nil {
		return fmt.Errorf("failed to reset tables: %w", err)
	}
	return nil
}
