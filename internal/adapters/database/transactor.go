package database

import (
	"context"
	"database/sql"

	"github.com/medisched/backend/internal/domain/repositories"
	"github.com/medisched/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/medisched/backend/pkg/errors"
)

type txContextKey struct{}

// Transactor implements repositories.Transactor over database/sql. The open
// transaction travels in the context, so any adapter call made inside the
// callback joins it transparently.
type Transactor struct {
	client *postgres.Client
}

// NewTransactor creates a new transactor
func NewTransactor(client *postgres.Client) repositories.Transactor {
	return &Transactor{client: client}
}

// WithinTx runs fn inside a single transaction, committing on nil and
// rolling back on error or panic.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := t.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}

// executor is the subset of database/sql shared by *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// executorFrom returns the ambient transaction if the context carries one,
// falling back to the pooled connection.
func executorFrom(ctx context.Context, client *postgres.Client) executor {
	if tx, ok := ctx.Value(txContextKey{}).(*sql.Tx); ok {
		return tx
	}
	return client.DB()
}
