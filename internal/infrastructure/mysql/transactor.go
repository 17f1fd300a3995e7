package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "supplyhub/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Transactor runs units of work at REPEATABLE READ with a bounded lifetime.
type Transactor struct {
	db      TransactionManager
	timeout time.Duration
}

func NewTransactor(db TransactionManager, timeout time.Duration) *Transactor {
	return &Transactor{db: db, timeout: timeout}
}

// WithinTx runs fn in a transaction. Returning an error from fn rolls it back.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return apperrors.ClassifyStoreError("beginning transaction", fmt.Errorf("beginning transaction: %w", err))
	}
	// MySQL ignores rollback if already committed.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.ClassifyStoreError("committing transaction", fmt.Errorf("committing transaction: %w", err))
	}

	return nil
}
