package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "supplyhub/internal/errors"
)

type mockTransactionManager struct {
	BeginTxFunc func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

func (m *mockTransactionManager) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return m.BeginTxFunc(ctx, opts)
}

func TestWithinTx_BeginFailureIsStoreUnavailable(t *testing.T) {
	var gotOpts *sql.TxOptions
	var hasDeadline bool
	txMgr := &mockTransactionManager{
		BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
			gotOpts = opts
			_, hasDeadline = ctx.Deadline()
			return nil, driver.ErrBadConn
		},
	}

	called := false
	err := NewTransactor(txMgr, time.Second).WithinTx(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		called = true
		return nil
	})

	_, ok := apperrors.IsStoreUnavailableError(err)
	assert.True(t, ok)
	assert.False(t, called)
	assert.Equal(t, sql.LevelRepeatableRead, gotOpts.Isolation)
	assert.True(t, hasDeadline)
}

func TestWithinTx_BeginFailureOtherErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	txMgr := &mockTransactionManager{
		BeginTxFunc: func(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
			return nil, boom
		},
	}

	err := NewTransactor(txMgr, 0).WithinTx(context.Background(), func(ctx context.Context, tx *sql.Tx) error {
		return nil
	})

	assert.ErrorIs(t, err, boom)
	_, ok := apperrors.IsStoreUnavailableError(err)
	assert.False(t, ok)
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "u:p@tcp(db:3306)/supplyhub?parseTime=true", DSN(testDBConfig()))
}
