package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/WX-CapacityService/pkg/dbmetrics"
)

type fakeTx struct {
	events *[]string
	commit error
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	*t.events = append(*t.events, "commit")
	return t.commit
}

func (t *fakeTx) Rollback() error {
	*t.events = append(*t.events, "rollback")
	return nil
}

type fakeBeginner struct {
	events    []string
	commitErr error
	opts      *sql.TxOptions
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	b.opts = opts
	b.events = append(b.events, "begin")
	return &fakeTx{events: &b.events, commit: b.commitErr}, nil
}

func TestDoRunsHooksAfterCommit(t *testing.T) {
	db := &fakeBeginner{}
	manager := NewTransactionManager(db)

	err := manager.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		OnCommit(ctx, func() { db.events = append(db.events, "hook") })

		// вложенная транзакция не открывает новую и делит список хуков
		return manager.Do(ctx, func(inner context.Context) error {
			OnCommit(inner, func() { db.events = append(db.events, "nested hook") })
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "commit", "hook", "nested hook"}, db.events)
	assert.Equal(t, sql.LevelReadCommitted, db.opts.Isolation)
}

func TestDoSkipsHooksOnRollback(t *testing.T) {
	db := &fakeBeginner{}
	manager := NewTransactionManager(db)
	boom := errors.New("boom")

	err := manager.Do(context.Background(), func(ctx context.Context) error {
		OnCommit(ctx, func() { db.events = append(db.events, "hook") })
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"begin", "rollback"}, db.events)
}

func TestDoSkipsHooksWhenCommitFails(t *testing.T) {
	db := &fakeBeginner{commitErr: errors.New("connection reset")}
	manager := NewTransactionManager(db)

	err := manager.Do(context.Background(), func(ctx context.Context) error {
		OnCommit(ctx, func() { db.events = append(db.events, "hook") })
		return nil
	})
	assert.ErrorIs(t, err, ErrCommitTx)
	assert.Equal(t, []string{"begin", "commit"}, db.events)
}

func TestOnCommitOutsideTransactionRunsImmediately(t *testing.T) {
	called := false
	OnCommit(context.Background(), func() { called = true })
	assert.True(t, called)
}

func TestDoRejectsUnsupportedDB(t *testing.T) {
	manager := NewTransactionManager(struct{}{})
	err := manager.Do(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrUnsupportedDB)
}
