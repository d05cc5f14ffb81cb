package tx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"godata/data/db"
	"godata/errors"
)

// mockTx 只实现状态机需要的 Commit/Rollback，其余方法走内嵌接口（不会被调用）
type mockTx struct {
	db.ITransaction
	commitErr   error
	rollbackErr error
	commits     int
	rollbacks   int
}

func (m *mockTx) Commit() error {
	m.commits++
	return m.commitErr
}

func (m *mockTx) Rollback() error {
	m.rollbacks++
	return m.rollbackErr
}

type mockDB struct {
	db.IDatabase
	tx       *mockTx
	beginErr error
}

func (m *mockDB) Begin(ctx context.Context) (db.ITransaction, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return m.tx, nil
}

func TestCoordinator_CommitPath(t *testing.T) {
	mtx := &mockTx{}
	c := NewCoordinator(&mockDB{tx: mtx}, nil)
	require.Equal(t, StateNone, c.State())
	require.Nil(t, c.Tx())

	require.NoError(t, c.Begin(context.Background()))
	require.Equal(t, StateStarted, c.State())
	require.NotNil(t, c.Tx())

	require.True(t, c.Commit(true))
	require.Equal(t, StateCommitted, c.State())
	require.Equal(t, 1, mtx.commits)
}

func TestCoordinator_RollbackPath(t *testing.T) {
	mtx := &mockTx{}
	c := NewCoordinator(&mockDB{tx: mtx}, nil)
	require.NoError(t, c.Begin(context.Background()))

	require.True(t, c.Rollback())
	require.Equal(t, StateRolledBack, c.State())
	require.Equal(t, 1, mtx.rollbacks)
}

// shouldCommit=false 是空操作：不提交、状态保持 started、仍可回滚
func TestCoordinator_CommitFalseIsNoOp(t *testing.T) {
	mtx := &mockTx{}
	c := NewCoordinator(&mockDB{tx: mtx}, nil)
	require.NoError(t, c.Begin(context.Background()))

	require.False(t, c.Commit(false))
	require.Equal(t, StateStarted, c.State())
	require.Zero(t, mtx.commits)

	require.True(t, c.Rollback())
	require.Equal(t, StateRolledBack, c.State())
}

// 未决事务上重复 Begin 报冲突错误
func TestCoordinator_DoubleBegin(t *testing.T) {
	c := NewCoordinator(&mockDB{tx: &mockTx{}}, nil)
	require.NoError(t, c.Begin(context.Background()))

	err := c.Begin(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsErrorCode(err, errors.ErrCodeConflict))
}

// 终态后的协调器不可复用
func TestCoordinator_TerminalStateRejectsBegin(t *testing.T) {
	c := NewCoordinator(&mockDB{tx: &mockTx{}}, nil)
	require.NoError(t, c.Begin(context.Background()))
	require.True(t, c.Commit(true))

	err := c.Begin(context.Background())
	require.Error(t, err)
	require.True(t, errors.IsErrorCode(err, errors.ErrCodeConflict))
}

// 未开启事务时 Commit/Rollback 以 false 报告，绝不抛出
func TestCoordinator_NoTransactionNeverThrows(t *testing.T) {
	c := NewCoordinator(&mockDB{tx: &mockTx{}}, nil)
	require.False(t, c.Commit(true))
	require.False(t, c.Rollback())
	require.Equal(t, StateNone, c.State())
}

// 提交失败返回 false 且状态不动
func TestCoordinator_CommitFailure(t *testing.T) {
	mtx := &mockTx{commitErr: errors.NewError(errors.ErrCodeDatabase, "boom")}
	c := NewCoordinator(&mockDB{tx: mtx}, nil)
	require.NoError(t, c.Begin(context.Background()))

	require.False(t, c.Commit(true))
	require.Equal(t, StateStarted, c.State())
}

// 回滚失败返回 false 且状态不动
func TestCoordinator_RollbackFailure(t *testing.T) {
	mtx := &mockTx{rollbackErr: errors.NewError(errors.ErrCodeDatabase, "boom")}
	c := NewCoordinator(&mockDB{tx: mtx}, nil)
	require.NoError(t, c.Begin(context.Background()))

	require.False(t, c.Rollback())
	require.Equal(t, StateStarted, c.State())
}

func TestCoordinator_BeginFailure(t *testing.T) {
	c := NewCoordinator(&mockDB{beginErr: errors.NewError(errors.ErrCodeDatabase, "down")}, nil)
	err := c.Begin(context.Background())
	require.Error(t, err)
	require.Equal(t, StateNone, c.State())
	require.Nil(t, c.Tx())
}

func TestCoordinator_NilDatabase(t *testing.T) {
	c := NewCoordinator(nil, nil)
	require.Error(t, c.Begin(context.Background()))
}
