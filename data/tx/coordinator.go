// Package tx 提供事务协调器：begin/commit/rollback 的状态机包装。
//
// 一个 Coordinator 实例对应恰好一个在途事务；不做事务池化或多路复用。
// 状态机：none → started → (committed | rolledback)，提交或回滚后终态。
package tx

import (
	"context"

	"godata/data/db"
	"godata/errors"
	"godata/logging"
)

// State 协调器状态
type State int

const (
	StateNone State = iota
	StateStarted
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateStarted:
		return "started"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolledback"
	default:
		return "unknown"
	}
}

// Coordinator 事务协调器
//
// 底层连接/会话在一个逻辑工作单元期间归调用方所有；
// 并发调用同一个 Coordinator 不在契约内（每次工作单元新建实例）。
type Coordinator struct {
	database db.IDatabase
	tx       db.ITransaction
	state    State
	logger   logging.Logger
}

// NewCoordinator 创建事务协调器。
func NewCoordinator(database db.IDatabase, logger logging.Logger) *Coordinator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Coordinator{database: database, state: StateNone, logger: logger}
}

// State 返回当前状态。
func (c *Coordinator) State() State { return c.state }

// Tx 返回在途事务会话（未开启时为 nil），verbs 可在其上执行。
func (c *Coordinator) Tx() db.ITransaction { return c.tx }

// Begin 开启事务。
//
// 未决事务上重复 Begin 是调用方错误，这里显式报错而不是静默覆盖，
// 避免事务泄漏。
func (c *Coordinator) Begin(ctx context.Context) error {
	if c.database == nil {
		return errors.NewError(errors.ErrCodeInvalidInput, "coordinator has no database")
	}
	if c.state == StateStarted {
		return errors.NewError(errors.ErrCodeConflict, "transaction already started")
	}
	if c.state != StateNone {
		return errors.NewError(errors.ErrCodeConflict,
			"coordinator is terminal ("+c.state.String()+"), create a new one")
	}
	tx, err := c.database.Begin(ctx)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "failed to begin transaction")
	}
	c.tx = tx
	c.state = StateStarted
	return nil
}

// Commit 按开关提交。
//
// shouldCommit 为 false 时是空操作并返回 false（“反悔”逃生门，
// 状态保持 started，调用方仍可回滚）；提交失败同样返回 false。
func (c *Coordinator) Commit(shouldCommit bool) bool {
	if !shouldCommit {
		return false
	}
	if c.state != StateStarted || c.tx == nil {
		return false
	}
	if err := c.tx.Commit(); err != nil {
		c.logger.Error(context.Background(), "transaction commit failed",
			logging.Layer("tx"), logging.Error(err))
		return false
	}
	c.state = StateCommitted
	return true
}

// Rollback 总是尝试回滚，失败以 false 报告而不抛出。
func (c *Coordinator) Rollback() bool {
	if c.state != StateStarted || c.tx == nil {
		return false
	}
	if err := c.tx.Rollback(); err != nil {
		c.logger.Error(context.Background(), "transaction rollback failed",
			logging.Layer("tx"), logging.Error(err))
		return false
	}
	c.state = StateRolledBack
	return true
}
