// Package audit 提供审计盖章、软删标记与属性级变更探测。
//
// 盖章器与变更探测器都以 domain.INode 为遍历单元，通过 IComposite
// 的显式子节点声明做静态树遍历，不做运行期反射。
package audit

import (
	"context"
	"time"

	"godata/domain"
	"godata/identity"
	"godata/logging"
)

// Stamper 审计盖章器
//
// 失败语义：遍历中的任何 panic 被捕获并记日志后直接返回，
// 实体图可能处于部分盖章状态——调用方不能假设盖章跨整图原子；
// 持久化才是原子单元。
type Stamper struct {
	logger logging.Logger
}

// NewStamper 创建盖章器。
func NewStamper(logger logging.Logger) *Stamper {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Stamper{logger: logger}
}

// Stamp 对实体图后序盖章（先子后父）。
//
// 后序保证每个节点的“新建还是更新”判定基于该节点自己的 ID，
// 不会被父节点的盖章覆盖。
//
// 每个节点：
//   - ID == 0（新建）：写入创建人/创建时间；
//   - 总是：写入更新人/更新时间/租户，并无条件清除软删状态。
//     因此更新路径不能用来“边更新边软删”；软删是独立操作（MarkDeleted）。
func (s *Stamper) Stamp(ctx context.Context, node domain.INode, id identity.Identity, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "audit stamping aborted, graph may be partially stamped",
				logging.Layer("stamper"), logging.Op("stamp"), logging.Any("panic", r))
		}
	}()
	walk(node, func(n domain.INode) {
		if n.GetID() == 0 {
			n.SetCreatedInfo(id.ActorID, now)
		}
		n.SetUpdatedInfo(id.ActorID, now)
		n.SetTenantID(id.TenantID)
		n.ClearDeletion()
	})
}

// MarkDeleted 对实体图后序打软删标记（遍历方式与 Stamp 相同）。
//
// 已处于软删状态的节点跳过并记 WARN（不中断其余节点）。
func (s *Stamper) MarkDeleted(ctx context.Context, node domain.INode, actorID int64, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "soft-delete marking aborted, graph may be partially marked",
				logging.Layer("stamper"), logging.Op("mark_deleted"), logging.Any("panic", r))
		}
	}()
	walk(node, func(n domain.INode) {
		if err := n.SoftDelete(actorID, now); err != nil {
			s.logger.Warn(ctx, "soft-delete skipped for node",
				logging.Layer("stamper"),
				logging.Int64("entity_id", n.GetID()),
				logging.Error(err))
		}
	})
}

// walk 后序遍历实体树：先访问全部子节点，再访问节点本身。
// 实体图按树处理（见 IComposite 契约），不做环检测。
func walk(node domain.INode, visit func(domain.INode)) {
	if node == nil {
		return
	}
	if c, ok := node.(domain.IComposite); ok {
		for _, child := range c.Children() {
			walk(child, visit)
		}
	}
	visit(node)
}
