// Package crud 定义泛型仓储与服务契约，并提供吞错的服务门面实现。
//
// 分层错误契约：仓储按常规返回 error，由调用方处置；服务门面
// 面向展示层，任何失败都转换为该操作的零值结果并记录日志，
// 绝不向上抛错。
package crud

import (
	"context"

	"godata/audit"
	"godata/data/repo"
	"godata/domain/filter"
	"godata/identity"
)

// IRepository 泛型仓储契约（常规错误传播）。
type IRepository[T repo.IRecord] interface {
	IQueryableRepository[T]
	IBatchOperations[T]

	Add(ctx context.Context, e T, actor identity.Identity) (T, error)
	Update(ctx context.Context, e T, actor identity.Identity) (T, error)
	SoftDelete(ctx context.Context, id int64, actor identity.Identity) error
	Restore(ctx context.Context, id int64, actor identity.Identity) (T, error)
	HardDelete(ctx context.Context, id int64, actor identity.Identity) error

	DetectChanges(ctx context.Context, e T, mode audit.Mode) (string, error)
	AuditTrail(ctx context.Context, id int64, offset, limit int) ([]audit.Record, error)
}

// IQueryableRepository 查询侧契约。
type IQueryableRepository[T repo.IRecord] interface {
	Get(ctx context.Context, id int64) (T, error)
	GetAny(ctx context.Context, id int64) (T, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Query(ctx context.Context, f filter.Filter) ([]T, error)
	QueryOne(ctx context.Context, f filter.Filter) (T, error)
	QueryPage(ctx context.Context, f filter.Filter) (*repo.PagedResult[T], error)
	Count(ctx context.Context, f filter.Filter) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	FindBySpec(ctx context.Context, spec repo.Specification) ([]T, error)
}

// IBatchOperations 批量操作契约。
type IBatchOperations[T repo.IRecord] interface {
	AddAll(ctx context.Context, items []T, actor identity.Identity) ([]T, error)
	UpdateAll(ctx context.Context, items []T, actor identity.Identity) ([]T, error)
	DeleteAll(ctx context.Context, ids []int64, actor identity.Identity) error
}

var _ IRepository[repo.IRecord] = (*repo.Repo[repo.IRecord])(nil)
