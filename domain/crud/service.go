package crud

import (
	"context"

	"godata/audit"
	"godata/data/repo"
	"godata/domain/filter"
	"godata/identity"
	"godata/logging"
)

// IService 泛型服务契约。
//
// 面向展示层的吞错门面：操作失败时返回该操作的零值
// （空列表 / false / 0 / 零值实体 / 空串），失败原因只进日志。
type IService[T repo.IRecord] interface {
	Get(ctx context.Context, id int64) T
	Exists(ctx context.Context, id int64) bool
	Query(ctx context.Context, f filter.Filter) []T
	QueryOne(ctx context.Context, f filter.Filter) T
	QueryPage(ctx context.Context, f filter.Filter) *repo.PagedResult[T]
	Count(ctx context.Context, f filter.Filter) int64

	Add(ctx context.Context, e T, actor identity.Identity) T
	AddAll(ctx context.Context, items []T, actor identity.Identity) []T
	Update(ctx context.Context, e T, actor identity.Identity) T
	UpdateAll(ctx context.Context, items []T, actor identity.Identity) []T
	Delete(ctx context.Context, id int64, actor identity.Identity) bool
	DeleteAll(ctx context.Context, ids []int64, actor identity.Identity) bool
	Restore(ctx context.Context, id int64, actor identity.Identity) T

	DetectChanges(ctx context.Context, e T, mode audit.Mode) string
	AuditTrail(ctx context.Context, id int64, offset, limit int) []audit.Record
}

// Service IService 的默认实现，委托给仓储并吞掉全部错误。
type Service[T repo.IRecord] struct {
	repo   IRepository[T]
	logger logging.Logger
}

// NewService 创建服务门面。
func NewService[T repo.IRecord](repository IRepository[T], logger logging.Logger) *Service[T] {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Service[T]{repo: repository, logger: logger}
}

var _ IService[repo.IRecord] = (*Service[repo.IRecord])(nil)

// fail 统一记录被吞掉的错误。
func (s *Service[T]) fail(ctx context.Context, op string, err error) {
	s.logger.Warn(ctx, "operation failed, returning default value",
		logging.Layer("service"), logging.Op(op), logging.Error(err))
}

func (s *Service[T]) Get(ctx context.Context, id int64) T {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		s.fail(ctx, "get", err)
		var zero T
		return zero
	}
	return e
}

func (s *Service[T]) Exists(ctx context.Context, id int64) bool {
	ok, err := s.repo.Exists(ctx, id)
	if err != nil {
		s.fail(ctx, "exists", err)
		return false
	}
	return ok
}

func (s *Service[T]) Query(ctx context.Context, f filter.Filter) []T {
	items, err := s.repo.Query(ctx, f)
	if err != nil {
		s.fail(ctx, "query", err)
		return []T{}
	}
	return items
}

func (s *Service[T]) QueryOne(ctx context.Context, f filter.Filter) T {
	e, err := s.repo.QueryOne(ctx, f)
	if err != nil {
		s.fail(ctx, "query_one", err)
		var zero T
		return zero
	}
	return e
}

func (s *Service[T]) QueryPage(ctx context.Context, f filter.Filter) *repo.PagedResult[T] {
	page, err := s.repo.QueryPage(ctx, f)
	if err != nil {
		s.fail(ctx, "query_page", err)
		return &repo.PagedResult[T]{Data: []T{}, Skip: f.EffectiveSkip(), Take: f.EffectiveTake()}
	}
	return page
}

func (s *Service[T]) Count(ctx context.Context, f filter.Filter) int64 {
	count, err := s.repo.Count(ctx, f)
	if err != nil {
		s.fail(ctx, "count", err)
		return 0
	}
	return count
}

func (s *Service[T]) Add(ctx context.Context, e T, actor identity.Identity) T {
	saved, err := s.repo.Add(ctx, e, actor)
	if err != nil {
		s.fail(ctx, "add", err)
		var zero T
		return zero
	}
	return saved
}

func (s *Service[T]) AddAll(ctx context.Context, items []T, actor identity.Identity) []T {
	saved, err := s.repo.AddAll(ctx, items, actor)
	if err != nil {
		s.fail(ctx, "add_all", err)
		return []T{}
	}
	return saved
}

func (s *Service[T]) Update(ctx context.Context, e T, actor identity.Identity) T {
	saved, err := s.repo.Update(ctx, e, actor)
	if err != nil {
		s.fail(ctx, "update", err)
		var zero T
		return zero
	}
	return saved
}

func (s *Service[T]) UpdateAll(ctx context.Context, items []T, actor identity.Identity) []T {
	saved, err := s.repo.UpdateAll(ctx, items, actor)
	if err != nil {
		s.fail(ctx, "update_all", err)
		return []T{}
	}
	return saved
}

func (s *Service[T]) Delete(ctx context.Context, id int64, actor identity.Identity) bool {
	if err := s.repo.SoftDelete(ctx, id, actor); err != nil {
		s.fail(ctx, "delete", err)
		return false
	}
	return true
}

func (s *Service[T]) DeleteAll(ctx context.Context, ids []int64, actor identity.Identity) bool {
	if err := s.repo.DeleteAll(ctx, ids, actor); err != nil {
		s.fail(ctx, "delete_all", err)
		return false
	}
	return true
}

func (s *Service[T]) Restore(ctx context.Context, id int64, actor identity.Identity) T {
	e, err := s.repo.Restore(ctx, id, actor)
	if err != nil {
		s.fail(ctx, "restore", err)
		var zero T
		return zero
	}
	return e
}

func (s *Service[T]) DetectChanges(ctx context.Context, e T, mode audit.Mode) string {
	changes, err := s.repo.DetectChanges(ctx, e, mode)
	if err != nil {
		s.fail(ctx, "detect_changes", err)
		return ""
	}
	return changes
}

func (s *Service[T]) AuditTrail(ctx context.Context, id int64, offset, limit int) []audit.Record {
	records, err := s.repo.AuditTrail(ctx, id, offset, limit)
	if err != nil {
		s.fail(ctx, "audit_trail", err)
		return []audit.Record{}
	}
	return records
}
