package repo

import (
	"context"
	"database/sql"
	ers "errors"
	"math"

	"godata/data/query"
	"godata/domain"
	"godata/domain/filter"
	"godata/errors"
)

// Get 根据 ID 获取（排除软删行）。
func (r *Repo[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	if id <= 0 {
		return zero, domain.ErrInvalidID
	}
	return r.getOne(ctx, id, false)
}

// GetAny 根据 ID 获取，包含软删行（恢复路径使用）。
func (r *Repo[T]) GetAny(ctx context.Context, id int64) (T, error) {
	var zero T
	if id <= 0 {
		return zero, domain.ErrInvalidID
	}
	return r.getOne(ctx, id, true)
}

func (r *Repo[T]) getOne(ctx context.Context, id int64, includeDeleted bool) (T, error) {
	var zero T
	b := r.sqlb.Select(r.columns...).From(r.table).Where("id = ?", id)
	if !includeDeleted {
		b = b.Where("(is_deleted IS NULL OR is_deleted = 0)")
	}
	e := r.factory()
	if err := b.QueryRow(ctx).Scan(e.Dest()...); err != nil {
		if isNoRows(err) {
			return zero, domain.ErrEntityNotFound
		}
		return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to query record")
	}
	r.capture(e)
	return e, nil
}

// Query 按过滤描述符查询。
//
// 编排采用失败开放门面：描述符非法（未知排序键等）时过滤被静默跳过，
// 返回未过滤查询的结果并输出 WARN 日志。
func (r *Repo[T]) Query(ctx context.Context, f filter.Filter) ([]T, error) {
	q := query.ComposeOrOriginal(ctx, query.New(), f, r.fields, r.logger)
	return r.find(ctx, q)
}

// QueryOne 按过滤描述符查询单条记录。
func (r *Repo[T]) QueryOne(ctx context.Context, f filter.Filter) (T, error) {
	var zero T
	q := query.ComposeOrOriginal(ctx, query.New(), f, r.fields, r.logger)
	q.Limit = 1
	items, err := r.find(ctx, q)
	if err != nil {
		return zero, err
	}
	if len(items) == 0 {
		return zero, domain.ErrEntityNotFound
	}
	return items[0], nil
}

// Count 按过滤描述符计数（忽略排序与分页）。
func (r *Repo[T]) Count(ctx context.Context, f filter.Filter) (int64, error) {
	q := query.ComposeOrOriginal(ctx, query.New(), f, r.fields, r.logger)
	b := r.sqlb.Select("COUNT(*)").From(r.table)
	for _, c := range q.Conditions {
		b = b.Where(c.Expr, c.Args...)
	}
	var count int64
	if err := b.QueryRow(ctx).Scan(&count); err != nil {
		return 0, errors.WrapError(err, errors.ErrCodeDatabase, "failed to count records")
	}
	return count, nil
}

// CountAll 统计未软删的总行数（不经过滤描述符）。
func (r *Repo[T]) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.sqlb.Select("COUNT(*)").From(r.table).
		Where("(is_deleted IS NULL OR is_deleted = 0)").
		QueryRow(ctx).Scan(&count)
	if err != nil {
		return 0, errors.WrapError(err, errors.ErrCodeDatabase, "failed to count records")
	}
	return count, nil
}

// Exists 检查实体是否存在（排除软删行）。
func (r *Repo[T]) Exists(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, domain.ErrInvalidID
	}
	var count int64
	err := r.sqlb.Select("COUNT(*)").From(r.table).
		Where("id = ?", id).
		Where("(is_deleted IS NULL OR is_deleted = 0)").
		QueryRow(ctx).Scan(&count)
	if err != nil {
		return false, errors.WrapError(err, errors.ErrCodeDatabase, "failed to check record existence")
	}
	return count > 0, nil
}

// QueryPage 分页查询：同一组谓词先计数再取页。
func (r *Repo[T]) QueryPage(ctx context.Context, f filter.Filter) (*PagedResult[T], error) {
	total, err := r.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	f.ApplyPagination = true
	items, err := r.Query(ctx, f)
	if err != nil {
		return nil, err
	}

	take := f.EffectiveTake()
	return &PagedResult[T]{
		Data:       items,
		Total:      total,
		Skip:       f.EffectiveSkip(),
		Take:       take,
		TotalPages: int(math.Ceil(float64(total) / float64(take))),
	}, nil
}

// find 执行已编排查询并扫描结果集。
func (r *Repo[T]) find(ctx context.Context, q query.Query) ([]T, error) {
	b := r.sqlb.Select(r.columns...).From(r.table)
	b = q.ApplyTo(b)

	rows, err := b.Query(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to execute query")
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		e := r.factory()
		if err := rows.Scan(e.Dest()...); err != nil {
			return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to scan record")
		}
		if !q.NoTracking {
			r.capture(e)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to iterate records")
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func isNoRows(err error) bool {
	return err != nil && ers.Is(err, sql.ErrNoRows)
}
