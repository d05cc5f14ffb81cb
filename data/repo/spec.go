package repo

import (
	"context"

	"godata/data/query"
	"godata/errors"
)

// Specification 临时查询规格。
//
// 供不走过滤描述符编排的定制查询使用：调用方自备 WHERE 片段
// （? 占位符）与排序，排序字段仍须通过仓储字段集合校验。
type Specification struct {
	Where          string
	Args           []any
	Orders         []query.Order
	Limit          int
	Offset         int
	IncludeDeleted bool
}

// FindBySpec 按规格查询。
func (r *Repo[T]) FindBySpec(ctx context.Context, spec Specification) ([]T, error) {
	q := query.New()
	if !spec.IncludeDeleted {
		q.Where("(is_deleted IS NULL OR is_deleted = 0)")
	}
	if spec.Where != "" {
		q.Where(spec.Where, spec.Args...)
	}
	for _, o := range spec.Orders {
		if !r.fields.Allows(o.Field) {
			return nil, errors.NewError(errors.ErrCodeConfiguration, "sort field not allowed: "+o.Field)
		}
		q.Orders = append(q.Orders, o)
	}
	q.Limit = spec.Limit
	q.Offset = spec.Offset
	return r.find(ctx, q)
}
