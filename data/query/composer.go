package query

import (
	"context"

	"godata/domain/filter"
	"godata/errors"
	"godata/logging"
)

// Compose 把过滤描述符按固定顺序编排到查询副本上。
//
// 九步顺序是契约的一部分（后面的谓词在前面的基础上继续收窄，
// 排序必须作用在最终的过滤集合上）：
//
//  1. 无条件排除软删行（唯一不受描述符控制的过滤）；
//  2. 未跳过租户校验且 TenantID > 0 时限定租户；
//  3. ID/CreatedBy/UpdatedBy/DeletedBy > 0 时追加等值谓词；
//  4. NoTracking 标记只读提示（不是行过滤）；
//  5. IgnoreActiveCheck 额外要求 is_deleted = 1 —— 该开关名不副实，
//     意图是“只查软删行”，但谓词叠加在第 1 步之上，字面组合恒空；
//     按原样保留，不做直觉修正；
//  6. ApplyPagination 时应用 Skip/Take（默认 0/20）；
//  7. 排序：优先结构化表达式（OrderBy 开启新排序、ThenBy 追加次级键），
//     否则按 SortBy 单字段升序；未知字段与“无主排序的 ThenBy”是配置错误；
//  8. IncludeSoftDeleted 再次收窄为 is_deleted = 1 —— 与第 1 步叠加后
//     按字面组合可得恒空结果，这是历史遗留行为，保留并在测试中固化；
//  9. StartDate/EndDate 对创建时间做闭区间过滤，两端独立生效。
//
// 返回错误时调用方不得使用返回的查询；失败开放语义由 ComposeOrOriginal 提供。
func Compose(base Query, f filter.Filter, fields FieldSet) (Query, error) {
	q := base.Clone()

	// 1. 排除软删行（is_deleted 为 NULL 的历史行按未删除处理）
	q.Where("(" + ColumnIsDeleted + " IS NULL OR " + ColumnIsDeleted + " = 0)")

	// 2. 租户隔离
	if !f.IgnoreTenantCheck && f.TenantID > 0 {
		q.Where(ColumnTenantID+" = ?", f.TenantID)
	}

	// 3. 数值等值过滤
	if f.ID > 0 {
		q.Where(ColumnID+" = ?", f.ID)
	}
	if f.CreatedBy > 0 {
		q.Where(ColumnCreatedBy+" = ?", f.CreatedBy)
	}
	if f.UpdatedBy > 0 {
		q.Where(ColumnUpdatedBy+" = ?", f.UpdatedBy)
	}
	if f.DeletedBy > 0 {
		q.Where(ColumnDeletedBy+" = ?", f.DeletedBy)
	}

	// 4. 只读提示
	if f.NoTracking {
		q.NoTracking = true
	}

	// 5. IgnoreActiveCheck：追加软删限定（与第 1 步叠加，历史怪癖，按原样保留）
	if f.IgnoreActiveCheck {
		q.Where(ColumnIsDeleted + " = 1")
	}

	// 6. 分页
	if f.ApplyPagination {
		q.Offset = f.EffectiveSkip()
		q.Limit = f.EffectiveTake()
	}

	// 7. 排序
	if len(f.Orders) > 0 {
		orders, err := ResolveOrders(f.Orders, fields)
		if err != nil {
			return base, err
		}
		q.Orders = orders
	} else if f.SortBy != "" {
		if !fields.Allows(f.SortBy) {
			return base, errors.NewError(errors.ErrCodeConfiguration,
				"unknown sort field: "+f.SortBy)
		}
		q.Orders = []Order{{Field: f.SortBy}}
	}

	// 8. IncludeSoftDeleted：再次收窄为软删行
	if f.IncludeSoftDeleted {
		q.Where(ColumnIsDeleted + " = 1")
	}

	// 9. 创建时间闭区间
	if f.StartDate != nil {
		q.Where(ColumnCreatedAt+" >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q.Where(ColumnCreatedAt+" <= ?", *f.EndDate)
	}

	return q, nil
}

// ResolveOrders 把结构化排序表达式解析为排序键列表。
//
// OrderBy/OrderByDescending 开启新排序（丢弃之前积累的键），
// ThenBy/ThenByDescending 追加次级键；列表首个表达式必须是主排序。
func ResolveOrders(exprs []filter.OrderExpression, fields FieldSet) ([]Order, error) {
	var orders []Order
	for i, e := range exprs {
		if !e.Kind.IsValid() {
			return nil, errors.NewError(errors.ErrCodeConfiguration,
				"invalid order kind: "+string(e.Kind))
		}
		if !fields.Allows(e.Field) {
			return nil, errors.NewError(errors.ErrCodeConfiguration,
				"unknown order field: "+e.Field)
		}
		if e.Kind.Primary() {
			orders = orders[:0]
		} else if i == 0 || len(orders) == 0 {
			return nil, errors.NewError(errors.ErrCodeConfiguration,
				"then-by expression without a preceding primary order")
		}
		orders = append(orders, Order{Field: e.Field, Desc: e.Kind.Descending()})
	}
	return orders, nil
}

// ComposeOrOriginal 失败开放门面：编排失败时返回原查询并记日志。
//
// 过滤被静默跳过是刻意保留的历史契约（风险自担）；
// 诊断只能依赖这里输出的 WARN 日志。
func ComposeOrOriginal(ctx context.Context, base Query, f filter.Filter, fields FieldSet, logger logging.Logger) Query {
	q, err := Compose(base, f, fields)
	if err != nil {
		if logger == nil {
			logger = logging.GetLogger()
		}
		logger.Warn(ctx, "query composition failed, returning unfiltered query",
			logging.Layer("composer"),
			logging.Error(err))
		return base
	}
	return q
}
