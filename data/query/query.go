// Package query 提供声明式过滤描述符到查询管线的编排。
//
// Query 是纯值对象：编排器在副本上追加谓词/排序/分页，原查询永不被修改，
// 这也是失败开放策略（出错返回原查询）的基础。
package query

import (
	"strings"

	dbsql "godata/data/db/sql"
)

// 审计列名约定（与 domain.Entity 的持久化列一致）
const (
	ColumnID        = "id"
	ColumnTenantID  = "tenant_id"
	ColumnCreatedAt = "created_at"
	ColumnCreatedBy = "created_by"
	ColumnUpdatedAt = "updated_at"
	ColumnUpdatedBy = "updated_by"
	ColumnIsDeleted = "is_deleted"
	ColumnDeletedAt = "deleted_at"
	ColumnDeletedBy = "deleted_by"
)

// Condition 单条 WHERE 谓词（?​ 占位符）
type Condition struct {
	Expr string
	Args []any
}

// Order 单个排序键
type Order struct {
	Field string
	Desc  bool
}

// Query 已编排的查询描述
//
// NoTracking 不是行过滤，而是给仓储的只读提示：命中的实体不登记
// 变更追踪快照。
type Query struct {
	Conditions []Condition
	Orders     []Order
	Limit      int
	Offset     int
	NoTracking bool
}

// New 创建空查询描述。
func New() Query { return Query{} }

// Clone 返回深拷贝，编排器只在拷贝上工作。
func (q Query) Clone() Query {
	out := Query{
		Limit:      q.Limit,
		Offset:     q.Offset,
		NoTracking: q.NoTracking,
	}
	if len(q.Conditions) > 0 {
		out.Conditions = make([]Condition, len(q.Conditions))
		copy(out.Conditions, q.Conditions)
	}
	if len(q.Orders) > 0 {
		out.Orders = make([]Order, len(q.Orders))
		copy(out.Orders, q.Orders)
	}
	return out
}

// Where 追加谓词（就地，供编排器内部使用）。
func (q *Query) Where(expr string, args ...any) {
	if expr == "" {
		return
	}
	q.Conditions = append(q.Conditions, Condition{Expr: expr, Args: args})
}

// OrderExpr 把排序键列表拼为 SQL ORDER BY 表达式。
func (q Query) OrderExpr() string {
	if len(q.Orders) == 0 {
		return ""
	}
	parts := make([]string, 0, len(q.Orders))
	for _, o := range q.Orders {
		dir := " ASC"
		if o.Desc {
			dir = " DESC"
		}
		parts = append(parts, o.Field+dir)
	}
	return strings.Join(parts, ", ")
}

// ApplyTo 把查询描述落到 SELECT 构建器上。
func (q Query) ApplyTo(b dbsql.ISelectBuilder) dbsql.ISelectBuilder {
	for _, c := range q.Conditions {
		b = b.Where(c.Expr, c.Args...)
	}
	if expr := q.OrderExpr(); expr != "" {
		b = b.OrderBy(expr)
	}
	if q.Limit > 0 {
		b = b.Limit(q.Limit)
	}
	if q.Offset > 0 {
		b = b.Offset(q.Offset)
	}
	return b
}

// FieldSet 实体的可排序字段集合（编排时解析排序键用）
type FieldSet map[string]struct{}

// NewFieldSet 由列名列表构造字段集合。
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		s[n] = struct{}{}
	}
	return s
}

// Allows 字段须同时满足：语法安全标识符 + 在实体字段集合内。
// 空集合视为“无元数据”，只做语法校验。
func (s FieldSet) Allows(name string) bool {
	if !dbsql.IsSafeIdentifier(name) {
		return false
	}
	if len(s) == 0 {
		return true
	}
	_, ok := s[name]
	return ok
}
