// Package filter 提供声明式查询过滤描述符。
//
// Filter 由调用方在每次查询前新建，核心只读取、从不修改；
// 具体如何落到查询管线由 data/query 的编排器负责（九步固定顺序）。
package filter

import "time"

// DefaultTake 未显式设置分页大小时的默认每页条数。
const DefaultTake = 20

// OrderKind 结构化排序表达式的操作类型。
//
// OrderBy/OrderByDescending 开启新的排序，
// ThenBy/ThenByDescending 追加次级排序键；
// 未经主排序直接出现 ThenBy 属于配置错误，由编排器统一拒绝。
type OrderKind string

const (
	OrderBy           OrderKind = "order_by"
	OrderByDescending OrderKind = "order_by_descending"
	ThenBy            OrderKind = "then_by"
	ThenByDescending  OrderKind = "then_by_descending"
)

// IsValid 判断排序操作类型是否合法。
func (k OrderKind) IsValid() bool {
	switch k {
	case OrderBy, OrderByDescending, ThenBy, ThenByDescending:
		return true
	}
	return false
}

// Primary 是否为“开启新排序”的主排序操作。
func (k OrderKind) Primary() bool {
	return k == OrderBy || k == OrderByDescending
}

// Descending 是否为降序。
func (k OrderKind) Descending() bool {
	return k == OrderByDescending || k == ThenByDescending
}

// OrderExpression 结构化排序表达式。
type OrderExpression struct {
	Kind  OrderKind `json:"kind"`
	Field string    `json:"field"`
}

// Filter 查询过滤描述符（每次调用新建，不跨调用复用）。
//
// 数值等值过滤字段取 0 表示“未设置”；布尔开关默认全关；
// Skip/Take 仅在 ApplyPagination 为 true 时生效，Take 为 0 时取 DefaultTake。
type Filter struct {
	// 数值等值过滤
	ID        int64 `json:"id"`
	TenantID  int64 `json:"tenant_id"`
	CreatedBy int64 `json:"created_by"`
	UpdatedBy int64 `json:"updated_by"`
	DeletedBy int64 `json:"deleted_by"`

	// 行为开关
	NoTracking        bool `json:"no_tracking"`
	IgnoreActiveCheck bool `json:"ignore_active_check"`
	IgnoreTenantCheck bool `json:"ignore_tenant_check"`
	// IncludeSoftDeleted 注意：按历史语义该开关会把查询“再次收窄”为
	// 仅软删行，而非把软删行并入结果集；详见 data/query 编排器第 8 步。
	IncludeSoftDeleted bool `json:"include_soft_deleted"`

	// 分页
	ApplyPagination bool `json:"apply_pagination"`
	Skip            int  `json:"skip"`
	Take            int  `json:"take"`

	// 排序：Orders 优先于 SortBy；SortBy 为单字段升序
	SortBy string            `json:"sort_by"`
	Orders []OrderExpression `json:"orders,omitempty"`

	// 创建时间的闭区间过滤，两端可独立缺省
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// New 创建空过滤描述符。
func New() Filter { return Filter{} }

// ForTenant 创建限定租户的过滤描述符。
func ForTenant(tenantID int64) Filter {
	return Filter{TenantID: tenantID}
}

// EffectiveTake 返回实际生效的每页条数（0/负值回落到 DefaultTake）。
func (f Filter) EffectiveTake() int {
	if f.Take <= 0 {
		return DefaultTake
	}
	return f.Take
}

// EffectiveSkip 返回实际生效的偏移量（负值按 0 处理）。
func (f Filter) EffectiveSkip() int {
	if f.Skip < 0 {
		return 0
	}
	return f.Skip
}

// WithPagination 返回开启分页的副本。
func (f Filter) WithPagination(skip, take int) Filter {
	f.ApplyPagination = true
	f.Skip = skip
	f.Take = take
	return f
}

// WithSortBy 返回按单字段升序排序的副本。
func (f Filter) WithSortBy(field string) Filter {
	f.SortBy = field
	return f
}

// WithOrder 返回追加一条结构化排序表达式的副本。
func (f Filter) WithOrder(kind OrderKind, field string) Filter {
	orders := make([]OrderExpression, len(f.Orders), len(f.Orders)+1)
	copy(orders, f.Orders)
	f.Orders = append(orders, OrderExpression{Kind: kind, Field: field})
	return f
}

// WithDateRange 返回限定创建时间闭区间的副本（任一端可为 nil）。
func (f Filter) WithDateRange(start, end *time.Time) Filter {
	f.StartDate = start
	f.EndDate = end
	return f
}
