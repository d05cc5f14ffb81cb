package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"godata/domain/filter"
	"godata/errors"
)

func testFields() FieldSet {
	return NewFieldSet("id", "tenant_id", "created_at", "created_by",
		"updated_at", "updated_by", "is_deleted", "deleted_at", "deleted_by",
		"name", "mrn")
}

// 空描述符只产生软删排除谓词，不分页不排序
func TestCompose_EmptyFilter(t *testing.T) {
	q, err := Compose(New(), filter.New(), testFields())
	require.NoError(t, err)

	require.Len(t, q.Conditions, 1)
	require.Equal(t, "(is_deleted IS NULL OR is_deleted = 0)", q.Conditions[0].Expr)
	require.Empty(t, q.Orders)
	require.Zero(t, q.Limit)
	require.Zero(t, q.Offset)
	require.False(t, q.NoTracking)
}

func TestCompose_TenantScoping(t *testing.T) {
	f := filter.ForTenant(7)
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Len(t, q.Conditions, 2)
	require.Equal(t, "tenant_id = ?", q.Conditions[1].Expr)
	require.Equal(t, []any{int64(7)}, q.Conditions[1].Args)

	// IgnoreTenantCheck 跳过租户隔离
	f.IgnoreTenantCheck = true
	q, err = Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Len(t, q.Conditions, 1)

	// 哨兵值 0 表示未限定租户
	q, err = Compose(New(), filter.New(), testFields())
	require.NoError(t, err)
	require.Len(t, q.Conditions, 1)
}

func TestCompose_NumericEqualityPredicates(t *testing.T) {
	f := filter.Filter{ID: 3, CreatedBy: 4, UpdatedBy: 5, DeletedBy: 6}
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)

	exprs := make([]string, 0, len(q.Conditions))
	for _, c := range q.Conditions {
		exprs = append(exprs, c.Expr)
	}
	require.Equal(t, []string{
		"(is_deleted IS NULL OR is_deleted = 0)",
		"id = ?",
		"created_by = ?",
		"updated_by = ?",
		"deleted_by = ?",
	}, exprs)
}

// 分页默认值：skip 0 / take 20
func TestCompose_PaginationDefaults(t *testing.T) {
	f := filter.Filter{ApplyPagination: true}
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Equal(t, 0, q.Offset)
	require.Equal(t, filter.DefaultTake, q.Limit)

	f = filter.New().WithPagination(40, 10)
	q, err = Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Equal(t, 40, q.Offset)
	require.Equal(t, 10, q.Limit)

	// 负值回落到默认值
	f = filter.New().WithPagination(-1, -5)
	q, err = Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Equal(t, 0, q.Offset)
	require.Equal(t, filter.DefaultTake, q.Limit)
}

// 未开启分页时描述符的 Skip/Take 被忽略
func TestCompose_PaginationDisabled(t *testing.T) {
	f := filter.Filter{Skip: 40, Take: 10}
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Zero(t, q.Limit)
	require.Zero(t, q.Offset)
}

func TestCompose_SortBySingleField(t *testing.T) {
	f := filter.New().WithSortBy("name")
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Equal(t, []Order{{Field: "name"}}, q.Orders)
	require.Equal(t, "name ASC", q.OrderExpr())
}

// 未知排序字段是配置错误，不是静默忽略
func TestCompose_UnknownSortFieldIsConfigurationError(t *testing.T) {
	f := filter.New().WithSortBy("salary; DROP TABLE t")
	_, err := Compose(New(), f, testFields())
	require.Error(t, err)
	require.True(t, errors.IsConfiguration(err))

	f = filter.New().WithSortBy("unmapped_column")
	_, err = Compose(New(), f, testFields())
	require.Error(t, err)
	require.True(t, errors.IsConfiguration(err))
}

func TestResolveOrders_ThenByChains(t *testing.T) {
	exprs := []filter.OrderExpression{
		{Kind: filter.OrderByDescending, Field: "created_at"},
		{Kind: filter.ThenBy, Field: "name"},
	}
	orders, err := ResolveOrders(exprs, testFields())
	require.NoError(t, err)
	require.Equal(t, []Order{
		{Field: "created_at", Desc: true},
		{Field: "name"},
	}, orders)
}

// 后出现的 OrderBy 重开排序，丢弃之前积累的键
func TestResolveOrders_PrimaryResetsAccumulated(t *testing.T) {
	exprs := []filter.OrderExpression{
		{Kind: filter.OrderBy, Field: "name"},
		{Kind: filter.ThenBy, Field: "mrn"},
		{Kind: filter.OrderBy, Field: "created_at"},
	}
	orders, err := ResolveOrders(exprs, testFields())
	require.NoError(t, err)
	require.Equal(t, []Order{{Field: "created_at"}}, orders)
}

// 没有主排序先行的 ThenBy 是配置错误
func TestResolveOrders_LeadingThenByIsConfigurationError(t *testing.T) {
	exprs := []filter.OrderExpression{
		{Kind: filter.ThenBy, Field: "name"},
	}
	_, err := ResolveOrders(exprs, testFields())
	require.Error(t, err)
	require.True(t, errors.IsConfiguration(err))
}

// 结构化排序优先于 SortBy
func TestCompose_OrdersTakePrecedenceOverSortBy(t *testing.T) {
	f := filter.New().WithSortBy("mrn").WithOrder(filter.OrderBy, "name")
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Equal(t, []Order{{Field: "name"}}, q.Orders)
}

// IgnoreActiveCheck 在第 1 步之上追加 is_deleted = 1（字面叠加，不修正）
func TestCompose_IgnoreActiveCheckQuirk(t *testing.T) {
	f := filter.Filter{IgnoreActiveCheck: true}
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Len(t, q.Conditions, 2)
	require.Equal(t, "is_deleted = 1", q.Conditions[1].Expr)
}

// IncludeSoftDeleted 同样在第 1 步之上再收窄为 is_deleted = 1；
// 字面组合可得恒空结果，这里固化该历史行为
func TestCompose_IncludeSoftDeletedQuirk(t *testing.T) {
	f := filter.Filter{IncludeSoftDeleted: true}
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Equal(t, "(is_deleted IS NULL OR is_deleted = 0)", q.Conditions[0].Expr)
	require.Equal(t, "is_deleted = 1", q.Conditions[1].Expr)
}

func TestCompose_DateRange(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 23, 59, 59, 0, time.UTC)

	f := filter.New().WithDateRange(&start, &end)
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)

	last := q.Conditions[len(q.Conditions)-1]
	require.Equal(t, "created_at <= ?", last.Expr)
	prev := q.Conditions[len(q.Conditions)-2]
	require.Equal(t, "created_at >= ?", prev.Expr)

	// 单端独立生效
	f = filter.New().WithDateRange(&start, nil)
	q, err = Compose(New(), f, testFields())
	require.NoError(t, err)
	require.Equal(t, "created_at >= ?", q.Conditions[len(q.Conditions)-1].Expr)
}

func TestCompose_NoTrackingIsHintNotPredicate(t *testing.T) {
	f := filter.Filter{NoTracking: true}
	q, err := Compose(New(), f, testFields())
	require.NoError(t, err)
	require.True(t, q.NoTracking)
	require.Len(t, q.Conditions, 1)
}

// 编排失败时不修改原查询
func TestCompose_FailureLeavesBaseUntouched(t *testing.T) {
	base := New()
	base.Where("name = ?", "x")

	f := filter.New().WithSortBy("no_such_field")
	got, err := Compose(base, f, testFields())
	require.Error(t, err)
	require.Equal(t, base, got)
	require.Len(t, base.Conditions, 1)
}

// 失败开放门面：编排失败时返回未过滤的原查询
func TestComposeOrOriginal_FailOpen(t *testing.T) {
	base := New()
	f := filter.New().WithSortBy("no_such_field")

	q := ComposeOrOriginal(context.Background(), base, f, testFields(), nil)
	require.Equal(t, base, q)
	require.Empty(t, q.Conditions)
}

func TestComposeOrOriginal_Success(t *testing.T) {
	f := filter.ForTenant(9)
	q := ComposeOrOriginal(context.Background(), New(), f, testFields(), nil)
	require.Len(t, q.Conditions, 2)
}

func TestFieldSet_Allows(t *testing.T) {
	fields := NewFieldSet("name")
	require.True(t, fields.Allows("name"))
	require.False(t, fields.Allows("other"))
	require.False(t, fields.Allows("name; --"))

	// 空集合只做语法校验
	var open FieldSet
	require.True(t, open.Allows("anything_safe"))
	require.False(t, open.Allows("1bad"))
}
