// Package repo 提供泛型仓储实现：把查询编排、审计盖章、变更探测
// 与基础持久化动词组合成单一的按实体类型门面。
package repo

import (
	"godata/audit"
	"godata/domain"
	"godata/logging"
)

// IRecord 实体的关系映射契约。
//
// 列映射静态声明（不做反射）：Columns/Values/Dest 三者顺序一一对应，
// 且 "id" 必须是首列。domain.Entity 提供 AuditColumns/AuditValues/AuditDest
// 帮助方法，具体实体只需追加自己的业务列。
type IRecord interface {
	domain.IAuditedEntity
	domain.IPropertyCarrier

	// SetID 回写自增主键（插入后由仓储调用）
	SetID(id int64)

	// Table 返回表名
	Table() string

	// Columns 返回全部持久化列名（首列为 "id"）
	Columns() []string

	// Values 返回与 Columns 对齐的当前值
	Values() []any

	// Dest 返回与 Columns 对齐的扫描目标指针
	Dest() []any
}

// PagedResult 分页结果
type PagedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Skip       int   `json:"skip"`
	Take       int   `json:"take"`
	TotalPages int   `json:"total_pages"`
}

// Option 仓储可选配置
type Option[T IRecord] func(*Repo[T])

// WithLogger 指定日志器。
func WithLogger[T IRecord](logger logging.Logger) Option[T] {
	return func(r *Repo[T]) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithAuditStore 启用审计轨迹持久化。
func WithAuditStore[T IRecord](store audit.IStore) Option[T] {
	return func(r *Repo[T]) { r.auditStore = store }
}

// WithPublisher 启用审计记录对外发布（例如 natspub）。
func WithPublisher[T IRecord](publisher audit.IPublisher) Option[T] {
	return func(r *Repo[T]) { r.publisher = publisher }
}
