// Package domain 定义多租户审计实体的核心接口体系
//
// 设计原则：
// 1. 接口最小化 - 每个接口只包含必需的方法
// 2. 组合优于继承 - 通过接口组合构建复杂类型
// 3. 静态遍历 - 嵌套实体通过 IComposite 显式声明，不做运行期反射
package domain

import "time"

// IObject 最基础的对象接口，所有实体的根接口
// 使用泛型支持不同的 ID 类型（int64、string、UUID 等）
type IObject[T comparable] interface {
	// GetID 返回对象的唯一标识
	GetID() T
}

// IAuditable 审计追踪接口
// 实现此接口的实体可以记录创建和修改信息
type IAuditable interface {
	// 创建信息
	GetCreatedAt() time.Time
	GetCreatedBy() int64

	// 最后修改信息
	GetUpdatedAt() time.Time
	GetUpdatedBy() int64

	// 设置审计信息（由基础设施层调用）
	SetCreatedInfo(by int64, at time.Time)
	SetUpdatedInfo(by int64, at time.Time)
}

// ITenantScoped 租户隔离接口
//
// 租户哨兵约定：TenantID == 0 表示“未限定租户”，查询编排器据此决定
// 是否追加租户谓词；实体列为 NOT NULL DEFAULT 0，不使用 NULL 哨兵。
type ITenantScoped interface {
	GetTenantID() int64
	SetTenantID(tenantID int64)
}

// ISoftDeletable 软删除接口
// 实现此接口的实体支持逻辑删除而非物理删除
type ISoftDeletable interface {
	// GetDeletedAt 返回删除时间，nil 表示未删除
	GetDeletedAt() *time.Time

	// GetDeletedBy 返回删除操作者，nil 表示未删除
	GetDeletedBy() *int64

	// IsDeleted 判断是否已删除
	IsDeleted() bool

	// SoftDelete 执行软删除
	SoftDelete(by int64, at time.Time) error

	// Restore 恢复已删除的实体
	Restore() error

	// ClearDeletion 无条件清除软删状态（盖章器在每次保存时调用；
	// 与 Restore 不同，已是未删除状态时不报错）
	ClearDeletion()
}

// IValidatable 可验证接口
type IValidatable interface {
	// Validate 验证实体状态是否有效
	Validate() error
}

// INode 审计遍历的最小节点能力
//
// 盖章器与变更探测器以 INode 为遍历单元；实体图中的每个节点都必须
// 满足该接口，嵌套关系由 IComposite 显式给出。
type INode interface {
	IObject[int64]
	ITenantScoped
	IAuditable
	ISoftDeletable
}

// IComposite 声明嵌套实体
//
// 替代“按字段反射找子实体”的做法：聚合根（或任意中间节点）
// 通过 Children 显式返回其直接子节点（含集合元素），
// 盖章器按后序遍历整棵树（先子后父）。
type IComposite interface {
	Children() []INode
}

// IPropertyCarrier 标量属性载体
//
// 变更探测只比较标量与字符串属性，导航/集合属性不参与比较；
// 实体通过 Properties 显式给出参与比较的属性名与当前值。
type IPropertyCarrier interface {
	Properties() map[string]any
}

// IAuditedEntity 带审计、租户与软删除能力的实体接口
// 泛型仓储与服务约束的标准形态
type IAuditedEntity interface {
	INode
	IValidatable
}

// Entity 通用审计实体字段（用于嵌入），默认使用 int64 作为主键类型。
// ID == 0 表示尚未持久化。
type Entity struct {
	ID        int64      `json:"id"`
	TenantID  int64      `json:"tenant_id"`
	CreatedAt time.Time  `json:"created_at"`
	CreatedBy int64      `json:"created_by"`
	UpdatedAt time.Time  `json:"updated_at"`
	UpdatedBy int64      `json:"updated_by"`
	Deleted   bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *int64     `json:"deleted_by,omitempty"`
}

func (e *Entity) GetID() int64   { return e.ID }
func (e *Entity) SetID(id int64) { e.ID = id }

func (e *Entity) GetTenantID() int64         { return e.TenantID }
func (e *Entity) SetTenantID(tenantID int64) { e.TenantID = tenantID }

func (e *Entity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *Entity) GetCreatedBy() int64     { return e.CreatedBy }
func (e *Entity) GetUpdatedAt() time.Time { return e.UpdatedAt }
func (e *Entity) GetUpdatedBy() int64     { return e.UpdatedBy }

func (e *Entity) SetCreatedInfo(by int64, at time.Time) {
	e.CreatedBy = by
	e.CreatedAt = at
}

func (e *Entity) SetUpdatedInfo(by int64, at time.Time) {
	e.UpdatedBy = by
	e.UpdatedAt = at
}

func (e *Entity) GetDeletedAt() *time.Time { return e.DeletedAt }
func (e *Entity) GetDeletedBy() *int64     { return e.DeletedBy }
func (e *Entity) IsDeleted() bool          { return e.Deleted }

func (e *Entity) SoftDelete(by int64, at time.Time) error {
	if e.Deleted {
		return NewAlreadyDeletedError(e.ID)
	}
	e.Deleted = true
	e.DeletedAt = &at
	e.DeletedBy = &by
	return nil
}

func (e *Entity) Restore() error {
	if !e.Deleted {
		return NewNotDeletedError(e.ID)
	}
	e.ClearDeletion()
	return nil
}

func (e *Entity) ClearDeletion() {
	e.Deleted = false
	e.DeletedAt = nil
	e.DeletedBy = nil
}

// AuditColumns 返回嵌入字段的持久化列名。
// 顺序与 AuditValues/AuditDest 一一对应；"id" 恒为首列，
// 具体实体在自己的 Columns/Values/Dest 实现里追加业务列：
//
//	func (p *Patient) Columns() []string {
//	    return append(p.Entity.AuditColumns(), "name", "phone")
//	}
func (e *Entity) AuditColumns() []string {
	return []string{
		"id", "tenant_id",
		"created_at", "created_by",
		"updated_at", "updated_by",
		"is_deleted", "deleted_at", "deleted_by",
	}
}

// AuditValues 返回与 AuditColumns 对齐的当前值。
func (e *Entity) AuditValues() []any {
	return []any{
		e.ID, e.TenantID,
		e.CreatedAt, e.CreatedBy,
		e.UpdatedAt, e.UpdatedBy,
		e.Deleted, e.DeletedAt, e.DeletedBy,
	}
}

// AuditDest 返回与 AuditColumns 对齐的扫描目标指针。
func (e *Entity) AuditDest() []any {
	return []any{
		&e.ID, &e.TenantID,
		&e.CreatedAt, &e.CreatedBy,
		&e.UpdatedAt, &e.UpdatedBy,
		&e.Deleted, &e.DeletedAt, &e.DeletedBy,
	}
}

// AuditProperties 返回嵌入字段参与变更比较的标量属性。
// 具体实体在自己的 Properties 实现里合并业务字段：
//
//	func (p *Patient) Properties() map[string]any {
//	    props := p.Entity.AuditProperties()
//	    props["name"] = p.Name
//	    return props
//	}
func (e *Entity) AuditProperties() map[string]any {
	props := map[string]any{
		"id":         e.ID,
		"tenant_id":  e.TenantID,
		"created_at": e.CreatedAt,
		"created_by": e.CreatedBy,
		"updated_at": e.UpdatedAt,
		"updated_by": e.UpdatedBy,
		"is_deleted": e.Deleted,
	}
	return props
}
