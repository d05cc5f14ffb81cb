// Package identity 承载当前逻辑操作的调用方身份。
//
// 身份以显式参数的形式穿透到每个需要盖章/租户信息的调用，
// 不依赖任何隐式全局状态（例如 HTTP 中间件写入的环境变量）。
package identity

// Identity 当前操作者身份
//
// 三个字段均为纯值，必须在任何盖章调用之前同步解析完成；
// TenantID == 0 表示未限定租户（与 domain.ITenantScoped 的哨兵约定一致）。
type Identity struct {
	TenantID int64
	ActorID  int64
	RoleID   int64
}

// System 返回系统身份（后台任务、迁移脚本等无用户上下文的场景）。
func System() Identity {
	return Identity{TenantID: 0, ActorID: 0, RoleID: 0}
}

// Scoped 判断身份是否限定了租户。
func (id Identity) Scoped() bool { return id.TenantID > 0 }
