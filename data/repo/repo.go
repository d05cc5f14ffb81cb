package repo

import (
	"context"
	"strconv"
	"time"

	"godata/audit"
	"godata/data/db"
	dbsql "godata/data/db/sql"
	"godata/data/query"
	"godata/identity"
	"godata/logging"
)

// Repo 泛型仓储。
//
// 组合查询编排器、审计盖章器与变更追踪快照，向上提供
// add/update/delete/query 等持久化动词；内部按常规错误传播，
// 吞错契约由 crud.Service 门面承担。
//
// 实体图的持久化范围：仓储只落根记录一行；盖章与变更探测
// 覆盖整棵实体树，子实体行的落库由各自的仓储负责。
type Repo[T IRecord] struct {
	database db.IDatabase
	sqlb     dbsql.ISql
	factory  func() T

	table   string
	columns []string
	fields  query.FieldSet

	stamper    *audit.Stamper
	tracker    *tracker
	auditStore audit.IStore
	publisher  audit.IPublisher
	logger     logging.Logger
}

// NewRepo 创建仓储实例。
//
// factory 必须返回可安全扫描的空记录（通常是 func() *Patient { return &Patient{} }）；
// 表名与列集合取自原型记录，排序键会在编排时对照该列集合解析。
func NewRepo[T IRecord](database db.IDatabase, factory func() T, opts ...Option[T]) *Repo[T] {
	proto := factory()
	r := &Repo[T]{
		database: database,
		sqlb:     dbsql.New(database),
		factory:  factory,
		table:    proto.Table(),
		columns:  proto.Columns(),
		fields:   query.NewFieldSet(proto.Columns()...),
		stamper:  audit.NewStamper(nil),
		tracker:  newTracker(),
		logger:   logging.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.stamper = audit.NewStamper(r.logger)
	return r
}

// WithTx 返回绑定到事务会话的仓储浅拷贝。
//
// 会话持有独立的变更追踪快照表：快照的语义是"最近一次已持久化的值"，
// 事务内的写入在提交前不算持久化，回滚后更不能留下幽灵基线，
// 故会话快照随克隆一起丢弃，不回灌原仓储。会话归调用方所有，
// 提交/回滚由 data/tx 的 Coordinator 负责。
func (r *Repo[T]) WithTx(t db.ITransaction) *Repo[T] {
	if t == nil {
		return r
	}
	clone := *r
	clone.sqlb = r.sqlb.WithDB(t)
	clone.tracker = newTracker()
	return &clone
}

// Table 返回绑定的表名。
func (r *Repo[T]) Table() string { return r.table }

// Fields 返回可排序字段集合（供上层自行编排时使用）。
func (r *Repo[T]) Fields() query.FieldSet { return r.fields }

// entityKey 审计记录的实体标识（主键字符串形式）。
func entityKey(id int64) string { return strconv.FormatInt(id, 10) }

// saveAudit 追加审计记录并按需发布；审计属旁路设施，失败只记日志。
func (r *Repo[T]) saveAudit(ctx context.Context, id int64, op audit.Operation, actor identity.Identity, changes string) {
	if r.auditStore == nil && r.publisher == nil {
		return
	}
	rec := audit.NewRecord(entityKey(id), op, actor, time.Now().UTC(), changes)
	if r.auditStore != nil {
		if err := r.auditStore.Save(ctx, rec); err != nil {
			r.logger.Warn(ctx, "audit record save failed",
				logging.Layer("repository"), logging.Op(string(op)),
				logging.Int64("entity_id", id), logging.Error(err))
		}
	}
	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, rec); err != nil {
			r.logger.Warn(ctx, "audit record publish failed",
				logging.Layer("repository"), logging.Op(string(op)),
				logging.Int64("entity_id", id), logging.Error(err))
		}
	}
}

// AuditTrail 拉取实体的审计轨迹（未配置审计存储时返回空列表）。
func (r *Repo[T]) AuditTrail(ctx context.Context, id int64, offset, limit int) ([]audit.Record, error) {
	if r.auditStore == nil {
		return []audit.Record{}, nil
	}
	return r.auditStore.ListByEntity(ctx, entityKey(id), offset, limit)
}

// capture 登记追踪快照（NoTracking 时由调用路径跳过）。
func (r *Repo[T]) capture(e T) {
	r.tracker.capture(e.GetID(), e.Properties())
}
