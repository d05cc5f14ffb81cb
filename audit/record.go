package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"godata/identity"
)

// Operation 审计操作类型
type Operation string

const (
	OpCreate     Operation = "CREATE"
	OpUpdate     Operation = "UPDATE"
	OpSoftDelete Operation = "DELETE"
	OpRestore    Operation = "RESTORE"
	OpHardDelete Operation = "DELETE_HARD"
)

// Record 审计记录
//
// Changes 为序列化后的变更快照（ChangeSet 或 changed-only 扁平 map 的 JSON），
// 由变更探测器产出，审计存储不解析其内容。
type Record struct {
	ID        string    `json:"id"`
	EntityID  string    `json:"entity_id"`
	Operation Operation `json:"operation"`
	ActorID   int64     `json:"actor_id"`
	TenantID  int64     `json:"tenant_id"`
	Timestamp time.Time `json:"timestamp"`
	Changes   string    `json:"changes,omitempty"`
}

// NewRecord 构造一条审计记录（uuid 作为记录标识）。
func NewRecord(entityID string, op Operation, id identity.Identity, at time.Time, changes string) Record {
	return Record{
		ID:        uuid.NewString(),
		EntityID:  entityID,
		Operation: op,
		ActorID:   id.ActorID,
		TenantID:  id.TenantID,
		Timestamp: at,
		Changes:   changes,
	}
}

// IStore 审计记录存储接口。
//
// 典型实现是独立的审计表/键空间（如 redistore），由仓储/服务在
// 写操作之后追加记录，查询时按实体维度拉取轨迹。
type IStore interface {
	// Save 保存一条审计记录。
	Save(ctx context.Context, record Record) error

	// ListByEntity 按实体 ID 查询审计记录（支持分页）。
	// entityID 通常是实体主键的字符串形式。
	ListByEntity(ctx context.Context, entityID string, offset, limit int) ([]Record, error)
}

// IPublisher 变更发布接口（可选扩展，见 natspub）。
type IPublisher interface {
	Publish(ctx context.Context, record Record) error
}

// MemoryStore 内存审计存储（测试与单机场景）
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]Record
}

// NewMemoryStore 创建内存审计存储。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]Record)}
}

func (s *MemoryStore) Save(ctx context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.EntityID] = append(s.records[record.EntityID], record)
	return nil
}

func (s *MemoryStore) ListByEntity(ctx context.Context, entityID string, offset, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.records[entityID]
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []Record{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]Record, end-offset)
	copy(out, all[offset:end])
	return out, nil
}
