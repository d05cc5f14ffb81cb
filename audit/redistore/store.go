// Package redistore 提供基于 Redis 的审计记录存储。
//
// 每个实体一个 LIST 键（前缀 + entityID），记录按时间顺序 RPUSH 追加，
// 查询用 LRANGE 做偏移分页。记录以 JSON 编码，键空间由 KeyPrefix 隔离。
package redistore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"godata/audit"
	"godata/logging"
)

// client 捕获本存储依赖的 go-redis 命令子集（便于测试替身）。
type client interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
	Close() error
}

// Config Redis 审计存储配置
type Config struct {
	// Client 可直接注入已有客户端；为空时用 Addr 等字段自建
	Client    redis.UniversalClient
	Addr      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string // 默认 "audit:"
	Logger    logging.Logger
}

// Store 基于 Redis LIST 的审计记录存储
type Store struct {
	cfg       Config
	client    client
	ownClient bool
	logger    logging.Logger
}

// New 创建 Redis 审计存储。
func New(cfg Config) (*Store, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "audit:"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.GetLogger()
	}

	var c redis.UniversalClient
	ownClient := false
	if cfg.Client != nil {
		c = cfg.Client
	} else {
		if cfg.Addr == "" {
			return nil, fmt.Errorf("redistore: either Client or Addr is required")
		}
		c = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		ownClient = true
	}

	return &Store{
		cfg:       cfg,
		client:    c,
		ownClient: ownClient,
		logger:    logger,
	}, nil
}

var _ audit.IStore = (*Store)(nil)

func (s *Store) key(entityID string) string {
	return s.cfg.KeyPrefix + entityID
}

// Save 追加一条审计记录。
func (s *Store) Save(ctx context.Context, record audit.Record) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return fmt.Errorf("redistore: encode record: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(record.EntityID), payload).Err(); err != nil {
		return fmt.Errorf("redistore: rpush: %w", err)
	}
	return nil
}

// ListByEntity 按实体拉取审计轨迹（offset/limit 分页，时间顺序）。
func (s *Store) ListByEntity(ctx context.Context, entityID string, offset, limit int) ([]audit.Record, error) {
	if offset < 0 {
		offset = 0
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset+limit) - 1
	}
	raw, err := s.client.LRange(ctx, s.key(entityID), int64(offset), stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redistore: lrange: %w", err)
	}
	records := make([]audit.Record, 0, len(raw))
	for _, item := range raw {
		rec, err := decodeRecord(item)
		if err != nil {
			// 损坏的单条记录跳过，不让整条轨迹不可读
			s.logger.Warn(ctx, "skipping undecodable audit record",
				logging.Layer("redistore"),
				logging.String("entity_id", entityID),
				logging.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close 关闭自建的客户端（注入的客户端归调用方管理）。
func (s *Store) Close() error {
	if s.ownClient {
		return s.client.Close()
	}
	return nil
}

func encodeRecord(record audit.Record) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeRecord(raw string) (audit.Record, error) {
	var rec audit.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return audit.Record{}, err
	}
	return rec, nil
}
