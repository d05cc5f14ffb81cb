// Package natspub 把审计记录（含序列化变更快照）发布到 NATS 主题，
// 供外部审计日志消费方订阅。
package natspub

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/nats-io/nats.go"

	"godata/audit"
	"godata/logging"
)

// Config NATS 发布器配置。
type Config struct {
	URL           string
	SubjectPrefix string // 默认 "audit."
	Logger        logging.Logger
	Conn          *nats.Conn // 可注入已有连接
}

// Publisher 实现 audit.IPublisher。
//
// 主题按操作类型划分：<prefix><operation>，例如 audit.UPDATE；
// 消息体为审计记录的 JSON 编码。
type Publisher struct {
	cfg      Config
	logger   logging.Logger
	conn     *nats.Conn
	ownsConn bool
}

// New 创建发布器（Conn 为空时按 URL 建连）。
func New(cfg Config) (*Publisher, error) {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "audit."
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "audit.natspub"))
	}

	p := &Publisher{cfg: cfg, logger: cfg.Logger}
	if cfg.Conn != nil {
		p.conn = cfg.Conn
	} else {
		if cfg.URL == "" {
			return nil, errors.New("natspub: either Conn or URL is required")
		}
		conn, err := nats.Connect(cfg.URL)
		if err != nil {
			return nil, err
		}
		p.conn = conn
		p.ownsConn = true
	}
	return p, nil
}

var _ audit.IPublisher = (*Publisher)(nil)

// Publish 发布一条审计记录。
func (p *Publisher) Publish(ctx context.Context, record audit.Record) error {
	if p.conn == nil {
		return errors.New("natspub: publisher is closed")
	}
	data, err := marshalRecord(record)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.subjectName(record.Operation), data)
}

// Close 关闭自建的连接（注入的连接归调用方管理）。
func (p *Publisher) Close() {
	if p.ownsConn && p.conn != nil {
		p.conn.Close()
	}
	p.conn = nil
}

func (p *Publisher) subjectName(op audit.Operation) string {
	return p.cfg.SubjectPrefix + string(op)
}

func marshalRecord(record audit.Record) ([]byte, error) {
	return json.Marshal(record)
}
