package repo

import (
	"context"

	"godata/audit"
	"godata/errors"
)

// DetectChanges 探测实体相对持久化状态的变更并序列化为 JSON。
//
// 基线取追踪快照；实体未被追踪（NoTracking 读取或外部构造）时
// 回源数据库取持久行，且该次读取不登记快照 —— 探测是纯观察，
// 不得改变追踪状态。实体尚未落库时按"全新"处理：changed_only
// 模式返回全部属性，full 模式 OldData 为空。
func (r *Repo[T]) DetectChanges(ctx context.Context, e T, mode audit.Mode) (string, error) {
	persisted, err := r.persistedProps(ctx, e.GetID())
	if err != nil {
		return "", err
	}

	switch mode {
	case audit.ModeFull:
		return audit.FullComparison(e, persisted).Serialize()
	case audit.ModeChangedOnly:
		return audit.SerializeChanged(audit.ChangedOnly(e, persisted))
	default:
		return "", errors.NewError(errors.ErrCodeInvalidInput, "unknown change detection mode: "+string(mode))
	}
}

// persistedProps 返回实体的持久化属性基线；实体不存在时返回 nil。
func (r *Repo[T]) persistedProps(ctx context.Context, id int64) (map[string]any, error) {
	if id <= 0 {
		return nil, nil
	}
	if snap := r.tracker.snapshot(id); snap != nil {
		return snap, nil
	}

	// 回源读取时绕过 capture，保持观察者语义
	b := r.sqlb.Select(r.columns...).From(r.table).Where("id = ?", id)
	stored := r.factory()
	if err := b.QueryRow(ctx).Scan(stored.Dest()...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.ErrCodeDatabase, "failed to load persisted record")
	}
	return stored.Properties(), nil
}
