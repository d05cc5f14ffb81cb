package repo

import (
	"context"
	ers "errors"
	"time"

	"godata/audit"
	"godata/data/query"
	"godata/domain"
	"godata/errors"
	"godata/identity"
	"godata/logging"
)

// Add 新增实体。
//
// 主键已存在时不插入重复行，直接返回库中现有记录（幂等保存）；
// 主键为零值时按自增列处理，插入后回写生成的 ID。
func (r *Repo[T]) Add(ctx context.Context, e T, actor identity.Identity) (T, error) {
	var zero T
	if err := e.Validate(); err != nil {
		return zero, errors.WrapError(err, errors.ErrCodeValidation, "entity validation failed")
	}

	if e.GetID() > 0 {
		existing, err := r.getOne(ctx, e.GetID(), true)
		if err == nil {
			r.logger.Debug(ctx, "record already exists, returning stored row",
				logging.Layer("repository"), logging.Op("add"),
				logging.Int64("entity_id", e.GetID()))
			return existing, nil
		}
		if !ers.Is(err, domain.ErrEntityNotFound) {
			return zero, err
		}
	}

	now := time.Now().UTC()
	r.stamper.Stamp(ctx, e, actor, now)

	cols, vals := r.columns, e.Values()
	if e.GetID() == 0 {
		// 首列约定为 "id"，自增时交给数据库生成
		cols, vals = cols[1:], vals[1:]
	}
	res, err := r.sqlb.InsertInto(r.table).Columns(cols...).Values(vals...).Exec(ctx)
	if err != nil {
		return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to insert record")
	}
	if e.GetID() == 0 {
		insertID, err := res.LastInsertId()
		if err != nil {
			return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to read insert id")
		}
		e.SetID(insertID)
	}

	r.capture(e)

	changes, _ := audit.SerializeChanged(e.Properties())
	r.saveAudit(ctx, e.GetID(), audit.OpCreate, actor, changes)
	return e, nil
}

// Update 全量更新实体（按主键替换除 id 外的全部列）。
func (r *Repo[T]) Update(ctx context.Context, e T, actor identity.Identity) (T, error) {
	var zero T
	if e.GetID() <= 0 {
		return zero, domain.ErrInvalidID
	}
	if err := e.Validate(); err != nil {
		return zero, errors.WrapError(err, errors.ErrCodeValidation, "entity validation failed")
	}

	// 盖章会刷新 updated_at，变更集须在盖章前与快照比对
	changed := audit.ChangedOnly(e, r.tracker.snapshot(e.GetID()))

	now := time.Now().UTC()
	r.stamper.Stamp(ctx, e, actor, now)

	b := r.sqlb.Update(r.table)
	vals := e.Values()
	for i, col := range r.columns {
		if col == query.ColumnID {
			continue
		}
		b = b.Set(col, vals[i])
	}
	res, err := b.Where("id = ?", e.GetID()).Exec(ctx)
	if err != nil {
		return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to update record")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return zero, domain.ErrEntityNotFound
	}

	r.capture(e)

	changes, _ := audit.SerializeChanged(changed)
	r.saveAudit(ctx, e.GetID(), audit.OpUpdate, actor, changes)
	return e, nil
}

// SoftDelete 软删除（标记 is_deleted，保留行数据）。
func (r *Repo[T]) SoftDelete(ctx context.Context, id int64, actor identity.Identity) error {
	e, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	r.stamper.MarkDeleted(ctx, e, actor.ActorID, now)

	_, err = r.sqlb.Update(r.table).
		Set(query.ColumnIsDeleted, true).
		Set(query.ColumnDeletedAt, now).
		Set(query.ColumnDeletedBy, actor.ActorID).
		Set(query.ColumnUpdatedAt, now).
		Set(query.ColumnUpdatedBy, actor.ActorID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "failed to soft delete record")
	}

	r.tracker.discard(id)
	r.saveAudit(ctx, id, audit.OpSoftDelete, actor, "")
	return nil
}

// Restore 恢复软删除的实体。
func (r *Repo[T]) Restore(ctx context.Context, id int64, actor identity.Identity) (T, error) {
	var zero T
	e, err := r.GetAny(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := e.Restore(); err != nil {
		return zero, err
	}

	now := time.Now().UTC()
	e.SetUpdatedInfo(actor.ActorID, now)

	_, err = r.sqlb.Update(r.table).
		Set(query.ColumnIsDeleted, false).
		Set(query.ColumnDeletedAt, nil).
		Set(query.ColumnDeletedBy, nil).
		Set(query.ColumnUpdatedAt, now).
		Set(query.ColumnUpdatedBy, actor.ActorID).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return zero, errors.WrapError(err, errors.ErrCodeDatabase, "failed to restore record")
	}

	r.capture(e)
	r.saveAudit(ctx, id, audit.OpRestore, actor, "")
	return e, nil
}

// HardDelete 物理删除行（绕过软删机制，审计轨迹仍会登记）。
func (r *Repo[T]) HardDelete(ctx context.Context, id int64, actor identity.Identity) error {
	if id <= 0 {
		return domain.ErrInvalidID
	}
	res, err := r.sqlb.DeleteFrom(r.table).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeDatabase, "failed to delete record")
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrEntityNotFound
	}

	r.tracker.discard(id)
	r.saveAudit(ctx, id, audit.OpHardDelete, actor, "")
	return nil
}

// AddAll 批量新增，任一条失败即中止并返回错误。
func (r *Repo[T]) AddAll(ctx context.Context, items []T, actor identity.Identity) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, e := range items {
		saved, err := r.Add(ctx, e, actor)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

// UpdateAll 批量更新，任一条失败即中止并返回错误。
func (r *Repo[T]) UpdateAll(ctx context.Context, items []T, actor identity.Identity) ([]T, error) {
	out := make([]T, 0, len(items))
	for _, e := range items {
		saved, err := r.Update(ctx, e, actor)
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

// DeleteAll 批量软删除，任一条失败即中止并返回错误。
func (r *Repo[T]) DeleteAll(ctx context.Context, ids []int64, actor identity.Identity) error {
	for _, id := range ids {
		if err := r.SoftDelete(ctx, id, actor); err != nil {
			return err
		}
	}
	return nil
}
