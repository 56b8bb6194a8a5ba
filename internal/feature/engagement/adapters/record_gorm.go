// Package adapters はengagementリポジトリのGORM実装を提供します。
package adapters

import (
	"context"

	"gorm.io/gorm"

	"social_backend/internal/feature/engagement/domain/entity"
	"social_backend/internal/feature/engagement/usecase"
	platformdb "social_backend/internal/platform/db"
)

// recordGorm はengagement_recordsテーブルにレコードを保存します。
type recordGorm struct {
	db *gorm.DB
}

var _ usecase.RecordRepository = (*recordGorm)(nil)

// NewRecordGorm creates a recordGorm.
func NewRecordGorm(db *gorm.DB) *recordGorm {
	return &recordGorm{db: db}
}

func byKey(db *gorm.DB, key entity.RecordKey) *gorm.DB {
	return db.Where("actor_id = ? AND kind = ? AND target_type = ? AND target_id = ?",
		key.ActorID, key.Kind, key.TargetType, key.TargetID)
}

func byTarget(db *gorm.DB, kind entity.Kind, targetType entity.TargetType, targetID uint) *gorm.DB {
	return db.Where("kind = ? AND target_type = ? AND target_id = ?", kind, targetType, targetID)
}

// Create は r を挿入します。同時挿入はユニークインデックスで決着します。
func (r *recordGorm) Create(ctx context.Context, rec *entity.Record) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if platformdb.IsDuplicateKey(err) {
			return usecase.ErrRecordExists
		}
		return err
	}
	return nil
}

// Delete は一致するレコードを削除します。
func (r *recordGorm) Delete(ctx context.Context, key entity.RecordKey) error {
	result := byKey(r.db.WithContext(ctx), key).Delete(&entity.Record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return usecase.ErrRecordNotFound
	}
	return nil
}

// Exists reports whether the matching record is live.
func (r *recordGorm) Exists(ctx context.Context, key entity.RecordKey) (bool, error) {
	var count int64
	err := byKey(r.db.WithContext(ctx).Model(&entity.Record{}), key).Limit(1).Count(&count).Error
	return count > 0, err
}

// Count は対象のレコード件数を返します。
func (r *recordGorm) Count(ctx context.Context, kind entity.Kind, targetType entity.TargetType, targetID uint) (int64, error) {
	var count int64
	err := byTarget(r.db.WithContext(ctx).Model(&entity.Record{}), kind, targetType, targetID).Count(&count).Error
	return count, err
}

// ListByTarget は対象のレコードを新しい順にページ単位で返します。
func (r *recordGorm) ListByTarget(ctx context.Context, kind entity.Kind, targetType entity.TargetType,
	targetID uint, page usecase.Page) ([]entity.Record, int64, error) {
	return r.list(byTarget(r.db.WithContext(ctx).Model(&entity.Record{}), kind, targetType, targetID), page)
}

// ListByActor はアクターのレコードを新しい順にページ単位で返します。
func (r *recordGorm) ListByActor(ctx context.Context, kind entity.Kind, actorID uint,
	page usecase.Page) ([]entity.Record, int64, error) {
	q := r.db.WithContext(ctx).Model(&entity.Record{}).Where("actor_id = ? AND kind = ?", actorID, kind)
	return r.list(q, page)
}

func (r *recordGorm) list(q *gorm.DB, page usecase.Page) ([]entity.Record, int64, error) {
	// Session で条件を固定し、Count と Find で共有できるようにする
	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	records := []entity.Record{}
	if total == 0 {
		return records, 0, nil
	}
	err := q.Order("created_at DESC").Order("id DESC").
		Offset(page.Offset()).Limit(page.Limit).
		Find(&records).Error
	return records, total, err
}
