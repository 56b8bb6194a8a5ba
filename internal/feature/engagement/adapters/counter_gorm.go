package adapters

import (
	"context"

	"gorm.io/gorm"

	"social_backend/internal/feature/engagement/domain/entity"
	"social_backend/internal/feature/engagement/usecase"
)

type counterColumn struct {
	table  string
	column string
}

// counterColumns は非正規化カウンタの一覧です。ここにない組み合わせは何もしません。
var counterColumns = map[entity.Kind]map[entity.TargetType]counterColumn{
	entity.KindLike: {
		entity.TargetPost:    {table: "posts", column: "likes_count"},
		entity.TargetComment: {table: "comments", column: "likes_count"},
	},
	entity.KindSave: {
		entity.TargetPost: {table: "posts", column: "saves_count"},
	},
}

// counterGorm は対象行のカウンタをアトミックに増減します。
type counterGorm struct {
	db *gorm.DB
}

var _ usecase.CounterUpdater = (*counterGorm)(nil)

// NewCounterGorm creates a counterGorm.
func NewCounterGorm(db *gorm.DB) *counterGorm {
	return &counterGorm{db: db}
}

// Adjust は1回のUPDATEで delta を加算します。カウンタは0未満になりません。
func (r *counterGorm) Adjust(ctx context.Context, kind entity.Kind, targetType entity.TargetType,
	targetID uint, delta int64) error {
	col, ok := counterColumns[kind][targetType]
	if !ok || delta == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Table(col.table).
		Where("id = ? AND "+col.column+" + ? >= 0", targetID, delta).
		UpdateColumn(col.column, gorm.Expr(col.column+" + ?", delta)).Error
}
