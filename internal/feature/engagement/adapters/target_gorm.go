package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"social_backend/internal/feature/engagement/domain/entity"
	"social_backend/internal/feature/engagement/usecase"
)

// targetGorm は投稿とコメントを読み取ります。
type targetGorm struct {
	db *gorm.DB
}

var _ usecase.TargetRepository = (*targetGorm)(nil)

// NewTargetGorm creates a targetGorm.
func NewTargetGorm(db *gorm.DB) *targetGorm {
	return &targetGorm{db: db}
}

// Find は対象が存在しなければ usecase.ErrTargetNotFound を返します。
// コメントは常にいいねを受け付けます。
func (r *targetGorm) Find(ctx context.Context, targetType entity.TargetType, targetID uint) (*entity.Target, error) {
	db := r.db.WithContext(ctx)
	switch targetType {
	case entity.TargetPost:
		var p entity.Post
		if err := db.Select("id", "allow_likes").First(&p, targetID).Error; err != nil {
			return nil, translateNotFound(err)
		}
		return &entity.Target{Type: targetType, ID: p.ID, AllowLikes: p.AllowLikes}, nil
	case entity.TargetComment:
		var c entity.Comment
		if err := db.Select("id").First(&c, targetID).Error; err != nil {
			return nil, translateNotFound(err)
		}
		return &entity.Target{Type: targetType, ID: c.ID, AllowLikes: true}, nil
	}
	return nil, usecase.ErrInvalidTarget
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usecase.ErrTargetNotFound
	}
	return err
}
