package usecase

import (
	"context"

	"social_backend/internal/feature/engagement/domain/entity"
)

// RecordRepository はエンゲージメントレコードの永続化を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type RecordRepository interface {
	// Create は r を挿入します。ユニークインデックスに拒否されたら ErrRecordExists。
	Create(ctx context.Context, r *entity.Record) error

	// Delete は一致するレコードを削除します。なければ ErrRecordNotFound。
	Delete(ctx context.Context, key entity.RecordKey) error

	// Exists reports whether the matching record is live.
	Exists(ctx context.Context, key entity.RecordKey) (bool, error)

	// Count returns the number of live records of kind for the target.
	Count(ctx context.Context, kind entity.Kind, targetType entity.TargetType, targetID uint) (int64, error)

	// ListByTarget returns records for the target, newest first, and the total.
	ListByTarget(ctx context.Context, kind entity.Kind, targetType entity.TargetType, targetID uint,
		page Page) ([]entity.Record, int64, error)

	// ListByActor returns the actor's records of kind, newest first, and the total.
	ListByActor(ctx context.Context, kind entity.Kind, actorID uint, page Page) ([]entity.Record, int64, error)
}

// TargetRepository は投稿とコメントを検索します。
type TargetRepository interface {
	// Find returns ErrTargetNotFound when the target does not exist.
	Find(ctx context.Context, targetType entity.TargetType, targetID uint) (*entity.Target, error)
}

// CounterUpdater は対象の非正規化カウンタに delta を適用します。
// kind のカウンタを持たない対象では何もしません。
type CounterUpdater interface {
	Adjust(ctx context.Context, kind entity.Kind, targetType entity.TargetType, targetID uint, delta int64) error
}
