package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"social_backend/internal/feature/engagement/domain/entity"
)

// Stats は対象の正確な集計です。
type Stats struct {
	Total      int64
	HasEngaged bool
}

// Listing はレコード一覧の1ページです。
type Listing struct {
	Records []entity.Record
	Total   int64
	Page    Page
}

// Ledger はいいねと保存を記録します。レコードテーブルが正であり、
// 対象のカウンタは書き込みごとに更新されるキャッシュです。
type Ledger struct {
	records  RecordRepository
	targets  TargetRepository
	counters CounterUpdater
	now      func() time.Time
}

// NewLedger はLedgerを生成します。
func NewLedger(records RecordRepository, targets TargetRepository, counters CounterUpdater) *Ledger {
	return &Ledger{records: records, targets: targets, counters: counters, now: time.Now}
}

// Engage はアクターと対象の kind の関係を作成します。
func (l *Ledger) Engage(ctx context.Context, kind entity.Kind, actorID uint,
	targetType entity.TargetType, targetID uint) (*entity.Record, error) {
	if !kind.Permits(targetType) {
		return nil, ErrInvalidTarget
	}

	target, err := l.targets.Find(ctx, targetType, targetID)
	if err != nil {
		return nil, err
	}
	if !target.Allows(kind) {
		return nil, ErrLikesDisabled
	}

	key := entity.RecordKey{ActorID: actorID, Kind: kind, TargetType: targetType, TargetID: targetID}
	exists, err := l.records.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to check engagement: %w", err)
	}
	if exists {
		return nil, alreadyExists(kind)
	}

	record := &entity.Record{
		ActorID:    actorID,
		Kind:       kind,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  l.now(),
	}
	if err := l.records.Create(ctx, record); err != nil {
		// 同時リクエストの敗者はユニーク制約で弾かれる
		if errors.Is(err, ErrRecordExists) {
			return nil, alreadyExists(kind)
		}
		return nil, fmt.Errorf("failed to create engagement: %w", err)
	}

	l.adjust(ctx, kind, targetType, targetID, 1)
	return record, nil
}

// Disengage はアクターと対象の kind の関係を削除します。
func (l *Ledger) Disengage(ctx context.Context, kind entity.Kind, actorID uint,
	targetType entity.TargetType, targetID uint) error {
	if !kind.Permits(targetType) {
		return ErrInvalidTarget
	}

	key := entity.RecordKey{ActorID: actorID, Kind: kind, TargetType: targetType, TargetID: targetID}
	if err := l.records.Delete(ctx, key); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return notFound(kind)
		}
		return fmt.Errorf("failed to delete engagement: %w", err)
	}

	l.adjust(ctx, kind, targetType, targetID, -1)
	return nil
}

// Stats は対象のレコードを数えます。actorID は任意で、指定時は
// そのアクターのレコードがあるかを HasEngaged に入れます。
func (l *Ledger) Stats(ctx context.Context, kind entity.Kind, targetType entity.TargetType,
	targetID uint, actorID *uint) (*Stats, error) {
	if !kind.Permits(targetType) {
		return nil, ErrInvalidTarget
	}
	if _, err := l.targets.Find(ctx, targetType, targetID); err != nil {
		return nil, err
	}

	total, err := l.records.Count(ctx, kind, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to count engagements: %w", err)
	}
	stats := &Stats{Total: total}
	if actorID != nil {
		key := entity.RecordKey{ActorID: *actorID, Kind: kind, TargetType: targetType, TargetID: targetID}
		if stats.HasEngaged, err = l.records.Exists(ctx, key); err != nil {
			return nil, fmt.Errorf("failed to check engagement: %w", err)
		}
	}
	return stats, nil
}

// ListForTarget returns who engaged with the target, newest first.
func (l *Ledger) ListForTarget(ctx context.Context, kind entity.Kind, targetType entity.TargetType,
	targetID uint, page Page) (*Listing, error) {
	if !kind.Permits(targetType) {
		return nil, ErrInvalidTarget
	}
	records, total, err := l.records.ListByTarget(ctx, kind, targetType, targetID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	return &Listing{Records: records, Total: total, Page: page}, nil
}

// ListForActor returns the actor's records of kind, newest first.
func (l *Ledger) ListForActor(ctx context.Context, kind entity.Kind, actorID uint, page Page) (*Listing, error) {
	records, total, err := l.records.ListByActor(ctx, kind, actorID, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	return &Listing{Records: records, Total: total, Page: page}, nil
}

// adjust はカウンタを更新します。失敗はログのみで、Stats は台帳を直接読みます。
func (l *Ledger) adjust(ctx context.Context, kind entity.Kind, targetType entity.TargetType, targetID uint, delta int64) {
	if err := l.counters.Adjust(ctx, kind, targetType, targetID, delta); err != nil {
		slog.Warn("failed to adjust engagement counter",
			"kind", kind, "target_type", targetType, "target_id", targetID, "delta", delta, "error", err)
	}
}
