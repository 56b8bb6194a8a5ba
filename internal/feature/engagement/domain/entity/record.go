// Package entity はengagementフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Kind はアクターと対象の関係（いいね・保存）です。
type Kind string

const (
	KindLike Kind = "like"
	KindSave Kind = "save"
)

// TargetType はエンゲージメントの対象の種類です。
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetComment TargetType = "comment"
)

// ParseTargetType は s に対応するTargetTypeと、既知の種類かどうかを返します。
func ParseTargetType(s string) (TargetType, bool) {
	switch TargetType(s) {
	case TargetPost, TargetComment:
		return TargetType(s), true
	}
	return "", false
}

// Permits は kind を種類 t の対象に適用できるかを返します。
// 保存は投稿のみです。
func (k Kind) Permits(t TargetType) bool {
	switch k {
	case KindLike:
		return t == TargetPost || t == TargetComment
	case KindSave:
		return t == TargetPost
	}
	return false
}

// Record は1件のいいね、または保存です。
// (actor, kind, target type, target id) ごとに最大1件で、複合ユニークインデックスで保証します。
type Record struct {
	ID         uint       `gorm:"primaryKey"`
	ActorID    uint       `gorm:"not null;uniqueIndex:idx_engagement_unique,priority:1;index:idx_engagement_actor,priority:1"`
	Kind       Kind       `gorm:"size:16;not null;uniqueIndex:idx_engagement_unique,priority:2;index:idx_engagement_actor,priority:2;index:idx_engagement_target,priority:1"`
	TargetType TargetType `gorm:"size:16;not null;uniqueIndex:idx_engagement_unique,priority:3;index:idx_engagement_target,priority:2"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_engagement_unique,priority:4;index:idx_engagement_target,priority:3"`
	CreatedAt  time.Time  `gorm:"index"`
}

// TableName returns the table name for GORM.
func (Record) TableName() string {
	return "engagement_records"
}

// RecordKey はレコードを一意に特定するキーです。
type RecordKey struct {
	ActorID    uint
	Kind       Kind
	TargetType TargetType
	TargetID   uint
}
