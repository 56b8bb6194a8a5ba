package entity

import "time"

// Post はpostsテーブルのうち、台帳が読みカウンタ更新が書く列だけを表します。
// 投稿本文はこのサービスの外にあります。
type Post struct {
	ID         uint  `gorm:"primaryKey"`
	AuthorID   uint  `gorm:"index;not null"`
	AllowLikes bool  `gorm:"not null"`
	LikesCount int64 `gorm:"not null;default:0"`
	SavesCount int64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

// Comment はcommentsテーブルのうち台帳が必要とする列です。
type Comment struct {
	ID         uint  `gorm:"primaryKey"`
	PostID     uint  `gorm:"index;not null"`
	AuthorID   uint  `gorm:"index;not null"`
	LikesCount int64 `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

// Target はエンゲージメントを記録する前に台帳が確認する対象の情報です。
type Target struct {
	Type       TargetType
	ID         uint
	AllowLikes bool
}

// Allows は対象が kind のエンゲージメントを受け付けるかを返します。
func (t *Target) Allows(kind Kind) bool {
	if !kind.Permits(t.Type) {
		return false
	}
	if kind == KindLike {
		return t.AllowLikes
	}
	return true
}

// TableName returns the table name for GORM.
func (Post) TableName() string { return "posts" }

// TableName returns the table name for GORM.
func (Comment) TableName() string { return "comments" }
