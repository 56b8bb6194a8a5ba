// Package dto はengagementエンドポイントのリクエスト・レスポンスを定義します。
package dto

import "time"

// LikeReq is the body of POST /likes/like.
type LikeReq struct {
	TargetType string `json:"target_type" binding:"required,oneof=post comment"`
	TargetID   uint   `json:"target_id" binding:"required,min=1"`
}

// SaveReq is the body of POST /saveposts/save.
type SaveReq struct {
	PostID uint `json:"post_id" binding:"required,min=1"`
}

// TargetURI binds /:targetType/:targetId.
type TargetURI struct {
	TargetType string `uri:"targetType" binding:"required,oneof=post comment"`
	TargetID   uint   `uri:"targetId" binding:"required,min=1"`
}

// PostURI binds /:postId.
type PostURI struct {
	PostID uint `uri:"postId" binding:"required,min=1"`
}

// PageQuery binds ?page=&limit=.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// RecordRes is one engagement.
type RecordRes struct {
	ID         uint      `json:"id"`
	ActorID    uint      `json:"actor_id"`
	TargetType string    `json:"target_type"`
	TargetID   uint      `json:"target_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatsRes は集計エンドポイントのレスポンスです。
// 未認証の呼び出しでは HasEngaged を省略します。
type StatsRes struct {
	TargetType string `json:"target_type"`
	TargetID   uint   `json:"target_id"`
	Total      int64  `json:"total"`
	HasEngaged *bool  `json:"has_engaged,omitempty"`
}

// ListRes はエンゲージメント一覧の1ページです。
type ListRes struct {
	Items []RecordRes `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// MessageRes is a plain acknowledgement.
type MessageRes struct {
	Message string `json:"message"`
}
