// Package handler はengagement台帳をHTTPで公開します。
// /likes は投稿とコメント、/saveposts は保存した投稿を扱います。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_backend/internal/feature/engagement/domain/entity"
	"social_backend/internal/feature/engagement/transport/http/dto"
	"social_backend/internal/feature/engagement/usecase"
	"social_backend/internal/platform/apperr"
	"social_backend/internal/platform/http/response"
	jwtmw "social_backend/internal/platform/jwt"
)

// Ledger はハンドラーが使うengagementユースケースを定義します。
// Goの慣例に従い、インターフェースはコンシューマー（handler）が定義します。
type Ledger interface {
	Engage(ctx context.Context, kind entity.Kind, actorID uint, targetType entity.TargetType, targetID uint) (*entity.Record, error)
	Disengage(ctx context.Context, kind entity.Kind, actorID uint, targetType entity.TargetType, targetID uint) error
	Stats(ctx context.Context, kind entity.Kind, targetType entity.TargetType, targetID uint, actorID *uint) (*usecase.Stats, error)
	ListForTarget(ctx context.Context, kind entity.Kind, targetType entity.TargetType, targetID uint, page usecase.Page) (*usecase.Listing, error)
	ListForActor(ctx context.Context, kind entity.Kind, actorID uint, page usecase.Page) (*usecase.Listing, error)
}

var errUnauthenticated = apperr.New(apperr.KindUnauthorized, "MISSING_TOKEN", "missing bearer token")

// EngagementHandler はいいね・保存のリクエストを処理します。
type EngagementHandler struct {
	ledger Ledger
}

// NewEngagementHandler はEngagementHandlerを生成します。
func NewEngagementHandler(ledger Ledger) *EngagementHandler {
	return &EngagementHandler{ledger: ledger}
}

// Like handles POST /likes/like.
func (h *EngagementHandler) Like(c *gin.Context) {
	var req dto.LikeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "like validation failed", err)
		return
	}
	h.engage(c, entity.KindLike, entity.TargetType(req.TargetType), req.TargetID)
}

// Unlike handles DELETE /likes/unlike/:targetType/:targetId.
func (h *EngagementHandler) Unlike(c *gin.Context) {
	var uri dto.TargetURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "unlike validation failed", err)
		return
	}
	h.disengage(c, entity.KindLike, entity.TargetType(uri.TargetType), uri.TargetID)
}

// LikeStats handles GET /likes/stats/:targetType/:targetId.
func (h *EngagementHandler) LikeStats(c *gin.Context) {
	var uri dto.TargetURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "like stats validation failed", err)
		return
	}
	h.stats(c, entity.KindLike, entity.TargetType(uri.TargetType), uri.TargetID)
}

// ListLikes handles GET /likes/:targetType/:targetId.
func (h *EngagementHandler) ListLikes(c *gin.Context) {
	var uri dto.TargetURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "list likes validation failed", err)
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	listing, err := h.ledger.ListForTarget(c.Request.Context(), entity.KindLike,
		entity.TargetType(uri.TargetType), uri.TargetID, page)
	if err != nil {
		response.Error(c, "list likes failed", err)
		return
	}
	c.JSON(http.StatusOK, toListRes(listing))
}

// Save handles POST /saveposts/save.
func (h *EngagementHandler) Save(c *gin.Context) {
	var req dto.SaveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, "save validation failed", err)
		return
	}
	h.engage(c, entity.KindSave, entity.TargetPost, req.PostID)
}

// Unsave handles DELETE /saveposts/unsave/:postId.
func (h *EngagementHandler) Unsave(c *gin.Context) {
	var uri dto.PostURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "unsave validation failed", err)
		return
	}
	h.disengage(c, entity.KindSave, entity.TargetPost, uri.PostID)
}

// SaveStats handles GET /saveposts/stats/:postId.
func (h *EngagementHandler) SaveStats(c *gin.Context) {
	var uri dto.PostURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BindError(c, "save stats validation failed", err)
		return
	}
	h.stats(c, entity.KindSave, entity.TargetPost, uri.PostID)
}

// ListSaved handles GET /saveposts/list（呼び出し元が保存した投稿）.
func (h *EngagementHandler) ListSaved(c *gin.Context) {
	actorID, ok := jwtmw.UserID(c)
	if !ok {
		response.Error(c, "list saved rejected", errUnauthenticated)
		return
	}
	page, ok := bindPage(c)
	if !ok {
		return
	}
	listing, err := h.ledger.ListForActor(c.Request.Context(), entity.KindSave, actorID, page)
	if err != nil {
		response.Error(c, "list saved failed", err, "actor_id", actorID)
		return
	}
	c.JSON(http.StatusOK, toListRes(listing))
}

func (h *EngagementHandler) engage(c *gin.Context, kind entity.Kind, targetType entity.TargetType, targetID uint) {
	actorID, ok := jwtmw.UserID(c)
	if !ok {
		response.Error(c, "engage rejected", errUnauthenticated)
		return
	}
	rec, err := h.ledger.Engage(c.Request.Context(), kind, actorID, targetType, targetID)
	if err != nil {
		response.Error(c, "engage failed", err,
			"kind", kind, "actor_id", actorID, "target_type", targetType, "target_id", targetID)
		return
	}
	slog.Info("engagement created", "kind", kind, "actor_id", actorID,
		"target_type", targetType, "target_id", targetID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, toRecordRes(rec))
}

func (h *EngagementHandler) disengage(c *gin.Context, kind entity.Kind, targetType entity.TargetType, targetID uint) {
	actorID, ok := jwtmw.UserID(c)
	if !ok {
		response.Error(c, "disengage rejected", errUnauthenticated)
		return
	}
	if err := h.ledger.Disengage(c.Request.Context(), kind, actorID, targetType, targetID); err != nil {
		response.Error(c, "disengage failed", err,
			"kind", kind, "actor_id", actorID, "target_type", targetType, "target_id", targetID)
		return
	}
	slog.Info("engagement removed", "kind", kind, "actor_id", actorID,
		"target_type", targetType, "target_id", targetID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.MessageRes{Message: "removed"})
}

func (h *EngagementHandler) stats(c *gin.Context, kind entity.Kind, targetType entity.TargetType, targetID uint) {
	var actor *uint
	if id, ok := jwtmw.UserID(c); ok {
		actor = &id
	}
	stats, err := h.ledger.Stats(c.Request.Context(), kind, targetType, targetID, actor)
	if err != nil {
		response.Error(c, "stats failed", err, "kind", kind, "target_type", targetType, "target_id", targetID)
		return
	}
	res := dto.StatsRes{TargetType: string(targetType), TargetID: targetID, Total: stats.Total}
	if actor != nil {
		res.HasEngaged = &stats.HasEngaged
	}
	c.JSON(http.StatusOK, res)
}

func bindPage(c *gin.Context) (usecase.Page, bool) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, "page validation failed", err)
		return usecase.Page{}, false
	}
	return usecase.NewPage(q.Page, q.Limit), true
}

func toRecordRes(r *entity.Record) dto.RecordRes {
	return dto.RecordRes{
		ID:         r.ID,
		ActorID:    r.ActorID,
		TargetType: string(r.TargetType),
		TargetID:   r.TargetID,
		CreatedAt:  r.CreatedAt,
	}
}

func toListRes(l *usecase.Listing) dto.ListRes {
	items := make([]dto.RecordRes, len(l.Records))
	for i := range l.Records {
		items[i] = toRecordRes(&l.Records[i])
	}
	return dto.ListRes{Items: items, Total: l.Total, Page: l.Page.Number, Limit: l.Page.Limit}
}
