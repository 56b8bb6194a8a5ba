// Package response はginハンドラー向けにapperrベースのエラーボディを書き込みます。
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"social_backend/internal/platform/apperr"
	"social_backend/internal/platform/http/middleware"
)

// Error は err をログに出し、{code, error} ボディを書き込みます。
// クライアントエラーはWarn、それ以外はErrorで記録します。
func Error(c *gin.Context, msg string, err error, attrs ...any) {
	status, body := apperr.Response(err)
	attrs = append(attrs, "error", err, "status", status, "remote_addr", c.ClientIP())
	if id := middleware.GetRequestID(c); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	if status >= http.StatusInternalServerError {
		slog.Error(msg, attrs...)
	} else {
		slog.Warn(msg, attrs...)
	}
	c.AbortWithStatusJSON(status, body)
}

// BindError はバインド失敗時に400 VALIDATION_FAILEDを書き込みます。
func BindError(c *gin.Context, msg string, err error) {
	Error(c, msg, apperr.Invalid(err.Error()))
}
