// Package usecase はengagement台帳（いいね・保存、集計、一覧）を実装します。
// カウンタ更新はベストエフォートです。
package usecase

import (
	"errors"
	"net/http"

	"social_backend/internal/feature/engagement/domain/entity"
	"social_backend/internal/platform/apperr"
)

// アダプター層のエラー。台帳が kind ごとに変換します。
var (
	// ErrRecordExists はユニークインデックスが挿入を拒否した場合に返されます。
	ErrRecordExists = errors.New("engagement record already exists")
	// ErrRecordNotFound は削除対象がない場合に返されます。
	ErrRecordNotFound = errors.New("engagement record not found")
)

var (
	// ErrTargetNotFound は投稿またはコメントが存在しない場合に返されます。
	ErrTargetNotFound = apperr.New(apperr.KindNotFound, "TARGET_NOT_FOUND", "target not found")

	// ErrInvalidTarget は kind を適用できない対象の種類に対して返されます。
	ErrInvalidTarget = apperr.New(apperr.KindValidation, "INVALID_TARGET", "unsupported target type")

	// ErrLikesDisabled は対象がいいねを受け付けない場合に返されます（400）。
	ErrLikesDisabled = apperr.New(apperr.KindForbidden, "LIKES_DISABLED",
		"likes are disabled for this target").WithStatus(http.StatusBadRequest)

	// ErrAlreadyLiked と ErrAlreadySaved も他のいいね失敗と同じく400です。
	ErrAlreadyLiked = apperr.New(apperr.KindConflict, "ALREADY_LIKED", "already liked").WithStatus(http.StatusBadRequest)
	ErrAlreadySaved = apperr.New(apperr.KindConflict, "ALREADY_SAVED", "already saved").WithStatus(http.StatusBadRequest)

	ErrLikeNotFound = apperr.New(apperr.KindNotFound, "LIKE_NOT_FOUND", "like not found")
	ErrSaveNotFound = apperr.New(apperr.KindNotFound, "SAVE_NOT_FOUND", "save not found")
)

func alreadyExists(kind entity.Kind) error {
	if kind == entity.KindSave {
		return ErrAlreadySaved
	}
	return ErrAlreadyLiked
}

func notFound(kind entity.Kind) error {
	if kind == entity.KindSave {
		return ErrSaveNotFound
	}
	return ErrLikeNotFound
}
