package di

import (
	authadapters "social_backend/internal/feature/auth/adapters"
	authentity "social_backend/internal/feature/auth/domain/entity"
	engagemententity "social_backend/internal/feature/engagement/domain/entity"
	otpentity "social_backend/internal/feature/otp/domain/entity"
)

// Models はAutoMigrateが管理する全テーブルの一覧です。
func Models() []any {
	return []any{
		&authentity.Account{},
		&authentity.PendingRegistration{},
		&authadapters.SessionModel{},
		&otpentity.VerificationCode{},
		&engagemententity.Post{},
		&engagemententity.Comment{},
		&engagemententity.Record{},
	}
}
