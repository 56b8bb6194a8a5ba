// Package mail はメール送信を提供します。
package mail

import (
	"context"
	"log/slog"
)

// Message は送信メールです。Body には秘密情報が含まれるためログに出しません。
type Message struct {
	To      string
	Subject string
	Body    string
}

// LogMailer は実際に送信せず、構造化ログに記録します。
// 開発環境で実トランスポートの代わりに使います。
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer はLogMailerを生成します。logger が nil なら slog.Default() を使います。
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send はマスクした宛先と件名をログに出します。
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "mail queued", "to", MaskAddress(msg.To), "subject", msg.Subject, "body_len", len(msg.Body))
	return nil
}
