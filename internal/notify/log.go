package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes reset tokens to the log instead of sending mail. Used
// when no SMTP relay is configured (tests, local dev).
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendPasswordReset(_ context.Context, recipient, token string) error {
	s.logger.Info("password reset token (mail disabled)",
		zap.String("recipient", recipient),
		zap.String("token", token))
	return nil
}
