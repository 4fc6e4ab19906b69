package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"trivia-service/internal/domain"
	"trivia-service/internal/notify"
)

// DefaultResetTokenTTL is how long an issued reset token stays valid.
const DefaultResetTokenTTL = time.Hour

// PasswordResetService runs the reset flow as an ordered pipeline: issue a
// token, persist it on the user record, then dispatch the notification. Any
// step's failure short-circuits the rest.
type PasswordResetService struct {
	users    UserRepository
	notifier notify.Notifier
	logger   *zap.Logger
	tokenTTL time.Duration
	now      func() time.Time
}

func NewPasswordResetService(users UserRepository, notifier notify.Notifier, logger *zap.Logger) *PasswordResetService {
	return NewPasswordResetServiceWithClock(users, notifier, logger, time.Now)
}

// NewPasswordResetServiceWithClock is test-only for deterministic expiry.
func NewPasswordResetServiceWithClock(users UserRepository, notifier notify.Notifier, logger *zap.Logger, now func() time.Time) *PasswordResetService {
	return &PasswordResetService{
		users:    users,
		notifier: notifier,
		logger:   logger,
		tokenTTL: DefaultResetTokenTTL,
		now:      now,
	}
}

// IssueToken generates a reset token for the account, saves it with an
// expiry, and emails it to the user.
func (s *PasswordResetService) IssueToken(ctx context.Context, username string) error {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup user for reset: %w", err)
	}

	user.ResetToken = uuid.NewString()
	user.ResetExpires = s.now().Add(s.tokenTTL)
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Username, user.ResetToken); err != nil {
		return fmt.Errorf("send reset notification: %w", err)
	}
	s.logger.Info("password reset token issued", zap.String("user", user.ID))
	return nil
}

// CompleteReset exchanges a valid token for a new password and invalidates
// the token.
func (s *PasswordResetService) CompleteReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("%w: missing reset token", domain.ErrValidation)
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if s.now().After(user.ResetExpires) {
		return domain.ErrTokenExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.ResetToken = ""
	user.ResetExpires = time.Time{}
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("store new password: %w", err)
	}
	s.logger.Info("password reset completed", zap.String("user", user.ID))
	return nil
}
