package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

// fixedClockPast pins the service clock far enough back that issued tokens
// are already expired by wall-clock time.
func fixedClockPast() func() time.Time {
	past := time.Now().Add(-48 * time.Hour)
	return func() time.Time { return past }
}

type fakeNotifier struct {
	sent []string // recipient:token
	fail bool
}

func (f *fakeNotifier) SendPasswordReset(_ context.Context, recipient, token string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.sent = append(f.sent, recipient+":"+token)
	return nil
}

func newResetFixture(t *testing.T) (*app.PasswordResetService, *app.AuthService, *memory.UserRepository, *fakeNotifier) {
	t.Helper()
	users := memory.NewUserRepository()
	notifier := &fakeNotifier{}
	reset := app.NewPasswordResetService(users, notifier, zap.NewNop())
	auth := app.NewAuthService(users, zap.NewNop())
	return reset, auth, users, notifier
}

func TestPasswordResetPipeline(t *testing.T) {
	ctx := context.Background()
	reset, auth, users, notifier := newResetFixture(t)

	if _, err := auth.Register(ctx, "alice@example.com", "alice", "originalpass"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := reset.IssueToken(ctx, "alice@example.com"); err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.sent))
	}

	stored, _ := users.FindByUsername(ctx, "alice@example.com")
	if stored.ResetToken == "" || stored.ResetExpires.IsZero() {
		t.Fatalf("token not persisted: %+v", stored)
	}

	if err := reset.CompleteReset(ctx, stored.ResetToken, "brandnewpass"); err != nil {
		t.Fatalf("complete reset: %v", err)
	}
	if _, err := auth.Authenticate(ctx, "alice@example.com", "brandnewpass"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, err := auth.Authenticate(ctx, "alice@example.com", "originalpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}

	// Token is single-use.
	if err := reset.CompleteReset(ctx, stored.ResetToken, "anotherpass99"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("used token must not resolve, got %v", err)
	}
}

func TestIssueTokenNotificationFailureShortCircuits(t *testing.T) {
	ctx := context.Background()
	reset, auth, _, notifier := newResetFixture(t)
	notifier.fail = true

	if _, err := auth.Register(ctx, "alice@example.com", "alice", "originalpass"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reset.IssueToken(ctx, "alice@example.com"); err == nil {
		t.Fatalf("notification failure must surface")
	}
}

func TestIssueTokenUnknownUser(t *testing.T) {
	ctx := context.Background()
	reset, _, _, notifier := newResetFixture(t)

	err := reset.IssueToken(ctx, "nobody@example.com")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("no notification should go out for unknown users")
	}
}

func TestCompleteResetExpiredToken(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	reset := app.NewPasswordResetServiceWithClock(users, &fakeNotifier{}, zap.NewNop(), fixedClockPast())

	user := domain.User{ID: "u1", Username: "alice@example.com"}
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := reset.IssueToken(ctx, "alice@example.com"); err != nil {
		t.Fatalf("issue: %v", err)
	}

	stored, _ := users.FindByUsername(ctx, "alice@example.com")
	// The service clock is pinned in the past, so by real wall-clock time the
	// token has long expired once we swap the clock forward.
	live := app.NewPasswordResetService(users, &fakeNotifier{}, zap.NewNop())
	if err := live.CompleteReset(ctx, stored.ResetToken, "brandnewpass"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}
