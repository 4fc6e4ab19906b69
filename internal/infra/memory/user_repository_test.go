package memory

import (
	"context"
	"errors"
	"testing"

	"trivia-service/internal/domain"
)

func TestUserRepositoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	user := domain.User{ID: "u1", Username: "alice@example.com", GoogleID: "g1", ResetToken: "tok"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.FindByID(ctx, "u1"); err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "alice@example.com"); err != nil {
		t.Fatalf("find by username: %v", err)
	}
	if _, err := repo.FindByGoogleID(ctx, "g1"); err != nil {
		t.Fatalf("find by google id: %v", err)
	}
	if _, err := repo.FindByResetToken(ctx, "tok"); err != nil {
		t.Fatalf("find by reset token: %v", err)
	}
	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	if err := repo.Create(ctx, domain.User{ID: "u1", Username: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(ctx, domain.User{ID: "u2", Username: "a@example.com"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserRepositorySaveIsWholeDocument(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	if err := repo.Create(ctx, domain.User{ID: "u1", Username: "a@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	user, _ := repo.FindByID(ctx, "u1")
	user.Responses = []domain.ResponseRecord{{Correct: true}}
	user.Preferences.Categories = []string{"animals"}
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("save: %v", err)
	}

	stored, _ := repo.FindByID(ctx, "u1")
	if len(stored.Responses) != 1 || len(stored.Preferences.Categories) != 1 {
		t.Fatalf("save must persist the whole record, got %+v", stored)
	}

	if err := repo.Save(ctx, domain.User{ID: "ghost"}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("saving unknown user must fail, got %v", err)
	}
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	if err := repo.Create(ctx, domain.User{ID: "u1", Username: "a@example.com", Preferences: domain.Preferences{Categories: []string{"x"}}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, _ := repo.FindByID(ctx, "u1")
	first.Preferences.Categories[0] = "mutated"

	second, _ := repo.FindByID(ctx, "u1")
	if second.Preferences.Categories[0] != "x" {
		t.Fatalf("stored record must not alias returned slices")
	}
}
