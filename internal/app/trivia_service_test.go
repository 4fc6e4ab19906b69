package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

func testCorpus() *memory.ClueCorpus {
	return memory.NewClueCorpus([]domain.Clue{
		{Round: 1, Value: 200, Category: "ANIMALS", Answer: "a1", Question: "q1"},
		{Round: 1, Value: 1000, Category: "ANIMALS", Answer: "a2", Question: "q2"},
		{Round: 2, Value: 400, Category: "SCIENCE", Answer: "a3", Question: "q3"},
		{Round: 3, Value: 0, Category: "FINAL FRONTIERS", Answer: "a4", Question: "q4"},
	})
}

func newTestService(t *testing.T) (*app.TriviaService, *memory.UserRepository, domain.User) {
	t.Helper()
	users := memory.NewUserRepository()
	service := app.NewTriviaService(users, testCorpus(), zap.NewNop())

	user := domain.User{ID: "u1", Username: "alice@example.com", Alias: "alice"}
	if err := users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return service, users, user
}

func TestGetClueForUserHonorsPreferences(t *testing.T) {
	ctx := context.Background()
	service, _, user := newTestService(t)

	user.Preferences = domain.Preferences{Categories: []string{"animals"}, Difficulty: 1}
	for i := 0; i < 20; i++ {
		clue, err := service.GetClueForUser(ctx, user)
		if err != nil {
			t.Fatalf("get clue: %v", err)
		}
		// Difficulty 1 caps round 1 at 200, so only the cheap ANIMALS clue qualifies.
		if clue.Category != "ANIMALS" || clue.Value != 200 {
			t.Fatalf("drew ineligible clue %+v", clue)
		}
	}
}

func TestGetClueForUserNoMatch(t *testing.T) {
	ctx := context.Background()
	service, _, user := newTestService(t)

	user.Preferences = domain.Preferences{Categories: []string{"opera"}, Difficulty: 1}
	_, err := service.GetClueForUser(ctx, user)
	if !errors.Is(err, domain.ErrNoMatchingClue) {
		t.Fatalf("expected ErrNoMatchingClue, got %v", err)
	}
}

func TestRecordResponseAppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	service, users, user := newTestService(t)

	clue := domain.Clue{Round: 1, Value: 200, Category: "ANIMALS", Answer: "a1", Question: "q1"}
	if err := service.RecordResponse(ctx, user, clue, true); err != nil {
		t.Fatalf("record: %v", err)
	}

	stored, err := users.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if len(stored.Responses) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(stored.Responses))
	}
	record := stored.Responses[0]
	if !record.Correct || record.Category != "ANIMALS" || record.Timestamp == "" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestGetAccuracyWindows(t *testing.T) {
	ctx := context.Background()
	service, _, user := newTestService(t)

	user.Responses = records(true, true, false)
	rates, err := service.GetAccuracy(ctx, user, []int{50, 3})
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if rates[50] != 2.0/50.0 {
		t.Fatalf("window 50: expected 0.04, got %v", rates[50])
	}
	if rates[3] != 2.0/3.0 {
		t.Fatalf("window 3: expected 2/3, got %v", rates[3])
	}
}

func TestGetAccuracyRejectsNonPositiveWindow(t *testing.T) {
	ctx := context.Background()
	service, _, user := newTestService(t)

	_, err := service.GetAccuracy(ctx, user, []int{0})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for window 0, got %v", err)
	}
}

func TestUpdatePreferencesPersists(t *testing.T) {
	ctx := context.Background()
	service, users, user := newTestService(t)

	difficulty := 8
	prefs, err := service.UpdatePreferences(ctx, user, "animals", "", &difficulty)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(prefs.Categories) != 1 || prefs.Categories[0] != "animals" || prefs.Difficulty != 8 {
		t.Fatalf("unexpected preferences %+v", prefs)
	}

	stored, _ := users.FindByID(ctx, user.ID)
	if stored.Preferences.Difficulty != 8 {
		t.Fatalf("difficulty not persisted, got %d", stored.Preferences.Difficulty)
	}
}

func TestResetHistoryConfirmation(t *testing.T) {
	ctx := context.Background()
	service, users, user := newTestService(t)

	user.Responses = records(true, false)
	if err := users.Save(ctx, user); err != nil {
		t.Fatalf("seed responses: %v", err)
	}

	if err := service.ResetHistory(ctx, user, "reset"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("wrong-case confirmation must be rejected, got %v", err)
	}
	stored, _ := users.FindByID(ctx, user.ID)
	if len(stored.Responses) != 2 {
		t.Fatalf("rejected reset must not touch the stored ledger, got %d entries", len(stored.Responses))
	}

	if err := service.ResetHistory(ctx, user, app.ResetConfirmation); err != nil {
		t.Fatalf("confirmed reset: %v", err)
	}
	stored, _ = users.FindByID(ctx, user.ID)
	if len(stored.Responses) != 0 {
		t.Fatalf("confirmed reset must clear the ledger, got %d entries", len(stored.Responses))
	}
}

func TestSubscribeStatsReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	service, _, user := newTestService(t)

	updates, cancel := service.SubscribeStats(user)
	defer cancel()

	initial := <-updates
	if initial.Total != 0 {
		t.Fatalf("expected empty initial snapshot, got %+v", initial)
	}

	clue := domain.Clue{Round: 1, Value: 200, Category: "ANIMALS"}
	if err := service.RecordResponse(ctx, user, clue, true); err != nil {
		t.Fatalf("record: %v", err)
	}

	select {
	case snapshot := <-updates:
		if snapshot.Total != 1 {
			t.Fatalf("expected total 1 after record, got %+v", snapshot)
		}
		if snapshot.Rates[50] != 1.0/50.0 {
			t.Fatalf("expected deflated rate 0.02, got %v", snapshot.Rates[50])
		}
	case <-time.After(time.Second):
		t.Fatalf("no snapshot received after recording a response")
	}
}
