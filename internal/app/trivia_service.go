package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"trivia-service/internal/domain"
)

// UserRepository abstracts the user document store (Postgres, in-memory).
// Save persists the whole record; the store's document write is the unit of
// atomicity, concurrent edits are last-write-wins.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (domain.User, error)
	FindByResetToken(ctx context.Context, token string) (domain.User, error)
	Create(ctx context.Context, user domain.User) error
	Save(ctx context.Context, user domain.User) error
}

// ClueCorpus is the read-only clue store. SampleOne draws uniformly at random
// among documents matching the filter.
type ClueCorpus interface {
	SampleOne(ctx context.Context, filter domain.ClueFilter) (domain.Clue, error)
	Count(ctx context.Context, filter domain.ClueFilter) (int64, error)
}

// SessionStore maps opaque session tokens to user IDs with a TTL.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// timestampLayout mirrors the en-US locale string the corpus documents use.
const timestampLayout = "1/2/2006, 3:04:05 PM"

// TriviaService contains the core quiz use cases.
type TriviaService struct {
	users  UserRepository
	corpus ClueCorpus
	logger *zap.Logger
	hub    *statsHub
	now    func() time.Time
}

func NewTriviaService(users UserRepository, corpus ClueCorpus, logger *zap.Logger) *TriviaService {
	return &TriviaService{
		users:  users,
		corpus: corpus,
		logger: logger,
		hub:    newStatsHub(),
		now:    time.Now,
	}
}

// GetClueForUser draws one random clue matching the user's preferences.
// Zero matches surface as domain.ErrNoMatchingClue; the request layer treats
// that as a recoverable "adjust your preferences" condition.
func (s *TriviaService) GetClueForUser(ctx context.Context, user domain.User) (domain.Clue, error) {
	filter := FilterForPreferences(user.Preferences)
	clue, err := s.corpus.SampleOne(ctx, filter)
	if err != nil {
		return domain.Clue{}, err
	}
	return SanitizeClue(clue), nil
}

// EligibleClueCount reports how many corpus entries the user's current
// preferences select.
func (s *TriviaService) EligibleClueCount(ctx context.Context, user domain.User) (int64, error) {
	return s.corpus.Count(ctx, FilterForPreferences(user.Preferences))
}

// RecordResponse appends the judged clue to the user's ledger and persists
// the record. Correctness is the user's own verdict. Live stats subscribers
// receive a refreshed snapshot after the write lands.
func (s *TriviaService) RecordResponse(ctx context.Context, user domain.User, clue domain.Clue, correct bool) error {
	record := domain.ResponseRecord{
		Clue:      clue,
		Timestamp: s.now().Format(timestampLayout),
		Correct:   correct,
	}
	user.Responses = AppendResponse(user.Responses, record)
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	s.hub.publish(s.snapshot(user))
	return nil
}

// GetAccuracy computes the correct rate for each requested window size.
// Non-positive windows are rejected here so the pure engine below can keep
// its loud-failure precondition.
func (s *TriviaService) GetAccuracy(ctx context.Context, user domain.User, windows []int) (map[int]float64, error) {
	if len(windows) == 0 {
		windows = DefaultWindows
	}
	rates := make(map[int]float64, len(windows))
	for _, n := range windows {
		if n <= 0 {
			return nil, fmt.Errorf("%w: window size must be positive, got %d", domain.ErrValidation, n)
		}
		rates[n] = CorrectRate(user.Responses, n)
	}
	return rates, nil
}

// UpdatePreferences applies add/remove/difficulty edits in one document
// write. Empty add/remove terms mean "no change"; a nil difficulty leaves the
// dial alone.
func (s *TriviaService) UpdatePreferences(ctx context.Context, user domain.User, add, remove string, difficulty *int) (domain.Preferences, error) {
	if add != "" {
		if err := AddCategory(&user.Preferences, add); err != nil {
			return user.Preferences, err
		}
	}
	if remove != "" {
		RemoveCategory(&user.Preferences, remove)
	}
	if difficulty != nil {
		SetDifficulty(&user.Preferences, *difficulty)
	}
	if err := s.users.Save(ctx, user); err != nil {
		return domain.Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	return user.Preferences, nil
}

// ResetHistory irreversibly clears the user's ledger. The confirmation text
// must equal ResetConfirmation exactly; anything else is a validation error
// and the stored ledger is left untouched.
func (s *TriviaService) ResetHistory(ctx context.Context, user domain.User, confirmation string) error {
	cleared, err := ResetLedger(user.Responses, confirmation)
	if err != nil {
		return err
	}
	user.Responses = cleared
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("save cleared history: %w", err)
	}
	s.logger.Info("response history reset", zap.String("user", user.ID))
	s.hub.publish(s.snapshot(user))
	return nil
}

// SubscribeStats returns a channel of accuracy snapshots for the user,
// primed with the current state. The caller must invoke cancel.
func (s *TriviaService) SubscribeStats(user domain.User) (<-chan AccuracySnapshot, func()) {
	return s.hub.subscribe(user.ID, s.snapshot(user))
}

func (s *TriviaService) snapshot(user domain.User) AccuracySnapshot {
	rates := make(map[int]float64, len(DefaultWindows))
	for _, n := range DefaultWindows {
		rates[n] = CorrectRate(user.Responses, n)
	}
	return AccuracySnapshot{
		UserID:    user.ID,
		Rates:     rates,
		Total:     len(user.Responses),
		UpdatedAt: s.now(),
	}
}
