package app

import (
	"strings"

	"trivia-service/internal/domain"
)

// Per-round point scales of the source trivia format. Round 3 has no ceiling:
// its values are wagers, not board positions.
const (
	round1Step = 200
	round2Step = 400
)

// BuildClueFilter translates a user's category keywords and difficulty dial
// into a structured corpus filter. Pure and non-failing: difficulty outside
// [1,10] clamps to the nearest bound, blank keywords are skipped so they
// cannot degenerate into match-all clauses, and the stored preference strings
// are never mutated (only uppercased copies enter the filter).
func BuildClueFilter(categories []string, difficulty int) domain.ClueFilter {
	level := domain.ClampDifficulty(difficulty)
	filter := domain.ClueFilter{
		Round1Max: round1Step * level,
		Round2Max: round2Step * level,
	}
	for _, raw := range categories {
		term := strings.ToUpper(strings.TrimSpace(raw))
		if term == "" {
			continue
		}
		filter.CategoryTerms = append(filter.CategoryTerms, term)
	}
	return filter
}

// FilterForPreferences builds the clue filter from a preference record,
// resolving the difficulty default at read time.
func FilterForPreferences(prefs domain.Preferences) domain.ClueFilter {
	return BuildClueFilter(prefs.Categories, prefs.Level())
}
