package app

import (
	"fmt"
	"strings"

	"trivia-service/internal/domain"
)

// maxCategoryLength bounds stored keyword size; anything larger is rejected
// rather than truncated.
const maxCategoryLength = 64

// AddCategory appends a keyword verbatim: no case-folding and no uniqueness
// check, so duplicates are allowed and display order stays insertion order.
func AddCategory(prefs *domain.Preferences, term string) error {
	if strings.TrimSpace(term) == "" {
		return fmt.Errorf("%w: category term must not be blank", domain.ErrValidation)
	}
	if len(term) > maxCategoryLength {
		return fmt.Errorf("%w: category term exceeds %d characters", domain.ErrValidation, maxCategoryLength)
	}
	prefs.Categories = append(prefs.Categories, term)
	return nil
}

// RemoveCategory drops the first exact-match occurrence of term. An absent
// term is a no-op, not an error.
func RemoveCategory(prefs *domain.Preferences, term string) {
	for i, existing := range prefs.Categories {
		if existing == term {
			prefs.Categories = append(prefs.Categories[:i], prefs.Categories[i+1:]...)
			return
		}
	}
}

// SetDifficulty overwrites the difficulty dial, clamped to [1,10]. Writing an
// unchanged value is permitted.
func SetDifficulty(prefs *domain.Preferences, value int) {
	prefs.Difficulty = domain.ClampDifficulty(value)
}
