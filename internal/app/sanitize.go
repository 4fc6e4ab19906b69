package app

import (
	"strings"

	"trivia-service/internal/domain"
)

// SanitizeClue strips stray escape markers from the text fields that the
// corpus dump corrupted. Applied after every draw, before the clue reaches
// the caller.
func SanitizeClue(c domain.Clue) domain.Clue {
	c.Category = stripEscapes(c.Category)
	c.Answer = stripEscapes(c.Answer)
	c.Question = stripEscapes(c.Question)
	return c
}

// stripEscapes removes backslash escapes in front of quote characters,
// repeating until a fixpoint so the transform is idempotent even on doubly
// escaped input. Content without escape markers passes through untouched.
func stripEscapes(s string) string {
	for {
		out := strings.ReplaceAll(s, `\'`, `'`)
		out = strings.ReplaceAll(out, `\"`, `"`)
		if out == s {
			return out
		}
		s = out
	}
}
