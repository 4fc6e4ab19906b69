package domain

import (
	"strconv"
	"strings"
)

// ClueFilter is the structured predicate produced by the query builder.
// CategoryTerms are uppercased comparison copies; an empty slice means no
// category restriction. A ceiling of zero means the round has no value cap
// (round 3 wagers are not fixed point values).
type ClueFilter struct {
	CategoryTerms []string
	Round1Max     int
	Round2Max     int
}

// Matches evaluates the filter in-process. Backends with their own query
// language (SQL) translate the filter instead.
func (f ClueFilter) Matches(c Clue) bool {
	if !f.valueEligible(c) {
		return false
	}
	if len(f.CategoryTerms) == 0 {
		return true
	}
	category := strings.ToUpper(c.Category)
	for _, term := range f.CategoryTerms {
		if strings.Contains(category, term) {
			return true
		}
	}
	return false
}

func (f ClueFilter) valueEligible(c Clue) bool {
	switch c.Round {
	case 1:
		return c.Value <= f.Round1Max
	case 2:
		return c.Value <= f.Round2Max
	case 3:
		return true
	default:
		return false
	}
}

// Key returns a deterministic cache key for the filter.
func (f ClueFilter) Key() string {
	var b strings.Builder
	b.WriteString("r1=")
	b.WriteString(strconv.Itoa(f.Round1Max))
	b.WriteString(";r2=")
	b.WriteString(strconv.Itoa(f.Round2Max))
	for _, term := range f.CategoryTerms {
		b.WriteString(";c=")
		b.WriteString(term)
	}
	return b.String()
}
