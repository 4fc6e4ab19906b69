package app_test

import (
	"testing"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

func TestBuildClueFilterValueCeilings(t *testing.T) {
	for d := 1; d <= 10; d++ {
		filter := app.BuildClueFilter(nil, d)

		cases := []struct {
			clue domain.Clue
			want bool
		}{
			{domain.Clue{Round: 1, Value: 200 * d}, true},
			{domain.Clue{Round: 1, Value: 200*d + 1}, false},
			{domain.Clue{Round: 2, Value: 400 * d}, true},
			{domain.Clue{Round: 2, Value: 400*d + 1}, false},
			{domain.Clue{Round: 3, Value: 99999}, true},
			{domain.Clue{Round: 3, Value: 0}, true},
		}
		for _, tc := range cases {
			if got := filter.Matches(tc.clue); got != tc.want {
				t.Errorf("difficulty %d: clue round=%d value=%d: match=%v, want %v",
					d, tc.clue.Round, tc.clue.Value, got, tc.want)
			}
		}
	}
}

func TestBuildClueFilterClampsDifficulty(t *testing.T) {
	low := app.BuildClueFilter(nil, 0)
	if low.Round1Max != 200 || low.Round2Max != 400 {
		t.Errorf("difficulty 0 should clamp to 1, got ceilings %d/%d", low.Round1Max, low.Round2Max)
	}
	high := app.BuildClueFilter(nil, 42)
	if high.Round1Max != 2000 || high.Round2Max != 4000 {
		t.Errorf("difficulty 42 should clamp to 10, got ceilings %d/%d", high.Round1Max, high.Round2Max)
	}
}

func TestBuildClueFilterCategoryMatching(t *testing.T) {
	filter := app.BuildClueFilter([]string{"animals"}, 5)

	clue := domain.Clue{Round: 1, Value: 200, Category: "ANIMALS"}
	if !filter.Matches(clue) {
		t.Errorf("keyword %q should match category %q case-insensitively", "animals", clue.Category)
	}

	unrelated := app.BuildClueFilter([]string{"SPORTS"}, 5)
	if unrelated.Matches(clue) {
		t.Errorf("keyword SPORTS must not match category ANIMALS")
	}
}

func TestBuildClueFilterCategoryIsConjoinedWithCeiling(t *testing.T) {
	filter := app.BuildClueFilter([]string{"animals"}, 1)

	tooExpensive := domain.Clue{Round: 1, Value: 1000, Category: "ANIMALS"}
	if filter.Matches(tooExpensive) {
		t.Errorf("category match must not override the value ceiling")
	}
}

func TestBuildClueFilterSkipsBlankKeywords(t *testing.T) {
	filter := app.BuildClueFilter([]string{"", "   ", "history"}, 5)
	if len(filter.CategoryTerms) != 1 || filter.CategoryTerms[0] != "HISTORY" {
		t.Fatalf("blank keywords must be skipped, got terms %v", filter.CategoryTerms)
	}

	// All-blank keyword lists must not degenerate into a match-all clause
	// and must not leave a filter that matches nothing.
	allBlank := app.BuildClueFilter([]string{"", "  "}, 5)
	if len(allBlank.CategoryTerms) != 0 {
		t.Fatalf("expected no category terms, got %v", allBlank.CategoryTerms)
	}
	if !allBlank.Matches(domain.Clue{Round: 1, Value: 100, Category: "ANYTHING"}) {
		t.Errorf("filter without terms should apply no category restriction")
	}
}

func TestBuildClueFilterDoesNotMutatePreferences(t *testing.T) {
	stored := []string{"animals", " science "}
	app.BuildClueFilter(stored, 5)
	if stored[0] != "animals" || stored[1] != " science " {
		t.Errorf("stored preference strings were mutated: %v", stored)
	}
}
