package app

import (
	"fmt"

	"trivia-service/internal/domain"
)

// ResetConfirmation is the literal a user must submit to clear their ledger.
const ResetConfirmation = "RESET"

// DefaultWindows are the accuracy window sizes shown on the stats page.
var DefaultWindows = []int{50, 120, 360}

// AppendResponse appends a judged record to the ledger. Entries are never
// deduplicated or reordered; append order is chronological order.
func AppendResponse(ledger []domain.ResponseRecord, record domain.ResponseRecord) []domain.ResponseRecord {
	return append(ledger, record)
}

// CorrectRate reports the share of correct judgments among the most recent
// min(n, len(ledger)) entries, divided by the requested window n. Dividing by
// n rather than the available count deliberately deflates the rate while the
// ledger is short, discouraging small-sample overconfidence. A non-positive
// window is a programmer error and panics.
func CorrectRate(ledger []domain.ResponseRecord, n int) float64 {
	if n <= 0 {
		panic(fmt.Sprintf("app: correct rate window must be positive, got %d", n))
	}
	window := ledger
	if len(window) > n {
		window = window[len(window)-n:]
	}
	correct := 0
	for _, record := range window {
		if record.Correct {
			correct++
		}
	}
	return float64(correct) / float64(n)
}

// ResetLedger clears the ledger once the caller supplies the exact
// confirmation literal. Any other input is rejected and the ledger is
// returned unchanged.
func ResetLedger(ledger []domain.ResponseRecord, confirmation string) ([]domain.ResponseRecord, error) {
	if confirmation != ResetConfirmation {
		return ledger, fmt.Errorf("%w: history reset requires confirmation %q", domain.ErrValidation, ResetConfirmation)
	}
	return nil, nil
}
