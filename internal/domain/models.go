package domain

import "time"

// Clue is an immutable entry in the trivia corpus. Text fields may carry
// escape artifacts from the original dump; callers sanitize before display.
type Clue struct {
	ID          int64  `json:"id,omitempty"`
	Round       int    `json:"round"`
	Value       int    `json:"value"`
	DailyDouble string `json:"daily_double,omitempty"`
	Category    string `json:"category"`
	Comments    string `json:"comments,omitempty"`
	Answer      string `json:"answer"`
	Question    string `json:"question"`
	AirDate     string `json:"air_date,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Preferences drive clue selection for a user. Categories keep insertion
// order and may contain duplicates. Difficulty zero means "never set".
type Preferences struct {
	Categories []string `json:"categories"`
	Difficulty int      `json:"difficulty"`
}

const (
	MinDifficulty     = 1
	MaxDifficulty     = 10
	DefaultDifficulty = 5
)

// Level resolves the effective difficulty at read time: unset falls back to
// the default, out-of-range values clamp to the nearest bound.
func (p Preferences) Level() int {
	if p.Difficulty == 0 {
		return DefaultDifficulty
	}
	return ClampDifficulty(p.Difficulty)
}

// ClampDifficulty pins a difficulty value into [MinDifficulty, MaxDifficulty].
func ClampDifficulty(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}

// ResponseRecord is an append-only ledger entry: a copy of the judged clue
// plus the user's self-reported verdict. Correctness is client-supplied and
// never verified server-side.
type ResponseRecord struct {
	Clue
	Timestamp string `json:"timestamp"`
	Correct   bool   `json:"correct"`
}

// User is the document-shaped account record. Responses are embedded so the
// whole record saves as one document write.
type User struct {
	ID           string
	Username     string
	Alias        string
	PasswordHash string
	GoogleID     string
	Preferences  Preferences
	ResetToken   string
	ResetExpires time.Time
	Responses    []ResponseRecord
}
