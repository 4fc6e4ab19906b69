package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-service/internal/domain"
)

// ClueCorpus is a slice-backed corpus for tests and demos. Sampling is
// uniform over the entries matching the filter.
type ClueCorpus struct {
	mu    sync.RWMutex
	clues []domain.Clue
	rnd   *rand.Rand
}

func NewClueCorpus(clues []domain.Clue) *ClueCorpus {
	return &ClueCorpus{
		clues: append([]domain.Clue(nil), clues...),
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ClueCorpus) SampleOne(_ context.Context, filter domain.ClueFilter) (domain.Clue, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matches := make([]int, 0, len(c.clues))
	for i, clue := range c.clues {
		if filter.Matches(clue) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return domain.Clue{}, domain.ErrNoMatchingClue
	}
	return c.clues[matches[c.rnd.Intn(len(matches))]], nil
}

func (c *ClueCorpus) Count(_ context.Context, filter domain.ClueFilter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, clue := range c.clues {
		if filter.Matches(clue) {
			n++
		}
	}
	return n, nil
}

// Add appends clues to the corpus (seed helper for demos).
func (c *ClueCorpus) Add(clues ...domain.Clue) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clues = append(c.clues, clues...)
}
