package redis

import (
	"context"

	"trivia-service/internal/domain"
)

// Sampler draws one random matching clue from the backing store.
type Sampler interface {
	SampleOne(ctx context.Context, filter domain.ClueFilter) (domain.Clue, error)
}

// CachedCorpus pairs a backing sampler with the Redis count cache. Sampling
// always hits the store (a cached random draw would not be random); only the
// match counts are memoized.
type CachedCorpus struct {
	sampler Sampler
	counts  *MatchCountCache
}

func NewCachedCorpus(sampler Sampler, counts *MatchCountCache) *CachedCorpus {
	return &CachedCorpus{sampler: sampler, counts: counts}
}

func (c *CachedCorpus) SampleOne(ctx context.Context, filter domain.ClueFilter) (domain.Clue, error) {
	return c.sampler.SampleOne(ctx, filter)
}

func (c *CachedCorpus) Count(ctx context.Context, filter domain.ClueFilter) (int64, error) {
	return c.counts.Count(ctx, filter)
}
