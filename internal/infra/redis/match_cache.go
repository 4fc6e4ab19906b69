package redis

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"trivia-service/internal/domain"
)

// MatchCounter counts corpus entries matching a filter (the backing store).
type MatchCounter interface {
	Count(ctx context.Context, filter domain.ClueFilter) (int64, error)
}

// MatchCountCache memoizes per-filter match counts in Redis so the
// preferences page does not re-count the corpus on every load. Cache misses
// collapse through singleflight; TTLs carry jitter to spread expirations.
type MatchCountCache struct {
	client  *redis.Client
	counter MatchCounter
	ttl     time.Duration
	sf      singleflight.Group
	rnd     *rand.Rand
}

func NewMatchCountCache(client *redis.Client, counter MatchCounter, ttl time.Duration) *MatchCountCache {
	return &MatchCountCache{
		client:  client,
		counter: counter,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *MatchCountCache) Count(ctx context.Context, filter domain.ClueFilter) (int64, error) {
	key := c.key(filter)

	if n, err := c.client.Get(ctx, key).Int64(); err == nil {
		return n, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled the key.
		if n, err := c.client.Get(ctx, key).Int64(); err == nil {
			return n, nil
		}
		n, err := c.counter.Count(ctx, filter)
		if err != nil {
			return int64(0), err
		}
		_ = c.client.Set(ctx, key, n, c.ttlWithJitter()).Err()
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

func (c *MatchCountCache) key(filter domain.ClueFilter) string {
	return "clue:count:" + filter.Key()
}

func (c *MatchCountCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
