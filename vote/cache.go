// Copyright (c) 2025 Mara Hutchins.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package vote

import (
	"context"
	"sync"
	"time"
)

// CachedTallies is a short-TTL read-through cache over a TallyReader. It
// decorates the read path only: nothing on the write or validation path may
// consult it, so a stale entry can never influence whether a vote commits.
type CachedTallies struct {
	inner TallyReader
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	count   int
	expires time.Time
}

// NewCachedTallies wraps inner with a TTL cache. A non-positive TTL returns
// the reader unwrapped - the decorator is strictly optional.
func NewCachedTallies(inner TallyReader, ttl time.Duration) TallyReader {
	if ttl <= 0 {
		return inner
	}
	return &CachedTallies{
		inner:   inner,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedTallies) GetOptionTally(ctx context.Context, optionID string) (int, error) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[optionID]
	c.mu.RUnlock()
	if ok && now.Before(e.expires) {
		return e.count, nil
	}

	count, err := c.inner.GetOptionTally(ctx, optionID)
	if err != nil {
		// Not-found is not cached: the option may be created moments later.
		return 0, err
	}

	c.mu.Lock()
	c.entries[optionID] = cacheEntry{count: count, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return count, nil
}
