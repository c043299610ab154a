package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type cachingExplainer struct {
	next  Explainer
	ttl   time.Duration
	now   func() time.Time
	cache sync.Map // map[string]cacheEntry
}

type cacheEntry struct {
	at   time.Time
	text string
}

// WithCache memoizes successful narratives per prompt for ttl. A non-positive ttl disables caching.
func WithCache(next Explainer, ttl time.Duration) Explainer {
	if next == nil || ttl <= 0 {
		return next
	}
	return &cachingExplainer{next: next, ttl: ttl, now: time.Now}
}

func (c *cachingExplainer) Enabled() bool {
	return c.next.Enabled()
}

func (c *cachingExplainer) Explain(ctx context.Context, input ExplanationInput) (string, error) {
	sum := sha256.Sum256([]byte(BuildPrompt(input)))
	key := hex.EncodeToString(sum[:])

	if entry, ok := c.cache.Load(key); ok {
		cached := entry.(cacheEntry)
		if c.now().Sub(cached.at) < c.ttl {
			return cached.text, nil
		}
		c.cache.Delete(key)
	}

	text, err := c.next.Explain(ctx, input)
	if err != nil {
		return "", err
	}
	c.cache.Store(key, cacheEntry{at: c.now(), text: text})
	return text, nil
}
