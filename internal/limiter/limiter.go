// Package limiter throttles per-chat replies. The conversion core is
// stateless; this is the one piece of cross-message state and it lives
// behind an injectable component so deployments can tune or drop it.
package limiter

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const pruneInterval = time.Minute

// Cooldown tracks the last reply instant per chat. Safe for concurrent
// use from many update handlers.
type Cooldown struct {
	mu       sync.Mutex
	last     map[int64]time.Time
	cooldown time.Duration
	now      func() time.Time
}

// New creates a Cooldown. A non-positive duration disables throttling:
// TryAcquire always grants.
func New(cooldown time.Duration) *Cooldown {
	return &Cooldown{
		last:     make(map[int64]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

// TryAcquire reports whether chatID may be replied to now and, when
// granted, records the reply instant. Last-write-wins under contention
// is acceptable at chat-message rates.
func (c *Cooldown) TryAcquire(chatID int64) bool {
	if c.cooldown <= 0 {
		return true
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	if last, ok := c.last[chatID]; ok && now.Sub(last) < c.cooldown {
		return false
	}
	c.last[chatID] = now
	return true
}

// Run prunes expired entries until ctx is canceled, keeping the map
// from growing with every chat the bot ever replied in.
func (c *Cooldown) Run(ctx context.Context, log *zap.Logger) {
	if c.cooldown <= 0 {
		return
	}
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("cooldown limiter stopping")
			return
		case <-ticker.C:
			c.prune()
		}
	}
}

func (c *Cooldown) prune() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for chatID, last := range c.last {
		if now.Sub(last) >= c.cooldown {
			delete(c.last, chatID)
		}
	}
}
