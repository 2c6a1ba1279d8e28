// Package cooldown implements per-key command rate limiting as a small
// expiring-timestamp map. Requests inside the window are rejected
// immediately, never queued.
package cooldown

import (
	"sync"
	"time"
)

// Gate admits at most one invocation per window for each key. Keys are
// opaque; the bot uses channel IDs for the schedule command and user IDs
// for ping.
type Gate struct {
	window time.Duration

	mu      sync.Mutex
	lastUse map[string]time.Time
	now     func() time.Time
}

// NewGate creates a gate with the given cooldown window.
func NewGate(window time.Duration) *Gate {
	return &Gate{
		window:  window,
		lastUse: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Try admits the key if its cooldown has elapsed, recording the new use.
// When the key is still cooling down it returns the remaining wait and
// false, without extending the window.
func (g *Gate) Try(key string) (time.Duration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.lastUse[key]; ok {
		if remaining := g.window - now.Sub(last); remaining > 0 {
			return remaining, false
		}
	}

	g.prune(now)
	g.lastUse[key] = now
	return 0, true
}

// prune drops entries whose window has already elapsed. Called with the
// lock held; keeps the map from growing with one entry per channel ever
// seen.
func (g *Gate) prune(now time.Time) {
	for key, last := range g.lastUse {
		if now.Sub(last) >= g.window {
			delete(g.lastUse, key)
		}
	}
}
