package automation

import (
	"sync"
	"time"
)

// DedupCache remembers recently processed provider comment ids so a webhook
// redelivery (provider retry on timeout) cannot trigger a second DM for the
// same comment. Entries expire after a bounded retention window; the cache is
// process-local.
type DedupCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	seen    map[string]time.Time
	lastGC  time.Time
	nowFunc func() time.Time
}

func NewDedupCache(ttl time.Duration) *DedupCache {
	return &DedupCache{
		ttl:     ttl,
		seen:    make(map[string]time.Time),
		nowFunc: time.Now,
	}
}

// Seen reports whether the comment id was already processed within the
// retention window and marks it as processed either way.
func (d *DedupCache) Seen(commentID string) bool {
	if commentID == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.nowFunc()
	d.sweep(now)

	expiry, ok := d.seen[commentID]
	d.seen[commentID] = now.Add(d.ttl)
	return ok && now.Before(expiry)
}

// sweep drops expired entries, at most once per retention window.
func (d *DedupCache) sweep(now time.Time) {
	if now.Sub(d.lastGC) < d.ttl {
		return
	}
	for id, expiry := range d.seen {
		if now.After(expiry) {
			delete(d.seen, id)
		}
	}
	d.lastGC = now
}
