package ratelimit

import (
	"sync"
	"time"
)

// Ledger tracks verification attempts per student inside a sliding
// window. It is the only shared mutable state in the admission pipeline,
// so prune+check+append happens as one step under the mutex; two
// concurrent requests for the same student can never both take the last
// slot. Entries live in memory for the process lifetime, no durability.
type Ledger struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	attempts map[string][]time.Time

	now func() time.Time // overridable in tests
}

func NewLedger(limit int, window time.Duration) *Ledger {
	return &Ledger{
		limit:    limit,
		window:   window,
		attempts: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Allow records the current attempt and reports whether it is within the
// limit. An attempt at the limit is rejected without being recorded, so
// the attempts that were admitted keep sliding the window; the caller
// re-trying only gets through once the oldest admitted attempt ages out.
func (l *Ledger) Allow(identity string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.attempts[identity][:0]
	for _, t := range l.attempts[identity] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.attempts[identity] = kept
		return false
	}

	l.attempts[identity] = append(kept, now)
	return true
}

// Sweep drops identities whose every recorded attempt has aged out of
// the window. Pruning is otherwise lazy per-identity, so without a sweep
// the map would grow with every student that ever attempted. Returns the
// number of identities removed.
func (l *Ledger) Sweep() int {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, ts := range l.attempts {
		stale := true
		for _, t := range ts {
			if t.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.attempts, id)
			removed++
		}
	}
	return removed
}
