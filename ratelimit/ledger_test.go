package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// clock lets tests drive the ledger's idea of now.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func testLedger(limit int, window time.Duration) (*Ledger, *clock) {
	c := &clock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
	l := NewLedger(limit, window)
	l.now = c.now
	return l, c
}

func TestLedgerLimitBoundary(t *testing.T) {
	l, _ := testLedger(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("stu-1") {
			t.Fatalf("attempt %d should be admitted", i+1)
		}
	}
	if l.Allow("stu-1") {
		t.Fatal("4th attempt within the window must be rejected")
	}
}

func TestLedgerWindowSlides(t *testing.T) {
	l, c := testLedger(3, time.Minute)

	for i := 0; i < 3; i++ {
		l.Allow("stu-1")
	}
	if l.Allow("stu-1") {
		t.Fatal("expected rejection at the limit")
	}

	// The rejected attempt was not recorded, so once the admitted three
	// age out a new attempt goes through.
	c.advance(61 * time.Second)
	if !l.Allow("stu-1") {
		t.Fatal("attempt after the window elapsed should be admitted")
	}
}

func TestLedgerRejectionNotRecorded(t *testing.T) {
	l, c := testLedger(3, time.Minute)

	for i := 0; i < 3; i++ {
		l.Allow("stu-1")
	}
	// Hammering while blocked must not extend the block.
	for i := 0; i < 10; i++ {
		c.advance(time.Second)
		if l.Allow("stu-1") {
			t.Fatal("attempt should still be blocked inside the window")
		}
	}

	c.advance(51 * time.Second) // first admitted attempt is now stale
	if !l.Allow("stu-1") {
		t.Fatal("block must lift when admitted attempts age out, regardless of rejected ones")
	}
}

func TestLedgerIdentitiesIndependent(t *testing.T) {
	l, _ := testLedger(1, time.Minute)

	if !l.Allow("stu-1") {
		t.Fatal("first identity should be admitted")
	}
	if !l.Allow("stu-2") {
		t.Fatal("second identity has its own window")
	}
	if l.Allow("stu-1") {
		t.Fatal("first identity should now be blocked")
	}
}

func TestLedgerConcurrentSingleSlot(t *testing.T) {
	l, _ := testLedger(1, time.Minute)

	const goroutines = 32
	var wg sync.WaitGroup
	admitted := make(chan struct{}, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("stu-1") {
				admitted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(admitted)

	count := 0
	for range admitted {
		count++
	}
	if count != 1 {
		t.Fatalf("exactly one concurrent attempt may take the last slot, got %d", count)
	}
}

func TestLedgerSweep(t *testing.T) {
	l, c := testLedger(3, time.Minute)

	l.Allow("stu-1")
	c.advance(30 * time.Second)
	l.Allow("stu-2")

	c.advance(45 * time.Second) // stu-1 stale, stu-2 still inside window
	if removed := l.Sweep(); removed != 1 {
		t.Fatalf("expected 1 identity swept, got %d", removed)
	}

	// stu-2 keeps its recorded attempt after the sweep.
	l.Allow("stu-2")
	l.Allow("stu-2")
	if l.Allow("stu-2") {
		t.Fatal("stu-2 should have hit the limit with its pre-sweep attempt counted")
	}
}
