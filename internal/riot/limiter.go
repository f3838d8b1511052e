package riot

import (
	"context"
	"sync"
	"time"
)

const (
	// Riot dev key limits: 20 req/1s burst, 100 req/120s sustained.
	DefaultBurstLimit      = 20
	DefaultBurstWindow     = 1 * time.Second
	DefaultSustainedLimit  = 100
	DefaultSustainedWindow = 120 * time.Second

	// Small cushion added to computed waits so a re-check after sleeping
	// doesn't land exactly on the window edge.
	windowSlack = 50 * time.Millisecond
)

// window is one sliding rate-limit window: at most max request
// timestamps retained within the last span.
type window struct {
	span  time.Duration
	max   int
	stamp []time.Time
}

// evict drops timestamps older than the window. Must hold the budget lock.
func (w *window) evict(now time.Time) {
	cutoff := now.Add(-w.span)
	i := 0
	for i < len(w.stamp) && !w.stamp[i].After(cutoff) {
		i++
	}
	if i > 0 {
		w.stamp = append(w.stamp[:0], w.stamp[i:]...)
	}
}

// waitUntil returns when the oldest timestamp exits the window, or zero
// time if there is spare capacity. Must hold the budget lock.
func (w *window) waitUntil() time.Time {
	if len(w.stamp) < w.max {
		return time.Time{}
	}
	return w.stamp[0].Add(w.span)
}

// Budget enforces two independent sliding-window rate limits shared by
// all callers of one client. The evict / check / record sequence runs
// under a single mutex so two concurrent callers can't both observe
// spare capacity and jointly exceed the limit.
type Budget struct {
	mu        sync.Mutex
	burst     window
	sustained window
	now       func() time.Time // injectable for tests
}

// BudgetConfig overrides the default window sizes. Zero fields keep
// their defaults.
type BudgetConfig struct {
	BurstLimit      int
	BurstWindow     time.Duration
	SustainedLimit  int
	SustainedWindow time.Duration
}

// NewBudget creates a budget with the given limits.
func NewBudget(cfg BudgetConfig) *Budget {
	if cfg.BurstLimit <= 0 {
		cfg.BurstLimit = DefaultBurstLimit
	}
	if cfg.BurstWindow <= 0 {
		cfg.BurstWindow = DefaultBurstWindow
	}
	if cfg.SustainedLimit <= 0 {
		cfg.SustainedLimit = DefaultSustainedLimit
	}
	if cfg.SustainedWindow <= 0 {
		cfg.SustainedWindow = DefaultSustainedWindow
	}
	return &Budget{
		burst:     window{span: cfg.BurstWindow, max: cfg.BurstLimit},
		sustained: window{span: cfg.SustainedWindow, max: cfg.SustainedLimit},
		now:       time.Now,
	}
}

// tryAcquire records a request timestamp if both windows have capacity.
// Returns (true, zero) on success, or (false, earliest time a slot
// frees up) when the caller must wait.
func (b *Budget) tryAcquire() (bool, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	b.burst.evict(now)
	b.sustained.evict(now)

	free := b.burst.waitUntil()
	if t := b.sustained.waitUntil(); t.After(free) {
		free = t
	}
	if !free.IsZero() {
		return false, free
	}

	b.burst.stamp = append(b.burst.stamp, now)
	b.sustained.stamp = append(b.sustained.stamp, now)
	return true, time.Time{}
}

// Wait blocks until a request slot is available and records it, or until
// ctx is done. Each successful return consumes one slot in both windows.
func (b *Budget) Wait(ctx context.Context) error {
	for {
		ok, free := b.tryAcquire()
		if ok {
			return nil
		}

		d := free.Sub(b.now()) + windowSlack
		if d < 0 {
			d = windowSlack
		}

		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Re-check: another caller may have taken the freed slot.
		}
	}
}

// InFlight reports how many timestamps each window currently retains.
// Used for logging and tests.
func (b *Budget) InFlight() (burst, sustained int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.burst.evict(now)
	b.sustained.evict(now)
	return len(b.burst.stamp), len(b.sustained.stamp)
}
