package provider

import (
	"context"
	"sync"
	"time"
)

// SlidingWindow is a call budgeter for providers with strict per-minute
// quotas. It keeps the timestamps of recent calls; before each call,
// timestamps older than the window are discarded, and when the remaining
// count is at the budget the caller sleeps until the oldest call exits the
// window.
//
// The budget should sit below the provider's stated quota (e.g. 55 against a
// 60/min limit) so bursts from concurrent workers never trip the upstream.
//
// Safe for concurrent use: workers run on OS threads here, so the timestamp
// list is mutex-guarded.
type SlidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	calls  []time.Time

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSlidingWindow builds a limiter allowing limit calls per window.
func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// Acquire blocks until a call slot is available or the context is done, then
// records the call timestamp. It returns the context error on cancellation.
func (w *SlidingWindow) Acquire(ctx context.Context) error {
	if w == nil || w.limit <= 0 {
		return nil
	}
	for {
		w.mu.Lock()
		now := w.now()
		w.prune(now)
		if len(w.calls) < w.limit {
			w.calls = append(w.calls, now)
			w.mu.Unlock()
			return nil
		}
		// Wait for the oldest call to leave the window, plus a small margin.
		wait := w.window - now.Sub(w.calls[0]) + time.Second
		w.mu.Unlock()

		if err := w.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Used reports how many calls were made inside the current window.
func (w *SlidingWindow) Used() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prune(w.now())
	return len(w.calls)
}

// prune drops timestamps that fell out of the window. Caller holds the lock.
func (w *SlidingWindow) prune(now time.Time) {
	cut := 0
	for cut < len(w.calls) && now.Sub(w.calls[cut]) >= w.window {
		cut++
	}
	if cut > 0 {
		w.calls = append(w.calls[:0], w.calls[cut:]...)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
