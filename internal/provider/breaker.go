package provider

import "sync"

// DefaultBreakerThreshold is the consecutive-failure count at which a
// provider stops being attempted.
const DefaultBreakerThreshold = 10

// Breaker is a per-provider failure counter gating whether the adapter is
// attempted at all. Once failures reach the threshold the provider is skipped
// for every symbol until some successful call resets the counter to zero.
//
// There is deliberately no time-based half-open probe: a fully tripped
// breaker only recovers through an incidental success from another code path
// (fail-closed). The counter is mutex-guarded because the fetch orchestrator
// runs workers on OS threads.
type Breaker struct {
	mu        sync.Mutex
	failures  int
	threshold int
}

// NewBreaker builds a breaker with the given threshold; non-positive values
// fall back to DefaultBreakerThreshold.
func NewBreaker(threshold int) *Breaker {
	if threshold <= 0 {
		threshold = DefaultBreakerThreshold
	}
	return &Breaker{threshold: threshold}
}

// Allow reports whether the provider may be attempted.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures < b.threshold
}

// Failure records a failed attempt.
func (b *Breaker) Failure() {
	b.mu.Lock()
	b.failures++
	b.mu.Unlock()
}

// Success resets the failure counter. A successful parse counts even when it
// yields zero usable symbols.
func (b *Breaker) Success() {
	b.mu.Lock()
	b.failures = 0
	b.mu.Unlock()
}

// Failures returns the current counter value.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}
