package provider

import "sync"

// StateRegistry holds the process-wide mutable state of every provider:
// its circuit breaker and, where applicable, its call-budget limiter.
// Exactly one logical copy exists per running instance; concurrent top-level
// requests share it, which is what makes the breaker and budget effective.
//
// The registry is owned by the enrichment orchestrator and passed in
// explicitly, so tests can exercise each provider's degradation in isolation.
type StateRegistry struct {
	mu       sync.Mutex
	breakers map[string]*Breaker
	limiters map[string]*SlidingWindow
}

// NewStateRegistry builds an empty registry.
func NewStateRegistry() *StateRegistry {
	return &StateRegistry{
		breakers: make(map[string]*Breaker),
		limiters: make(map[string]*SlidingWindow),
	}
}

// Breaker returns the named provider's breaker, creating one with the default
// threshold on first use.
func (r *StateRegistry) Breaker(name string) *Breaker {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.breakers[name]
	if !ok {
		b = NewBreaker(DefaultBreakerThreshold)
		r.breakers[name] = b
	}
	return b
}

// SetLimiter attaches a call-budget limiter to a provider name.
func (r *StateRegistry) SetLimiter(name string, w *SlidingWindow) {
	r.mu.Lock()
	r.limiters[name] = w
	r.mu.Unlock()
}

// Limiter returns the provider's limiter, or nil when the provider has no
// per-minute budget.
func (r *StateRegistry) Limiter(name string) *SlidingWindow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limiters[name]
}

// FailureCounts snapshots every breaker's current failure counter, for the
// per-provider stats attached to each response.
func (r *StateRegistry) FailureCounts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.Failures()
	}
	return out
}
