package provider

import "testing"

func TestBreaker_TripsAtThreshold(t *testing.T) {
	b := NewBreaker(3)
	if !b.Allow() {
		t.Fatalf("fresh breaker should allow")
	}
	b.Failure()
	b.Failure()
	if !b.Allow() {
		t.Fatalf("below threshold should allow, failures=%d", b.Failures())
	}
	b.Failure()
	if b.Allow() {
		t.Fatalf("at threshold should deny")
	}
}

func TestBreaker_SuccessResetsToZero(t *testing.T) {
	b := NewBreaker(3)
	b.Failure()
	b.Failure()
	b.Success()
	if got := b.Failures(); got != 0 {
		t.Fatalf("failures=%d, want 0", got)
	}
	if !b.Allow() {
		t.Fatalf("reset breaker should allow")
	}
}

func TestBreaker_NoHalfOpenRecovery(t *testing.T) {
	// A tripped breaker stays closed until something records a success.
	b := NewBreaker(2)
	b.Failure()
	b.Failure()
	for i := 0; i < 5; i++ {
		if b.Allow() {
			t.Fatalf("tripped breaker allowed on check %d", i)
		}
	}
	b.Success()
	if !b.Allow() {
		t.Fatalf("breaker should allow after success")
	}
}

func TestBreaker_DefaultThreshold(t *testing.T) {
	b := NewBreaker(0)
	for i := 0; i < DefaultBreakerThreshold-1; i++ {
		b.Failure()
	}
	if !b.Allow() {
		t.Fatalf("should allow at %d failures", DefaultBreakerThreshold-1)
	}
	b.Failure()
	if b.Allow() {
		t.Fatalf("should deny at %d failures", DefaultBreakerThreshold)
	}
}

func TestStateRegistry_LazyBreakers(t *testing.T) {
	r := NewStateRegistry()
	b1 := r.Breaker("yahoo")
	b2 := r.Breaker("yahoo")
	if b1 != b2 {
		t.Fatalf("expected the same breaker instance per name")
	}
	b1.Failure()
	counts := r.FailureCounts()
	if counts["yahoo"] != 1 {
		t.Fatalf("counts=%v, want yahoo=1", counts)
	}
}

func TestStateRegistry_Limiter(t *testing.T) {
	r := NewStateRegistry()
	if r.Limiter("finnhub") != nil {
		t.Fatalf("unset limiter should be nil")
	}
	w := NewSlidingWindow(10, 0)
	r.SetLimiter("finnhub", w)
	if r.Limiter("finnhub") != w {
		t.Fatalf("limiter not returned")
	}
}
