package regulator

import (
	"sync"
	"time"
)

// RateLimiter is a token-bucket Regulator: a fixed capacity of tokens drains
// on each Limit() call and refills at a steady rate, smoothing protocol
// churn bursts without ever blocking the caller (SPEC_FULL.md §4.11 - it is
// advisory, its Limit() result is only ever logged, never enforced, at the
// ResourceManager call site).
type RateLimiter struct {
	mu sync.Mutex

	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time

	metrics *Metrics
}

// NewRateLimiter constructs a full token bucket of maxTokens capacity,
// refilling one token every refillRate.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now().Add(-refillRate),
	}
}

// Observe records the latest Metrics snapshot for later inspection.
func (rl *RateLimiter) Observe(metrics *Metrics) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.metrics = metrics
}

// Limit consumes a token if one is available and reports false; reports
// true (limited) when the bucket is empty.
func (rl *RateLimiter) Limit() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens > 0 {
		rl.tokens--
		return false
	}
	return true
}

// Renormalize forces a refill pass.
func (rl *RateLimiter) Renormalize() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
}

func (rl *RateLimiter) refill() {
	now := time.Now()
	elapsedNs := now.Sub(rl.lastRefill).Nanoseconds()
	refillRateNs := rl.refillRate.Nanoseconds()
	if refillRateNs <= 0 {
		return
	}

	tokensToAdd := (elapsedNs + refillRateNs/2) / refillRateNs
	if tokensToAdd > 0 {
		rl.tokens = min(rl.maxTokens, rl.tokens+int(tokensToAdd))
		rl.lastRefill = rl.lastRefill.Add(time.Duration(tokensToAdd) * rl.refillRate)
	}
}

var _ Regulator = (*RateLimiter)(nil)
