package regulator

import (
	"sync"
	"time"

	"github.com/theapemachine/qsim/internal/telemetry"
)

// CircuitState is the operating mode of a CircuitBreaker.
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // normal operation
	CircuitOpen                         // failing fast, rejecting calls
	CircuitHalfOpen                     // probationary, allowing limited calls
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker guards the quantum-manager-client stub (SPEC_FULL.md
// §4.11): repeated call failures open the circuit so subsequent calls fail
// fast with a typed error instead of the single-threaded simulation loop
// stalling on a misbehaving backing store.
type CircuitBreaker struct {
	mu sync.Mutex

	maxFailures  int
	resetTimeout time.Duration
	halfOpenMax  int

	failureCount     int
	state            CircuitState
	openTime         time.Time
	halfOpenAttempts int

	log *telemetry.Logger
}

// NewCircuitBreaker constructs a closed circuit breaker. maxFailures is the
// consecutive-failure threshold that opens it; resetTimeout is how long it
// stays open before probing again; halfOpenMax is how many successes in
// half-open state are required to fully close it.
func NewCircuitBreaker(maxFailures int, resetTimeout time.Duration, halfOpenMax int, log *telemetry.Logger) *CircuitBreaker {
	if log == nil {
		log = telemetry.Noop()
	}
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		halfOpenMax:  halfOpenMax,
		state:        CircuitClosed,
		log:          log.With("circuit-breaker"),
	}
}

// Observe is a no-op for CircuitBreaker: it reacts to RecordFailure/
// RecordSuccess calls from the guarded call site, not to ambient metrics.
func (cb *CircuitBreaker) Observe(metrics *Metrics) {}

// Limit reports true when the circuit will reject calls right now.
func (cb *CircuitBreaker) Limit() bool {
	return !cb.Allow()
}

// Renormalize transitions an open circuit to half-open once resetTimeout
// has elapsed, allowing probe calls through.
func (cb *CircuitBreaker) Renormalize() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == CircuitOpen && time.Since(cb.openTime) > cb.resetTimeout {
		cb.state = CircuitHalfOpen
		cb.halfOpenAttempts = 0
		cb.log.Debug("renormalized to half-open")
	}
}

// Allow reports whether a call should be attempted right now, transitioning
// Open -> HalfOpen once resetTimeout has elapsed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.openTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			cb.halfOpenAttempts = 0
			return true
		}
		return false
	case CircuitHalfOpen:
		return cb.halfOpenAttempts < cb.halfOpenMax
	default:
		return false
	}
}

// RecordFailure accounts a failed call, opening the circuit once
// maxFailures consecutive failures accumulate.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	if cb.failureCount >= cb.maxFailures {
		switch cb.state {
		case CircuitHalfOpen:
			cb.state = CircuitOpen
			cb.openTime = time.Now()
			cb.log.Warn("reopened from half-open state")
		case CircuitClosed:
			cb.state = CircuitOpen
			cb.openTime = time.Now()
			cb.log.Warn("opened after %d consecutive failures", cb.failureCount)
		}
	}
}

// RecordSuccess accounts a successful call, closing the circuit once enough
// half-open probes succeed, or resetting the failure count in the closed
// state.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitHalfOpen:
		cb.halfOpenAttempts++
		if cb.halfOpenAttempts >= cb.halfOpenMax {
			cb.state = CircuitClosed
			cb.failureCount = 0
			cb.halfOpenAttempts = 0
			cb.log.Debug("closed from half-open state")
		}
	case CircuitClosed:
		cb.failureCount = 0
	}
}

// State returns the breaker's current CircuitState.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

var _ Regulator = (*CircuitBreaker)(nil)
