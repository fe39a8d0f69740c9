// Package regulator adapts the teacher's Regulator family (Observe/Limit/
// Renormalize control loops) to guard the two non-deterministic surfaces
// the simulation core touches: the in-process quantum-manager-client stub
// and ResourceManager's rule-evaluation fan-out (SPEC_FULL.md §4.11).
package regulator

// Metrics is the observation snapshot regulators act on. It is
// domain-specific to the simulation rather than the teacher's
// worker-pool/job-queue metrics: protocol churn and quantum-manager-client
// call health, both of which can misbehave independently of simulated time.
type Metrics struct {
	// EventsExecuted is the Timeline's running dispatch count at the time of
	// observation, used as the throughput denominator for churn rate.
	EventsExecuted int64

	// ProtocolsCreated is the cumulative count of protocols spawned by rule
	// actions across all ResourceManagers sharing this regulator.
	ProtocolsCreated int64

	// QuantumManagerFailures is the cumulative count of failed
	// quantum-manager-client stub calls.
	QuantumManagerFailures int64

	// QuantumManagerCalls is the cumulative count of attempted
	// quantum-manager-client stub calls (successful or not).
	QuantumManagerCalls int64
}

// Regulator is a control-loop component that observes Metrics and decides
// whether the action it guards should be limited right now. Concrete
// implementations: CircuitBreaker (fail-fast after repeated failures),
// RateLimiter (token-bucket throughput cap), BackPressureRegulator
// (pressure-based advisory throttle).
type Regulator interface {
	// Observe records the latest Metrics snapshot.
	Observe(metrics *Metrics)

	// Limit reports whether the guarded action should be restricted right
	// now.
	Limit() bool

	// Renormalize attempts to relax restriction back toward normal
	// operation.
	Renormalize()
}
