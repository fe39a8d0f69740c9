// Package qmclient provides an in-process stand-in for the external
// multiprocess quantum-state server described by
// original_source/src/kernel/quantum_manager_client.py. That original is a
// pickle-over-socket RPC client; no real network service exists here
// (SPEC_FULL.md §1/§4.13). This stub gives Protocol implementations
// something concrete to call for quantum-state bookkeeping beyond what
// MemoryInfo tracks, guarded by a CircuitBreaker so a hypothetical slow or
// failing backing store cannot stall the single-threaded simulation loop.
package qmclient

import (
	"errors"

	"github.com/theapemachine/qsim/internal/qvalue"
	"github.com/theapemachine/qsim/internal/regulator"
	"github.com/theapemachine/qsim/internal/telemetry"
)

// ErrCircuitOpen is returned instead of attempting a call once the guarding
// CircuitBreaker has opened.
var ErrCircuitOpen = errors.New("qmclient: circuit open, call rejected")

// Client is the in-process quantum-manager-client stub.
type Client struct {
	store   *qvalue.Store
	breaker *regulator.CircuitBreaker
	log     *telemetry.Logger

	// failNext, when set by tests via SimulateFailure, makes the next NewState
	// or Set call report a failure regardless of store state - standing in
	// for a hypothetical backing-store outage. Get and Remove ignore it.
	failNext bool
}

// New constructs a Client backed by store and guarded by breaker. Passing a
// nil breaker disables circuit protection (useful in tests that only
// exercise store semantics).
func New(store *qvalue.Store, breaker *regulator.CircuitBreaker, log *telemetry.Logger) *Client {
	if log == nil {
		log = telemetry.Noop()
	}
	return &Client{store: store, breaker: breaker, log: log.With("qmclient")}
}

// SimulateFailure forces the next NewState or Set call to fail, for
// exercising the circuit breaker in tests without a real unreliable
// dependency. Get and Remove are not affected.
func (c *Client) SimulateFailure() { c.failNext = true }

func (c *Client) allowed() bool {
	return c.breaker == nil || c.breaker.Allow()
}

func (c *Client) recordOutcome(err error) {
	if c.breaker == nil {
		return
	}
	if err != nil {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}
}

// NewState allocates a fresh quantum-state handle for the given initial
// amplitudes.
func (c *Client) NewState(initial []complex128) (int, error) {
	if !c.allowed() {
		return 0, ErrCircuitOpen
	}
	if c.failNext {
		c.failNext = false
		err := errors.New("qmclient: simulated backing-store failure")
		c.recordOutcome(err)
		return 0, err
	}

	key := c.store.New(initial)
	c.recordOutcome(nil)
	c.log.Debug("allocated state handle %d", key)
	return key, nil
}

// Get retrieves the state stored under key.
func (c *Client) Get(key int) (qvalue.State, error) {
	if !c.allowed() {
		return qvalue.State{}, ErrCircuitOpen
	}
	state, err := c.store.Get(key)
	c.recordOutcome(err)
	return state, err
}

// Set overwrites the amplitudes stored under key.
func (c *Client) Set(key int, amplitudes []complex128) error {
	if !c.allowed() {
		return ErrCircuitOpen
	}
	if c.failNext {
		c.failNext = false
		err := errors.New("qmclient: simulated backing-store failure")
		c.recordOutcome(err)
		return err
	}

	err := c.store.Set(key, amplitudes)
	c.recordOutcome(err)
	return err
}

// Remove deletes the handle.
func (c *Client) Remove(key int) error {
	if !c.allowed() {
		return ErrCircuitOpen
	}
	err := c.store.Remove(key)
	c.recordOutcome(err)
	return err
}
