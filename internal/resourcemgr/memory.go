// Package resourcemgr implements the resource-management layer: memories
// and their state machine, rule-driven protocol binding, and the
// REQUEST/RESPONSE handshake between nodes (SPEC_FULL.md §4.6-§4.9),
// grounded on original_source/tests/resource_management/test_resource_manager.py.
package resourcemgr

import "github.com/theapemachine/qsim/internal/qvalue"

// MemoryState is a quantum memory's position in the RAW/OCCUPIED/ENTANGLED
// life cycle (SPEC_FULL.md §4.6).
type MemoryState string

const (
	StateRaw       MemoryState = "RAW"
	StateOccupied  MemoryState = "OCCUPIED"
	StateEntangled MemoryState = "ENTANGLED"
)

// Memory is a single quantum memory cell. It owns a qvalue.Topic so
// observers (the MemoryManager, and whichever Protocol currently holds it)
// can be notified synchronously of state changes - the Go rendition of the
// original's `_observers` set and `attach`/`detach` methods (SPEC_FULL.md
// §4.6/§4.12).
type Memory struct {
	name     string
	fidelity float64
	topic    *qvalue.Topic[MemoryState]
}

// NewMemory constructs a Memory named name with the given initial fidelity.
func NewMemory(name string, fidelity float64) *Memory {
	return &Memory{name: name, fidelity: fidelity, topic: qvalue.NewTopic[MemoryState]()}
}

func (m *Memory) Name() string        { return m.name }
func (m *Memory) Fidelity() float64   { return m.fidelity }
func (m *Memory) SetFidelity(f float64) { m.fidelity = f }

// Attach registers fn to be called whenever this memory's MemoryInfo state
// changes, returning a token Detach accepts.
func (m *Memory) Attach(fn func(MemoryState)) int { return m.topic.Attach(fn) }

// Detach unregisters a previously attached observer.
func (m *Memory) Detach(token int) { m.topic.Detach(token) }

// ObserverCount reports how many observers are currently attached.
func (m *Memory) ObserverCount() int { return m.topic.Len() }

func (m *Memory) publish(s MemoryState) { m.topic.Publish(s) }
