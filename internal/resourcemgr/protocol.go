package resourcemgr

import "github.com/theapemachine/qsim/internal/topology"

// Protocol is the lifecycle contract every entanglement/distillation/
// swapping protocol satisfies so the ResourceManager can bind, pair, and
// release it without knowing its concrete type (SPEC_FULL.md §4.8).
//
// A Protocol moves through exactly one of {waiting, pending, node.protocols}
// at a time; ResourceManager enforces that invariant, never the Protocol
// itself.
type Protocol interface {
	Name() string

	// Memories returns the local memories this protocol was bound to by its
	// owning Rule's action.
	Memories() []*Memory

	// IsReady reports whether both sides of the protocol are set and it can
	// Start.
	IsReady() bool

	// SetOthers records the peer protocol once a REQUEST/RESPONSE exchange
	// pairs this protocol with a remote counterpart.
	SetOthers(other Protocol)

	// Start begins the protocol's own operation once paired (and, for a
	// purely local protocol, once its condition is otherwise satisfied).
	Start()

	// Release tears down the protocol: its memories return to RAW.
	Release()

	// ReceivedMessage delivers a wire message addressed to this protocol by
	// name (as opposed to one addressed to the resource manager, which
	// ResourceManager.ReceivedMessage handles instead).
	ReceivedMessage(src string, msg topology.Message)

	Rule() *Rule
	SetRule(r *Rule)

	Own() Host
	SetOwn(h Host)

	// RemoteNode is the peer node name this protocol's REQUEST was sent to,
	// set by ResourceManager.SendRequest. Empty for a purely local protocol.
	RemoteNode() string
	SetRemoteNode(name string)
}

// Host is the subset of a network Node's contract the resource-management
// layer depends on (SPEC_FULL.md §6): sending wire messages and maintaining
// the set of actively-running protocols. A concrete Node (in cmd/simulate or
// a test) embeds or implements both Host and topology.Node.
type Host interface {
	Name() string
	SendMessage(dstName string, msg topology.Message, priority int64)
	Protocols() []Protocol
	AddProtocol(p Protocol)
	RemoveProtocol(p Protocol)
	GetIdleMemory(info *MemoryInfo)
}

func containsProtocol(list []Protocol, p Protocol) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

func removeProtocol(list []Protocol, p Protocol) []Protocol {
	out := list[:0]
	for _, x := range list {
		if x != p {
			out = append(out, x)
		}
	}
	return out
}
