// Package topology defines the small set of contracts optical channels and
// the resource-management layer both depend on, without either owning the
// other. This breaks the natural import cycle between "a channel schedules
// delivery to a node" and "a node carries a resource manager that channels
// never touch directly" (SPEC_FULL.md §6).
package topology

// EncodingType describes how a Qubit carries its state. Only the name is
// inspected by QuantumChannel (polarization-fidelity noise application);
// the rest is carried opaquely for Protocol-level use.
type EncodingType struct {
	Name string
}

// Qubit is the photon contract used by QuantumChannel.Transmit
// (SPEC_FULL.md §6). IsNull reports a vacuum/placeholder state that bypasses
// loss. RandomNoise mutates the qubit's encoded state in place.
type Qubit interface {
	EncodingType() EncodingType
	IsNull() bool
	RandomNoise()
}

// Message is the generic wire payload carried over a ClassicalChannel.
// Receiver names the protocol (or the resource manager) the message is for;
// the receiving Node, not the channel, resolves it by exact name. Message
// carries no protocol type, and a Message whose Receiver is "" is delivered
// to no protocol.
type Message interface {
	MsgType() string
	Receiver() string
}

// Node is the external collaborator contract expected by the optical and
// resource-management layers (SPEC_FULL.md §6). Concrete network nodes
// implement it; internal/node.Node implements it together with
// internal/resourcemgr.Host for the demo CLI.
type Node interface {
	Name() string
	AssignQChannel(ch any, peerName string)
	AssignCChannel(ch any, peerName string)
	ReceiveQubit(srcName string, qubit Qubit)
	ReceiveMessage(srcName string, msg Message)
}
