// Package node provides the Node type that wires the optical, resource-
// management, and topology layers together into something a channel can
// address and a ResourceManager can drive (SPEC_FULL.md §6).
package node

import (
	"github.com/theapemachine/qsim/internal/kernel"
	"github.com/theapemachine/qsim/internal/optical"
	"github.com/theapemachine/qsim/internal/resourcemgr"
	"github.com/theapemachine/qsim/internal/telemetry"
	"github.com/theapemachine/qsim/internal/topology"
)

// Node is a concrete network endpoint: it owns a ResourceManager, a set of
// running protocols, and the optical channels reaching its peers. It
// satisfies both topology.Node (what optical channels call) and
// resourcemgr.Host (what a ResourceManager calls).
type Node struct {
	*kernel.BaseEntity

	resourceManager *resourcemgr.ResourceManager
	protocols       []resourcemgr.Protocol

	qchannels map[string]*optical.QuantumChannel
	cchannels map[string]*optical.ClassicalChannel

	log *telemetry.Logger
}

// New constructs a Node registered on tl under name. Call SetResourceManager
// once the Node's ResourceManager has been built (it needs the Node itself
// as its Host).
func New(tl *kernel.Timeline, name string) *Node {
	n := &Node{
		BaseEntity: kernel.NewBaseEntity(tl, name),
		qchannels:  make(map[string]*optical.QuantumChannel),
		cchannels:  make(map[string]*optical.ClassicalChannel),
		log:        tl.Log().With(name),
	}
	tl.Register(n)
	return n
}

// SetResourceManager attaches rm as the Node's resource manager.
func (n *Node) SetResourceManager(rm *resourcemgr.ResourceManager) {
	n.resourceManager = rm
}

// ResourceManager returns the Node's resource manager.
func (n *Node) ResourceManager() *resourcemgr.ResourceManager { return n.resourceManager }

// Init marks the Node initialized. Its channels are separate entities that
// the Timeline initializes on their own; its resource manager is a plain
// value with no Init step.
func (n *Node) Init() {
	n.MarkInitialized()
}

// AssignQChannel records ch as the QuantumChannel reaching peerName.
func (n *Node) AssignQChannel(ch any, peerName string) {
	n.qchannels[peerName] = ch.(*optical.QuantumChannel)
}

// AssignCChannel records ch as the ClassicalChannel reaching peerName.
func (n *Node) AssignCChannel(ch any, peerName string) {
	n.cchannels[peerName] = ch.(*optical.ClassicalChannel)
}

// ReceiveQubit is invoked by a QuantumChannel when a qubit arrives from
// srcName. The demo build has no quantum-memory write-in path wired up; it
// just logs arrival (SPEC_FULL.md §4.15 - not a source of new core
// semantics).
func (n *Node) ReceiveQubit(srcName string, qubit topology.Qubit) {
	n.log.Debug("received qubit from %s", srcName)
}

// ReceiveMessage is invoked by a ClassicalChannel when a message arrives
// from srcName. Messages addressed to the resource manager are routed
// there; all others are routed to the matching named Protocol (SPEC_FULL.md
// §6).
func (n *Node) ReceiveMessage(srcName string, msg topology.Message) {
	if msg.Receiver() == resourcemgr.ResourceManagerReceiver {
		rmMsg, ok := msg.(*resourcemgr.ResourceManagerMessage)
		if !ok {
			n.log.Warn("message addressed to resource manager has unexpected type")
			return
		}
		n.resourceManager.ReceivedMessage(srcName, rmMsg)
		return
	}

	for _, p := range n.protocols {
		if p.Name() == msg.Receiver() {
			p.ReceivedMessage(srcName, msg)
			return
		}
	}
}

// SendMessage transmits msg to the ClassicalChannel reaching dstName.
func (n *Node) SendMessage(dstName string, msg topology.Message, priority int64) {
	ch, ok := n.cchannels[dstName]
	if !ok {
		panic(&kernel.MisuseError{Op: "send_message", Msg: "node " + n.Name() + " has no classical channel to " + dstName})
	}
	ch.Transmit(msg, n, priority)
}

// Protocols returns the Node's currently running protocols.
func (n *Node) Protocols() []resourcemgr.Protocol { return n.protocols }

// AddProtocol appends p to the Node's running protocols.
func (n *Node) AddProtocol(p resourcemgr.Protocol) {
	n.protocols = append(n.protocols, p)
}

// RemoveProtocol removes p from the Node's running protocols, if present.
func (n *Node) RemoveProtocol(p resourcemgr.Protocol) {
	out := n.protocols[:0]
	for _, x := range n.protocols {
		if x != p {
			out = append(out, x)
		}
	}
	n.protocols = out
}

// GetIdleMemory is the hook ResourceManager invokes when a memory becomes
// available; the demo build has nothing that needs to react, so it only
// logs (SPEC_FULL.md §6).
func (n *Node) GetIdleMemory(info *resourcemgr.MemoryInfo) {
	n.log.Debug("memory %s idle", info.Memory.Name())
}

var (
	_ topology.Node    = (*Node)(nil)
	_ resourcemgr.Host = (*Node)(nil)
)
