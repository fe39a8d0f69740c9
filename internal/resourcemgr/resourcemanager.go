package resourcemgr

import (
	"github.com/theapemachine/qsim/internal/kernel"
	"github.com/theapemachine/qsim/internal/metrics"
	"github.com/theapemachine/qsim/internal/regulator"
	"github.com/theapemachine/qsim/internal/telemetry"
)

// ResourceManager is the central coordinator binding Rules to Memories and
// running the REQUEST/RESPONSE protocol-pairing handshake (SPEC_FULL.md
// §4.8), grounded on
// original_source/tests/resource_management/test_resource_manager.py.
type ResourceManager struct {
	host          Host
	memoryManager *MemoryManager
	ruleManager   *RuleManager

	waitingProtocols []Protocol
	pendingProtocols []Protocol

	tl       *kernel.Timeline
	guard    regulator.Regulator
	created  int64
	log      *telemetry.Logger
	latency  *metrics.LatencyDigest
	sentAt   map[Protocol]int64
}

// NewResourceManager constructs a ResourceManager for host, managing
// memories. guard is an optional advisory fan-out regulator (SPEC_FULL.md
// §4.11) - pass nil to disable it.
func NewResourceManager(tl *kernel.Timeline, host Host, memories []*Memory, guard regulator.Regulator, log *telemetry.Logger) *ResourceManager {
	if log == nil {
		log = telemetry.Noop()
	}
	return &ResourceManager{
		host:          host,
		memoryManager: NewMemoryManager(memories),
		ruleManager:   NewRuleManager(),
		tl:            tl,
		guard:         guard,
		log:           log.With("resource-manager/" + host.Name()),
		latency:       metrics.NewLatencyDigest(),
		sentAt:        make(map[Protocol]int64),
	}
}

// RequestLatency exposes the round-trip REQUEST/RESPONSE latency digest
// (in picoseconds), sampled every time a pending protocol's RESPONSE
// arrives.
func (rm *ResourceManager) RequestLatency() *metrics.LatencyDigest { return rm.latency }

// MemoryManager exposes the managed MemoryInfo table for inspection.
func (rm *ResourceManager) MemoryManager() *MemoryManager { return rm.memoryManager }

// RuleManager exposes the loaded rule set for inspection.
func (rm *ResourceManager) RuleManager() *RuleManager { return rm.ruleManager }

// WaitingProtocols returns the protocols currently awaiting an inbound
// REQUEST (read-only snapshot).
func (rm *ResourceManager) WaitingProtocols() []Protocol {
	out := make([]Protocol, len(rm.waitingProtocols))
	copy(out, rm.waitingProtocols)
	return out
}

// PendingProtocols returns the protocols currently awaiting a RESPONSE
// (read-only snapshot).
func (rm *ResourceManager) PendingProtocols() []Protocol {
	out := make([]Protocol, len(rm.pendingProtocols))
	copy(out, rm.pendingProtocols)
	return out
}

func (rm *ResourceManager) observe() {
	if rm.guard == nil {
		return
	}
	rm.guard.Observe(&regulator.Metrics{
		EventsExecuted:   rm.tl.EventsExecuted(),
		ProtocolsCreated: rm.created,
	})
	if rm.guard.Limit() {
		rm.log.Warn("rule-evaluation fan-out pressure high (protocols created: %d)", rm.created)
	}
}

// Load installs rule, evaluates it against every managed MemoryInfo, and
// binds a Protocol for each match (SPEC_FULL.md §4.8).
func (rm *ResourceManager) Load(rule *Rule) {
	rm.ruleManager.Load(rule)

	for _, info := range rm.memoryManager.All() {
		matches := rule.Condition(info, rm)
		if len(matches) == 0 {
			continue
		}
		rm.bind(rule, matches)
	}
}

// bind runs rule's Action over matches, registers the resulting protocol,
// occupies its memories, and dispatches any outbound requests
// (SPEC_FULL.md §4.8, shared by Load and Update).
func (rm *ResourceManager) bind(rule *Rule, matches []*MemoryInfo) {
	protocol, requests := rule.Action(matches)
	protocol.SetRule(rule)
	protocol.SetOwn(rm.host)
	rule.Protocols = append(rule.Protocols, protocol)
	rm.created++

	for _, info := range matches {
		rm.memoryManager.transition(info, StateOccupied, "")
		rm.memoryManager.attachOwner(info)
	}

	for _, req := range requests {
		rm.SendRequest(protocol, req.RemoteNode, req.Condition)
	}

	rm.observe()
}

// Update records memory's new state. If protocol is non-nil, it is detached
// from memory and removed from its rule's protocol list and from the host's
// running protocols. Every rule is then re-evaluated against memory's
// MemoryInfo in priority order; the first match wins (SPEC_FULL.md §4.8).
func (rm *ResourceManager) Update(protocol Protocol, memory *Memory, newState MemoryState) {
	info, ok := rm.memoryManager.ByName(memory.Name())
	if !ok {
		return
	}

	remoteNode := ""
	if protocol != nil {
		remoteNode = protocol.RemoteNode()
		rm.memoryManager.detachOwner(info)
		if rule := protocol.Rule(); rule != nil {
			rule.Protocols = removeProtocol(rule.Protocols, protocol)
		}
		rm.host.RemoveProtocol(protocol)
	}

	rm.memoryManager.transition(info, newState, remoteNode)

	for _, rule := range rm.ruleManager.All() {
		matches := rule.Condition(info, rm)
		if len(matches) > 0 {
			rm.bind(rule, matches)
			return
		}
	}
}

// SendRequest records protocol's ownership of host and either parks it on
// waitingProtocols (remoteNode == "") or parks it on pendingProtocols and
// dispatches a REQUEST to remoteNode (SPEC_FULL.md §4.8).
func (rm *ResourceManager) SendRequest(protocol Protocol, remoteNode string, reqCondition ReqConditionFunc) {
	protocol.SetOwn(rm.host)

	if remoteNode == "" {
		rm.waitingProtocols = append(rm.waitingProtocols, protocol)
		return
	}

	protocol.SetRemoteNode(remoteNode)
	rm.pendingProtocols = append(rm.pendingProtocols, protocol)
	rm.sentAt[protocol] = rm.tl.Now()
	rm.host.SendMessage(remoteNode, &ResourceManagerMessage{
		Type:         MsgRequest,
		Protocol:     protocol,
		ReqCondition: reqCondition,
	}, kernel.DefaultPriority)
}

// ReceivedMessage dispatches an inbound ResourceManagerMessage by type
// (SPEC_FULL.md §4.8).
func (rm *ResourceManager) ReceivedMessage(src string, msg *ResourceManagerMessage) {
	switch msg.Type {
	case MsgRequest:
		rm.handleRequest(src, msg)
	case MsgResponse:
		rm.handleResponse(msg)
	}
}

func (rm *ResourceManager) handleRequest(src string, msg *ResourceManagerMessage) {
	var paired Protocol
	if msg.ReqCondition != nil {
		paired = msg.ReqCondition(rm.waitingProtocols)
	}

	if paired != nil {
		rm.waitingProtocols = removeProtocol(rm.waitingProtocols, paired)
		rm.host.AddProtocol(paired)
		paired.SetOthers(msg.Protocol)
		if paired.IsReady() {
			paired.Start()
		}
		rm.host.SendMessage(src, &ResourceManagerMessage{
			Type:           MsgResponse,
			Protocol:       msg.Protocol,
			IsApproved:     true,
			PairedProtocol: paired,
		}, kernel.DefaultPriority)
		return
	}

	rm.host.SendMessage(src, &ResourceManagerMessage{
		Type:       MsgResponse,
		Protocol:   msg.Protocol,
		IsApproved: false,
	}, kernel.DefaultPriority)
}

func (rm *ResourceManager) handleResponse(msg *ResourceManagerMessage) {
	protocol := msg.Protocol
	if !containsProtocol(rm.pendingProtocols, protocol) {
		return
	}
	rm.pendingProtocols = removeProtocol(rm.pendingProtocols, protocol)

	if sentAt, ok := rm.sentAt[protocol]; ok {
		rm.latency.Record(rm.tl.Now() - sentAt)
		delete(rm.sentAt, protocol)
	}

	if msg.IsApproved {
		rm.host.AddProtocol(protocol)
		protocol.SetOthers(msg.PairedProtocol)
		if protocol.IsReady() {
			protocol.Start()
		}
		return
	}

	if rule := protocol.Rule(); rule != nil {
		rule.Protocols = removeProtocol(rule.Protocols, protocol)
	}
	rm.releaseMemories(protocol)
}

// Expire dismantles every protocol rule had accumulated: running protocols
// have their memories returned to RAW and are then released, waiting
// protocols release their memories, and pending protocols are cancelled
// with a RESPONSE(approved=false) to their remote peer before releasing
// memories (SPEC_FULL.md §4.8).
func (rm *ResourceManager) Expire(rule *Rule) {
	protocols := append([]Protocol(nil), rm.ruleManager.Expire(rule)...)

	for _, p := range protocols {
		switch {
		case containsProtocol(rm.host.Protocols(), p):
			rm.host.RemoveProtocol(p)
			rm.releaseMemories(p)
			p.Release()

		case containsProtocol(rm.waitingProtocols, p):
			rm.waitingProtocols = removeProtocol(rm.waitingProtocols, p)
			rm.releaseMemories(p)

		case containsProtocol(rm.pendingProtocols, p):
			rm.pendingProtocols = removeProtocol(rm.pendingProtocols, p)
			delete(rm.sentAt, p)
			if remote := p.RemoteNode(); remote != "" {
				rm.host.SendMessage(remote, &ResourceManagerMessage{
					Type:       MsgResponse,
					Protocol:   p,
					IsApproved: false,
				}, kernel.DefaultPriority)
			}
			rm.releaseMemories(p)
		}
	}
}

// releaseMemories transitions every memory protocol holds back to RAW and
// detaches its observer token.
func (rm *ResourceManager) releaseMemories(protocol Protocol) {
	for _, mem := range protocol.Memories() {
		info, ok := rm.memoryManager.ByName(mem.Name())
		if !ok {
			continue
		}
		rm.memoryManager.detachOwner(info)
		rm.memoryManager.transition(info, StateRaw, "")
	}
}
