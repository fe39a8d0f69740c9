package resourcemgr

// ResourceManagerReceiver is the sentinel Receiver() value routing a
// Message to ResourceManager.ReceivedMessage rather than to a named
// Protocol (SPEC_FULL.md §6).
const ResourceManagerReceiver = "resource_manager"

// MsgType distinguishes the two ResourceManagerMessage shapes.
type MsgType string

const (
	MsgRequest  MsgType = "REQUEST"
	MsgResponse MsgType = "RESPONSE"
)

// ResourceManagerMessage is the wire payload exchanged between
// ResourceManagers over a ClassicalChannel to negotiate protocol pairing
// (SPEC_FULL.md §6).
type ResourceManagerMessage struct {
	Type MsgType

	// Protocol is the REQUEST's originating protocol, or (on RESPONSE) the
	// protocol the response concerns.
	Protocol Protocol

	// ReqCondition is carried only on REQUEST.
	ReqCondition ReqConditionFunc

	// IsApproved and PairedProtocol are carried only on RESPONSE.
	IsApproved     bool
	PairedProtocol Protocol
}

// MsgType satisfies topology.Message.
func (m *ResourceManagerMessage) MsgType() string { return string(m.Type) }

// Receiver satisfies topology.Message: always routed to the resource
// manager.
func (m *ResourceManagerMessage) Receiver() string { return ResourceManagerReceiver }
