package resourcemgr

// ConditionFunc decides whether info currently matches a Rule, returning
// the set of MemoryInfos (possibly including others beyond info, for
// multi-memory protocols such as swapping) to bind together if so, or nil
// if not (SPEC_FULL.md §4.7/§4.8).
type ConditionFunc func(info *MemoryInfo, manager *ResourceManager) []*MemoryInfo

// ReqConditionFunc is supplied with a REQUEST message and the receiving
// node's current waiting_protocols; it returns the Protocol to pair with,
// or nil if none matches (SPEC_FULL.md §4.8).
type ReqConditionFunc func(waiting []Protocol) Protocol

// RemoteRequest is one (remote node, req-condition) pairing an ActionFunc
// asks the ResourceManager to dispatch via send_request. RemoteNode==""
// means a purely local (waiting) binding.
type RemoteRequest struct {
	RemoteNode string
	Condition  ReqConditionFunc
}

// ActionFunc builds a Protocol bound to matches and describes which remote
// nodes (if any) it needs to coordinate with (SPEC_FULL.md §4.8).
type ActionFunc func(matches []*MemoryInfo) (Protocol, []RemoteRequest)

// Rule pairs a Condition with an Action at a given priority (ascending
// priority wins ties in the ResourceManager's evaluation order -
// SPEC_FULL.md §4.7/§4.8).
type Rule struct {
	Priority  int
	Action    ActionFunc
	Condition ConditionFunc
	Protocols []Protocol

	manager *RuleManager
}

// NewRule constructs a Rule. Passing a nil Action/Condition is valid for
// rules used only as a Protocol grouping placeholder in tests.
func NewRule(priority int, action ActionFunc, condition ConditionFunc) *Rule {
	return &Rule{Priority: priority, Action: action, Condition: condition}
}
