package resourcemgr

import "sort"

// RuleManager is an ordered container of Rules, evaluated in ascending
// priority (SPEC_FULL.md §4.7).
type RuleManager struct {
	rules []*Rule
}

// NewRuleManager constructs an empty RuleManager.
func NewRuleManager() *RuleManager {
	return &RuleManager{}
}

// Len returns the number of loaded rules.
func (rm *RuleManager) Len() int { return len(rm.rules) }

// All returns every rule in ascending-priority order.
func (rm *RuleManager) All() []*Rule { return rm.rules }

// Load inserts rule, stable-sorted by ascending priority, and sets its
// back-reference to this manager.
func (rm *RuleManager) Load(rule *Rule) {
	rule.manager = rm
	rm.rules = append(rm.rules, rule)
	sort.SliceStable(rm.rules, func(i, j int) bool {
		return rm.rules[i].Priority < rm.rules[j].Priority
	})
}

// Expire removes rule from the manager and returns the protocols it had
// accumulated, so the ResourceManager can dismantle them (SPEC_FULL.md
// §4.7/§4.8).
func (rm *RuleManager) Expire(rule *Rule) []Protocol {
	for i, r := range rm.rules {
		if r == rule {
			rm.rules = append(rm.rules[:i], rm.rules[i+1:]...)
			break
		}
	}
	return rule.Protocols
}
