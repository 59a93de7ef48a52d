package loyalty

import (
	"sort"
	"sync"
)

// RuleSet is the process-wide collection of active loyalty rules. The
// original design kept rules in a global singleton; here the rule set is an
// explicit dependency injected into services. The mutex only guards rule
// replacement coming from the configuration surface against in-flight
// classification reads - there is no versioning or rollback, replaced rules
// take effect for the next classification immediately.
//
// Rules are always stored descending by MinVisits. Sorting is stable, so
// two rules with equal MinVisits keep their submitted relative order - the
// caller wanting a stricter tie-break (e.g. by tier priority) must pre-sort
// accordingly before calling SetRules.
type RuleSet struct {
	mu    sync.RWMutex
	rules []Rule
}

// NewRuleSet creates rule set pre-populated with provided rules
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{}
	rs.SetRules(rules)
	return rs
}

// DefaultRules returns bootstrap rules used until the configuration
// surface replaces them: within 3 months 4+ visits make a customer
// Super VIP, 2+ visits make him VIP
func DefaultRules() []Rule {
	return []Rule{
		{MinVisits: 4, WindowMonths: 3, ResultingTier: Tier{Name: "Super VIP", Priority: 2}},
		{MinVisits: 2, WindowMonths: 3, ResultingTier: Tier{Name: "VIP", Priority: 1}},
	}
}

// SetRules replaces active rules re-sorting them descending by MinVisits
// regardless of submitted order
func (rs *RuleSet) SetRules(rules []Rule) {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinVisits > sorted[j].MinVisits
	})

	rs.mu.Lock()
	rs.rules = sorted
	rs.mu.Unlock()
}

// Rules returns an independent copy of active rules, mutation of the
// returned slice never affects the rule set
func (rs *RuleSet) Rules() []Rule {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	rules := make([]Rule, len(rs.rules))
	copy(rules, rs.rules)
	return rules
}
