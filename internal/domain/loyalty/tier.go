package loyalty

// Tier is a loyalty category with numeric priority, higher priority means
// more elite category. Two tiers are equal iff both name and priority match
type Tier struct {
	Name     string `json:"name" msgpack:"name"`
	Priority int    `json:"priority" msgpack:"priority"`
}

// Baseline returns the fallback tier assigned when no rule applies. It is
// never configured explicitly
func Baseline() Tier {
	return Tier{Name: "Regular", Priority: 0}
}

// Rule maps a minimal visits amount within a window of months to resulting
// tier. Rule parameters are validated at the configuration boundary, so the
// domain assumes MinVisits and WindowMonths are positive
type Rule struct {
	MinVisits     int  `json:"minVisits"`
	WindowMonths  int  `json:"windowMonths"`
	ResultingTier Tier `json:"resultingTier"`
}

// Applies reports whether amount of visits within the rule window reaches
// the rule threshold
func (r Rule) Applies(visitsInWindow int) bool {
	return visitsInWindow >= r.MinVisits
}
