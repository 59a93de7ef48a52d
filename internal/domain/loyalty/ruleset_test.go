package loyalty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRulesSortsDescendingByMinVisits(t *testing.T) {
	rs := NewRuleSet()
	rs.SetRules([]Rule{
		{MinVisits: 2, WindowMonths: 3, ResultingTier: Tier{Name: "VIP", Priority: 1}},
		{MinVisits: 8, WindowMonths: 3, ResultingTier: Tier{Name: "Legend", Priority: 3}},
		{MinVisits: 4, WindowMonths: 3, ResultingTier: Tier{Name: "Super VIP", Priority: 2}},
	})

	rules := rs.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, 8, rules[0].MinVisits)
	assert.Equal(t, 4, rules[1].MinVisits)
	assert.Equal(t, 2, rules[2].MinVisits)
}

func TestSetRulesKeepsSubmittedOrderOnEqualMinVisits(t *testing.T) {
	rs := NewRuleSet()
	rs.SetRules([]Rule{
		{MinVisits: 3, WindowMonths: 3, ResultingTier: Tier{Name: "Gold", Priority: 2}},
		{MinVisits: 3, WindowMonths: 3, ResultingTier: Tier{Name: "Silver", Priority: 1}},
	})

	rules := rs.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "Gold", rules[0].ResultingTier.Name)
	assert.Equal(t, "Silver", rules[1].ResultingTier.Name)
}

func TestRulesReturnsIndependentCopy(t *testing.T) {
	rs := NewRuleSet(DefaultRules()...)

	rules := rs.Rules()
	rules[0] = Rule{MinVisits: 99, WindowMonths: 1, ResultingTier: Tier{Name: "Broken", Priority: 9}}

	assert.NotEqual(t, 99, rs.Rules()[0].MinVisits, "mutation of returned slice must not leak into rule set")
}

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()
	require.Len(t, rules, 2)
	assert.Equal(t, Tier{Name: "Super VIP", Priority: 2}, rules[0].ResultingTier)
	assert.Equal(t, Tier{Name: "VIP", Priority: 1}, rules[1].ResultingTier)
}

func TestRuleApplies(t *testing.T) {
	r := Rule{MinVisits: 3, WindowMonths: 3, ResultingTier: Tier{Name: "VIP", Priority: 1}}
	assert.False(t, r.Applies(2))
	assert.True(t, r.Applies(3))
	assert.True(t, r.Applies(4))
}
