package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/resource"
	"github.com/talgya/openglassbox/internal/rule"
)

func TestNew_AppliesStartingResourcesWithinCaps(t *testing.T) {
	caps := resource.NewBag()
	caps.AddType("Grain", 20)

	ut := &UnitType{
		Name:              "Farm",
		Caps:              caps,
		StartingResources: map[string]uint32{"Grain": 5},
	}

	u := New(1, ut, NodeRef{Path: "Road", Node: 0})
	assert.Equal(t, uint32(5), u.Resources.Get("Grain"))
	assert.Equal(t, uint32(20), u.Resources.Capacity("Grain"))
}

func TestUnit_AcceptsRequiresDeclaredTargetAndRoom(t *testing.T) {
	caps := resource.NewBag()
	caps.AddType("Grain", 10)
	ut := &UnitType{Name: "Silo", Caps: caps, TargetNames: []string{"Food"}, StartingResources: map[string]uint32{}}
	u := New(1, ut, NodeRef{})
	_, _ = u.Resources.Add("Grain", 8)

	payload := resource.NewBag()
	payload.AddType("Grain", 1)
	_, _ = payload.Add("Grain", 1)

	assert.True(t, u.Accepts("Food", payload))
	assert.False(t, u.Accepts("Water", payload), "undeclared target name")

	big := resource.NewBag()
	big.AddType("Grain", 5)
	_, _ = big.Add("Grain", 5)
	assert.False(t, u.Accepts("Food", big), "no room left for this much Grain")
}

func TestUnit_ExecuteRulesFiresInReverseDeclarationOrder(t *testing.T) {
	caps := resource.NewBag()
	caps.AddType("Grain", 100)
	ut := &UnitType{Name: "Farm", Caps: caps, StartingResources: map[string]uint32{}, Rules: []string{"A", "B"}}
	u := New(1, ut, NodeRef{})

	var order []string
	ruleA := &rule.UnitRuleType{Name: "A", Rate: 1, Commands: []rule.Command{
		trackingCommand{name: "A", order: &order},
	}}
	ruleB := &rule.UnitRuleType{Name: "B", Rate: 1, Commands: []rule.Command{
		trackingCommand{name: "B", order: &order},
	}}

	ctx := rule.Context{Globals: resource.NewBag()}
	u.ExecuteRules(ctx, true, []*rule.UnitRuleType{ruleA, ruleB})

	assert.Equal(t, []string{"B", "A"}, order)
	assert.True(t, u.HasWays())
	assert.Equal(t, uint64(1), u.TickCount)
}

type trackingCommand struct {
	name  string
	order *[]string
}

func (c trackingCommand) Validate(ctx *rule.Context) bool {
	*c.order = append(*c.order, c.name)
	return true
}
func (c trackingCommand) Execute(ctx *rule.Context) {}

func TestUnit_NodeIDAndHasWaysSatisfyRuleUnitAccessor(t *testing.T) {
	caps := resource.NewBag()
	ut := &UnitType{Name: "Farm", Caps: caps, StartingResources: map[string]uint32{}}
	u := New(1, ut, NodeRef{Path: "Road", Node: 7})

	var accessor rule.UnitAccessor = u
	require.Equal(t, pathgraph.NodeID(7), accessor.NodeID())
	assert.False(t, accessor.HasWays())
}
