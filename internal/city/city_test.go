package city

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/openglassbox/internal/agent"
	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/phi"
	"github.com/talgya/openglassbox/internal/resource"
	"github.com/talgya/openglassbox/internal/rule"
	"github.com/talgya/openglassbox/internal/unit"
	"github.com/talgya/openglassbox/internal/worldmap"
)

func newTestCity(t *testing.T, regs Registries) *City {
	t.Helper()
	return New("Testville", phi.Vec3{}, 4, 4, regs)
}

func TestCity_AddUnitSplitsWayAndPreservesPosition(t *testing.T) {
	c := newTestCity(t, Registries{})
	path, err := c.AddPath(&pathgraph.PathType{Name: "Road"})
	require.NoError(t, err)
	a := path.AddNode(phi.Vec3{X: 0})
	b := path.AddNode(phi.Vec3{X: 10})
	w, err := path.AddWay(&pathgraph.WayType{Name: "Street"}, a, b)
	require.NoError(t, err)

	caps := resource.NewBag()
	ut := &unit.UnitType{Name: "Shack", Caps: caps, StartingResources: map[string]uint32{}}

	u, err := c.AddUnit(ut, "Road", w, 0.5)
	require.NoError(t, err)

	node := path.Node(u.Node.Node)
	require.NotNil(t, node)
	assert.Equal(t, float32(5), node.Position.X, "unit bound to a mid-way split must sit exactly at that fraction")
}

func TestCity_AddUnitAtFracZeroBindsExistingEndpoint(t *testing.T) {
	c := newTestCity(t, Registries{})
	path, err := c.AddPath(&pathgraph.PathType{Name: "Road"})
	require.NoError(t, err)
	a := path.AddNode(phi.Vec3{X: 0})
	b := path.AddNode(phi.Vec3{X: 10})
	w, err := path.AddWay(&pathgraph.WayType{Name: "Street"}, a, b)
	require.NoError(t, err)

	caps := resource.NewBag()
	ut := &unit.UnitType{Name: "Shack", Caps: caps, StartingResources: map[string]uint32{}}
	u, err := c.AddUnit(ut, "Road", w, 0)
	require.NoError(t, err)

	assert.Equal(t, a, u.Node.Node, "frac 0 must bind to the existing from-endpoint, not create a new node")
}

func TestCity_SpawnAgentDeliversToNearestAcceptingUnit(t *testing.T) {
	agentTypes := map[string]*agent.AgentType{
		"Cart": {Name: "Cart", Speed: 1000},
	}
	c := newTestCity(t, Registries{AgentTypes: agentTypes})

	path, err := c.AddPath(&pathgraph.PathType{Name: "Road"})
	require.NoError(t, err)
	source := path.AddNode(phi.Vec3{X: 0})
	dest := path.AddNode(phi.Vec3{X: 1})
	_, err = path.AddWay(&pathgraph.WayType{Name: "Street"}, source, dest)
	require.NoError(t, err)

	caps := resource.NewBag()
	caps.AddType("Grain", 10)
	ut := &unit.UnitType{
		Name:              "Silo",
		Caps:              caps,
		TargetNames:       []string{"Food"},
		StartingResources: map[string]uint32{},
	}
	silo, err := c.AddUnit(ut, "Road", 0, 1)
	require.NoError(t, err)

	payload := resource.NewBag()
	payload.AddType("Grain", 3)
	_, _ = payload.Add("Grain", 3)

	c.SpawnAgent("Cart", source, "Food", payload)
	require.Len(t, c.Agents(), 1)

	// One large tick moves the fast cart all the way there and delivers.
	c.updateAgents(10)

	assert.Empty(t, c.Agents(), "delivered agent should be removed")
	assert.Equal(t, uint32(3), silo.Resources.Get("Grain"))
}

func TestCity_SpawnAgentKillsWhenNoUnitAccepts(t *testing.T) {
	agentTypes := map[string]*agent.AgentType{"Cart": {Name: "Cart", Speed: 1}}
	c := newTestCity(t, Registries{AgentTypes: agentTypes})

	path, err := c.AddPath(&pathgraph.PathType{Name: "Road"})
	require.NoError(t, err)
	source := path.AddNode(phi.Vec3{})

	payload := resource.NewBag()
	c.SpawnAgent("Cart", source, "Nonexistent", payload)

	require.Len(t, c.Agents(), 1)
	a := c.Agent(c.Agents()[0])
	assert.False(t, a.Alive())
}

func TestCity_UpdateMapsFiresRulesInReverseDeclarationOrder(t *testing.T) {
	var order []string
	first := &rule.MapRuleType{Name: "First", Rate: 1, Commands: []rule.Command{trackCmd{"First", &order}}}
	second := &rule.MapRuleType{Name: "Second", Rate: 1, Commands: []rule.Command{trackCmd{"Second", &order}}}

	regs := Registries{MapRuleTypes: map[string]*rule.MapRuleType{"First": first, "Second": second}}
	c := newTestCity(t, regs)
	_, err := c.AddMap(&worldmap.MapType{Name: "Grass", CapacityPerCell: 10, Rules: []string{"First", "Second"}})
	require.NoError(t, err)

	c.updateMaps(rand.New(rand.NewSource(1)))

	// Sweep mode fires each rule once per cell, so every "Second" call on
	// the 4x4 grid comes before every "First" call.
	var want []string
	for _, name := range []string{"Second", "First"} {
		for i := 0; i < c.GridU*c.GridV; i++ {
			want = append(want, name)
		}
	}
	assert.Equal(t, want, order)
}

type trackCmd struct {
	name  string
	order *[]string
}

func (c trackCmd) Validate(ctx *rule.Context) bool {
	*c.order = append(*c.order, c.name)
	return true
}
func (c trackCmd) Execute(ctx *rule.Context) {}
