// Package city provides the world container: a named collection of maps,
// paths, units, and agents sharing one global resource bag and one grid
// coordinate system. City.Update implements the per-tick ordering
// contract of design doc Section 4.2.
package city

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/openglassbox/internal/agent"
	"github.com/talgya/openglassbox/internal/navigate"
	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/phi"
	"github.com/talgya/openglassbox/internal/resource"
	"github.com/talgya/openglassbox/internal/rule"
	"github.com/talgya/openglassbox/internal/unit"
	"github.com/talgya/openglassbox/internal/worldmap"
)

// Listener receives construction notifications. Registering a new listener
// on a Simulation replaces any prior one (§6); City forwards through
// whatever listener its owning Simulation last set.
type Listener interface {
	OnUnitAdded(u *unit.Unit)
	OnAgentAdded(a *agent.Agent)
	OnAgentRemoved(a *agent.Agent)
}

// MapRuleTypes/UnitRuleTypes name→pointer lookups a city needs in order to
// resolve MapType.Rules (string names) into firable rule bodies, and to
// resolve an AgentCommand's agent type name into a concrete *agent.AgentType
// when fielding the rule.CityAccessor.SpawnAgent callback.
type Registries struct {
	MapRuleTypes  map[string]*rule.MapRuleType
	UnitRuleTypes map[string]*rule.UnitRuleType
	AgentTypes    map[string]*agent.AgentType
}

// City is the world container described by spec.md §3.
type City struct {
	Name     string
	Position phi.Vec3
	GridU    int
	GridV    int

	registries Registries
	listener   Listener

	globals *resource.Bag

	maps     map[string]*worldmap.Map
	mapOrder []string

	paths     map[string]*pathgraph.Path
	pathOrder []string

	units     map[unit.ID]*unit.Unit
	unitOrder []unit.ID
	nextUnit  unit.ID

	agents     map[agent.ID]*agent.Agent
	agentOrder []agent.ID
	nextAgent  agent.ID
}

// New creates an empty city with the given grid dimensions. regs must
// supply every map-rule-type and agent-type the city's maps/units will
// reference.
func New(name string, pos phi.Vec3, gridU, gridV int, regs Registries) *City {
	return &City{
		Name:       name,
		Position:   pos,
		GridU:      gridU,
		GridV:      gridV,
		registries: regs,
		globals:    resource.NewBag(),
		maps:       make(map[string]*worldmap.Map),
		paths:      make(map[string]*pathgraph.Path),
		units:      make(map[unit.ID]*unit.Unit),
		agents:     make(map[agent.ID]*agent.Agent),
	}
}

// SetListener installs the construction-event sink. A nil listener
// disables notifications.
func (c *City) SetListener(l Listener) { c.listener = l }

// Globals returns the city's global resource bag (rule.CityAccessor).
func (c *City) Globals() *resource.Bag { return c.globals }

// DeclareGlobal registers a global resource type with the given capacity.
func (c *City) DeclareGlobal(name string, capacity uint32) { c.globals.AddType(name, capacity) }

// MapByName returns the map with the given name, or nil (rule.CityAccessor).
func (c *City) MapByName(name string) *worldmap.Map { return c.maps[name] }

// AddMap creates and registers a map of the given type, sized to the
// city's grid, in insertion order.
func (c *City) AddMap(t *worldmap.MapType) (*worldmap.Map, error) {
	if _, exists := c.maps[t.Name]; exists {
		return nil, fmt.Errorf("city %q: map %q already exists", c.Name, t.Name)
	}
	m := worldmap.New(t, c.GridU, c.GridV)
	c.maps[t.Name] = m
	c.mapOrder = append(c.mapOrder, t.Name)
	return m, nil
}

// AddPath creates and registers a path of the given type.
func (c *City) AddPath(t *pathgraph.PathType) (*pathgraph.Path, error) {
	if _, exists := c.paths[t.Name]; exists {
		return nil, fmt.Errorf("city %q: path %q already exists", c.Name, t.Name)
	}
	p := pathgraph.New(t)
	c.paths[t.Name] = p
	c.pathOrder = append(c.pathOrder, t.Name)
	return p, nil
}

// Path returns the named path, or nil.
func (c *City) Path(name string) *pathgraph.Path { return c.paths[name] }

// AddUnit attaches a new unit of type t to pathName at fractional
// parameter frac along way. frac == 0 or 1 binds to the way's existing
// endpoint; any value strictly between splits the way, inserting a new
// node there (§6 construction API, §8 split-way scenario).
func (c *City) AddUnit(t *unit.UnitType, pathName string, way pathgraph.WayID, frac float32) (*unit.Unit, error) {
	p, ok := c.paths[pathName]
	if !ok {
		return nil, fmt.Errorf("city %q: no such path %q", c.Name, pathName)
	}
	w := p.Way(way)
	if w == nil {
		return nil, fmt.Errorf("city %q: path %q has no way %d", c.Name, pathName, way)
	}

	var node pathgraph.NodeID
	switch {
	case frac <= 0:
		node = w.From
	case frac >= 1:
		node = w.To
	default:
		newNode, _, _, err := p.SplitWay(way, frac)
		if err != nil {
			return nil, fmt.Errorf("city %q: add_unit: %w", c.Name, err)
		}
		node = newNode
	}

	id := c.nextUnit
	c.nextUnit++
	u := unit.New(id, t, unit.NodeRef{Path: pathName, Node: node})
	if err := p.BindUnit(node, uint32(id)); err != nil {
		return nil, err
	}
	c.units[id] = u
	c.unitOrder = append(c.unitOrder, id)

	if c.listener != nil {
		c.listener.OnUnitAdded(u)
	}
	return u, nil
}

// SpawnAgent implements rule.CityAccessor: it creates an agent of the
// named type from fromNode, immediately resolving its route via Dijkstra
// to the nearest reachable unit accepting targetName with payload (§4.6).
// If no such unit is reachable, the agent is still created (so listener
// callbacks fire symmetrically) but is marked dead.
func (c *City) SpawnAgent(agentTypeName string, fromNode pathgraph.NodeID, targetName string, payload *resource.Bag) {
	t, ok := c.registries.AgentTypes[agentTypeName]
	if !ok {
		slog.Warn("spawn_agent: unknown agent type", "type", agentTypeName)
		return
	}
	// The unit's node is only meaningful relative to its own path, and the
	// caller (a unit-rule context) does not thread the path name through
	// rule.CityAccessor. pathOwning takes the first path, in insertion
	// order, that has a node with this id; node ids are allocated per path,
	// so with several paths this is not necessarily the firing unit's path.
	pathName, p := c.pathOwning(fromNode)
	if p == nil {
		slog.Warn("spawn_agent: source node not found in any path", "city", c.Name)
		return
	}

	id := c.nextAgent
	c.nextAgent++
	a := agent.New(id, t, pathName, targetName, payload)
	c.agents[id] = a
	c.agentOrder = append(c.agentOrder, id)

	res, destUnitID, found := c.findNearestAccepting(p, fromNode, targetName, payload)
	if !found {
		a.Kill("no unit accepts this target")
	} else {
		a.SetRoute(res.Nodes, res.Ways, destUnitID)
	}

	if c.listener != nil {
		c.listener.OnAgentAdded(a)
	}
}

// AddAgent is the direct construction-API counterpart to the Agent rule
// command (§6): it spawns an agent from fromNode on pathName, searching
// for a unit accepting targetName, without requiring a firing unit rule.
func (c *City) AddAgent(t *agent.AgentType, pathName string, fromNode pathgraph.NodeID, targetName string, payload *resource.Bag) (*agent.Agent, error) {
	p, ok := c.paths[pathName]
	if !ok {
		return nil, fmt.Errorf("city %q: no such path %q", c.Name, pathName)
	}

	id := c.nextAgent
	c.nextAgent++
	a := agent.New(id, t, pathName, targetName, payload)
	c.agents[id] = a
	c.agentOrder = append(c.agentOrder, id)

	res, destUnitID, found := c.findNearestAccepting(p, fromNode, targetName, payload)
	if !found {
		a.Kill("no unit accepts this target")
	} else {
		a.SetRoute(res.Nodes, res.Ways, destUnitID)
	}

	if c.listener != nil {
		c.listener.OnAgentAdded(a)
	}
	return a, nil
}

func (c *City) pathOwning(node pathgraph.NodeID) (string, *pathgraph.Path) {
	for _, name := range c.pathOrder {
		p := c.paths[name]
		if p.Node(node) != nil {
			return name, p
		}
	}
	return "", nil
}

// findNearestAccepting runs Dijkstra from source, accepting the first
// popped node that hosts a unit accepting targetName/payload. Ties among
// units on the same node are broken by unit insertion order (§4.6 point 1).
func (c *City) findNearestAccepting(p *pathgraph.Path, source pathgraph.NodeID, targetName string, payload *resource.Bag) (navigate.Result, uint32, bool) {
	var matchedUnit uint32
	accept := func(n pathgraph.NodeID) bool {
		node := p.Node(n)
		if node == nil {
			return false
		}
		var candidates []unit.ID
		for _, uid := range node.UnitIDs {
			candidates = append(candidates, unit.ID(uid))
		}
		// Break ties by unit insertion order, not node-local array order.
		for _, uid := range c.unitOrder {
			found := false
			for _, cand := range candidates {
				if cand == uid {
					found = true
					break
				}
			}
			if !found {
				continue
			}
			u := c.units[uid]
			if u.Accepts(targetName, payload) {
				matchedUnit = uint32(uid)
				return true
			}
		}
		return false
	}

	res, ok := navigate.Search(p, source, accept)
	if !ok {
		return navigate.Result{}, 0, false
	}
	return res, matchedUnit, true
}

// Update runs one tick for this city: maps (insertion order, rules in
// reverse declaration order), then units (insertion order), then agents
// (insertion order, removing delivered/dead ones afterward) (§4.2).
func (c *City) Update(rng *rand.Rand, tickInterval float32) {
	c.updateMaps(rng)
	c.updateUnits()
	c.updateAgents(tickInterval)
}

func (c *City) updateMaps(rng *rand.Rand) {
	for _, name := range c.mapOrder {
		m := c.maps[name]
		m.TickCount++
		for i := len(m.Type.Rules) - 1; i >= 0; i-- {
			rt, ok := c.registries.MapRuleTypes[m.Type.Rules[i]]
			if !ok {
				slog.Warn("map rule not found", "map", name, "rule", m.Type.Rules[i])
				continue
			}
			if !rt.ShouldFire(m.TickCount) {
				continue
			}
			base := rule.Context{City: c, Globals: c.globals, Radius: 0}
			rt.FireOverMap(m, base, rng)
		}
	}
}

func (c *City) updateUnits() {
	for _, id := range c.unitOrder {
		u := c.units[id]
		p := c.paths[u.Node.Path]
		var hasWays bool
		var cellU, cellV int
		if p != nil {
			if node := p.Node(u.Node.Node); node != nil {
				hasWays = node.HasWays()
				cellU, cellV = worldmap.WorldToCell(node.Position, c.Position, c.GridU, c.GridV)
			}
		}
		ctx := rule.Context{
			City:    c,
			Globals: c.globals,
			U:       cellU,
			V:       cellV,
			Radius:  u.Type.MapRadius,
		}
		rules := make([]*rule.UnitRuleType, len(u.Type.Rules))
		for i, name := range u.Type.Rules {
			rt, ok := c.registries.UnitRuleTypes[name]
			if !ok {
				slog.Warn("unit rule not found", "unit", id, "rule", name)
				continue
			}
			rules[i] = rt
		}
		u.ExecuteRules(ctx, hasWays, rules)
	}
}

func (c *City) updateAgents(tickInterval float32) {
	var dead []agent.ID
	for _, id := range c.agentOrder {
		a := c.agents[id]
		p := c.paths[a.PathName]
		if p == nil {
			dead = append(dead, id)
			continue
		}
		if !a.Alive() {
			dead = append(dead, id)
			continue
		}
		res := a.Update(tickInterval, func(w pathgraph.WayID) float32 { return p.Magnitude(w) })
		if res.Delivered {
			if dest := c.units[unit.ID(a.DestinationUnitID)]; dest != nil {
				for _, name := range a.Payload.Names() {
					amt := a.Payload.Get(name)
					if amt > 0 {
						_, _ = dest.Resources.Add(name, amt)
					}
				}
			}
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		a := c.agents[id]
		delete(c.agents, id)
		removeAgentID(&c.agentOrder, id)
		if c.listener != nil && a != nil {
			c.listener.OnAgentRemoved(a)
		}
	}
}

func removeAgentID(order *[]agent.ID, id agent.ID) {
	s := *order
	for i, v := range s {
		if v == id {
			*order = append(s[:i], s[i+1:]...)
			return
		}
	}
}

// Units returns every unit id, in insertion order.
func (c *City) Units() []unit.ID { return append([]unit.ID(nil), c.unitOrder...) }

// Unit returns the unit with the given id, or nil.
func (c *City) Unit(id unit.ID) *unit.Unit { return c.units[id] }

// Agents returns every agent id in the city's list, in insertion order.
// An agent marked dead stays listed until the next agent pass removes it.
func (c *City) Agents() []agent.ID { return append([]agent.ID(nil), c.agentOrder...) }

// Agent returns the agent with the given id, or nil.
func (c *City) Agent(id agent.ID) *agent.Agent { return c.agents[id] }

// Maps returns every map name, in insertion order.
func (c *City) Maps() []string { return append([]string(nil), c.mapOrder...) }

// Paths returns every path name, in insertion order.
func (c *City) Paths() []string { return append([]string(nil), c.pathOrder...) }
