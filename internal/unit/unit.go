// Package unit provides the stationary producer/consumer entity bound to a
// path graph node: UnitType (template) and Unit (instance), including
// unit-rule execution and the accepts()/has_ways() predicates agents rely
// on for target matching (§3, §4.5).
package unit

import (
	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/resource"
	"github.com/talgya/openglassbox/internal/rule"
)

// ID identifies a unit within a city.
type ID uint32

// NodeRef names a node within one of a city's paths: a bare NodeID is only
// meaningful relative to the Path that allocated it, so units (and agents)
// carry the path name alongside it.
type NodeRef struct {
	Path string
	Node pathgraph.NodeID
}

// UnitType is the immutable template for a kind of unit: its resource cap
// template, starting resources, accepted target names for agent matching,
// map-rule radius, and the *names* of the unit-rules it runs each tick.
// Names, not rule.UnitRuleType pointers, so that forward references to
// rule names declared later in a script resolve at the registry rather
// than requiring a second parse pass here.
type UnitType struct {
	Name              string
	Color             uint32
	MapRadius         int
	TargetNames       []string
	Caps              *resource.Bag // capacities only; amounts ignored
	StartingResources map[string]uint32
	Rules             []string
}

// Unit is a single instance of a UnitType bound to exactly one node.
type Unit struct {
	ID        ID
	Type      *UnitType
	Node      NodeRef
	Resources *resource.Bag
	TickCount uint64

	hasWays bool
}

// New creates a unit instance, cloning its type's cap template and
// applying its starting resources.
func New(id ID, t *UnitType, node NodeRef) *Unit {
	res := resource.NewBag()
	for _, name := range t.Caps.Names() {
		res.AddType(name, t.Caps.Capacity(name))
	}
	for name, amt := range t.StartingResources {
		_, _ = res.Add(name, amt)
	}
	return &Unit{ID: id, Type: t, Node: node, Resources: res}
}

// NodeID satisfies rule.UnitAccessor.
func (u *Unit) NodeID() pathgraph.NodeID { return u.Node.Node }

// HasWays satisfies rule.UnitAccessor. The value reflects the node's way
// count as of the most recent ExecuteRules call.
func (u *Unit) HasWays() bool { return u.hasWays }

// Accepts reports whether this unit is a valid agent-delivery target for
// targetName carrying payload: its type must declare targetName, and it
// must have room for every resource in payload (§4.5).
func (u *Unit) Accepts(targetName string, payload *resource.Bag) bool {
	declared := false
	for _, name := range u.Type.TargetNames {
		if name == targetName {
			declared = true
			break
		}
	}
	if !declared {
		return false
	}
	for _, name := range payload.Names() {
		amt := payload.Get(name)
		if amt == 0 {
			continue
		}
		if !u.Resources.Has(name) {
			return false
		}
		// resource.Bag.CanAdd only checks that the type is declared, since
		// a fired AddCommand saturates rather than failing; here we need a
		// real room check, so compare against capacity directly.
		room := u.Resources.Capacity(name) - u.Resources.Get(name)
		if amt > room {
			return false
		}
	}
	return true
}

// ExecuteRules increments the unit's tick counter, finalizes ctx with this
// unit's locals, and fires every due rule in reverse declaration order
// (§4.5). hasWays must reflect the unit's current node topology, and rules
// must be this unit's type's rules resolved against the rule-type
// registry, in declaration order; both are the caller's (city's)
// responsibility since only it holds the path topology and registries.
func (u *Unit) ExecuteRules(ctx rule.Context, hasWays bool, rules []*rule.UnitRuleType) {
	u.TickCount++
	u.hasWays = hasWays

	ctx.Unit = u
	ctx.Locals = u.Resources

	for i := len(rules) - 1; i >= 0; i-- {
		rt := rules[i]
		if rt == nil {
			continue
		}
		if rt.ShouldFire(u.TickCount) {
			rt.Fire(&ctx)
		}
	}
}
