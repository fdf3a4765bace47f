// Package rule implements the typed rule system: RuleContext, the
// IRuleValue accessors (Local/Global/Map), rule commands, and the
// two-phase validate-then-execute semantics that make a rule's side
// effects all-or-nothing. See design doc Sections 4.4, 4.5, 9.
package rule

import (
	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/resource"
	"github.com/talgya/openglassbox/internal/worldmap"
)

// CityAccessor is the slice of City behavior a RuleContext needs. It is
// defined here (rather than taking a concrete *city.City) so that this
// package never imports the city package — city imports rule, and the
// reverse would be a cycle. city.City satisfies this interface
// structurally.
type CityAccessor interface {
	Globals() *resource.Bag
	MapByName(name string) *worldmap.Map
	// SpawnAgent fires on a successful Agent command. It spawns an agent of
	// the given type from fromNode, searching for a unit accepting
	// targetName with payload, and returns once the agent has been created
	// and its route to the nearest accepting unit resolved (§4.6).
	SpawnAgent(agentTypeName string, fromNode pathgraph.NodeID, targetName string, payload *resource.Bag)
}

// UnitAccessor is the slice of Unit behavior a RuleContext needs for the
// Agent command's has_ways() validation and spawn origin.
type UnitAccessor interface {
	HasWays() bool
	NodeID() pathgraph.NodeID
}

// Context carries everything a command needs to validate and execute
// against: the owning city, optionally the firing unit and its local bag,
// the city's global bag, and the map cell/radius under consideration.
// Map rules leave Unit/Locals nil and set the cell; unit rules set all
// fields, with (U,V) the cell under the unit's node and Radius its type's
// map radius.
type Context struct {
	City    CityAccessor
	Unit    UnitAccessor // nil for map rules
	Locals  *resource.Bag // nil for map rules
	Globals *resource.Bag

	U, V   int
	Radius int
}
