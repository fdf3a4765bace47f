// Package dslparser implements the whitespace-delimited DSL scanner and
// parser described in design doc Section 4.8: it reads a script's
// resources/maps/paths/segments/agents/units/rules sections and produces a
// Catalog of immutable type objects, the same catalog shape
// simulation.Simulation merges its registries from.
package dslparser

import (
	"github.com/talgya/openglassbox/internal/agent"
	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/rule"
	"github.com/talgya/openglassbox/internal/unit"
	"github.com/talgya/openglassbox/internal/worldmap"
)

// Catalog is the full set of named types one script declares.
type Catalog struct {
	ResourceNames map[string]bool
	MapTypes      map[string]*worldmap.MapType
	PathTypes     map[string]*pathgraph.PathType
	WayTypes      map[string]*pathgraph.WayType
	AgentTypes    map[string]*agent.AgentType
	UnitTypes     map[string]*unit.UnitType
	MapRuleTypes  map[string]*rule.MapRuleType
	UnitRuleTypes map[string]*rule.UnitRuleType
}

func newCatalog() *Catalog {
	return &Catalog{
		ResourceNames: make(map[string]bool),
		MapTypes:      make(map[string]*worldmap.MapType),
		PathTypes:     make(map[string]*pathgraph.PathType),
		WayTypes:      make(map[string]*pathgraph.WayType),
		AgentTypes:    make(map[string]*agent.AgentType),
		UnitTypes:     make(map[string]*unit.UnitType),
		MapRuleTypes:  make(map[string]*rule.MapRuleType),
		UnitRuleTypes: make(map[string]*rule.UnitRuleType),
	}
}
