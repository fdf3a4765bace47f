// Package agent provides the mobile entity that travels along a
// precomputed sequence of ways, carrying a resource payload from the unit
// that spawned it to the unit that accepted it (§3, §4.6).
package agent

import (
	"log/slog"

	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/phi"
	"github.com/talgya/openglassbox/internal/resource"
)

// ID identifies an agent within a city.
type ID uint32

// AgentType is the immutable template for a kind of agent: display color
// and travel speed (world units per simulated second; each tick advances
// the agent by Speed times the tick interval).
type AgentType struct {
	Name  string
	Color uint32
	Speed float32
}

// Agent is a mobile entity. It is alive from the moment it is spawned
// until it either delivers its payload or is found to have no reachable
// target, at which point it is marked dead and removed from the city's
// agent list on the next pass (§4.6).
type Agent struct {
	ID       ID
	Type     *AgentType
	PathName string

	Payload        *resource.Bag
	SearchedTarget string

	// DestinationUnitID is the unit this agent is delivering to, resolved at
	// spawn time by the nearest-reachable-accepting-unit search.
	DestinationUnitID uint32

	// routeNodes[i] -> routeNodes[i+1] is traversed via routeWays[i]; cursor
	// indexes the edge currently being walked. len(routeWays) ==
	// len(routeNodes)-1.
	routeNodes []pathgraph.NodeID
	routeWays  []pathgraph.WayID
	cursor     int
	Offset     float32

	routed          bool
	pendingDelivery bool
	alive           bool
	dead            bool
}

// New creates an agent that has been spawned but not yet routed. Until
// SetRoute is called, the agent is alive but idle; if Kill is called
// instead (no reachable target), it is dead from the start.
func New(id ID, t *AgentType, pathName, searchedTarget string, payload *resource.Bag) *Agent {
	return &Agent{
		ID:             id,
		Type:           t,
		PathName:       pathName,
		Payload:        payload,
		SearchedTarget: searchedTarget,
		alive:          true,
	}
}

// SetRoute installs the shortest path found for this agent: a node
// sequence and the way joining each consecutive pair, as produced by
// navigate.Search. destinationUnitID is the unit that will receive the
// payload on arrival.
//
// A single-node, no-way result means the nearest accepting unit is bound
// to the agent's own starting node (distance zero, per §4.6 point 1 — zero
// is a valid, minimal distance, not a failed search). That is delivered on
// the agent's next Update rather than treated as unreachable.
func (a *Agent) SetRoute(nodes []pathgraph.NodeID, ways []pathgraph.WayID, destinationUnitID uint32) {
	if len(nodes) == 1 && len(ways) == 0 {
		a.routed = true
		a.DestinationUnitID = destinationUnitID
		a.routeNodes = nodes
		a.routeWays = nil
		a.cursor = 0
		a.Offset = 0
		a.pendingDelivery = true
		return
	}
	if len(nodes) < 2 || len(ways) != len(nodes)-1 {
		a.Kill("agent spawned with no route")
		return
	}
	a.routed = true
	a.DestinationUnitID = destinationUnitID
	a.routeNodes = nodes
	a.routeWays = ways
	a.cursor = 0
	a.Offset = 0
}

// Kill marks the agent dead without delivering its payload — used when no
// unit accepting the searched target is reachable (§4.6 point 2: the agent
// still spawns, so listener callbacks fire symmetrically, but dies on its
// next update).
func (a *Agent) Kill(reason string) {
	if a.dead {
		return
	}
	a.dead = true
	slog.Debug("agent has no reachable target", "agent_type", a.Type.Name, "target", a.SearchedTarget, "reason", reason)
}

// Alive reports whether the agent should still be updated and rendered.
func (a *Agent) Alive() bool { return a.alive && !a.dead }

// DestinationNode returns the node the agent is traveling toward.
func (a *Agent) DestinationNode() pathgraph.NodeID {
	if len(a.routeNodes) == 0 {
		return 0
	}
	return a.routeNodes[len(a.routeNodes)-1]
}

// CurrentWay returns the way the agent is presently traversing.
func (a *Agent) CurrentWay() pathgraph.WayID {
	if !a.routed || a.cursor >= len(a.routeWays) {
		return 0
	}
	return a.routeWays[a.cursor]
}

// EdgeFrom and EdgeTo return the endpoints of the current edge, in the
// direction of travel (which may be reversed relative to the Way's own
// From/To). Not valid to call once Update has reported Delivered.
func (a *Agent) EdgeFrom() pathgraph.NodeID { return a.routeNodes[a.cursor] }
func (a *Agent) EdgeTo() pathgraph.NodeID   { return a.routeNodes[a.cursor+1] }

// TickResult is returned by Update to tell the caller (city) what
// happened this tick.
type TickResult struct {
	Delivered bool // true once: transfer Payload into the destination unit, then remove the agent
}

// Update advances the agent along its route by speed*tickInterval world
// units, crossing edges as needed, and reports delivery on arrival (§4.6).
// magnitude is supplied by the caller (city), which owns the Path.
func (a *Agent) Update(tickInterval float32, magnitude func(pathgraph.WayID) float32) TickResult {
	if !a.Alive() || !a.routed {
		return TickResult{}
	}

	if a.pendingDelivery {
		a.pendingDelivery = false
		a.alive = false
		return TickResult{Delivered: true}
	}

	a.Offset += a.Type.Speed * tickInterval

	for {
		mag := magnitude(a.routeWays[a.cursor])
		if mag > 0 && a.Offset < mag {
			break
		}
		if mag > 0 {
			a.Offset -= mag
		} else {
			a.Offset = 0
		}
		a.cursor++
		if a.cursor >= len(a.routeWays) {
			a.Offset = 0
			a.alive = false
			return TickResult{Delivered: true}
		}
	}

	return TickResult{}
}

// Position returns the agent's current world position, linearly
// interpolated along its current edge (§4.6).
func (a *Agent) Position(nodePos func(pathgraph.NodeID) phi.Vec3, magnitude func(pathgraph.WayID) float32) phi.Vec3 {
	if !a.routed {
		return phi.Vec3{}
	}
	if a.pendingDelivery || len(a.routeWays) == 0 {
		return nodePos(a.routeNodes[0])
	}
	from := nodePos(a.EdgeFrom())
	to := nodePos(a.EdgeTo())
	mag := magnitude(a.CurrentWay())
	if mag == 0 {
		return from
	}
	return phi.Lerp(from, to, a.Offset/mag)
}
