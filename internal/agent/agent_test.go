package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/phi"
	"github.com/talgya/openglassbox/internal/resource"
)

func TestAgent_SetRouteKillsOnDegenerateRoute(t *testing.T) {
	a := New(1, &AgentType{Name: "Cart", Speed: 1}, "Road", "Food", resource.NewBag())

	a.SetRoute([]pathgraph.NodeID{1, 2}, nil, 0) // two nodes need one way, got none
	assert.False(t, a.Alive())
}

func TestAgent_SetRouteDeliversImmediatelyOnZeroDistanceMatch(t *testing.T) {
	a := New(1, &AgentType{Name: "Cart", Speed: 1}, "Road", "Food", resource.NewBag())

	// A single-node, no-way result is what navigate.Search returns when the
	// nearest accepting unit sits on the agent's own starting node.
	a.SetRoute([]pathgraph.NodeID{7}, nil, 42)
	require.True(t, a.Alive(), "a zero-distance match is a real route, not a failed search")

	pos := a.Position(
		func(n pathgraph.NodeID) phi.Vec3 { return phi.Vec3{X: 9} },
		func(pathgraph.WayID) float32 { return 0 },
	)
	assert.Equal(t, float32(9), pos.X, "position before the first Update must not index past the single node")

	res := a.Update(1.0, func(pathgraph.WayID) float32 { return 0 })
	assert.True(t, res.Delivered)
	assert.False(t, a.Alive())
	assert.Equal(t, uint32(42), a.DestinationUnitID)
}

func TestAgent_UpdateCrossesMultipleEdgesInOneTick(t *testing.T) {
	a := New(1, &AgentType{Name: "Cart", Speed: 10}, "Road", "Food", resource.NewBag())
	a.SetRoute(
		[]pathgraph.NodeID{0, 1, 2},
		[]pathgraph.WayID{100, 101},
		42,
	)

	magnitude := func(w pathgraph.WayID) float32 { return 1 } // two 1-unit edges

	res := a.Update(1.0, magnitude) // speed*interval = 10, crosses both edges

	assert.True(t, res.Delivered)
	assert.False(t, a.Alive())
}

func TestAgent_UpdateStopsMidEdgeWhenNotEnoughDistance(t *testing.T) {
	a := New(1, &AgentType{Name: "Cart", Speed: 1}, "Road", "Food", resource.NewBag())
	a.SetRoute(
		[]pathgraph.NodeID{0, 1},
		[]pathgraph.WayID{100},
		42,
	)

	magnitude := func(w pathgraph.WayID) float32 { return 10 }
	res := a.Update(1.0, magnitude)

	assert.False(t, res.Delivered)
	assert.True(t, a.Alive())
	assert.Equal(t, pathgraph.NodeID(0), a.EdgeFrom())
	assert.Equal(t, pathgraph.NodeID(1), a.EdgeTo())
}

func TestAgent_PositionInterpolatesAlongCurrentEdge(t *testing.T) {
	a := New(1, &AgentType{Name: "Cart", Speed: 1}, "Road", "Food", resource.NewBag())
	a.SetRoute([]pathgraph.NodeID{0, 1}, []pathgraph.WayID{100}, 42)

	magnitude := func(w pathgraph.WayID) float32 { return 10 }
	a.Update(1.0, magnitude) // offset now 1 of 10

	nodePos := func(n pathgraph.NodeID) phi.Vec3 {
		if n == 0 {
			return phi.Vec3{X: 0}
		}
		return phi.Vec3{X: 10}
	}
	pos := a.Position(nodePos, magnitude)
	assert.InDelta(t, 1, pos.X, 0.0001)
}

func TestAgent_KillIsIdempotent(t *testing.T) {
	a := New(1, &AgentType{Name: "Cart", Speed: 1}, "Road", "Food", resource.NewBag())
	require.True(t, a.Alive())
	a.Kill("no target")
	a.Kill("no target")
	assert.False(t, a.Alive())
}
