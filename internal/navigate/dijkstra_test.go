package navigate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/phi"
)

func buildLine(t *testing.T) (*pathgraph.Path, []pathgraph.NodeID) {
	t.Helper()
	p := pathgraph.New(&pathgraph.PathType{Name: "Road"})
	wt := &pathgraph.WayType{Name: "Street"}

	nodes := make([]pathgraph.NodeID, 4)
	for i := range nodes {
		nodes[i] = p.AddNode(phi.Vec3{X: float32(i)})
	}
	for i := 0; i < len(nodes)-1; i++ {
		_, err := p.AddWay(wt, nodes[i], nodes[i+1])
		require.NoError(t, err)
	}
	return p, nodes
}

func TestSearch_FindsShortestPathAlongALine(t *testing.T) {
	p, nodes := buildLine(t)

	res, ok := Search(p, nodes[0], func(n pathgraph.NodeID) bool { return n == nodes[3] })
	require.True(t, ok)
	assert.Equal(t, nodes, res.Nodes)
	assert.Equal(t, float32(3), res.Distance)
}

func TestSearch_ReturnsFalseWhenUnreachable(t *testing.T) {
	p, nodes := buildLine(t)
	isolated := p.AddNode(phi.Vec3{X: 100})

	_, ok := Search(p, nodes[0], func(n pathgraph.NodeID) bool { return n == isolated })
	assert.False(t, ok)
}

func TestSearch_TieBreaksByLowerNodeID(t *testing.T) {
	// Two branches of equal length from the source; the accept predicate
	// matches either terminal node, so the lower-id node must win.
	p := pathgraph.New(&pathgraph.PathType{Name: "Road"})
	wt := &pathgraph.WayType{Name: "Street"}

	source := p.AddNode(phi.Vec3{})
	left := p.AddNode(phi.Vec3{X: -1})
	right := p.AddNode(phi.Vec3{X: 1})
	_, err := p.AddWay(wt, source, left)
	require.NoError(t, err)
	_, err = p.AddWay(wt, source, right)
	require.NoError(t, err)

	res, ok := Search(p, source, func(n pathgraph.NodeID) bool {
		return n == left || n == right
	})
	require.True(t, ok)
	assert.Equal(t, left, res.Nodes[len(res.Nodes)-1])
}

func TestSearch_ParallelWaysBreakTiesByLowerWayID(t *testing.T) {
	// Two ways sharing the same endpoints always have equal magnitude
	// (derived from endpoint positions), so minWayBetween's tiebreak by
	// lower id is the only thing that makes reconstruction deterministic.
	p := pathgraph.New(&pathgraph.PathType{Name: "Road"})
	wt := &pathgraph.WayType{Name: "Street"}

	a := p.AddNode(phi.Vec3{X: 0})
	b := p.AddNode(phi.Vec3{X: 5})
	first, err := p.AddWay(wt, a, b)
	require.NoError(t, err)
	_, err = p.AddWay(wt, a, b)
	require.NoError(t, err)

	res, ok := Search(p, a, func(n pathgraph.NodeID) bool { return n == b })
	require.True(t, ok)
	require.Len(t, res.Ways, 1)
	assert.Equal(t, first, res.Ways[0])
}
