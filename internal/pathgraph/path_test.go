package pathgraph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/openglassbox/internal/phi"
)

func TestPath_SplitWayPreservesEndpointPositions(t *testing.T) {
	wt := &WayType{Name: "Street"}
	p := New(&PathType{Name: "Road"})

	a := p.AddNode(phi.Vec3{X: 0})
	b := p.AddNode(phi.Vec3{X: 10})
	w, err := p.AddWay(wt, a, b)
	require.NoError(t, err)

	mid, w1, w2, err := p.SplitWay(w, 0.25)
	require.NoError(t, err)

	assert.Equal(t, float32(2.5), p.Node(mid).Position.X)
	assert.Equal(t, phi.Vec3{X: 0}, p.Node(a).Position)
	assert.Equal(t, phi.Vec3{X: 10}, p.Node(b).Position)

	assert.Equal(t, a, p.Way(w1).From)
	assert.Equal(t, mid, p.Way(w1).To)
	assert.Equal(t, mid, p.Way(w2).From)
	assert.Equal(t, b, p.Way(w2).To)

	assert.Nil(t, p.Way(w), "the original way must be removed from the arena")
}

func TestPath_SplitWayRejectsEndpoints(t *testing.T) {
	p := New(&PathType{Name: "Road"})
	a := p.AddNode(phi.Vec3{X: 0})
	b := p.AddNode(phi.Vec3{X: 10})
	w, err := p.AddWay(&WayType{Name: "Street"}, a, b)
	require.NoError(t, err)

	_, _, _, err = p.SplitWay(w, 0)
	assert.True(t, errors.Is(err, ErrSplitAtEndpoint))

	_, _, _, err = p.SplitWay(w, 1)
	assert.True(t, errors.Is(err, ErrSplitAtEndpoint))
}

func TestPath_SplitWayUpdatesNodeWayLists(t *testing.T) {
	p := New(&PathType{Name: "Road"})
	a := p.AddNode(phi.Vec3{X: 0})
	b := p.AddNode(phi.Vec3{X: 10})
	w, err := p.AddWay(&WayType{Name: "Street"}, a, b)
	require.NoError(t, err)

	mid, w1, w2, err := p.SplitWay(w, 0.5)
	require.NoError(t, err)

	assert.ElementsMatch(t, []WayID{w1}, p.Node(a).Ways)
	assert.ElementsMatch(t, []WayID{w2}, p.Node(b).Ways)
	assert.ElementsMatch(t, []WayID{w1, w2}, p.Node(mid).Ways)
}

func TestPath_AddWayRejectsUnknownNodes(t *testing.T) {
	p := New(&PathType{Name: "Road"})
	a := p.AddNode(phi.Vec3{})

	_, err := p.AddWay(&WayType{Name: "Street"}, a, 999)
	assert.True(t, errors.Is(err, ErrUnknownNode))
}

func TestPath_MagnitudeIsEuclideanDistance(t *testing.T) {
	p := New(&PathType{Name: "Road"})
	a := p.AddNode(phi.Vec3{X: 0, Y: 0, Z: 0})
	b := p.AddNode(phi.Vec3{X: 3, Y: 0, Z: 4})
	w, err := p.AddWay(&WayType{Name: "Street"}, a, b)
	require.NoError(t, err)

	assert.Equal(t, float32(5), p.Magnitude(w))
}
