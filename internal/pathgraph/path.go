// Package pathgraph provides the node/way graph that unit positions are
// bound to and agents traverse: PathType/WayType display metadata, Node,
// Way, and Path (the owning arena for one named subgraph within a city).
//
// Nodes and ways are arena-allocated records addressed by stable integer
// ids rather than pointers, so that units, agents, and cached Dijkstra
// results can hold cheap, copyable cross-references without participating
// in Go's ownership graph (see design doc Section 9: cyclic references).
package pathgraph

import (
	"errors"
	"fmt"

	"github.com/talgya/openglassbox/internal/phi"
)

// NodeID identifies a node within a single Path's arena.
type NodeID uint32

// WayID identifies a way within a single Path's arena.
type WayID uint32

// PathType is the display metadata for a named path (subgraph).
type PathType struct {
	Name  string
	Color uint32
}

// WayType is the display metadata for a way (edge) kind.
type WayType struct {
	Name  string
	Color uint32
}

// Node is a vertex in the path graph. Units attach to nodes via UnitIDs
// (a plain uint32 so this package need not import the unit package).
type Node struct {
	ID       NodeID
	Position phi.Vec3
	Ways     []WayID
	UnitIDs  []uint32
}

// HasWays reports whether any way is incident to this node.
func (n *Node) HasWays() bool { return len(n.Ways) > 0 }

// Way is a directed-ish edge between two nodes (traversable in either
// direction by Dijkstra and by agents, per spec.md §3/§4.6).
type Way struct {
	ID   WayID
	Type *WayType
	From NodeID
	To   NodeID
}

var (
	// ErrSplitAtEndpoint is returned by SplitWay when t is 0 or 1: splitting
	// exactly at an existing endpoint would create a degenerate zero-length
	// way, so it is rejected rather than silently accepted.
	ErrSplitAtEndpoint = errors.New("pathgraph: split_way requires t strictly between 0 and 1")
	// ErrUnknownWay/ErrUnknownNode are returned when an id does not name a
	// live entity in this Path's arena.
	ErrUnknownWay  = errors.New("pathgraph: unknown way id")
	ErrUnknownNode = errors.New("pathgraph: unknown node id")
)

// Path owns a set of nodes and ways: one named subgraph within a city.
type Path struct {
	Type *PathType

	nodes      map[NodeID]*Node
	ways       map[WayID]*Way
	nextNodeID NodeID
	nextWayID  WayID
}

// New creates an empty path of the given type.
func New(t *PathType) *Path {
	return &Path{
		Type:  t,
		nodes: make(map[NodeID]*Node),
		ways:  make(map[WayID]*Way),
	}
}

// AddNode creates a new node at the given world position and returns its id.
func (p *Path) AddNode(pos phi.Vec3) NodeID {
	id := p.nextNodeID
	p.nextNodeID++
	p.nodes[id] = &Node{ID: id, Position: pos}
	return id
}

// Node returns the node with the given id, or nil if it doesn't exist in
// this path.
func (p *Path) Node(id NodeID) *Node { return p.nodes[id] }

// Way returns the way with the given id, or nil if it doesn't exist in
// this path.
func (p *Path) Way(id WayID) *Way { return p.ways[id] }

// Nodes returns every node id owned by this path, in creation order.
func (p *Path) Nodes() []NodeID {
	out := make([]NodeID, 0, len(p.nodes))
	for id := NodeID(0); id < p.nextNodeID; id++ {
		if _, ok := p.nodes[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Ways returns every way id owned by this path, in creation order.
func (p *Path) Ways() []WayID {
	out := make([]WayID, 0, len(p.ways))
	for id := WayID(0); id < p.nextWayID; id++ {
		if _, ok := p.ways[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Magnitude returns the Euclidean length of the way, computed from its
// endpoint node positions.
func (p *Path) Magnitude(w WayID) float32 {
	way := p.ways[w]
	if way == nil {
		return 0
	}
	from := p.nodes[way.From]
	to := p.nodes[way.To]
	if from == nil || to == nil {
		return 0
	}
	return to.Position.Sub(from.Position).Magnitude()
}

// AddWay creates a way of the given type between two existing nodes and
// returns its id. Both endpoints must already belong to this path.
func (p *Path) AddWay(t *WayType, a, b NodeID) (WayID, error) {
	na, ok := p.nodes[a]
	if !ok {
		return 0, fmt.Errorf("add_way from %d: %w", a, ErrUnknownNode)
	}
	nb, ok := p.nodes[b]
	if !ok {
		return 0, fmt.Errorf("add_way to %d: %w", b, ErrUnknownNode)
	}
	id := p.nextWayID
	p.nextWayID++
	w := &Way{ID: id, Type: t, From: a, To: b}
	p.ways[id] = w
	na.Ways = append(na.Ways, id)
	nb.Ways = append(nb.Ways, id)
	return id, nil
}

// BindUnit records that unitID is attached to node n.
func (p *Path) BindUnit(n NodeID, unitID uint32) error {
	node, ok := p.nodes[n]
	if !ok {
		return fmt.Errorf("bind_unit to %d: %w", n, ErrUnknownNode)
	}
	node.UnitIDs = append(node.UnitIDs, unitID)
	return nil
}

// SplitWay inserts a new node at fractional parameter t along way w,
// re-wiring w into two ways: (from -> new) and (new -> to). Both incident
// node's way lists, and the new node's, are updated so that any reference
// to the surviving endpoints keeps working; the old way id is removed from
// the arena. Returns the new node id and the two replacement way ids, in
// (from-side, to-side) order.
//
// t must lie strictly within (0, 1); t == 0 or t == 1 would produce a
// zero-length way and is rejected (§8 boundary behaviors).
func (p *Path) SplitWay(w WayID, t float32) (NodeID, WayID, WayID, error) {
	if t <= 0 || t >= 1 {
		return 0, 0, 0, ErrSplitAtEndpoint
	}
	way, ok := p.ways[w]
	if !ok {
		return 0, 0, 0, fmt.Errorf("split_way %d: %w", w, ErrUnknownWay)
	}
	from := p.nodes[way.From]
	to := p.nodes[way.To]
	if from == nil || to == nil {
		return 0, 0, 0, ErrUnknownNode
	}

	mid := phi.Lerp(from.Position, to.Position, t)
	midID := p.AddNode(mid)
	midNode := p.nodes[midID]

	removeWayRef(from, w)
	removeWayRef(to, w)
	delete(p.ways, w)

	w1, err := p.AddWay(way.Type, way.From, midID)
	if err != nil {
		return 0, 0, 0, err
	}
	w2, err := p.AddWay(way.Type, midID, way.To)
	if err != nil {
		return 0, 0, 0, err
	}
	_ = midNode

	return midID, w1, w2, nil
}

func removeWayRef(n *Node, w WayID) {
	for i, id := range n.Ways {
		if id == w {
			n.Ways = append(n.Ways[:i], n.Ways[i+1:]...)
			return
		}
	}
}
