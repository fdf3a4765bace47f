// Package navigate implements single-source shortest-path search over a
// pathgraph.Path, used to route agents to the nearest unit that accepts
// their payload. See design doc Section 4.7.
package navigate

import (
	"container/heap"

	"github.com/talgya/openglassbox/internal/pathgraph"
)

// Result is a reconstructed shortest path: the node sequence from source to
// the accepted target, and the way chosen between each consecutive pair.
type Result struct {
	Nodes    []pathgraph.NodeID
	Ways     []pathgraph.WayID
	Distance float32
}

// entry is one element of the priority queue: a (distance, node) pair.
// node id breaks ties so the search order — and therefore which of several
// equal-length routes is returned — is deterministic (§8 scenario 6).
type entry struct {
	dist float32
	node pathgraph.NodeID
}

type queue []entry

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].node < q[j].node
}
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(entry)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Search runs Dijkstra from source over p, terminating as soon as a node
// satisfying accept is popped from the frontier (i.e. once it is known to
// be shortest-path-closed). Returns false if no accepted node is reachable.
//
// For each pair of consecutive nodes in the returned path, the minimum-
// magnitude way directly joining them is chosen (a graph may have parallel
// ways between the same two nodes).
func Search(p *pathgraph.Path, source pathgraph.NodeID, accept func(pathgraph.NodeID) bool) (Result, bool) {
	dist := map[pathgraph.NodeID]float32{source: 0}
	prev := map[pathgraph.NodeID]pathgraph.NodeID{}
	visited := map[pathgraph.NodeID]bool{}

	pq := &queue{{dist: 0, node: source}}
	heap.Init(pq)

	var target pathgraph.NodeID
	found := false

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(entry)
		if visited[cur.node] {
			continue
		}
		visited[cur.node] = true

		if accept(cur.node) {
			target = cur.node
			found = true
			break
		}

		node := p.Node(cur.node)
		if node == nil {
			continue
		}
		for _, wid := range node.Ways {
			way := p.Way(wid)
			if way == nil {
				continue
			}
			next := otherEnd(way, cur.node)
			if visited[next] {
				continue
			}
			w := p.Magnitude(wid)
			nd := cur.dist + w
			if old, ok := dist[next]; !ok || nd < old {
				dist[next] = nd
				prev[next] = cur.node
				heap.Push(pq, entry{dist: nd, node: next})
			}
		}
	}

	if !found {
		return Result{}, false
	}

	// Reconstruct the node sequence by walking prev back to source.
	var nodes []pathgraph.NodeID
	n := target
	for {
		nodes = append([]pathgraph.NodeID{n}, nodes...)
		if n == source {
			break
		}
		n = prev[n]
	}

	ways := make([]pathgraph.WayID, 0, len(nodes)-1)
	for i := 0; i < len(nodes)-1; i++ {
		wid, ok := minWayBetween(p, nodes[i], nodes[i+1])
		if !ok {
			return Result{}, false
		}
		ways = append(ways, wid)
	}

	return Result{Nodes: nodes, Ways: ways, Distance: dist[target]}, true
}

func otherEnd(w *pathgraph.Way, from pathgraph.NodeID) pathgraph.NodeID {
	if w.From == from {
		return w.To
	}
	return w.From
}

// minWayBetween picks the minimum-magnitude way directly joining a and b,
// in either direction, since the graph may have parallel ways.
func minWayBetween(p *pathgraph.Path, a, b pathgraph.NodeID) (pathgraph.WayID, bool) {
	node := p.Node(a)
	if node == nil {
		return 0, false
	}
	var best pathgraph.WayID
	bestMag := float32(0)
	haveBest := false
	for _, wid := range node.Ways {
		way := p.Way(wid)
		if way == nil {
			continue
		}
		if otherEnd(way, a) != b {
			continue
		}
		mag := p.Magnitude(wid)
		if !haveBest || mag < bestMag || (mag == bestMag && wid < best) {
			best = wid
			bestMag = mag
			haveBest = true
		}
	}
	return best, haveBest
}
