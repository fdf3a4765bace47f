// Package worldmap provides the 2D scalar grid associated with a resource
// type: MapType (display + capacity metadata) and Map (the live grid of
// cell values), plus radius scatter and random-tile operations.
// See design doc Section 4.3 (radius scatter, sweep vs. stochastic rules).
package worldmap

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/openglassbox/internal/phi"
)

// MapType is the immutable display + capacity metadata for one map, plus
// the *names* of the map-rules that run against it each tick. Names, not
// rule.MapRuleType pointers, because this package is imported by the rule
// package (Value's Map accessor reaches into worldmap.Map); holding the
// pointer type here would make the two packages import each other. The
// owning city resolves these names against the rule-type registry it was
// constructed with.
type MapType struct {
	Name            string
	Color           uint32
	CapacityPerCell uint32
	Rules           []string
}

// Map owns a U×V grid of cell values, each bounded by the owning type's
// per-cell capacity. Cells are stored row-major so that sweep-mode rule
// iteration is deterministic: (u,v) -> u*V + v.
type Map struct {
	Type *MapType

	U, V int
	cell []uint32

	// TickCount increments once per City.Update pass and drives rate-gated
	// map-rule firing (tickCount % rule.Rate == 0).
	TickCount uint64
}

// New creates a U×V grid, all cells initialized to zero.
func New(t *MapType, u, v int) *Map {
	return &Map{
		Type: t,
		U:    u,
		V:    v,
		cell: make([]uint32, u*v),
	}
}

func (m *Map) index(u, v int) (int, bool) {
	if u < 0 || v < 0 || u >= m.U || v >= m.V {
		return 0, false
	}
	return u*m.V + v, true
}

// InBounds reports whether (u,v) addresses a cell of this map.
func (m *Map) InBounds(u, v int) bool {
	_, ok := m.index(u, v)
	return ok
}

// Get returns the cell value at (u,v), or 0 if out of bounds.
func (m *Map) Get(u, v int) uint32 {
	i, ok := m.index(u, v)
	if !ok {
		return 0
	}
	return m.cell[i]
}

// Set assigns the cell value at (u,v) directly, clamped to capacity. Used
// by scenario setup and tests; rule execution goes through Add/Remove.
func (m *Map) Set(u, v int, n uint32) {
	i, ok := m.index(u, v)
	if !ok {
		return
	}
	if n > m.Type.CapacityPerCell {
		n = m.Type.CapacityPerCell
	}
	m.cell[i] = n
}

// Add adds n to the cell at (u,v), saturating at capacity. Returns the
// amount actually added.
func (m *Map) Add(u, v int, n uint32) uint32 {
	i, ok := m.index(u, v)
	if !ok {
		return 0
	}
	room := m.Type.CapacityPerCell - m.cell[i]
	added := n
	if added > room {
		added = room
	}
	m.cell[i] += added
	return added
}

// Remove subtracts n from the cell at (u,v), flooring at zero. Returns the
// amount actually removed.
func (m *Map) Remove(u, v int, n uint32) uint32 {
	i, ok := m.index(u, v)
	if !ok {
		return 0
	}
	removed := n
	if removed > m.cell[i] {
		removed = m.cell[i]
	}
	m.cell[i] -= removed
	return removed
}

// inRadius enumerates the in-bounds cells within Chebyshev distance r of
// (u,v), including the center cell.
func (m *Map) inRadius(u, v, r int) []int {
	var out []int
	for du := -r; du <= r; du++ {
		for dv := -r; dv <= r; dv++ {
			i, ok := m.index(u+du, v+dv)
			if ok {
				out = append(out, i)
			}
		}
	}
	return out
}

// AddRadius distributes n evenly across every in-bounds cell within
// Chebyshev radius r of (u,v), saturating each at capacity; any remainder
// from integer division is discarded (§4.3).
func (m *Map) AddRadius(u, v, r int, n uint32) {
	cells := m.inRadius(u, v, r)
	if len(cells) == 0 {
		return
	}
	share := n / uint32(len(cells))
	if share == 0 {
		return
	}
	for _, i := range cells {
		room := m.Type.CapacityPerCell - m.cell[i]
		add := share
		if add > room {
			add = room
		}
		m.cell[i] += add
	}
}

// RemoveRadius symmetrically removes an even share of n from each in-bounds
// cell within Chebyshev radius r of (u,v), flooring each at zero.
func (m *Map) RemoveRadius(u, v, r int, n uint32) {
	cells := m.inRadius(u, v, r)
	if len(cells) == 0 {
		return
	}
	share := n / uint32(len(cells))
	if share == 0 {
		return
	}
	for _, i := range cells {
		rem := share
		if rem > m.cell[i] {
			rem = m.cell[i]
		}
		m.cell[i] -= rem
	}
}

// Sweep calls fn(u, v) once for every cell in row-major order. Used for
// non-stochastic map rules.
func (m *Map) Sweep(fn func(u, v int)) {
	for u := 0; u < m.U; u++ {
		for v := 0; v < m.V; v++ {
			fn(u, v)
		}
	}
}

// StochasticSweep visits cells in a random permutation drawn from rng,
// invoking fn(u, v) for each with independent probability percent/100.
// percent is clamped to [0, 100]. Used for random_tiles map rules; the rng
// is owned by the simulation so runs are reproducible given the same seed.
func (m *Map) StochasticSweep(rng *rand.Rand, percent uint8, fn func(u, v int)) {
	if percent > 100 {
		percent = 100
	}
	n := m.U * m.V
	if n == 0 {
		return
	}
	order := rng.Perm(n)
	threshold := float64(percent) / 100
	for _, idx := range order {
		if rng.Float64() < threshold {
			fn(idx/m.V, idx%m.V)
		}
	}
}

// WorldToCell converts a world-space position into grid coordinates given
// the city's origin, using a one-world-unit-per-cell convention along both
// axes (X maps to the u axis, Z to the v axis). Used by units to locate
// the cell beneath their node for map-rule targeting.
func WorldToCell(pos phi.Vec3, origin phi.Vec3, u, v int) (int, int) {
	rel := pos.Sub(origin)
	cu := int(rel.X)
	cv := int(rel.Z)
	if cu < 0 {
		cu = 0
	}
	if cv < 0 {
		cv = 0
	}
	if cu >= u {
		cu = u - 1
	}
	if cv >= v {
		cv = v - 1
	}
	return cu, cv
}

// SeedTerrain pre-fills every cell from a layer of simplex noise scaled by
// frequency, before the simulation starts running rules against the map.
// Front ends use this for initial world dressing (e.g. patchy forest or
// mineral deposits) rather than starting every map at zero; it never runs
// as part of the tick loop itself.
func SeedTerrain(m *Map, seed int64, frequency float64) {
	noise := opensimplex.NewNormalized(seed)
	for u := 0; u < m.U; u++ {
		for v := 0; v < m.V; v++ {
			n := noise.Eval2(float64(u)*frequency, float64(v)*frequency)
			m.Set(u, v, uint32(n*float64(m.Type.CapacityPerCell)))
		}
	}
}
