package rule

import (
	"log/slog"
	"math/rand"

	"github.com/talgya/openglassbox/internal/worldmap"
)

// MapRuleType is a periodic rule body that runs against some or all cells
// of one map each time it fires. A rate of 0 means the rule never fires
// (§8: "disabled" interpretation of division-by-zero semantics).
type MapRuleType struct {
	Name               string
	Rate               uint32
	RandomTiles        bool
	RandomTilesPercent uint8
	Commands           []Command
}

// ShouldFire reports whether this rule is due on the given tick counter.
func (rt *MapRuleType) ShouldFire(tickCount uint64) bool {
	if rt.Rate == 0 {
		return false
	}
	return tickCount%uint64(rt.Rate) == 0
}

// FireOverMap runs the rule body over m, in sweep or stochastic mode as
// configured, building a fresh Context per cell with globals/city/radius
// from base. base.Unit and base.Locals are left as supplied by the caller
// (always nil for map rules).
func (rt *MapRuleType) FireOverMap(m *worldmap.Map, base Context, rng *rand.Rand) {
	cell := func(u, v int) {
		ctx := base
		ctx.U, ctx.V = u, v
		FireCommands(rt.Commands, &ctx)
	}
	if rt.RandomTiles {
		m.StochasticSweep(rng, rt.RandomTilesPercent, cell)
	} else {
		m.Sweep(cell)
	}
}

// UnitRuleType is a periodic rule body that runs against one unit's
// context each time it fires. If the body fails validation and OnFail is
// set, the fallback rule fires instead with the same context; if OnFail is
// nil, the failure is a RuntimeWarning, logged and otherwise silent.
type UnitRuleType struct {
	Name     string
	Rate     uint32
	Commands []Command
	OnFail   *UnitRuleType
}

// ShouldFire reports whether this rule is due on the given tick counter.
func (rt *UnitRuleType) ShouldFire(tickCount uint64) bool {
	if rt.Rate == 0 {
		return false
	}
	return tickCount%uint64(rt.Rate) == 0
}

// Fire runs the rule body against ctx, recursing into OnFail on failure.
func (rt *UnitRuleType) Fire(ctx *Context) {
	if FireCommands(rt.Commands, ctx) {
		return
	}
	if rt.OnFail != nil {
		rt.OnFail.Fire(ctx)
		return
	}
	slog.Debug("unit rule aborted: validation failed, no fallback", "rule", rt.Name)
}
