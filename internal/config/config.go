// Package config holds the small set of knobs a Simulation needs at
// construction time: grid dimensions, the stochastic-rule RNG seed, and
// the fixed-timestep tick budget (§4.1). Kept as a plain exported struct
// with a constructor default, mirroring how the teacher's engine.Engine
// exposes its own tunables (Speed, Interval) directly as fields.
package config

// Config configures a Simulation.
type Config struct {
	// GridU, GridV are the cell dimensions shared by every map in every
	// city this simulation owns.
	GridU, GridV int

	// Seed is the deterministic seed for the stochastic map-rule RNG
	// stream. Default 0, per design doc Section 9.
	Seed int64

	// TicksPerSecond is the fixed simulation rate; TickInterval is derived
	// as 1/TicksPerSecond.
	TicksPerSecond int

	// MaxIterationsPerUpdate caps the number of ticks a single Update call
	// will catch up on, bounding worst-case real-time latency. Excess
	// accumulated budget beyond the cap is discarded (§4.1).
	MaxIterationsPerUpdate int
}

// Default returns the spec-mandated defaults: a 1x1 grid (callers
// overwrite GridU/GridV for their scenario), seed 0, 200 ticks/second, and
// a catch-up cap of 20 iterations per Update call.
func Default() Config {
	return Config{
		GridU:                  1,
		GridV:                  1,
		Seed:                   0,
		TicksPerSecond:         200,
		MaxIterationsPerUpdate: 20,
	}
}

// TickInterval returns the simulated seconds advanced by one tick.
func (c Config) TickInterval() float32 {
	return 1.0 / float32(c.TicksPerSecond)
}
