// Package simulation ties together the type registries, the cities they
// describe, and the fixed-timestep tick loop that drives them forward
// (§4.1, §6). It is the top-level entry point external callers construct.
package simulation

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/openglassbox/internal/agent"
	"github.com/talgya/openglassbox/internal/city"
	"github.com/talgya/openglassbox/internal/config"
	"github.com/talgya/openglassbox/internal/dslparser"
	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/phi"
	"github.com/talgya/openglassbox/internal/rule"
	"github.com/talgya/openglassbox/internal/unit"
	"github.com/talgya/openglassbox/internal/worldmap"
)

// Listener is the single construction-event sink described by §6.
// Registering a new listener replaces any prior one.
type Listener interface {
	OnCityAdded(c *city.City)
	OnUnitAdded(u *unit.Unit)
	OnAgentAdded(a *agent.Agent)
	OnAgentRemoved(a *agent.Agent)
}

// Event is a lightweight record of one listener callback, used by the
// additive channel-based Subscribe/Unsubscribe API (generalized from the
// teacher's engine.Simulation event log — see SPEC_FULL.md §3).
type Event struct {
	Kind string // "city_added", "unit_added", "agent_added", "agent_removed"
	Name string
	Tick uint64
}

// Simulation owns the immutable type catalog built by Parse, the named
// cities constructed against it, and the tick loop's time accumulator.
type Simulation struct {
	cfg config.Config
	rng *rand.Rand

	resourceNames map[string]bool
	mapTypes      map[string]*worldmap.MapType
	pathTypes     map[string]*pathgraph.PathType
	wayTypes      map[string]*pathgraph.WayType
	agentTypes    map[string]*agent.AgentType
	unitTypes     map[string]*unit.UnitType
	mapRuleTypes  map[string]*rule.MapRuleType
	unitRuleTypes map[string]*rule.UnitRuleType

	cities     map[string]*city.City
	cityOrder  []string

	listener Listener

	timeBudget float32
	tick       uint64

	subMu     sync.Mutex
	subs      map[uuid.UUID]chan Event
}

// New creates a simulation with no registered types and no cities.
func New(cfg config.Config) *Simulation {
	return &Simulation{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		resourceNames: make(map[string]bool),
		mapTypes:      make(map[string]*worldmap.MapType),
		pathTypes:     make(map[string]*pathgraph.PathType),
		wayTypes:      make(map[string]*pathgraph.WayType),
		agentTypes:    make(map[string]*agent.AgentType),
		unitTypes:     make(map[string]*unit.UnitType),
		mapRuleTypes:  make(map[string]*rule.MapRuleType),
		unitRuleTypes: make(map[string]*rule.UnitRuleType),
		cities:        make(map[string]*city.City),
		subs:          make(map[uuid.UUID]chan Event),
	}
}

// Parse scans script and merges the resulting type catalog into this
// simulation's registries (§4.8). A malformed script returns a single
// error identifying the offending token and section; no partial catalog
// is retained on failure.
func (s *Simulation) Parse(script string) error {
	cat, err := dslparser.Parse(script)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	for name := range cat.ResourceNames {
		s.resourceNames[name] = true
	}
	for name, t := range cat.MapTypes {
		s.mapTypes[name] = t
	}
	for name, t := range cat.PathTypes {
		s.pathTypes[name] = t
	}
	for name, t := range cat.WayTypes {
		s.wayTypes[name] = t
	}
	for name, t := range cat.AgentTypes {
		s.agentTypes[name] = t
	}
	for name, t := range cat.UnitTypes {
		s.unitTypes[name] = t
	}
	for name, t := range cat.MapRuleTypes {
		s.mapRuleTypes[name] = t
	}
	for name, t := range cat.UnitRuleTypes {
		s.unitRuleTypes[name] = t
	}
	slog.Info("parsed simulation script",
		"resources", len(cat.ResourceNames),
		"maps", len(cat.MapTypes),
		"units", len(cat.UnitTypes),
		"agents", len(cat.AgentTypes),
		"map_rules", len(cat.MapRuleTypes),
		"unit_rules", len(cat.UnitRuleTypes),
	)
	return nil
}

// Registry accessors — front ends fetch a *Type by name to pass into the
// City construction API (§6).
func (s *Simulation) MapType(name string) *worldmap.MapType      { return s.mapTypes[name] }
func (s *Simulation) PathType(name string) *pathgraph.PathType    { return s.pathTypes[name] }
func (s *Simulation) WayType(name string) *pathgraph.WayType      { return s.wayTypes[name] }
func (s *Simulation) AgentType(name string) *agent.AgentType      { return s.agentTypes[name] }
func (s *Simulation) UnitType(name string) *unit.UnitType         { return s.unitTypes[name] }
func (s *Simulation) MapRuleType(name string) *rule.MapRuleType   { return s.mapRuleTypes[name] }
func (s *Simulation) UnitRuleType(name string) *rule.UnitRuleType { return s.unitRuleTypes[name] }

// SetListener installs the construction-event sink, replacing any prior
// listener, and rewires every existing city to forward to it.
func (s *Simulation) SetListener(l Listener) {
	s.listener = l
	adapter := &cityListenerAdapter{sim: s}
	for _, name := range s.cityOrder {
		s.cities[name].SetListener(adapter)
	}
}

// cityListenerAdapter forwards city.Listener callbacks to the
// simulation-level Listener and broadcasts them as Events.
type cityListenerAdapter struct{ sim *Simulation }

func (a *cityListenerAdapter) OnUnitAdded(u *unit.Unit) {
	if a.sim.listener != nil {
		a.sim.listener.OnUnitAdded(u)
	}
	a.sim.broadcast(Event{Kind: "unit_added", Name: u.Type.Name, Tick: a.sim.tick})
}

func (a *cityListenerAdapter) OnAgentAdded(ag *agent.Agent) {
	if a.sim.listener != nil {
		a.sim.listener.OnAgentAdded(ag)
	}
	a.sim.broadcast(Event{Kind: "agent_added", Name: ag.Type.Name, Tick: a.sim.tick})
}

func (a *cityListenerAdapter) OnAgentRemoved(ag *agent.Agent) {
	if a.sim.listener != nil {
		a.sim.listener.OnAgentRemoved(ag)
	}
	a.sim.broadcast(Event{Kind: "agent_removed", Name: ag.Type.Name, Tick: a.sim.tick})
}

// AddCity creates and registers a new city sized to this simulation's
// grid, wired with the agent-type and map-rule-type lookups its units and
// maps will need at runtime.
func (s *Simulation) AddCity(name string, pos phi.Vec3) (*city.City, error) {
	if _, exists := s.cities[name]; exists {
		return nil, fmt.Errorf("add_city: city %q already exists", name)
	}
	c := city.New(name, pos, s.cfg.GridU, s.cfg.GridV, city.Registries{
		MapRuleTypes:  s.mapRuleTypes,
		UnitRuleTypes: s.unitRuleTypes,
		AgentTypes:    s.agentTypes,
	})
	if s.listener != nil {
		c.SetListener(&cityListenerAdapter{sim: s})
	}
	s.cities[name] = c
	s.cityOrder = append(s.cityOrder, name)

	if s.listener != nil {
		s.listener.OnCityAdded(c)
	}
	s.broadcast(Event{Kind: "city_added", Name: name, Tick: s.tick})

	slog.Info("city added", "name", name, "grid", fmt.Sprintf("%dx%d", s.cfg.GridU, s.cfg.GridV))
	return c, nil
}

// City returns the named city, or nil.
func (s *Simulation) City(name string) *city.City { return s.cities[name] }

// Cities returns every city name, in insertion order.
func (s *Simulation) Cities() []string { return append([]string(nil), s.cityOrder...) }

// Tick returns the monotonic global tick counter.
func (s *Simulation) Tick() uint64 { return s.tick }

// Update drains delta_seconds of simulated time into discrete ticks,
// capped at MaxIterationsPerUpdate ticks per call; any time left over
// beyond the cap is discarded rather than carried forward (§4.1).
func (s *Simulation) Update(deltaSeconds float32) {
	s.timeBudget += deltaSeconds
	interval := s.cfg.TickInterval()

	iterations := 0
	for s.timeBudget >= interval && iterations < s.cfg.MaxIterationsPerUpdate {
		s.step()
		s.timeBudget -= interval
		iterations++
	}
	if iterations == s.cfg.MaxIterationsPerUpdate && s.timeBudget > interval {
		s.timeBudget = 0
	}
}

// step advances every city by one tick, in insertion order (§4.1, §4.2).
func (s *Simulation) step() {
	s.tick++
	interval := s.cfg.TickInterval()
	for _, name := range s.cityOrder {
		s.cities[name].Update(s.rng, interval)
	}
}

// Subscribe returns a handle and a buffered channel that receives every
// listener-equivalent event from this point forward — an additive
// convenience for front ends that prefer polling a channel over
// implementing Listener (see SPEC_FULL.md §3).
func (s *Simulation) Subscribe() (uuid.UUID, <-chan Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := uuid.New()
	ch := make(chan Event, 64)
	s.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (s *Simulation) Unsubscribe(id uuid.UUID) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Simulation) broadcast(e Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
			slog.Debug("event subscriber channel full, dropping event", "kind", e.Kind)
		}
	}
}

// FormatTick renders a tick count as a humanized diagnostic string, e.g.
// for slog fields on long-running simulations. Purely cosmetic; never
// affects simulation semantics. Grounded on the teacher's engine.SimTime.
func FormatTick(tick uint64) string {
	return fmt.Sprintf("tick %s", humanize.Comma(int64(tick)))
}
