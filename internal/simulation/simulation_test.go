package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/openglassbox/internal/config"
	"github.com/talgya/openglassbox/internal/phi"
)

const waterFillsGrassScript = `
resources [ Water ]

maps
  map Grass
    color 0x00ff00
    capacity 100
  end
  map Water
    color 0x0000ff
    capacity 100
    rules [ WaterSpread ]
  end
end

rules
  mapRule WaterSpread
    rate 1
    map Water add 10
  end
end
`

func TestSimulation_ParseAndUpdateAdvancesTicks(t *testing.T) {
	cfg := config.Default()
	cfg.GridU, cfg.GridV = 2, 2
	sim := New(cfg)

	require.NoError(t, sim.Parse(waterFillsGrassScript))

	c, err := sim.AddCity("c1", phi.Vec3{})
	require.NoError(t, err)
	_, err = c.AddMap(sim.MapType("Grass"))
	require.NoError(t, err)
	_, err = c.AddMap(sim.MapType("Water"))
	require.NoError(t, err)

	sim.Update(cfg.TickInterval())

	assert.Equal(t, uint64(1), sim.Tick())
	m := c.MapByName("Water")
	require.NotNil(t, m)
	assert.Equal(t, uint32(10), m.Get(0, 0))
}

func TestSimulation_UpdateCapsCatchUpIterations(t *testing.T) {
	cfg := config.Default()
	cfg.MaxIterationsPerUpdate = 3
	sim := New(cfg)

	sim.Update(cfg.TickInterval() * 100) // far more ticks owed than the cap allows

	assert.Equal(t, uint64(3), sim.Tick())
}

func TestSimulation_SubscribeReceivesCityAddedEvent(t *testing.T) {
	cfg := config.Default()
	sim := New(cfg)
	_, ch := sim.Subscribe()

	_, err := sim.AddCity("c1", phi.Vec3{})
	require.NoError(t, err)

	select {
	case ev := <-ch:
		assert.Equal(t, "city_added", ev.Kind)
		assert.Equal(t, "c1", ev.Name)
	default:
		t.Fatal("expected a buffered city_added event")
	}
}

func TestSimulation_ParseRejectsUnknownReferences(t *testing.T) {
	cfg := config.Default()
	sim := New(cfg)

	err := sim.Parse(`
maps
  map Grass
    color 0x00ff00
    capacity 100
    rules [ Missing ]
  end
end
`)
	assert.Error(t, err)
}
