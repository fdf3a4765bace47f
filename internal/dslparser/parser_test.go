package dslparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/openglassbox/internal/rule"
)

const sampleScript = `
resources [ Grain Water ]

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

paths
  path Road
    color 0x888888
  end
end

segments
  segment Street
    color 0x444444
  end
end

agents
  agent Cart
    color 0xffffff
    speed 2.5
  end
end

units
  unit Farm
    color 0xaabbcc
    mapRadius 2
    targets [ Food ]
    caps [ Grain 50 ]
    resources [ Grain 10 ]
    rules [ Produce ]
  end
end

rules
  mapRule WaterSpread
    rate 5
    randomTiles true
    randomTilesPercent 20
    map Water add 3
  end

  unitRule Produce
    rate 10
    onFail Idle
    local Grain add 1
    local Grain greater 0
  end

  unitRule Idle
    rate 1
    global Grain add 0
  end
end
`

func TestParse_FullScriptBuildsCatalog(t *testing.T) {
	cat, err := Parse(sampleScript)
	require.NoError(t, err)

	assert.True(t, cat.ResourceNames["Grain"])
	assert.True(t, cat.ResourceNames["Water"])

	require.Contains(t, cat.MapTypes, "Grass")
	require.Contains(t, cat.MapTypes, "Water")
	assert.Equal(t, []string{"WaterSpread"}, cat.MapTypes["Water"].Rules)

	require.Contains(t, cat.PathTypes, "Road")
	require.Contains(t, cat.WayTypes, "Street")

	require.Contains(t, cat.AgentTypes, "Cart")
	assert.Equal(t, float32(2.5), cat.AgentTypes["Cart"].Speed)

	require.Contains(t, cat.UnitTypes, "Farm")
	farm := cat.UnitTypes["Farm"]
	assert.Equal(t, 2, farm.MapRadius)
	assert.Equal(t, []string{"Food"}, farm.TargetNames)
	assert.Equal(t, uint32(50), farm.Caps.Capacity("Grain"))
	assert.Equal(t, uint32(10), farm.StartingResources["Grain"])

	require.Contains(t, cat.MapRuleTypes, "WaterSpread")
	wr := cat.MapRuleTypes["WaterSpread"]
	assert.Equal(t, uint32(5), wr.Rate)
	assert.True(t, wr.RandomTiles)
	assert.Equal(t, uint8(20), wr.RandomTilesPercent)
	require.Len(t, wr.Commands, 1)

	require.Contains(t, cat.UnitRuleTypes, "Produce")
	produce := cat.UnitRuleTypes["Produce"]
	require.NotNil(t, produce.OnFail)
	assert.Equal(t, "Idle", produce.OnFail.Name)
	require.Len(t, produce.Commands, 2)
}

func TestParse_RejectsUndeclaredMapRuleReference(t *testing.T) {
	_, err := Parse(`
maps
  map Grass
    color 0x00ff00
    capacity 100
    rules [ Ghost ]
  end
end
`)
	require.Error(t, err)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParse_RejectsUndeclaredOnFailTarget(t *testing.T) {
	_, err := Parse(`
rules
  unitRule A
    rate 1
    onFail Ghost
    local Grain add 1
  end
end
`)
	assert.Error(t, err)
}

func TestParse_RejectsMalformedUnitMissingCapForResource(t *testing.T) {
	_, err := Parse(`
units
  unit Farm
    caps [ Water 10 ]
    resources [ Grain 5 ]
  end
end
`)
	assert.Error(t, err, "Grain is listed in resources but never declared in caps")
}

func TestParse_InlineRandomTilesPercentAppliesToTheWholeRule(t *testing.T) {
	cat, err := Parse(`
maps
  map Water
    color 0x0000ff
    capacity 100
    rules [ Spread ]
  end
end

rules
  mapRule Spread
    rate 1
    map Water add 5 randomTilesPercent 40
  end
end
`)
	require.NoError(t, err)
	rt := cat.MapRuleTypes["Spread"]
	assert.True(t, rt.RandomTiles)
	assert.Equal(t, uint8(40), rt.RandomTilesPercent)
}

func TestParse_AgentCommandBuildsPayload(t *testing.T) {
	cat, err := Parse(`
agents
  agent Cart
    color 0xffffff
    speed 1
  end
end

rules
  unitRule Deliver
    rate 1
    agent Cart to Silo add [ Grain 4 ]
  end
end
`)
	require.NoError(t, err)
	rt := cat.UnitRuleTypes["Deliver"]
	require.Len(t, rt.Commands, 1)

	cmd, ok := rt.Commands[0].(rule.AgentCommand)
	require.True(t, ok)
	assert.Equal(t, "Cart", cmd.AgentTypeName)
	assert.Equal(t, "Silo", cmd.TargetName)
	assert.Equal(t, uint32(4), cmd.Payload.Get("Grain"))
}
