package dslparser

import (
	"github.com/talgya/openglassbox/internal/agent"
	"github.com/talgya/openglassbox/internal/pathgraph"
	"github.com/talgya/openglassbox/internal/resource"
	"github.com/talgya/openglassbox/internal/unit"
	"github.com/talgya/openglassbox/internal/worldmap"
)

// parseResources reads "resources [ Name ... ]", a single declaration of
// the resource-type namespace every caps/resources/local/global clause
// draws from.
func parseResources(ts *tokenStream, cat *Catalog) error {
	names, err := parseBracketList(ts, "resources")
	if err != nil {
		return err
	}
	for _, name := range names {
		cat.ResourceNames[name] = true
	}
	return nil
}

// parseMaps reads "maps (map <Name> color <hex> capacity <u32> rules
// [...] end)* end".
func parseMaps(ts *tokenStream, cat *Catalog) error {
	for {
		tok, ok := ts.next()
		if !ok {
			return errf("maps", "", "unterminated maps section")
		}
		if tok == "end" {
			return nil
		}
		if tok != "map" {
			return errf("maps", tok, "expected 'map' or 'end'")
		}
		name, ok := ts.next()
		if !ok {
			return errf("maps", tok, "expected a map name")
		}
		mt := &worldmap.MapType{Name: name}

	fields:
		for {
			field, ok := ts.peek()
			if !ok {
				return errf("maps", name, "unterminated map %q", name)
			}
			switch field {
			case "color":
				ts.next()
				v, ok := ts.next()
				if !ok {
					return errf("maps", field, "expected a color literal")
				}
				c, err := parseHex(v)
				if err != nil {
					return errf("maps", v, "invalid color: %v", err)
				}
				mt.Color = c
			case "capacity":
				ts.next()
				v, ok := ts.next()
				if !ok {
					return errf("maps", field, "expected a capacity")
				}
				c, err := parseUint32(v)
				if err != nil {
					return errf("maps", v, "invalid capacity: %v", err)
				}
				mt.CapacityPerCell = c
			case "rules":
				ts.next()
				names, err := parseBracketList(ts, "maps")
				if err != nil {
					return err
				}
				mt.Rules = names
			case "end":
				ts.next()
				break fields
			default:
				return errf("maps", field, "unknown map field")
			}
		}

		cat.MapTypes[name] = mt
	}
}

// parsePaths reads "paths (path <Name> color <hex> end)* end". Path
// topology (nodes, ways) is built via the Construction API, not the DSL;
// this section only declares display metadata (§4.8).
func parsePaths(ts *tokenStream, cat *Catalog) error {
	for {
		tok, ok := ts.next()
		if !ok {
			return errf("paths", "", "unterminated paths section")
		}
		if tok == "end" {
			return nil
		}
		if tok != "path" {
			return errf("paths", tok, "expected 'path' or 'end'")
		}
		name, ok := ts.next()
		if !ok {
			return errf("paths", tok, "expected a path name")
		}
		pt := &pathgraph.PathType{Name: name}

	fields:
		for {
			field, ok := ts.peek()
			if !ok {
				return errf("paths", name, "unterminated path %q", name)
			}
			switch field {
			case "color":
				ts.next()
				v, ok := ts.next()
				if !ok {
					return errf("paths", field, "expected a color literal")
				}
				c, err := parseHex(v)
				if err != nil {
					return errf("paths", v, "invalid color: %v", err)
				}
				pt.Color = c
			case "end":
				ts.next()
				break fields
			default:
				return errf("paths", field, "unknown path field")
			}
		}

		cat.PathTypes[name] = pt
	}
}

// parseSegments reads "segments (segment <Name> color <hex> end)* end",
// declaring WayType display metadata.
func parseSegments(ts *tokenStream, cat *Catalog) error {
	for {
		tok, ok := ts.next()
		if !ok {
			return errf("segments", "", "unterminated segments section")
		}
		if tok == "end" {
			return nil
		}
		if tok != "segment" {
			return errf("segments", tok, "expected 'segment' or 'end'")
		}
		name, ok := ts.next()
		if !ok {
			return errf("segments", tok, "expected a segment name")
		}
		wt := &pathgraph.WayType{Name: name}

	fields:
		for {
			field, ok := ts.peek()
			if !ok {
				return errf("segments", name, "unterminated segment %q", name)
			}
			switch field {
			case "color":
				ts.next()
				v, ok := ts.next()
				if !ok {
					return errf("segments", field, "expected a color literal")
				}
				c, err := parseHex(v)
				if err != nil {
					return errf("segments", v, "invalid color: %v", err)
				}
				wt.Color = c
			case "end":
				ts.next()
				break fields
			default:
				return errf("segments", field, "unknown segment field")
			}
		}

		cat.WayTypes[name] = wt
	}
}

// parseAgents reads "agents (agent <Name> color <hex> speed <float>
// end)* end".
func parseAgents(ts *tokenStream, cat *Catalog) error {
	for {
		tok, ok := ts.next()
		if !ok {
			return errf("agents", "", "unterminated agents section")
		}
		if tok == "end" {
			return nil
		}
		if tok != "agent" {
			return errf("agents", tok, "expected 'agent' or 'end'")
		}
		name, ok := ts.next()
		if !ok {
			return errf("agents", tok, "expected an agent name")
		}
		at := &agent.AgentType{Name: name}

	fields:
		for {
			field, ok := ts.peek()
			if !ok {
				return errf("agents", name, "unterminated agent %q", name)
			}
			switch field {
			case "color":
				ts.next()
				v, ok := ts.next()
				if !ok {
					return errf("agents", field, "expected a color literal")
				}
				c, err := parseHex(v)
				if err != nil {
					return errf("agents", v, "invalid color: %v", err)
				}
				at.Color = c
			case "speed":
				ts.next()
				v, ok := ts.next()
				if !ok {
					return errf("agents", field, "expected a speed")
				}
				s, err := parseFloat32(v)
				if err != nil {
					return errf("agents", v, "invalid speed: %v", err)
				}
				at.Speed = s
			case "end":
				ts.next()
				break fields
			default:
				return errf("agents", field, "unknown agent field")
			}
		}

		cat.AgentTypes[name] = at
	}
}

// parseUnits reads "units (unit <Name> color <hex> mapRadius <int> targets
// [...] caps [...] resources [...] rules [...] end)* end". Every resource
// named in resources must also appear in caps, or parsing fails (§8).
func parseUnits(ts *tokenStream, cat *Catalog) error {
	for {
		tok, ok := ts.next()
		if !ok {
			return errf("units", "", "unterminated units section")
		}
		if tok == "end" {
			return nil
		}
		if tok != "unit" {
			return errf("units", tok, "expected 'unit' or 'end'")
		}
		name, ok := ts.next()
		if !ok {
			return errf("units", tok, "expected a unit name")
		}
		ut := &unit.UnitType{
			Name:              name,
			Caps:              resource.NewBag(),
			StartingResources: make(map[string]uint32),
		}

	fields:
		for {
			field, ok := ts.peek()
			if !ok {
				return errf("units", name, "unterminated unit %q", name)
			}
			switch field {
			case "color":
				ts.next()
				v, ok := ts.next()
				if !ok {
					return errf("units", field, "expected a color literal")
				}
				c, err := parseHex(v)
				if err != nil {
					return errf("units", v, "invalid color: %v", err)
				}
				ut.Color = c
			case "mapRadius":
				ts.next()
				v, ok := ts.next()
				if !ok {
					return errf("units", field, "expected a radius")
				}
				r, err := parseUint32(v)
				if err != nil {
					return errf("units", v, "invalid mapRadius: %v", err)
				}
				ut.MapRadius = int(r)
			case "targets":
				ts.next()
				names, err := parseBracketList(ts, "units")
				if err != nil {
					return err
				}
				ut.TargetNames = names
			case "caps":
				ts.next()
				pairs, err := parseBracketPairs(ts, "units")
				if err != nil {
					return err
				}
				for _, p := range pairs {
					ut.Caps.AddType(p.Name, p.Amount)
				}
			case "resources":
				ts.next()
				pairs, err := parseBracketPairs(ts, "units")
				if err != nil {
					return err
				}
				for _, p := range pairs {
					ut.StartingResources[p.Name] = p.Amount
				}
			case "rules":
				ts.next()
				names, err := parseBracketList(ts, "units")
				if err != nil {
					return err
				}
				ut.Rules = names
			case "end":
				ts.next()
				break fields
			default:
				return errf("units", field, "unknown unit field")
			}
		}

		for resName := range ut.StartingResources {
			if !ut.Caps.Has(resName) {
				return errf("units", resName, "unit %q lists %q in resources but not in caps", name, resName)
			}
		}

		cat.UnitTypes[name] = ut
	}
}
