package dslparser

import "github.com/talgya/openglassbox/internal/rule"

// Parse scans the full whitespace-delimited script and returns the
// resulting Catalog. A malformed script yields a single error identifying
// the offending token and the section being parsed; no partial catalog is
// returned on failure (§7).
func Parse(script string) (*Catalog, error) {
	ts := &tokenStream{toks: tokenize(script)}
	cat := newCatalog()
	var pendingOnFails []pendingOnFail

	for {
		tok, ok := ts.next()
		if !ok {
			break
		}
		var err error
		switch tok {
		case "resources":
			err = parseResources(ts, cat)
		case "maps":
			err = parseMaps(ts, cat)
		case "paths":
			err = parsePaths(ts, cat)
		case "segments":
			err = parseSegments(ts, cat)
		case "agents":
			err = parseAgents(ts, cat)
		case "units":
			err = parseUnits(ts, cat)
		case "rules":
			var pending []pendingOnFail
			pending, err = parseRules(ts, cat)
			pendingOnFails = append(pendingOnFails, pending...)
		default:
			err = errf("top-level", tok, "expected a section keyword")
		}
		if err != nil {
			return nil, err
		}
	}

	for _, p := range pendingOnFails {
		target, ok := cat.UnitRuleTypes[p.name]
		if !ok {
			return nil, errf("rules", p.name, "onFail refers to an undeclared unitRule")
		}
		p.rt.OnFail = target
	}

	if err := validate(cat); err != nil {
		return nil, err
	}

	return cat, nil
}

// validate checks every cross-reference a section left as a bare name
// resolves within this catalog (§7, §8: undefined references are fatal
// parse errors, not runtime no-ops).
func validate(cat *Catalog) error {
	for name, mt := range cat.MapTypes {
		for _, ruleName := range mt.Rules {
			if _, ok := cat.MapRuleTypes[ruleName]; !ok {
				return errf("maps", ruleName, "map %q references undeclared mapRule", name)
			}
		}
	}
	for name, ut := range cat.UnitTypes {
		for _, ruleName := range ut.Rules {
			if _, ok := cat.UnitRuleTypes[ruleName]; !ok {
				return errf("units", ruleName, "unit %q references undeclared unitRule", name)
			}
		}
	}
	for _, rt := range cat.MapRuleTypes {
		if err := validateCommands("rules", rt.Commands, cat); err != nil {
			return err
		}
	}
	for _, rt := range cat.UnitRuleTypes {
		if err := validateCommands("rules", rt.Commands, cat); err != nil {
			return err
		}
	}
	return nil
}

func validateCommands(section string, cmds []rule.Command, cat *Catalog) error {
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case rule.AddCommand:
			if err := validateTarget(section, c.Target, cat); err != nil {
				return err
			}
		case rule.RemoveCommand:
			if err := validateTarget(section, c.Target, cat); err != nil {
				return err
			}
		case rule.TestCommand:
			if err := validateTarget(section, c.Target, cat); err != nil {
				return err
			}
		case rule.AgentCommand:
			if _, ok := cat.AgentTypes[c.AgentTypeName]; !ok {
				return errf(section, c.AgentTypeName, "agent command references undeclared agent type")
			}
		}
	}
	return nil
}

// validateTarget only checks Map targets: Map names are a single global
// registry, so an undeclared one is unambiguously a mistake. Local and
// Global targets are resource names validated against whichever unit's
// locals/the city's globals are live at fire time — a single rule may be
// shared across unit types with different caps, so there is no single
// catalog-level registry to check them against here.
func validateTarget(section string, v rule.Value, cat *Catalog) error {
	if v.Kind != rule.ValueMap {
		return nil
	}
	if _, ok := cat.MapTypes[v.Name]; !ok {
		return errf(section, v.Name, "command references undeclared map")
	}
	return nil
}
