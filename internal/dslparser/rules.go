package dslparser

import "github.com/talgya/openglassbox/internal/rule"

// pendingOnFail is a unitRule's "onFail <name>" reference, resolved once
// the whole rules section has been scanned, since the named fallback rule
// may be declared later in the file than the rule that refers to it.
type pendingOnFail struct {
	rt   *rule.UnitRuleType
	name string
}

// parseRules reads "rules (mapRule <Name> ... end | unitRule <Name> ...
// end)* end" and returns the onFail references still needing resolution.
func parseRules(ts *tokenStream, cat *Catalog) ([]pendingOnFail, error) {
	var pending []pendingOnFail
	for {
		tok, ok := ts.next()
		if !ok {
			return nil, errf("rules", "", "unterminated rules section")
		}
		if tok == "end" {
			return pending, nil
		}
		switch tok {
		case "mapRule":
			rt, err := parseMapRule(ts)
			if err != nil {
				return nil, err
			}
			cat.MapRuleTypes[rt.Name] = rt
		case "unitRule":
			rt, onFailName, err := parseUnitRule(ts)
			if err != nil {
				return nil, err
			}
			cat.UnitRuleTypes[rt.Name] = rt
			if onFailName != "" {
				pending = append(pending, pendingOnFail{rt: rt, name: onFailName})
			}
		default:
			return nil, errf("rules", tok, "expected 'mapRule', 'unitRule', or 'end'")
		}
	}
}

// parseMapRule reads "<Name> rate <u32> [randomTiles <bool>]
// [randomTilesPercent <u8>] <commands>* end". randomTilesPercent may also
// be given inline on a "map ... add|remove" command; either form sets the
// same field and implies RandomTiles.
func parseMapRule(ts *tokenStream) (*rule.MapRuleType, error) {
	name, ok := ts.next()
	if !ok {
		return nil, errf("rules", "mapRule", "expected a rule name")
	}
	rt := &rule.MapRuleType{Name: name}

header:
	for {
		field, ok := ts.peek()
		if !ok {
			return nil, errf("rules", name, "unterminated mapRule %q", name)
		}
		switch field {
		case "rate":
			ts.next()
			v, ok := ts.next()
			if !ok {
				return nil, errf("rules", field, "expected a rate")
			}
			n, err := parseUint32(v)
			if err != nil {
				return nil, errf("rules", v, "invalid rate: %v", err)
			}
			rt.Rate = n
		case "randomTiles":
			ts.next()
			v, ok := ts.next()
			if !ok {
				return nil, errf("rules", field, "expected a boolean")
			}
			b, err := parseBool(v)
			if err != nil {
				return nil, errf("rules", v, "invalid randomTiles: %v", err)
			}
			rt.RandomTiles = b
		case "randomTilesPercent":
			ts.next()
			v, ok := ts.next()
			if !ok {
				return nil, errf("rules", field, "expected a percentage")
			}
			p, err := parseUint8(v)
			if err != nil || p > 100 {
				return nil, errf("rules", v, "randomTilesPercent must be 0-100")
			}
			rt.RandomTilesPercent = p
			rt.RandomTiles = true
		default:
			break header
		}
	}

	body, err := parseRuleBody(ts, "rules", func(p uint8) {
		rt.RandomTilesPercent = p
		rt.RandomTiles = true
	})
	if err != nil {
		return nil, err
	}
	rt.Commands = body
	return rt, nil
}

// parseUnitRule reads "<Name> rate <u32> [onFail <name>] <commands>*
// end". The onFail name is returned unresolved for the caller to fix up
// once every unitRule in the file has been parsed.
func parseUnitRule(ts *tokenStream) (*rule.UnitRuleType, string, error) {
	name, ok := ts.next()
	if !ok {
		return nil, "", errf("rules", "unitRule", "expected a rule name")
	}
	rt := &rule.UnitRuleType{Name: name}
	var onFailName string

header:
	for {
		field, ok := ts.peek()
		if !ok {
			return nil, "", errf("rules", name, "unterminated unitRule %q", name)
		}
		switch field {
		case "rate":
			ts.next()
			v, ok := ts.next()
			if !ok {
				return nil, "", errf("rules", field, "expected a rate")
			}
			n, err := parseUint32(v)
			if err != nil {
				return nil, "", errf("rules", v, "invalid rate: %v", err)
			}
			rt.Rate = n
		case "onFail":
			ts.next()
			v, ok := ts.next()
			if !ok {
				return nil, "", errf("rules", field, "expected a rule name")
			}
			onFailName = v
		default:
			break header
		}
	}

	body, err := parseRuleBody(ts, "rules", nil)
	if err != nil {
		return nil, "", err
	}
	rt.Commands = body
	return rt, onFailName, nil
}
