package dslparser

import (
	"github.com/talgya/openglassbox/internal/resource"
	"github.com/talgya/openglassbox/internal/rule"
)

// parseCommand reads one command line per §4.8:
//
//	local|global <Resource> add|remove <u32>
//	local|global <Resource> greater|less|equals <u32>
//	map <Map> add|remove <u32> [randomTilesPercent <u8>]
//	agent <AgentType> to <UnitName> add [ <res> <u32> ... ]
//
// onInlinePercent, when non-nil, is invoked with the percent value if a
// "map ... randomTilesPercent N" clause is present — the enclosing mapRule
// applies it to the whole rule, not just this one command (§4.8).
func parseCommand(ts *tokenStream, section string, onInlinePercent func(uint8)) (rule.Command, error) {
	head, ok := ts.next()
	if !ok {
		return nil, errf(section, "", "expected a command, reached end of input")
	}

	switch head {
	case "local", "global":
		resName, ok := ts.next()
		if !ok {
			return nil, errf(section, head, "expected a resource name")
		}
		var target rule.Value
		if head == "local" {
			target = rule.Local(resName)
		} else {
			target = rule.Global(resName)
		}

		op, ok := ts.next()
		if !ok {
			return nil, errf(section, resName, "expected an operator")
		}
		amtTok, ok := ts.next()
		if !ok {
			return nil, errf(section, op, "expected an amount")
		}
		amt, err := parseUint32(amtTok)
		if err != nil {
			return nil, errf(section, amtTok, "invalid amount: %v", err)
		}
		switch op {
		case "add":
			return rule.AddCommand{Target: target, Amount: amt}, nil
		case "remove":
			return rule.RemoveCommand{Target: target, Amount: amt}, nil
		case "greater":
			return rule.TestCommand{Target: target, Op: rule.CmpGt, Amount: amt}, nil
		case "less":
			return rule.TestCommand{Target: target, Op: rule.CmpLt, Amount: amt}, nil
		case "equals":
			return rule.TestCommand{Target: target, Op: rule.CmpEq, Amount: amt}, nil
		}
		return nil, errf(section, op, "unknown %s operator", head)

	case "map":
		mapName, ok := ts.next()
		if !ok {
			return nil, errf(section, head, "expected a map name")
		}
		op, ok := ts.next()
		if !ok {
			return nil, errf(section, mapName, "expected add or remove")
		}
		amtTok, ok := ts.next()
		if !ok {
			return nil, errf(section, op, "expected an amount")
		}
		amt, err := parseUint32(amtTok)
		if err != nil {
			return nil, errf(section, amtTok, "invalid amount: %v", err)
		}

		if tok, ok := ts.peek(); ok && tok == "randomTilesPercent" {
			ts.next()
			pctTok, ok := ts.next()
			if !ok {
				return nil, errf(section, "randomTilesPercent", "expected a percentage")
			}
			pct, err := parseUint8(pctTok)
			if err != nil || pct > 100 {
				return nil, errf(section, pctTok, "randomTilesPercent must be 0-100")
			}
			if onInlinePercent != nil {
				onInlinePercent(pct)
			}
		}

		target := rule.Map(mapName)
		switch op {
		case "add":
			return rule.AddCommand{Target: target, Amount: amt}, nil
		case "remove":
			return rule.RemoveCommand{Target: target, Amount: amt}, nil
		}
		return nil, errf(section, op, "expected add or remove")

	case "agent":
		agentTypeName, ok := ts.next()
		if !ok {
			return nil, errf(section, head, "expected an agent type name")
		}
		toTok, ok := ts.next()
		if !ok || toTok != "to" {
			return nil, errf(section, toTok, "expected 'to'")
		}
		unitName, ok := ts.next()
		if !ok {
			return nil, errf(section, toTok, "expected a target unit name")
		}
		addTok, ok := ts.next()
		if !ok || addTok != "add" {
			return nil, errf(section, addTok, "expected 'add'")
		}
		pairs, err := parseBracketPairs(ts, section)
		if err != nil {
			return nil, err
		}
		payload := resource.NewBag()
		for _, p := range pairs {
			payload.AddType(p.Name, p.Amount)
			_, _ = payload.Add(p.Name, p.Amount)
		}
		return rule.AgentCommand{AgentTypeName: agentTypeName, TargetName: unitName, Payload: payload}, nil
	}

	return nil, errf(section, head, "unknown command")
}

// parseRuleBody reads commands until "end", per §4.4/§4.8. Commands run in
// reverse declaration order at fire time (rule.FireCommands); parse order
// here is simply file order.
func parseRuleBody(ts *tokenStream, section string, onInlinePercent func(uint8)) ([]rule.Command, error) {
	var cmds []rule.Command
	for {
		tok, ok := ts.peek()
		if !ok {
			return nil, errf(section, "", "unterminated rule body, expected 'end'")
		}
		if tok == "end" {
			ts.next()
			return cmds, nil
		}
		cmd, err := parseCommand(ts, section, onInlinePercent)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
}
