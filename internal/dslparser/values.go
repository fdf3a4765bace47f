package dslparser

import (
	"strconv"
	"strings"
)

// parseHex accepts a 0x-prefixed or bare hex color literal.
func parseHex(tok string) (uint32, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// parseUint32 parses a base-10 unsigned integer.
func parseUint32(tok string) (uint32, error) {
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// parseUint8 parses a base-10 unsigned integer in [0, 255], used for
// randomTilesPercent (which is further range-checked to [0, 100] by the
// caller).
func parseUint8(tok string) (uint8, error) {
	v, err := strconv.ParseUint(tok, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

// parseFloat32 parses a base-10 floating point literal.
func parseFloat32(tok string) (float32, error) {
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

// parseBool parses the literal booleans true/false.
func parseBool(tok string) (bool, error) {
	switch tok {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, strconv.ErrSyntax
}

// pair is one (name, amount) entry in a caps/resources bracket list.
type pair struct {
	Name   string
	Amount uint32
}

// parseBracketList expects the next token to be "[" and collects plain
// name tokens until a matching "]".
func parseBracketList(ts *tokenStream, section string) ([]string, error) {
	tok, ok := ts.next()
	if !ok || tok != "[" {
		return nil, errf(section, tok, "expected '[' to open list")
	}
	var items []string
	for {
		t, ok := ts.next()
		if !ok {
			return nil, errf(section, "", "unterminated '[' list")
		}
		if t == "]" {
			return items, nil
		}
		items = append(items, t)
	}
}

// parseBracketPairs expects the next token to be "[" and collects
// (name, amount) pairs until a matching "]", e.g. "[ People 4 Grain 2 ]".
func parseBracketPairs(ts *tokenStream, section string) ([]pair, error) {
	tok, ok := ts.next()
	if !ok || tok != "[" {
		return nil, errf(section, tok, "expected '[' to open list")
	}
	var items []pair
	for {
		name, ok := ts.next()
		if !ok {
			return nil, errf(section, "", "unterminated '[' list")
		}
		if name == "]" {
			return items, nil
		}
		amtTok, ok := ts.next()
		if !ok {
			return nil, errf(section, name, "expected amount after resource name")
		}
		amt, err := parseUint32(amtTok)
		if err != nil {
			return nil, errf(section, amtTok, "invalid amount: %v", err)
		}
		items = append(items, pair{Name: name, Amount: amt})
	}
}
