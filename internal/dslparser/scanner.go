package dslparser

import "strings"

// tokenize splits script into whitespace-delimited tokens: skip whitespace,
// accumulate non-whitespace runes until the next whitespace, yield the
// token (§4.8). There are no comments in this grammar.
func tokenize(script string) []string {
	return strings.Fields(script)
}

// tokenStream is a cursor over a token slice.
type tokenStream struct {
	toks []string
	pos  int
}

// next returns the next token and advances the cursor, or ("", false) at
// end of input.
func (t *tokenStream) next() (string, bool) {
	if t.pos >= len(t.toks) {
		return "", false
	}
	tok := t.toks[t.pos]
	t.pos++
	return tok, true
}

// peek returns the next token without advancing, or ("", false) at end of
// input.
func (t *tokenStream) peek() (string, bool) {
	if t.pos >= len(t.toks) {
		return "", false
	}
	return t.toks[t.pos], true
}
