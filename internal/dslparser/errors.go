package dslparser

import "fmt"

// ParseError identifies the offending token and the section being parsed,
// per §7: "a malformed script yields a single error identifying the
// offending token and the section being parsed; no partial world is
// handed back."
type ParseError struct {
	Section string
	Token   string
	Reason  string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("dslparser: %s: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("dslparser: in section %q at token %q: %s", e.Section, e.Token, e.Reason)
}

func errf(section, token, reason string, args ...any) error {
	return &ParseError{Section: section, Token: token, Reason: fmt.Sprintf(reason, args...)}
}
