package schema

import (
	"fmt"
	"regexp"
)

// FieldParser validates and/or normalizes one raw field value.
// Implementations return a *Error on validation failure.
type FieldParser interface {
	Parse(v any) (any, error)
}

// Opaque accepts any value unchanged. Used for the pass-through fields of a
// test case (env, logs, out, post, postStateRoot, pre).
type Opaque struct{}

func (Opaque) Parse(v any) (any, error) {
	return v, nil
}

// Pattern accepts only strings whose entirety matches a fixed regular
// expression. A prefix match is not enough.
type Pattern struct {
	kind string
	expr string
	re   *regexp.Regexp
}

// NewPattern compiles a pattern parser. The expression must carry its own
// ^...$ anchors; expr is reported verbatim in format errors.
func NewPattern(kind, expr string) Pattern {
	return Pattern{kind: kind, expr: expr, re: regexp.MustCompile(expr)}
}

func (p Pattern) Parse(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, NewFormatError(p.kind, fmt.Sprintf("%v", v), p.expr)
	}
	if !p.re.MatchString(s) {
		return nil, NewFormatError(p.kind, s, p.expr)
	}
	return s, nil
}

// The three pattern-constrained transaction field parsers.
var (
	Address   = NewPattern("Address", `^[0-9a-f]{40}$`)
	SecretKey = NewPattern("SecretKey", `^[0-9a-f]{64}$`)
	UInt      = NewPattern("UInt", `^\d+$`)
)
