package schema

import (
	"fmt"
	"strings"
)

// dataRef is the parsed form of the data field shorthand. It is a sealed
// variant: only dataEmpty, dataHex and dataCompile implement it.
type dataRef interface {
	dataRef()
}

type dataEmpty struct{}

type dataHex struct{ body string }

type dataCompile struct{ path string }

func (dataEmpty) dataRef()   {}
func (dataHex) dataRef()     {}
func (dataCompile) dataRef() {}

// parseDataRef splits a raw data field into its tagged form. A non-empty
// value must contain a ':' dividing it into a prefix and a body; the body
// itself may contain further colons.
func parseDataRef(raw string) (dataRef, error) {
	if raw == "" {
		return dataEmpty{}, nil
	}
	prefix, body, found := strings.Cut(raw, ":")
	if !found {
		return nil, &Error{
			Code:    ErrMalformedData,
			Message: fmt.Sprintf("expected a single ':' in data field: %q", raw),
			Raw:     raw,
		}
	}
	switch prefix {
	case "hex":
		return dataHex{body: body}, nil
	case "compile":
		return dataCompile{path: body}, nil
	default:
		return nil, &Error{
			Code:    ErrUnknownPrefix,
			Message: fmt.Sprintf("unknown data field prefix: %q", prefix),
			Raw:     raw,
		}
	}
}

// Resolver resolves a compile target path to a 0x-prefixed bytecode string.
// The translator's compile cache implements it.
type Resolver interface {
	Resolve(path string) (string, error)
}

// Data expands the data field shorthand: empty stays empty, hex bodies gain
// a 0x prefix, compile targets are resolved to bytecode.
type Data struct {
	Resolver Resolver
}

func (d Data) Parse(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, &Error{
			Code:    ErrMalformedData,
			Message: fmt.Sprintf("data field must be a string, got %T", v),
			Raw:     fmt.Sprintf("%v", v),
		}
	}
	ref, err := parseDataRef(s)
	if err != nil {
		return nil, err
	}
	switch r := ref.(type) {
	case dataEmpty:
		return "", nil
	case dataHex:
		// The body is passed through unchanged, not format-validated.
		return "0x" + r.body, nil
	case dataCompile:
		return d.Resolver.Resolve(r.path)
	default:
		return nil, fmt.Errorf("unreachable data variant %T", ref)
	}
}
