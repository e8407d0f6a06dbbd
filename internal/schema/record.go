package schema

import (
	"fmt"
	"sort"
)

// Field pairs a record member name with its parser. Records are declared as
// ordered field lists so the expected key set is a plain enumerable value,
// not something recovered by introspection.
type Field struct {
	Name   string
	Parser FieldParser
}

// Record validates that an object's key set exactly matches its declared
// fields, then applies each field's parser. A Record is itself a FieldParser
// so records nest (the transaction record inside a test case).
type Record struct {
	fields   []Field
	expected map[string]struct{}
}

// NewRecord builds a record schema from its field list.
func NewRecord(fields ...Field) *Record {
	expected := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		expected[f.Name] = struct{}{}
	}
	return &Record{fields: fields, expected: expected}
}

func (r *Record) Parse(v any) (any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &Error{
			Code:    ErrKeySetMismatch,
			Message: fmt.Sprintf("expected an object, got %T", v),
		}
	}
	return r.Apply(obj)
}

// Apply validates the key set and runs every field parser. The key-set check
// reports missing and unexpected names together; field parsers then run in
// declaration order and the first failure wins, with the field name joined
// onto the error path.
func (r *Record) Apply(in map[string]any) (map[string]any, error) {
	var missing, unexpected []string
	for _, f := range r.fields {
		if _, ok := in[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	for k := range in {
		if _, ok := r.expected[k]; !ok {
			unexpected = append(unexpected, k)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		sort.Strings(missing)
		sort.Strings(unexpected)
		return nil, NewKeySetError(missing, unexpected)
	}

	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		val, err := f.Parser.Parse(in[f.Name])
		if err != nil {
			return nil, prefixField(err, f.Name)
		}
		out[f.Name] = val
	}
	return out, nil
}
