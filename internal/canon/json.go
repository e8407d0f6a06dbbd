// Package canon serializes suite documents as deterministic JSON.
//
// Output is reproducible run to run: object keys are sorted, strings are
// NFC normalized at the serialization boundary, HTML characters are not
// escaped, and nesting is indented with two spaces. Consumers must not
// depend on key order, but a stable order keeps diffs and golden fixtures
// meaningful.
package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

const indentUnit = "  "

// Marshal renders a decoded JSON document deterministically. It accepts the
// value shapes produced by encoding/json and gopkg.in/yaml.v3 decoding into
// any: nil, bool, string, numbers, []any and map[string]any.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any, depth int) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case string:
		return encodeString(buf, val)
	case json.Number:
		buf.WriteString(val.String())
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		out, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(out)
	case []any:
		return encodeArray(buf, val, depth)
	case map[string]any:
		return encodeObject(buf, val, depth)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// encodeString writes a JSON string with NFC normalization and HTML
// escaping disabled.
func encodeString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}
	// json.Encoder appends a newline; strip it.
	out := bytes.TrimRight(tmp.Bytes(), "\n")
	buf.Write(out)
	return nil
}

func encodeArray(buf *bytes.Buffer, arr []any, depth int) error {
	if len(arr) == 0 {
		buf.WriteString("[]")
		return nil
	}
	buf.WriteString("[\n")
	for i, elem := range arr {
		writeIndent(buf, depth+1)
		if err := encode(buf, elem, depth+1); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
		if i < len(arr)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	writeIndent(buf, depth)
	buf.WriteByte(']')
	return nil
}

func encodeObject(buf *bytes.Buffer, obj map[string]any, depth int) error {
	if len(obj) == 0 {
		buf.WriteString("{}")
		return nil
	}
	// Keys are serialized in NFC, so they must also be sorted and
	// de-duplicated in NFC; two raw keys that normalize to the same string
	// would otherwise emit a duplicate key.
	keys := make([]string, 0, len(obj))
	byNorm := make(map[string]string, len(obj))
	for k := range obj {
		nk := norm.NFC.String(k)
		if prev, ok := byNorm[nk]; ok {
			return fmt.Errorf("object keys %q and %q collide after normalization", prev, k)
		}
		byNorm[nk] = k
		keys = append(keys, nk)
	}
	sort.Strings(keys)

	buf.WriteString("{\n")
	for i, k := range keys {
		writeIndent(buf, depth+1)
		if err := encodeString(buf, k); err != nil {
			return err
		}
		buf.WriteString(": ")
		if err := encode(buf, obj[byNorm[k]], depth+1); err != nil {
			return fmt.Errorf("object[%q]: %w", k, err)
		}
		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	writeIndent(buf, depth)
	buf.WriteByte('}')
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.WriteString(indentUnit)
	}
}
