package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadError represents a failure to read or decode a template.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadTemplate reads a suite template from disk. Templates are JSON by
// default; a .yaml/.yml extension selects YAML, decoded into the same
// document shape. The top level must be an object mapping case names to
// test cases.
func LoadTemplate(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("reading template: %v", err)}
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: fmt.Sprintf("decoding YAML: %v", err)}
		}
		if doc == nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: "top-level value must be an object"}
		}
		return doc, nil
	default:
		doc, err := decodeJSON(data)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: err.Error()}
		}
		return doc, nil
	}
}

// ReadTemplate reads a JSON suite template from a stream (stdin mode).
func ReadTemplate(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("reading template: %v", err)}
	}
	doc, err := decodeJSON(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
	}
	return doc, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding JSON: %v", err)
	}
	// A bare null decodes into a nil map with no error; only an object
	// mapping case names to test cases is an acceptable top level.
	if doc == nil {
		return nil, fmt.Errorf("top-level value must be an object")
	}
	return doc, nil
}
