package schema

import (
	"fmt"
	"strings"
)

// Schema error codes (E101-E106)
const (
	ErrKeySetMismatch    = "E101" // record keys differ from expected set
	ErrFieldFormat       = "E102" // field value fails its required pattern
	ErrUnknownPrefix     = "E103" // data shorthand prefix is not hex/compile
	ErrMalformedData     = "E104" // data shorthand lacks a prefix:body split
	ErrUnsupportedTarget = "E105" // compile target extension has no compiler
	ErrCompilerFailure   = "E106" // compiler subprocess failed or unreachable
)

// Error is the single error type returned by every validating operation.
// Code identifies the failure kind; the remaining fields carry structured
// context for the kinds that have it.
type Error struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`

	// Raw and Pattern are set for field format violations.
	Raw     string `json:"raw,omitempty"`
	Pattern string `json:"pattern,omitempty"`

	// Missing and Unexpected are set for key-set mismatches. Both are
	// reported together, not just the first difference found.
	Missing    []string `json:"missing,omitempty"`
	Unexpected []string `json:"unexpected,omitempty"`

	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Code)
	if e.Field != "" {
		fmt.Fprintf(&b, " %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewFormatError reports a value that fails the pattern required by the
// named field kind (Address, SecretKey, UInt).
func NewFormatError(kind, raw, pattern string) *Error {
	return &Error{
		Code:    ErrFieldFormat,
		Message: fmt.Sprintf("invalid %s field: %q does not match %s", kind, raw, pattern),
		Raw:     raw,
		Pattern: pattern,
	}
}

// NewKeySetError reports a record whose key set differs from the expected
// set. Both the missing and the unexpected names are included.
func NewKeySetError(missing, unexpected []string) *Error {
	return &Error{
		Code:       ErrKeySetMismatch,
		Message:    fmt.Sprintf("missing keys: %v; unexpected keys: %v", missing, unexpected),
		Missing:    missing,
		Unexpected: unexpected,
	}
}

// prefixField extends the field path of a schema error as it propagates out
// of a nested record or collection entry. Non-schema errors pass through.
func prefixField(err error, name string) error {
	se, ok := err.(*Error)
	if !ok {
		return err
	}
	out := *se
	if out.Field == "" {
		out.Field = name
	} else {
		out.Field = name + "." + out.Field
	}
	return &out
}
