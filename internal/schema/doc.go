// Package schema implements the recursive validation engine for state test
// templates.
//
// The engine is built from three composable pieces:
//   - Field parsers: validate and/or normalize one raw field value (Opaque,
//     Pattern, Data).
//   - Record: enforces an exact key-set contract over a JSON object, then
//     applies each field's parser. Records nest, so a record field can be
//     validated by another record.
//   - Collection: applies a key parser and a record schema uniformly across
//     all entries of a named collection.
//
// Every validating operation returns a *Error with an enumerated code.
// Errors are fatal to the current translation: the walk stops at the first
// failing entry and nothing after it is evaluated.
//
// The key-set check is deliberately dual-reporting: a single error names
// both the missing and the unexpected keys, so a template author fixes a
// renamed field in one round trip instead of two.
package schema
