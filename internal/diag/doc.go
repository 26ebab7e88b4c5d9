// Package diag defines the diagnostic model shared by all checking phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable value types that capture findings
//     produced by validation rules.
//   - Keep ordering semantics in one place: every sort in this module keys on
//     Severity.Priority() (Breaking before Runtime before Formatting), never
//     on enum declaration order.
//
// # Scope
//
// Package diag performs no formatting, IO, or CLI integration. Rendering
// lives in internal/diagfmt; collection and ordering of in-flight diagnostics
// lives in the rules Context.
//
// # Data model
//
// Diagnostic is the central record. It carries the rule identity (Code, Name),
// a severity, a message, one or more (line, column) pairs as parallel slices,
// the owning cell identifiers where known, and fix metadata (a tri-state
// Fixable plus an optional human-readable hint). SortedLocations returns the
// location pairs jointly sorted by (line, column); producers are free to
// append locations in discovery order.
package diag
