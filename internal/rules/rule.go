// Package rules defines the validation rules run against a notebook and the
// shared Context they report into.
//
// A Rule is one independent unit of validation: it inspects the notebook (and
// usually the dependency graph) and side-effects diagnostics into the Context.
// Rules run concurrently, must honor context cancellation at blocking points,
// and must only ever add fully-formed diagnostics, so cancellation can never
// leave a half-constructed record behind.
package rules

import (
	"context"

	"nbcheck/internal/diag"
)

// Meta is a rule's static identity. Severity and Fixable describe the
// diagnostics the rule emits.
type Meta struct {
	Code     string
	Name     string
	Severity diag.Severity
	Fixable  diag.Fixable
}

// newDiagnostic stamps the rule identity onto a fresh diagnostic.
func (m Meta) newDiagnostic(msg string) diag.Diagnostic {
	d := diag.New(m.Severity, m.Code, m.Name, msg)
	d.Fixable = m.Fixable
	return d
}

// Rule is one unit of validation. Check reports findings exclusively through
// rctx.AddDiagnostic and returns an error only for genuine failures (which
// abort the whole pass) or context cancellation.
type Rule interface {
	Meta() Meta
	Check(ctx context.Context, rctx *Context) error
}
