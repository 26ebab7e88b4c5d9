// Package diagfmt renders diagnostics for terminals and for machine
// consumers.
package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color bool
	// Context is how many notebook lines to show around the primary
	// location. Negative disables the excerpt, 0 shows only the flagged line.
	Context int
	// ShowFixes prints the fix hint under the excerpt when present.
	ShowFixes bool
}

// DefaultPrettyOpts shows one context line and fix hints, no color.
func DefaultPrettyOpts() PrettyOpts {
	return PrettyOpts{Context: 1, ShowFixes: true}
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	// Max truncates the output, not the diagnostics themselves. 0 keeps all.
	Max int
}
