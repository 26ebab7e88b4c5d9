package diagfmt

import (
	"encoding/json"
	"io"

	"nbcheck/internal/diag"
	"nbcheck/internal/notebook"
)

// DiagnosticJSON is one diagnostic in machine-readable form. Fixable is
// encoded as false, true or the string "unsafe".
type DiagnosticJSON struct {
	Type     string            `json:"type"`
	Message  string            `json:"message"`
	Filename string            `json:"filename,omitempty"`
	Line     int               `json:"line,omitempty"`
	Column   int               `json:"column,omitempty"`
	Lines    []int             `json:"lines,omitempty"`
	Columns  []int             `json:"columns,omitempty"`
	Severity string            `json:"severity"`
	Name     string            `json:"name"`
	Code     string            `json:"code"`
	Fixable  any               `json:"fixable"`
	Fix      string            `json:"fix,omitempty"`
	CellIDs  []notebook.CellID `json:"cell_ids,omitempty"`
}

// DiagnosticsOutput is the root structure of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

// BuildDiagnosticsOutput converts diagnostics to the JSON structure without
// serializing.
func BuildDiagnosticsOutput(ds []diag.Diagnostic, opts JSONOpts) DiagnosticsOutput {
	max := len(ds)
	if opts.Max > 0 && opts.Max < max {
		max = opts.Max
	}

	out := make([]DiagnosticJSON, 0, max)
	for _, d := range ds[:max] {
		rec := DiagnosticJSON{
			Type:     d.Code,
			Message:  d.Message,
			Filename: d.Filename,
			Severity: d.Severity.String(),
			Name:     d.Name,
			Code:     d.Code,
			Fixable:  fixableJSON(d.Fixable),
			Fix:      d.Fix,
			CellIDs:  d.CellIDs,
		}
		if loc := d.Primary(); loc.Line > 0 {
			rec.Line = loc.Line
			rec.Column = loc.Col
		}
		if len(d.Lines) > 1 {
			rec.Lines = d.Lines
			rec.Columns = d.Cols
		}
		out = append(out, rec)
	}
	return DiagnosticsOutput{Diagnostics: out, Count: len(out)}
}

// JSON writes diagnostics as a single indented JSON document.
func JSON(w io.Writer, ds []diag.Diagnostic, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(ds, opts))
}

func fixableJSON(f diag.Fixable) any {
	switch f {
	case diag.FixableYes:
		return true
	case diag.FixableUnsafe:
		return "unsafe"
	}
	return false
}
