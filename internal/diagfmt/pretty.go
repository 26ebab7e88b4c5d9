package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"nbcheck/internal/diag"
	"nbcheck/internal/notebook"
)

var severityColors = map[diag.Severity]*color.Color{
	diag.SevBreaking:   color.New(color.FgRed, color.Bold),
	diag.SevRuntime:    color.New(color.FgYellow, color.Bold),
	diag.SevFormatting: color.New(color.FgCyan, color.Bold),
}

var fixColor = color.New(color.FgGreen)

// Pretty formats diagnostics in a human-readable form. For each diagnostic:
//
//	<file>:<line>:<col>: <severity> <code>: <message>
//
// followed by an excerpt of the notebook around the primary location with a
// caret under the flagged column, then the fix hint if any. Context lines are
// reconstructed from the cells' code; lines between cells are simply absent
// from the excerpt.
func Pretty(w io.Writer, nb *notebook.NotebookSerialization, ds []diag.Diagnostic, opts PrettyOpts) {
	lines := lineIndex(nb)
	for i, d := range ds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printDiagnostic(w, d, nb, lines, opts)
	}
}

func printDiagnostic(w io.Writer, d diag.Diagnostic, nb *notebook.NotebookSerialization, lines map[int]string, opts PrettyOpts) {
	file := d.Filename
	if file == "" && nb != nil {
		file = nb.Filename
	}
	if file == "" {
		file = "<notebook>"
	}

	sev := d.Severity.String()
	if opts.Color {
		if c, ok := severityColors[d.Severity]; ok {
			sev = c.Sprint(sev)
		}
	}

	loc := d.Primary()
	if loc.Line > 0 {
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", file, loc.Line, loc.Col, sev, d.Code, d.Message)
	} else {
		fmt.Fprintf(w, "%s: %s %s: %s\n", file, sev, d.Code, d.Message)
	}

	if opts.Context >= 0 && loc.Line > 0 {
		printExcerpt(w, loc, lines, opts.Context)
	}

	if opts.ShowFixes && d.Fix != "" {
		hint := d.Fix
		if opts.Color {
			hint = fixColor.Sprint(hint)
		}
		fmt.Fprintf(w, "  fix: %s\n", hint)
	}
}

func printExcerpt(w io.Writer, loc diag.Location, lines map[int]string, context int) {
	first := loc.Line - context
	if first < 1 {
		first = 1
	}
	last := loc.Line + context

	width := len(fmt.Sprint(last))
	for l := first; l <= last; l++ {
		text, ok := lines[l]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %*d | %s\n", width, l, text)
		if l == loc.Line {
			fmt.Fprintf(w, "  %*s | %s^\n", width, "", caretPad(text, loc.Col))
		}
	}
}

// caretPad returns the whitespace that aligns a caret under the 1-based
// column col of text, accounting for wide runes.
func caretPad(text string, col int) string {
	if col < 1 {
		col = 1
	}
	prefix := text
	if col-1 < len(text) {
		prefix = text[:col-1]
	}
	return strings.Repeat(" ", runewidth.StringWidth(prefix))
}

// lineIndex maps absolute notebook lines to their text.
func lineIndex(nb *notebook.NotebookSerialization) map[int]string {
	idx := make(map[int]string)
	if nb == nil {
		return idx
	}
	for _, cell := range nb.Cells {
		if cell.Line < 1 {
			continue
		}
		for row, text := range strings.Split(cell.Code, "\n") {
			idx[cell.Line+row] = text
		}
	}
	return idx
}
