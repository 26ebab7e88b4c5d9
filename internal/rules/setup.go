package rules

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"nbcheck/internal/diag"
	"nbcheck/internal/notebook"
)

// SetupCellDependencies enforces that the setup cell is a pure root: it must
// not read any variable defined by another cell.
type SetupCellDependencies struct{ GraphRule }

func (SetupCellDependencies) Meta() Meta {
	return Meta{
		Code:     diag.CodeSetupDependencies,
		Name:     diag.NameSetupDependencies,
		Severity: diag.SevBreaking,
		Fixable:  diag.FixableNo,
	}
}

func (r SetupCellDependencies) Check(ctx context.Context, rctx *Context) error {
	g, err := rctx.Graph()
	if err != nil {
		return err
	}
	setup, ok := g.Cells[notebook.SetupCellID]
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	defs := g.Definitions()
	var offending []string
	for _, ref := range setup.Refs {
		for _, id := range defs[ref] {
			if id != notebook.SetupCellID {
				offending = append(offending, ref)
				break
			}
		}
	}
	if len(offending) == 0 {
		return nil
	}
	sort.Strings(offending)

	quoted := make([]string, len(offending))
	for i, name := range offending {
		quoted[i] = fmt.Sprintf("%q", name)
	}
	line, col := r.CellLocation(rctx, notebook.SetupCellID)
	d := r.Meta().newDiagnostic(fmt.Sprintf(
		"setup cell reads %s defined in other cells; the setup cell must not have incoming dependencies",
		strings.Join(quoted, ", ")))
	d = d.WithCell(notebook.SetupCellID).WithLocation(line, col)
	rctx.AddDiagnostic(d)
	return nil
}
