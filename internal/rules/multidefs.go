package rules

import (
	"context"
	"fmt"
	"sort"

	"nbcheck/internal/diag"
)

// MultipleDefinitions reports every variable name bound in more than one
// cell: one diagnostic per distinct name, listing every (cell, line, column)
// the name is bound at.
type MultipleDefinitions struct{ GraphRule }

func (MultipleDefinitions) Meta() Meta {
	return Meta{
		Code:     diag.CodeMultipleDefs,
		Name:     diag.NameMultipleDefs,
		Severity: diag.SevBreaking,
		Fixable:  diag.FixableNo,
	}
}

func (r MultipleDefinitions) Check(ctx context.Context, rctx *Context) error {
	g, err := rctx.Graph()
	if err != nil {
		return err
	}
	defs := g.Definitions()

	var names []string
	for name, cells := range defs {
		if len(cells) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		cells := defs[name]
		d := r.Meta().newDiagnostic(
			fmt.Sprintf("variable %q is defined in %d cells", name, len(cells)))
		d.Fix = fmt.Sprintf(
			"rename %q in all but one cell, or prefix it with an underscore to keep it cell-local", name)
		for _, id := range cells {
			line, col := r.VariableLocation(rctx, id, name)
			d = d.WithCell(id).WithLocation(line, col)
		}
		rctx.AddDiagnostic(d)
	}
	return nil
}
