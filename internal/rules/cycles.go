package rules

import (
	"context"
	"strings"

	"nbcheck/internal/diag"
	"nbcheck/internal/graph"
)

// CycleDependencies reports dependency cycles in the graph. The graph layer
// already collapses cycles sharing the same edge-set, so each cycle produces
// exactly one diagnostic regardless of where traversal discovered it.
type CycleDependencies struct{ GraphRule }

func (CycleDependencies) Meta() Meta {
	return Meta{
		Code:     diag.CodeCycleDependencies,
		Name:     diag.NameCycleDependencies,
		Severity: diag.SevBreaking,
		Fixable:  diag.FixableNo,
	}
}

func (r CycleDependencies) Check(ctx context.Context, rctx *Context) error {
	g, err := rctx.Graph()
	if err != nil {
		return err
	}
	for _, cycle := range g.FindCycles() {
		if err := ctx.Err(); err != nil {
			return err
		}
		d := r.Meta().newDiagnostic("cells form a dependency cycle: " + cyclePath(cycle))
		for _, e := range cycle {
			line, col := r.CellLocation(rctx, e.From)
			d = d.WithCell(e.From).WithLocation(line, col)
		}
		rctx.AddDiagnostic(d)
	}
	return nil
}

func cyclePath(cycle []graph.Edge) string {
	var b strings.Builder
	for _, e := range cycle {
		b.WriteString(string(e.From))
		b.WriteString(" -> ")
	}
	b.WriteString(string(cycle[0].From))
	return b.String()
}
