package rules

import (
	"strconv"

	"nbcheck/internal/match"
	"nbcheck/internal/notebook"
	"nbcheck/internal/pysrc"
)

// GraphRule is embedded by rules that inspect the dependency graph. It
// provides the helpers that translate graph cell ids — which are assigned
// independently of source order — back to source cell definitions and
// precise positions.
type GraphRule struct{}

// ResolveCell returns the source cell definition behind a graph cell id, or
// nil when the id cannot be resolved. The reserved setup id resolves directly
// by name; every other id goes through cell matching between the graph's
// {id -> code} view and the notebook's {position -> code} view (both
// excluding setup), then indexes into the notebook's ordered cell list by the
// matched position.
func (GraphRule) ResolveCell(rctx *Context, id notebook.CellID) *notebook.CellDef {
	nb := rctx.Notebook()
	if id == notebook.SetupCellID {
		if i := nb.SetupIndex(); i >= 0 {
			return &nb.Cells[i]
		}
		return nil
	}

	g, err := rctx.Graph()
	if err != nil {
		return nil
	}

	source := make([]match.Entry, 0, len(g.Order))
	for _, gid := range g.Order {
		if gid == notebook.SetupCellID {
			continue
		}
		source = append(source, match.Entry{ID: gid, Code: g.Cells[gid].Code})
	}
	target := make([]match.Entry, 0, len(nb.Cells))
	for i := range nb.Cells {
		if nb.Cells[i].IsSetup() {
			continue
		}
		target = append(target, match.Entry{
			ID:   notebook.CellID(strconv.Itoa(i)),
			Code: nb.Cells[i].Code,
		})
	}

	assigned := match.Reconcile(source, target)
	for pos, got := range assigned {
		if got != id {
			continue
		}
		i, convErr := strconv.Atoi(string(pos))
		if convErr != nil || i < 0 || i >= len(nb.Cells) {
			return nil
		}
		return &nb.Cells[i]
	}
	return nil
}

// CellLocation returns the resolved cell's own (line, column), or (0, 0)
// when the id cannot be resolved.
func (r GraphRule) CellLocation(rctx *Context, id notebook.CellID) (int, int) {
	cell := r.ResolveCell(rctx, id)
	if cell == nil {
		return 0, 0
	}
	return cell.Line, cell.Col
}

// VariableLocation returns the (line, column) where name is bound inside the
// cell behind id: an assignment target, a function or class name, or an
// import alias. Degrades gracefully — the cell's own location when the name
// has no binding node, (0, 0) when the cell cannot be resolved — and never
// fails.
func (r GraphRule) VariableLocation(rctx *Context, id notebook.CellID, name string) (int, int) {
	cell := r.ResolveCell(rctx, id)
	if cell == nil {
		return 0, 0
	}
	row, col, ok := pysrc.FindBinding(cell.Code, name)
	if !ok {
		return cell.Line, cell.Col
	}
	if row == 0 {
		// binding on the cell's first line: columns offset from the cell origin
		return cell.Line, cell.Col + col
	}
	return cell.Line + row, col + 1
}
