package rules

import (
	"testing"

	"nbcheck/internal/graph"
	"nbcheck/internal/notebook"
)

// scrambledContext builds a notebook whose graph ids neither match source
// positions nor source order, forcing resolution through cell matching.
func scrambledContext() *Context {
	nb := &notebook.NotebookSerialization{
		Filename: "nb.py",
		Cells: []notebook.CellDef{
			{Name: "setup", Code: "limit = 10", Line: 1, Col: 1},
			{Name: "first", Code: "x = 1", Line: 4, Col: 1},
			{Name: "second", Code: "y = x\nz = 2", Line: 7, Col: 1},
		},
	}
	g := &graph.DirectedGraph{
		Cells: map[notebook.CellID]*graph.CellData{
			notebook.SetupCellID: {Code: "limit = 10", Defs: []string{"limit"}},
			"zz":                 {Code: "y = x\nz = 2", Defs: []string{"y", "z"}, Refs: []string{"x"}},
			"aa":                 {Code: "x = 1", Defs: []string{"x"}},
		},
		Order: []notebook.CellID{notebook.SetupCellID, "zz", "aa"},
	}
	return NewContext(nb, staticGraph(g, nil))
}

func TestResolveCellSetupByName(t *testing.T) {
	rctx := scrambledContext()
	var r GraphRule
	cell := r.ResolveCell(rctx, notebook.SetupCellID)
	if cell == nil || cell.Name != "setup" {
		t.Fatalf("setup resolved to %+v", cell)
	}
}

func TestResolveCellThroughMatching(t *testing.T) {
	rctx := scrambledContext()
	var r GraphRule

	cell := r.ResolveCell(rctx, "aa")
	if cell == nil || cell.Name != "first" {
		t.Fatalf("id aa resolved to %+v, want cell first", cell)
	}
	cell = r.ResolveCell(rctx, "zz")
	if cell == nil || cell.Name != "second" {
		t.Fatalf("id zz resolved to %+v, want cell second", cell)
	}
}

func TestResolveCellUnknownID(t *testing.T) {
	rctx := scrambledContext()
	var r GraphRule
	if cell := r.ResolveCell(rctx, "nope"); cell != nil {
		t.Fatalf("unknown id resolved to %+v, want nil", cell)
	}
}

func TestVariableLocationBindingFound(t *testing.T) {
	rctx := scrambledContext()
	var r GraphRule

	// "x = 1" binds x on its first line
	line, col := r.VariableLocation(rctx, "aa", "x")
	if line != 4 || col != 1 {
		t.Fatalf("x bound at (%d,%d), want (4,1)", line, col)
	}
	// z is bound on the second line of the cell starting at line 7
	line, col = r.VariableLocation(rctx, "zz", "z")
	if line != 8 || col != 1 {
		t.Fatalf("z bound at (%d,%d), want (8,1)", line, col)
	}
}

func TestVariableLocationFallsBackToCell(t *testing.T) {
	rctx := scrambledContext()
	var r GraphRule
	// name with no binding node in the cell: the cell's own origin
	line, col := r.VariableLocation(rctx, "aa", "ghost")
	if line != 4 || col != 1 {
		t.Fatalf("fallback = (%d,%d), want cell origin (4,1)", line, col)
	}
}

func TestVariableLocationUnresolvableCell(t *testing.T) {
	rctx := scrambledContext()
	var r GraphRule
	line, col := r.VariableLocation(rctx, "nope", "x")
	if line != 0 || col != 0 {
		t.Fatalf("unresolvable cell = (%d,%d), want (0,0)", line, col)
	}
}
