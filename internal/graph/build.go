package graph

import (
	"fmt"

	"fortio.org/safecast"

	"nbcheck/internal/notebook"
	"nbcheck/internal/pysrc"
)

// Build compiles a notebook into its dependency graph. The setup cell keeps
// its reserved id; every other parseable cell receives a synthetic id that is
// deliberately unrelated to its source position, mirroring how the runtime
// assigns ids independently of source order. Unparsable cells are excluded.
func Build(nb *notebook.NotebookSerialization) (*DirectedGraph, error) {
	g := &DirectedGraph{Cells: make(map[notebook.CellID]*CellData)}

	seq := 0
	for i := range nb.Cells {
		cell := &nb.Cells[i]
		if cell.Unparsable {
			continue
		}

		var id notebook.CellID
		if cell.IsSetup() {
			id = notebook.SetupCellID
		} else {
			n, err := safecast.Conv[uint16](seq)
			if err != nil {
				return nil, fmt.Errorf("cell count overflow: %w", err)
			}
			id = notebook.CellID(fmt.Sprintf("c%04d", n))
			seq++
		}

		a, err := pysrc.Analyze(cell.Code)
		if err != nil {
			return nil, fmt.Errorf("analyze cell %d: %w", i, err)
		}
		g.Cells[id] = &CellData{
			Code:    cell.Code,
			Defs:    a.Defs,
			Refs:    a.Refs,
			Imports: a.Imports,
		}
		g.Order = append(g.Order, id)
	}
	return g, nil
}
