// Package graph models a notebook's reactive dependency graph: which cell
// defines which variables, which cells reference them, and the edges that
// ordering implies. Cell IDs here are assigned independently of source cell
// positions; reconciling the two id-spaces is the match package's job.
package graph

import (
	"sort"
	"strings"

	"nbcheck/internal/notebook"
)

// CellData is the compiled form of one cell.
type CellData struct {
	Code string
	// Defs are the variable names the cell binds at cell level.
	Defs []string
	// Refs are the names the cell reads but does not bind.
	Refs []string
	// Imports are top-level module names the cell imports.
	Imports []string
}

// DirectedGraph maps cell ids to their compiled data. Order fixes a
// deterministic iteration order over ids (the builder's insertion order).
type DirectedGraph struct {
	Cells map[notebook.CellID]*CellData
	Order []notebook.CellID
}

// Edge is one dependency: To references a name that From defines.
type Edge struct {
	From notebook.CellID
	To   notebook.CellID
}

// Definitions maps each variable name to the cells defining it, in Order.
func (g *DirectedGraph) Definitions() map[string][]notebook.CellID {
	defs := make(map[string][]notebook.CellID)
	for _, id := range g.Order {
		for _, name := range g.Cells[id].Defs {
			defs[name] = append(defs[name], id)
		}
	}
	return defs
}

// Children returns, for every cell, the cells that depend on it, each child
// list sorted by Order for determinism.
func (g *DirectedGraph) Children() map[notebook.CellID][]notebook.CellID {
	defs := g.Definitions()
	rank := make(map[notebook.CellID]int, len(g.Order))
	for i, id := range g.Order {
		rank[id] = i
	}

	children := make(map[notebook.CellID][]notebook.CellID)
	for _, to := range g.Order {
		seen := make(map[notebook.CellID]struct{})
		for _, name := range g.Cells[to].Refs {
			for _, from := range defs[name] {
				if from == to {
					continue
				}
				if _, dup := seen[from]; dup {
					continue
				}
				seen[from] = struct{}{}
				children[from] = append(children[from], to)
			}
		}
	}
	for from := range children {
		kids := children[from]
		sort.Slice(kids, func(i, j int) bool { return rank[kids[i]] < rank[kids[j]] })
	}
	return children
}

// Parents returns the cells each cell depends on, derived from Children.
func (g *DirectedGraph) Parents(id notebook.CellID) []notebook.CellID {
	children := g.Children()
	var parents []notebook.CellID
	for _, from := range g.Order {
		for _, to := range children[from] {
			if to == id {
				parents = append(parents, from)
				break
			}
		}
	}
	return parents
}

// FindCycles enumerates the graph's elementary cycles as edge lists. The same
// cycle discovered from different traversal starts collapses to a single
// entry: cycles are deduplicated by their exact edge-set before being
// returned, and the result is ordered by the canonical edge-set key.
func (g *DirectedGraph) FindCycles() [][]Edge {
	children := g.Children()

	seen := make(map[string][]Edge)
	var keys []string

	var path []notebook.CellID
	onPath := make(map[notebook.CellID]struct{})

	var dfs func(start, cur notebook.CellID)
	dfs = func(start, cur notebook.CellID) {
		for _, next := range children[cur] {
			if next == start {
				edges := cycleEdges(path)
				key := edgeSetKey(edges)
				if _, dup := seen[key]; !dup {
					seen[key] = edges
					keys = append(keys, key)
				}
				continue
			}
			if _, active := onPath[next]; active {
				continue
			}
			path = append(path, next)
			onPath[next] = struct{}{}
			dfs(start, next)
			delete(onPath, next)
			path = path[:len(path)-1]
		}
	}

	for _, start := range g.Order {
		path = append(path[:0], start)
		onPath = map[notebook.CellID]struct{}{start: {}}
		dfs(start, start)
	}

	sort.Strings(keys)
	out := make([][]Edge, 0, len(keys))
	for _, key := range keys {
		out = append(out, seen[key])
	}
	return out
}

// cycleEdges closes the path back onto its first element and rotates the
// cycle so the lexicographically smallest cell comes first, making the
// representation independent of the traversal start.
func cycleEdges(path []notebook.CellID) []Edge {
	n := len(path)
	minAt := 0
	for i := 1; i < n; i++ {
		if path[i] < path[minAt] {
			minAt = i
		}
	}
	edges := make([]Edge, 0, n)
	for i := 0; i < n; i++ {
		from := path[(minAt+i)%n]
		to := path[(minAt+i+1)%n]
		edges = append(edges, Edge{From: from, To: to})
	}
	return edges
}

func edgeSetKey(edges []Edge) string {
	parts := make([]string, len(edges))
	for i, e := range edges {
		parts[i] = string(e.From) + "->" + string(e.To)
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}
