// Package match reconciles two differently-keyed views of "the same" notebook
// cells. The dependency graph assigns cell IDs independently of source order,
// so mapping a graph cell back to a source position requires fuzzy matching:
// exact code equality first, then a minimum-cost assignment over prefix/suffix
// similarity for everything the exact pass leaves behind.
package match

import (
	"fmt"

	"nbcheck/internal/notebook"
)

// Entry is one (id, code) pair on either side of a reconciliation.
type Entry struct {
	ID   notebook.CellID
	Code string
}

// Reconcile assigns every target entry exactly one id: a source id where the
// codes plausibly denote the same logical cell, otherwise an id present in
// target but absent from source (a genuinely new cell). Target ids must be
// unique. The result maps each target id to its assigned id, never assigns
// the same id twice, and is deterministic for identical input. Identical
// source and target collections produce the identity map.
func Reconcile(source, target []Entry) map[notebook.CellID]notebook.CellID {
	srcDigest := make([]uint64, len(source))
	for i := range source {
		srcDigest[i] = codeDigest(source[i].Code)
	}
	tgtDigest := make([]uint64, len(target))
	for i := range target {
		tgtDigest[i] = codeDigest(target[i].Code)
	}

	srcGroups := make(map[uint64][]int)
	for i := range source {
		srcGroups[srcDigest[i]] = append(srcGroups[srcDigest[i]], i)
	}

	assigned := make(map[notebook.CellID]notebook.CellID, len(target))
	srcUsed := make([]bool, len(source))
	resolved := make([]bool, len(target))

	// Exact pass: walk targets in order, consuming the closest-position
	// member of the matching source group. Handles reorderings and exact
	// duplicates deterministically.
	for ti := range target {
		if p, ok := takeClosest(srcGroups[tgtDigest[ti]], srcUsed, ti); ok {
			srcUsed[p] = true
			assigned[target[ti].ID] = source[p].ID
			resolved[ti] = true
		}
	}

	unresolvedLeft := false
	for ti := range target {
		if !resolved[ti] {
			unresolvedLeft = true
			break
		}
	}
	srcLeft := false
	for _, used := range srcUsed {
		if !used {
			srcLeft = true
			break
		}
	}

	if unresolvedLeft && srcLeft {
		assignBySimilarity(source, target, srcDigest, tgtDigest, srcUsed, resolved, assigned)
	}

	backfill(source, target, resolved, assigned)
	return assigned
}

// assignBySimilarity matches the distinct unmatched code strings on each side
// through the Hungarian algorithm, then expands the distinct-code assignment
// back across individual positions.
func assignBySimilarity(
	source, target []Entry,
	srcDigest, tgtDigest []uint64,
	srcUsed, resolved []bool,
	assigned map[notebook.CellID]notebook.CellID,
) {
	srcCodes, srcPos := distinctRemaining(source, srcDigest, srcUsed)
	tgtCodes, tgtPos := distinctRemaining(target, tgtDigest, resolved)

	n := max(len(srcCodes), len(tgtCodes))
	cost := make([][]int, n)
	for i := range cost {
		cost[i] = make([]int, n)
		for j := range cost[i] {
			if i < len(tgtCodes) && j < len(srcCodes) {
				cost[i][j] = Score(srcCodes[j].code, tgtCodes[i].code)
			}
		}
	}

	rowAssign := hungarian(cost)
	for i := range tgtCodes {
		j := rowAssign[i]
		if j < 0 || j >= len(srcCodes) {
			continue // matched against padding: stays unresolved
		}
		group := srcPos[srcCodes[j].digest]
		for _, ti := range tgtPos[tgtCodes[i].digest] {
			p, ok := takeClosest(group, srcUsed, ti)
			if !ok {
				break // source group exhausted, the rest backfills
			}
			srcUsed[p] = true
			assigned[target[ti].ID] = source[p].ID
			resolved[ti] = true
		}
	}
}

type distinctCode struct {
	digest uint64
	code   string
}

// distinctRemaining lists the distinct codes among entries whose position is
// still available (available[i] == false means taken), in first-occurrence
// order, together with the available positions per digest.
func distinctRemaining(entries []Entry, digests []uint64, taken []bool) ([]distinctCode, map[uint64][]int) {
	var codes []distinctCode
	pos := make(map[uint64][]int)
	for i := range entries {
		if taken[i] {
			continue
		}
		if _, seen := pos[digests[i]]; !seen {
			codes = append(codes, distinctCode{digest: digests[i], code: entries[i].Code})
		}
		pos[digests[i]] = append(pos[digests[i]], i)
	}
	return codes, pos
}

// takeClosest picks the unused position in group numerically closest to want,
// preferring the lower position on ties.
func takeClosest(group []int, used []bool, want int) (int, bool) {
	best, bestDist := -1, 0
	for _, p := range group {
		if used[p] {
			continue
		}
		d := p - want
		if d < 0 {
			d = -d
		}
		if best == -1 || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best, best != -1
}

// backfill hands every still-unresolved target an id that exists in target
// but not in source. By construction the pool is large enough; running out
// indicates a broken invariant, not a recoverable condition.
func backfill(source, target []Entry, resolved []bool, assigned map[notebook.CellID]notebook.CellID) {
	inSource := make(map[notebook.CellID]struct{}, len(source))
	for _, s := range source {
		inSource[s.ID] = struct{}{}
	}
	var pool []notebook.CellID
	for _, t := range target {
		if _, ok := inSource[t.ID]; !ok {
			pool = append(pool, t.ID)
		}
	}

	pi := 0
	for ti := range target {
		if resolved[ti] {
			continue
		}
		if pi >= len(pool) {
			panic(fmt.Sprintf("cell match: fresh id pool exhausted (%d ids for more unresolved cells)", len(pool)))
		}
		assigned[target[ti].ID] = pool[pi]
		pi++
		resolved[ti] = true
	}
}
