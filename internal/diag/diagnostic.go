package diag

import (
	"sort"

	"nbcheck/internal/notebook"
)

// Fixable describes whether a diagnostic can be fixed automatically.
type Fixable uint8

const (
	FixableNo Fixable = iota
	FixableYes
	// FixableUnsafe marks fixes that may change behavior and need review.
	FixableUnsafe
)

func (f Fixable) String() string {
	switch f {
	case FixableYes:
		return "true"
	case FixableUnsafe:
		return "unsafe"
	}
	return "false"
}

// Location is one (line, column) pair, 1-based. A zero Location means the
// position could not be determined.
type Location struct {
	Line int
	Col  int
}

// Diagnostic is a single reported issue. Lines and Cols are parallel slices
// of equal length; most diagnostics carry exactly one location, but rules
// that aggregate (e.g. one finding per variable name across several cells)
// carry one location per occurrence, with CellIDs parallel where known.
type Diagnostic struct {
	Code     string
	Name     string
	Message  string
	Severity Severity
	Filename string
	CellIDs  []notebook.CellID
	Lines    []int
	Cols     []int
	Fixable  Fixable
	Fix      string
}

// New constructs a diagnostic without locations; chain WithLocation /
// WithCell / WithFix to fill in the rest.
func New(sev Severity, code, name, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Name:     name,
		Message:  msg,
	}
}

// WithLocation appends one (line, column) pair.
func (d Diagnostic) WithLocation(line, col int) Diagnostic {
	d.Lines = append(d.Lines, line)
	d.Cols = append(d.Cols, col)
	return d
}

// WithCell appends an owning cell identifier.
func (d Diagnostic) WithCell(id notebook.CellID) Diagnostic {
	d.CellIDs = append(d.CellIDs, id)
	return d
}

// WithFix attaches a human-readable fix hint.
func (d Diagnostic) WithFix(fixable Fixable, hint string) Diagnostic {
	d.Fixable = fixable
	d.Fix = hint
	return d
}

// Primary returns the first location in sorted order, or the zero Location
// when the diagnostic has none.
func (d Diagnostic) Primary() Location {
	locs := d.SortedLocations()
	if len(locs) == 0 {
		return Location{}
	}
	return locs[0]
}

// SortedLocations returns the (line, column) pairs jointly sorted by
// (line, column). The diagnostic itself is not modified.
func (d Diagnostic) SortedLocations() []Location {
	locs := make([]Location, len(d.Lines))
	for i, line := range d.Lines {
		col := 0
		if i < len(d.Cols) {
			col = d.Cols[i]
		}
		locs[i] = Location{Line: line, Col: col}
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Line != locs[j].Line {
			return locs[i].Line < locs[j].Line
		}
		return locs[i].Col < locs[j].Col
	})
	return locs
}

// SortStable orders diagnostics by severity priority, preserving the relative
// order of diagnostics with equal severity.
func SortStable(ds []Diagnostic) {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Severity.Priority() < ds[j].Severity.Priority()
	})
}
