// Package notebook defines the serialized notebook model consumed by the
// checking pipeline.
//
// A NotebookSerialization is the output of an external notebook parser: an
// ordered list of cell definitions plus any structural violations the parser
// detected, along with side-channel output (stdout/stderr/log records) captured
// while the notebook was loaded. This package does not parse notebook source
// itself; it only deserializes an already-parsed representation from a JSON or
// YAML document.
package notebook

// CellID is an opaque identifier for a cell. The dependency graph assigns its
// own IDs independently of source ordering, so a graph CellID and a source
// position are different id-spaces that need reconciliation.
type CellID string

// SetupCellID is the reserved graph identifier of the setup cell.
const SetupCellID CellID = "setup"

// SetupCellName is the source-level name of the setup cell. The setup cell is
// exempt from normal ordering and must not have incoming dependencies.
const SetupCellName = "setup"

// CellDef is one unit of notebook source code with its own origin.
// Line and Col are 1-based positions of the cell's code in the notebook file.
type CellDef struct {
	Name       string `json:"name" yaml:"name"`
	Code       string `json:"code" yaml:"code"`
	Line       int    `json:"line" yaml:"line"`
	Col        int    `json:"col" yaml:"col"`
	Unparsable bool   `json:"unparsable,omitempty" yaml:"unparsable,omitempty"`
}

// IsSetup reports whether the cell is the distinguished setup cell.
func (c *CellDef) IsSetup() bool {
	return c.Name == SetupCellName
}

// Violation is a structural problem the parser found in the notebook source.
type Violation struct {
	Kind        string `json:"kind" yaml:"kind"`
	Description string `json:"description" yaml:"description"`
	Line        int    `json:"line" yaml:"line"`
	Col         int    `json:"col" yaml:"col"`
}

// LogRecord is one structured log entry captured while the notebook loaded.
type LogRecord struct {
	Level   string `json:"level" yaml:"level"`
	Message string `json:"message" yaml:"message"`
}

// NotebookSerialization is the parsed form of one notebook, read-only input
// to the checking pipeline.
type NotebookSerialization struct {
	Filename   string      `json:"filename" yaml:"filename"`
	Cells      []CellDef   `json:"cells" yaml:"cells"`
	Violations []Violation `json:"violations,omitempty" yaml:"violations,omitempty"`

	// Side-channel output captured by the loader.
	Stdout string      `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr string      `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Logs   []LogRecord `json:"logs,omitempty" yaml:"logs,omitempty"`
}

// SetupIndex returns the position of the setup cell in Cells, or -1 when the
// notebook has none.
func (nb *NotebookSerialization) SetupIndex() int {
	for i := range nb.Cells {
		if nb.Cells[i].IsSetup() {
			return i
		}
	}
	return -1
}
