package rules

import (
	"sync"

	"nbcheck/internal/diag"
	"nbcheck/internal/graph"
	"nbcheck/internal/notebook"
)

// GraphBuilder constructs the dependency graph for a notebook. The checking
// pipeline treats the builder as an external collaborator and only ever calls
// it through the Context's cache.
type GraphBuilder func(nb *notebook.NotebookSerialization) (*graph.DirectedGraph, error)

// Context is the shared state of one check invocation. It owns the only two
// pieces of mutable state rules can touch — the diagnostic store and the
// cached dependency graph — and encapsulates all synchronization for both, so
// rule authors never reason about concurrency. A Context is created fresh per
// check and discarded afterwards.
type Context struct {
	nb *notebook.NotebookSerialization

	mu      sync.Mutex
	entries []diag.Diagnostic // append order is the insertion sequence
	cursor  int               // first entry not yet drained

	// The graph guard is a real lock, not cooperative scheduling: checks may
	// be driven from arbitrary goroutines, and a duplicate build would hand
	// out a second graph whose cell-id assignment diverges from the first,
	// silently breaking cell-matching consistency downstream.
	graphMu    sync.Mutex
	graphBuilt bool
	graph      *graph.DirectedGraph
	graphErr   error
	build      GraphBuilder
}

// NewContext creates the per-run shared state for one notebook.
func NewContext(nb *notebook.NotebookSerialization, build GraphBuilder) *Context {
	return &Context{nb: nb, build: build}
}

// Notebook returns the read-only notebook under check.
func (c *Context) Notebook() *notebook.NotebookSerialization {
	return c.nb
}

// Stdout returns the stdout text captured while the notebook loaded.
func (c *Context) Stdout() string { return c.nb.Stdout }

// Stderr returns the stderr text captured while the notebook loaded.
func (c *Context) Stderr() string { return c.nb.Stderr }

// Logs returns the structured log records captured while the notebook loaded.
func (c *Context) Logs() []notebook.LogRecord { return c.nb.Logs }

// AddDiagnostic appends a fully-formed diagnostic. Safe to call concurrently
// from any number of in-flight rules; the append order defines the insertion
// sequence used for equal-severity ordering. An empty Filename is filled in
// from the notebook.
func (c *Context) AddDiagnostic(d diag.Diagnostic) {
	if d.Filename == "" {
		d.Filename = c.nb.Filename
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, d)
}

// Diagnostics returns every diagnostic added so far, sorted by severity
// priority then insertion sequence. Idempotent and non-consuming.
func (c *Context) Diagnostics() []diag.Diagnostic {
	c.mu.Lock()
	out := make([]diag.Diagnostic, len(c.entries))
	copy(out, c.entries)
	c.mu.Unlock()

	diag.SortStable(out) // entries are in insertion order, so stable = (priority, seq)
	return out
}

// NewDiagnostics returns only the diagnostics added since the previous call,
// in the same sort order, and advances the drain cursor. A drained diagnostic
// is never returned again.
func (c *Context) NewDiagnostics() []diag.Diagnostic {
	c.mu.Lock()
	batch := make([]diag.Diagnostic, len(c.entries)-c.cursor)
	copy(batch, c.entries[c.cursor:])
	c.cursor = len(c.entries)
	c.mu.Unlock()

	diag.SortStable(batch)
	return batch
}

// Graph returns the notebook's dependency graph, building it on first use.
// Concurrent callers always receive the identical cached instance (or the
// identical build error).
func (c *Context) Graph() (*graph.DirectedGraph, error) {
	c.graphMu.Lock()
	defer c.graphMu.Unlock()
	if !c.graphBuilt {
		c.graph, c.graphErr = c.build(c.nb)
		c.graphBuilt = true
	}
	return c.graph, c.graphErr
}
