package rules

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"nbcheck/internal/diag"
	"nbcheck/internal/graph"
	"nbcheck/internal/notebook"
)

func staticGraph(g *graph.DirectedGraph, err error) GraphBuilder {
	return func(*notebook.NotebookSerialization) (*graph.DirectedGraph, error) {
		return g, err
	}
}

func TestAddDiagnosticConcurrentNoLostWrites(t *testing.T) {
	c := NewContext(&notebook.NotebookSerialization{Filename: "nb.py"}, staticGraph(nil, nil))

	const workers = 8
	const perWorker = 200
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				c.AddDiagnostic(diag.New(diag.SevFormatting, "code", "name", "m"))
			}
		}()
	}
	wg.Wait()

	if got := len(c.Diagnostics()); got != workers*perWorker {
		t.Fatalf("got %d diagnostics, want %d", got, workers*perWorker)
	}
}

func TestDiagnosticsSortedBySeverityThenInsertion(t *testing.T) {
	c := NewContext(&notebook.NotebookSerialization{}, staticGraph(nil, nil))
	c.AddDiagnostic(diag.New(diag.SevFormatting, "f", "f", "f1"))
	c.AddDiagnostic(diag.New(diag.SevBreaking, "b", "b", "b1"))
	c.AddDiagnostic(diag.New(diag.SevRuntime, "r", "r", "r1"))
	c.AddDiagnostic(diag.New(diag.SevBreaking, "b", "b", "b2"))

	want := []string{"b1", "b2", "r1", "f1"}
	got := c.Diagnostics()
	for i, msg := range want {
		if got[i].Message != msg {
			t.Fatalf("Diagnostics()[%d].Message = %q, want %q", i, got[i].Message, msg)
		}
	}
	// idempotent, non-consuming
	if again := c.Diagnostics(); len(again) != len(want) {
		t.Fatalf("second read returned %d diagnostics, want %d", len(again), len(want))
	}
}

func TestNewDiagnosticsDrainsIncrementally(t *testing.T) {
	c := NewContext(&notebook.NotebookSerialization{}, staticGraph(nil, nil))
	c.AddDiagnostic(diag.New(diag.SevFormatting, "f", "f", "f1"))
	c.AddDiagnostic(diag.New(diag.SevBreaking, "b", "b", "b1"))

	first := c.NewDiagnostics()
	if len(first) != 2 || first[0].Message != "b1" || first[1].Message != "f1" {
		t.Fatalf("first drain = %v", first)
	}

	c.AddDiagnostic(diag.New(diag.SevRuntime, "r", "r", "r1"))
	second := c.NewDiagnostics()
	if len(second) != 1 || second[0].Message != "r1" {
		t.Fatalf("second drain = %v", second)
	}

	if third := c.NewDiagnostics(); len(third) != 0 {
		t.Fatalf("third drain = %v, want empty", third)
	}
	// the non-consuming view still has everything
	if all := c.Diagnostics(); len(all) != 3 {
		t.Fatalf("Diagnostics() = %d entries, want 3", len(all))
	}
}

func TestAddDiagnosticFillsFilename(t *testing.T) {
	c := NewContext(&notebook.NotebookSerialization{Filename: "nb.py"}, staticGraph(nil, nil))
	c.AddDiagnostic(diag.New(diag.SevBreaking, "b", "b", "m"))
	if got := c.Diagnostics()[0].Filename; got != "nb.py" {
		t.Fatalf("Filename = %q, want nb.py", got)
	}
}

func TestGraphBuiltExactlyOnceUnderConcurrency(t *testing.T) {
	var builds atomic.Int32
	want := &graph.DirectedGraph{Cells: map[notebook.CellID]*graph.CellData{}}
	c := NewContext(&notebook.NotebookSerialization{}, func(*notebook.NotebookSerialization) (*graph.DirectedGraph, error) {
		builds.Add(1)
		return want, nil
	})

	const callers = 16
	got := make([]*graph.DirectedGraph, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := c.Graph()
			if err != nil {
				t.Errorf("Graph: %v", err)
			}
			got[i] = g
		}(i)
	}
	wg.Wait()

	if builds.Load() != 1 {
		t.Fatalf("graph built %d times, want exactly 1", builds.Load())
	}
	for i := range got {
		if got[i] != want {
			t.Fatalf("caller %d received a different graph instance", i)
		}
	}
}

func TestGraphBuildErrorCached(t *testing.T) {
	var builds atomic.Int32
	boom := errors.New("boom")
	c := NewContext(&notebook.NotebookSerialization{}, func(*notebook.NotebookSerialization) (*graph.DirectedGraph, error) {
		builds.Add(1)
		return nil, boom
	})

	for i := 0; i < 3; i++ {
		if _, err := c.Graph(); !errors.Is(err, boom) {
			t.Fatalf("Graph err = %v, want boom", err)
		}
	}
	if builds.Load() != 1 {
		t.Fatalf("builder ran %d times, want 1", builds.Load())
	}
}
