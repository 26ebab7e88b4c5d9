// Package engine runs validation rules concurrently against one notebook and
// merges their diagnostics into a severity-prioritized stream.
package engine

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"nbcheck/internal/diag"
	"nbcheck/internal/graph"
	"nbcheck/internal/notebook"
	"nbcheck/internal/rules"
)

// EarlyStopping is the policy that ends a check before every rule finishes.
// The zero value never stops early.
type EarlyStopping struct {
	// StopOnBreaking stops after the first Breaking diagnostic.
	StopOnBreaking bool
	// StopOnRuntime stops after the first Runtime diagnostic.
	StopOnRuntime bool
	// Threshold stops after the first diagnostic at or above this severity.
	Threshold *diag.Severity
	// MaxDiagnostics stops after this many diagnostics total; 0 means no cap.
	MaxDiagnostics int
}

// Enabled reports whether any stopping condition is configured. A policy
// that is not Enabled never truncates a check's diagnostics.
func (s EarlyStopping) Enabled() bool {
	return s.StopOnBreaking || s.StopOnRuntime || s.Threshold != nil || s.MaxDiagnostics > 0
}

// Triggered reports whether emitting d as the emitted-th diagnostic (1-based)
// ends the check.
func (s EarlyStopping) Triggered(d diag.Diagnostic, emitted int) bool {
	if s.StopOnBreaking && d.Severity == diag.SevBreaking {
		return true
	}
	if s.StopOnRuntime && d.Severity == diag.SevRuntime {
		return true
	}
	if s.Threshold != nil && d.Severity.Priority() <= s.Threshold.Priority() {
		return true
	}
	if s.MaxDiagnostics > 0 && emitted >= s.MaxDiagnostics {
		return true
	}
	return false
}

// Engine owns a rule set and runs it against notebooks. Engines are
// stateless across checks; every check gets a fresh Context.
type Engine struct {
	rules []rules.Rule
	build rules.GraphBuilder
	stop  EarlyStopping
}

// New builds an engine from an explicit rule set.
func New(rs []rules.Rule, build rules.GraphBuilder, stop EarlyStopping) *Engine {
	return &Engine{rules: rs, build: build, stop: stop}
}

// Default builds an engine with the full built-in rule catalog and the
// default dependency-graph constructor.
func Default() *Engine {
	return New(rules.Catalog(), graph.Build, EarlyStopping{})
}

// Rules returns the configured rule set.
func (e *Engine) Rules() []rules.Rule { return e.rules }

// Stopping returns the configured early-stopping policy.
func (e *Engine) Stopping() EarlyStopping { return e.stop }

// Stream is a live check: diagnostics arrive on Diagnostics in priority
// order, and Err blocks until the check finishes, reporting the first rule
// failure if any. Early stopping closes the stream with a nil error.
type Stream struct {
	ch   chan diag.Diagnostic
	done chan struct{}
	err  error
}

// Diagnostics returns the stream's output channel. It is closed when the
// check completes, stops early, or fails.
func (s *Stream) Diagnostics() <-chan diag.Diagnostic { return s.ch }

// Err blocks until the check finished and returns its error, if any.
func (s *Stream) Err() error {
	<-s.done
	return s.err
}

// CheckStreaming launches every rule concurrently against one shared Context
// and streams diagnostics as completion waves finish. After each individual
// diagnostic the early-stopping policy is re-evaluated; on trigger all
// pending rules are cancelled and awaited before the stream closes, so no
// background work leaks.
func (e *Engine) CheckStreaming(ctx context.Context, nb *notebook.NotebookSerialization) *Stream {
	s := &Stream{
		ch:   make(chan diag.Diagnostic),
		done: make(chan struct{}),
	}
	go e.run(ctx, nb, s)
	return s
}

func (e *Engine) run(ctx context.Context, nb *notebook.NotebookSerialization, s *Stream) {
	defer close(s.done)
	defer close(s.ch)

	rctx := rules.NewContext(nb, e.build)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, runCtx := errgroup.WithContext(runCtx)
	completions := make(chan struct{}, len(e.rules))
	for _, r := range e.rules {
		r := r
		g.Go(func() error {
			defer func() { completions <- struct{}{} }()
			return r.Check(runCtx, rctx)
		})
	}

	emitted := 0
	stopped := false
waves:
	for range e.rules {
		<-completions
		for _, d := range rctx.NewDiagnostics() {
			select {
			case s.ch <- d:
			case <-ctx.Done():
				stopped = true
				break waves
			}
			emitted++
			if e.stop.Triggered(d, emitted) {
				stopped = true
				break waves
			}
		}
	}
	cancel()

	err := g.Wait()
	if stopped && errors.Is(err, context.Canceled) && ctx.Err() == nil {
		// cancellation we induced, not a rule failure
		err = nil
	}
	s.err = err
}

// Check runs every rule and returns the collected diagnostics sorted by
// (severity priority, insertion sequence). Blocking; safe to call from any
// goroutine.
func (e *Engine) Check(ctx context.Context, nb *notebook.NotebookSerialization) ([]diag.Diagnostic, error) {
	s := e.CheckStreaming(ctx, nb)
	var out []diag.Diagnostic
	for d := range s.Diagnostics() {
		out = append(out, d)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	// Each drained wave is already (priority, sequence)-sorted and sequences
	// grow across waves, so a stable sort on priority alone restores the
	// exact global order.
	diag.SortStable(out)
	return out, nil
}
