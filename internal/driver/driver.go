// Package driver runs one-shot notebook checks for the CLI: load, check,
// optionally consult the disk cache, and report.
package driver

import (
	"context"

	"nbcheck/internal/diag"
	"nbcheck/internal/engine"
	"nbcheck/internal/notebook"
)

// Options configures a check run.
type Options struct {
	// Engine to run; nil uses engine.Default().
	Engine *engine.Engine
	// Cache, when non-nil, short-circuits checks of unchanged notebooks.
	Cache *DiskCache
}

// Result is the outcome of checking one notebook.
type Result struct {
	Notebook    *notebook.NotebookSerialization
	Diagnostics []diag.Diagnostic
	// FromCache reports whether the diagnostics came from the disk cache.
	FromCache bool
}

// HasBreaking reports whether any diagnostic is at Breaking severity; the CLI
// exits non-zero when it returns true.
func (r *Result) HasBreaking() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SevBreaking {
			return true
		}
	}
	return false
}

// CheckFile loads a notebook serialization document and checks it.
func CheckFile(ctx context.Context, path string, opts Options) (*Result, error) {
	nb, err := notebook.Load(path)
	if err != nil {
		return nil, err
	}
	return CheckNotebook(ctx, nb, opts)
}

// CheckNotebook runs the engine against an already-loaded notebook. With a
// cache configured, an unchanged notebook under an unchanged rule set returns
// the cached diagnostics without running any rule. An engine with an
// early-stopping policy bypasses the cache in both directions: its truncated
// results must never be served to a later full check, and a cached full
// result would defeat the requested stop.
func CheckNotebook(ctx context.Context, nb *notebook.NotebookSerialization, opts Options) (*Result, error) {
	eng := opts.Engine
	if eng == nil {
		eng = engine.Default()
	}
	useCache := opts.Cache != nil && !eng.Stopping().Enabled()

	var key Digest
	if useCache {
		codes := make([]string, 0, len(eng.Rules()))
		for _, r := range eng.Rules() {
			codes = append(codes, r.Meta().Code)
		}
		var err error
		key, err = NotebookDigest(nb, codes)
		if err != nil {
			return nil, err
		}
		var payload DiskPayload
		hit, err := opts.Cache.Get(key, &payload)
		if err != nil {
			return nil, err
		}
		if hit {
			return &Result{Notebook: nb, Diagnostics: payload.Diagnostics, FromCache: true}, nil
		}
	}

	ds, err := eng.Check(ctx, nb)
	if err != nil {
		return nil, err
	}
	if useCache {
		payload := &DiskPayload{Schema: diskCacheSchemaVersion, Diagnostics: ds}
		if err := opts.Cache.Put(key, payload); err != nil {
			return nil, err
		}
	}
	return &Result{Notebook: nb, Diagnostics: ds}, nil
}
