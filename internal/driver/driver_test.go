package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nbcheck/internal/diag"
	"nbcheck/internal/engine"
	"nbcheck/internal/graph"
	"nbcheck/internal/notebook"
	"nbcheck/internal/rules"
)

func testCache(t *testing.T) *DiskCache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c, err := OpenDiskCache("nbcheck-test")
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	return c
}

func brokenNotebook() *notebook.NotebookSerialization {
	return &notebook.NotebookSerialization{
		Filename: "nb.py",
		Cells: []notebook.CellDef{
			{Name: "a", Code: "x = 1", Line: 1, Col: 1},
			{Name: "b", Code: "x = 2", Line: 3, Col: 1},
		},
	}
}

func TestCheckFileReportsBreaking(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nb.json")
	doc := `{
  "filename": "nb.py",
  "cells": [
    {"name": "a", "code": "x = 1", "line": 1, "col": 1},
    {"name": "b", "code": "x = 2", "line": 3, "col": 1}
  ]
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	res, err := CheckFile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.HasBreaking() {
		t.Fatalf("redefinition not reported: %+v", res.Diagnostics)
	}
	if res.Diagnostics[0].Code != diag.CodeMultipleDefs {
		t.Fatalf("first diagnostic = %+v", res.Diagnostics[0])
	}
}

func TestCheckNotebookCacheRoundTrip(t *testing.T) {
	cache := testCache(t)
	opts := Options{Cache: cache}
	nb := brokenNotebook()

	first, err := CheckNotebook(context.Background(), nb, opts)
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	if first.FromCache {
		t.Fatalf("cold cache reported a hit")
	}

	second, err := CheckNotebook(context.Background(), nb, opts)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if !second.FromCache {
		t.Fatalf("warm cache missed")
	}
	if len(second.Diagnostics) != len(first.Diagnostics) {
		t.Fatalf("cached run returned %d diagnostics, fresh run %d",
			len(second.Diagnostics), len(first.Diagnostics))
	}
	if second.Diagnostics[0].Code != first.Diagnostics[0].Code {
		t.Fatalf("cached diagnostics differ: %+v vs %+v",
			second.Diagnostics[0], first.Diagnostics[0])
	}
}

func TestCheckNotebookCacheInvalidatedByEdit(t *testing.T) {
	cache := testCache(t)
	opts := Options{Cache: cache}

	if _, err := CheckNotebook(context.Background(), brokenNotebook(), opts); err != nil {
		t.Fatalf("seed check: %v", err)
	}

	edited := brokenNotebook()
	edited.Cells[1].Code = "y = x"
	res, err := CheckNotebook(context.Background(), edited, opts)
	if err != nil {
		t.Fatalf("edited check: %v", err)
	}
	if res.FromCache {
		t.Fatalf("edited notebook hit the stale cache entry")
	}
	if res.HasBreaking() {
		t.Fatalf("clean notebook still breaking: %+v", res.Diagnostics)
	}
}

func TestCheckNotebookEarlyStoppingBypassesCache(t *testing.T) {
	cache := testCache(t)
	nb := &notebook.NotebookSerialization{
		Filename: "nb.py",
		Cells: []notebook.CellDef{
			{Name: "a", Code: "x = 1\ny = 1", Line: 1, Col: 1},
			{Name: "b", Code: "x = 2\ny = 2", Line: 4, Col: 1},
		},
	}
	capped := engine.New(rules.Catalog(), graph.Build, engine.EarlyStopping{MaxDiagnostics: 1})

	truncated, err := CheckNotebook(context.Background(), nb, Options{Engine: capped, Cache: cache})
	if err != nil {
		t.Fatalf("capped check: %v", err)
	}
	if len(truncated.Diagnostics) != 1 {
		t.Fatalf("capped run returned %d diagnostics, want 1", len(truncated.Diagnostics))
	}
	if truncated.FromCache {
		t.Fatalf("capped run served from cache")
	}

	// the truncated result must not have been written
	full, err := CheckNotebook(context.Background(), nb, Options{Cache: cache})
	if err != nil {
		t.Fatalf("full check: %v", err)
	}
	if full.FromCache {
		t.Fatalf("full check hit a cache seeded by a capped run")
	}
	if len(full.Diagnostics) != 2 {
		t.Fatalf("full run returned %d diagnostics, want both redefinitions", len(full.Diagnostics))
	}

	// the full result is cacheable; the capped engine must not read it either
	warm, err := CheckNotebook(context.Background(), nb, Options{Cache: cache})
	if err != nil {
		t.Fatalf("warm check: %v", err)
	}
	if !warm.FromCache || len(warm.Diagnostics) != 2 {
		t.Fatalf("warm full check: fromCache=%v diagnostics=%d", warm.FromCache, len(warm.Diagnostics))
	}
	recapped, err := CheckNotebook(context.Background(), nb, Options{Engine: capped, Cache: cache})
	if err != nil {
		t.Fatalf("recapped check: %v", err)
	}
	if recapped.FromCache || len(recapped.Diagnostics) != 1 {
		t.Fatalf("capped check after full: fromCache=%v diagnostics=%d", recapped.FromCache, len(recapped.Diagnostics))
	}
}

func TestNotebookDigestSensitivity(t *testing.T) {
	nb := brokenNotebook()
	base, err := NotebookDigest(nb, []string{"multiple-definitions"})
	if err != nil {
		t.Fatalf("digest: %v", err)
	}

	same, _ := NotebookDigest(brokenNotebook(), []string{"multiple-definitions"})
	if base != same {
		t.Fatalf("digest not deterministic")
	}

	edited := brokenNotebook()
	edited.Cells[0].Code = "x = 3"
	changed, _ := NotebookDigest(edited, []string{"multiple-definitions"})
	if base == changed {
		t.Fatalf("code edit did not change digest")
	}

	otherRules, _ := NotebookDigest(nb, []string{"unparsable-cells"})
	if base == otherRules {
		t.Fatalf("rule set change did not change digest")
	}
}

func TestDiskCacheMissAndSchemaGuard(t *testing.T) {
	cache := testCache(t)

	var out DiskPayload
	hit, err := cache.Get(Digest{1}, &out)
	if err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}

	stale := &DiskPayload{Schema: diskCacheSchemaVersion + 1}
	if err := cache.Put(Digest{1}, stale); err != nil {
		t.Fatalf("put: %v", err)
	}
	hit, err = cache.Get(Digest{1}, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatalf("schema mismatch treated as a hit")
	}
}

func TestDiskCacheDropAll(t *testing.T) {
	cache := testCache(t)
	payload := &DiskPayload{Schema: diskCacheSchemaVersion}
	if err := cache.Put(Digest{7}, payload); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	var out DiskPayload
	if hit, _ := cache.Get(Digest{7}, &out); hit {
		t.Fatalf("entry survived DropAll")
	}
}
