package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"

	"dfalex/internal/automaton"
	"dfalex/internal/trace"
)

// LoadTable returns the builtin table when path is empty. Otherwise it reads
// the TOML file and consults cache (may be nil) keyed by the source hash.
// A broken cache entry is ignored and overwritten.
func LoadTable(ctx context.Context, path string, cache *TableCache) (*automaton.Table, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "load_table", trace.ParentFrom(ctx))

	if path == "" {
		span.End("builtin")
		return automaton.Default(), nil
	}
	span.With("path", path)

	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		span.End("error")
		return nil, fmt.Errorf("read table: %w", err)
	}
	key := Digest(sha256.Sum256(data))

	compiled, ok, err := cache.Get(key)
	switch {
	case err != nil:
		trace.Point(tracer, trace.ScopePass, "table_cache", "unreadable entry: "+err.Error(), span.ID(), nil)
	case ok:
		if tab, err := compiled.Table(); err == nil {
			span.With("cache", "hit")
			span.End(tab.Name)
			return tab, nil
		}
	}

	tab, err := automaton.Parse(path, data)
	if err != nil {
		span.End("error")
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cache.Put(key, automaton.Compile(tab)); err != nil {
		trace.Point(tracer, trace.ScopePass, "table_cache", "store failed: "+err.Error(), span.ID(), nil)
	}
	span.With("cache", "miss")
	span.End(tab.Name)
	return tab, nil
}
