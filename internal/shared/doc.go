// Package shared holds cross-cutting helpers that belong to no single
// domain package.
//
// The testutil subpackage provides the buffered slog handler tests use to
// assert on structured log output, notably the degradation warnings the
// capture and export paths emit.
//
// Nothing here may import other internal packages; shared sits at the bottom
// of the dependency graph.
package shared
