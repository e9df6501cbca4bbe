// Package logging assembles structured slog loggers and formatting helpers
// used across legisync components.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes context-aware helpers so pipeline code can
// automatically tag log lines with sweep IDs, sources, and stages. The
// package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
