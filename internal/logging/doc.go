// Package logging assembles structured slog loggers and formatting helpers used
// across photostrip.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so capture and export code can tag log
// lines with session IDs and photo indexes. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
