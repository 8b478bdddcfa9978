// Package logging assembles the structured slog loggers used by the drover
// daemon runtime and CLI.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes attribute helpers plus a no-op logger for tests and wiring code
// that cannot fail. The daemonizer core itself reports failures directly on
// stderr; this package serves the surrounding runtime.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
