// Package history persists a ledger of daemon runs in SQLite.
//
// Each successful detachment records a row at startup and closes it with an
// outcome when the run ends, whether the task completed, failed, or the
// daemon was terminated by signal. The ledger is purely observational: the
// lifecycle never consults it, and a missing or broken ledger degrades to
// log warnings rather than blocking the daemon.
package history
