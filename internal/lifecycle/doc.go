// Package lifecycle coordinates the daemon start/stop/restart state machine.
//
// A Controller ties the collaborators together: the pidfile identity guard
// gates Start, the detach package performs the staged relaunch, and the
// streams package rebinds the final process's standard descriptors. The
// daemon half (Run) commits the identity record, holds a companion flock for
// the process lifetime, installs the SIGTERM handler, and invokes the
// embedder's work callback exactly once on the calling goroutine.
//
// Cross-process coordination is deliberately minimal: one directed SIGTERM
// plus polling the filesystem for the identity record's disappearance. Stop
// blocks until the record is gone and never times out; a sleep between
// checks is the only concession over a tight loop.
package lifecycle
