// Package pidfile owns the daemon identity record: a file holding the
// detached process's pid as decimal text with a trailing newline.
//
// The record enforces at-most-one running instance per path. Check gates a
// start attempt on the record's existence, Commit writes the current pid once
// the process is fully detached, Read locates a running instance for
// signalling, and Release removes the record on shutdown. A record left
// behind by a crashed instance is indistinguishable from a live one and
// blocks the next start; Alive exists so callers can surface that situation,
// but the gate itself never second-guesses an existing record.
package pidfile
