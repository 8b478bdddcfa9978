// Package streams rebinds the process's standard streams to configured sinks
// after detachment.
//
// Stdin opens read-only, stdout/stderr open in append mode, and every sink
// defaults to the platform null device. Redirect duplicates the opened
// descriptors onto fds 0/1/2, replacing whatever the now-severed terminal
// left there, so it must run in the final daemon process only. UTF8Writer
// wraps redirected output so log text stays valid UTF-8 even when the
// environment configured something else.
package streams
