// Package detach severs the daemon from its launching terminal and session.
//
// Go exposes no raw fork(), so the classic double-fork sequence is rendered
// as a staged re-exec of the current executable, the substitution the Go
// ecosystem uses for POSIX daemonization:
//
//	stage 0 (foreground)  Begin: spawn stage 1 with Setsid in a new session,
//	                      working directory set per configuration; the
//	                      foreground process then returns success, the
//	                      analogue of the first parent exiting after fork #1.
//	stage 1 (leader)      the new session's leader. FinalizeEnvironment
//	                      resets the umask, then Promote spawns stage 2
//	                      inside the same session and stage 1 exits 0, the
//	                      analogue of the second fork.
//	stage 2 (daemon)      the surviving process: in the new session but not
//	                      its leader, so it can never reacquire a controlling
//	                      terminal.
//
// A failed spawn at either stage is fatal; nothing downstream runs and
// nothing is retried.
package detach
