//go:build linux

package streams

import "golang.org/x/sys/unix"

func dupTo(from, to int) error {
	// dup3 covers arm64/riscv64 where dup2 is unavailable.
	return unix.Dup3(from, to, 0)
}
