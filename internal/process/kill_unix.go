//go:build !windows

package process

import "syscall"

// KillTree terminates a browser process and every child it spawned by
// signalling its process group.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored: the launcher's own Kill runs afterwards.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
