//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillTree terminates a browser process and every child it spawned.
// taskkill /T walks the process tree, /F forces termination.
func KillTree(pid int) {
	if pid <= 0 {
		return
	}
	// Errors are ignored: the launcher's own Kill runs afterwards.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an int
}
