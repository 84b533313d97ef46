//go:build unix

package lockfile

import "syscall"

// isProcessRunning checks whether a process with the given PID is alive by
// sending it signal 0, a no-op that still reports ESRCH for a dead PID.
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false // 0 or negative would address a process group, not one process
	}
	return syscall.Kill(pid, 0) == nil
}
