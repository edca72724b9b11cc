//go:build linux

package pool

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureWorkerProcess asks the kernel to kill the worker when its parent
// goes away. Pdeathsig tracks the OS thread that forked the child, not the
// process, so under the Go scheduler this is best effort; the CommandContext
// kill in Launch is the primary teardown path.
func configureWorkerProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: unix.SIGKILL}
}
