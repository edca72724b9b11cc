//go:build !linux

package pool

import "os/exec"

func configureWorkerProcess(*exec.Cmd) {}
