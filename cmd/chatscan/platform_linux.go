//go:build linux

package main

import (
	"chatscan/process"
	"chatscan/process_linux"
)

func newOpener() process.ProcessOpener {
	return process_linux.NewHelper()
}

func newFinder() process.ProcessFinder {
	return process_linux.NewProcessFinder()
}

func openPID(pid int) (process.Process, error) {
	return process_linux.NewWithPID(process.ProcessID(pid))
}
