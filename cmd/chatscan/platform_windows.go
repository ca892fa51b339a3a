//go:build windows

package main

import (
	"chatscan/process"
	"chatscan/process_windows"
)

func newOpener() process.ProcessOpener {
	return process_windows.NewHelper()
}

func newFinder() process.ProcessFinder {
	return process_windows.NewProcessFinder()
}

func openPID(pid int) (process.Process, error) {
	return process_windows.NewWithPID(process.ProcessID(pid))
}
