//go:build !linux && !windows

package main

import (
	"errors"
	"runtime"

	"chatscan/process"
)

var errPlatform = errors.New("live processes are not supported on " + runtime.GOOS + ", use --from with a dump")

type unsupported struct{}

func (unsupported) OpenProcessByName(string) (process.Process, error) {
	return nil, errPlatform
}

func (unsupported) FindProcessByName(string) ([]process.ProcessInfo, error) {
	return nil, errPlatform
}

func newOpener() process.ProcessOpener {
	return unsupported{}
}

func newFinder() process.ProcessFinder {
	return unsupported{}
}

func openPID(int) (process.Process, error) {
	return nil, errPlatform
}
