//go:build linux

package process_linux

import (
	"fmt"

	"chatscan/process"
)

// LinuxProcessHelper implements the process.ProcessOpener interface
type LinuxProcessHelper struct {
	Finder process.ProcessFinder
}

var _ process.ProcessOpener = (*LinuxProcessHelper)(nil)

// NewHelper creates a new LinuxProcessHelper
func NewHelper() *LinuxProcessHelper {
	return &LinuxProcessHelper{
		Finder: NewProcessFinder(),
	}
}

// OpenProcessByName opens the lowest-PID process with the given name
func (h *LinuxProcessHelper) OpenProcessByName(name string) (process.Process, error) {
	processes, err := h.Finder.FindProcessByName(name)
	if err != nil {
		return nil, err
	}

	if len(processes) == 0 {
		return nil, fmt.Errorf("no process found with name '%s': %w", name, process.ErrProcessNotFound)
	}

	return NewWithPID(processes[0].PID)
}
