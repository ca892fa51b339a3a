package process

// ProcessID represents a unique identifier for a process
type ProcessID int

// ProcessInfo contains basic information about a process
type ProcessInfo struct {
	PID  ProcessID // Process ID
	Name string    // comm on Linux, executable file name on Windows
	Exe  string    // Path to the executable, when known
}
