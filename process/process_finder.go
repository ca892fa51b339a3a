package process

// ProcessFinder defines operations for discovering processes
type ProcessFinder interface {
	// FindProcessByName finds processes by their name (exact match)
	FindProcessByName(name string) ([]ProcessInfo, error)
}

// ProcessOpener opens processes by name
type ProcessOpener interface {
	// OpenProcessByName opens a process by its name (returns the first match).
	// It returns an error wrapping ErrProcessNotFound when nothing matches.
	OpenProcessByName(name string) (Process, error)
}

// OpenerFunc adapts a function to ProcessOpener
type OpenerFunc func(name string) (Process, error)

func (f OpenerFunc) OpenProcessByName(name string) (Process, error) {
	return f(name)
}
