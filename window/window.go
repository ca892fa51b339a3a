// Package window answers whether the target application is currently up.
package window

import (
	"chatscan/process"
)

// Presence reports whether the target is present
type Presence interface {
	IsPresent() bool
}

// PresenceFunc adapts a function to Presence
type PresenceFunc func() bool

func (f PresenceFunc) IsPresent() bool {
	return f()
}

// Always is a Presence that is always present
var Always Presence = PresenceFunc(func() bool { return true })

// ProcessPresence treats the target as present while a process with Name exists
type ProcessPresence struct {
	Finder process.ProcessFinder
	Name   string
}

func (p *ProcessPresence) IsPresent() bool {
	found, err := p.Finder.FindProcessByName(p.Name)
	return err == nil && len(found) > 0
}
