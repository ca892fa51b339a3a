// Package session owns the target process handle and the resolved chat
// location, and serializes every memory operation against them.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"chatscan/process"
	"chatscan/resolver"
	"chatscan/scan"
	"chatscan/textread"
	"chatscan/window"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// ErrTargetAbsent is returned when the target window is not present
var ErrTargetAbsent = errors.New("target not running")

// Status is the user-facing state of a session
type Status int32

const (
	NotResolved Status = iota
	Resolving
	Resolved
	Failed
	TargetAbsent
)

func (s Status) String() string {
	switch s {
	case NotResolved:
		return "not resolved yet"
	case Resolving:
		return "resolving in progress"
	case Resolved:
		return "resolved"
	case Failed:
		return "resolution failed, please retry"
	case TargetAbsent:
		return "target not running"
	}
	return "unknown"
}

// Resolver locates the chat buffer in an opened process
type Resolver interface {
	Resolve(ctx context.Context, encodings []string) (resolver.Location, error)
}

// ResolverFactory builds a fresh Resolver for the process being resolved
type ResolverFactory func(src process.RegionSource) Resolver

// Scanner finds every address holding pattern
type Scanner interface {
	Scan(src process.RegionSource, pattern []byte) ([]process.ProcessMemoryAddress, error)
}

// Config is what a session needs to know about its target
type Config struct {
	ProcessName string
	Encodings   []string
	MaxBytes    int
}

// TickResult is the outcome of one poll tick
type TickResult struct {
	Status Status
	Text   string
	OK     bool // Text was read from the resolved location
}

// Session holds at most one open process and one resolved location
type Session struct {
	cfg         Config
	opener      process.ProcessOpener
	newResolver ResolverFactory
	presence    window.Presence
	scanner     Scanner

	status atomic.Int32

	mu       sync.Mutex
	proc     process.Process
	location resolver.Location
	resolved bool

	log *logger.Logger
}

// Option is a function that configures a Session
type Option func(*Session)

// WithPresence sets the check consulted before every tick and resolution
func WithPresence(p window.Presence) Option {
	return func(s *Session) {
		s.presence = p
	}
}

// WithScanner replaces the default region scanner used by ScanFor
func WithScanner(sc Scanner) Option {
	return func(s *Session) {
		s.scanner = sc
	}
}

// New creates a session; nothing is opened until it is needed
func New(cfg Config, opener process.ProcessOpener, newResolver ResolverFactory, options ...Option) *Session {
	s := &Session{
		cfg:         cfg,
		opener:      opener,
		newResolver: newResolver,
		presence:    window.Always,
		scanner:     scan.New(),
		log:         logger.NewLogger(coloransi.Color(coloransi.ColorOrange, coloransi.ColorPurple, "session")),
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Status returns the current status; safe to call while Resolve runs
func (s *Session) Status() Status {
	return Status(s.status.Load())
}

func (s *Session) setStatus(st Status) {
	if Status(s.status.Swap(int32(st))) != st {
		s.log.Infoln("Status:", st.String())
	}
}

// openLocked returns the live process, opening it on first need and
// replacing a handle whose process has exited
func (s *Session) openLocked() (process.Process, error) {
	if s.proc != nil {
		if s.proc.IsRunning() {
			return s.proc, nil
		}
		s.invalidateLocked(TargetAbsent)
	}

	proc, err := s.opener.OpenProcessByName(s.cfg.ProcessName)
	if err != nil {
		if errors.Is(err, process.ErrProcessNotFound) {
			s.setStatus(TargetAbsent)
		}
		return nil, err
	}

	s.log.Infoln("Opened", s.cfg.ProcessName, "pid", proc.GetPID())
	s.proc = proc
	return proc, nil
}

// invalidateLocked drops the location and releases the handle
func (s *Session) invalidateLocked(st Status) {
	if s.proc != nil {
		if err := s.proc.Close(); err != nil {
			s.log.Warn("Failed to close process: ", err)
		}
		s.proc = nil
	}
	s.location = resolver.Location{}
	s.resolved = false
	s.setStatus(st)
}

// Resolve locates the chat buffer, replacing any earlier location.
// A missing process is returned as is, wrapping process.ErrProcessNotFound.
func (s *Session) Resolve(ctx context.Context) (resolver.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.presence.IsPresent() {
		s.invalidateLocked(TargetAbsent)
		return resolver.Location{}, fmt.Errorf("%s: %w", s.cfg.ProcessName, ErrTargetAbsent)
	}

	proc, err := s.openLocked()
	if err != nil {
		return resolver.Location{}, err
	}

	s.location = resolver.Location{}
	s.resolved = false
	s.setStatus(Resolving)

	loc, err := s.newResolver(proc).Resolve(ctx, s.cfg.Encodings)
	if err != nil {
		if ctx.Err() != nil {
			s.setStatus(NotResolved)
		} else {
			s.setStatus(Failed)
		}
		return resolver.Location{}, err
	}

	s.location = loc
	s.resolved = true
	s.setStatus(Resolved)
	return loc, nil
}

// SetLocation adopts a location found earlier, opening the process if needed
func (s *Session) SetLocation(loc resolver.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.openLocked(); err != nil {
		return err
	}

	s.location = loc
	s.resolved = true
	s.setStatus(Resolved)
	return nil
}

// Location returns the resolved location, if any
func (s *Session) Location() (resolver.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location, s.resolved
}

// ReadCurrentText reads the text at the resolved location. ok is false when
// nothing is resolved or nothing could be read.
func (s *Session) ReadCurrentText(maxBytes int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolved || s.proc == nil {
		return "", false
	}
	return textread.ReadProfile(s.proc, s.location.Address, maxBytes, s.location.Encoding)
}

// ScanFor lists every address in the target holding pattern
func (s *Session) ScanFor(pattern []byte) ([]process.ProcessMemoryAddress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proc, err := s.openLocked()
	if err != nil {
		return nil, err
	}
	return s.scanner.Scan(proc, pattern)
}

// Tick is one poll step. With the target absent or exited it reads nothing,
// releases the handle and forgets the location; otherwise it reads the
// current text when a location is resolved.
func (s *Session) Tick() TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.presence.IsPresent() {
		s.invalidateLocked(TargetAbsent)
		return TickResult{Status: TargetAbsent}
	}

	if s.proc != nil && !s.proc.IsRunning() {
		s.log.Warn("Process ", s.cfg.ProcessName, " exited")
		s.invalidateLocked(TargetAbsent)
		return TickResult{Status: TargetAbsent}
	}

	if !s.resolved {
		if s.Status() == TargetAbsent {
			s.setStatus(NotResolved)
		}
		return TickResult{Status: s.Status()}
	}

	text, ok := textread.ReadProfile(s.proc, s.location.Address, s.cfg.MaxBytes, s.location.Encoding)
	return TickResult{Status: Resolved, Text: text, OK: ok}
}

// Invalidate forgets the location so the next resolution starts over
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidateLocked(NotResolved)
}

// Close releases the process handle; it is safe to call more than once
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.proc == nil {
		return nil
	}
	err := s.proc.Close()
	s.proc = nil
	s.resolved = false
	s.location = resolver.Location{}
	return err
}
