// Package resolver finds the address of the target's chat-display buffer by
// typing random probes into the target and intersecting where they show up.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chatscan/process"
	"chatscan/textenc"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/google/uuid"
)

// ErrResolutionFailed is returned when no encoding converged on a single address
var ErrResolutionFailed = errors.New("resolution failed")

// DefaultRounds is the number of probes intersected per encoding
const DefaultRounds = 3

// State is the resolver's position in Idle → Probing → Converged | Exhausted
type State int

const (
	Idle State = iota
	Probing
	Converged
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Probing:
		return "probing"
	case Converged:
		return "converged"
	case Exhausted:
		return "exhausted"
	}
	return "unknown"
}

// Location is a resolved buffer address and the encoding of its text
type Location struct {
	Address  process.ProcessMemoryAddress
	Encoding textenc.Profile
}

func (l Location) String() string {
	return fmt.Sprintf("%s (%s)", l.Address.ToString(), l.Encoding.Name)
}

// Injector types text into the target application and submits it
type Injector interface {
	InjectAndSubmit(ctx context.Context, text string) error
}

// Scanner finds every address holding pattern
type Scanner interface {
	Scan(src process.RegionSource, pattern []byte) ([]process.ProcessMemoryAddress, error)
}

// ProbeSource produces unique probe strings
type ProbeSource interface {
	Next() (string, error)
}

// Event reports progress to an observer
type Event struct {
	State      State
	Encoding   string
	Round      int // 1-based, zero outside a round
	Candidates int // size of the round's scan result, or of the final intersection
}

// Resolver runs the probe-and-intersect procedure against one process
type Resolver struct {
	src      process.RegionSource
	injector Injector
	scanner  Scanner
	probes   ProbeSource

	rounds      int
	settleDelay time.Duration
	observer    func(Event)
	sleep       func(time.Duration)

	state    State
	location Location
	log      *logger.Logger
}

// Option is a function that configures a Resolver
type Option func(*Resolver)

// WithRounds sets how many probes are intersected per encoding
func WithRounds(n int) Option {
	return func(r *Resolver) {
		r.rounds = n
	}
}

// WithSettleDelay sets the wait between injecting a probe and scanning for it.
// The target renders typed text asynchronously; scanning sooner finds nothing.
func WithSettleDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.settleDelay = d
	}
}

// WithObserver receives every state change and round result
func WithObserver(fn func(Event)) Option {
	return func(r *Resolver) {
		r.observer = fn
	}
}

// WithSleep replaces time.Sleep for the settle delay
func WithSleep(fn func(time.Duration)) Option {
	return func(r *Resolver) {
		r.sleep = fn
	}
}

// New creates a Resolver in the Idle state
func New(src process.RegionSource, injector Injector, scanner Scanner, probes ProbeSource, options ...Option) *Resolver {
	r := &Resolver{
		src:         src,
		injector:    injector,
		scanner:     scanner,
		probes:      probes,
		rounds:      DefaultRounds,
		settleDelay: 500 * time.Millisecond,
		sleep:       time.Sleep,
		log:         logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "resolver")),
	}

	for _, opt := range options {
		opt(r)
	}
	if r.rounds < 1 {
		r.rounds = DefaultRounds
	}

	return r
}

// State returns the current state
func (r *Resolver) State() State {
	return r.state
}

// Location returns the converged location, if any
func (r *Resolver) Location() (Location, bool) {
	return r.location, r.state == Converged
}

func (r *Resolver) setState(s State, ev Event) {
	r.state = s
	ev.State = s
	if r.observer != nil {
		r.observer(ev)
	}
}

// Resolve tries each encoding in order until one converges on exactly one
// address. Every call starts from scratch.
//
// ctx is only consulted between rounds: a round that has injected its probe
// always completes its scan. An injection error aborts the call, since the
// remaining encodings would be probed through the same broken input path.
// When no encoding converges the error wraps ErrResolutionFailed.
func (r *Resolver) Resolve(ctx context.Context, encodings []string) (Location, error) {
	runID := uuid.NewString()
	r.location = Location{}
	r.setState(Idle, Event{})

	r.log.Infoln("Resolution", runID, "started over", encodings)

	var outcomes []string
	for _, name := range encodings {
		profile, ok := textenc.Lookup(name)
		if !ok {
			r.log.Warn("Skipping unknown encoding ", name)
			outcomes = append(outcomes, fmt.Sprintf("%s: unknown encoding", name))
			continue
		}

		candidates, err := r.probeEncoding(ctx, profile)
		if err != nil {
			r.setState(Idle, Event{Encoding: profile.Name})
			return Location{}, err
		}

		r.log.Infoln("Resolution", runID, profile.Name, "left", len(candidates), "candidates")

		if len(candidates) == 1 {
			r.location = Location{Address: candidates.Sorted()[0], Encoding: profile}
			r.setState(Converged, Event{Encoding: profile.Name, Candidates: 1})
			r.log.Infoln("Resolution", runID, "converged at", r.location.String())
			return r.location, nil
		}

		outcomes = append(outcomes, fmt.Sprintf("%s: %d candidates", profile.Name, len(candidates)))
	}

	r.setState(Exhausted, Event{})
	r.log.Warn("Resolution ", runID, " exhausted every encoding")
	return Location{}, fmt.Errorf("%w: %s", ErrResolutionFailed, strings.Join(outcomes, "; "))
}

// probeEncoding runs the fixed round schedule for one encoding and returns
// the intersection of the rounds' scan results
func (r *Resolver) probeEncoding(ctx context.Context, profile textenc.Profile) (CandidateSet, error) {
	r.setState(Probing, Event{Encoding: profile.Name})

	rounds := make([][]process.ProcessMemoryAddress, 0, r.rounds)
	for round := 1; round <= r.rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := r.runRound(ctx, profile)
		if err != nil {
			return nil, err
		}

		r.log.Debugln(profile.Name, "round", round, "found", len(found), "addresses")
		if r.observer != nil {
			r.observer(Event{State: Probing, Encoding: profile.Name, Round: round, Candidates: len(found)})
		}
		rounds = append(rounds, found)
	}

	return Intersect(rounds...), nil
}

func (r *Resolver) runRound(ctx context.Context, profile textenc.Profile) ([]process.ProcessMemoryAddress, error) {
	msg, err := r.probes.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to generate probe: %w", err)
	}

	pattern, err := profile.Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode probe as %s: %w", profile.Name, err)
	}

	if err := r.injector.InjectAndSubmit(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to inject probe: %w", err)
	}

	r.sleep(r.settleDelay)

	found, err := r.scanner.Scan(r.src, pattern)
	if err != nil {
		// A failed scan is an empty round; the intersection rejects it.
		r.log.Debugln("Scan for", profile.Name, "probe failed:", err)
		return nil, nil
	}
	return found, nil
}
