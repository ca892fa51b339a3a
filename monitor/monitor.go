// Package monitor polls a session and reports new chat lines.
package monitor

import (
	"context"
	"time"

	"chatscan/resolver"
	"chatscan/session"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// Target is the part of a session the poller drives
type Target interface {
	Tick() session.TickResult
	Resolve(ctx context.Context) (resolver.Location, error)
}

// Message is a chat line read from the target
type Message struct {
	Text string
	At   time.Time
}

// Poller ticks a session on a fixed interval
type Poller struct {
	target      Target
	interval    time.Duration
	filter      *Filter
	autoResolve bool

	onMessage func(Message)
	onStatus  func(session.Status)

	lastStatus session.Status
	started    bool
	log        *logger.Logger
}

// Option is a function that configures a Poller
type Option func(*Poller)

// WithFilter replaces the default filter, which only drops repeats of the last line
func WithFilter(f *Filter) Option {
	return func(p *Poller) {
		p.filter = f
	}
}

// WithAutoResolve resolves whenever the session has no location. A failed
// resolution is not retried until the session is invalidated.
func WithAutoResolve(enabled bool) Option {
	return func(p *Poller) {
		p.autoResolve = enabled
	}
}

// WithMessageHandler receives every accepted line
func WithMessageHandler(fn func(Message)) Option {
	return func(p *Poller) {
		p.onMessage = fn
	}
}

// WithStatusHandler receives every status change
func WithStatusHandler(fn func(session.Status)) Option {
	return func(p *Poller) {
		p.onStatus = fn
	}
}

// New creates a Poller for target
func New(target Target, interval time.Duration, options ...Option) *Poller {
	p := &Poller{
		target:   target,
		interval: interval,
		filter:   NewFilter(nil, 1),
		log:      logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.Red, "monitor")),
	}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Run ticks until ctx is cancelled. It returns nil on cancellation.
func (p *Poller) Run(ctx context.Context) error {
	p.log.Infoln("Polling every", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Step(ctx)
	for {
		select {
		case <-ctx.Done():
			p.log.Infoln("Polling stopped")
			return nil
		case <-ticker.C:
			p.Step(ctx)
		}
	}
}

// Step performs a single tick
func (p *Poller) Step(ctx context.Context) {
	res := p.target.Tick()
	p.report(res.Status)

	if res.Status == session.NotResolved && p.autoResolve {
		if _, err := p.target.Resolve(ctx); err != nil {
			p.log.Warn("Resolution failed: ", err)
		}
		res = p.target.Tick()
		p.report(res.Status)
	}

	if res.Status == session.TargetAbsent {
		p.filter.Reset()
		return
	}

	if !res.OK || !p.filter.Accept(res.Text) {
		return
	}

	if p.onMessage != nil {
		p.onMessage(Message{Text: res.Text, At: time.Now()})
	}
}

func (p *Poller) report(st session.Status) {
	if p.started && st == p.lastStatus {
		return
	}
	p.started = true
	p.lastStatus = st
	if p.onStatus != nil {
		p.onStatus(st)
	}
}
