package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"chatscan/probe"
	"chatscan/process"
	"chatscan/process_blob"
	"chatscan/scan"
	"chatscan/textenc"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	heapBase  = 0x400000
	chatAddr  = heapBase + 0x120
	inputAddr = heapBase + 0x800
	copyAddr  = heapBase + 0xA00
)

// fakeGame stands in for the target: each submitted line is rendered into
// memory by the write callback.
type fakeGame struct {
	mem    *process_blob.Memory
	lines  []string
	render func(g *fakeGame, text string)
	err    error
}

func (g *fakeGame) InjectAndSubmit(_ context.Context, text string) error {
	if g.err != nil {
		return g.err
	}
	g.lines = append(g.lines, text)
	if g.render != nil {
		g.render(g, text)
	}
	return nil
}

func (g *fakeGame) put(t *testing.T, addr uint64, encoding, text string) {
	b, err := textenc.MustLookup(encoding).Encode(text)
	require.NoError(t, err)
	require.NoError(t, g.mem.Write(process.ProcessMemoryAddress(addr), append(b, 0, 0)))
}

func newGame() *fakeGame {
	m := process_blob.NewMemory(4242)
	m.AddRegion(heapBase, "rw-p", make([]byte, 0x1000))
	return &fakeGame{mem: m}
}

func newResolver(t *testing.T, g *fakeGame, options ...Option) *Resolver {
	gen, err := probe.New(probe.Digits, 12)
	require.NoError(t, err)

	options = append([]Option{WithSleep(func(time.Duration) {})}, options...)
	return New(g.mem, g, scan.New(), gen, options...)
}

func TestResolveRejectsDecoys(t *testing.T) {
	g := newGame()
	g.render = func(g *fakeGame, text string) {
		g.put(t, chatAddr, "utf-8", text)
		// every line also lands in a fresh history slot
		g.put(t, inputAddr+uint64(0x40*len(g.lines)), "utf-8", text)
	}

	r := newResolver(t, g)
	loc, err := r.Resolve(context.Background(), []string{"utf-8"})
	require.NoError(t, err)

	assert.Equal(t, process.ProcessMemoryAddress(chatAddr), loc.Address)
	assert.Equal(t, "utf-8", loc.Encoding.Name)
	assert.Equal(t, Converged, r.State())
	assert.Len(t, g.lines, DefaultRounds)

	got, ok := r.Location()
	assert.True(t, ok)
	assert.Equal(t, loc, got)
}

func TestResolveFailsClosedOnAmbiguity(t *testing.T) {
	g := newGame()
	g.render = func(g *fakeGame, text string) {
		// two persistent UTF-8 copies, one UTF-16 display buffer
		g.put(t, inputAddr, "utf-8", text)
		g.put(t, copyAddr, "utf-8", text)
		g.put(t, chatAddr, "utf-16-le", text)
	}

	var events []Event
	r := newResolver(t, g, WithObserver(func(ev Event) { events = append(events, ev) }))

	loc, err := r.Resolve(context.Background(), []string{"utf-8", "utf-16-le", "utf-16"})
	require.NoError(t, err)

	assert.Equal(t, process.ProcessMemoryAddress(chatAddr), loc.Address)
	assert.Equal(t, "utf-16-le", loc.Encoding.Name)
	assert.Len(t, g.lines, 2*DefaultRounds)

	last := events[len(events)-1]
	assert.Equal(t, Event{State: Converged, Encoding: "utf-16-le", Candidates: 1}, last)

	var utf8Rounds []int
	for _, ev := range events {
		if ev.Encoding == "utf-8" && ev.Round > 0 {
			utf8Rounds = append(utf8Rounds, ev.Candidates)
		}
	}
	if diff := cmp.Diff([]int{2, 2, 2}, utf8Rounds); diff != "" {
		t.Errorf("utf-8 round sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveExhausted(t *testing.T) {
	g := newGame()

	r := newResolver(t, g)
	_, err := r.Resolve(context.Background(), []string{"utf-8", "utf-16-le", "utf-16"})
	require.ErrorIs(t, err, ErrResolutionFailed)
	assert.Contains(t, err.Error(), "utf-16-le: 0 candidates")

	assert.Equal(t, Exhausted, r.State())
	assert.Len(t, g.lines, 3*DefaultRounds)

	_, ok := r.Location()
	assert.False(t, ok)
}

func TestResolveSkipsUnknownEncoding(t *testing.T) {
	g := newGame()
	g.render = func(g *fakeGame, text string) {
		g.put(t, chatAddr, "utf-8", text)
	}

	r := newResolver(t, g)
	loc, err := r.Resolve(context.Background(), []string{"klingon", "utf-8"})
	require.NoError(t, err)
	assert.Equal(t, process.ProcessMemoryAddress(chatAddr), loc.Address)
	assert.Len(t, g.lines, DefaultRounds)
}

func TestResolveStopsBetweenRounds(t *testing.T) {
	g := newGame()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := newResolver(t, g, WithObserver(func(ev Event) {
		if ev.Round == 1 {
			cancel()
		}
	}))

	_, err := r.Resolve(ctx, []string{"utf-8"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, g.lines, 1)
	assert.Equal(t, Idle, r.State())
}

func TestResolveAbortsOnInjectorError(t *testing.T) {
	g := newGame()
	g.err = errors.New("input blocked")

	r := newResolver(t, g)
	_, err := r.Resolve(context.Background(), []string{"utf-8", "utf-16-le"})
	require.ErrorIs(t, err, g.err)
	assert.NotErrorIs(t, err, ErrResolutionFailed)
	assert.Equal(t, Idle, r.State())
}

type failingScanner struct{ calls int }

func (f *failingScanner) Scan(process.RegionSource, []byte) ([]process.ProcessMemoryAddress, error) {
	f.calls++
	return nil, errors.New("regions unavailable")
}

func TestResolveTreatsScanErrorAsEmptyRound(t *testing.T) {
	g := newGame()
	gen, err := probe.New(probe.Digits, 12)
	require.NoError(t, err)

	s := &failingScanner{}
	r := New(g.mem, g, s, gen, WithSleep(func(time.Duration) {}), WithRounds(2))

	_, err = r.Resolve(context.Background(), []string{"utf-8"})
	require.ErrorIs(t, err, ErrResolutionFailed)
	assert.Equal(t, 2, s.calls)
}

func TestResolveWaitsSettleDelay(t *testing.T) {
	g := newGame()
	g.render = func(g *fakeGame, text string) {
		g.put(t, chatAddr, "utf-8", text)
	}

	var slept []time.Duration
	gen, err := probe.New(probe.Digits, 12)
	require.NoError(t, err)
	r := New(g.mem, g, scan.New(), gen,
		WithSettleDelay(250*time.Millisecond),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	_, err = r.Resolve(context.Background(), []string{"utf-8"})
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond}, slept)
}

func TestIntersectRejectsPerRoundDecoys(t *testing.T) {
	const truth = process.ProcessMemoryAddress(0x5000)
	got := Intersect(
		[]process.ProcessMemoryAddress{truth, 0x6001},
		[]process.ProcessMemoryAddress{0x6002, truth},
		[]process.ProcessMemoryAddress{truth, 0x6003},
	)
	assert.Equal(t, []process.ProcessMemoryAddress{truth}, got.Sorted())
}

func TestIntersect(t *testing.T) {
	a := []process.ProcessMemoryAddress{0x10, 0x20, 0x30, 0x30}
	b := []process.ProcessMemoryAddress{0x30, 0x20, 0x40}
	c := []process.ProcessMemoryAddress{0x20, 0x30}

	got := Intersect(a, b, c).Sorted()
	if diff := cmp.Diff([]process.ProcessMemoryAddress{0x20, 0x30}, got); diff != "" {
		t.Errorf("Intersect() mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, Intersect())
	assert.Empty(t, Intersect(a, nil, c))
	assert.Len(t, Intersect(a), 3)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "probing", Probing.String())
	assert.Equal(t, "converged", Converged.String())
	assert.Equal(t, "exhausted", Exhausted.String())
	assert.Equal(t, "unknown", State(42).String())
}
