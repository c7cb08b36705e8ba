package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	ssmcore "github.com/comalice/ssmcore"
	"github.com/comalice/ssmcore/internal/extensibility"
)

// ErrStopped is returned by Run when the runtime was stopped before the
// embedded program went idle.
var ErrStopped = errors.New("realtime: runtime stopped")

// Config controls a RealtimeRuntime's pacing.
type Config struct {
	// TickRate is the wall-clock duration of one logical time unit.
	// Defaults to 16667*time.Microsecond (60 Hz) if zero, matching the
	// teacher's game-loop framing.
	TickRate time.Duration
}

func (c Config) withDefaults() Config {
	if c.TickRate <= 0 {
		c.TickRate = 16667 * time.Microsecond
	}
	return c
}

// RealtimeRuntime drives an *ssmcore.Runtime in lockstep with wall-clock
// ticks: each tick advances current_time by exactly one logical unit and
// runs that instant, in place of ssmcore.Runtime.Run's jump-to-next-event
// loop. Grounded on the teacher's realtime/runtime.go tick loop and
// realtime/doc.go's fixed-time-step framing, generalized from an
// embedded statechart runtime to a wrapped ssmcore.Runtime since SSM has
// no separate event-dispatch path to batch.
type RealtimeRuntime struct {
	rt     *ssmcore.Runtime
	cfg    Config
	source extensibility.EventSource

	mu       sync.Mutex
	tickNum  uint64
	stopped  chan struct{}
	cancel   context.CancelFunc
	userStop bool
}

// NewRuntime wraps rt with fixed-time-step pacing. rt must already have
// its channels and root processes declared (e.g. via ssmcore.ProgramBuilder)
// but must not have had Run called on it yet.
func NewRuntime(rt *ssmcore.Runtime, cfg Config) *RealtimeRuntime {
	cfg = cfg.withDefaults()
	return &RealtimeRuntime{
		rt:     rt,
		cfg:    cfg,
		source: extensibility.NewTickerEventSource(cfg.TickRate),
	}
}

// TickNumber returns the number of ticks processed so far.
func (rt *RealtimeRuntime) TickNumber() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.tickNum
}

// Run steps the wrapped program's first instant immediately, then one
// further instant per wall-clock tick, until the program goes idle (no
// active process), ctx is canceled, or Stop is called. It returns nil on normal completion, ctx.Err() on
// cancellation, or ErrStopped if Stop won the race.
func (rt *RealtimeRuntime) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	rt.mu.Lock()
	rt.cancel = cancel
	rt.stopped = make(chan struct{})
	rt.userStop = false
	rt.mu.Unlock()
	defer close(rt.stopped)
	defer rt.source.Stop()

	if err := rt.rt.StepInstant(); err != nil {
		return err
	}
	if rt.rt.ActiveCount() == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			if rt.wasStopped() {
				return ErrStopped
			}
			return ctx.Err()
		case _, ok := <-rt.source.Events():
			if !ok {
				return nil
			}
			if err := rt.rt.AdvanceAndStep(); err != nil {
				return err
			}
			rt.mu.Lock()
			rt.tickNum++
			rt.mu.Unlock()
			if rt.rt.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// Stop ends a running Run call and waits for it to return.
func (rt *RealtimeRuntime) Stop() {
	rt.mu.Lock()
	cancel := rt.cancel
	stopped := rt.stopped
	rt.mu.Unlock()
	if cancel == nil {
		return
	}
	rt.mu.Lock()
	rt.userStop = true
	rt.mu.Unlock()
	cancel()
	<-stopped
}

func (rt *RealtimeRuntime) wasStopped() bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.userStop
}
