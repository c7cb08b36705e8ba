// Package extensibility holds the SSM runtime's pluggable embedding
// surface: external stimulus feeds, used by the realtime backend, and
// named-process dispatch.
package extensibility

import "time"

// EventSource is an external stimulus feed: something outside the SSM
// program emits wall-clock timestamps on Events() that a dedicated
// real-time driver (realtime.RealtimeRuntime) blocks on between logical
// instants, advancing the program by one logical instant per tick.
// Generalized from the teacher's EventSource (which fed
// primitives.Event into a Machine.Send loop) to a bare timestamp signal,
// since an SSM process observes external stimuli through ordinary
// channel writes rather than a dispatched Event type.
type EventSource interface {
	Events() <-chan time.Time
	Stop()
}

// ChannelEventSource wraps a caller-supplied channel of timestamps,
// typically fed by test code that wants deterministic control over when
// the realtime driver process wakes.
type ChannelEventSource struct {
	ch chan time.Time
}

// NewChannelEventSource creates a ChannelEventSource backed by ch. The
// channel should be buffered if backpressure handling is needed.
func NewChannelEventSource(ch chan time.Time) *ChannelEventSource {
	return &ChannelEventSource{ch: ch}
}

func (s *ChannelEventSource) Events() <-chan time.Time { return s.ch }

// Stop is a no-op: the caller owns ch's lifecycle.
func (s *ChannelEventSource) Stop() {}

// TickerEventSource emits the real wall-clock time every d, via
// time.Ticker, until Stop is called.
type TickerEventSource struct {
	ch     chan time.Time
	ticker *time.Ticker
	stop   chan struct{}
}

// NewTickerEventSource creates a TickerEventSource that emits every d.
func NewTickerEventSource(d time.Duration) *TickerEventSource {
	ch := make(chan time.Time, 1)
	t := &TickerEventSource{
		ch:     ch,
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TickerEventSource) run() {
	for {
		select {
		case tm := <-t.ticker.C:
			select {
			case t.ch <- tm:
			default:
				// drop if the driver process hasn't consumed the last tick
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

func (t *TickerEventSource) Events() <-chan time.Time { return t.ch }

// Stop stops the ticker and closes the event channel.
func (t *TickerEventSource) Stop() { close(t.stop) }
