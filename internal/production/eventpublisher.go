package production

import (
	"context"

	"github.com/comalice/ssmcore/internal/core"
)

// CommitEvent bundles a channel-commit observation for publishing to
// external subscribers, parallel to the teacher's PublishedEvent
// (Event+MachineMetadata) but for channel field commits instead of
// transition events.
type CommitEvent struct {
	Channel string
	Key     core.Key
	Time    core.LogicalTime
}

// ChannelPublisher is a stdlib-only implementation that forwards commit
// notifications to a Go channel. Publish is non-blocking: it drops the
// notification on backpressure rather than stalling the scheduler, since
// a tracer must never be able to slow down or deadlock a run.
type ChannelPublisher struct {
	ch chan<- CommitEvent
}

// NewChannelPublisher creates a ChannelPublisher with the given output
// channel.
func NewChannelPublisher(ch chan<- CommitEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// Publish attempts to forward evt, dropping it silently (returning nil)
// if ch is full. If ctx is already done, evt may instead be dropped with
// ctx.Err() returned.
func (p *ChannelPublisher) Publish(ctx context.Context, evt CommitEvent) error {
	select {
	case p.ch <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// Close closes the output channel. Callers must not Publish afterward.
func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}

// TracerPublisher adapts a ChannelPublisher into a core.Tracer, so a
// program can both trace-store and externally publish every channel
// commit with a single registered tracer.
type TracerPublisher struct {
	publisher *ChannelPublisher
	ctx       context.Context
}

// NewTracerPublisher wraps publisher so it can be passed to
// core.WithTracer directly. Instant-start and process events are
// intentionally not published — only channel commits, the observation
// external subscribers of an SSM program care about.
func NewTracerPublisher(ctx context.Context, publisher *ChannelPublisher) *TracerPublisher {
	return &TracerPublisher{publisher: publisher, ctx: ctx}
}

func (t *TracerPublisher) OnInstantStart(core.LogicalTime) {}
func (t *TracerPublisher) OnProcessResume(string)          {}
func (t *TracerPublisher) OnProcessTerminate(string)       {}

func (t *TracerPublisher) OnChannelCommit(name string, key core.Key, tm core.LogicalTime) {
	_ = t.publisher.Publish(t.ctx, CommitEvent{Channel: name, Key: key, Time: tm})
}
