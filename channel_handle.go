package ssmcore

import "github.com/comalice/ssmcore/internal/core"

// Key identifies one field of a Channel.
type Key = core.Key

// Deleted is the delete sentinel: Process.Set(c, k, Deleted) removes
// field k entirely.
var Deleted = core.Deleted

// Channel is the public handle to a shared channel table, per spec §3.
// Reading a field is unrestricted; writing one requires the Process
// performing the write (see Process.Set/Process.ScheduleUpdate), since
// the wake rule depends on the writer's priority.
type Channel struct {
	inner *core.Channel
}

func wrapChannel(c *core.Channel) *Channel {
	if c == nil {
		return nil
	}
	return &Channel{inner: c}
}

// Name returns the channel's diagnostic label.
func (c *Channel) Name() string { return c.inner.Name() }

// Get returns the current value at key, or (nil, false) if absent.
func (c *Channel) Get(k Key) (any, bool) { return c.inner.Get(k) }

// Earliest returns the channel's earliest pending-update time, or NEVER.
func (c *Channel) Earliest() LogicalTime { return c.inner.Earliest() }

// LastUpdatedKey returns the timestamp of the most recent commit to key.
func (c *Channel) LastUpdatedKey(k Key) (LogicalTime, bool) { return c.inner.LastUpdatedKey(k) }

// LastUpdatedAny returns the maximum timestamp across all fields.
func (c *Channel) LastUpdatedAny() (LogicalTime, bool) { return c.inner.LastUpdatedAny() }

// Snapshot returns a defensive copy of the channel's current field
// values, for diagnostics only.
func (c *Channel) Snapshot() map[Key]any { return c.inner.Snapshot() }

// IsSensitized reports whether p is currently subscribed to this
// channel's next update — the "channel_is_sensitized(chan, proc)" query
// of spec §6.
func (c *Channel) IsSensitized(p *Process) bool { return c.inner.IsSensitized(p.inner) }
