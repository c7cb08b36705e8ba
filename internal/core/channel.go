package core

// Key identifies one field of a Channel. The spec models it as "string or
// integer"; this implementation settles on string, mirroring the
// teacher's StateID/path convention (internal/primitives/stateconfig.go)
// of addressing structured data by string key rather than introducing a
// separate integer-keyed variant.
type Key = string

// Deleted is the delete sentinel referenced in spec §4.3: assigning it to
// a field removes that field from both value and last.
type deletedSentinel struct{}

var Deleted = deletedSentinel{}

type laterEntry struct {
	time LogicalTime
	val  any
}

// Channel is the program-visible shared record described in spec §3/§4.3:
// a map of field values, each with a last-updated timestamp, a queue of
// future updates, and a set of processes sensitized to any update.
//
// Channel is reachable from exactly one goroutine at a time — the process
// currently running, or the scheduler during commit — so unlike the
// teacher's internal/primitives.Context (sync.Map, built for a concurrent
// actor), Channel's maps are plain and unsynchronized. See SPEC_FULL.md
// §3 for why that divergence is intentional.
type Channel struct {
	sched *Scheduler
	name  string

	value    map[Key]any
	last     map[Key]LogicalTime
	later    map[Key]laterEntry
	earliest LogicalTime
	triggers map[*Process]struct{}
	scheduled bool
}

// newChannel constructs a Channel whose fields are all considered updated
// at the scheduler's current time, per spec §4.6 channel_new.
func newChannel(sched *Scheduler, name string, initial map[Key]any) *Channel {
	c := &Channel{
		sched:    sched,
		name:     name,
		value:    make(map[Key]any, len(initial)),
		last:     make(map[Key]LogicalTime, len(initial)),
		later:    make(map[Key]laterEntry),
		earliest: NEVER,
		triggers: make(map[*Process]struct{}),
	}
	now := sched.currentTime
	for k, v := range initial {
		c.value[k] = v
		c.last[k] = now
	}
	return c
}

// Name returns the channel's diagnostic label. Never consulted by
// scheduling decisions — see SPEC_FULL.md §4.3.
func (c *Channel) Name() string { return c.name }

// Get returns the current value at key, or (nil, false) if absent.
func (c *Channel) Get(k Key) (any, bool) {
	v, ok := c.value[k]
	return v, ok
}

// Set performs the instant assignment described in spec §4.3, run by the
// currently-executing process p.
func (c *Channel) Set(p *Process, k Key, v any) {
	if v == Deleted {
		delete(c.value, k)
		delete(c.last, k)
	} else {
		c.value[k] = v
		c.last[k] = c.sched.currentTime
	}
	c.sched.tracer.OnChannelCommit(c.name, k, c.sched.currentTime)

	for q := range c.triggers {
		// A process strictly lower priority than the writer has not yet
		// run this instant and must be woken to observe the write; a
		// process at equal-or-higher priority already ran earlier this
		// instant (or is the writer itself) and stays sensitized for a
		// future wake, per the asymmetric rule in spec §4.3.
		if p.priority.Less(q.priority) {
			delete(c.triggers, q)
			c.sched.enqueueReady(q)
		}
	}
}

// ScheduleUpdate implements "after(tbl, t, k, v)" from spec §4.3. t must
// be strictly later than the scheduler's current time.
func (c *Channel) ScheduleUpdate(t LogicalTime, k Key, v any) error {
	if t <= c.sched.currentTime {
		return fatal(ErrTemporalViolation, "ScheduleUpdate", nil)
	}

	old, existed := c.later[k]
	c.later[k] = laterEntry{time: t, val: v}

	switch {
	case existed && old.time == c.earliest && old.time != t:
		c.recomputeEarliest()
	case t < c.earliest:
		c.earliest = t
	}

	c.sched.scheduleChannelEvent(c)
	return nil
}

func (c *Channel) recomputeEarliest() {
	min := NEVER
	for _, e := range c.later {
		if e.time < min {
			min = e.time
		}
	}
	c.earliest = min
}

// Commit applies every pending update due at the scheduler's current
// time, per spec §4.3. The scheduler calls this only for channels it has
// just dequeued from the event queue, with earliest == current_time.
func (c *Channel) Commit() error {
	now := c.sched.currentTime
	if c.earliest != now {
		return fatal(ErrTemporalViolation, "Commit", nil)
	}

	for k, e := range c.later {
		if e.time != now {
			if e.time < now {
				return fatal(ErrTemporalViolation, "Commit", nil)
			}
			continue
		}
		if e.val == Deleted {
			delete(c.value, k)
			delete(c.last, k)
		} else {
			c.value[k] = e.val
			c.last[k] = now
		}
		delete(c.later, k)
		c.sched.tracer.OnChannelCommit(c.name, k, now)
	}

	c.recomputeEarliest()

	for q := range c.triggers {
		c.sched.enqueueReady(q)
	}
	c.triggers = make(map[*Process]struct{})

	c.scheduled = false
	if c.earliest != NEVER {
		c.sched.scheduleChannelEvent(c)
	}
	return nil
}

// Sensitize subscribes p to this channel's next update. Idempotent.
func (c *Channel) Sensitize(p *Process) {
	c.triggers[p] = struct{}{}
}

// Desensitize removes p from this channel's trigger set.
func (c *Channel) Desensitize(p *Process) {
	delete(c.triggers, p)
}

// IsSensitized reports whether p is currently subscribed to this channel.
func (c *Channel) IsSensitized(p *Process) bool {
	_, ok := c.triggers[p]
	return ok
}

// SensitizedLabels returns the diagnostic labels of every process
// currently sensitized to this channel, for visualization/tracing only.
func (c *Channel) SensitizedLabels() []string {
	labels := make([]string, 0, len(c.triggers))
	for p := range c.triggers {
		labels = append(labels, p.label)
	}
	return labels
}

// Earliest returns the channel's earliest pending-update time, or NEVER.
func (c *Channel) Earliest() LogicalTime { return c.earliest }

// Scheduled reports whether the channel currently sits in the event
// queue.
func (c *Channel) Scheduled() bool { return c.scheduled }

// LastUpdatedKey returns the timestamp of the most recent commit to key,
// or (0, false) if the key has never been set.
func (c *Channel) LastUpdatedKey(k Key) (LogicalTime, bool) {
	t, ok := c.last[k]
	return t, ok
}

// LastUpdatedAny returns the maximum timestamp across all fields, or
// (0, false) if the channel has no fields.
func (c *Channel) LastUpdatedAny() (LogicalTime, bool) {
	found := false
	var max LogicalTime
	for _, t := range c.last {
		if !found || t > max {
			max = t
			found = true
		}
	}
	return max, found
}

// Snapshot returns a defensive copy of the channel's current field
// values, for production-tier persistence/visualization only — never
// consulted by scheduling.
func (c *Channel) Snapshot() map[Key]any {
	out := make(map[Key]any, len(c.value))
	for k, v := range c.value {
		out[k] = v
	}
	return out
}
