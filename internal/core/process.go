package core

import (
	"strconv"
)

// ProcessFunc is the body of a process: ordinary sequential Go code that
// blocks on p.Wait/p.Pause to yield control back to the scheduler, per
// spec §4.4.
type ProcessFunc func(p *Process)

// WaitSpec is one disjunct of a wait() call (spec §4.4: "each wait spec
// is either a single channel or an array of channels"). A scalar spec
// names one Channel: satisfied once that channel has been updated — the
// literal model has no per-field notion at all, but Keys, when given,
// narrows that to "once any one of these specific keys of it has been
// updated," for callers that only care about a subset of the channel's
// fields. An array spec names several Channels: satisfied once every
// one of them has been updated, not necessarily simultaneously — they
// accumulate. A spec with only Timeout is satisfied once that much
// logical time has elapsed (an extension, see Process.Pause).
// wait(spec1, spec2, ...) resumes as soon as ANY spec is satisfied (OR
// across specs).
type WaitSpec struct {
	Channel  *Channel
	Keys     []Key
	Channels []*Channel
	Timeout  *Duration
}

// Process is one SSM process: a single goroutine whose execution the
// scheduler strictly serializes against every other process's goroutine
// via a two-channel handshake, so only one is ever actually running —
// the concurrency model never hands two goroutines the shared Channel
// state at once. Grounded on the teacher's internal/core/machine.go
// goroutine-per-actor interpret loop, generalized from one event loop per
// state machine to one continuation per SSM process.
type Process struct {
	sched    *Scheduler
	priority *Priority
	label    string
	fn       ProcessFunc
	parent   *Process

	// deferCursor tracks where the next Defer'd child should be inserted:
	// nil until the first Defer, then the most recently deferred child's
	// priority. Advancing it on each Defer (instead of always inserting
	// directly after p.priority) keeps deferred children in FIFO order —
	// the priority-ordered mirror of spec §4.4's self.deferred list.
	deferCursor *Priority

	resume chan struct{}
	parked chan struct{}

	active     bool
	terminated bool
	returnChan *Channel
}

// newProcess allocates a process but does not start its goroutine or
// make it runnable; callers (Spawn/Defer, and the scheduler's root
// process) follow up with start() and either an immediate resumeProcess
// or an enqueueReady.
func (s *Scheduler) newProcess(prio *Priority, label string, fn ProcessFunc, parent *Process) *Process {
	if label == "" {
		label = "proc-" + strconv.Itoa(len(s.registry.processes)+1)
	}
	p := &Process{
		sched:    s,
		priority: prio,
		label:    label,
		fn:       fn,
		parent:   parent,
		resume:   make(chan struct{}),
		parked:   make(chan struct{}),
		active:   true,
	}
	p.returnChan = newChannel(s, label+".return", map[Key]any{"terminated": false})
	s.registry.registerProcess(p)
	s.activeCount++
	return p
}

func (p *Process) start() {
	go func() {
		<-p.resume
		p.fn(p)
		p.finish()
	}()
}

func (p *Process) finish() {
	p.terminated = true
	p.returnChan.Set(p, "terminated", true)
	p.sched.deactivate(p)
	p.parked <- struct{}{}
}

// suspend parks the running goroutine and blocks until the scheduler
// resumes it. Every blocking primitive (Wait, Pause) bottoms out here;
// it is the only place a process goroutine yields control.
func (p *Process) suspend() {
	p.parked <- struct{}{}
	<-p.resume
}

// Priority returns the process's position in the total scheduling order.
func (p *Process) Priority() *Priority { return p.priority }

// Label returns the process's diagnostic name.
func (p *Process) Label() string { return p.label }

// Terminated reports whether the process's body has returned.
func (p *Process) Terminated() bool { return p.terminated }

// ReturnChannel is the channel a parent waits on to observe this
// process's termination (key "terminated", per spec §4.4 ChildTermination).
func (p *Process) ReturnChannel() *Channel { return p.returnChan }

// Return stamps vals onto the return channel's numbered fields "1".."n",
// spec §9's resolution for multiple return values from a process: an
// array field alongside the terminated flag, rather than a typed value
// threaded through ProcessFunc's signature. A parent reads them off
// child.ReturnChannel() once "terminated" is observed true; calling
// Return more than once overwrites the same numbered fields.
func (p *Process) Return(vals ...any) {
	for i, v := range vals {
		p.returnChan.Set(p, strconv.Itoa(i+1), v)
	}
}

// Now returns the scheduler's current logical time.
func (p *Process) Now() LogicalTime { return p.sched.currentTime }

// SetActive marks the process as counting toward the scheduler's active
// process count, per spec §4.4. New processes start active.
func (p *Process) SetActive() {
	if !p.active {
		p.active = true
		p.sched.activeCount++
	}
}

// SetPassive removes the process from the active count without
// terminating it: the scheduler may stop ticking once no process is
// active, but a passive process can still be woken by a channel update.
func (p *Process) SetPassive() {
	if p.active {
		p.active = false
		p.sched.activeCount--
	}
}

// Spawn creates a child process and runs it inline up to its first
// suspension point before returning control to p — the "spawn" primitive
// of spec §4.4. Per spec: "allocate a new priority equal to self.priority
// [...] advance self.priority to self.priority.insert_after()." The
// child takes over p's current position in the order — inheriting
// whatever priority relationship p already had with everything else —
// and p itself moves to a freshly inserted position immediately after
// it. This self-shift is what keeps sibling spawn order correct: a
// second Spawn in the same process lands after the first child (now
// occupying p's old slot) rather than racing it for the same interval.
// An empty label gets a generated "proc-N" one.
func (p *Process) Spawn(fn ProcessFunc, label string) (*Process, error) {
	childPrio := p.priority
	newSelf, err := p.priority.InsertAfter()
	if err != nil {
		return nil, err
	}
	p.priority = newSelf
	child := p.sched.newProcess(childPrio, label, fn, p)
	child.start()
	p.sched.resumeProcess(child)
	return child, nil
}

// Defer creates a child process at a priority strictly lower than p, but
// schedules it onto the run queue instead of running it inline — the
// "defer" primitive of spec §4.4. The child starts later in this same
// instant, after everything already queued ahead of its priority.
// Successive Defer calls insert after the previously deferred child
// rather than always after p itself, so multiple deferred children keep
// the order in which they were declared — the priority-ordered
// realization of spec §4.4's "launches every deferred child in order."
// An empty label gets a generated "proc-N" one.
func (p *Process) Defer(fn ProcessFunc, label string) (*Process, error) {
	insertAfter := p.deferCursor
	if insertAfter == nil {
		insertAfter = p.priority
	}
	childPrio, err := insertAfter.InsertAfter()
	if err != nil {
		return nil, err
	}
	p.deferCursor = childPrio
	child := p.sched.newProcess(childPrio, label, fn, p)
	child.start()
	p.sched.enqueueReady(child)
	return child, nil
}

// Wait suspends until at least one of specs is satisfied, and returns an
// n-tuple of booleans positionally indicating which specs are satisfied
// at the moment it returns, per spec §4.4. Calling Wait with zero
// arguments is a no-op (spec §4.4) rather than a usage error, since a
// program can legitimately compute a wait spec list that ends up empty.
func (p *Process) Wait(specs ...WaitSpec) ([]bool, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	callTime := p.sched.currentTime
	baselines := captureBaselines(specs)

	for {
		done := satisfiedAll(specs, baselines, callTime, p.sched.currentTime)
		if anyTrue(done) {
			return done, nil
		}

		for _, s := range specs {
			if s.Channel != nil {
				s.Channel.Sensitize(p)
			}
			for _, c := range s.Channels {
				c.Sensitize(p)
			}
		}
		wakeAt := NEVER
		for _, s := range specs {
			if s.Timeout != nil {
				if *s.Timeout <= 0 {
					cleanupWait(p, specs)
					return nil, fatal(ErrTemporalViolation, "Wait", nil)
				}
				t := callTime.Add(*s.Timeout)
				if t < wakeAt {
					wakeAt = t
				}
			}
		}
		hasTimer := wakeAt != NEVER
		if hasTimer {
			p.sched.scheduleTimer(p, wakeAt)
		}

		p.suspend()

		cleanupWait(p, specs)
		if hasTimer {
			p.sched.cancelTimer(p)
		}
	}
}

func cleanupWait(p *Process, specs []WaitSpec) {
	for _, s := range specs {
		if s.Channel != nil {
			s.Channel.Desensitize(p)
		}
		for _, c := range s.Channels {
			c.Desensitize(p)
		}
	}
}

// unsetBaseline marks a key or channel that had never been updated at
// the moment Wait captured its baseline.
const unsetBaseline LogicalTime = -1

// waitBaseline snapshots, for one WaitSpec, the last-updated timestamps
// visible at the moment Wait was called. Re-checking against this
// snapshot — rather than against callTime directly — is what lets Wait
// tell "already at this state when I started watching" apart from
// "updated since": a channel's fields are very often already stamped
// with the current instant when Wait is first called (a return
// channel's "terminated" field is stamped at channel-creation time,
// which is typically the very instant a parent immediately waits on
// it), so ">= callTime" alone would read that pre-existing stamp as a
// fresh update and return immediately without ever really waiting.
type waitBaseline struct {
	keys     map[Key]LogicalTime
	any      LogicalTime
	channels []LogicalTime
}

func captureBaselines(specs []WaitSpec) []waitBaseline {
	out := make([]waitBaseline, len(specs))
	for i, s := range specs {
		switch {
		case s.Channel != nil && len(s.Keys) > 0:
			kb := make(map[Key]LogicalTime, len(s.Keys))
			for _, k := range s.Keys {
				kb[k] = baselineKey(s.Channel, k)
			}
			out[i].keys = kb
		case s.Channel != nil:
			out[i].any = baselineAny(s.Channel)
		case len(s.Channels) > 0:
			cb := make([]LogicalTime, len(s.Channels))
			for j, c := range s.Channels {
				cb[j] = baselineAny(c)
			}
			out[i].channels = cb
		}
	}
	return out
}

func baselineKey(c *Channel, k Key) LogicalTime {
	if t, ok := c.LastUpdatedKey(k); ok {
		return t
	}
	return unsetBaseline
}

func baselineAny(c *Channel) LogicalTime {
	if t, ok := c.LastUpdatedAny(); ok {
		return t
	}
	return unsetBaseline
}

// advanced reports whether current is strictly later than baseline,
// treating unsetBaseline as "before any real timestamp."
func advanced(current, baseline LogicalTime) bool {
	return current > baseline
}

// satisfiedAll reports, for every spec, whether it is satisfied as of
// now. Per spec §4.4: a scalar spec (Channel set, Channels empty) is
// satisfied once that channel has been updated since Wait was called —
// or, if Keys is given, once any one of the listed keys of it has; an
// array spec (Channels set) is satisfied once every one of its channels
// has been updated, not necessarily simultaneously —
// updates accumulate across separate instants. A pure-timeout spec is
// satisfied once now has reached callTime+Timeout. Every spec is
// recomputed from scratch both before the first suspend and again every
// time the process is woken, since a spurious wake (e.g. a different
// spec's channel committed) must not be mistaken for this spec's own,
// and a spec unrelated to the one that woke the process may have
// already become satisfied in the meantime.
func satisfiedAll(specs []WaitSpec, baselines []waitBaseline, callTime, now LogicalTime) []bool {
	done := make([]bool, len(specs))
	for i, s := range specs {
		b := baselines[i]
		switch {
		case s.Channel != nil && len(s.Keys) > 0:
			done[i] = anyKeyAdvanced(s.Channel, s.Keys, b.keys)
		case s.Channel != nil:
			done[i] = advanced(baselineAny(s.Channel), b.any)
		case len(s.Channels) > 0:
			done[i] = allChannelsAdvanced(s.Channels, b.channels)
		case s.Timeout != nil:
			done[i] = now >= callTime.Add(*s.Timeout)
		}
	}
	return done
}

func anyTrue(done []bool) bool {
	for _, b := range done {
		if b {
			return true
		}
	}
	return false
}

// anyKeyAdvanced reports whether any one of keys has advanced since
// baseline: per spec §4.4, a scalar spec is satisfied once "that channel
// has been updated," with no per-field distinction at the core model
// level — Keys only narrows which of a channel's fields this particular
// spec cares about, so one qualifying field updating is enough, not all
// of them.
func anyKeyAdvanced(c *Channel, keys []Key, baseline map[Key]LogicalTime) bool {
	for _, k := range keys {
		if advanced(baselineKey(c, k), baseline[k]) {
			return true
		}
	}
	return false
}

func allChannelsAdvanced(channels []*Channel, baseline []LogicalTime) bool {
	for j, c := range channels {
		if !advanced(baselineAny(c), baseline[j]) {
			return false
		}
	}
	return true
}

// Pause suspends the process for exactly d units of logical time — sugar
// over Wait with a single timeout spec. This is an extension beyond the
// literal spec surface (see After below for the spec's own "after"
// primitive); it exists because every pack reference scheduler offers a
// bare delay alongside scheduled writes, and most process bodies that
// only need to mark time have no channel write to hang off of.
func (p *Process) Pause(d Duration) error {
	if d <= 0 {
		return fatal(ErrTemporalViolation, "Pause", nil)
	}
	_, err := p.Wait(WaitSpec{Timeout: &d})
	return err
}

// After schedules tbl[k] <- v to take effect at current_time+d, per spec
// §4.4: "after(d, tbl, k, v): shorthand for scheduling a delayed update at
// current_time + d." d must be strictly positive.
func (p *Process) After(d Duration, tbl *Channel, k Key, v any) error {
	if d <= 0 {
		return fatal(ErrTemporalViolation, "After", nil)
	}
	return tbl.ScheduleUpdate(p.sched.currentTime.Add(d), k, v)
}
