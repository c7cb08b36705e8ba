package ssmcore

import "github.com/comalice/ssmcore/internal/core"

// ProcessFunc is the body of an SSM process: ordinary sequential Go code
// that suspends only by calling p.Wait or p.Pause, or while a child it
// starts with p.Spawn runs, per spec §4.4.
type ProcessFunc func(p *Process)

// Process is the public handle a running process uses to spawn children,
// read/write channels, and suspend.
type Process struct {
	inner *core.Process
}

func wrapProcessFunc(fn ProcessFunc) core.ProcessFunc {
	return func(cp *core.Process) {
		fn(&Process{inner: cp})
	}
}

// Label returns the process's diagnostic name.
func (p *Process) Label() string { return p.inner.Label() }

// Terminated reports whether the process's body has returned.
func (p *Process) Terminated() bool { return p.inner.Terminated() }

// ReturnChannel is the channel a parent waits on to observe this
// process's termination (key "terminated").
func (p *Process) ReturnChannel() *Channel { return wrapChannel(p.inner.ReturnChannel()) }

// Return stamps vals onto this process's return channel at numbered keys
// "1".."n", per spec §9's array-field resolution for multi-value returns.
// A parent reads them via child.ReturnChannel().Get("1"), etc., once it
// observes "terminated" true.
func (p *Process) Return(vals ...any) { p.inner.Return(vals...) }

// Now returns the runtime's current logical time.
func (p *Process) Now() LogicalTime { return p.inner.Now() }

// SetActive marks the process as counting toward the runtime's active
// process count. New processes start active.
func (p *Process) SetActive() { p.inner.SetActive() }

// SetPassive removes the process from the active count without
// terminating it.
func (p *Process) SetPassive() { p.inner.SetPassive() }

// Spawn creates a child process and runs it inline up to its first
// suspension point before returning control to p, per spec §4.4. An
// empty label gets a generated "proc-N" one.
func (p *Process) Spawn(fn ProcessFunc, label string) (*Process, error) {
	child, err := p.inner.Spawn(wrapProcessFunc(fn), label)
	if err != nil {
		return nil, err
	}
	return &Process{inner: child}, nil
}

// Defer creates a child process and schedules it onto the run queue
// instead of running it inline, per spec §4.4. An empty label gets a
// generated "proc-N" one.
func (p *Process) Defer(fn ProcessFunc, label string) (*Process, error) {
	child, err := p.inner.Defer(wrapProcessFunc(fn), label)
	if err != nil {
		return nil, err
	}
	return &Process{inner: child}, nil
}

// WaitSpec is one disjunct of a Wait call; see core.WaitSpec for the
// exact AND/OR semantics. A scalar spec names Channel (and optionally
// Keys within it); an array spec names Channels, satisfied once every
// one of them has been updated.
type WaitSpec struct {
	Channel  *Channel
	Keys     []Key
	Channels []*Channel
	Timeout  *Duration
}

// Wait suspends until at least one of specs is satisfied and returns an
// n-tuple of booleans positionally indicating which specs are satisfied,
// per spec §4.4. Wait() with no arguments is a no-op.
func (p *Process) Wait(specs ...WaitSpec) ([]bool, error) {
	coreSpecs := make([]core.WaitSpec, len(specs))
	for i, s := range specs {
		cs := core.WaitSpec{Keys: s.Keys, Timeout: s.Timeout}
		if s.Channel != nil {
			cs.Channel = s.Channel.inner
		}
		if len(s.Channels) > 0 {
			cs.Channels = make([]*core.Channel, len(s.Channels))
			for j, c := range s.Channels {
				cs.Channels[j] = c.inner
			}
		}
		coreSpecs[i] = cs
	}
	return p.inner.Wait(coreSpecs...)
}

// Pause suspends the process for exactly d units of logical time. An
// extension beyond the spec's literal surface — see After for the
// spec's own "after" primitive.
func (p *Process) Pause(d Duration) error { return p.inner.Pause(d) }

// Set performs the instant assignment c[k] <- v, per spec §4.3.
func (p *Process) Set(c *Channel, k Key, v any) { c.inner.Set(p.inner, k, v) }

// ScheduleUpdate schedules c[k] <- v to take effect at time t, which
// must be strictly later than the current time — the "after(tbl,t,k,v)"
// primitive of spec §4.3.
func (p *Process) ScheduleUpdate(c *Channel, t LogicalTime, k Key, v any) error {
	return c.inner.ScheduleUpdate(t, k, v)
}

// After schedules c[k] <- v to take effect at current_time+d — the
// "after(d, tbl, k, v)" primitive of spec §4.4, a relative-delay sibling
// of ScheduleUpdate's absolute-time form.
func (p *Process) After(d Duration, c *Channel, k Key, v any) error {
	return p.inner.After(d, c.inner, k, v)
}
