package ssmcore

import "github.com/comalice/ssmcore/internal/core"

// LogicalTime is a nonnegative integer instant; NEVER is its top element.
type LogicalTime = core.LogicalTime

// Duration is a nonnegative span of logical time.
type Duration = core.Duration

// NEVER means "no event is scheduled."
const NEVER = core.NEVER

// Tracer observes runtime progress without influencing it. Concrete
// implementations live in internal/production.
type Tracer = core.Tracer

// Option configures a Runtime at construction.
type Option = core.Option

// WithStartTime sets the logical time the runtime begins at. Defaults to 0.
func WithStartTime(t LogicalTime) Option { return core.WithStartTime(t) }

// WithArenaSize overrides the order-maintenance label arena size.
func WithArenaSize(n uint64) Option { return core.WithArenaSize(n) }

// WithTracer attaches an observer for instant/process/channel events.
func WithTracer(t Tracer) Option { return core.WithTracer(t) }

// Runtime is the embeddable entry point described in spec §6: a program
// creates one, declares its initial channels and root processes, then
// calls Run to drive every instant to completion.
type Runtime struct {
	sched *core.Scheduler
}

// NewRuntime constructs a Runtime with no channels or processes yet.
func NewRuntime(opts ...Option) (*Runtime, error) {
	s, err := core.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}
	return &Runtime{sched: s}, nil
}

// NewChannel creates and registers a named channel.
func (r *Runtime) NewChannel(name string, initial map[Key]any) *Channel {
	return wrapChannel(r.sched.NewChannel(name, initial))
}

// SpawnRoot creates a top-level process with no parent. Use this (or
// ProgramBuilder.Process) to seed a program before calling Run. An empty
// label gets a generated "proc-N" one.
func (r *Runtime) SpawnRoot(fn ProcessFunc, label string) (*Process, error) {
	p, err := r.sched.SpawnRoot(wrapProcessFunc(fn), label)
	if err != nil {
		return nil, err
	}
	return &Process{inner: p}, nil
}

// Run drains instants until no process is active or no event remains
// pending.
func (r *Runtime) Run() error { return r.sched.Run() }

// StepInstant runs exactly one instant at the current time without
// advancing it. Backends that drive their own pacing (package realtime)
// use this instead of Run.
func (r *Runtime) StepInstant() error { return r.sched.StepInstant() }

// AdvanceAndStep moves current time forward by exactly one logical unit
// and runs that instant.
func (r *Runtime) AdvanceAndStep() error { return r.sched.AdvanceAndStep() }

// CurrentTime returns the runtime's current logical time.
func (r *Runtime) CurrentTime() LogicalTime { return r.sched.CurrentTime() }

// ActiveCount returns the number of currently-active processes.
func (r *Runtime) ActiveCount() int { return r.sched.ActiveCount() }

// NextEventTime returns the earliest logical time at which a channel
// commit or timer is due, or NEVER if nothing is pending — the
// "next_event_time()" query of spec §6, for a realtime backend to size
// its one-shot timer.
func (r *Runtime) NextEventTime() LogicalTime { return r.sched.NextEventTime() }

// Channel looks up a named channel registered with this runtime.
func (r *Runtime) Channel(name string) (*Channel, bool) {
	c, ok := r.sched.Registry().Channel(name)
	if !ok {
		return nil, false
	}
	return wrapChannel(c), true
}

// Process looks up a named process registered with this runtime.
func (r *Runtime) Process(name string) (*Process, bool) {
	p, ok := r.sched.Registry().Process(name)
	if !ok {
		return nil, false
	}
	return &Process{inner: p}, true
}
