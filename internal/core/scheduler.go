package core

// Scheduler drives the tick loop described in spec §4.5: within an
// instant it commits due channels, wakes their triggered processes, and
// drains the run queue in strict priority order; between instants it
// jumps current_time directly to the next pending event, never stepping
// through idle time. Grounded on the teacher's internal/core/machine.go
// interpret()/processEvent() loop and realtime/tick.go's batching.
//
// run_stack from spec §4.5 — the LIFO of just-spawned higher-priority
// children — is realized here as the Go call stack itself: Process.Spawn
// resumes its child synchronously and blocks until the child parks, so
// nested spawns already nest correctly without a separate explicit
// structure. Only processes with no "current process" to run under
// (Defer'd children, channel- and timer-woken processes) go through the
// explicit run_queue.
type Scheduler struct {
	currentTime LogicalTime

	rootPriority *Priority
	rootCursor   *Priority
	runQueue     *PriorityQueue[*Process, *Priority]
	eventQueue   *PriorityQueue[*Channel, LogicalTime]
	timerQueue   *PriorityQueue[*Process, LogicalTime]

	activeCount int
	tracer      Tracer
	registry    *Registry
}

// NewScheduler constructs a Scheduler with no processes or channels yet.
// Callers seed the program with SpawnRoot and NewChannel before calling
// Run.
func NewScheduler(opts ...Option) (*Scheduler, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}

	rootPrio, err := NewBaseWithArena(cfg.arenaSize)
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		currentTime:  cfg.startTime,
		rootPriority: rootPrio,
		tracer:       cfg.tracer,
		registry:     newRegistry(),
	}
	s.runQueue = NewPriorityQueue[*Process, *Priority](func(a, b *Priority) bool {
		return a.Less(b)
	})
	s.eventQueue = NewPriorityQueue[*Channel, LogicalTime](func(a, b LogicalTime) bool {
		return a < b
	})
	s.timerQueue = NewPriorityQueue[*Process, LogicalTime](func(a, b LogicalTime) bool {
		return a < b
	})
	return s, nil
}

// CurrentTime returns the scheduler's current logical time.
func (s *Scheduler) CurrentTime() LogicalTime { return s.currentTime }

// ActiveCount returns the number of currently-active processes.
func (s *Scheduler) ActiveCount() int { return s.activeCount }

// Registry exposes the scheduler's named-channel/process diagnostic
// index.
func (s *Scheduler) Registry() *Registry { return s.registry }

// NewChannel creates and registers a named channel, per spec §4.6
// channel_new. Field values not present in initial start with no value
// and no last-updated timestamp.
func (s *Scheduler) NewChannel(name string, initial map[Key]any) *Channel {
	c := newChannel(s, name, initial)
	s.registry.registerChannel(c)
	return c
}

// SpawnRoot creates the first process of a program: since there is no
// currently-running process to nest it under, it starts on the run queue
// rather than running inline, and is picked up on the next runInstant
// (typically the one Run's first iteration performs). Successive
// SpawnRoot calls are inserted in FIFO order — each after the previous
// root's priority rather than always immediately after rootPriority — so
// the first-declared root process is also the highest-priority one,
// mirroring Process.Defer's cursor pattern. An empty label gets a
// generated "proc-N" one.
func (s *Scheduler) SpawnRoot(fn ProcessFunc, label string) (*Process, error) {
	insertAfter := s.rootCursor
	if insertAfter == nil {
		insertAfter = s.rootPriority
	}
	prio, err := insertAfter.InsertAfter()
	if err != nil {
		return nil, err
	}
	s.rootCursor = prio
	p := s.newProcess(prio, label, fn, nil)
	p.start()
	s.enqueueReady(p)
	return p, nil
}

func (s *Scheduler) enqueueReady(p *Process) {
	if p.terminated || s.runQueue.Contains(p) {
		return
	}
	s.runQueue.Add(p, p.priority)
}

func (s *Scheduler) resumeProcess(p *Process) {
	s.tracer.OnProcessResume(p.label)
	p.resume <- struct{}{}
	<-p.parked
	if p.terminated {
		s.tracer.OnProcessTerminate(p.label)
	}
}

func (s *Scheduler) deactivate(p *Process) {
	if p.active {
		p.active = false
		s.activeCount--
	}
}

func (s *Scheduler) scheduleChannelEvent(c *Channel) {
	if c.earliest == NEVER {
		return
	}
	if s.eventQueue.Contains(c) {
		s.eventQueue.Reposition(c, c.earliest)
	} else {
		c.scheduled = true
		s.eventQueue.Add(c, c.earliest)
	}
}

func (s *Scheduler) scheduleTimer(p *Process, t LogicalTime) {
	if s.timerQueue.Contains(p) {
		s.timerQueue.Reposition(p, t)
	} else {
		s.timerQueue.Add(p, t)
	}
}

func (s *Scheduler) cancelTimer(p *Process) {
	s.timerQueue.Remove(p)
}

// runInstant performs one complete instant at current_time: commit every
// channel whose earliest update is due, wake every timer due, then drain
// the run queue until no process is ready, per spec §4.5.
func (s *Scheduler) runInstant() error {
	s.tracer.OnInstantStart(s.currentTime)

	for {
		c, t, ok := s.eventQueue.Peek()
		if !ok || t != s.currentTime {
			break
		}
		s.eventQueue.Pop()
		if err := c.Commit(); err != nil {
			return err
		}
	}

	for {
		p, t, ok := s.timerQueue.Peek()
		if !ok || t != s.currentTime {
			break
		}
		s.timerQueue.Pop()
		s.enqueueReady(p)
	}

	for {
		p, _, ok := s.runQueue.Pop()
		if !ok {
			break
		}
		s.resumeProcess(p)
	}

	return nil
}

// NextEventTime returns the earliest time at which a channel commit or a
// timer is due, or NEVER if nothing is pending — the "next_event_time()"
// query of spec §6, consulted by realtime backends to size their
// one-shot timer.
func (s *Scheduler) NextEventTime() LogicalTime {
	t := NEVER
	if _, et, ok := s.eventQueue.Peek(); ok && et < t {
		t = et
	}
	if _, tt, ok := s.timerQueue.Peek(); ok && tt < t {
		t = tt
	}
	return t
}

// SetTime advances current_time to t. t must be strictly greater than
// the current time — set_time backward or in place is a TemporalViolation
// per spec §7, the only exception being a Scheduler's own initial value
// set at construction.
func (s *Scheduler) SetTime(t LogicalTime) error {
	if t <= s.currentTime {
		return fatal(ErrTemporalViolation, "SetTime", nil)
	}
	s.currentTime = t
	return nil
}

// StepInstant runs exactly one instant at the current time without
// advancing it. Exposed for backends (realtime) that drive their own
// pacing instead of using Run's jump-to-next-event loop.
func (s *Scheduler) StepInstant() error { return s.runInstant() }

// AdvanceAndStep moves current_time forward by exactly one logical unit
// and runs that instant — the realtime backend's fixed-timestep
// primitive, per spec §6.
func (s *Scheduler) AdvanceAndStep() error {
	if err := s.SetTime(s.currentTime + 1); err != nil {
		return err
	}
	return s.runInstant()
}

// Run drains instants until no process is active or no event remains
// pending, per spec §4.5's tick loop. It returns nil on normal
// completion and a *FatalError for any invariant violation encountered
// along the way.
func (s *Scheduler) Run() error {
	for {
		if err := s.runInstant(); err != nil {
			return err
		}
		if s.activeCount == 0 {
			return nil
		}
		next := s.NextEventTime()
		if next.IsNever() {
			return nil
		}
		if err := s.SetTime(next); err != nil {
			return err
		}
	}
}
