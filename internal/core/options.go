// Package core provides the scheduling core of the SSM runtime.
// Functional options for configuring a Scheduler at construction time.
package core

// Option configures a Scheduler at construction. Generalized from this
// package's original Machine functional-options (WithActionRunner,
// WithPersister, ...) to the scheduler's own configuration surface.
type Option func(*schedulerConfig)

type schedulerConfig struct {
	startTime LogicalTime
	arenaSize uint64
	tracer    Tracer
}

func defaultConfig() schedulerConfig {
	return schedulerConfig{
		startTime: 0,
		arenaSize: DefaultArenaSize,
		tracer:    nullTracer{},
	}
}

// WithStartTime sets the logical time the scheduler begins at. Defaults
// to 0.
func WithStartTime(t LogicalTime) Option {
	return func(c *schedulerConfig) { c.startTime = t }
}

// WithArenaSize overrides the Dietz-Sleator label arena size used by the
// scheduler's priority structure. Tests use a small arena to exercise
// PriorityExhaustion without allocating a production-sized label space.
func WithArenaSize(n uint64) Option {
	return func(c *schedulerConfig) { c.arenaSize = n }
}

// WithTracer attaches an observer for instant/process/channel events.
// Defaults to a no-op tracer.
func WithTracer(t Tracer) Option {
	return func(c *schedulerConfig) { c.tracer = t }
}
