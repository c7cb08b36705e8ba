package ssmcore

// ProgramBuilder is a fluent API for describing a program's initial
// channels and root processes before building a Runtime, generalized
// from the teacher's MachineBuilder (NewMachineBuilder().State(...)...)
// from naming states in a transition graph to naming channels and
// processes in an SSM program.
type ProgramBuilder struct {
	opts      []Option
	channels  []channelSpec
	processes []processSpec
}

type channelSpec struct {
	name    string
	initial map[Key]any
}

type processSpec struct {
	name string
	fn   ProcessFunc
}

// NewProgramBuilder starts a new program description with the given
// Runtime options (WithStartTime, WithArenaSize, WithTracer, ...).
func NewProgramBuilder(opts ...Option) *ProgramBuilder {
	return &ProgramBuilder{opts: opts}
}

// Channel declares a named channel with the given initial field values.
func (b *ProgramBuilder) Channel(name string, initial map[Key]any) *ProgramBuilder {
	b.channels = append(b.channels, channelSpec{name: name, initial: initial})
	return b
}

// Process declares a named root process. Root processes are spawned in
// declaration order when Build is called, each starting on the run
// queue for the runtime's first instant.
func (b *ProgramBuilder) Process(name string, fn ProcessFunc) *ProgramBuilder {
	b.processes = append(b.processes, processSpec{name: name, fn: fn})
	return b
}

// Build constructs a Runtime, registers every declared channel, and
// spawns every declared root process. Call Run on the result to execute
// the program.
func (b *ProgramBuilder) Build() (*Runtime, error) {
	rt, err := NewRuntime(b.opts...)
	if err != nil {
		return nil, err
	}
	for _, c := range b.channels {
		rt.NewChannel(c.name, c.initial)
	}
	for _, p := range b.processes {
		if _, err := rt.SpawnRoot(p.fn, p.name); err != nil {
			return nil, err
		}
	}
	return rt, nil
}
