package core

// Tracer observes scheduler progress without influencing it: every method
// is called after the corresponding decision has already been made, so a
// Tracer implementation can never perturb scheduling order. Concrete
// implementations (in-memory, YAML and sqlite-backed trace stores, and a
// commit publisher) live in internal/production.
type Tracer interface {
	OnInstantStart(t LogicalTime)
	OnProcessResume(label string)
	OnProcessTerminate(label string)
	OnChannelCommit(name string, key Key, t LogicalTime)
}

type nullTracer struct{}

func (nullTracer) OnInstantStart(LogicalTime)          {}
func (nullTracer) OnProcessResume(string)              {}
func (nullTracer) OnProcessTerminate(string)           {}
func (nullTracer) OnChannelCommit(string, Key, LogicalTime) {}
