package extensibility

import (
	"fmt"

	"github.com/comalice/ssmcore/internal/core"
)

// ProcessRef names a process body either directly as a core.ProcessFunc
// or indirectly by string, to be resolved against a ProcessRegistry.
// Generalized from the teacher's ActionRef/GuardRef string-or-func
// dispatch pattern (its internal/extensibility action/guard runners)
// from actions bound to a Machine to process bodies bound to a
// Scheduler.
type ProcessRef any

// ProcessRegistry resolves string ProcessRefs to concrete bodies, for
// scenario files that declare processes by name rather than by a Go
// closure.
type ProcessRegistry struct {
	byName map[string]core.ProcessFunc
}

// NewProcessRegistry creates an empty registry.
func NewProcessRegistry() *ProcessRegistry {
	return &ProcessRegistry{byName: make(map[string]core.ProcessFunc)}
}

// Register binds name to fn for later Resolve calls.
func (r *ProcessRegistry) Register(name string, fn core.ProcessFunc) {
	r.byName[name] = fn
}

// Resolve turns a ProcessRef into a runnable body: a core.ProcessFunc (or
// plain func(*core.Process)) passes through unchanged, a string is
// looked up by name.
func (r *ProcessRegistry) Resolve(ref ProcessRef) (core.ProcessFunc, error) {
	switch v := ref.(type) {
	case nil:
		return nil, fmt.Errorf("nil process reference")
	case core.ProcessFunc:
		return v, nil
	case func(*core.Process):
		return core.ProcessFunc(v), nil
	case string:
		fn, ok := r.byName[v]
		if !ok {
			return nil, fmt.Errorf("process %q not registered", v)
		}
		return fn, nil
	default:
		return nil, fmt.Errorf("unknown process reference type: %T", ref)
	}
}
