package core

import "errors"

// Error taxonomy per spec §7. All are fatal: the runtime does not attempt
// partial recovery from any of them. Sentinel style mirrors the teacher's
// internal/core/registry.go (ErrNotFound, ErrExists, ErrInvalidState)
// rather than ad hoc string errors, so callers can errors.Is/errors.As.
var (
	// ErrTemporalViolation: set_time(t) with t <= current_time (except
	// initialization), after(d,...) with d <= 0, or a commit attempted at
	// a time other than the channel's earliest.
	ErrTemporalViolation = errors.New("temporal violation")

	// ErrPriorityExhaustion: the Dietz-Sleator label arena has no room
	// left for another live priority.
	ErrPriorityExhaustion = errors.New("priority arena exhausted")

	// ErrPriorityMisuse: comparing or inserting relative to priorities
	// from distinct bases, or using a deleted priority.
	ErrPriorityMisuse = errors.New("priority misuse")

	// ErrUsageError: spawn/wait/after called outside process context, or
	// writing to a channel after logical deletion.
	ErrUsageError = errors.New("usage error")
)

// FatalError wraps one of the taxonomy sentinels with operation context.
// It is always returned instead of the bare sentinel so messages stay
// actionable, while errors.Is(err, ErrTemporalViolation) etc. keeps working.
type FatalError struct {
	Kind error
	Op   string
	Err  error
}

func (e *FatalError) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Kind.Error()
}

func (e *FatalError) Unwrap() error { return e.Kind }

func fatal(kind error, op string, err error) *FatalError {
	return &FatalError{Kind: kind, Op: op, Err: err}
}
