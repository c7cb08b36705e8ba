// Package ssmcore implements a deterministic, discrete-event concurrency
// runtime for the Synchronous Sequential Model of computation: a set of
// processes, prioritized into a single total order, communicate only
// through shared Channel records and advance in discrete logical
// instants. Within an instant every process that runs, runs in priority
// order to completion or its next suspension point; between instants,
// time jumps directly to the next pending channel commit or timer.
//
// The scheduling core lives in internal/core and never imports a
// third-party package — see DESIGN.md for why. This package is the
// public surface: Runtime wraps a core.Scheduler, ProgramBuilder offers
// a fluent way to describe a program's initial channels and processes,
// and Spawn/Defer/Wait/Pause/After/Now are thin, typed wrappers over the
// corresponding core.Process methods.
package ssmcore
