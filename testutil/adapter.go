// Package testutil provides a common interface for running the same
// ssmcore program under both backends — the fast jump-to-next-event
// runtime and the wall-clock-paced realtime runtime — so a single test
// body can assert they reach identical outcomes, per SPEC_FULL.md §8's
// determinism property. Generalized from the teacher's RuntimeAdapter
// (event-driven vs tick-based statechart runtimes) to ssmcore's two
// backends.
package testutil

import (
	"context"
	"time"

	ssmcore "github.com/comalice/ssmcore"
	"github.com/comalice/ssmcore/realtime"
)

// ProgramFactory builds a fresh, unstarted program. Adapters call it
// once; a Runtime cannot be rerun after Run returns, so each adapter
// needs its own instance built the same way.
type ProgramFactory func() (*ssmcore.Runtime, error)

// RuntimeAdapter runs a program to completion and reports its final
// channel state, independent of which backend drove it.
type RuntimeAdapter interface {
	Run(ctx context.Context) error
	Channel(name string) (*ssmcore.Channel, bool)
	CurrentTime() ssmcore.LogicalTime
}

// FastAdapter drives a program with ssmcore.Runtime.Run, jumping
// directly to each pending event.
type FastAdapter struct {
	rt *ssmcore.Runtime
}

// NewFastAdapter builds a program via factory for the fast backend.
func NewFastAdapter(factory ProgramFactory) (*FastAdapter, error) {
	rt, err := factory()
	if err != nil {
		return nil, err
	}
	return &FastAdapter{rt: rt}, nil
}

func (a *FastAdapter) Run(ctx context.Context) error { return a.rt.Run() }
func (a *FastAdapter) Channel(name string) (*ssmcore.Channel, bool) {
	return a.rt.Channel(name)
}
func (a *FastAdapter) CurrentTime() ssmcore.LogicalTime { return a.rt.CurrentTime() }

// RealtimeAdapter drives a program with realtime.RealtimeRuntime at a
// fixed tick rate.
type RealtimeAdapter struct {
	rt  *ssmcore.Runtime
	rrt *realtime.RealtimeRuntime
}

// NewRealtimeAdapter builds a program via factory for the realtime
// backend, ticking every tickRate.
func NewRealtimeAdapter(factory ProgramFactory, tickRate time.Duration) (*RealtimeAdapter, error) {
	rt, err := factory()
	if err != nil {
		return nil, err
	}
	return &RealtimeAdapter{rt: rt, rrt: realtime.NewRuntime(rt, realtime.Config{TickRate: tickRate})}, nil
}

func (a *RealtimeAdapter) Run(ctx context.Context) error { return a.rrt.Run(ctx) }
func (a *RealtimeAdapter) Channel(name string) (*ssmcore.Channel, bool) {
	return a.rt.Channel(name)
}
func (a *RealtimeAdapter) CurrentTime() ssmcore.LogicalTime { return a.rt.CurrentTime() }
