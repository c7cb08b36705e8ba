package ssmcore_test

import (
	"testing"

	ssmcore "github.com/comalice/ssmcore"
)

// TestRuntimeTrafficLightCycle exercises the public API end to end: a
// runtime-declared channel and root process that cycles a field through a
// fixed sequence using Pause, the way cmd/demo's traffic light does.
func TestRuntimeTrafficLightCycle(t *testing.T) {
	sequence := []string{"green", "yellow", "red"}

	rt, err := ssmcore.NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	light := rt.NewChannel("light", map[ssmcore.Key]any{"color": "off"})

	_, err = rt.SpawnRoot(func(p *ssmcore.Process) {
		for _, color := range sequence {
			p.Set(light, "color", color)
			if err := p.Pause(1); err != nil {
				t.Errorf("Pause: %v", err)
			}
		}
	}, "cycle")
	if err != nil {
		t.Fatalf("SpawnRoot: %v", err)
	}

	if err := rt.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rt.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", rt.ActiveCount())
	}
	if v, ok := light.Get("color"); !ok || v != sequence[len(sequence)-1] {
		t.Errorf("light.color = (%v, %v), want (%v, true)", v, ok, sequence[len(sequence)-1])
	}
	if rt.CurrentTime() != ssmcore.LogicalTime(len(sequence)) {
		t.Errorf("CurrentTime() = %v, want %v", rt.CurrentTime(), len(sequence))
	}
}

// TestRuntimeSpawnWaitReturn exercises Spawn, Wait on a child's return
// channel, and the Return multi-value convention through the public API.
func TestRuntimeSpawnWaitReturn(t *testing.T) {
	rt, err := ssmcore.NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	var sum int
	_, err = rt.SpawnRoot(func(p *ssmcore.Process) {
		child, err := p.Spawn(func(cp *ssmcore.Process) {
			if err := cp.Pause(1); err != nil {
				t.Errorf("Pause: %v", err)
			}
			cp.Return(3, 4)
		}, "child")
		if err != nil {
			t.Fatalf("Spawn: %v", err)
		}

		for {
			done, ok := child.ReturnChannel().Get("terminated")
			if ok && done == true {
				break
			}
			if _, err := p.Wait(ssmcore.WaitSpec{Channel: child.ReturnChannel(), Keys: []ssmcore.Key{"terminated"}}); err != nil {
				t.Errorf("Wait: %v", err)
			}
		}
		a, _ := child.ReturnChannel().Get("1")
		b, _ := child.ReturnChannel().Get("2")
		sum = a.(int) + b.(int)
	}, "main")
	if err != nil {
		t.Fatalf("SpawnRoot: %v", err)
	}

	if err := rt.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum != 7 {
		t.Errorf("sum = %d, want 7", sum)
	}
}

// TestProgramBuilderDeclaresChannelsAndProcesses exercises ProgramBuilder's
// fluent declaration surface and confirms Build spawns every declared
// process by the first instant.
func TestProgramBuilderDeclaresChannelsAndProcesses(t *testing.T) {
	var ran []string
	rt, err := ssmcore.NewProgramBuilder().
		Channel("ch", map[ssmcore.Key]any{"x": 1}).
		Process("a", func(p *ssmcore.Process) { ran = append(ran, "a") }).
		Process("b", func(p *ssmcore.Process) { ran = append(ran, "b") }).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ch, ok := rt.Channel("ch")
	if !ok {
		t.Fatal("expected ch to be registered")
	}
	if v, ok := ch.Get("x"); !ok || v != 1 {
		t.Errorf("ch.Get(x) = (%v, %v), want (1, true)", v, ok)
	}

	if err := rt.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(ran) != 2 || ran[0] != "a" || ran[1] != "b" {
		t.Errorf("ran = %v, want [a b] (first-declared root runs first)", ran)
	}
}

// TestRuntimeWaitNoArgsIsNoOp is spec §8's boundary behavior: wait() with
// no arguments returns immediately without changing state.
func TestRuntimeWaitNoArgsIsNoOp(t *testing.T) {
	rt, err := ssmcore.NewRuntime()
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}

	var ranAfterWait bool
	_, err = rt.SpawnRoot(func(p *ssmcore.Process) {
		done, err := p.Wait()
		if err != nil {
			t.Errorf("Wait(): %v", err)
		}
		if done != nil {
			t.Errorf("Wait() = %v, want nil", done)
		}
		ranAfterWait = true
	}, "main")
	if err != nil {
		t.Fatalf("SpawnRoot: %v", err)
	}

	if err := rt.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ranAfterWait {
		t.Error("process body did not resume after Wait() with no args")
	}
	if rt.CurrentTime() != 0 {
		t.Errorf("CurrentTime() = %v, want 0 (no-op Wait must not advance time)", rt.CurrentTime())
	}
}
