package benchmarks

import (
	"context"
	"testing"
	"time"

	ssmcore "github.com/comalice/ssmcore"
	"github.com/comalice/ssmcore/realtime"
)

// BenchmarkRealtimeTick measures the overhead realtime.RealtimeRuntime
// adds per wall-clock tick on top of a single AdvanceAndStep call,
// parallel to the teacher's tick-based throughput benchmark.
func BenchmarkRealtimeTick(b *testing.B) {
	rt, err := ssmcore.NewRuntime()
	if err != nil {
		b.Fatalf("new runtime: %v", err)
	}
	counter := rt.NewChannel("counter", map[ssmcore.Key]any{"n": 0})

	n := b.N
	if _, err := rt.SpawnRoot(func(p *ssmcore.Process) {
		for i := 0; i < n; i++ {
			v, _ := counter.Get("n")
			p.Set(counter, "n", v.(int)+1)
			if err := p.Pause(1); err != nil {
				b.Fatalf("pause: %v", err)
			}
		}
	}, "writer"); err != nil {
		b.Fatalf("spawn: %v", err)
	}

	game := realtime.NewRuntime(rt, realtime.Config{TickRate: time.Microsecond})

	b.ResetTimer()
	if err := game.Run(context.Background()); err != nil {
		b.Fatalf("run: %v", err)
	}
}
