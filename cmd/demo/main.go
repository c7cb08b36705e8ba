// Command demo runs a traffic-light SSM program with persistence,
// publishing, and DOT visualization wired in, the combined production
// stack described in SPEC_FULL.md's ambient/domain stack sections.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"

	ssmcore "github.com/comalice/ssmcore"
	"github.com/comalice/ssmcore/internal/production"
)

func main() {
	persister, err := production.NewJSONPersister("/tmp/ssmcore-demo")
	if err != nil {
		log.Fatalf("persister: %v", err)
	}

	publishCh := make(chan production.CommitEvent, 100)
	publisher := production.NewChannelPublisher(publishCh)
	ctx, cancel := context.WithCancel(context.Background())
	tracer := production.NewTracerPublisher(ctx, publisher)

	rt, err := ssmcore.NewRuntime(ssmcore.WithTracer(tracer))
	if err != nil {
		log.Fatalf("runtime: %v", err)
	}

	light := rt.NewChannel("light", map[ssmcore.Key]any{"color": "red"})

	if _, err := rt.SpawnRoot(cycle(light, persister), "traffic-cycle"); err != nil {
		log.Fatalf("spawn: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("\nshutting down")
		cancel()
		publisher.Close()
		os.Exit(0)
	}()

	go func() {
		for evt := range publishCh {
			fmt.Printf("published: %s.%s @ t=%d\n", evt.Channel, evt.Key, evt.Time)
		}
	}()

	if err := rt.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}

	visualizer := &production.DefaultVisualizer{}
	fmt.Println(visualizer.ExportDOT(nil, []production.ChannelNode{
		{Name: light.Name(), Fields: light.Snapshot()},
	}))
}

func cycle(light *ssmcore.Channel, persister *production.JSONPersister) ssmcore.ProcessFunc {
	sequence := []string{"green", "yellow", "red"}
	return func(p *ssmcore.Process) {
		for tick := 0; tick < 12; tick++ {
			color := sequence[tick%len(sequence)]
			fmt.Printf("\n--- %s cycle: light -> %s ---\n", humanize.Ordinal(tick+1), color)
			p.Set(light, "color", color)
			if err := persister.Save(production.ChannelSnapshot{Name: light.Name(), Fields: light.Snapshot()}); err != nil {
				log.Printf("persist: %v", err)
			}
			if err := p.Pause(2); err != nil {
				log.Fatalf("pause: %v", err)
			}
		}
		fmt.Println("demo complete after 12 cycles.")
	}
}
