package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/session"
)

func main() {
	arena := flag.String("arena", "", "arena prefab in prefabs/ (default arena.yaml)")
	ticks := flag.Int("ticks", 3600, "maximum ticks to simulate")
	events := flag.Bool("events", false, "print every event")
	untilDone := flag.Bool("until-done", true, "stop once at most one team is left")
	flag.Parse()

	s, err := session.New(session.Options{Arena: *arena})
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	s.Dispatcher.Quiet = true

	for i := 0; i < *ticks; i++ {
		if err := s.Update(); err != nil {
			log.Fatal(err)
		}
		if *events {
			for _, evt := range s.Events() {
				fmt.Println(describe(s.World.ECS().Tick(), evt))
			}
		}
		if *untilDone && s.Outcome().Decided {
			break
		}
	}

	out := s.Outcome()
	stats := s.Dispatcher.Stats()
	fmt.Printf("arena %s: %s\n", s.Arena.Name, out)
	fmt.Printf("dispatch: dispatched=%d completed=%d unbound=%d stale=%d failed=%d\n",
		stats.Dispatched, stats.Completed, stats.Unbound, stats.Stale, stats.Failed)
	for _, d := range s.Diagnostics() {
		fmt.Printf("  %s\n", d)
	}
	if stats.Failed > 0 || stats.Unbound > 0 {
		os.Exit(1)
	}
}

func describe(tick uint64, evt ecs.Event) string {
	switch data := evt.Data.(type) {
	case combat.DamageEvent:
		return fmt.Sprintf("%6d %-15s %v -> %v %.1f", tick, evt.Type, data.Source, data.Unit, data.Amount)
	case combat.EffectEvent:
		return fmt.Sprintf("%6d %-15s %v %s", tick, evt.Type, data.Unit, data.Effect)
	}
	return fmt.Sprintf("%6d %-15s %+v", tick, evt.Type, evt.Data)
}
