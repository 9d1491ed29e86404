package session

import (
	"fmt"
	"log"
	"path/filepath"
	"sort"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/sprites"
)

const defaultKeepDiagnostics = 32

type Options struct {
	// Arena is the arena prefab file name; empty means arena.yaml.
	Arena string
	// Watch reloads attack bindings, scripts and sheets when they change
	// on disk.
	Watch bool
	// Verbose logs deaths and every drained event.
	Verbose bool
	// KeepDiagnostics bounds the diagnostics history.
	KeepDiagnostics int
}

// Session is one running arena: world, dispatcher and systems built from
// prefabs.
type Session struct {
	World      *combat.World
	Dispatcher *combat.Dispatcher
	Sheets     *sprites.Library
	Arena      *prefabs.ArenaSpec
	Units      []ecs.Entity

	opts    Options
	watcher *prefabs.Watcher
	diags   []combat.Diagnostic
	events  []ecs.Event
	reloads int
}

// New loads prefabs and spawns the arena.
func New(opts Options) (*Session, error) {
	if opts.KeepDiagnostics <= 0 {
		opts.KeepDiagnostics = defaultKeepDiagnostics
	}

	sheets, err := sprites.LoadLibrary()
	if err != nil {
		return nil, fmt.Errorf("session: sheets: %w", err)
	}
	registry, err := combat.LoadRegistry(sheets)
	if err != nil {
		return nil, fmt.Errorf("session: attacks: %w", err)
	}
	arena, err := prefabs.LoadArenaSpec(opts.Arena)
	if err != nil {
		return nil, fmt.Errorf("session: arena: %w", err)
	}

	s := &Session{Sheets: sheets, Arena: arena, opts: opts}
	s.World = combat.NewWorld()
	s.Dispatcher = combat.NewDispatcher(s.World, registry, s)
	if s.Units, err = SpawnArena(s.World, arena); err != nil {
		return nil, err
	}

	w := s.World.ECS()
	w.AddSystem(system.NewAttackSystem(s.World, s.Dispatcher))
	w.AddSystem(system.NewProjectileSystem(s.World))
	w.AddSystem(system.NewEffectSystem(s.World))
	w.AddSystem(system.NewAnimationSystem())
	w.AddSystem(system.NewTTLSystem())
	death := system.NewDeathSystem()
	death.Verbose = opts.Verbose
	w.AddSystem(death)

	if opts.Watch {
		watcher, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			log.Printf("session: watch disabled: %v", err)
		} else {
			s.watcher = watcher
		}
	}
	return s, nil
}

// Report records a dispatch diagnostic. It makes Session a combat.Reporter.
func (s *Session) Report(d combat.Diagnostic) {
	if s == nil {
		return
	}
	s.diags = append(s.diags, d)
	if over := len(s.diags) - s.opts.KeepDiagnostics; over > 0 {
		s.diags = append(s.diags[:0], s.diags[over:]...)
	}
}

// Diagnostics returns the most recent diagnostics, oldest first.
func (s *Session) Diagnostics() []combat.Diagnostic {
	if s == nil {
		return nil
	}
	return append([]combat.Diagnostic(nil), s.diags...)
}

// Events returns what the last tick produced.
func (s *Session) Events() []ecs.Event {
	if s == nil {
		return nil
	}
	return s.events
}

// Update applies pending reloads and advances the world one tick.
func (s *Session) Update() error {
	if s == nil || s.World == nil {
		return nil
	}
	if names := s.watcher.Poll(); len(names) > 0 {
		s.reload(names)
	}

	s.World.Tick()
	s.events = s.World.ECS().Events().Drain()
	if s.opts.Verbose {
		for _, evt := range s.events {
			log.Printf("session: tick=%d %s %+v", s.World.ECS().Tick(), evt.Type, evt.Data)
		}
	}
	return nil
}

func (s *Session) reload(names []string) {
	relevant := false
	for _, name := range names {
		base := filepath.Base(name)
		if prefabs.IsScriptFile(name) || base == "attacks.yaml" || base == "sheets.yaml" {
			relevant = true
			continue
		}
		log.Printf("session: %s changed; restart to apply", base)
	}
	if !relevant {
		return
	}
	if err := s.Reload(); err != nil {
		log.Printf("session: reload failed, keeping previous bindings: %v", err)
	}
}

// Reload rebuilds sheets and attack bindings from prefabs and swaps them in.
// On error nothing changes.
func (s *Session) Reload() error {
	sheets, err := sprites.LoadLibrary()
	if err != nil {
		return err
	}
	registry, err := combat.LoadRegistry(sheets)
	if err != nil {
		return err
	}
	s.Sheets = sheets
	s.Dispatcher.SetRegistry(registry)
	s.reloads++
	log.Printf("session: reloaded %d attack bindings", registry.Len())
	return nil
}

// Reloads counts successful reloads.
func (s *Session) Reloads() int {
	if s == nil {
		return 0
	}
	return s.reloads
}

// Outcome summarises the arena.
type Outcome struct {
	Tick   uint64
	Alive  map[component.Team]int
	Winner component.Team
	// Decided is set once at most one team has units left.
	Decided bool
}

func (o Outcome) String() string {
	teams := make([]component.Team, 0, len(o.Alive))
	for t := range o.Alive {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i] < teams[j] })
	out := fmt.Sprintf("tick=%d", o.Tick)
	for _, t := range teams {
		out += fmt.Sprintf(" %s=%d", t, o.Alive[t])
	}
	if o.Decided {
		out += fmt.Sprintf(" winner=%s", o.Winner)
	}
	return out
}

func (s *Session) Outcome() Outcome {
	out := Outcome{Alive: map[component.Team]int{}}
	if s == nil || s.World == nil {
		return out
	}
	out.Tick = s.World.ECS().Tick()
	for _, e := range s.World.Units() {
		u, _ := s.World.Unit(e)
		out.Alive[u.Team]++
	}
	switch len(out.Alive) {
	case 0:
		out.Decided = true
	case 1:
		out.Decided = true
		for t := range out.Alive {
			out.Winner = t
		}
	}
	return out
}

func (s *Session) Close() error {
	if s == nil || s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}
