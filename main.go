package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/skirmish/session"
)

func main() {
	arena := flag.String("arena", "", "arena prefab in prefabs/ (default arena.yaml)")
	debug := flag.Bool("debug", false, "draw names, effect counts and projectile paths")
	watch := flag.Bool("watch", true, "reload attack bindings and scripts when prefabs/ changes")
	verbose := flag.Bool("v", false, "log every event")
	flag.Parse()

	s, err := session.New(session.Options{Arena: *arena, Watch: *watch, Verbose: *verbose})
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("skirmish - " + s.Arena.Name)

	if err := ebiten.RunGame(NewGame(s, *debug)); err != nil {
		log.Fatal(err)
	}
}
