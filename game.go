package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/skirmish/render"
	"github.com/milk9111/skirmish/session"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	session  *session.Session
	renderer *render.Renderer
	paused   bool
}

func NewGame(s *session.Session, debug bool) *Game {
	r := render.NewRenderer()
	r.Debug = debug
	if s.Arena != nil && s.Arena.Width > 0 && s.Arena.Height > 0 {
		r.Scale = min(baseWidth/s.Arena.Width, baseHeight/s.Arena.Height)
	}
	return &Game{session: s, renderer: r}
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.renderer.Debug = !g.renderer.Debug
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.session.Reload(); err != nil {
			log.Printf("reload: %v", err)
		}
	}
	if g.paused && !inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		return nil
	}
	return g.session.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.session.World)

	out := g.session.Outcome()
	stats := g.session.Dispatcher.Stats()
	status := fmt.Sprintf("%s  FPS: %.1f\ndispatched=%d unbound=%d stale=%d failed=%d",
		out, ebiten.ActualFPS(), stats.Dispatched, stats.Unbound, stats.Stale, stats.Failed)
	if g.paused {
		status += "\nPAUSED (space to resume, . to step)"
	}
	if g.renderer.Debug {
		for _, d := range g.session.Diagnostics() {
			status += "\n" + d.String()
		}
	}
	ebitenutil.DebugPrint(screen, status)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
