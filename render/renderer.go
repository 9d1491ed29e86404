package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"golang.org/x/image/colornames"
)

// DefaultScale is pixels per map unit.
const DefaultScale = 48.0

// Renderer draws a combat world. Sprites are drawn from their sheets when
// the image is available and as plain shapes otherwise.
type Renderer struct {
	Scale float64
	Debug bool
}

func NewRenderer() *Renderer {
	return &Renderer{Scale: DefaultScale}
}

// ToScreen maps a map point to pixels.
func (r *Renderer) ToScreen(p common.Point) (float32, float32) {
	return float32(p.X * r.scale()), float32(p.Y * r.scale())
}

func (r *Renderer) scale() float64 {
	if r == nil || r.Scale <= 0 {
		return DefaultScale
	}
	return r.Scale
}

func (r *Renderer) Draw(screen *ebiten.Image, w *combat.World) {
	if r == nil || screen == nil || w == nil {
		return
	}
	screen.Fill(colornames.Darkslategray)

	for _, e := range w.Units() {
		r.drawUnit(screen, w, e)
	}

	ew := w.ECS()
	ecs.ForEach2(ew, component.AnimationComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, anim *component.Animation, t *component.Transform) {
		if _, isProjectile := w.Projectile(e); isProjectile {
			return
		}
		if !r.drawFrame(screen, anim, t) {
			x, y := r.ToScreen(t.Position)
			radius := float32(max(t.Size.W, t.Size.H) / 2 * r.scale())
			vector.StrokeCircle(screen, x, y, radius, 2, colornames.Gold, true)
		}
	})

	for _, e := range w.Projectiles() {
		p, _ := w.Projectile(e)
		t, ok := ecs.Get(ew, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		anim, _ := ecs.Get(ew, e, component.AnimationComponent.Kind())
		if !r.drawFrame(screen, anim, t) {
			x, y := r.ToScreen(p.Position)
			vector.DrawFilledCircle(screen, x, y, float32(max(p.Size.W, 0.2)/2*r.scale()), colornames.White, true)
		}
		if r.Debug {
			if dest, ok := w.Centre(p.Target); ok {
				x0, y0 := r.ToScreen(p.Position)
				x1, y1 := r.ToScreen(dest)
				vector.StrokeLine(screen, x0, y0, x1, y1, 1, colornames.Lightgrey, true)
			}
		}
	}
}

func (r *Renderer) drawUnit(screen *ebiten.Image, w *combat.World, e ecs.Entity) {
	u, ok := w.Unit(e)
	if !ok {
		return
	}
	c, _ := w.Centre(e)
	x, y := r.ToScreen(c)
	radius := float32(u.Radius * r.scale())
	vector.DrawFilledCircle(screen, x, y, radius, TeamColor(u.Team), true)
	dir := u.Facing.Vector()
	vector.StrokeLine(screen, x, y, x+float32(dir.X)*radius, y+float32(dir.Y)*radius, 2, colornames.White, true)

	effects := combat.ActiveEffects(w, e)
	if len(effects) > 0 {
		vector.StrokeCircle(screen, x, y, radius+3, 2, colornames.Gold, true)
	}

	barW := radius * 2
	frac := float32(0)
	if u.MaxHealth > 0 {
		frac = float32(u.Health / u.MaxHealth)
	}
	vector.DrawFilledRect(screen, x-radius, y-radius-8, barW, 4, colornames.Black, false)
	vector.DrawFilledRect(screen, x-radius, y-radius-8, barW*frac, 4, colornames.Limegreen, false)

	if r.Debug {
		label := fmt.Sprintf("%s L%d", u.Name, u.Level)
		if len(effects) > 0 {
			label = fmt.Sprintf("%s +%d", label, len(effects))
		}
		ebitenutil.DebugPrintAt(screen, label, int(x-radius), int(y+radius+2))
	}
}

// drawFrame draws the current animation frame over t. It reports false when
// there is nothing to draw from.
func (r *Renderer) drawFrame(screen *ebiten.Image, anim *component.Animation, t *component.Transform) bool {
	frame, ok := anim.Current()
	if !ok || frame.Image == "" {
		return false
	}
	sheet, err := LoadImage(frame.Image)
	if err != nil {
		return false
	}
	sub, ok := sheet.SubImage(FrameRect(frame)).(*ebiten.Image)
	if !ok || frame.W <= 0 || frame.H <= 0 {
		return false
	}

	rect := t.Rect()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(rect.Width*r.scale()/float64(frame.W), rect.Height*r.scale()/float64(frame.H))
	op.GeoM.Translate(rect.X*r.scale(), rect.Y*r.scale())
	screen.DrawImage(sub, op)
	return true
}

// FrameRect is the source rectangle of frame on its sheet.
func FrameRect(f component.Frame) image.Rectangle {
	return image.Rect(f.X, f.Y, f.X+f.W, f.Y+f.H)
}

// TeamColor is the fill used for a team's units.
func TeamColor(t component.Team) color.Color {
	switch t {
	case component.TeamPlayer:
		return colornames.Cornflowerblue
	case component.TeamEnemy:
		return colornames.Crimson
	}
	return colornames.Lightgrey
}
