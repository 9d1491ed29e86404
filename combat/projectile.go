package combat

import (
	"errors"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

var (
	ErrNilProjectile = errors.New("combat: nil projectile")
	// ErrProjectileSpeed means a projectile would never reach its target.
	ErrProjectileSpeed = errors.New("combat: projectile speed must be positive")
)

// SheetLookup resolves named frame sequences for a facing.
type SheetLookup interface {
	FramesFor(sheet, sequence string, d common.Direction) ([]component.Frame, bool)
	TicksPerFrame(sheet, sequence string) int
}

// ProjectileSpec is everything needed to build a projectile.
type ProjectileSpec struct {
	Origin     common.Point
	Size       common.Size
	Owner      ecs.Entity
	Target     ecs.Entity
	Attack     *Attack
	Flight     []component.Frame
	Impact     []component.Frame
	ImpactSize common.Size
	TicksPer   int
	Hitbox     common.Size
	Speed      float64
	Facing     common.Direction
}

// Projectile flies toward Target and delivers Attack on contact. Owner and
// Target are weak handles; either may vanish while it is in flight.
type Projectile struct {
	Position   common.Point
	Size       common.Size
	Owner      ecs.Entity
	Target     ecs.Entity
	Attack     *Attack
	Flight     []component.Frame
	Impact     []component.Frame
	ImpactSize common.Size
	TicksPer   int
	Hitbox     common.Size
	Speed      float64
	Facing     common.Direction
}

var ProjectileComponent = component.NewComponent[Projectile]()

// NewProjectile builds a projectile. Nothing is added to any world.
func NewProjectile(spec ProjectileSpec) *Projectile {
	ticks := spec.TicksPer
	if ticks < 1 {
		ticks = 1
	}
	impactSize := spec.ImpactSize
	if impactSize.W <= 0 || impactSize.H <= 0 {
		impactSize = spec.Size
	}
	return &Projectile{
		Position:   spec.Origin,
		Size:       spec.Size,
		Owner:      spec.Owner,
		Target:     spec.Target,
		Attack:     spec.Attack,
		Flight:     append([]component.Frame(nil), spec.Flight...),
		Impact:     append([]component.Frame(nil), spec.Impact...),
		ImpactSize: impactSize,
		TicksPer:   ticks,
		Hitbox:     spec.Hitbox,
		Speed:      spec.Speed,
		Facing:     spec.Facing,
	}
}

// Reach is how close the projectile centre has to get to the target hit
// circle to count as a hit.
func (p *Projectile) Reach() float64 {
	if p == nil {
		return 0
	}
	return max(p.Hitbox.W, p.Hitbox.H) / 2
}

// AddProjectile registers p as a new entity. Nothing is spawned when the
// target is no longer alive or p cannot move.
func (w *World) AddProjectile(p *Projectile) (ecs.Entity, error) {
	if p == nil {
		return 0, ErrNilProjectile
	}
	if p.Speed <= 0 {
		return 0, ErrProjectileSpeed
	}
	if !w.IsAlive(p.Target) {
		return 0, stale("add projectile at %v", p.Target)
	}
	e := ecs.CreateEntity(w.ecs)
	_ = ecs.Add(w.ecs, e, component.TransformComponent.Kind(), &component.Transform{Position: p.Position, Size: p.Size})
	_ = ecs.Add(w.ecs, e, ProjectileComponent.Kind(), p)
	_ = ecs.Add(w.ecs, e, component.AnimationComponent.Kind(), &component.Animation{
		Frames:   p.Flight,
		TicksPer: p.TicksPer,
		Loop:     true,
		Playing:  len(p.Flight) > 0,
	})
	return e, nil
}

// Projectiles returns every projectile in flight ordered by handle.
func (w *World) Projectiles() []ecs.Entity {
	if w == nil {
		return nil
	}
	return ecs.Query(w.ecs, ProjectileComponent.Kind())
}

// Projectile returns the projectile stored on e.
func (w *World) Projectile(e ecs.Entity) (*Projectile, bool) {
	if w == nil {
		return nil, false
	}
	return ecs.Get(w.ecs, e, ProjectileComponent.Kind())
}
