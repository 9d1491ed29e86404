package combat

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Event types pushed on the world event queue.
const (
	EventUnitDamaged   = "unit_damaged"
	EventUnitKilled    = "unit_killed"
	EventProjectileHit = "projectile_hit"
	EventEffectAdded   = "effect_added"
	EventEffectExpired = "effect_expired"
	EventUnitHealed    = "unit_healed"
	EventUnitLevelled  = "unit_levelled"
)

// DamageEvent is the payload of EventUnitDamaged and EventUnitKilled.
type DamageEvent struct {
	Unit   ecs.Entity
	Source ecs.Entity
	Amount float64
}

// HealEvent is the payload of EventUnitHealed.
type HealEvent struct {
	Unit   ecs.Entity
	Amount float64
}

// LevelEvent is the payload of EventUnitLevelled.
type LevelEvent struct {
	Unit  ecs.Entity
	Level int
}

// EffectEvent is the payload of EventEffectAdded and EventEffectExpired.
type EffectEvent struct {
	Unit   ecs.Entity
	Effect string
}

// World is one session's simulation state: units, projectiles, impacts, and
// the spatial queries over them. It is not safe for concurrent use; the tick
// loop owns it.
type World struct {
	ecs *ecs.World
	// index holds one hit circle per spawned unit. SpawnUnit, MoveUnit and
	// Destroy keep it current.
	index *ecs.SpatialIndex
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{ecs: ecs.NewWorld(), index: ecs.NewSpatialIndex()}
}

// ECS exposes the underlying storage to systems.
func (w *World) ECS() *ecs.World {
	if w == nil {
		return nil
	}
	return w.ecs
}

// Tick runs one simulation pass.
func (w *World) Tick() {
	if w == nil {
		return
	}
	w.ecs.Update()
}

// UnitSpec describes a unit to spawn.
type UnitSpec struct {
	Name     string
	Team     component.Team
	Position common.Point
	Radius   float64
	Health   float64
	Speed    float64
}

// SpawnUnit adds a unit with an empty effect list.
func (w *World) SpawnUnit(spec UnitSpec) ecs.Entity {
	e := ecs.CreateEntity(w.ecs)
	radius := spec.Radius
	if radius <= 0 {
		radius = 0.5
	}
	health := spec.Health
	if health <= 0 {
		health = 1
	}
	_ = ecs.Add(w.ecs, e, component.TransformComponent.Kind(), &component.Transform{
		Position: spec.Position,
		Size:     common.Sz(radius*2, radius*2),
	})
	_ = ecs.Add(w.ecs, e, component.UnitComponent.Kind(), &component.Unit{
		Name:       spec.Name,
		Team:       spec.Team,
		Health:     health,
		MaxHealth:  health,
		BaseHealth: health,
		Radius:     radius,
		Speed:      spec.Speed,
	})
	_ = ecs.Add(w.ecs, e, EffectsComponent.Kind(), &Effects{})
	w.index.Insert(e, spec.Position, radius)
	return e
}

// MoveUnit places a live unit at p.
func (w *World) MoveUnit(e ecs.Entity, p common.Point) bool {
	u, ok := w.Unit(e)
	if !ok {
		return false
	}
	t, ok := ecs.Get(w.ecs, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	t.Position = p
	w.index.Insert(e, p, u.Radius)
	return true
}

// Destroy removes any entity. It reports false for handles that were
// already gone.
func (w *World) Destroy(e ecs.Entity) bool {
	if w == nil {
		return false
	}
	w.index.Remove(e)
	return ecs.DestroyEntity(w.ecs, e)
}

// IsAlive resolves a weak handle. Units count as alive only while they have
// health left.
func (w *World) IsAlive(e ecs.Entity) bool {
	if w == nil || !ecs.IsAlive(w.ecs, e) {
		return false
	}
	if u, ok := ecs.Get(w.ecs, e, component.UnitComponent.Kind()); ok {
		return !u.Dead()
	}
	return true
}

// Unit returns the unit data of a live unit.
func (w *World) Unit(e ecs.Entity) (*component.Unit, bool) {
	if !w.IsAlive(e) {
		return nil, false
	}
	return ecs.Get(w.ecs, e, component.UnitComponent.Kind())
}

// Centre returns the centre of a live entity.
func (w *World) Centre(e ecs.Entity) (common.Point, bool) {
	if !w.IsAlive(e) {
		return common.Point{}, false
	}
	t, ok := ecs.Get(w.ecs, e, component.TransformComponent.Kind())
	if !ok {
		return common.Point{}, false
	}
	return t.Position, true
}

// Units returns every live unit ordered by handle.
func (w *World) Units() []ecs.Entity {
	if w == nil {
		return nil
	}
	all := ecs.Query2(w.ecs, component.UnitComponent.Kind(), component.TransformComponent.Kind())
	out := all[:0]
	for _, e := range all {
		if w.IsAlive(e) {
			out = append(out, e)
		}
	}
	return out
}

// UnitsWithin returns live units whose hit circle overlaps the circle at
// centre, nearest first, ties by handle. Entries for units destroyed
// outside Destroy are dropped from the index here.
func (w *World) UnitsWithin(centre common.Point, radius float64) []ecs.SpatialHit {
	if w == nil {
		return nil
	}
	hits := w.index.QueryCircle(centre, radius)
	out := hits[:0]
	var gone []ecs.Entity
	for _, hit := range hits {
		switch {
		case !ecs.IsAlive(w.ecs, hit.Entity):
			gone = append(gone, hit.Entity)
		case w.IsAlive(hit.Entity):
			out = append(out, hit)
		}
	}
	for _, e := range gone {
		w.index.Remove(e)
	}
	return out
}

// Heal restores health to a live unit and reports the amount gained.
func (w *World) Heal(unit ecs.Entity, amount float64) float64 {
	u, ok := w.Unit(unit)
	if !ok {
		return 0
	}
	gained := u.Heal(amount)
	if gained > 0 {
		w.ecs.Events().Push(ecs.Event{Type: EventUnitHealed, Data: HealEvent{Unit: unit, Amount: gained}})
	}
	return gained
}

// Damage lowers a unit's health and reports whether it died. A live source
// that lands the killing blow goes up a level.
func (w *World) Damage(unit ecs.Entity, amount float64, source ecs.Entity) bool {
	u, ok := w.Unit(unit)
	if !ok || amount <= 0 {
		return false
	}
	killed := u.TakeDamage(amount)
	evt := DamageEvent{Unit: unit, Source: source, Amount: amount}
	w.ecs.Events().Push(ecs.Event{Type: EventUnitDamaged, Data: evt})
	if killed {
		w.ecs.Events().Push(ecs.Event{Type: EventUnitKilled, Data: evt})
		w.levelUp(source)
	}
	return killed
}

// levelUp rewards the unit that landed a killing blow.
func (w *World) levelUp(unit ecs.Entity) {
	u, ok := w.Unit(unit)
	if !ok {
		return
	}
	u.LevelUp()
	w.ecs.Events().Push(ecs.Event{Type: EventUnitLevelled, Data: LevelEvent{Unit: unit, Level: u.Level}})
}

// OutgoingDamage scales base by the owner's damage effects. A vanished
// owner deals the base amount.
func (w *World) OutgoingDamage(owner ecs.Entity, base float64) float64 {
	if !w.IsAlive(owner) {
		return base
	}
	return ModifiedStat(w, owner, StatDamage, base)
}

// SpawnImpact places a one-shot animation at centre that removes itself
// once every frame has played.
func (w *World) SpawnImpact(centre common.Point, size common.Size, frames []component.Frame, ticksPer int) ecs.Entity {
	if ticksPer < 1 {
		ticksPer = 1
	}
	e := ecs.CreateEntity(w.ecs)
	_ = ecs.Add(w.ecs, e, component.TransformComponent.Kind(), &component.Transform{Position: centre, Size: size})
	_ = ecs.Add(w.ecs, e, component.AnimationComponent.Kind(), &component.Animation{
		Frames:   append([]component.Frame(nil), frames...),
		TicksPer: ticksPer,
		Playing:  len(frames) > 0,
	})
	life := len(frames) * ticksPer
	if life < 1 {
		life = 1
	}
	_ = ecs.Add(w.ecs, e, component.TTLComponent.Kind(), &component.TTL{Frames: life})
	return e
}
