package system

import (
	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// ProjectileHit is the payload of combat.EventProjectileHit.
type ProjectileHit struct {
	Projectile ecs.Entity
	Owner      ecs.Entity
	Target     ecs.Entity
	Damage     float64
}

// ProjectileSystem flies projectiles toward their target's current centre
// and resolves the hit on contact. A projectile whose target is gone is
// removed without effect.
type ProjectileSystem struct {
	world *combat.World
}

func NewProjectileSystem(w *combat.World) *ProjectileSystem {
	return &ProjectileSystem{world: w}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if s == nil || s.world == nil {
		return
	}

	for _, e := range s.world.Projectiles() {
		p, ok := s.world.Projectile(e)
		if !ok {
			continue
		}
		if !s.world.IsAlive(p.Target) {
			s.world.Destroy(e)
			continue
		}

		dest, _ := s.world.Centre(p.Target)
		target, _ := s.world.Unit(p.Target)
		next, arrived := p.Position.MoveToward(dest, p.Speed)
		p.Position = next
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = next
		}
		if !arrived && next.DistanceTo(dest) > target.Radius+p.Reach() {
			continue
		}

		damage := 0.0
		if p.Attack != nil {
			damage = s.world.OutgoingDamage(p.Owner, p.Attack.Damage)
		}
		s.world.Damage(p.Target, damage, p.Owner)
		if len(p.Impact) > 0 {
			s.world.SpawnImpact(dest, p.ImpactSize, p.Impact, p.TicksPer)
		}
		w.Events().Push(ecs.Event{Type: combat.EventProjectileHit, Data: ProjectileHit{
			Projectile: e,
			Owner:      p.Owner,
			Target:     p.Target,
			Damage:     damage,
		}})
		s.world.Destroy(e)
	}
}
