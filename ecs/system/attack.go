package system

import (
	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// DefaultSight is how far an attacker looks for something to attack.
const DefaultSight = 64.0

// AttackSystem counts attacker cooldowns down, walks attackers into range of
// the nearest eligible unit and dispatches their attack when ready.
type AttackSystem struct {
	world      *combat.World
	dispatcher *combat.Dispatcher
	Sight      float64
}

func NewAttackSystem(w *combat.World, d *combat.Dispatcher) *AttackSystem {
	return &AttackSystem{world: w, dispatcher: d, Sight: DefaultSight}
}

func (s *AttackSystem) Update(w *ecs.World) {
	if s == nil || s.world == nil || s.dispatcher == nil {
		return
	}

	for _, e := range ecs.Query(w, component.AttackerComponent.Kind()) {
		if !s.world.IsAlive(e) {
			continue
		}
		a, _ := ecs.Get(w, e, component.AttackerComponent.Kind())
		if a.Timer > 0 {
			a.Timer--
		}

		victim, ok := s.pick(e, a)
		if !ok {
			continue
		}
		s.face(e, victim)
		if !s.inRange(e, victim, a) {
			s.approach(e, victim)
			continue
		}
		if a.Timer > 0 {
			continue
		}

		_ = s.dispatcher.Dispatch(e, combat.TargetFor(s.world, e, victim, a), combat.AttackFrom(a))
		a.Timer = a.Cooldown
	}
}

// pick returns the nearest unit the attacker may target, ties by handle.
// Friendly attackers fall back to themselves when they are alone.
func (s *AttackSystem) pick(e ecs.Entity, a *component.Attacker) (ecs.Entity, bool) {
	self, ok := s.world.Unit(e)
	if !ok {
		return 0, false
	}
	centre, _ := s.world.Centre(e)
	for _, hit := range s.world.UnitsWithin(centre, s.Sight) {
		if hit.Entity == e {
			continue
		}
		other, ok := s.world.Unit(hit.Entity)
		if !ok {
			continue
		}
		if a.Friendly && other.Team == self.Team {
			return hit.Entity, true
		}
		if !a.Friendly && self.Team.CanAttack(other.Team) {
			return hit.Entity, true
		}
	}
	if a.Friendly {
		return e, true
	}
	return 0, false
}

func (s *AttackSystem) inRange(e, victim ecs.Entity, a *component.Attacker) bool {
	if e == victim {
		return true
	}
	from, _ := s.world.Centre(e)
	to, _ := s.world.Centre(victim)
	u, _ := s.world.Unit(victim)
	reach := combat.ModifiedStat(s.world, e, combat.StatRange, a.Range)
	return from.DistanceTo(to)-u.Radius <= reach
}

func (s *AttackSystem) approach(e, victim ecs.Entity) {
	u, _ := s.world.Unit(e)
	speed := combat.ModifiedStat(s.world, e, combat.StatSpeed, u.Speed)
	if speed <= 0 {
		return
	}
	from, _ := s.world.Centre(e)
	dest, _ := s.world.Centre(victim)
	next, _ := from.MoveToward(dest, speed)
	s.world.MoveUnit(e, next)
}

// face turns the attacker toward victim. Self-targeted attacks keep the
// current facing.
func (s *AttackSystem) face(e, victim ecs.Entity) {
	if e == victim {
		return
	}
	u, ok := s.world.Unit(e)
	if !ok {
		return
	}
	from, _ := s.world.Centre(e)
	to, _ := s.world.Centre(victim)
	u.Facing = common.Between(from, to)
}
