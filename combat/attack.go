package combat

import (
	"fmt"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// AttackType is the key routines are registered under.
type AttackType string

// EffectSpec is the effect payload an attack carries. Attacks without a
// stat make effects that change nothing but still occupy a slot for their
// duration.
type EffectSpec struct {
	Name     string
	Stat     Stat
	Add      float64
	Scale    float64
	Duration int
}

// Attack describes one resolution. It is not modified while a routine runs.
type Attack struct {
	Type   AttackType
	Damage float64
	Effect EffectSpec
}

func (a *Attack) String() string {
	if a == nil {
		return "attack(nil)"
	}
	return fmt.Sprintf("attack(%s dmg=%g)", a.Type, a.Damage)
}

// MakeEffect builds a fresh, unbound effect from the attack payload. Each
// call returns a new value so the same attack can affect several units.
func (a *Attack) MakeEffect(target Target, w *World) Effect {
	if a == nil {
		return nil
	}
	spec := a.Effect
	if spec.Name == "" {
		spec.Name = string(a.Type)
	}
	if spec.Stat == StatHealth {
		return NewHeal(spec)
	}
	return NewStatModifier(spec)
}

// AttackFrom builds the attack an attacker component resolves.
func AttackFrom(a *component.Attacker) *Attack {
	if a == nil {
		return nil
	}
	return &Attack{
		Type:   AttackType(a.AttackType),
		Damage: a.Damage,
		Effect: EffectSpec{
			Name:     a.EffectName,
			Stat:     Stat(a.EffectStat),
			Add:      a.EffectAdd,
			Scale:    a.EffectScale,
			Duration: a.EffectDuration,
		},
	}
}

// TargetFor describes what an attacker hits when it picks victim: a splash
// around the victim, a chain starting at it, or the victim alone.
func TargetFor(w *World, owner, victim ecs.Entity, a *component.Attacker) Target {
	if a == nil {
		return UnitTarget{Unit: victim}
	}
	team := component.TeamNeutral
	if u, ok := w.Unit(owner); ok {
		team = u.Team
	}
	affects := AffectsEnemies
	if a.Friendly {
		affects = AffectsAllies
	}
	switch {
	case a.Area > 0:
		centre, ok := w.Centre(victim)
		if !ok {
			return UnitTarget{Unit: victim}
		}
		return AreaTarget{Centre: centre, Radius: a.Area, Team: team, Affects: affects}
	case a.Chain > 0:
		return ChainTarget{First: victim, Jumps: a.Chain, Range: a.Range, Team: team, Affects: affects}
	}
	return UnitTarget{Unit: victim}
}
