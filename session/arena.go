package session

import (
	"fmt"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
)

// SpawnArena places every unit of spec into w and returns them in spec
// order.
func SpawnArena(w *combat.World, spec *prefabs.ArenaSpec) ([]ecs.Entity, error) {
	if w == nil || spec == nil {
		return nil, fmt.Errorf("session: nil world or arena")
	}
	out := make([]ecs.Entity, 0, len(spec.Units))
	for i, us := range spec.Units {
		team, err := component.ParseTeam(us.Team)
		if err != nil {
			return nil, fmt.Errorf("session: arena %s unit %d: %w", spec.Name, i, err)
		}
		e := w.SpawnUnit(combat.UnitSpec{
			Name:     us.Name,
			Team:     team,
			Position: common.Pt(us.X, us.Y),
			Radius:   us.Radius,
			Health:   us.Health,
			Speed:    us.Speed,
		})
		if us.Attack != nil {
			a, err := attackerFromSpec(us.Attack)
			if err != nil {
				return nil, fmt.Errorf("session: arena %s unit %s: %w", spec.Name, us.Name, err)
			}
			if err := ecs.Add(w.ECS(), e, component.AttackerComponent.Kind(), a); err != nil {
				return nil, err
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func attackerFromSpec(as *prefabs.AttackerSpec) (*component.Attacker, error) {
	if as.Type == "" {
		return nil, fmt.Errorf("attack without type")
	}
	a := &component.Attacker{
		AttackType: as.Type,
		Damage:     as.Damage,
		Range:      as.Range,
		Cooldown:   as.Cooldown,
		Area:       as.Area,
		Chain:      as.Chain,
		Friendly:   as.Friendly,
	}
	if as.Effect != nil {
		if _, err := combat.ParseStat(as.Effect.Stat); err != nil {
			return nil, err
		}
		a.EffectName = as.Effect.Name
		a.EffectStat = as.Effect.Stat
		a.EffectAdd = as.Effect.Add
		a.EffectScale = as.Effect.Scale
		a.EffectDuration = as.Effect.Duration
	}
	return a, nil
}
