package system

import (
	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
)

// EffectSystem ages every active effect by one tick and drops expired ones.
type EffectSystem struct {
	world *combat.World
}

func NewEffectSystem(w *combat.World) *EffectSystem {
	return &EffectSystem{world: w}
}

func (s *EffectSystem) Update(_ *ecs.World) {
	if s == nil {
		return
	}
	combat.TickEffects(s.world, 1)
}
