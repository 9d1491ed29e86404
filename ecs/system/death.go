package system

import (
	"log"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// DeathSystem removes units whose health ran out. Handles held elsewhere
// stop resolving once the entity is gone.
type DeathSystem struct {
	// Verbose logs every removal.
	Verbose bool
}

func NewDeathSystem() *DeathSystem {
	return &DeathSystem{}
}

func (s *DeathSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, e := range ecs.Query(w, component.UnitComponent.Kind()) {
		u, ok := ecs.Get(w, e, component.UnitComponent.Kind())
		if !ok || !u.Dead() {
			continue
		}
		if s != nil && s.Verbose {
			log.Printf("death: %s %v removed at tick %d", u.Name, e, w.Tick())
		}
		ecs.DestroyEntity(w, e)
	}
}
