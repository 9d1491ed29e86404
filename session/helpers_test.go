package session

import (
	"testing"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

func attackerOf(t *testing.T, w *combat.World, e ecs.Entity) *component.Attacker {
	t.Helper()
	a, ok := ecs.Get(w.ECS(), e, component.AttackerComponent.Kind())
	if !ok {
		t.Fatalf("%v has no attacker", e)
	}
	return a
}
