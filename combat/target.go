package combat

import (
	"fmt"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Target describes who an attack is aimed at. EffectedUnits is evaluated
// against the live world on every call; two calls on an unchanged world
// return the same units in the same order.
type Target interface {
	EffectedUnits(w *World) []ecs.Entity
	// Location is the point the target is anchored at. It reports false
	// when the anchor unit is gone.
	Location(w *World) (common.Point, bool)
}

// Affects filters units relative to a team.
type Affects int

const (
	AffectsAll Affects = iota
	AffectsEnemies
	AffectsAllies
)

func (a Affects) String() string {
	switch a {
	case AffectsEnemies:
		return "enemies"
	case AffectsAllies:
		return "allies"
	case AffectsAll:
		return "all"
	}
	return fmt.Sprintf("affects(%d)", int(a))
}

func (a Affects) accepts(team, other component.Team) bool {
	switch a {
	case AffectsEnemies:
		return team.CanAttack(other)
	case AffectsAllies:
		return team == other
	}
	return true
}

// UnitTarget aims at a single unit.
type UnitTarget struct {
	Unit ecs.Entity
}

func (t UnitTarget) EffectedUnits(w *World) []ecs.Entity {
	if !w.IsAlive(t.Unit) {
		return nil
	}
	return []ecs.Entity{t.Unit}
}

func (t UnitTarget) Location(w *World) (common.Point, bool) {
	return w.Centre(t.Unit)
}

// AreaTarget hits every unit whose hit circle overlaps the circle at
// Centre, nearest first.
type AreaTarget struct {
	Centre  common.Point
	Radius  float64
	Team    component.Team
	Affects Affects
}

func (t AreaTarget) EffectedUnits(w *World) []ecs.Entity {
	var out []ecs.Entity
	for _, hit := range w.UnitsWithin(t.Centre, t.Radius) {
		if t.keep(w, hit.Entity) {
			out = append(out, hit.Entity)
		}
	}
	return out
}

func (t AreaTarget) Location(w *World) (common.Point, bool) {
	return t.Centre, true
}

func (t AreaTarget) keep(w *World, e ecs.Entity) bool {
	u, ok := w.Unit(e)
	return ok && t.Affects.accepts(t.Team, u.Team)
}

// ChainTarget starts at First and jumps up to Jumps times to the nearest
// unvisited unit within Range of the previous link.
type ChainTarget struct {
	First   ecs.Entity
	Jumps   int
	Range   float64
	Team    component.Team
	Affects Affects
}

func (t ChainTarget) EffectedUnits(w *World) []ecs.Entity {
	if !w.IsAlive(t.First) {
		return nil
	}
	out := []ecs.Entity{t.First}
	visited := map[ecs.Entity]bool{t.First: true}
	prev := t.First
	for jump := 0; jump < t.Jumps; jump++ {
		centre, ok := w.Centre(prev)
		if !ok {
			break
		}
		next, found := ecs.Entity(0), false
		for _, hit := range w.UnitsWithin(centre, t.Range) {
			if visited[hit.Entity] {
				continue
			}
			u, ok := w.Unit(hit.Entity)
			if !ok || !t.Affects.accepts(t.Team, u.Team) {
				continue
			}
			next, found = hit.Entity, true
			break
		}
		if !found {
			break
		}
		visited[next] = true
		out = append(out, next)
		prev = next
	}
	return out
}

func (t ChainTarget) Location(w *World) (common.Point, bool) {
	return w.Centre(t.First)
}
