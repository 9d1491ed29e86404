package combat

import (
	"errors"
	"math"
	"testing"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

func spawn(w *World, name string, team component.Team, x, y float64) ecs.Entity {
	return w.SpawnUnit(UnitSpec{
		Name:     name,
		Team:     team,
		Position: common.Pt(x, y),
		Radius:   0.4,
		Health:   100,
	})
}

func effectCounts(w *World) map[ecs.Entity]int {
	out := map[ecs.Entity]int{}
	for _, e := range w.Units() {
		out[e] = len(ActiveEffects(w, e))
	}
	return out
}

func TestUnitTargetResolvesOnlyLiveUnits(t *testing.T) {
	w := NewWorld()
	u := spawn(w, "u", component.TeamEnemy, 1, 0)

	if got := (UnitTarget{Unit: u}).EffectedUnits(w); len(got) != 1 || got[0] != u {
		t.Fatalf("expected [%v], got %v", u, got)
	}

	w.Damage(u, 1000, 0)
	if got := (UnitTarget{Unit: u}).EffectedUnits(w); len(got) != 0 {
		t.Fatalf("dead unit still targeted: %v", got)
	}
	if _, ok := (UnitTarget{Unit: u}).Location(w); ok {
		t.Fatalf("expected no location for dead unit")
	}
}

func TestAreaTargetOrderAndIdempotence(t *testing.T) {
	w := NewWorld()
	far := spawn(w, "far", component.TeamEnemy, 3, 0)
	tieB := spawn(w, "tieB", component.TeamEnemy, 0, -2)
	tieA := spawn(w, "tieA", component.TeamEnemy, 0, 2)
	near := spawn(w, "near", component.TeamEnemy, 1, 0)
	ally := spawn(w, "ally", component.TeamPlayer, 0.5, 0)
	spawn(w, "outside", component.TeamEnemy, 10, 0)

	cases := []struct {
		name    string
		affects Affects
		want    []ecs.Entity
	}{
		{"enemies", AffectsEnemies, []ecs.Entity{near, tieB, tieA, far}},
		{"allies", AffectsAllies, []ecs.Entity{ally}},
		{"all", AffectsAll, []ecs.Entity{ally, near, tieB, tieA, far}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			target := AreaTarget{Centre: common.Pt(0, 0), Radius: 3, Team: component.TeamPlayer, Affects: c.affects}
			first := target.EffectedUnits(w)
			second := target.EffectedUnits(w)
			if !sameEntities(first, c.want) {
				t.Fatalf("expected %v, got %v", c.want, first)
			}
			if !sameEntities(first, second) {
				t.Fatalf("repeat query differs: %v vs %v", first, second)
			}
		})
	}
}

func TestAreaTargetEmpty(t *testing.T) {
	w := NewWorld()
	spawn(w, "u", component.TeamEnemy, 9, 9)
	got := AreaTarget{Centre: common.Pt(0, 0), Radius: 1}.EffectedUnits(w)
	if len(got) != 0 {
		t.Fatalf("expected empty area, got %v", got)
	}
}

func TestChainTargetJumpsNearestUnvisited(t *testing.T) {
	w := NewWorld()
	first := spawn(w, "first", component.TeamEnemy, 0, 0)
	second := spawn(w, "second", component.TeamEnemy, 2, 0)
	third := spawn(w, "third", component.TeamEnemy, 4, 0)
	spawn(w, "friend", component.TeamPlayer, 1, 0)
	spawn(w, "distant", component.TeamEnemy, 20, 0)

	cases := []struct {
		name  string
		jumps int
		want  []ecs.Entity
	}{
		{"no jumps", 0, []ecs.Entity{first}},
		{"one jump", 1, []ecs.Entity{first, second}},
		{"runs out", 5, []ecs.Entity{first, second, third}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			target := ChainTarget{First: first, Jumps: c.jumps, Range: 2.5, Team: component.TeamPlayer, Affects: AffectsEnemies}
			got := target.EffectedUnits(w)
			if !sameEntities(got, c.want) {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}

	w.Damage(first, 1000, 0)
	if got := (ChainTarget{First: first, Jumps: 2, Range: 3}).EffectedUnits(w); len(got) != 0 {
		t.Fatalf("chain from dead unit should be empty, got %v", got)
	}
}

func TestWorldDamageEmitsEvents(t *testing.T) {
	w := NewWorld()
	src := spawn(w, "src", component.TeamPlayer, 0, 0)
	u := spawn(w, "u", component.TeamEnemy, 1, 0)

	if w.Damage(u, 40, src) {
		t.Fatalf("40 damage should not kill")
	}
	if !w.Damage(u, 60, src) {
		t.Fatalf("expected kill")
	}
	if w.IsAlive(u) {
		t.Fatalf("dead unit reported alive")
	}
	if w.Damage(u, 10, src) {
		t.Fatalf("damaging a corpse should do nothing")
	}

	var types []string
	for _, evt := range w.ECS().Events().Drain() {
		types = append(types, evt.Type)
	}
	want := []string{EventUnitDamaged, EventUnitDamaged, EventUnitKilled, EventUnitLevelled}
	if len(types) != len(want) {
		t.Fatalf("expected events %v, got %v", want, types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("expected events %v, got %v", want, types)
		}
	}
}

func TestKillingBlowLevelsUpSource(t *testing.T) {
	w := NewWorld()
	src := spawn(w, "src", component.TeamPlayer, 0, 0)
	w.Damage(src, 50, 0)

	for i := 1; i <= 2; i++ {
		victim := spawn(w, "victim", component.TeamEnemy, 1, 0)
		if !w.Damage(victim, 1000, src) {
			t.Fatalf("expected kill %d", i)
		}
		u, _ := w.Unit(src)
		if u.Level != i {
			t.Fatalf("expected level %d, got %d", i, u.Level)
		}
		top := 100 * (1 + float64(i)/component.LevelDivisor)
		if math.Abs(u.MaxHealth-top) > 1e-9 || math.Abs(u.Health-top/2) > 1e-9 {
			t.Fatalf("level %d: expected %v/%v, got %v/%v", i, top/2, top, u.Health, u.MaxHealth)
		}
	}

	// No source, or a dead one, gains nothing.
	victim := spawn(w, "victim", component.TeamEnemy, 1, 0)
	w.Damage(victim, 1000, 0)
	gone := spawn(w, "gone", component.TeamEnemy, 2, 0)
	w.Destroy(gone)
	victim = spawn(w, "victim", component.TeamEnemy, 1, 0)
	w.Damage(victim, 1000, gone)
	if u, _ := w.Unit(src); u.Level != 2 {
		t.Fatalf("expected level to stay 2, got %d", u.Level)
	}
}

func TestUnitsWithinFollowsMovesAndRemovals(t *testing.T) {
	w := NewWorld()
	a := spawn(w, "a", component.TeamPlayer, 0, 0)
	b := spawn(w, "b", component.TeamEnemy, 5, 0)
	c := spawn(w, "c", component.TeamEnemy, 1, 0)

	if got := hitEntities(w.UnitsWithin(common.Pt(0, 0), 2)); !sameEntities(got, []ecs.Entity{a, c}) {
		t.Fatalf("expected [a c], got %v", got)
	}
	if !w.MoveUnit(b, common.Pt(0.5, 0)) {
		t.Fatalf("move failed")
	}
	if got := hitEntities(w.UnitsWithin(common.Pt(0, 0), 2)); !sameEntities(got, []ecs.Entity{a, b, c}) {
		t.Fatalf("expected [a b c] after move, got %v", got)
	}
	if got := hitEntities(w.UnitsWithin(common.Pt(5, 0), 1)); len(got) != 0 {
		t.Fatalf("old position still indexed: %v", got)
	}

	w.Destroy(a)
	w.Damage(c, 1000, 0)
	if got := hitEntities(w.UnitsWithin(common.Pt(0, 0), 2)); !sameEntities(got, []ecs.Entity{b}) {
		t.Fatalf("expected [b], got %v", got)
	}

	// Removal behind the world's back is noticed by the next query.
	ecs.DestroyEntity(w.ECS(), b)
	if got := w.UnitsWithin(common.Pt(0, 0), 2); len(got) != 0 {
		t.Fatalf("expected no hits, got %v", got)
	}
	if w.index.Len() != 1 {
		t.Fatalf("expected only the corpse indexed, got %d", w.index.Len())
	}
}

func TestTargetForAreaFallsBackToUnit(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "mage", component.TeamPlayer, 0, 0)
	victim := spawn(w, "grunt", component.TeamEnemy, 3, 0)
	area := &component.Attacker{Area: 2}

	if _, ok := TargetFor(w, owner, victim, area).(AreaTarget); !ok {
		t.Fatalf("expected an area target")
	}
	w.Destroy(victim)
	got := TargetFor(w, owner, victim, area)
	if ut, ok := got.(UnitTarget); !ok || ut.Unit != victim {
		t.Fatalf("expected unit target for a gone victim, got %#v", got)
	}
	if units := got.EffectedUnits(w); len(units) != 0 {
		t.Fatalf("gone victim still affected: %v", units)
	}
}

func hitEntities(hits []ecs.SpatialHit) []ecs.Entity {
	out := make([]ecs.Entity, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Entity)
	}
	return out
}

func TestAddProjectileRejectsDeadTarget(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "owner", component.TeamPlayer, 0, 0)
	target := spawn(w, "target", component.TeamEnemy, 5, 0)
	w.Destroy(target)

	_, err := w.AddProjectile(NewProjectile(ProjectileSpec{Owner: owner, Target: target, Speed: 1}))
	if !errors.Is(err, ErrStaleReference) {
		t.Fatalf("expected stale reference, got %v", err)
	}
	if n := len(w.Projectiles()); n != 0 {
		t.Fatalf("expected no projectiles, got %d", n)
	}
	alive := spawn(w, "alive", component.TeamEnemy, 3, 0)
	if _, err := w.AddProjectile(NewProjectile(ProjectileSpec{Owner: owner, Target: alive})); !errors.Is(err, ErrProjectileSpeed) {
		t.Fatalf("expected speed error, got %v", err)
	}
	if _, err := w.AddProjectile(nil); !errors.Is(err, ErrNilProjectile) {
		t.Fatalf("expected nil projectile error, got %v", err)
	}
}

func TestSpawnImpactLivesForItsFrames(t *testing.T) {
	w := NewWorld()
	frames := []component.Frame{{W: 1}, {W: 2}, {W: 3}}
	e := w.SpawnImpact(common.Pt(1, 1), common.Sz(2, 2), frames, 4)
	ttl, ok := ecs.Get(w.ECS(), e, component.TTLComponent.Kind())
	if !ok || ttl.Frames != 12 {
		t.Fatalf("expected ttl 12, got %+v %v", ttl, ok)
	}
	anim, ok := ecs.Get(w.ECS(), e, component.AnimationComponent.Kind())
	if !ok || len(anim.Frames) != 3 || anim.Loop {
		t.Fatalf("unexpected animation %+v", anim)
	}
}

func sameEntities(a, b []ecs.Entity) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
