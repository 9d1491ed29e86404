package combat

import (
	"errors"
	"testing"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/sprites"
)

type recorder struct {
	diags []Diagnostic
}

func (r *recorder) Report(d Diagnostic) {
	r.diags = append(r.diags, d)
}

func testSheets(t *testing.T) *sprites.Library {
	t.Helper()
	lib, err := sprites.FromSpec(&prefabs.SheetsSpec{Sheets: []prefabs.SheetSpec{
		{
			Name:   "missile",
			Image:  "missile.png",
			FrameW: 16,
			FrameH: 16,
			Sequences: []prefabs.SequenceSpec{
				{Name: "fly", Count: 2, TicksPerFrame: 3, Directional: true},
				{Name: "pop", Row: 4, Count: 3, Directional: true},
			},
		},
	}})
	if err != nil {
		t.Fatalf("sheets: %v", err)
	}
	return lib
}

func testRegistry(t *testing.T, lib SheetLookup) *Registry {
	t.Helper()
	reg := NewRegistry()
	must := func(err error) {
		if err != nil {
			t.Fatal(err)
		}
	}
	must(reg.Register("buff", BuffRoutine{}))
	must(reg.Register("missile", ProjectileRoutine{
		Sheets: lib,
		Sheet:  "missile",
		Flight: "fly",
		Impact: "pop",
		Size:   common.Sz(0.5, 0.5),
		Hitbox: common.Sz(0.5, 0.5),
		Speed:  0.25,
	}))
	must(reg.Register("strike", StrikeRoutine{Sheets: lib, Sheet: "missile", Impact: "pop", ImpactSize: common.Sz(2, 2)}))
	return reg
}

func buffAttack() *Attack {
	return &Attack{Type: "buff", Effect: EffectSpec{Name: "blessing", Stat: StatDamage, Scale: 2, Duration: 10}}
}

func TestBuffAddsOneEffectToTarget(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "priest", component.TeamPlayer, 0, 0)
	u := spawn(w, "archer", component.TeamPlayer, 1, 0)
	d := NewDispatcher(w, testRegistry(t, nil), nil)
	d.Quiet = true

	before := len(ActiveEffects(w, u))
	if err := d.Dispatch(owner, UnitTarget{Unit: u}, buffAttack()); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	effects := ActiveEffects(w, u)
	if len(effects) != before+1 {
		t.Fatalf("expected %d effects, got %d", before+1, len(effects))
	}
	if effects[0].Holder() != u || effects[0].Name() != "blessing" {
		t.Fatalf("unexpected effect %v", effects[0])
	}
	if len(ActiveEffects(w, owner)) != 0 {
		t.Fatalf("owner should be untouched")
	}
	if got := ModifiedStat(w, u, StatDamage, 10); got != 20 {
		t.Fatalf("expected damage 20, got %v", got)
	}
}

func TestInstantBuffIsAttachedUntilNextTick(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "priest", component.TeamPlayer, 0, 0)
	u := spawn(w, "archer", component.TeamPlayer, 1, 0)
	d := NewDispatcher(w, testRegistry(t, nil), nil)
	d.Quiet = true

	before := len(ActiveEffects(w, u))
	if err := d.Dispatch(owner, UnitTarget{Unit: u}, &Attack{Type: "buff"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got := len(ActiveEffects(w, u)); got != before+1 {
		t.Fatalf("expected %d effects, got %d", before+1, got)
	}
	TickEffects(w, 1)
	if got := len(ActiveEffects(w, u)); got != before {
		t.Fatalf("expected %d effects after a tick, got %d", before, got)
	}
}

func TestEmptyTargetChangesNothing(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "priest", component.TeamPlayer, 0, 0)
	spawn(w, "archer", component.TeamPlayer, 9, 0)
	rec := &recorder{}
	d := NewDispatcher(w, testRegistry(t, testSheets(t)), rec)
	d.Quiet = true

	before := effectCounts(w)
	entities := len(ecs.Entities(w.ECS()))
	empty := AreaTarget{Centre: common.Pt(50, 50), Radius: 1}

	for _, typ := range []AttackType{"buff", "missile", "strike"} {
		if err := d.Dispatch(owner, empty, &Attack{Type: typ, Damage: 10}); err != nil {
			t.Fatalf("%s: empty target should not fail: %v", typ, err)
		}
	}

	after := effectCounts(w)
	for e, n := range before {
		if after[e] != n {
			t.Fatalf("unit %v effects changed %d -> %d", e, n, after[e])
		}
	}
	if got := len(ecs.Entities(w.ECS())); got != entities {
		t.Fatalf("entity count changed %d -> %d", entities, got)
	}
	if len(rec.diags) != 0 {
		t.Fatalf("unexpected diagnostics %v", rec.diags)
	}
	if s := d.Stats(); s.Completed != 3 {
		t.Fatalf("expected 3 completed dispatches, got %+v", s)
	}
}

func TestProjectileFacesTargetAndKeepsReferences(t *testing.T) {
	lib := testSheets(t)
	w := NewWorld()
	owner := spawn(w, "archer", component.TeamPlayer, 0, 0)
	target := spawn(w, "grunt", component.TeamEnemy, 5, 0)
	d := NewDispatcher(w, testRegistry(t, lib), nil)
	attack := &Attack{Type: "missile", Damage: 25}

	if err := d.Dispatch(owner, UnitTarget{Unit: target}, attack); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	ps := w.Projectiles()
	if len(ps) != 1 {
		t.Fatalf("expected exactly one projectile, got %d", len(ps))
	}
	p, _ := w.Projectile(ps[0])
	if p.Facing != common.East {
		t.Fatalf("expected east, got %v", p.Facing)
	}
	if p.Owner != owner || p.Target != target || p.Attack != attack {
		t.Fatalf("references not kept: %+v", p)
	}
	wantFlight, _ := lib.FramesFor("missile", "fly", common.East)
	wantImpact, _ := lib.FramesFor("missile", "pop", common.East)
	if len(p.Flight) != len(wantFlight) || p.Flight[0] != wantFlight[0] {
		t.Fatalf("flight frames %v, want %v", p.Flight, wantFlight)
	}
	if len(p.Impact) != len(wantImpact) || p.Impact[0] != wantImpact[0] {
		t.Fatalf("impact frames %v, want %v", p.Impact, wantImpact)
	}
	if p.TicksPer != 3 || p.Position != common.Pt(0, 0) {
		t.Fatalf("unexpected projectile %+v", p)
	}
}

// vanishingTarget destroys its unit right after handing it out, the way a
// unit can die between targeting and spawning.
type vanishingTarget struct {
	unit ecs.Entity
}

func (v vanishingTarget) EffectedUnits(w *World) []ecs.Entity {
	out := UnitTarget{Unit: v.unit}.EffectedUnits(w)
	w.Destroy(v.unit)
	return out
}

func (v vanishingTarget) Location(w *World) (common.Point, bool) {
	return w.Centre(v.unit)
}

func TestStaleTargetReportedWithoutSpawn(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "archer", component.TeamPlayer, 0, 0)
	target := spawn(w, "grunt", component.TeamEnemy, 5, 0)
	rec := &recorder{}
	d := NewDispatcher(w, testRegistry(t, testSheets(t)), rec)
	d.Quiet = true

	err := d.Dispatch(owner, vanishingTarget{unit: target}, &Attack{Type: "missile"})
	if !errors.Is(err, ErrStaleReference) {
		t.Fatalf("expected stale reference, got %v", err)
	}
	var rerr *RoutineError
	if !errors.As(err, &rerr) || rerr.AttackType != "missile" {
		t.Fatalf("expected routine error for missile, got %v", err)
	}
	if len(w.Projectiles()) != 0 {
		t.Fatalf("projectile spawned for stale target")
	}
	if len(rec.diags) != 1 || rec.diags[0].Kind != DiagnosticStaleReference || rec.diags[0].Owner != owner {
		t.Fatalf("unexpected diagnostics %v", rec.diags)
	}
	if s := d.Stats(); s.Stale != 1 || s.Completed != 0 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestUnboundAttackTypeLeavesWorldUnchanged(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "archer", component.TeamPlayer, 0, 0)
	target := spawn(w, "grunt", component.TeamEnemy, 1, 0)
	rec := &recorder{}
	d := NewDispatcher(w, testRegistry(t, nil), rec)
	d.Quiet = true

	entities := len(ecs.Entities(w.ECS()))
	unit, _ := w.Unit(target)
	health := unit.Health

	for _, typ := range []AttackType{"", "fireball", "BUFF"} {
		err := d.Dispatch(owner, UnitTarget{Unit: target}, &Attack{Type: typ, Damage: 50})
		if !errors.Is(err, ErrUnboundAttackType) {
			t.Fatalf("%q: expected unbound, got %v", typ, err)
		}
	}

	if got := len(ecs.Entities(w.ECS())); got != entities {
		t.Fatalf("entities changed %d -> %d", entities, got)
	}
	if unit.Health != health || len(ActiveEffects(w, target)) != 0 {
		t.Fatalf("target was modified")
	}
	if w.ECS().Events().Len() != 0 {
		t.Fatalf("unexpected events")
	}
	if len(rec.diags) != 3 || rec.diags[0].Kind != DiagnosticUnboundAttackType {
		t.Fatalf("unexpected diagnostics %v", rec.diags)
	}
}

func TestFailingRoutinesAreIsolated(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "archer", component.TeamPlayer, 0, 0)
	target := spawn(w, "grunt", component.TeamEnemy, 1, 0)
	reg := testRegistry(t, nil)
	_ = reg.Register("boom", RoutineFunc(func(ecs.Entity, Target, *Attack, *World) error {
		panic("boom")
	}))
	_ = reg.Register("broken", RoutineFunc(func(ecs.Entity, Target, *Attack, *World) error {
		return errors.New("broken")
	}))
	rec := &recorder{}
	d := NewDispatcher(w, reg, rec)
	d.Quiet = true

	if err := d.Dispatch(owner, UnitTarget{Unit: target}, &Attack{Type: "boom"}); err == nil {
		t.Fatalf("expected panic to surface as error")
	}
	if err := d.Dispatch(owner, UnitTarget{Unit: target}, &Attack{Type: "broken"}); err == nil {
		t.Fatalf("expected error")
	}
	if err := d.Dispatch(owner, UnitTarget{Unit: target}, buffAttack()); err != nil {
		t.Fatalf("later dispatch failed: %v", err)
	}

	if len(rec.diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %v", rec.diags)
	}
	for _, diag := range rec.diags {
		if diag.Kind != DiagnosticRoutineFailure {
			t.Fatalf("expected routine failure, got %v", diag)
		}
	}
	if s := d.Stats(); s.Failed != 2 || s.Completed != 1 || s.Dispatched != 3 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestSetRegistrySwapsBindings(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "a", component.TeamPlayer, 0, 0)
	d := NewDispatcher(w, nil, nil)
	d.Quiet = true

	if err := d.Dispatch(owner, UnitTarget{Unit: owner}, buffAttack()); !errors.Is(err, ErrUnboundAttackType) {
		t.Fatalf("expected unbound before swap, got %v", err)
	}
	d.SetRegistry(testRegistry(t, nil))
	if err := d.Dispatch(owner, UnitTarget{Unit: owner}, buffAttack()); err != nil {
		t.Fatalf("dispatch after swap: %v", err)
	}
	d.SetRegistry(nil)
	if d.Registry().Len() != 3 {
		t.Fatalf("nil registry should be ignored")
	}
}

func TestStrikeDamagesEveryAffectedUnit(t *testing.T) {
	w := NewWorld()
	owner := spawn(w, "mage", component.TeamPlayer, 0, 0)
	a := spawn(w, "a", component.TeamEnemy, 3, 0)
	b := spawn(w, "b", component.TeamEnemy, 4, 0)
	far := spawn(w, "far", component.TeamEnemy, 9, 0)
	d := NewDispatcher(w, testRegistry(t, testSheets(t)), nil)

	if err := AddEffect(w, owner, NewStatModifier(EffectSpec{Stat: StatDamage, Add: 5, Duration: 5})); err != nil {
		t.Fatal(err)
	}
	target := ChainTarget{First: a, Jumps: 3, Range: 1.5, Team: component.TeamPlayer, Affects: AffectsEnemies}
	if err := d.Dispatch(owner, target, &Attack{Type: "strike", Damage: 30}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	for _, c := range []struct {
		unit ecs.Entity
		want float64
	}{{a, 65}, {b, 65}, {far, 100}} {
		u, _ := w.Unit(c.unit)
		if u.Health != c.want {
			t.Fatalf("unit %v health %v, want %v", c.unit, u.Health, c.want)
		}
	}
	if n := ecs.Count(w.ECS(), component.TTLComponent.Kind()); n != 2 {
		t.Fatalf("expected 2 impacts, got %d", n)
	}
}
