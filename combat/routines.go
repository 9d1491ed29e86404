package combat

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// BuffRoutine attaches the attack's effect to the first affected unit.
type BuffRoutine struct{}

func (BuffRoutine) Apply(owner ecs.Entity, target Target, attack *Attack, w *World) error {
	if attack == nil {
		return ErrNilAttack
	}
	units := target.EffectedUnits(w)
	if len(units) == 0 {
		return nil
	}
	unit := units[0]
	return AddEffect(w, unit, attack.MakeEffect(UnitTarget{Unit: unit}, w))
}

// ProjectileRoutine launches one projectile from the owner at the first
// affected unit, with frames chosen for the direction of flight.
type ProjectileRoutine struct {
	Sheets     SheetLookup
	Sheet      string
	Flight     string
	Impact     string
	Size       common.Size
	Hitbox     common.Size
	ImpactSize common.Size
	Speed      float64
}

func (r ProjectileRoutine) Apply(owner ecs.Entity, target Target, attack *Attack, w *World) error {
	if attack == nil {
		return ErrNilAttack
	}
	units := target.EffectedUnits(w)
	if len(units) == 0 {
		return nil
	}
	unit := units[0]
	origin, ok := w.Centre(owner)
	if !ok {
		return stale("projectile owner %v", owner)
	}
	dest, ok := w.Centre(unit)
	if !ok {
		return stale("projectile target %v", unit)
	}
	facing := common.Between(origin, dest)
	p := NewProjectile(ProjectileSpec{
		Origin:     origin,
		Size:       r.Size,
		Owner:      owner,
		Target:     unit,
		Attack:     attack,
		Flight:     lookupFrames(r.Sheets, r.Sheet, r.Flight, facing),
		Impact:     lookupFrames(r.Sheets, r.Sheet, r.Impact, facing),
		ImpactSize: r.ImpactSize,
		TicksPer:   lookupTicks(r.Sheets, r.Sheet, r.Flight),
		Hitbox:     r.Hitbox,
		Speed:      r.Speed,
		Facing:     facing,
	})
	_, err := w.AddProjectile(p)
	return err
}

// StrikeRoutine damages every affected unit at once and leaves an impact
// animation on each of them.
type StrikeRoutine struct {
	Sheets     SheetLookup
	Sheet      string
	Impact     string
	ImpactSize common.Size
}

func (r StrikeRoutine) Apply(owner ecs.Entity, target Target, attack *Attack, w *World) error {
	if attack == nil {
		return ErrNilAttack
	}
	units := target.EffectedUnits(w)
	if len(units) == 0 {
		return nil
	}
	damage := w.OutgoingDamage(owner, attack.Damage)
	frames := lookupFrames(r.Sheets, r.Sheet, r.Impact, common.South)
	ticks := lookupTicks(r.Sheets, r.Sheet, r.Impact)
	for _, unit := range units {
		centre, ok := w.Centre(unit)
		if !ok {
			continue
		}
		w.Damage(unit, damage, owner)
		w.SpawnImpact(centre, r.ImpactSize, frames, ticks)
	}
	return nil
}

func lookupFrames(sheets SheetLookup, sheet, sequence string, d common.Direction) []component.Frame {
	if sheets == nil || sheet == "" || sequence == "" {
		return nil
	}
	frames, _ := sheets.FramesFor(sheet, sequence, d)
	return frames
}

func lookupTicks(sheets SheetLookup, sheet, sequence string) int {
	if sheets == nil || sheet == "" || sequence == "" {
		return 1
	}
	return sheets.TicksPerFrame(sheet, sequence)
}
