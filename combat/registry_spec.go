package combat

import (
	"fmt"
	"sort"
	"time"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/prefabs"
)

// Routine kinds accepted in attacks.yaml.
const (
	KindBuff       = "buff"
	KindProjectile = "projectile"
	KindStrike     = "strike"
	KindScript     = "script"
)

// LoadRegistry builds the registry from the attacks prefab.
func LoadRegistry(sheets SheetLookup) (*Registry, error) {
	spec, err := prefabs.LoadAttacksSpec()
	if err != nil {
		return nil, err
	}
	return BuildRegistry(spec, sheets)
}

// BuildRegistry turns attack bindings into routines. Every binding is
// checked; the first failure aborts the build so a bad reload never
// replaces a working registry.
func BuildRegistry(spec *prefabs.AttacksSpec, sheets SheetLookup) (*Registry, error) {
	if spec == nil {
		return nil, fmt.Errorf("combat: nil attacks spec")
	}
	opts := ScriptOptions{
		MaxAllocs: spec.MaxAllocs,
		Timeout:   time.Duration(spec.TimeoutMS) * time.Millisecond,
		Sheets:    sheets,
	}

	names := make([]string, 0, len(spec.Routines))
	for name := range spec.Routines {
		names = append(names, name)
	}
	sort.Strings(names)

	reg := NewRegistry()
	for _, name := range names {
		routine, err := buildRoutine(name, spec.Routines[name], opts)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(AttackType(name), routine); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func buildRoutine(name string, rs prefabs.RoutineSpec, opts ScriptOptions) (Routine, error) {
	switch rs.Kind {
	case KindBuff:
		return BuffRoutine{}, nil
	case KindProjectile:
		if rs.Speed <= 0 {
			return nil, fmt.Errorf("routine %s: %w", name, ErrProjectileSpeed)
		}
		return ProjectileRoutine{
			Sheets:     opts.Sheets,
			Sheet:      rs.Sheet,
			Flight:     rs.Flight,
			Impact:     rs.Impact,
			Size:       common.Sz(rs.Size.W, rs.Size.H),
			Hitbox:     common.Sz(rs.Hitbox.W, rs.Hitbox.H),
			ImpactSize: common.Sz(rs.ImpactSize.W, rs.ImpactSize.H),
			Speed:      rs.Speed,
		}, nil
	case KindStrike:
		return StrikeRoutine{
			Sheets:     opts.Sheets,
			Sheet:      rs.Sheet,
			Impact:     rs.Impact,
			ImpactSize: common.Sz(rs.ImpactSize.W, rs.ImpactSize.H),
		}, nil
	case KindScript:
		if rs.Script == "" {
			return nil, fmt.Errorf("combat: routine %s: script kind needs a script file", name)
		}
		r, err := LoadScriptRoutine(rs.Script, opts)
		if err != nil {
			return nil, fmt.Errorf("combat: routine %s: %w", name, err)
		}
		return r, nil
	}
	return nil, fmt.Errorf("combat: routine %s: unknown kind %q", name, rs.Kind)
}
