package combat

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/skirmish/ecs"
)

// Routine decides what an attack does once it resolves. Routines run to
// completion on the tick goroutine and must not keep the arguments after
// they return.
type Routine interface {
	Apply(owner ecs.Entity, target Target, attack *Attack, w *World) error
}

// RoutineFunc adapts a function to Routine.
type RoutineFunc func(owner ecs.Entity, target Target, attack *Attack, w *World) error

func (f RoutineFunc) Apply(owner ecs.Entity, target Target, attack *Attack, w *World) error {
	return f(owner, target, attack, w)
}

var (
	ErrEmptyAttackType = errors.New("combat: empty attack type")
	ErrNilRoutine      = errors.New("combat: nil routine")
)

// Registry maps attack types to routines. It is built once and then only
// read; a reload builds a new registry instead of editing a live one.
type Registry struct {
	routines map[AttackType]Routine
}

func NewRegistry() *Registry {
	return &Registry{routines: make(map[AttackType]Routine)}
}

// Register binds t to r, replacing any previous binding.
func (r *Registry) Register(t AttackType, routine Routine) error {
	if r == nil {
		return fmt.Errorf("combat: register %q on nil registry", t)
	}
	if t == "" {
		return ErrEmptyAttackType
	}
	if routine == nil {
		return fmt.Errorf("register %q: %w", t, ErrNilRoutine)
	}
	if r.routines == nil {
		r.routines = make(map[AttackType]Routine)
	}
	r.routines[t] = routine
	return nil
}

// Lookup returns the routine bound to t.
func (r *Registry) Lookup(t AttackType) (Routine, bool) {
	if r == nil {
		return nil, false
	}
	routine, ok := r.routines[t]
	return routine, ok
}

// Types returns the bound attack types in sorted order.
func (r *Registry) Types() []AttackType {
	if r == nil {
		return nil
	}
	out := make([]AttackType, 0, len(r.routines))
	for t := range r.routines {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.routines)
}
