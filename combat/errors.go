package combat

import (
	"errors"
	"fmt"
)

var (
	// ErrUnboundAttackType means no routine is registered for an attack type.
	ErrUnboundAttackType = errors.New("combat: unbound attack type")
	// ErrStaleReference means an owner, target or unit handle no longer
	// resolves to a live entity.
	ErrStaleReference = errors.New("combat: stale reference")
	// ErrEffectShared means an effect bound to one unit was offered to another.
	ErrEffectShared = errors.New("combat: effect already bound to another unit")
	// ErrEffectAttached means an effect was added to its holder a second time.
	ErrEffectAttached = errors.New("combat: effect already attached")
	ErrNilAttack      = errors.New("combat: nil attack")
	ErrNilEffect      = errors.New("combat: nil effect")
)

// RoutineError wraps a failure raised while a routine ran.
type RoutineError struct {
	AttackType AttackType
	Err        error
}

func (e *RoutineError) Error() string {
	return fmt.Sprintf("combat: routine %q: %v", e.AttackType, e.Err)
}

func (e *RoutineError) Unwrap() error {
	return e.Err
}

func stale(what string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(what, args...), ErrStaleReference)
}
