package combat

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/skirmish/ecs"
)

// DiagnosticKind classifies a failed dispatch.
type DiagnosticKind string

const (
	DiagnosticUnboundAttackType DiagnosticKind = "unbound_attack_type"
	DiagnosticStaleReference    DiagnosticKind = "stale_reference"
	DiagnosticRoutineFailure    DiagnosticKind = "routine_failure"
)

// Diagnostic describes one attack that did not complete cleanly.
type Diagnostic struct {
	Kind       DiagnosticKind
	AttackType AttackType
	Owner      ecs.Entity
	Tick       uint64
	Err        error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("tick=%d %s type=%q owner=%v: %v", d.Tick, d.Kind, d.AttackType, d.Owner, d.Err)
}

// Reporter receives diagnostics as they happen.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) {
	f(d)
}

// DispatchStats counts dispatch outcomes.
type DispatchStats struct {
	Dispatched int
	Completed  int
	Unbound    int
	Stale      int
	Failed     int
}

// Dispatcher routes resolved attacks to the routine bound to their type.
// A failing routine never affects other attacks: errors and panics become
// diagnostics.
type Dispatcher struct {
	world    *World
	registry *Registry
	reporter Reporter
	stats    DispatchStats
	// Quiet disables logging of diagnostics; reporters still see them.
	Quiet bool
}

func NewDispatcher(w *World, registry *Registry, reporter Reporter) *Dispatcher {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Dispatcher{world: w, registry: registry, reporter: reporter}
}

// SetRegistry swaps the bindings used by later dispatches.
func (d *Dispatcher) SetRegistry(r *Registry) {
	if d == nil || r == nil {
		return
	}
	d.registry = r
}

func (d *Dispatcher) Registry() *Registry {
	if d == nil {
		return nil
	}
	return d.registry
}

func (d *Dispatcher) SetReporter(r Reporter) {
	if d == nil {
		return
	}
	d.reporter = r
}

func (d *Dispatcher) World() *World {
	if d == nil {
		return nil
	}
	return d.world
}

func (d *Dispatcher) Stats() DispatchStats {
	if d == nil {
		return DispatchStats{}
	}
	return d.stats
}

// Dispatch resolves attack against target on behalf of owner. The returned
// error is the same one reported as a diagnostic; callers may ignore it.
func (d *Dispatcher) Dispatch(owner ecs.Entity, target Target, attack *Attack) error {
	if d == nil {
		return errors.New("combat: nil dispatcher")
	}
	d.stats.Dispatched++
	if attack == nil {
		return d.fail(owner, "", &RoutineError{Err: ErrNilAttack})
	}
	routine, ok := d.registry.Lookup(attack.Type)
	if !ok {
		return d.fail(owner, attack.Type, fmt.Errorf("%q: %w", attack.Type, ErrUnboundAttackType))
	}
	if target == nil {
		target = UnitTarget{}
	}
	if err := d.invoke(routine, owner, target, attack); err != nil {
		return d.fail(owner, attack.Type, &RoutineError{AttackType: attack.Type, Err: err})
	}
	d.stats.Completed++
	return nil
}

func (d *Dispatcher) invoke(routine Routine, owner ecs.Entity, target Target, attack *Attack) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return routine.Apply(owner, target, attack, d.world)
}

func (d *Dispatcher) fail(owner ecs.Entity, t AttackType, err error) error {
	diag := Diagnostic{
		Kind:       classify(err),
		AttackType: t,
		Owner:      owner,
		Tick:       d.world.ECS().Tick(),
		Err:        err,
	}
	switch diag.Kind {
	case DiagnosticUnboundAttackType:
		d.stats.Unbound++
	case DiagnosticStaleReference:
		d.stats.Stale++
	default:
		d.stats.Failed++
	}
	if !d.Quiet {
		log.Printf("dispatch: %s", diag)
	}
	if d.reporter != nil {
		d.reporter.Report(diag)
	}
	return err
}

func classify(err error) DiagnosticKind {
	switch {
	case errors.Is(err, ErrUnboundAttackType):
		return DiagnosticUnboundAttackType
	case errors.Is(err, ErrStaleReference):
		return DiagnosticStaleReference
	}
	return DiagnosticRoutineFailure
}
