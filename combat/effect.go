package combat

import (
	"fmt"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// Stat names a unit property effects can modify.
type Stat string

const (
	StatDamage Stat = "damage"
	StatSpeed  Stat = "speed"
	StatRange  Stat = "range"
	// StatHealth effects heal their holder once, when they start.
	StatHealth Stat = "health"
)

// ParseStat maps a config name to a Stat. The empty string is allowed and
// modifies nothing.
func ParseStat(s string) (Stat, error) {
	switch Stat(s) {
	case StatDamage, StatSpeed, StatRange, StatHealth, "":
		return Stat(s), nil
	}
	return "", fmt.Errorf("combat: unknown stat %q", s)
}

// Effect is a timed modifier attached to one unit.
type Effect interface {
	Name() string
	// Holder is the unit the effect is bound to, zero before binding.
	Holder() ecs.Entity
	// Bind attaches the effect to unit. An effect is bound once; binding it
	// again fails.
	Bind(unit ecs.Entity) error
	Start(w *World)
	// Tick advances the effect by dt ticks.
	Tick(w *World, dt int)
	Expired() bool
	// Modify folds the effect into value when it applies to stat.
	Modify(stat Stat, value float64) float64
}

// StatModifier adds Add and then multiplies by Scale for Duration ticks.
// A zero Scale is treated as 1.
type StatModifier struct {
	name      string
	Stat      Stat
	Add       float64
	Scale     float64
	Duration  int
	Remaining int

	holder  ecs.Entity
	started bool
}

func NewStatModifier(spec EffectSpec) *StatModifier {
	return &StatModifier{
		name:     spec.Name,
		Stat:     spec.Stat,
		Add:      spec.Add,
		Scale:    spec.Scale,
		Duration: spec.Duration,
	}
}

func (m *StatModifier) Name() string {
	if m == nil {
		return ""
	}
	return m.name
}

func (m *StatModifier) Holder() ecs.Entity {
	if m == nil {
		return 0
	}
	return m.holder
}

func (m *StatModifier) Bind(unit ecs.Entity) error {
	if m == nil {
		return ErrNilEffect
	}
	if err := checkUnbound(m.name, m.holder, unit); err != nil {
		return err
	}
	m.holder = unit
	return nil
}

func checkUnbound(name string, holder, unit ecs.Entity) error {
	switch {
	case holder == 0:
		return nil
	case holder == unit:
		return fmt.Errorf("%s on %v: %w", name, holder, ErrEffectAttached)
	}
	return fmt.Errorf("%s on %v: %w", name, holder, ErrEffectShared)
}

func (m *StatModifier) Start(w *World) {
	if m == nil || m.started {
		return
	}
	m.started = true
	m.Remaining = m.Duration
}

func (m *StatModifier) Tick(w *World, dt int) {
	if m == nil || !m.started {
		return
	}
	m.Remaining -= dt
}

func (m *StatModifier) Expired() bool {
	return m == nil || (m.started && m.Remaining <= 0)
}

func (m *StatModifier) Modify(stat Stat, value float64) float64 {
	if m == nil || m.Expired() || stat != m.Stat || m.Stat == "" {
		return value
	}
	scale := m.Scale
	if scale == 0 {
		scale = 1
	}
	return (value + m.Add) * scale
}

func (m *StatModifier) String() string {
	if m == nil {
		return "effect(nil)"
	}
	return fmt.Sprintf("%s(%s +%g x%g, %d/%d)", m.name, m.Stat, m.Add, m.Scale, m.Remaining, m.Duration)
}

// Heal restores Amount health to its holder when it starts. It never
// modifies stats and stays attached for Duration ticks.
type Heal struct {
	name      string
	Amount    float64
	Duration  int
	Remaining int

	holder  ecs.Entity
	started bool
}

func NewHeal(spec EffectSpec) *Heal {
	return &Heal{name: spec.Name, Amount: spec.Add, Duration: spec.Duration}
}

func (h *Heal) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

func (h *Heal) Holder() ecs.Entity {
	if h == nil {
		return 0
	}
	return h.holder
}

func (h *Heal) Bind(unit ecs.Entity) error {
	if h == nil {
		return ErrNilEffect
	}
	if err := checkUnbound(h.name, h.holder, unit); err != nil {
		return err
	}
	h.holder = unit
	return nil
}

func (h *Heal) Start(w *World) {
	if h == nil || h.started {
		return
	}
	h.started = true
	h.Remaining = h.Duration
	w.Heal(h.holder, h.Amount)
}

func (h *Heal) Tick(w *World, dt int) {
	if h == nil || !h.started {
		return
	}
	h.Remaining -= dt
}

func (h *Heal) Expired() bool {
	return h == nil || (h.started && h.Remaining <= 0)
}

func (h *Heal) Modify(stat Stat, value float64) float64 {
	return value
}

// Effects is a unit's collection of active effects in attach order.
type Effects struct {
	List []Effect
}

var EffectsComponent = component.NewComponent[Effects]()

// AddEffect binds effect to unit, starts it and appends it to the unit's
// list. Expired effects, including instant ones, are removed by TickEffects.
func AddEffect(w *World, unit ecs.Entity, effect Effect) error {
	if effect == nil {
		return ErrNilEffect
	}
	if !w.IsAlive(unit) {
		return stale("add effect %s to %v", effect.Name(), unit)
	}
	list, ok := ecs.Get(w.ecs, unit, EffectsComponent.Kind())
	if !ok {
		list = &Effects{}
		if err := ecs.Add(w.ecs, unit, EffectsComponent.Kind(), list); err != nil {
			return err
		}
	}
	if err := effect.Bind(unit); err != nil {
		return err
	}
	effect.Start(w)
	w.ecs.Events().Push(ecs.Event{Type: EventEffectAdded, Data: EffectEvent{Unit: unit, Effect: effect.Name()}})
	list.List = append(list.List, effect)
	return nil
}

// ActiveEffects returns a copy of the unit's effects.
func ActiveEffects(w *World, unit ecs.Entity) []Effect {
	if w == nil {
		return nil
	}
	list, ok := ecs.Get(w.ecs, unit, EffectsComponent.Kind())
	if !ok || len(list.List) == 0 {
		return nil
	}
	return append([]Effect(nil), list.List...)
}

// ModifiedStat folds every active effect on unit into base, in attach
// order.
func ModifiedStat(w *World, unit ecs.Entity, stat Stat, base float64) float64 {
	value := base
	for _, e := range ActiveEffects(w, unit) {
		value = e.Modify(stat, value)
	}
	return value
}

// TickEffects advances every effect by dt ticks and removes the ones that
// expired. It returns how many were removed.
func TickEffects(w *World, dt int) int {
	if w == nil {
		return 0
	}
	removed := 0
	ecs.ForEach(w.ecs, EffectsComponent.Kind(), func(unit ecs.Entity, list *Effects) {
		kept := list.List[:0]
		for _, e := range list.List {
			e.Tick(w, dt)
			if e.Expired() {
				removed++
				w.ecs.Events().Push(ecs.Event{Type: EventEffectExpired, Data: EffectEvent{Unit: unit, Effect: e.Name()}})
				continue
			}
			kept = append(kept, e)
		}
		for i := len(kept); i < len(list.List); i++ {
			list.List[i] = nil
		}
		list.List = kept
	})
	return removed
}
