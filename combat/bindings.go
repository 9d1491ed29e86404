package combat

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// bindings hands out script objects for one routine run.
type bindings struct {
	world  *World
	sheets SheetLookup
}

func (b *bindings) unit(e ecs.Entity) *unitObject {
	return &unitObject{b: b, entity: e}
}

func (b *bindings) units(ents []ecs.Entity) *tengo.Array {
	arr := &tengo.Array{Value: make([]tengo.Object, 0, len(ents))}
	for _, e := range ents {
		arr.Value = append(arr.Value, b.unit(e))
	}
	return arr
}

func (b *bindings) worldObject() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["tick"] = &tengo.UserFunction{Name: "tick", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(b.world.ECS().Tick())}, nil
	}}

	values["units"] = &tengo.UserFunction{Name: "units", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return b.units(b.world.Units()), nil
	}}

	values["units_within"] = &tengo.UserFunction{Name: "units_within", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		centre, err := toPoint("centre", args[0])
		if err != nil {
			return nil, err
		}
		radius, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, argError("radius", "float", args[1])
		}
		hits := b.world.UnitsWithin(centre, radius)
		ents := make([]ecs.Entity, 0, len(hits))
		for _, hit := range hits {
			ents = append(ents, hit.Entity)
		}
		return b.units(ents), nil
	}}

	values["direction_between"] = &tengo.UserFunction{Name: "direction_between", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		from, err := toPoint("from", args[0])
		if err != nil {
			return nil, err
		}
		to, err := toPoint("to", args[1])
		if err != nil {
			return nil, err
		}
		return &tengo.String{Value: common.Between(from, to).String()}, nil
	}}

	values["frames"] = &tengo.UserFunction{Name: "frames", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		sheet, _ := tengo.ToString(args[0])
		seq, _ := tengo.ToString(args[1])
		name, _ := tengo.ToString(args[2])
		d, err := common.ParseDirection(name)
		if err != nil {
			return nil, err
		}
		frames := lookupFrames(b.sheets, sheet, seq, d)
		return &framesObject{frames: frames, ticksPer: lookupTicks(b.sheets, sheet, seq)}, nil
	}}

	values["new_projectile"] = &tengo.UserFunction{Name: "new_projectile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		spec, err := b.projectileSpec(args[0])
		if err != nil {
			return nil, err
		}
		return &projectileObject{projectile: NewProjectile(spec)}, nil
	}}

	values["add_projectile"] = &tengo.UserFunction{Name: "add_projectile", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, ok := args[0].(*projectileObject)
		if !ok {
			return nil, argError("projectile", "projectile", args[0])
		}
		e, err := b.world.AddProjectile(p.projectile)
		if err != nil {
			return nil, err
		}
		return &tengo.Int{Value: int64(e)}, nil
	}}

	values["damage"] = &tengo.UserFunction{Name: "damage", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 || len(args) > 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		u, ok := args[0].(*unitObject)
		if !ok {
			return nil, argError("unit", "unit", args[0])
		}
		amount, ok := tengo.ToFloat64(args[1])
		if !ok {
			return nil, argError("amount", "float", args[1])
		}
		var source ecs.Entity
		if len(args) == 3 {
			if src, ok := args[2].(*unitObject); ok {
				source = src.entity
			}
		}
		if !b.world.IsAlive(u.entity) {
			return nil, stale("damage %v", u.entity)
		}
		return boolObject(b.world.Damage(u.entity, amount, source)), nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func (b *bindings) projectileSpec(obj tengo.Object) (ProjectileSpec, error) {
	var spec ProjectileSpec
	m, ok := obj.(*tengo.Map)
	if !ok {
		return spec, argError("spec", "map", obj)
	}
	fields := m.Value

	if v, ok := fields["owner"]; ok {
		u, ok := v.(*unitObject)
		if !ok {
			return spec, argError("owner", "unit", v)
		}
		spec.Owner = u.entity
	}
	target, ok := fields["target"].(*unitObject)
	if !ok {
		return spec, argError("target", "unit", fields["target"])
	}
	spec.Target = target.entity
	attack, ok := fields["attack"].(*attackObject)
	if !ok {
		return spec, argError("attack", "attack", fields["attack"])
	}
	spec.Attack = attack.attack

	var err error
	if v, ok := fields["position"]; ok {
		if spec.Origin, err = toPoint("position", v); err != nil {
			return spec, err
		}
	} else if c, ok := b.world.Centre(spec.Owner); ok {
		spec.Origin = c
	} else {
		return spec, stale("projectile owner %v", spec.Owner)
	}
	if v, ok := fields["size"]; ok {
		if spec.Size, err = toSize("size", v); err != nil {
			return spec, err
		}
	}
	if v, ok := fields["hitbox"]; ok {
		if spec.Hitbox, err = toSize("hitbox", v); err != nil {
			return spec, err
		}
	}
	if v, ok := fields["impact_size"]; ok {
		if spec.ImpactSize, err = toSize("impact_size", v); err != nil {
			return spec, err
		}
	}
	if v, ok := fields["speed"]; ok {
		if spec.Speed, ok = tengo.ToFloat64(v); !ok {
			return spec, argError("speed", "float", v)
		}
	}
	if spec.Speed <= 0 {
		return spec, fmt.Errorf("new_projectile speed %v: %w", spec.Speed, ErrProjectileSpeed)
	}
	if v, ok := fields["flight"].(*framesObject); ok {
		spec.Flight = v.frames
		spec.TicksPer = v.ticksPer
	}
	if v, ok := fields["impact"].(*framesObject); ok {
		spec.Impact = v.frames
	}

	if v, ok := fields["facing"]; ok {
		name, _ := tengo.ToString(v)
		if spec.Facing, err = common.ParseDirection(name); err != nil {
			return spec, err
		}
	} else if dest, ok := b.world.Centre(spec.Target); ok {
		spec.Facing = common.Between(spec.Origin, dest)
	}
	return spec, nil
}

// unitObject is a weak unit handle. Reading fields of a vanished unit gives
// zero values; calling methods that need the unit fails as stale.
type unitObject struct {
	tengo.ObjectImpl
	b      *bindings
	entity ecs.Entity
}

func (o *unitObject) TypeName() string { return "unit" }

func (o *unitObject) String() string {
	if u, ok := o.b.world.Unit(o.entity); ok {
		return fmt.Sprintf("unit(%s %v)", u.Name, o.entity)
	}
	return fmt.Sprintf("unit(%v)", o.entity)
}

func (o *unitObject) Copy() tengo.Object {
	return &unitObject{b: o.b, entity: o.entity}
}

func (o *unitObject) IsFalsy() bool {
	return !o.b.world.IsAlive(o.entity)
}

func (o *unitObject) Equals(x tengo.Object) bool {
	other, ok := x.(*unitObject)
	return ok && other.entity == o.entity
}

func (o *unitObject) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	w := o.b.world
	u, alive := w.Unit(o.entity)
	if !alive {
		u = &component.Unit{}
	}

	switch key {
	case "id":
		return &tengo.Int{Value: int64(o.entity)}, nil
	case "alive":
		return boolObject(alive), nil
	case "name":
		return &tengo.String{Value: u.Name}, nil
	case "team":
		return &tengo.String{Value: u.Team.String()}, nil
	case "health":
		return &tengo.Float{Value: u.Health}, nil
	case "max_health":
		return &tengo.Float{Value: u.MaxHealth}, nil
	case "radius":
		return &tengo.Float{Value: u.Radius}, nil
	case "facing":
		return &tengo.String{Value: u.Facing.String()}, nil
	case "level":
		return &tengo.Int{Value: int64(u.Level)}, nil
	case "centre", "location":
		return &tengo.UserFunction{Name: key, Value: func(args ...tengo.Object) (tengo.Object, error) {
			c, ok := w.Centre(o.entity)
			if !ok {
				return nil, stale("%s of %v", key, o.entity)
			}
			return pointObject(c), nil
		}}, nil
	case "add_effect":
		return &tengo.UserFunction{Name: key, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 1 {
				return nil, tengo.ErrWrongNumArguments
			}
			eff, ok := args[0].(*effectObject)
			if !ok {
				return nil, argError("effect", "effect", args[0])
			}
			if err := AddEffect(w, o.entity, eff.effect); err != nil {
				return nil, err
			}
			return tengo.TrueValue, nil
		}}, nil
	case "effect_count":
		return &tengo.UserFunction{Name: key, Value: func(args ...tengo.Object) (tengo.Object, error) {
			return &tengo.Int{Value: int64(len(ActiveEffects(w, o.entity)))}, nil
		}}, nil
	case "stat":
		return &tengo.UserFunction{Name: key, Value: func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) != 2 {
				return nil, tengo.ErrWrongNumArguments
			}
			name, _ := tengo.ToString(args[0])
			base, ok := tengo.ToFloat64(args[1])
			if !ok {
				return nil, argError("base", "float", args[1])
			}
			return &tengo.Float{Value: ModifiedStat(w, o.entity, Stat(name), base)}, nil
		}}, nil
	}
	return nil, nil
}

type targetObject struct {
	tengo.ObjectImpl
	b      *bindings
	target Target
}

func (o *targetObject) TypeName() string { return "target" }

func (o *targetObject) String() string { return fmt.Sprintf("target(%T)", o.target) }

func (o *targetObject) Copy() tengo.Object {
	return &targetObject{b: o.b, target: o.target}
}

func (o *targetObject) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	switch key {
	case "effected_units":
		// The world argument is accepted for symmetry with Go routines;
		// the run's own world is always used.
		return &tengo.UserFunction{Name: key, Value: func(args ...tengo.Object) (tengo.Object, error) {
			return o.b.units(o.target.EffectedUnits(o.b.world)), nil
		}}, nil
	case "location":
		return &tengo.UserFunction{Name: key, Value: func(args ...tengo.Object) (tengo.Object, error) {
			p, ok := o.target.Location(o.b.world)
			if !ok {
				return nil, stale("target location")
			}
			return pointObject(p), nil
		}}, nil
	}
	return nil, nil
}

type attackObject struct {
	tengo.ObjectImpl
	b      *bindings
	attack *Attack
}

func (o *attackObject) TypeName() string { return "attack" }

func (o *attackObject) String() string { return o.attack.String() }

func (o *attackObject) Copy() tengo.Object {
	return &attackObject{b: o.b, attack: o.attack}
}

func (o *attackObject) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	switch key {
	case "type":
		return &tengo.String{Value: string(o.attack.Type)}, nil
	case "damage":
		return &tengo.Float{Value: o.attack.Damage}, nil
	case "make_effect":
		return &tengo.UserFunction{Name: key, Value: func(args ...tengo.Object) (tengo.Object, error) {
			var target Target
			if len(args) > 0 {
				switch t := args[0].(type) {
				case *targetObject:
					target = t.target
				case *unitObject:
					target = UnitTarget{Unit: t.entity}
				}
			}
			return &effectObject{effect: o.attack.MakeEffect(target, o.b.world)}, nil
		}}, nil
	}
	return nil, nil
}

type effectObject struct {
	tengo.ObjectImpl
	effect Effect
}

func (o *effectObject) TypeName() string { return "effect" }

func (o *effectObject) String() string { return fmt.Sprintf("effect(%s)", o.effect.Name()) }

func (o *effectObject) Copy() tengo.Object { return &effectObject{effect: o.effect} }

func (o *effectObject) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	switch key {
	case "name":
		return &tengo.String{Value: o.effect.Name()}, nil
	case "expired":
		return boolObject(o.effect.Expired()), nil
	}
	return nil, nil
}

type projectileObject struct {
	tengo.ObjectImpl
	projectile *Projectile
}

func (o *projectileObject) TypeName() string { return "projectile" }

func (o *projectileObject) String() string {
	return fmt.Sprintf("projectile(%v -> %v)", o.projectile.Owner, o.projectile.Target)
}

func (o *projectileObject) Copy() tengo.Object { return &projectileObject{projectile: o.projectile} }

func (o *projectileObject) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	switch key {
	case "facing":
		return &tengo.String{Value: o.projectile.Facing.String()}, nil
	case "speed":
		return &tengo.Float{Value: o.projectile.Speed}, nil
	case "position":
		return pointObject(o.projectile.Position), nil
	}
	return nil, nil
}

type framesObject struct {
	tengo.ObjectImpl
	frames   []component.Frame
	ticksPer int
}

func (o *framesObject) TypeName() string { return "frames" }

func (o *framesObject) String() string { return fmt.Sprintf("frames(%d)", len(o.frames)) }

func (o *framesObject) Copy() tengo.Object {
	return &framesObject{frames: o.frames, ticksPer: o.ticksPer}
}

func (o *framesObject) IndexGet(index tengo.Object) (tengo.Object, error) {
	key, ok := tengo.ToString(index)
	if !ok {
		return nil, tengo.ErrInvalidIndexType
	}
	if key == "count" {
		return &tengo.Int{Value: int64(len(o.frames))}, nil
	}
	return nil, nil
}

func pointObject(p common.Point) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: p.X}, &tengo.Float{Value: p.Y}}}
}

// toPoint accepts [x, y] or a unit, which stands for its centre.
func toPoint(name string, obj tengo.Object) (common.Point, error) {
	switch v := obj.(type) {
	case *unitObject:
		c, ok := v.b.world.Centre(v.entity)
		if !ok {
			return common.Point{}, stale("%s %v", name, v.entity)
		}
		return c, nil
	case *tengo.Array:
		x, y, ok := pair(v.Value)
		if !ok {
			return common.Point{}, argError(name, "[x, y]", obj)
		}
		return common.Pt(x, y), nil
	case *tengo.ImmutableArray:
		x, y, ok := pair(v.Value)
		if !ok {
			return common.Point{}, argError(name, "[x, y]", obj)
		}
		return common.Pt(x, y), nil
	}
	return common.Point{}, argError(name, "[x, y]", obj)
}

func toSize(name string, obj tengo.Object) (common.Size, error) {
	if arr, ok := obj.(*tengo.Array); ok {
		if w, h, ok := pair(arr.Value); ok {
			return common.Sz(w, h), nil
		}
	}
	return common.Size{}, argError(name, "[w, h]", obj)
}

func pair(values []tengo.Object) (float64, float64, bool) {
	if len(values) != 2 {
		return 0, 0, false
	}
	a, ok := tengo.ToFloat64(values[0])
	if !ok {
		return 0, 0, false
	}
	b, ok := tengo.ToFloat64(values[1])
	if !ok {
		return 0, 0, false
	}
	return a, b, true
}

func argError(name, expected string, found tengo.Object) error {
	typ := "undefined"
	if found != nil {
		typ = found.TypeName()
	}
	return tengo.ErrInvalidArgumentType{Name: name, Expected: expected, Found: typ}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
