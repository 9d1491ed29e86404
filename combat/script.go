package combat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/prefabs"
)

// Modules scripts may import. Nothing that touches the host is exposed.
var scriptModules = []string{"math", "text", "fmt", "enum"}

const scriptDispatch = `
if __run {
	apply(__owner, __target, __attack, __world)
}
`

var ErrScriptNoApply = errors.New("combat: script does not define apply")

// ScriptOptions limit what one script run may consume.
type ScriptOptions struct {
	// MaxAllocs caps object allocations per run; 0 means unlimited.
	MaxAllocs int64
	// Timeout bounds a run in wall time; 0 means unbounded.
	Timeout time.Duration
	Sheets  SheetLookup
}

// ScriptRoutine runs a tengo script that defines
//
//	apply := func(owner, target, attack, world) { ... }
//
// The script sees the same capabilities as Go routines through the
// bindings in bindings.go.
type ScriptRoutine struct {
	name     string
	compiled *tengo.Compiled
	opts     ScriptOptions
}

// LoadScriptRoutine compiles a script from prefabs/scripts.
func LoadScriptRoutine(file string, opts ScriptOptions) (*ScriptRoutine, error) {
	src, err := prefabs.LoadScript(file)
	if err != nil {
		return nil, fmt.Errorf("combat: load script %s: %w", file, err)
	}
	return NewScriptRoutine(file, src, opts)
}

// NewScriptRoutine compiles src and checks that it defines apply.
func NewScriptRoutine(name string, src []byte, opts ScriptOptions) (*ScriptRoutine, error) {
	full := string(src) + "\n" + scriptDispatch
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__run", false)
	_ = script.Add("__owner", nil)
	_ = script.Add("__target", nil)
	_ = script.Add("__attack", nil)
	_ = script.Add("__world", nil)
	script.SetImports(stdlib.GetModuleMap(scriptModules...))
	if opts.MaxAllocs > 0 {
		script.SetMaxAllocs(opts.MaxAllocs)
	}

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("combat: compile script %s: %w", name, err)
	}

	// A dry run defines the script's globals without calling apply.
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("combat: init script %s: %w", name, err)
	}
	if !compiled.IsDefined("apply") {
		return nil, fmt.Errorf("%s: %w", name, ErrScriptNoApply)
	}

	return &ScriptRoutine{name: name, compiled: compiled, opts: opts}, nil
}

func (r *ScriptRoutine) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}

func (r *ScriptRoutine) Apply(owner ecs.Entity, target Target, attack *Attack, w *World) error {
	if r == nil || r.compiled == nil {
		return fmt.Errorf("combat: nil script routine")
	}
	if attack == nil {
		return ErrNilAttack
	}
	if target == nil {
		target = UnitTarget{}
	}

	b := &bindings{world: w, sheets: r.opts.Sheets}
	globals := map[string]tengo.Object{
		"__run":    tengo.TrueValue,
		"__owner":  b.unit(owner),
		"__target": &targetObject{b: b, target: target},
		"__attack": &attackObject{b: b, attack: attack},
		"__world":  b.worldObject(),
	}
	for name, value := range globals {
		if err := r.compiled.Set(name, value); err != nil {
			return err
		}
	}
	defer r.reset()

	if r.opts.Timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.opts.Timeout)
		defer cancel()
		return scriptError(r.name, r.compiled.RunContext(ctx))
	}
	return scriptError(r.name, r.compiled.Run())
}

// reset drops references to the world so a reloaded registry does not keep
// an old session alive through the compiled globals.
func (r *ScriptRoutine) reset() {
	_ = r.compiled.Set("__run", false)
	for _, name := range []string{"__owner", "__target", "__attack", "__world"} {
		_ = r.compiled.Set(name, nil)
	}
}

func scriptError(name string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return &scriptFailure{script: name, msg: msg, err: err}
}

// scriptFailure keeps the tengo error chain but prints only its first line;
// the stack positions follow in the wrapped error.
type scriptFailure struct {
	script string
	msg    string
	err    error
}

func (e *scriptFailure) Error() string {
	return fmt.Sprintf("script %s: %s", e.script, e.msg)
}

func (e *scriptFailure) Unwrap() error {
	return e.err
}
