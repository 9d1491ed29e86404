package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LoadSpec decodes the named YAML prefab into T.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type SizeSpec struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// RoutineSpec binds one attack type to a routine. Kind selects the routine
// and the remaining fields configure it.
type RoutineSpec struct {
	Kind   string `yaml:"kind"`
	Script string `yaml:"script"`

	Sheet      string   `yaml:"sheet"`
	Flight     string   `yaml:"flight"`
	Impact     string   `yaml:"impact"`
	Size       SizeSpec `yaml:"size"`
	Hitbox     SizeSpec `yaml:"hitbox"`
	ImpactSize SizeSpec `yaml:"impact_size"`
	Speed      float64  `yaml:"speed"`
}

// AttacksSpec is the attack type registration table.
type AttacksSpec struct {
	// MaxAllocs caps tengo allocations per script run; 0 means unlimited.
	MaxAllocs int64 `yaml:"max_allocs"`
	// TimeoutMS bounds one script run in wall time; 0 means no bound.
	TimeoutMS int                    `yaml:"timeout_ms"`
	Routines  map[string]RoutineSpec `yaml:"routines"`
}

const AttacksFile = "attacks.yaml"

func LoadAttacksSpec() (*AttacksSpec, error) {
	spec, err := LoadSpec[AttacksSpec](AttacksFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SequenceSpec struct {
	Name          string `yaml:"name"`
	Row           int    `yaml:"row"`
	Column        int    `yaml:"column"`
	Count         int    `yaml:"count"`
	TicksPerFrame int    `yaml:"ticks_per_frame"`
	Loop          bool   `yaml:"loop"`
	// Directional sequences take four consecutive rows starting at Row, in
	// south, west, north, east order.
	Directional bool `yaml:"directional"`
}

type SheetSpec struct {
	Name      string         `yaml:"name"`
	Image     string         `yaml:"image"`
	FrameW    int            `yaml:"frame_w"`
	FrameH    int            `yaml:"frame_h"`
	Sequences []SequenceSpec `yaml:"sequences"`
}

type SheetsSpec struct {
	Sheets []SheetSpec `yaml:"sheets"`
}

const SheetsFile = "sheets.yaml"

func LoadSheetsSpec() (*SheetsSpec, error) {
	spec, err := LoadSpec[SheetsSpec](SheetsFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type EffectSpec struct {
	Name     string  `yaml:"name"`
	Stat     string  `yaml:"stat"`
	Add      float64 `yaml:"add"`
	Scale    float64 `yaml:"scale"`
	Duration int     `yaml:"duration"`
}

type AttackerSpec struct {
	Type     string      `yaml:"type"`
	Damage   float64     `yaml:"damage"`
	Range    float64     `yaml:"range"`
	Cooldown int         `yaml:"cooldown"`
	Area     float64     `yaml:"area"`
	Chain    int         `yaml:"chain"`
	Friendly bool        `yaml:"friendly"`
	Effect   *EffectSpec `yaml:"effect"`
}

type UnitSpec struct {
	Name   string        `yaml:"name"`
	Team   string        `yaml:"team"`
	X      float64       `yaml:"x"`
	Y      float64       `yaml:"y"`
	Radius float64       `yaml:"radius"`
	Health float64       `yaml:"health"`
	Speed  float64       `yaml:"speed"`
	Attack *AttackerSpec `yaml:"attack"`
}

// ArenaSpec describes a scenario: a map size and the units on it.
type ArenaSpec struct {
	Name   string     `yaml:"name"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Units  []UnitSpec `yaml:"units"`
}

func LoadArenaSpec(filename string) (*ArenaSpec, error) {
	if filename == "" {
		filename = "arena.yaml"
	}
	spec, err := LoadSpec[ArenaSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
