package component

// Attacker lets a unit resolve attacks on its own: every Cooldown ticks it
// picks the nearest hostile unit within Range (the nearest ally when
// Friendly is set) and resolves AttackType against it.
type Attacker struct {
	AttackType string
	Damage     float64
	Range      float64
	Cooldown   int
	// Timer counts down to the next attack.
	Timer int
	// Area turns the attack into a splash of this radius around the target.
	Area float64
	// Chain adds this many extra jumps to the nearest unit after the target.
	Chain int
	// Friendly attacks target allies, such as buffs.
	Friendly bool

	EffectName     string
	EffectStat     string
	EffectAdd      float64
	EffectScale    float64
	EffectDuration int
}

var AttackerComponent = NewComponent[Attacker]()
