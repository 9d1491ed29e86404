package component

import (
	"fmt"

	"github.com/milk9111/skirmish/common"
)

// LevelDivisor sets how much each level adds to a unit's base health:
// level n has n/LevelDivisor more.
const LevelDivisor = 10

// Team identifies which side a unit fights for.
type Team int

const (
	TeamNeutral Team = iota
	TeamPlayer
	TeamEnemy
)

func (t Team) String() string {
	switch t {
	case TeamPlayer:
		return "player"
	case TeamEnemy:
		return "enemy"
	case TeamNeutral:
		return "neutral"
	}
	return fmt.Sprintf("team(%d)", int(t))
}

// ParseTeam maps a config name to a Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "player":
		return TeamPlayer, nil
	case "enemy":
		return TeamEnemy, nil
	case "neutral", "":
		return TeamNeutral, nil
	}
	return TeamNeutral, fmt.Errorf("component: unknown team %q", s)
}

// CanAttack reports whether a unit on t may harm a unit on other.
func (t Team) CanAttack(other Team) bool {
	if t == TeamNeutral || other == TeamNeutral {
		return true
	}
	return t != other
}

// Unit is a combatant. Health reaching zero makes the unit a corpse that
// targeting ignores; the death system destroys it.
type Unit struct {
	Name      string
	Team      Team
	Health    float64
	MaxHealth float64
	// Radius of the hit circle used by targeting and projectile impact.
	Radius float64
	// Speed in map units per tick before effects.
	Speed float64
	// Facing is the direction of the unit's last attack.
	Facing common.Direction
	Level  int
	// BaseHealth is MaxHealth at level zero.
	BaseHealth float64
}

func (u *Unit) Dead() bool {
	return u == nil || u.Health <= 0
}

// TakeDamage lowers health and reports whether this hit killed the unit.
func (u *Unit) TakeDamage(amount float64) bool {
	if u.Dead() || amount <= 0 {
		return false
	}
	u.Health -= amount
	if u.Health <= 0 {
		u.Health = 0
		return true
	}
	return false
}

// Heal raises health by amount, capped at MaxHealth, and returns the health
// actually gained. Dead units stay dead.
func (u *Unit) Heal(amount float64) float64 {
	if u.Dead() || amount <= 0 {
		return 0
	}
	before := u.Health
	u.Health += amount
	if u.MaxHealth > 0 && u.Health > u.MaxHealth {
		u.Health = u.MaxHealth
	}
	return u.Health - before
}

// LevelUp raises the unit one level. MaxHealth grows from BaseHealth and the
// unit keeps the same fraction of health it had before.
func (u *Unit) LevelUp() {
	if u.Dead() {
		return
	}
	if u.BaseHealth <= 0 {
		u.BaseHealth = u.MaxHealth
	}
	frac := 1.0
	if u.MaxHealth > 0 {
		frac = u.Health / u.MaxHealth
	}
	u.Level++
	u.MaxHealth = u.BaseHealth * (1 + float64(u.Level)/LevelDivisor)
	u.Health = u.MaxHealth * frac
}

var UnitComponent = NewComponent[Unit]()
