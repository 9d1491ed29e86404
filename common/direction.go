package common

import (
	"fmt"
	"math"
	"strings"
)

// Direction is a discrete facing used to pick directional animation frames.
type Direction int

const (
	South Direction = iota
	West
	North
	East
)

// Directions lists every facing in declaration order.
var Directions = []Direction{South, West, North, East}

var directionNames = map[Direction]string{
	South: "south",
	West:  "west",
	North: "north",
	East:  "east",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection maps a name produced by String back to a Direction.
// "up", "down", "left" and "right" are accepted as aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "south", "down":
		return South, nil
	case "west", "left":
		return West, nil
	case "north", "up":
		return North, nil
	case "east", "right":
		return East, nil
	}
	return South, fmt.Errorf("common: unknown direction %q", s)
}

// Vector returns the unit step for d with +Y pointing south.
func (d Direction) Vector() Point {
	switch d {
	case West:
		return Point{X: -1}
	case North:
		return Point{Y: -1}
	case East:
		return Point{X: 1}
	default:
		return Point{Y: 1}
	}
}

// Between returns the facing from origin toward dest. The dominant axis wins
// and exact diagonals resolve horizontally. Equal points face South.
func Between(origin, dest Point) Direction {
	dx := dest.X - origin.X
	dy := dest.Y - origin.Y
	if dx == 0 && dy == 0 {
		return South
	}
	if math.Abs(dx) >= math.Abs(dy) {
		if dx > 0 {
			return East
		}
		return West
	}
	if dy > 0 {
		return South
	}
	return North
}
