package common

import (
	"fmt"
	"math"
)

// Point is a position on the map, in map units.
type Point struct {
	X float64
	Y float64
}

func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Translate returns p moved by (dx, dy).
func (p Point) Translate(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// DistanceTo returns the euclidean distance between p and o.
func (p Point) DistanceTo(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// MoveToward steps p toward dest by at most step. The bool is true when dest
// was reached.
func (p Point) MoveToward(dest Point, step float64) (Point, bool) {
	d := p.DistanceTo(dest)
	if d <= step || d == 0 {
		return dest, true
	}
	t := step / d
	return Point{X: Lerp(p.X, dest.X, t), Y: Lerp(p.Y, dest.Y, t)}, false
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
