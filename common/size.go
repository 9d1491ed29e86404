package common

// Size is a width/height extent in map units.
type Size struct {
	W float64
	H float64
}

func Sz(w, h float64) Size {
	return Size{W: w, H: h}
}

// Rect is an axis aligned box anchored at its top-left corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// RectAround returns the rect of size s centred on c.
func RectAround(c Point, s Size) Rect {
	return Rect{X: c.X - s.W/2, Y: c.Y - s.H/2, Width: s.W, Height: s.H}
}

func (r Rect) Centre() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

func (r *Rect) Intersects(other *Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}
