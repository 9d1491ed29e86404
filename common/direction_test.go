package common

import "testing"

func TestBetween(t *testing.T) {
	cases := []struct {
		name   string
		origin Point
		dest   Point
		want   Direction
	}{
		{"east", Pt(0, 0), Pt(5, 0), East},
		{"west", Pt(0, 0), Pt(-3, 1), West},
		{"south", Pt(0, 0), Pt(1, 4), South},
		{"north", Pt(2, 2), Pt(2, -7), North},
		{"same_point_defaults_south", Pt(3, 3), Pt(3, 3), South},
		{"diagonal_prefers_east", Pt(0, 0), Pt(2, 2), East},
		{"diagonal_prefers_west", Pt(0, 0), Pt(-2, -2), West},
		{"fractional", Pt(0.5, 0.5), Pt(0.6, 3.5), South},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Between(c.origin, c.dest); got != c.want {
				t.Fatalf("Between(%v, %v) = %v, want %v", c.origin, c.dest, got, c.want)
			}
		})
	}
}

func TestBetweenIsAlwaysEnumerated(t *testing.T) {
	valid := make(map[Direction]bool, len(Directions))
	for _, d := range Directions {
		valid[d] = true
	}
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			d := Between(Pt(0, 0), Pt(float64(x), float64(y)))
			if !valid[d] {
				t.Fatalf("Between returned %v for (%d, %d)", d, x, y)
			}
		}
	}
}

func TestParseDirection(t *testing.T) {
	for _, d := range Directions {
		got, err := ParseDirection(d.String())
		if err != nil {
			t.Fatalf("ParseDirection(%q) error: %v", d.String(), err)
		}
		if got != d {
			t.Fatalf("ParseDirection(%q) = %v", d.String(), got)
		}
	}
	if d, err := ParseDirection("Right"); err != nil || d != East {
		t.Fatalf("alias right: got %v, %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
}

func TestMoveToward(t *testing.T) {
	p, arrived := Pt(0, 0).MoveToward(Pt(10, 0), 4)
	if arrived || p != Pt(4, 0) {
		t.Fatalf("expected (4, 0) not arrived, got %v %v", p, arrived)
	}
	p, arrived = Pt(9, 0).MoveToward(Pt(10, 0), 4)
	if !arrived || p != Pt(10, 0) {
		t.Fatalf("expected arrival at (10, 0), got %v %v", p, arrived)
	}
}
