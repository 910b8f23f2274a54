package physics

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	if got := Distance(0, 0, 3, 4); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
	if got := DistanceSquared(0, 0, 3, 4); got != 25 {
		t.Errorf("DistanceSquared = %v, want 25", got)
	}
}

func TestCirclesOverlap(t *testing.T) {
	if !CirclesOverlap(0, 0, 2, 3, 0, 2) {
		t.Error("touching interiors should overlap")
	}
	if CirclesOverlap(0, 0, 1, 3, 0, 1) {
		t.Error("separated circles should not overlap")
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, min, max, want float64 }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.min, c.max); got != c.want {
			t.Errorf("Clamp(%v,%v,%v) = %v, want %v", c.v, c.min, c.max, got, c.want)
		}
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{MaxX: 10, MaxY: 10}
	in := r.Inset(2)
	if in.MinX != 2 || in.MinY != 2 || in.MaxX != 8 || in.MaxY != 8 {
		t.Errorf("Inset(2) = %+v", in)
	}

	// Over-inset collapses to the center, never inverts.
	deg := r.Inset(50)
	if deg.MinX != 5 || deg.MaxX != 5 || deg.MinY != 5 || deg.MaxY != 5 {
		t.Errorf("Inset(50) = %+v, want collapsed center", deg)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{MaxX: 10, MaxY: 10}
	if !r.Contains(5, 5, 0) {
		t.Error("center should be contained")
	}
	if r.Contains(11, 5, 0) {
		t.Error("outside point contained without tolerance")
	}
	if !r.Contains(11, 5, 1.5) {
		t.Error("tolerance window should admit nearby point")
	}
}

func TestRectClampPoint(t *testing.T) {
	r := Rect{MaxX: 10, MaxY: 10}
	x, y := r.ClampPoint(-3, 15)
	if x != 0 || y != 10 {
		t.Errorf("ClampPoint = (%v,%v), want (0,10)", x, y)
	}
}

func TestRayExitDistance(t *testing.T) {
	r := Rect{MaxX: 10, MaxY: 10}

	if got := r.RayExitDistance(5, 5, 1, 0); got != 5 {
		t.Errorf("ray +x from center: %v, want 5", got)
	}
	if got := r.RayExitDistance(5, 5, 0, -1); got != 5 {
		t.Errorf("ray -y from center: %v, want 5", got)
	}

	// Diagonal from the corner region.
	d := math.Sqrt2 / 2
	got := r.RayExitDistance(2, 2, d, d)
	want := 8 / d
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("diagonal exit: %v, want %v", got, want)
	}

	if got := r.RayExitDistance(20, 5, 1, 0); got != 0 {
		t.Errorf("origin outside rect: %v, want 0", got)
	}
	if got := r.RayExitDistance(5, 5, 0, 0); got != 0 {
		t.Errorf("degenerate direction: %v, want 0", got)
	}
}
