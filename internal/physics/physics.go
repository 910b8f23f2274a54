// Package physics provides collision detection, distance, and boundary
// geometry utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// Clamp limits v to the range [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Rect is an axis-aligned rectangle: [MinX, MaxX] x [MinY, MaxY].
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Inset returns the rectangle shrunk by d on every side.
// If the inset would invert the rectangle, the degenerate center line is returned.
func (r Rect) Inset(d float64) Rect {
	out := Rect{MinX: r.MinX + d, MinY: r.MinY + d, MaxX: r.MaxX - d, MaxY: r.MaxY - d}
	if out.MinX > out.MaxX {
		mid := (r.MinX + r.MaxX) / 2
		out.MinX, out.MaxX = mid, mid
	}
	if out.MinY > out.MaxY {
		mid := (r.MinY + r.MaxY) / 2
		out.MinY, out.MaxY = mid, mid
	}
	return out
}

// Contains reports whether (x, y) lies inside the rectangle, with the
// given tolerance on every side.
func (r Rect) Contains(x, y, tolerance float64) bool {
	return x >= r.MinX-tolerance && x <= r.MaxX+tolerance &&
		y >= r.MinY-tolerance && y <= r.MaxY+tolerance
}

// ClampPoint snaps (x, y) into the rectangle.
func (r Rect) ClampPoint(x, y float64) (float64, float64) {
	return Clamp(x, r.MinX, r.MaxX), Clamp(y, r.MinY, r.MaxY)
}

// RayExitDistance returns the distance t at which the ray
// (ox, oy) + t*(dx, dy) leaves the rectangle, using the slab method.
// Returns 0 if the ray origin is outside the rectangle or the direction
// is degenerate. The direction need not be normalized; t is in units of
// the direction vector's length.
func (r Rect) RayExitDistance(ox, oy, dx, dy float64) float64 {
	if !r.Contains(ox, oy, 0) {
		return 0
	}

	tMax := math.Inf(1)

	if dx > 0 {
		tMax = math.Min(tMax, (r.MaxX-ox)/dx)
	} else if dx < 0 {
		tMax = math.Min(tMax, (r.MinX-ox)/dx)
	}

	if dy > 0 {
		tMax = math.Min(tMax, (r.MaxY-oy)/dy)
	} else if dy < 0 {
		tMax = math.Min(tMax, (r.MinY-oy)/dy)
	}

	if math.IsInf(tMax, 1) || tMax < 0 {
		return 0
	}
	return tMax
}
