// Package geometry holds the stateless 2D helpers used by the document model
// and the tool state machine. Units are whatever the caller works in: inches
// for documents, pixels for canvas gestures.
package geometry

import "math"

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle returns the direction of the segment a→b in degrees, in (-180, 180].
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
}

// PointAt returns the point at fraction t along a→b. t is not clamped.
func PointAt(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Clamp01 clamps v into [0, 1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Snap rounds v to the nearest multiple of increment.
// A non-positive increment returns v unchanged.
func Snap(v, increment float64) float64 {
	if increment <= 0 {
		return v
	}
	return math.Round(v/increment) * increment
}

// SnapPoint snaps each axis independently to the increment grid.
func SnapPoint(p Point, increment float64) Point {
	return Point{X: Snap(p.X, increment), Y: Snap(p.Y, increment)}
}

// Project returns the clamped fraction along a→b of the point on the segment
// closest to p, and the distance from p to that point.
// A degenerate segment projects everything onto a (fraction 0).
func Project(p, a, b Point) (t float64, dist float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0, Distance(p, a)
	}
	t = Clamp01(((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq)
	return t, Distance(p, PointAt(a, b, t))
}
