// Package math provides the small amount of geometry the remesher needs on top
// of gonum's r3 vectors: planar coordinates, distances and polygon tests.
package math

import "math"

// Vec2 is a 2D vector, used for points projected into a plane.
type Vec2 struct {
	X, Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Scale returns v * scalar.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other.
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns the distance to another point.
func (v Vec2) Distance(other Vec2) float64 {
	return v.Sub(other).Length()
}

// orient returns the signed area sign of the triangle (a, b, c):
// 1 for counter-clockwise, -1 for clockwise and 0 for colinear points.
func orient(a, b, c Vec2, eps float64) int {
	d := b.Sub(a).Cross(c.Sub(a))
	switch {
	case d > eps:
		return 1
	case d < -eps:
		return -1
	default:
		return 0
	}
}

// onSegment reports whether p, known to be colinear with (a, b), lies within
// the segment's bounding box.
func onSegment(a, b, p Vec2) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// SegmentsIntersect reports whether the closed segments (a, b) and (c, d)
// share at least one point.
func SegmentsIntersect(a, b, c, d Vec2) bool {
	const eps = 1e-12
	o1 := orient(a, b, c, eps)
	o2 := orient(a, b, d, eps)
	o3 := orient(c, d, a, eps)
	o4 := orient(c, d, b, eps)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(a, b, c) {
		return true
	}
	if o2 == 0 && onSegment(a, b, d) {
		return true
	}
	if o3 == 0 && onSegment(c, d, a) {
		return true
	}
	if o4 == 0 && onSegment(c, d, b) {
		return true
	}
	return false
}

// SignedArea returns the signed area of a closed polygon,
// positive when the vertices wind counter-clockwise.
func SignedArea(poly []Vec2) float64 {
	var sum float64
	for i := range poly {
		j := (i + 1) % len(poly)
		sum += poly[i].Cross(poly[j])
	}
	return sum / 2
}

// IsSimplePolygon reports whether the closed polygon has at least three
// vertices and no two non-adjacent edges touch.
func IsSimplePolygon(poly []Vec2) bool {
	n := len(poly)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if a == b {
			return false
		}
		for j := i + 1; j < n; j++ {
			// Adjacent edges share an endpoint by construction.
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if SegmentsIntersect(a, b, poly[j], poly[(j+1)%n]) {
				return false
			}
		}
	}
	return true
}
