package math

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Unit returns v scaled to unit length. Unlike r3.Unit the zero vector maps
// to itself.
func Unit(v r3.Vec) r3.Vec {
	l := r3.Norm(v)
	if l == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/l, v)
}

// Centroid returns the average of the given points.
func Centroid(points ...r3.Vec) r3.Vec {
	if len(points) == 0 {
		return r3.Vec{}
	}
	var sum r3.Vec
	for _, p := range points {
		sum = r3.Add(sum, p)
	}
	return r3.Scale(1/float64(len(points)), sum)
}

// DistanceToLine returns the distance from p to the infinite line through a
// and b. When a and b coincide it is the distance from p to a.
func DistanceToLine(p, a, b r3.Vec) float64 {
	ab := r3.Sub(b, a)
	l := r3.Norm(ab)
	if l == 0 {
		return r3.Norm(r3.Sub(p, a))
	}
	return r3.Norm(r3.Cross(r3.Sub(p, a), ab)) / l
}

// ProjectToPlane returns p moved along normal n onto the plane through
// centroid c. n must be unit length.
func ProjectToPlane(p, n, c r3.Vec) r3.Vec {
	d := r3.Dot(r3.Sub(p, c), n)
	return r3.Sub(p, r3.Scale(d, n))
}

// PlaneBasis returns two unit vectors spanning the plane orthogonal to n.
func PlaneBasis(n r3.Vec) (u, v r3.Vec) {
	n = Unit(n)
	// Pick the world axis least aligned with n.
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	var axis r3.Vec
	switch {
	case ax <= ay && ax <= az:
		axis = r3.Vec{X: 1}
	case ay <= az:
		axis = r3.Vec{Y: 1}
	default:
		axis = r3.Vec{Z: 1}
	}
	u = Unit(r3.Cross(n, axis))
	v = r3.Cross(n, u)
	return u, v
}

// ToPlane expresses points in the 2D coordinate frame of the plane with
// normal n through origin. The frame is right-handed around n, so loops that
// wind counter-clockwise about n keep a positive signed area.
func ToPlane(points []r3.Vec, n, origin r3.Vec) []Vec2 {
	u, v := PlaneBasis(n)
	out := make([]Vec2, len(points))
	for i, p := range points {
		d := r3.Sub(p, origin)
		out[i] = Vec2{X: r3.Dot(d, u), Y: r3.Dot(d, v)}
	}
	return out
}
