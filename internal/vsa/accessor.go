// Package vsa clusters the faces of a triangle mesh into planar regions
// (proxies) with Variational Shape Approximation.
//
// The package never owns the mesh. Geometry and adjacency are read through a
// MeshAccessor, rebuilt into a FaceGraph on every operation, and only the
// encoded seed array and per-face labels survive between operations.
package vsa

import "gonum.org/v1/gonum/spatial/r3"

// MeshAccessor is the read-only view of a host mesh. Every query takes an
// index and returns plain values; implementations must not keep per-query
// cursor state. Face vertex lists are counter-clockwise seen from outside.
type MeshAccessor interface {
	NumFaces() int
	NumVertices() int

	FaceVertices(f int) []int
	// FaceNeighbors returns the faces sharing an edge with f, one entry per
	// face edge in vertex order, -1 for an open edge.
	FaceNeighbors(f int) []int
	FaceArea(f int) float64
	FaceNormal(f int) r3.Vec
	FaceCentroid(f int) r3.Vec

	VertexPosition(v int) r3.Vec
	VertexNeighbors(v int) []int
	VertexFaces(v int) []int

	// HalfEdgeFace returns the face that owns the directed edge (a, b),
	// or -1 when no face does.
	HalfEdgeFace(a, b int) int
}
