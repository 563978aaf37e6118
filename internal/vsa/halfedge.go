package vsa

import "fmt"

// HalfEdge is a directed mesh edge. It is a plain value: every query goes
// back to the accessor, so copies never go stale while the mesh is unchanged.
type HalfEdge struct {
	Begin, End int
	mesh       MeshAccessor
}

// NewHalfEdge returns the directed edge (begin, end) of mesh.
func NewHalfEdge(mesh MeshAccessor, begin, end int) HalfEdge {
	return HalfEdge{Begin: begin, End: end, mesh: mesh}
}

// Valid reports whether the edge joins two distinct vertices of a mesh.
func (h HalfEdge) Valid() bool {
	return h.mesh != nil && h.Begin >= 0 && h.End >= 0 && h.Begin != h.End
}

// Twin returns the oppositely directed edge.
func (h HalfEdge) Twin() HalfEdge {
	return HalfEdge{Begin: h.End, End: h.Begin, mesh: h.mesh}
}

// Face returns the face owning the edge, or -1 on an open boundary.
func (h HalfEdge) Face() int {
	if !h.Valid() {
		return -1
	}
	return h.mesh.HalfEdgeFace(h.Begin, h.End)
}

// IsBoundary reports whether no face owns the edge.
func (h HalfEdge) IsBoundary() bool {
	return h.Face() < 0
}

// Next returns the edge following h counter-clockwise around its face. A
// boundary edge has no face and yields the zero HalfEdge, which is not Valid.
func (h HalfEdge) Next() HalfEdge {
	f := h.Face()
	if f < 0 {
		return HalfEdge{}
	}
	verts := h.mesh.FaceVertices(f)
	n := len(verts)
	for i, v := range verts {
		if v == h.Begin && verts[(i+1)%n] == h.End {
			return HalfEdge{Begin: h.End, End: verts[(i+2)%n], mesh: h.mesh}
		}
	}
	return HalfEdge{}
}

// Equal reports whether both edges join the same vertices in the same
// direction.
func (h HalfEdge) Equal(other HalfEdge) bool {
	return h.Begin == other.Begin && h.End == other.End
}

func (h HalfEdge) String() string {
	return fmt.Sprintf("%d->%d", h.Begin, h.End)
}
