package vsa

import (
	"fmt"

	"go.uber.org/multierr"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/pkg/math"
)

// Unlabeled marks a face that no proxy has claimed.
const Unlabeled = -1

// MeshFace caches the geometry and adjacency of one triangle.
type MeshFace struct {
	Index      int
	Centroid   r3.Vec
	Normal     r3.Vec // Unit length
	Area       float64
	Neighbors  [3]int // One per edge, -1 on an open edge
	IsBoundary bool   // Synthetic face standing in for an open boundary
	Label      int
}

// LabelColor returns the display color of a proxy label. Colors are a fixed
// hash of the label so a region keeps its color across operations; unlabeled
// faces are black. Channels are RGB in [0, 1).
func LabelColor(label int) [3]float32 {
	if label < 0 {
		return [3]float32{}
	}
	h := 3048260799447986477*uint64(label) + 1110414738616293511
	const mask = 1<<16 - 1
	const base = float32(1 << 16)
	return [3]float32{
		float32(h&mask) / base,
		float32((h>>16)&mask) / base,
		float32((h>>32)&mask) / base,
	}
}

// FaceGraph is the per-operation face table built from a MeshAccessor.
type FaceGraph struct {
	Mesh  MeshAccessor
	Faces []MeshFace
}

// BuildFaceGraph reads every face of the mesh. All non-triangular faces are
// reported together in one InputError.
func BuildFaceGraph(mesh MeshAccessor) (*FaceGraph, error) {
	const op = "build face graph"

	n := mesh.NumFaces()
	if n == 0 {
		return nil, Wrap(InputError, op, ErrEmptyMesh)
	}

	g := &FaceGraph{Mesh: mesh, Faces: make([]MeshFace, n)}
	var errs error
	for f := 0; f < n; f++ {
		if k := len(mesh.FaceVertices(f)); k != 3 {
			errs = multierr.Append(errs, fmt.Errorf("face %d has %d vertices: %w", f, k, ErrNotTriangulated))
			continue
		}

		face := MeshFace{
			Index:     f,
			Centroid:  mesh.FaceCentroid(f),
			Normal:    math.Unit(mesh.FaceNormal(f)),
			Area:      mesh.FaceArea(f),
			Neighbors: [3]int{-1, -1, -1},
			Label:     Unlabeled,
		}
		for i, nb := range mesh.FaceNeighbors(f) {
			if i == 3 {
				break
			}
			face.Neighbors[i] = nb
		}
		g.Faces[f] = face
	}
	if errs != nil {
		return nil, Wrap(InputError, op, errs)
	}
	return g, nil
}

// Len returns the number of faces.
func (g *FaceGraph) Len() int {
	return len(g.Faces)
}

// Label returns the label of face f, or Unlabeled for an index outside the
// graph (open boundary).
func (g *FaceGraph) Label(f int) int {
	if f < 0 || f >= len(g.Faces) {
		return Unlabeled
	}
	return g.Faces[f].Label
}

// ClearLabels marks every face unlabeled.
func (g *FaceGraph) ClearLabels() {
	for i := range g.Faces {
		g.Faces[i].Label = Unlabeled
	}
}

// Labels returns a copy of the per-face labels.
func (g *FaceGraph) Labels() []int {
	out := make([]int, len(g.Faces))
	for i := range g.Faces {
		out[i] = g.Faces[i].Label
	}
	return out
}

// SetLabels overwrites the per-face labels.
func (g *FaceGraph) SetLabels(labels []int) error {
	if len(labels) != len(g.Faces) {
		return Errorf(HostIOError, "set labels", "%w: %d labels for %d faces", ErrCorruptState, len(labels), len(g.Faces))
	}
	for i, l := range labels {
		g.Faces[i].Label = l
	}
	return nil
}

// Colors returns the display color of every face from its label.
func (g *FaceGraph) Colors() [][3]float32 {
	out := make([][3]float32, len(g.Faces))
	for i := range g.Faces {
		out[i] = LabelColor(g.Faces[i].Label)
	}
	return out
}

// Members returns the faces carrying label, in index order.
func (g *FaceGraph) Members(label int) []int {
	var out []int
	for i := range g.Faces {
		if g.Faces[i].Label == label {
			out = append(out, i)
		}
	}
	return out
}

// HalfEdge returns the directed edge (a, b) bound to this graph's mesh.
func (g *FaceGraph) HalfEdge(a, b int) HalfEdge {
	return HalfEdge{Begin: a, End: b, mesh: g.Mesh}
}

// FaceLabel returns the label of the face owning he, or Unlabeled when he lies
// on an open boundary.
func (g *FaceGraph) FaceLabel(he HalfEdge) int {
	return g.Label(he.Face())
}

// IsBorder reports whether he is a border half-edge of the proxy with the
// given label: its face belongs to the proxy and its twin is either an open
// boundary or owned by another region.
func (g *FaceGraph) IsBorder(he HalfEdge, label int) bool {
	if !he.Valid() || he.IsBoundary() {
		return false
	}
	if g.FaceLabel(he) != label {
		return false
	}
	twin := he.Twin()
	return twin.IsBoundary() || g.FaceLabel(twin) != label
}
