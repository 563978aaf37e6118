// Package mesh provides an in-memory indexed polygon mesh with the adjacency
// queries and writable attributes the remesher expects from a host
// application.
package mesh

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/pkg/math"
)

// Mesh construction errors.
var (
	ErrVertexIndex     = errors.New("vertex index out of range")
	ErrDegenerateFace  = errors.New("degenerate face")
	ErrNonManifoldEdge = errors.New("directed edge used by more than one face")
	ErrAttributeSize   = errors.New("attribute length does not match face count")
	ErrFaceIndex       = errors.New("face index out of range")
)

type edgeKey [2]int

// Mesh is an indexed polygon mesh. Faces list vertex indices counter-clockwise
// seen from outside. Holes holds extra hole loops per face.
type Mesh struct {
	Positions []r3.Vec
	Faces     [][]int
	Holes     map[int][][]int

	edgeFace        map[edgeKey]int
	vertexNeighbors [][]int
	vertexFaces     [][]int

	labels        []int
	colors        [][3]float32
	seedBlob      []byte
	displayColors bool
}

// New builds a mesh and its adjacency. The slices are used as given.
func New(positions []r3.Vec, faces [][]int) (*Mesh, error) {
	m := &Mesh{Positions: positions, Faces: faces}
	if err := m.buildAdjacency(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mesh) buildAdjacency() error {
	nv := len(m.Positions)
	edgeFace := make(map[edgeKey]int)
	neighbors := make([]map[int]struct{}, nv)
	vertexFaces := make([][]int, nv)

	for f, verts := range m.Faces {
		if len(verts) < 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrDegenerateFace, f, len(verts))
		}
		for _, a := range verts {
			if a < 0 || a >= nv {
				return fmt.Errorf("%w: face %d references vertex %d", ErrVertexIndex, f, a)
			}
		}
		for i, a := range verts {
			b := verts[(i+1)%len(verts)]
			if a == b {
				return fmt.Errorf("%w: face %d repeats vertex %d", ErrDegenerateFace, f, a)
			}
			key := edgeKey{a, b}
			if other, ok := edgeFace[key]; ok {
				return fmt.Errorf("%w: %d->%d in faces %d and %d", ErrNonManifoldEdge, a, b, other, f)
			}
			edgeFace[key] = f

			if neighbors[a] == nil {
				neighbors[a] = make(map[int]struct{})
			}
			if neighbors[b] == nil {
				neighbors[b] = make(map[int]struct{})
			}
			neighbors[a][b] = struct{}{}
			neighbors[b][a] = struct{}{}

			if n := len(vertexFaces[a]); n == 0 || vertexFaces[a][n-1] != f {
				vertexFaces[a] = append(vertexFaces[a], f)
			}
		}
	}

	m.edgeFace = edgeFace
	m.vertexFaces = vertexFaces
	m.vertexNeighbors = make([][]int, nv)
	for v, set := range neighbors {
		list := make([]int, 0, len(set))
		for u := range set {
			list = append(list, u)
		}
		sort.Ints(list)
		m.vertexNeighbors[v] = list
	}
	return nil
}

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int { return len(m.Faces) }

// NumVertices returns the number of vertices.
func (m *Mesh) NumVertices() int { return len(m.Positions) }

// FaceVertices returns the vertex loop of face f.
func (m *Mesh) FaceVertices(f int) []int {
	if f < 0 || f >= len(m.Faces) {
		return nil
	}
	return m.Faces[f]
}

// FaceNeighbors returns, per edge of f, the face across it or -1.
func (m *Mesh) FaceNeighbors(f int) []int {
	verts := m.FaceVertices(f)
	out := make([]int, len(verts))
	for i, a := range verts {
		b := verts[(i+1)%len(verts)]
		out[i] = m.HalfEdgeFace(b, a)
	}
	return out
}

// newell returns the Newell normal of face f, whose length is twice the
// polygon area.
func (m *Mesh) newell(f int) r3.Vec {
	verts := m.FaceVertices(f)
	var n r3.Vec
	for i, a := range verts {
		p := m.Positions[a]
		q := m.Positions[verts[(i+1)%len(verts)]]
		n.X += (p.Y - q.Y) * (p.Z + q.Z)
		n.Y += (p.Z - q.Z) * (p.X + q.X)
		n.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	return n
}

// FaceArea returns the area of face f.
func (m *Mesh) FaceArea(f int) float64 {
	return r3.Norm(m.newell(f)) / 2
}

// FaceNormal returns the unit normal of face f.
func (m *Mesh) FaceNormal(f int) r3.Vec {
	return math.Unit(m.newell(f))
}

// FaceCentroid returns the average of the vertices of face f.
func (m *Mesh) FaceCentroid(f int) r3.Vec {
	verts := m.FaceVertices(f)
	points := make([]r3.Vec, len(verts))
	for i, v := range verts {
		points[i] = m.Positions[v]
	}
	return math.Centroid(points...)
}

// VertexPosition returns the position of vertex v.
func (m *Mesh) VertexPosition(v int) r3.Vec {
	if v < 0 || v >= len(m.Positions) {
		return r3.Vec{}
	}
	return m.Positions[v]
}

// VertexNeighbors returns the vertices sharing an edge with v, ascending.
func (m *Mesh) VertexNeighbors(v int) []int {
	if v < 0 || v >= len(m.vertexNeighbors) {
		return nil
	}
	return m.vertexNeighbors[v]
}

// VertexFaces returns the faces using vertex v.
func (m *Mesh) VertexFaces(v int) []int {
	if v < 0 || v >= len(m.vertexFaces) {
		return nil
	}
	return m.vertexFaces[v]
}

// HalfEdgeFace returns the face owning the directed edge (a, b), or -1.
func (m *Mesh) HalfEdgeFace(a, b int) int {
	if f, ok := m.edgeFace[edgeKey{a, b}]; ok {
		return f
	}
	return -1
}

// IsBoundaryEdge reports whether the undirected edge {a, b} exists and has a
// face on one side only.
func (m *Mesh) IsBoundaryEdge(a, b int) bool {
	ab, ba := m.HalfEdgeFace(a, b), m.HalfEdgeFace(b, a)
	return (ab < 0) != (ba < 0)
}
