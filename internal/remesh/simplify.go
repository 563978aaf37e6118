package remesh

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/internal/logger"
	"github.com/Faultbox/isimp/internal/vsa"
	vmath "github.com/Faultbox/isimp/pkg/math"
)

// Simplifier refines the anchors of traced border rings.
type Simplifier struct {
	g   *vsa.FaceGraph
	ps  *vsa.ProxySet
	idx *AnchorIndex
	m   *vsa.Metrics
}

// NewSimplifier returns a simplifier over rings indexed by idx.
func NewSimplifier(g *vsa.FaceGraph, ps *vsa.ProxySet, idx *AnchorIndex, m *vsa.Metrics) *Simplifier {
	return &Simplifier{g: g, ps: ps, idx: idx, m: m}
}

// Refine first gives every ring at least three anchors where its shape
// allows, then splits each stretch between consecutive anchors while the
// split criterion exceeds threshold.
func (s *Simplifier) Refine(threshold float64) {
	for _, p := range s.ps.Valid() {
		for _, r := range p.Rings {
			s.seedRing(p, r)
		}
	}

	for _, p := range s.ps.Valid() {
		for _, r := range p.Rings {
			anchors := append([]int(nil), r.Anchors...)
			for i, a := range anchors {
				s.split(p, r, a, anchors[(i+1)%len(anchors)], threshold)
			}
		}
	}

	if ce := logger.Named("remesh").Check(zap.DebugLevel, "anchors refined"); ce != nil {
		ce.Write(zap.Int("anchors", len(s.idx.anchors)), zap.Float64("threshold", threshold))
	}
}

// seedRing tops up rings with fewer than three anchors: a ring without
// anchors gets its start vertex, a single anchor gets a partner half way
// round, and two anchors get one forced split.
func (s *Simplifier) seedRing(p *vsa.Proxy, r *vsa.BorderRing) {
	if r.Len() == 0 {
		return
	}
	if len(r.Anchors) == 0 {
		s.idx.Promote(r.Vertex(0))
	}
	if len(r.Anchors) == 1 {
		s.idx.Promote(r.Vertex(r.Anchors[0] + r.Len()/2))
	}
	if len(r.Anchors) == 2 {
		a, b := r.Anchors[0], r.Anchors[1]
		if !s.split(p, r, a, b, -1) {
			s.split(p, r, b, a, -1)
		}
	}
}

// split considers the ring stretch strictly between positions a and b and
// the vertex on it farthest from the line through both anchors. A negative
// threshold promotes that vertex unconditionally and does not recurse. It
// reports whether a vertex was promoted.
func (s *Simplifier) split(p *vsa.Proxy, r *vsa.BorderRing, a, b int, threshold float64) bool {
	n := r.Len()
	span := (b - a + n) % n
	if span == 0 {
		span = n
	}

	pa := s.g.Mesh.VertexPosition(r.Vertex(a))
	pb := s.g.Mesh.VertexPosition(r.Vertex(b))

	best, at := 0.0, -1
	for k := 1; k < span; k++ {
		pos := (a + k) % n
		if d := vmath.DistanceToLine(s.g.Mesh.VertexPosition(r.Vertex(pos)), pa, pb); d > best {
			best, at = d, pos
		}
	}
	if at < 0 {
		return false
	}

	if threshold < 0 {
		s.promote(r.Vertex(at))
		return true
	}

	criterion := math.Inf(1)
	if length := r3.Norm(r3.Sub(pb, pa)); length > 0 {
		criterion = best * s.sinNormals(p, r.Edges[at]) / length
	}
	if criterion <= threshold {
		return false
	}

	s.promote(r.Vertex(at))
	s.split(p, r, a, at, threshold)
	s.split(p, r, at, b, threshold)
	return true
}

func (s *Simplifier) promote(v int) {
	s.idx.Promote(v)
	s.m.AddSplit()
}

// sinNormals returns the sine of the angle between p and the region across
// he. Open boundaries and unowned regions count as perpendicular.
func (s *Simplifier) sinNormals(p *vsa.Proxy, he vsa.HalfEdge) float64 {
	twin := he.Twin()
	if twin.IsBoundary() {
		return 1
	}
	q, ok := s.ps.Get(s.g.FaceLabel(twin))
	if !ok || !q.Valid {
		return 1
	}
	return r3.Norm(r3.Cross(p.Normal, q.Normal))
}
