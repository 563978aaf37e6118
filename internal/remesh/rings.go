// Package remesh turns a labelled face graph into one polygon per proxy:
// it traces the border rings of every region, places anchor vertices on
// them, refines the anchors until each border is well approximated, and
// builds the replacement geometry.
package remesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/isimp/internal/logger"
	"github.com/Faultbox/isimp/internal/vsa"
)

// borderEdges returns the border half-edges of the proxy with the given
// label, in ascending face order.
func borderEdges(g *vsa.FaceGraph, label int) []vsa.HalfEdge {
	var out []vsa.HalfEdge
	for i := range g.Faces {
		if g.Faces[i].Label != label {
			continue
		}
		verts := g.Mesh.FaceVertices(i)
		for k, a := range verts {
			he := g.HalfEdge(a, verts[(k+1)%len(verts)])
			if g.IsBorder(he, label) {
				out = append(out, he)
			}
		}
	}
	return out
}

// nextBorder returns the border half-edge that follows he around its region.
// It steps to the next edge of the face and, while that edge is interior to
// the region, swings across it to the next face around the shared vertex.
func nextBorder(g *vsa.FaceGraph, he vsa.HalfEdge, label int) (vsa.HalfEdge, bool) {
	limit := len(g.Mesh.VertexFaces(he.End)) + 1
	e := he.Next()
	for i := 0; i < limit; i++ {
		if !e.Valid() {
			return vsa.HalfEdge{}, false
		}
		if g.IsBorder(e, label) {
			return e, true
		}
		e = e.Twin().Next()
	}
	return vsa.HalfEdge{}, false
}

// TraceRings walks every closed border of proxy p. The rings come back
// sorted so the longest, the outer border, is first.
func TraceRings(g *vsa.FaceGraph, p *vsa.Proxy) ([]*vsa.BorderRing, error) {
	const op = "trace rings"

	edges := borderEdges(g, p.Label)
	if len(edges) == 0 {
		return nil, vsa.Errorf(vsa.AlgorithmicError, op, "%w: proxy %d", vsa.ErrNoBorder, p.Label)
	}

	visited := make(map[[2]int]bool, len(edges))
	var rings []*vsa.BorderRing
	total := 0
	for _, start := range edges {
		if visited[[2]int{start.Begin, start.End}] {
			continue
		}

		ring := &vsa.BorderRing{Label: p.Label}
		he := start
		for {
			key := [2]int{he.Begin, he.End}
			if visited[key] || len(ring.Edges) >= len(edges) {
				return nil, vsa.Errorf(vsa.AlgorithmicError, op,
					"%w: proxy %d from %v after %d edges", vsa.ErrRingNotClosed, p.Label, start, len(ring.Edges))
			}
			visited[key] = true
			ring.Edges = append(ring.Edges, he)

			next, ok := nextBorder(g, he, p.Label)
			if !ok {
				return nil, vsa.Errorf(vsa.AlgorithmicError, op,
					"%w: proxy %d has no border edge after %v", vsa.ErrRingNotClosed, p.Label, he)
			}
			if next.Equal(start) {
				break
			}
			he = next
		}
		rings = append(rings, ring)
		total += ring.Len()
	}

	if total != len(edges) {
		return nil, vsa.Errorf(vsa.AlgorithmicError, op,
			"%w: proxy %d rings hold %d of %d edges", vsa.ErrRingEdgeCount, p.Label, total, len(edges))
	}

	p.Rings = rings
	p.SortRings()
	return p.Rings, nil
}

// TraceAll traces the rings of every valid proxy.
func TraceAll(g *vsa.FaceGraph, ps *vsa.ProxySet, m *vsa.Metrics) error {
	log := logger.Named("remesh")
	for _, p := range ps.Valid() {
		rings, err := TraceRings(g, p)
		if err != nil {
			return err
		}
		m.AddRings(len(rings))
		if len(rings) > 1 {
			log.Debug("proxy has holes",
				zap.Int("proxy", p.Label),
				zap.Int("holes", len(rings)-1),
				zap.Int("outer_edges", rings[0].Len()))
		}
	}
	return nil
}
