package remesh

import (
	"sort"

	"github.com/Faultbox/isimp/internal/vsa"
)

// openBoundary is the pseudo-label of an outgoing half-edge without a face.
const openBoundary = vsa.Unlabeled

type ringPos struct {
	ring *vsa.BorderRing
	pos  int
}

// AnchorIndex maps a mesh vertex to every ring position that leaves it, over
// all rings of all valid proxies.
type AnchorIndex struct {
	g       *vsa.FaceGraph
	refs    map[int][]ringPos
	anchors map[int]bool
	m       *vsa.Metrics
}

func newAnchorIndex(g *vsa.FaceGraph, ps *vsa.ProxySet, m *vsa.Metrics) *AnchorIndex {
	idx := &AnchorIndex{
		g:       g,
		refs:    make(map[int][]ringPos),
		anchors: make(map[int]bool),
		m:       m,
	}
	for _, p := range ps.Valid() {
		for _, r := range p.Rings {
			for pos, he := range r.Edges {
				idx.refs[he.Begin] = append(idx.refs[he.Begin], ringPos{ring: r, pos: pos})
			}
		}
	}
	return idx
}

// vertices returns the border vertices in ascending order.
func (idx *AnchorIndex) vertices() []int {
	out := make([]int, 0, len(idx.refs))
	for v := range idx.refs {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// isCorner reports whether at least three labels meet at v, counting an open
// boundary as a label of its own.
func (idx *AnchorIndex) isCorner(v int) bool {
	labels := make(map[int]struct{})
	for _, u := range idx.g.Mesh.VertexNeighbors(v) {
		he := idx.g.HalfEdge(v, u)
		if he.IsBoundary() {
			labels[openBoundary] = struct{}{}
		} else {
			labels[idx.g.FaceLabel(he)] = struct{}{}
		}
	}
	return len(labels) >= 3
}

// Promote makes v an anchor in every ring that passes through it.
func (idx *AnchorIndex) Promote(v int) {
	added := false
	for _, ref := range idx.refs[v] {
		if ref.ring.InsertAnchor(ref.pos) {
			added = true
		}
	}
	if added && !idx.anchors[v] {
		idx.anchors[v] = true
		idx.m.AddAnchor()
	}
}

// FindAnchors anchors every border vertex where three or more regions meet.
// Rings must already be traced.
func FindAnchors(g *vsa.FaceGraph, ps *vsa.ProxySet, m *vsa.Metrics) *AnchorIndex {
	idx := newAnchorIndex(g, ps, m)
	for _, v := range idx.vertices() {
		if idx.isCorner(v) {
			idx.Promote(v)
		}
	}
	return idx
}
