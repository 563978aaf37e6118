package vsa

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Proxy is the planar representative of one region.
type Proxy struct {
	Label    int
	Normal   r3.Vec
	Centroid r3.Vec
	Seed     int  // Face the region grows from
	Valid    bool // False once deleted; the label is never reused

	// Rings is filled by the remesher: the outer boundary first, then holes.
	Rings []*BorderRing
}

// Outer returns the outer border ring, or nil before rings are traced.
func (p *Proxy) Outer() *BorderRing {
	if len(p.Rings) == 0 {
		return nil
	}
	return p.Rings[0]
}

// Holes returns the hole rings.
func (p *Proxy) Holes() []*BorderRing {
	if len(p.Rings) < 2 {
		return nil
	}
	return p.Rings[1:]
}

// SortRings orders rings by descending edge count so the outer boundary comes
// first. Equal lengths keep discovery order.
func (p *Proxy) SortRings() {
	sort.SliceStable(p.Rings, func(i, j int) bool {
		return p.Rings[i].Len() > p.Rings[j].Len()
	})
}

// BorderRing is one closed walk of border half-edges of a single proxy.
// Anchors are positions into Edges in ascending order; a position names the
// half-edge leaving the anchor vertex, so a vertex the walk passes twice can
// be anchored at either pass.
type BorderRing struct {
	Label   int
	Edges   []HalfEdge
	Anchors []int
}

// Len returns the number of half-edges in the ring.
func (r *BorderRing) Len() int {
	return len(r.Edges)
}

// Vertex returns the vertex the walk leaves at position pos.
func (r *BorderRing) Vertex(pos int) int {
	return r.Edges[pos%len(r.Edges)].Begin
}

// Positions returns every position at which the walk leaves vertex v.
func (r *BorderRing) Positions(v int) []int {
	var out []int
	for i, he := range r.Edges {
		if he.Begin == v {
			out = append(out, i)
		}
	}
	return out
}

// IsAnchor reports whether position pos is anchored.
func (r *BorderRing) IsAnchor(pos int) bool {
	i := sort.SearchInts(r.Anchors, pos)
	return i < len(r.Anchors) && r.Anchors[i] == pos
}

// InsertAnchor anchors position pos, keeping ring order. It reports false if
// the position was already an anchor.
func (r *BorderRing) InsertAnchor(pos int) bool {
	i := sort.SearchInts(r.Anchors, pos)
	if i < len(r.Anchors) && r.Anchors[i] == pos {
		return false
	}
	r.Anchors = append(r.Anchors, 0)
	copy(r.Anchors[i+1:], r.Anchors[i:])
	r.Anchors[i] = pos
	return true
}

// AnchorVertices returns the anchored vertices in ring order.
func (r *BorderRing) AnchorVertices() []int {
	out := make([]int, len(r.Anchors))
	for i, pos := range r.Anchors {
		out[i] = r.Edges[pos].Begin
	}
	return out
}

// ProxySet holds proxies keyed by label. Labels are handed out in increasing
// order and stay reserved after deletion.
type ProxySet struct {
	proxies map[int]*Proxy
	next    int
}

// NewProxySet returns an empty set.
func NewProxySet() *ProxySet {
	return &ProxySet{proxies: make(map[int]*Proxy)}
}

// Add creates a valid proxy seeded at face seed under the next free label.
func (s *ProxySet) Add(seed int, normal, centroid r3.Vec) *Proxy {
	p := &Proxy{
		Label:    s.next,
		Normal:   normal,
		Centroid: centroid,
		Seed:     seed,
		Valid:    true,
	}
	s.proxies[p.Label] = p
	s.next++
	return p
}

// AddInvalid reserves the next label for a proxy that is already deleted.
func (s *ProxySet) AddInvalid() *Proxy {
	p := &Proxy{Label: s.next, Seed: -1}
	s.proxies[p.Label] = p
	s.next++
	return p
}

// Get returns the proxy with the given label, valid or not.
func (s *ProxySet) Get(label int) (*Proxy, bool) {
	p, ok := s.proxies[label]
	return p, ok
}

// Len returns the number of label slots handed out, deleted ones included.
func (s *ProxySet) Len() int {
	return s.next
}

// All returns every proxy in label order, deleted ones included.
func (s *ProxySet) All() []*Proxy {
	out := make([]*Proxy, 0, len(s.proxies))
	for label := 0; label < s.next; label++ {
		if p, ok := s.proxies[label]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Valid returns the live proxies in label order.
func (s *ProxySet) Valid() []*Proxy {
	var out []*Proxy
	for _, p := range s.All() {
		if p.Valid {
			out = append(out, p)
		}
	}
	return out
}

// NumValid returns the number of live proxies.
func (s *ProxySet) NumValid() int {
	n := 0
	for _, p := range s.proxies {
		if p.Valid {
			n++
		}
	}
	return n
}

// IsValid reports whether label names a live proxy.
func (s *ProxySet) IsValid(label int) bool {
	p, ok := s.proxies[label]
	return ok && p.Valid
}

// SeedOwner returns the live proxy seeded at face f.
func (s *ProxySet) SeedOwner(f int) (*Proxy, bool) {
	for _, p := range s.proxies {
		if p.Valid && p.Seed == f {
			return p, true
		}
	}
	return nil, false
}
