package remesh

import (
	"sort"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/internal/logger"
	"github.com/Faultbox/isimp/internal/vsa"
	vmath "github.com/Faultbox/isimp/pkg/math"
)

// Hole is an inner loop of an output face, as indices into Positions.
type Hole struct {
	Face int
	Loop []int
}

// Geometry is the replacement polygon mesh: positions, per-face vertex
// counts and the flattened per-face vertex indices.
type Geometry struct {
	Positions []r3.Vec
	Counts    []int
	Connects  []int
	Holes     []Hole
}

// NumFaces returns the number of output polygons.
func (g *Geometry) NumFaces() int {
	return len(g.Counts)
}

// Face returns the vertex indices of output face f.
func (g *Geometry) Face(f int) []int {
	at := 0
	for i := 0; i < f; i++ {
		at += g.Counts[i]
	}
	return g.Connects[at : at+g.Counts[f]]
}

// loop returns the anchored vertices of r in ring order with consecutive
// repeats dropped.
func loop(r *vsa.BorderRing) []int {
	verts := r.AnchorVertices()
	out := make([]int, 0, len(verts))
	for _, v := range verts {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

type outputFace struct {
	proxy *vsa.Proxy
	outer []int
	holes [][]int
}

// Build emits one polygon per valid proxy from its outer ring anchors. Each
// output vertex is the average of its anchor projected onto the planes of
// every proxy whose rings reference it, emitted or not. Hole rings are kept
// as hole loops only when keepHoles is set and they have at least three
// anchors.
func Build(g *vsa.FaceGraph, ps *vsa.ProxySet, keepHoles bool) (*Geometry, error) {
	log := logger.Named("remesh")

	var faces []outputFace
	users := make(map[int][]*vsa.Proxy)
	emitted := make(map[int]bool)
	emit := func(verts []int) {
		for _, v := range verts {
			emitted[v] = true
		}
	}
	use := func(p *vsa.Proxy, verts []int) {
		for _, v := range verts {
			list := users[v]
			if n := len(list); n > 0 && list[n-1] == p {
				continue
			}
			users[v] = append(list, p)
		}
	}

	for _, p := range ps.Valid() {
		outer := p.Outer()
		if outer == nil {
			return nil, vsa.Errorf(vsa.AlgorithmicError, "build", "%w: proxy %d", vsa.ErrNoBorder, p.Label)
		}
		face := outputFace{proxy: p, outer: loop(outer)}
		if len(face.outer) < 3 {
			return nil, vsa.Errorf(vsa.AlgorithmicError, "build",
				"%w: proxy %d has %d", vsa.ErrTooFewAnchors, p.Label, len(face.outer))
		}
		use(p, face.outer)
		emit(face.outer)

		for i, h := range p.Holes() {
			verts := loop(h)
			use(p, verts)
			if !keepHoles {
				continue
			}
			if len(verts) < 3 {
				log.Warn("dropping degenerate hole",
					zap.Int("proxy", p.Label),
					zap.Int("hole", i),
					zap.Int("anchors", len(verts)))
				continue
			}
			face.holes = append(face.holes, verts)
			emit(verts)
		}
		if n := len(p.Holes()); n > 0 && !keepHoles {
			log.Debug("holes discarded", zap.Int("proxy", p.Label), zap.Int("holes", n))
		}
		faces = append(faces, face)
	}

	anchors := make([]int, 0, len(emitted))
	for v := range emitted {
		anchors = append(anchors, v)
	}
	sort.Ints(anchors)

	geom := &Geometry{Positions: make([]r3.Vec, len(anchors))}
	remap := make(map[int]int, len(anchors))
	for i, v := range anchors {
		remap[v] = i
		pos := g.Mesh.VertexPosition(v)
		var sum r3.Vec
		for _, p := range users[v] {
			sum = r3.Add(sum, vmath.ProjectToPlane(pos, p.Normal, p.Centroid))
		}
		geom.Positions[i] = r3.Scale(1/float64(len(users[v])), sum)
	}

	for f, face := range faces {
		geom.Counts = append(geom.Counts, len(face.outer))
		for _, v := range face.outer {
			geom.Connects = append(geom.Connects, remap[v])
		}
		for _, h := range face.holes {
			mapped := make([]int, len(h))
			for i, v := range h {
				mapped[i] = remap[v]
			}
			geom.Holes = append(geom.Holes, Hole{Face: f, Loop: mapped})
		}
		checkPolygon(geom, f, face.proxy)
	}
	return geom, nil
}

// checkPolygon warns when output face f, flattened onto the plane of its
// proxy, self-intersects or winds clockwise.
func checkPolygon(geom *Geometry, f int, p *vsa.Proxy) {
	verts := geom.Face(f)
	points := make([]r3.Vec, len(verts))
	for i, v := range verts {
		points[i] = geom.Positions[v]
	}
	poly := vmath.ToPlane(points, p.Normal, p.Centroid)
	simple := vmath.IsSimplePolygon(poly)
	if area := vmath.SignedArea(poly); !simple || area <= 0 {
		logger.Named("remesh").Warn("output polygon is not a simple counter-clockwise loop",
			zap.Int("face", f),
			zap.Int("proxy", p.Label),
			zap.Bool("simple", simple),
			zap.Float64("signed_area", area))
	}
}

// Remesh runs the whole pipeline on a flooded graph: trace rings, find and
// refine anchors, then build the replacement geometry.
func Remesh(g *vsa.FaceGraph, ps *vsa.ProxySet, threshold float64, keepHoles bool, m *vsa.Metrics) (*Geometry, error) {
	defer m.TrackRemesh(time.Now())

	for i := range g.Faces {
		if !ps.IsValid(g.Faces[i].Label) {
			return nil, vsa.Errorf(vsa.AlgorithmicError, "remesh", "%w: face %d", vsa.ErrUnlabeledFace, i)
		}
	}

	if err := TraceAll(g, ps, m); err != nil {
		return nil, err
	}
	idx := FindAnchors(g, ps, m)
	NewSimplifier(g, ps, idx, m).Refine(threshold)

	geom, err := Build(g, ps, keepHoles)
	if err != nil {
		return nil, err
	}
	logger.Named("remesh").Debug("geometry built",
		zap.Int("vertices", len(geom.Positions)),
		zap.Int("faces", geom.NumFaces()),
		zap.Int("holes", len(geom.Holes)))
	return geom, nil
}
