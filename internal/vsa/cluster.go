package vsa

import (
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/internal/logger"
	"github.com/Faultbox/isimp/pkg/math"
)

// Distortion returns the L2,1 error of approximating face f by proxy p: the
// face area times the distance between the two unit normals.
func Distortion(f *MeshFace, p *Proxy) float64 {
	return f.Area * r3.Norm(r3.Sub(f.Normal, p.Normal))
}

// Init places numProxies seeds at a fixed stride through the face list and
// labels each seed face with its proxy. The result depends only on the face
// count and numProxies.
func Init(g *FaceGraph, numProxies int) (*ProxySet, error) {
	n := g.Len()
	if numProxies < 1 || numProxies > n {
		return nil, Errorf(InputError, "init", "%w: %d proxies for %d faces", ErrProxyCount, numProxies, n)
	}

	g.ClearLabels()
	stride := n / numProxies
	ps := NewProxySet()
	for i := 0; i < numProxies; i++ {
		f := &g.Faces[i*stride]
		p := ps.Add(f.Index, f.Normal, f.Centroid)
		f.Label = p.Label
	}
	return ps, nil
}

// Flood grows every valid proxy from its seed, always extending the region
// whose next face is cheapest. Labels are write-once: a face keeps the first
// label it is given, so faces already labelled before the call do not move.
// Every unlabelled seed is claimed by its own proxy before any region grows,
// so a proxy always keeps at least its seed face.
func Flood(g *FaceGraph, ps *ProxySet, m *Metrics) {
	defer m.observeFlood(time.Now())

	var q floodQueue
	for _, p := range ps.Valid() {
		if p.Seed < 0 || p.Seed >= g.Len() {
			continue
		}
		if seed := &g.Faces[p.Seed]; seed.Label == Unlabeled {
			seed.Label = p.Label
		}
		q.push(candidate{Face: p.Seed, Label: p.Label}, m)
	}

	for q.Len() > 0 {
		c := q.pop(m)
		face := &g.Faces[c.Face]
		p, _ := ps.Get(c.Label)

		switch {
		case face.Label == Unlabeled:
			face.Label = c.Label
		case face.Label == c.Label && p.Seed == c.Face:
			// Seed claimed above, by Init or by an earlier pass.
		default:
			continue
		}

		for _, nb := range face.Neighbors {
			if nb < 0 {
				continue
			}
			next := &g.Faces[nb]
			if next.IsBoundary || next.Label != Unlabeled {
				continue
			}
			q.push(candidate{Face: nb, Label: c.Label, Distortion: Distortion(next, p)}, m)
		}
	}
}

type proxySums struct {
	area     float64
	normal   r3.Vec
	centroid r3.Vec
}

// FitProxy refits every valid proxy to its current faces: the area-weighted
// mean normal and centroid, and as new seed the member face whose normal is
// closest in angle to the refit normal (lowest index on ties). All labels are
// cleared afterwards, ready for the next Flood. A proxy without faces keeps
// its previous plane and seed.
func FitProxy(g *FaceGraph, ps *ProxySet, m *Metrics) {
	defer m.observeFit(time.Now())

	sums := make(map[int]*proxySums)
	for i := range g.Faces {
		f := &g.Faces[i]
		if !ps.IsValid(f.Label) {
			continue
		}
		s, ok := sums[f.Label]
		if !ok {
			s = &proxySums{}
			sums[f.Label] = s
		}
		s.area += f.Area
		s.normal = r3.Add(s.normal, r3.Scale(f.Area, f.Normal))
		s.centroid = r3.Add(s.centroid, r3.Scale(f.Area, f.Centroid))
	}

	for _, p := range ps.Valid() {
		s, ok := sums[p.Label]
		if !ok || s.area == 0 {
			continue
		}
		if n := math.Unit(s.normal); n != (r3.Vec{}) {
			p.Normal = n
		}
		p.Centroid = r3.Scale(1/s.area, s.centroid)
	}

	best := make(map[int]float64)
	for i := range g.Faces {
		f := &g.Faces[i]
		p, ok := ps.Get(f.Label)
		if !ok || !p.Valid {
			continue
		}
		cos := r3.Dot(f.Normal, p.Normal)
		if b, seen := best[p.Label]; !seen || cos > b {
			best[p.Label] = cos
			p.Seed = i
		}
	}

	g.ClearLabels()
}

// Run performs Lloyd iteration: one Flood, then numIterations-1 rounds of
// FitProxy followed by Flood.
func Run(g *FaceGraph, ps *ProxySet, numIterations int, m *Metrics) error {
	if numIterations < 1 {
		return Errorf(InputError, "run", "iteration count must be at least 1, got %d", numIterations)
	}

	log := logger.Named("vsa")
	Flood(g, ps, m)
	for i := 1; i < numIterations; i++ {
		FitProxy(g, ps, m)
		Flood(g, ps, m)
		if ce := log.Check(zap.DebugLevel, "lloyd round"); ce != nil {
			ce.Write(zap.Int("round", i), zap.Float64("distortion", TotalDistortion(g, ps)))
		}
	}
	return nil
}

// TotalDistortion sums the distortion of every labelled face against its
// proxy.
func TotalDistortion(g *FaceGraph, ps *ProxySet) float64 {
	var total float64
	for i := range g.Faces {
		f := &g.Faces[i]
		if p, ok := ps.Get(f.Label); ok && p.Valid {
			total += Distortion(f, p)
		}
	}
	return total
}

// AddProxy seeds a new proxy at face seed and refloods once. Faces already
// seeding a live proxy are rejected and leave the set unchanged.
func AddProxy(g *FaceGraph, ps *ProxySet, seed int, m *Metrics) (*Proxy, error) {
	const op = "add proxy"

	if seed < 0 || seed >= g.Len() {
		return nil, Errorf(InputError, op, "%w: %d", ErrInvalidFace, seed)
	}
	face := &g.Faces[seed]
	if face.IsBoundary {
		return nil, Errorf(InputError, op, "%w: %d is a boundary face", ErrInvalidFace, seed)
	}
	if owner, ok := ps.SeedOwner(seed); ok {
		return nil, Errorf(InputError, op, "%w: face %d seeds proxy %d", ErrDuplicateSeed, seed, owner.Label)
	}

	p := ps.Add(seed, face.Normal, face.Centroid)
	g.ClearLabels()
	Flood(g, ps, m)
	return p, nil
}

// DeleteProxy invalidates the proxy with the given label and refloods once so
// its faces are taken over by the remaining proxies. The label stays
// reserved.
func DeleteProxy(g *FaceGraph, ps *ProxySet, label int, m *Metrics) error {
	p, ok := ps.Get(label)
	if !ok || !p.Valid {
		return Errorf(InputError, "delete proxy", "%w: %d", ErrUnknownProxy, label)
	}

	p.Valid = false
	p.Seed = -1
	g.ClearLabels()
	Flood(g, ps, m)
	return nil
}
