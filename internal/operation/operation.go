// Package operation is the command layer over the VSA core. Apply runs one
// operation against a read-only host and returns the changes as a Delta;
// Commit writes a validated Delta back through a HostWriter.
package operation

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/internal/logger"
	"github.com/Faultbox/isimp/internal/remesh"
	"github.com/Faultbox/isimp/internal/vsa"
)

// Operation selects what Apply does.
type Operation int

const (
	// Flood seeds fresh proxies and runs Lloyd iteration.
	Flood Operation = iota
	// Remesh replaces the geometry with one polygon per proxy.
	Remesh
	// Add seeds a new proxy at the selected face.
	Add
	// Delete removes the proxy owning the selected face.
	Delete
	// Refresh reruns Lloyd iteration from the saved proxies.
	Refresh
	// Color toggles the per-face label colors.
	Color
)

var operationNames = [...]string{
	Flood:   "flood",
	Remesh:  "remesh",
	Add:     "add",
	Delete:  "delete",
	Refresh: "refresh",
	Color:   "color",
}

func (o Operation) String() string {
	if o >= 0 && int(o) < len(operationNames) {
		return operationNames[o]
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}

// Names returns every operation name in selector order.
func Names() []string {
	return append([]string(nil), operationNames[:]...)
}

// Parse looks up an operation by name, case-insensitively.
func Parse(name string) (Operation, error) {
	for i, n := range operationNames {
		if strings.EqualFold(n, name) {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q (want one of %s)", name, strings.Join(operationNames[:], ", "))
}

// Params are the operation parameters.
type Params struct {
	NumProxies         int
	NumIterations      int
	EdgeSplitThreshold float64
	KeepHoles          bool
	// Selection holds the selected face indices; add and delete use the first.
	Selection []int
}

// DefaultParams returns the stock parameters.
func DefaultParams() Params {
	return Params{
		NumProxies:         6,
		NumIterations:      20,
		EdgeSplitThreshold: 1.0,
	}
}

func (p Params) validate(op Operation) error {
	switch {
	case op == Flood && p.NumProxies < 1:
		return vsa.Errorf(vsa.InputError, op.String(), "%w: %d", vsa.ErrProxyCount, p.NumProxies)
	case (op == Flood || op == Refresh) && p.NumIterations < 1:
		return vsa.Errorf(vsa.InputError, op.String(), "iteration count must be at least 1, got %d", p.NumIterations)
	case op == Remesh && p.EdgeSplitThreshold < 0:
		return vsa.Errorf(vsa.InputError, op.String(), "edge split threshold must not be negative, got %g", p.EdgeSplitThreshold)
	}
	return nil
}

// Host is the read side of a mesh the operations run on.
type Host interface {
	vsa.MeshAccessor

	// FaceLabels returns the saved per-face labels, or nil when none exist.
	FaceLabels() ([]int, error)
	// SeedBlob returns the saved seed array, or nil when none exists.
	SeedBlob() ([]byte, error)
	DisplayColors() bool
}

// HostWriter is the write side of a mesh.
type HostWriter interface {
	SetFaceLabels(labels []int) error
	SetFaceColors(colors [][3]float32) error
	SetSeedBlob(blob []byte) error
	SetDisplayColors(on bool) error
	ReplaceGeometry(positions []r3.Vec, counts, connects []int) error
	AddHole(face int, loop []int) error
}

// Apply runs op against host without modifying it. On success the returned
// Delta holds every change the operation makes.
func Apply(host Host, op Operation, params Params) (*Delta, *vsa.Metrics, error) {
	m := &vsa.Metrics{}
	start := time.Now()
	log := logger.Named("operation")

	if err := params.validate(op); err != nil {
		return nil, m, err
	}

	var (
		delta *Delta
		err   error
	)
	if op == Color {
		delta, err = toggleColors(host)
	} else {
		delta, err = applyCore(host, op, params, m)
	}
	if err != nil {
		return nil, m, err
	}

	log.Info("operation finished",
		zap.Stringer("op", op),
		zap.Duration("elapsed", time.Since(start)),
		m.Field())
	return delta, m, nil
}

func applyCore(host Host, op Operation, params Params, m *vsa.Metrics) (*Delta, error) {
	g, err := vsa.BuildFaceGraph(host)
	if err != nil {
		return nil, err
	}

	if op == Flood {
		ps, err := vsa.Init(g, params.NumProxies)
		if err != nil {
			return nil, err
		}
		if err := vsa.Run(g, ps, params.NumIterations, m); err != nil {
			return nil, err
		}
		return labelDelta(g, ps), nil
	}

	face := -1
	if op == Add || op == Delete {
		if face, err = selectedFace(op, params.Selection, g.Len()); err != nil {
			return nil, err
		}
	}

	saved, err := host.FaceLabels()
	if err != nil {
		return nil, vsa.Wrap(vsa.HostIOError, op.String(), err)
	}
	blob, err := host.SeedBlob()
	if err != nil {
		return nil, vsa.Wrap(vsa.HostIOError, op.String(), err)
	}
	ps, err := vsa.Restore(g, blob, saved, m)
	if err != nil {
		return nil, err
	}

	switch op {
	case Remesh:
		vsa.Flood(g, ps, m)
		geom, err := remesh.Remesh(g, ps, params.EdgeSplitThreshold, params.KeepHoles, m)
		if err != nil {
			return nil, err
		}
		return &Delta{Geometry: geom}, nil

	case Add:
		if _, err := vsa.AddProxy(g, ps, face, m); err != nil {
			return nil, err
		}

	case Delete:
		vsa.Flood(g, ps, m)
		label := g.Label(face)
		if saved != nil {
			label = saved[face]
		}
		if err := vsa.DeleteProxy(g, ps, label, m); err != nil {
			return nil, err
		}

	case Refresh:
		if err := vsa.Run(g, ps, params.NumIterations, m); err != nil {
			return nil, err
		}

	default:
		return nil, vsa.Errorf(vsa.InputError, "apply", "unsupported operation %v", op)
	}
	return labelDelta(g, ps), nil
}

// selectedFace returns the face add and delete work on.
func selectedFace(op Operation, selection []int, numFaces int) (int, error) {
	if len(selection) == 0 {
		return -1, vsa.Wrap(vsa.InputError, op.String(), vsa.ErrEmptySelection)
	}
	if len(selection) > 1 {
		logger.Named("operation").Warn("several faces selected, using the first",
			zap.Stringer("op", op),
			zap.Ints("selection", selection))
	}
	f := selection[0]
	if f < 0 || f >= numFaces {
		return -1, vsa.Errorf(vsa.InputError, op.String(), "%w: %d of %d", vsa.ErrInvalidFace, f, numFaces)
	}
	return f, nil
}

// toggleColors flips color display and, when switching on, recolors the
// faces from the saved labels.
func toggleColors(host Host) (*Delta, error) {
	const op = "color"

	on := !host.DisplayColors()
	delta := &Delta{DisplayColors: &on}
	if !on {
		return delta, nil
	}

	labels, err := host.FaceLabels()
	if err != nil {
		return nil, vsa.Wrap(vsa.HostIOError, op, err)
	}
	if labels == nil {
		return nil, vsa.Wrap(vsa.InputError, op, vsa.ErrNoPersistedState)
	}
	if len(labels) != host.NumFaces() {
		return nil, vsa.Errorf(vsa.HostIOError, op, "%w: %d labels for %d faces", vsa.ErrCorruptState, len(labels), host.NumFaces())
	}

	delta.Colors = make([][3]float32, len(labels))
	for i, l := range labels {
		delta.Colors[i] = vsa.LabelColor(l)
	}
	return delta, nil
}

func labelDelta(g *vsa.FaceGraph, ps *vsa.ProxySet) *Delta {
	on := true
	return &Delta{
		Labels:        g.Labels(),
		Colors:        g.Colors(),
		SeedBlob:      vsa.EncodeSeeds(ps),
		DisplayColors: &on,
	}
}
