package operation

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/isimp/internal/remesh"
	"github.com/Faultbox/isimp/internal/vsa"
)

// Delta errors.
var (
	ErrDeltaSize     = errors.New("attribute length does not match face count")
	ErrDeltaGeometry = errors.New("invalid replacement geometry")
	ErrDeltaMixed    = errors.New("delta replaces geometry and sets face attributes")
)

// Delta is the full set of writes an operation makes. Nil fields are left
// untouched on the host.
type Delta struct {
	Labels        []int
	Colors        [][3]float32
	SeedBlob      []byte
	DisplayColors *bool
	Geometry      *remesh.Geometry
}

// Validate checks the delta against a host with numFaces faces. Every
// problem found is reported.
func (d *Delta) Validate(numFaces int) error {
	var errs error
	if d.Labels != nil && len(d.Labels) != numFaces {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d labels for %d faces", ErrDeltaSize, len(d.Labels), numFaces))
	}
	if d.Colors != nil && len(d.Colors) != numFaces {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d colors for %d faces", ErrDeltaSize, len(d.Colors), numFaces))
	}
	if d.Geometry == nil {
		return errs
	}

	if d.Labels != nil || d.Colors != nil {
		errs = multierr.Append(errs, ErrDeltaMixed)
	}
	geom := d.Geometry
	nv := len(geom.Positions)
	total := 0
	for f, n := range geom.Counts {
		if n < 3 {
			errs = multierr.Append(errs, fmt.Errorf("%w: face %d has %d vertices", ErrDeltaGeometry, f, n))
		}
		total += n
	}
	if total != len(geom.Connects) {
		errs = multierr.Append(errs, fmt.Errorf("%w: counts sum to %d, %d indices given", ErrDeltaGeometry, total, len(geom.Connects)))
	}
	for _, v := range geom.Connects {
		if v < 0 || v >= nv {
			errs = multierr.Append(errs, fmt.Errorf("%w: vertex %d of %d", ErrDeltaGeometry, v, nv))
			break
		}
	}
	for _, h := range geom.Holes {
		if h.Face < 0 || h.Face >= len(geom.Counts) || len(h.Loop) < 3 {
			errs = multierr.Append(errs, fmt.Errorf("%w: hole on face %d with %d vertices", ErrDeltaGeometry, h.Face, len(h.Loop)))
			continue
		}
		for _, v := range h.Loop {
			if v < 0 || v >= nv {
				errs = multierr.Append(errs, fmt.Errorf("%w: hole vertex %d of %d", ErrDeltaGeometry, v, nv))
				break
			}
		}
	}
	return errs
}

// Commit validates d in full and then writes it through w. Nothing is
// written when validation fails.
func Commit(d *Delta, w HostWriter, numFaces int) error {
	const op = "commit"

	if err := d.Validate(numFaces); err != nil {
		return vsa.Wrap(vsa.HostIOError, op, err)
	}

	if g := d.Geometry; g != nil {
		if err := w.ReplaceGeometry(g.Positions, g.Counts, g.Connects); err != nil {
			return vsa.Wrap(vsa.HostIOError, op, err)
		}
		for _, h := range g.Holes {
			if err := w.AddHole(h.Face, h.Loop); err != nil {
				return vsa.Wrap(vsa.HostIOError, op, err)
			}
		}
	}
	if d.Labels != nil {
		if err := w.SetFaceLabels(d.Labels); err != nil {
			return vsa.Wrap(vsa.HostIOError, op, err)
		}
	}
	if d.Colors != nil {
		if err := w.SetFaceColors(d.Colors); err != nil {
			return vsa.Wrap(vsa.HostIOError, op, err)
		}
	}
	if d.SeedBlob != nil {
		if err := w.SetSeedBlob(d.SeedBlob); err != nil {
			return vsa.Wrap(vsa.HostIOError, op, err)
		}
	}
	if d.DisplayColors != nil {
		if err := w.SetDisplayColors(*d.DisplayColors); err != nil {
			return vsa.Wrap(vsa.HostIOError, op, err)
		}
	}
	return nil
}
