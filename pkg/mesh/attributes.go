package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// FaceLabels returns a copy of the per-face label attribute, or nil when the
// mesh has none.
func (m *Mesh) FaceLabels() ([]int, error) {
	if m.labels == nil {
		return nil, nil
	}
	return append([]int(nil), m.labels...), nil
}

// SetFaceLabels replaces the per-face label attribute.
func (m *Mesh) SetFaceLabels(labels []int) error {
	if len(labels) != len(m.Faces) {
		return fmt.Errorf("%w: %d labels for %d faces", ErrAttributeSize, len(labels), len(m.Faces))
	}
	m.labels = append([]int(nil), labels...)
	return nil
}

// FaceColors returns the per-face display colors, or nil when unset.
func (m *Mesh) FaceColors() [][3]float32 {
	return m.colors
}

// SetFaceColors replaces the per-face display colors.
func (m *Mesh) SetFaceColors(colors [][3]float32) error {
	if len(colors) != len(m.Faces) {
		return fmt.Errorf("%w: %d colors for %d faces", ErrAttributeSize, len(colors), len(m.Faces))
	}
	m.colors = append([][3]float32(nil), colors...)
	return nil
}

// SeedBlob returns the mesh-wide binary seed attribute, or nil when unset.
func (m *Mesh) SeedBlob() ([]byte, error) {
	if m.seedBlob == nil {
		return nil, nil
	}
	return append([]byte(nil), m.seedBlob...), nil
}

// SetSeedBlob replaces the mesh-wide binary seed attribute.
func (m *Mesh) SetSeedBlob(blob []byte) error {
	m.seedBlob = append([]byte(nil), blob...)
	return nil
}

// DisplayColors reports whether face colors should be shown.
func (m *Mesh) DisplayColors() bool {
	return m.displayColors
}

// SetDisplayColors switches face color display.
func (m *Mesh) SetDisplayColors(on bool) error {
	m.displayColors = on
	return nil
}

// ReplaceGeometry swaps in new geometry given as positions, per-face vertex
// counts and the flattened vertex index list. The mesh is left untouched if
// the new geometry is invalid. Attributes and holes are dropped because they
// describe the old faces.
func (m *Mesh) ReplaceGeometry(positions []r3.Vec, counts, connects []int) error {
	faces := make([][]int, 0, len(counts))
	at := 0
	for f, n := range counts {
		if n < 3 || at+n > len(connects) {
			return fmt.Errorf("%w: face %d has count %d with %d indices left", ErrDegenerateFace, f, n, len(connects)-at)
		}
		faces = append(faces, append([]int(nil), connects[at:at+n]...))
		at += n
	}
	if at != len(connects) {
		return fmt.Errorf("%w: %d unused indices", ErrDegenerateFace, len(connects)-at)
	}

	next, err := New(append([]r3.Vec(nil), positions...), faces)
	if err != nil {
		return err
	}
	*m = *next
	return nil
}

// AddHole attaches a hole loop to face f.
func (m *Mesh) AddHole(f int, loop []int) error {
	if f < 0 || f >= len(m.Faces) {
		return fmt.Errorf("%w: %d", ErrFaceIndex, f)
	}
	if len(loop) < 3 {
		return fmt.Errorf("%w: hole with %d vertices", ErrDegenerateFace, len(loop))
	}
	for _, v := range loop {
		if v < 0 || v >= len(m.Positions) {
			return fmt.Errorf("%w: hole references vertex %d", ErrVertexIndex, v)
		}
	}
	if m.Holes == nil {
		m.Holes = make(map[int][][]int)
	}
	m.Holes[f] = append(m.Holes[f], append([]int(nil), loop...))
	return nil
}
