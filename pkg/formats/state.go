package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/Faultbox/isimp/pkg/mesh"
)

// State file errors.
var (
	ErrInvalidStateMagic       = errors.New("invalid state magic: expected 'VSAS'")
	ErrUnsupportedStateVersion = errors.New("unsupported state version")
	ErrTruncatedStateData      = errors.New("truncated state data")
	ErrStateFaceCount          = errors.New("state does not match the mesh face count")
)

const stateMagic = "VSAS"

// StateVersion is the version of a state file.
type StateVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v StateVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentStateVersion is the version EncodeState writes.
var CurrentStateVersion = StateVersion{Major: 1, Minor: 0}

// Flag bits.
const (
	stateHasLabels     = 1 << 0
	stateDisplayColors = 1 << 1
)

// State is the clustering state saved next to a mesh between runs.
//
// Layout, little-endian:
//
//	"VSAS" minor major
//	uint32 face count
//	uint8  flags (bit 0 labels present, bit 1 display colors)
//	int32  label per face, when present
//	uint32 seed blob length, then the blob
type State struct {
	Version       StateVersion
	FaceCount     int
	Labels        []int
	DisplayColors bool
	SeedBlob      []byte
}

// CheckFaces verifies the state was saved for a mesh with numFaces faces.
func (s *State) CheckFaces(numFaces int) error {
	if s.FaceCount != numFaces {
		return fmt.Errorf("%w: saved for %d faces, mesh has %d", ErrStateFaceCount, s.FaceCount, numFaces)
	}
	return nil
}

// ParseState parses a state file from raw bytes.
func ParseState(data []byte) (*State, error) {
	if len(data) < 11 {
		return nil, ErrTruncatedStateData
	}
	if string(data[0:4]) != stateMagic {
		return nil, ErrInvalidStateMagic
	}

	// Version is stored as [minor, major]
	version := StateVersion{Major: data[5], Minor: data[4]}
	if version.Major != CurrentStateVersion.Major {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStateVersion, version)
	}

	r := bytes.NewReader(data[6:])
	var faceCount uint32
	if err := binary.Read(r, binary.LittleEndian, &faceCount); err != nil {
		return nil, fmt.Errorf("%w: reading face count", ErrTruncatedStateData)
	}
	flags, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: reading flags", ErrTruncatedStateData)
	}

	s := &State{
		Version:       version,
		FaceCount:     int(faceCount),
		DisplayColors: flags&stateDisplayColors != 0,
	}

	if flags&stateHasLabels != 0 {
		if r.Len() < 4*int(faceCount) {
			return nil, fmt.Errorf("%w: %d labels", ErrTruncatedStateData, faceCount)
		}
		raw := make([]int32, faceCount)
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("%w: reading labels", ErrTruncatedStateData)
		}
		s.Labels = make([]int, faceCount)
		for i, l := range raw {
			s.Labels[i] = int(l)
		}
	}

	var blobLen uint32
	if err := binary.Read(r, binary.LittleEndian, &blobLen); err != nil {
		return nil, fmt.Errorf("%w: reading seed blob length", ErrTruncatedStateData)
	}
	if uint32(r.Len()) < blobLen {
		return nil, fmt.Errorf("%w: seed blob of %d bytes", ErrTruncatedStateData, blobLen)
	}
	if blobLen > 0 {
		s.SeedBlob = make([]byte, blobLen)
		if _, err := r.Read(s.SeedBlob); err != nil {
			return nil, fmt.Errorf("%w: reading seed blob", ErrTruncatedStateData)
		}
	}
	return s, nil
}

// ParseStateFile parses a state file from disk.
func ParseStateFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading state file: %w", err)
	}
	return ParseState(data)
}

// EncodeState serializes s in the current version.
func EncodeState(s *State) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(stateMagic)
	buf.WriteByte(CurrentStateVersion.Minor)
	buf.WriteByte(CurrentStateVersion.Major)
	binary.Write(buf, binary.LittleEndian, uint32(s.FaceCount))

	var flags byte
	if s.Labels != nil {
		flags |= stateHasLabels
	}
	if s.DisplayColors {
		flags |= stateDisplayColors
	}
	buf.WriteByte(flags)

	for _, l := range s.Labels {
		binary.Write(buf, binary.LittleEndian, int32(l))
	}
	binary.Write(buf, binary.LittleEndian, uint32(len(s.SeedBlob)))
	buf.Write(s.SeedBlob)
	return buf.Bytes()
}

// WriteStateFile writes s to path.
func WriteStateFile(path string, s *State) error {
	if err := os.WriteFile(path, EncodeState(s), 0644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// StateOf captures the clustering state of m.
func StateOf(m *mesh.Mesh) (*State, error) {
	labels, err := m.FaceLabels()
	if err != nil {
		return nil, err
	}
	blob, err := m.SeedBlob()
	if err != nil {
		return nil, err
	}
	return &State{
		Version:       CurrentStateVersion,
		FaceCount:     m.NumFaces(),
		Labels:        labels,
		DisplayColors: m.DisplayColors(),
		SeedBlob:      blob,
	}, nil
}

// Restore loads s into m. The state must match the mesh face count.
func (s *State) Restore(m *mesh.Mesh) error {
	if err := s.CheckFaces(m.NumFaces()); err != nil {
		return err
	}
	if s.Labels != nil {
		if err := m.SetFaceLabels(s.Labels); err != nil {
			return err
		}
	}
	if s.SeedBlob != nil {
		if err := m.SetSeedBlob(s.SeedBlob); err != nil {
			return err
		}
	}
	return m.SetDisplayColors(s.DisplayColors)
}
