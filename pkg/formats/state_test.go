package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Faultbox/isimp/pkg/mesh"
)

// createTestState builds a state file by hand for testing.
func createTestState(major uint8, faceCount uint32, labels []int32, display bool, blob []byte) []byte {
	buf := new(bytes.Buffer)

	buf.WriteString("VSAS")
	buf.WriteByte(0) // minor
	buf.WriteByte(major)

	binary.Write(buf, binary.LittleEndian, faceCount)

	var flags byte
	if labels != nil {
		flags |= 1
	}
	if display {
		flags |= 2
	}
	buf.WriteByte(flags)

	for _, l := range labels {
		binary.Write(buf, binary.LittleEndian, l)
	}
	binary.Write(buf, binary.LittleEndian, uint32(len(blob)))
	buf.Write(blob)

	return buf.Bytes()
}

func TestParseState_ValidFile(t *testing.T) {
	data := createTestState(1, 3, []int32{0, -1, 2}, true, []byte{1, 0, 0, 0})

	s, err := ParseState(data)
	if err != nil {
		t.Fatalf("ParseState failed: %v", err)
	}

	if s.Version.String() != "1.0" {
		t.Errorf("expected version 1.0, got %s", s.Version)
	}
	if s.FaceCount != 3 {
		t.Errorf("expected 3 faces, got %d", s.FaceCount)
	}
	if len(s.Labels) != 3 || s.Labels[1] != -1 || s.Labels[2] != 2 {
		t.Errorf("unexpected labels %v", s.Labels)
	}
	if !s.DisplayColors {
		t.Error("expected display colors on")
	}
	if !bytes.Equal(s.SeedBlob, []byte{1, 0, 0, 0}) {
		t.Errorf("unexpected seed blob %v", s.SeedBlob)
	}
}

func TestParseState_NoLabels(t *testing.T) {
	s, err := ParseState(createTestState(1, 12, nil, false, nil))
	if err != nil {
		t.Fatalf("ParseState failed: %v", err)
	}
	if s.Labels != nil {
		t.Errorf("expected no labels, got %v", s.Labels)
	}
	if s.SeedBlob != nil {
		t.Errorf("expected no seed blob, got %v", s.SeedBlob)
	}
}

func TestParseState_Errors(t *testing.T) {
	valid := createTestState(1, 2, []int32{0, 1}, false, []byte{0, 0, 0, 0, 1, 0, 0, 0})

	badMagic := append([]byte(nil), valid...)
	copy(badMagic, "GRAT")

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrTruncatedStateData},
		{"bad magic", badMagic, ErrInvalidStateMagic},
		{"future version", createTestState(2, 0, nil, false, nil), ErrUnsupportedStateVersion},
		{"labels cut short", valid[:15], ErrTruncatedStateData},
		{"blob cut short", valid[:len(valid)-2], ErrTruncatedStateData},
		{"missing blob length", valid[:19], ErrTruncatedStateData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseState(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEncodeState_MatchesLayout(t *testing.T) {
	s := &State{FaceCount: 3, Labels: []int{0, -1, 2}, DisplayColors: true, SeedBlob: []byte{1, 0, 0, 0}}

	got := EncodeState(s)
	want := createTestState(1, 3, []int32{0, -1, 2}, true, []byte{1, 0, 0, 0})
	if !bytes.Equal(got, want) {
		t.Errorf("encoded state differs:\n got %v\nwant %v", got, want)
	}
}

func TestStateFile_RestoresMesh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj.vsa")

	src := mesh.Cube()
	labels := []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
	if err := src.SetFaceLabels(labels); err != nil {
		t.Fatal(err)
	}
	src.SetSeedBlob([]byte{0, 0, 0, 0})
	src.SetDisplayColors(true)

	s, err := StateOf(src)
	if err != nil {
		t.Fatalf("StateOf failed: %v", err)
	}
	if err := WriteStateFile(path, s); err != nil {
		t.Fatalf("WriteStateFile failed: %v", err)
	}

	loaded, err := ParseStateFile(path)
	if err != nil {
		t.Fatalf("ParseStateFile failed: %v", err)
	}
	dst := mesh.Cube()
	if err := loaded.Restore(dst); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	got, _ := dst.FaceLabels()
	for i := range labels {
		if got[i] != labels[i] {
			t.Fatalf("label %d: expected %d, got %d", i, labels[i], got[i])
		}
	}
	if !dst.DisplayColors() {
		t.Error("expected display colors to survive")
	}

	if err := loaded.Restore(mesh.Grid(1, 1)); !errors.Is(err, ErrStateFaceCount) {
		t.Errorf("expected ErrStateFaceCount, got %v", err)
	}
}
