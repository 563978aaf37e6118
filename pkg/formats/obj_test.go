package formats

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/pkg/mesh"
)

const quadOBJ = `# a unit square as two triangles
mtllib square.mtl
o square
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
vt 0 0
usemtl proxy_0
f 1/1/1 2/1/1 3/1/1
usemtl proxy_1
f -4//1 -2//1 -1//1
`

func TestParseOBJ_Basic(t *testing.T) {
	o, err := ParseOBJ(strings.NewReader(quadOBJ))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}

	if o.MaterialLib != "square.mtl" {
		t.Errorf("expected mtllib square.mtl, got %q", o.MaterialLib)
	}
	if len(o.Positions) != 4 {
		t.Fatalf("expected 4 positions, got %d", len(o.Positions))
	}
	if o.Positions[2] != (r3.Vec{X: 1, Y: 1}) {
		t.Errorf("unexpected position %v", o.Positions[2])
	}

	wantFaces := [][]int{{0, 1, 2}, {0, 2, 3}}
	if len(o.Faces) != len(wantFaces) {
		t.Fatalf("expected %d faces, got %d", len(wantFaces), len(o.Faces))
	}
	for i, want := range wantFaces {
		for j, v := range want {
			if o.Faces[i][j] != v {
				t.Errorf("face %d: expected %v, got %v", i, want, o.Faces[i])
				break
			}
		}
	}

	if o.Materials[0] != "proxy_0" || o.Materials[1] != "proxy_1" {
		t.Errorf("unexpected materials %v", o.Materials)
	}
	if len(o.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", o.Warnings)
	}
}

func TestParseOBJ_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"short vertex", "v 1 2\n", ErrOBJSyntax},
		{"bad coordinate", "v 1 two 3\n", ErrOBJSyntax},
		{"short face", "v 0 0 0\nv 1 0 0\nf 1 2\n", ErrOBJSyntax},
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", ErrOBJIndex},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrOBJIndex},
		{"hole on missing face", "v 0 0 0\nv 1 0 0\nv 0 1 0\n#hole 2 1 2 3\n", ErrOBJIndex},
		{"short hole", "#hole 1 1 2\n", ErrOBJSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseOBJ_UnsupportedRecordWarns(t *testing.T) {
	o, err := ParseOBJ(strings.NewReader("v 0 0 0\ncstype bezier\n"))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if len(o.Warnings) != 1 || !strings.Contains(o.Warnings[0], "cstype") {
		t.Errorf("expected one cstype warning, got %v", o.Warnings)
	}
}

func TestWriteOBJ_RoundTrip(t *testing.T) {
	src := mesh.Cube()
	labels := []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
	o := FromMesh(src, labels)
	o.MaterialLib = "cube.mtl"

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, o); err != nil {
		t.Fatalf("WriteOBJ failed: %v", err)
	}
	if n := strings.Count(buf.String(), "usemtl "); n != 6 {
		t.Errorf("expected 6 material switches, got %d", n)
	}

	back, err := ParseOBJ(&buf)
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	m, err := back.Mesh()
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if m.NumFaces() != 12 || m.NumVertices() != 8 {
		t.Errorf("expected 12 faces and 8 vertices, got %d and %d", m.NumFaces(), m.NumVertices())
	}
	for v, p := range src.Positions {
		if m.Positions[v] != p {
			t.Errorf("vertex %d: expected %v, got %v", v, p, m.Positions[v])
		}
	}
	if back.Materials[11] != "proxy_5" {
		t.Errorf("expected last face in proxy_5, got %q", back.Materials[11])
	}
}

func TestWriteOBJ_Holes(t *testing.T) {
	src, err := mesh.New(
		[]r3.Vec{{}, {X: 4}, {X: 4, Y: 4}, {Y: 4}, {X: 1, Y: 1}, {X: 1, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 1}},
		[][]int{{0, 1, 2, 3}},
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := src.AddHole(0, []int{4, 5, 6, 7}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "frame.obj")
	if err := WriteOBJFile(path, FromMesh(src, nil)); err != nil {
		t.Fatalf("WriteOBJFile failed: %v", err)
	}

	back, err := ParseOBJFile(path)
	if err != nil {
		t.Fatalf("ParseOBJFile failed: %v", err)
	}
	holes := back.Holes[0]
	if len(holes) != 1 || len(holes[0]) != 4 || holes[0][0] != 4 {
		t.Errorf("expected hole loop [4 5 6 7], got %v", holes)
	}
	m, err := back.Mesh()
	if err != nil {
		t.Fatalf("Mesh failed: %v", err)
	}
	if len(m.Holes[0]) != 1 {
		t.Errorf("expected the hole on the rebuilt mesh, got %v", m.Holes)
	}
}

func TestWriteMTL(t *testing.T) {
	materials := LabelMaterials([]int{2, 0, 2, -1}, func(label int) [3]float32 {
		return [3]float32{float32(label), 0.5, 0}
	})
	if len(materials) != 3 {
		t.Fatalf("expected 3 materials, got %d", len(materials))
	}
	if materials[0].Name != "proxy_none" || materials[2].Name != "proxy_2" {
		t.Errorf("unexpected material order %v", materials)
	}

	var buf bytes.Buffer
	if err := WriteMTL(&buf, materials); err != nil {
		t.Fatalf("WriteMTL failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "newmtl proxy_2\nKa 0 0 0\nKd 2.0000 0.5000 0.0000\n") {
		t.Errorf("unexpected MTL output:\n%s", out)
	}
	if strings.Count(out, "newmtl") != 3 {
		t.Errorf("expected 3 newmtl records in:\n%s", out)
	}
}

func TestParseOBJ_LegacyMaterialNames(t *testing.T) {
	src := "mtllib m\xfcller.mtl\nv 0 0 0\nv 1 0 0\nv 0 1 0\nusemtl caf\xe9\nf 1 2 3\n"
	o, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ failed: %v", err)
	}
	if o.MaterialLib != "müller.mtl" {
		t.Errorf("expected mtllib müller.mtl, got %q", o.MaterialLib)
	}
	if o.Materials[0] != "café" {
		t.Errorf("expected material café, got %q", o.Materials[0])
	}
}
