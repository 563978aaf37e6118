package formats

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/pkg/encoding"
	"github.com/Faultbox/isimp/pkg/mesh"
)

// OBJ format errors.
var (
	ErrOBJSyntax = errors.New("malformed OBJ line")
	ErrOBJIndex  = errors.New("OBJ vertex index out of range")
)

// holeTag starts the comment line that records a hole loop:
// #hole <face> <v1> <v2> <v3> ...
// Face and vertex numbers follow the OBJ convention and start at 1.
const holeTag = "#hole"

// OBJ is a Wavefront OBJ polygon mesh. Only positions, faces, material
// groups and the hole extension are kept; normals and texture coordinates
// are skipped.
type OBJ struct {
	MaterialLib string
	Positions   []r3.Vec
	Faces       [][]int // 0-based vertex indices
	Materials   []string
	Holes       map[int][][]int
	Warnings    []string
}

type objDecoder struct {
	obj      *OBJ
	line     int
	material string
}

func (d *objDecoder) errorf(base error, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", base, d.line, fmt.Sprintf(format, args...))
}

// ParseOBJ reads an OBJ mesh.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	d := &objDecoder{obj: &OBJ{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		d.line++
		line := encoding.StringToUTF8(sc.Text())
		if err := d.parseLine(strings.TrimSpace(line)); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	for f, holes := range d.obj.Holes {
		if f >= len(d.obj.Faces) {
			return nil, fmt.Errorf("%w: hole on face %d of %d", ErrOBJIndex, f+1, len(d.obj.Faces))
		}
		for _, loop := range holes {
			for _, v := range loop {
				if v >= len(d.obj.Positions) {
					return nil, fmt.Errorf("%w: hole vertex %d of %d", ErrOBJIndex, v+1, len(d.obj.Positions))
				}
			}
		}
	}
	return d.obj, nil
}

// ParseOBJFile reads an OBJ mesh from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	defer f.Close()
	return ParseOBJ(f)
}

func (d *objDecoder) parseLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	if fields[0] == holeTag {
		return d.parseHole(fields[1:])
	}
	if strings.HasPrefix(fields[0], "#") {
		return nil
	}

	switch fields[0] {
	case "v":
		return d.parseVertex(fields[1:])
	case "f":
		return d.parseFace(fields[1:])
	case "usemtl":
		if len(fields) < 2 {
			return d.errorf(ErrOBJSyntax, "usemtl without a name")
		}
		d.material = fields[1]
	case "mtllib":
		if len(fields) < 2 {
			return d.errorf(ErrOBJSyntax, "mtllib without a name")
		}
		d.obj.MaterialLib = fields[1]
	case "vn", "vt", "o", "g", "s":
		// Not needed for simplification.
	default:
		d.obj.Warnings = append(d.obj.Warnings, fmt.Sprintf("line %d: unsupported record %q", d.line, fields[0]))
	}
	return nil
}

// v <x> <y> <z> [w]
func (d *objDecoder) parseVertex(fields []string) error {
	if len(fields) < 3 {
		return d.errorf(ErrOBJSyntax, "vertex with %d coordinates", len(fields))
	}
	var xyz [3]float64
	for i := range xyz {
		val, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return d.errorf(ErrOBJSyntax, "vertex coordinate %q", fields[i])
		}
		xyz[i] = val
	}
	d.obj.Positions = append(d.obj.Positions, r3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	return nil
}

// index resolves one OBJ vertex reference: 1-based, or negative relative to
// the last vertex read. Texture and normal parts after a slash are ignored.
func (d *objDecoder) index(field string) (int, error) {
	part, _, _ := strings.Cut(field, "/")
	val, err := strconv.Atoi(part)
	if err != nil {
		return 0, d.errorf(ErrOBJSyntax, "vertex reference %q", field)
	}
	n := len(d.obj.Positions)
	switch {
	case val > 0 && val <= n:
		return val - 1, nil
	case val < 0 && -val <= n:
		return n + val, nil
	default:
		return 0, d.errorf(ErrOBJIndex, "vertex %d of %d", val, n)
	}
}

// f <v1> <v2> <v3> ...
func (d *objDecoder) parseFace(fields []string) error {
	if len(fields) < 3 {
		return d.errorf(ErrOBJSyntax, "face with %d vertices", len(fields))
	}
	face := make([]int, len(fields))
	for i, field := range fields {
		v, err := d.index(field)
		if err != nil {
			return err
		}
		face[i] = v
	}
	d.obj.Faces = append(d.obj.Faces, face)
	d.obj.Materials = append(d.obj.Materials, d.material)
	return nil
}

// #hole <face> <v1> <v2> <v3> ...
func (d *objDecoder) parseHole(fields []string) error {
	if len(fields) < 4 {
		return d.errorf(ErrOBJSyntax, "hole needs a face and at least 3 vertices")
	}
	f, err := strconv.Atoi(fields[0])
	if err != nil || f < 1 {
		return d.errorf(ErrOBJSyntax, "hole face %q", fields[0])
	}
	loop := make([]int, len(fields)-1)
	for i, field := range fields[1:] {
		v, err := strconv.Atoi(field)
		if err != nil || v < 1 {
			return d.errorf(ErrOBJSyntax, "hole vertex %q", field)
		}
		loop[i] = v - 1
	}
	if d.obj.Holes == nil {
		d.obj.Holes = make(map[int][][]int)
	}
	d.obj.Holes[f-1] = append(d.obj.Holes[f-1], loop)
	return nil
}

// Mesh builds an in-memory mesh from the OBJ data, holes included.
func (o *OBJ) Mesh() (*mesh.Mesh, error) {
	m, err := mesh.New(o.Positions, o.Faces)
	if err != nil {
		return nil, err
	}
	for f, holes := range o.Holes {
		for _, loop := range holes {
			if err := m.AddHole(f, loop); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// FromMesh captures the geometry of m. When labels is non-nil, each face is
// put in the material group of its label.
func FromMesh(m *mesh.Mesh, labels []int) *OBJ {
	o := &OBJ{
		Positions: m.Positions,
		Faces:     m.Faces,
		Holes:     m.Holes,
	}
	if labels != nil {
		o.Materials = make([]string, len(labels))
		for f, l := range labels {
			o.Materials[f] = MaterialName(l)
		}
	}
	return o
}

// WriteOBJ writes o as an OBJ file. Holes are written as #hole comment
// lines, which other readers ignore.
func WriteOBJ(w io.Writer, o *OBJ) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# isimp: %d vertices, %d faces\n", len(o.Positions), len(o.Faces))
	if o.MaterialLib != "" {
		fmt.Fprintf(bw, "mtllib %s\n", o.MaterialLib)
	}
	for _, p := range o.Positions {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}

	current := ""
	for f, face := range o.Faces {
		if f < len(o.Materials) && o.Materials[f] != current {
			current = o.Materials[f]
			fmt.Fprintf(bw, "usemtl %s\n", current)
		}
		bw.WriteString("f")
		for _, v := range face {
			fmt.Fprintf(bw, " %d", v+1)
		}
		bw.WriteByte('\n')
	}

	for f := 0; f < len(o.Faces); f++ {
		for _, loop := range o.Holes[f] {
			fmt.Fprintf(bw, "%s %d", holeTag, f+1)
			for _, v := range loop {
				fmt.Fprintf(bw, " %d", v+1)
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// WriteOBJFile writes o to path.
func WriteOBJFile(path string, o *OBJ) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating OBJ file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing OBJ file: %w", cerr)
		}
	}()
	return WriteOBJ(f, o)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
