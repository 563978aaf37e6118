package formats

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Material is one MTL entry with a diffuse color.
type Material struct {
	Name    string
	Diffuse [3]float32
}

// MaterialName returns the material group name used for a proxy label.
func MaterialName(label int) string {
	if label < 0 {
		return "proxy_none"
	}
	return "proxy_" + strconv.Itoa(label)
}

// LabelMaterials returns one material per distinct label, sorted by label,
// colored by color.
func LabelMaterials(labels []int, color func(label int) [3]float32) []Material {
	seen := make(map[int]bool)
	var distinct []int
	for _, l := range labels {
		if !seen[l] {
			seen[l] = true
			distinct = append(distinct, l)
		}
	}
	sort.Ints(distinct)

	out := make([]Material, len(distinct))
	for i, l := range distinct {
		out[i] = Material{Name: MaterialName(l), Diffuse: color(l)}
	}
	return out
}

// WriteMTL writes a material library with ambient, diffuse and illumination
// records for each material.
func WriteMTL(w io.Writer, materials []Material) error {
	bw := bufio.NewWriter(w)
	for i, m := range materials {
		if i > 0 {
			bw.WriteByte('\n')
		}
		fmt.Fprintf(bw, "newmtl %s\n", m.Name)
		fmt.Fprintf(bw, "Ka 0 0 0\n")
		fmt.Fprintf(bw, "Kd %.4f %.4f %.4f\n", m.Diffuse[0], m.Diffuse[1], m.Diffuse[2])
		fmt.Fprintf(bw, "illum 1\n")
	}
	return bw.Flush()
}
