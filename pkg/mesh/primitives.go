package mesh

import "gonum.org/v1/gonum/spatial/r3"

// cubeSide describes one side of the unit lattice cube: an integer corner
// and two integer axes whose cross product points outwards.
type cubeSide struct {
	origin [3]int
	u, v   [3]int
}

var cubeSides = [6]cubeSide{
	{origin: [3]int{1, 0, 0}, u: [3]int{0, 1, 0}, v: [3]int{0, 0, 1}}, // +X
	{origin: [3]int{0, 0, 0}, u: [3]int{0, 0, 1}, v: [3]int{0, 1, 0}}, // -X
	{origin: [3]int{0, 1, 0}, u: [3]int{0, 0, 1}, v: [3]int{1, 0, 0}}, // +Y
	{origin: [3]int{0, 0, 0}, u: [3]int{1, 0, 0}, v: [3]int{0, 0, 1}}, // -Y
	{origin: [3]int{0, 0, 1}, u: [3]int{1, 0, 0}, v: [3]int{0, 1, 0}}, // +Z
	{origin: [3]int{0, 0, 0}, u: [3]int{0, 1, 0}, v: [3]int{1, 0, 0}}, // -Z
}

// weld hands out one vertex per integer lattice point.
type weld struct {
	index     map[[3]int]int
	positions []r3.Vec
	scale     float64
	offset    float64
}

func (w *weld) vertex(key [3]int) int {
	if i, ok := w.index[key]; ok {
		return i
	}
	i := len(w.positions)
	w.index[key] = i
	w.positions = append(w.positions, r3.Vec{
		X: float64(key[0])*w.scale - w.offset,
		Y: float64(key[1])*w.scale - w.offset,
		Z: float64(key[2])*w.scale - w.offset,
	})
	return i
}

// SubdividedCube returns a closed triangulated cube of edge length size
// centred on the origin, each side split into n×n cells of two triangles.
// Faces are grouped by side in the order +X, -X, +Y, -Y, +Z, -Z, so with
// n = 1 side k owns faces 2k and 2k+1.
func SubdividedCube(n int, size float64) *Mesh {
	if n < 1 {
		n = 1
	}
	w := &weld{index: make(map[[3]int]int), scale: size / float64(n), offset: size / 2}

	var faces [][]int
	for _, s := range cubeSides {
		at := func(i, j int) int {
			var key [3]int
			for k := 0; k < 3; k++ {
				key[k] = s.origin[k]*n + i*s.u[k] + j*s.v[k]
			}
			return w.vertex(key)
		}
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				p00, p10, p11, p01 := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
				faces = append(faces, []int{p00, p10, p11}, []int{p00, p11, p01})
			}
		}
	}

	m, err := New(w.positions, faces)
	if err != nil {
		panic("mesh: invalid cube: " + err.Error())
	}
	return m
}

// Cube returns the 12-triangle unit cube.
func Cube() *Mesh {
	return SubdividedCube(1, 1)
}

// grid builds an nx×ny open triangulated grid in the XY plane, facing +Z,
// skipping the cells for which skip returns true. Vertices are mapped
// through place before use.
func grid(nx, ny int, skip func(i, j int) bool, place func(x, y float64) r3.Vec) *Mesh {
	index := make(map[[2]int]int)
	var positions []r3.Vec
	at := func(i, j int) int {
		key := [2]int{i, j}
		if v, ok := index[key]; ok {
			return v
		}
		v := len(positions)
		index[key] = v
		positions = append(positions, place(float64(i), float64(j)))
		return v
	}

	var faces [][]int
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			if skip != nil && skip(i, j) {
				continue
			}
			p00, p10, p11, p01 := at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)
			faces = append(faces, []int{p00, p10, p11}, []int{p00, p11, p01})
		}
	}

	m, err := New(positions, faces)
	if err != nil {
		panic("mesh: invalid grid: " + err.Error())
	}
	return m
}

func flat(x, y float64) r3.Vec { return r3.Vec{X: x, Y: y} }

// Grid returns an open nx×ny grid of unit cells in the XY plane.
func Grid(nx, ny int) *Mesh {
	return grid(nx, ny, nil, flat)
}

// GridWithHole returns Grid(nx, ny) without the cells in [x0, x1)×[y0, y1),
// leaving an inner boundary loop when the rectangle is interior.
func GridWithHole(nx, ny, x0, y0, x1, y1 int) *Mesh {
	return grid(nx, ny, func(i, j int) bool {
		return i >= x0 && i < x1 && j >= y0 && j < y1
	}, flat)
}

// FoldedGrid returns Grid(nx, ny) bent by 90 degrees along the line x = fold:
// the part beyond the fold stands up as the wall x = fold facing -X.
func FoldedGrid(nx, ny, fold int) *Mesh {
	f := float64(fold)
	return grid(nx, ny, nil, func(x, y float64) r3.Vec {
		if x > f {
			return r3.Vec{X: f, Y: y, Z: x - f}
		}
		return r3.Vec{X: x, Y: y}
	})
}
