package vsa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/isimp/pkg/mesh"
)

func TestLabelColor(t *testing.T) {
	assert.Equal(t, [3]float32{}, LabelColor(Unlabeled))
	assert.Equal(t, LabelColor(3), LabelColor(3), "colors must be stable")
	assert.NotEqual(t, LabelColor(0), LabelColor(1))

	for label := 0; label < 64; label++ {
		for _, c := range LabelColor(label) {
			assert.True(t, c >= 0 && c < 1, "label %d channel %f out of range", label, c)
		}
	}
}

func TestBuildFaceGraphCube(t *testing.T) {
	g, err := BuildFaceGraph(mesh.Cube())
	require.NoError(t, err)
	require.Equal(t, 12, g.Len())

	for i, f := range g.Faces {
		assert.Equal(t, i, f.Index)
		assert.Equal(t, Unlabeled, f.Label)
		assert.InDelta(t, 0.5, f.Area, 1e-12)
		assert.InDelta(t, 1, r3.Norm(f.Normal), 1e-12)
		for _, nb := range f.Neighbors {
			assert.GreaterOrEqual(t, nb, 0, "closed cube face %d has an open edge", i)
		}
	}
}

func TestBuildFaceGraphRejectsPolygons(t *testing.T) {
	m, err := mesh.New(
		[]r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}, {X: 2}, {X: 2, Y: 1}},
		[][]int{{0, 1, 2, 3}, {1, 4, 5, 2}},
	)
	require.NoError(t, err)

	_, err = BuildFaceGraph(m)
	require.Error(t, err)
	assert.Equal(t, InputError, KindOf(err))
	assert.ErrorIs(t, err, ErrNotTriangulated)

	var e *Error
	require.True(t, errors.As(err, &e))
	assert.Len(t, multierr.Errors(e.Err), 2, "every polygon should be reported")
}

func TestBuildFaceGraphEmpty(t *testing.T) {
	m, err := mesh.New(nil, nil)
	require.NoError(t, err)

	_, err = BuildFaceGraph(m)
	assert.ErrorIs(t, err, ErrEmptyMesh)
	assert.Equal(t, InputError, KindOf(err))
}

func TestFaceGraphLabels(t *testing.T) {
	g, err := BuildFaceGraph(mesh.Grid(1, 1))
	require.NoError(t, err)

	require.NoError(t, g.SetLabels([]int{0, 1}))
	assert.Equal(t, []int{0, 1}, g.Labels())
	assert.Equal(t, []int{1}, g.Members(1))
	assert.Equal(t, Unlabeled, g.Label(-1))
	assert.Equal(t, Unlabeled, g.Label(2))
	assert.Equal(t, [][3]float32{LabelColor(0), LabelColor(1)}, g.Colors())

	err = g.SetLabels([]int{0})
	assert.ErrorIs(t, err, ErrCorruptState)
	assert.Equal(t, HostIOError, KindOf(err))

	g.ClearLabels()
	assert.Equal(t, []int{Unlabeled, Unlabeled}, g.Labels())
}

func TestIsBorder(t *testing.T) {
	g, err := BuildFaceGraph(mesh.Grid(1, 1))
	require.NoError(t, err)
	require.NoError(t, g.SetLabels([]int{0, 1}))

	// Face 0 is (0,1,2), face 1 is (0,2,3).
	assert.True(t, g.IsBorder(g.HalfEdge(0, 1), 0), "open edge")
	assert.True(t, g.IsBorder(g.HalfEdge(2, 0), 0), "edge against another label")
	assert.False(t, g.IsBorder(g.HalfEdge(2, 0), 1), "owned by the other label")
	assert.False(t, g.IsBorder(g.HalfEdge(1, 0), 0), "boundary half-edge has no face")

	require.NoError(t, g.SetLabels([]int{0, 0}))
	assert.False(t, g.IsBorder(g.HalfEdge(2, 0), 0), "interior edge")
}

func TestHalfEdgeWalk(t *testing.T) {
	m := mesh.Cube()
	verts := m.FaceVertices(0)
	start := NewHalfEdge(m, verts[0], verts[1])

	he := start
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0, he.Face())
		he = he.Next()
	}
	assert.True(t, he.Equal(start), "three steps should return to %v, got %v", start, he)

	twin := start.Twin()
	assert.Equal(t, start.End, twin.Begin)
	assert.NotEqual(t, 0, twin.Face())
	assert.False(t, twin.IsBoundary())

	open := NewHalfEdge(mesh.Grid(1, 1), 1, 0)
	assert.True(t, open.IsBoundary())
	assert.False(t, open.Next().Valid())
	assert.False(t, HalfEdge{}.Valid())
	assert.Equal(t, "1->0", open.String())
}
