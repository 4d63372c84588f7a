package stl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coord = IndexedCoord[float64, int]

func sourceCoords() []coord {
	return []coord{
		{X: 0, Y: 1, Z: 0, Index: 0},
		{X: 1, Y: 0, Z: 0, Index: 1},
		{X: 1, Y: 1, Z: 0, Index: 2},
		{X: 1, Y: 0, Z: 0, Index: 3},
		{X: 0, Y: 0, Z: 0, Index: 4},
	}
}

var (
	sourceTris = []int{
		2, 3, 4,
		1, 2, 3, // collapses onto two vertices
		2, 1, 0,
	}
	sourceNormals = []float64{
		0, 0, 1,
		0, 1, -1,
		1, 1, 0,
	}
)

func cornerCoords(coords []float64, tris []int, tri int) [3][3]float64 {
	var out [3][3]float64
	for c := 0; c < 3; c++ {
		v := tris[3*tri+c]
		out[c] = [3]float64{coords[3*v], coords[3*v+1], coords[3*v+2]}
	}
	return out
}

func sourceCornerCoords(tri int) [3][3]float64 {
	byIndex := sourceCoords()
	var out [3][3]float64
	for c := 0; c < 3; c++ {
		s := byIndex[sourceTris[3*tri+c]]
		out[c] = [3]float64{s.X, s.Y, s.Z}
	}
	return out
}

func TestRemoveDoubles(t *testing.T) {
	tests := []struct {
		name   string
		ranges []int
		want   []int
	}{
		{name: "one solid", ranges: []int{0, 3}, want: []int{0, 2}},
		{name: "big and small solid", ranges: []int{0, 2, 3}, want: []int{0, 1, 2}},
		{name: "small and big solid", ranges: []int{0, 1, 3}, want: []int{0, 1, 2}},
		{name: "three solids", ranges: []int{0, 1, 2, 3}, want: []int{0, 1, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords, tris, normals, ranges := RemoveDoubles(sourceCoords(), sourceTris, sourceNormals, tt.ranges)

			require.Len(t, coords, 12)
			require.Len(t, tris, 6)
			require.Len(t, normals, 6)

			assert.Equal(t, sourceCornerCoords(0), cornerCoords(coords, tris, 0))
			assert.Equal(t, sourceCornerCoords(2), cornerCoords(coords, tris, 1))
			assert.Equal(t, sourceNormals[0:3], normals[0:3])
			assert.Equal(t, sourceNormals[6:9], normals[3:6])

			assert.Equal(t, tt.want, ranges)
		})
	}
}

func TestRemoveDoublesSortsUniqueCoords(t *testing.T) {
	coords, _, _, _ := RemoveDoubles(sourceCoords(), sourceTris, sourceNormals, []int{0, 3})

	assert.Equal(t, []float64{
		0, 0, 0,
		0, 1, 0,
		1, 0, 0,
		1, 1, 0,
	}, coords)
}

func TestRemoveDoublesEmpty(t *testing.T) {
	coords, tris, normals, ranges := RemoveDoubles[float32, uint32](nil, nil, nil, []uint32{0, 0})

	assert.Empty(t, coords)
	assert.Empty(t, tris)
	assert.Empty(t, normals)
	assert.Equal(t, []uint32{0, 0}, ranges)
}

func TestRemoveDoublesKeepsEmptiedSolid(t *testing.T) {
	// The middle solid only holds the collapsing triangle.
	_, tris, _, ranges := RemoveDoubles(sourceCoords(), sourceTris, sourceNormals, []int{0, 1, 2, 3})

	assert.Len(t, tris, 6)
	require.Len(t, ranges, 4)
	assert.Equal(t, ranges[1], ranges[2])
}

func TestRemoveDoublesInvariants(t *testing.T) {
	// a fan of triangles around a shared apex
	var raw []coord
	var tris []int
	var normals []float64
	add := func(x, y, z float64) int {
		raw = append(raw, coord{X: x, Y: y, Z: z, Index: len(raw)})
		return len(raw) - 1
	}
	for i := 0; i < 20; i++ {
		a := add(0, 0, 1)
		b := add(float64(i%5), float64(i/5), 0)
		c := add(float64((i+1)%5), float64(i/5), 0)
		tris = append(tris, a, b, c)
		normals = append(normals, float64(i), 0, 0)
	}
	// a trailing solid holding only a collapsing triangle
	tris = append(tris, add(5, 5, 0), add(5, 5, 0), add(6, 6, 0))
	normals = append(normals, 0, 0, 1)
	ranges := []int{0, 7, 20, 21}

	coords, outTris, outNormals, outRanges := RemoveDoubles(raw, tris, normals, ranges)

	numVrts := len(coords) / 3
	for _, idx := range outTris {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, numVrts)
	}
	for i := 0; i < len(outTris); i += 3 {
		assert.NotEqual(t, outTris[i], outTris[i+1])
		assert.NotEqual(t, outTris[i], outTris[i+2])
		assert.NotEqual(t, outTris[i+1], outTris[i+2])
	}
	seen := make(map[[3]float64]bool)
	for v := 0; v < numVrts; v++ {
		key := [3]float64{coords[3*v], coords[3*v+1], coords[3*v+2]}
		assert.False(t, seen[key], "duplicate vertex %v", key)
		seen[key] = true
	}
	assert.Equal(t, len(outTris), len(outNormals))
	assert.Equal(t, 0, outRanges[0])
	assert.Equal(t, len(outTris)/3, outRanges[len(outRanges)-1])
	assert.IsNonDecreasing(t, outRanges)

	assert.Len(t, outTris, 60)
	assert.Equal(t, []int{0, 7, 20, 20}, outRanges)
}

func TestRemoveDoublesIsFixedPoint(t *testing.T) {
	coords, tris, normals, ranges := RemoveDoubles(sourceCoords(), sourceTris, sourceNormals, []int{0, 1, 3})

	again := make([]coord, 0, len(coords)/3)
	for v := 0; v < len(coords)/3; v++ {
		again = append(again, coord{X: coords[3*v], Y: coords[3*v+1], Z: coords[3*v+2], Index: v})
	}
	coords2, tris2, normals2, ranges2 := RemoveDoubles(again, tris, normals, ranges)

	assert.Equal(t, coords, coords2)
	assert.Equal(t, tris, tris2)
	assert.Equal(t, normals, normals2)
	assert.Equal(t, ranges, ranges2)
}

func TestIndexedCoordCompare(t *testing.T) {
	a := coord{X: 1, Y: 2, Z: 3, Index: 7}
	assert.Equal(t, 0, a.Compare(coord{X: 1, Y: 2, Z: 3, Index: 1}))
	assert.True(t, a.Equal(coord{X: 1, Y: 2, Z: 3}))
	assert.Equal(t, -1, a.Compare(coord{X: 2, Y: 0, Z: 0}))
	assert.Equal(t, -1, a.Compare(coord{X: 1, Y: 3, Z: 0}))
	assert.Equal(t, 1, a.Compare(coord{X: 1, Y: 2, Z: 2}))
	assert.False(t, a.Equal(coord{X: 1, Y: 2, Z: 4}))
}
