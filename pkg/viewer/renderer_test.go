package viewer

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/philipparndt/stlmesh/internal/stltest"
	"github.com/philipparndt/stlmesh/pkg/geometry"
	"github.com/philipparndt/stlmesh/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCube(t *testing.T, facets []stltest.Facet) *stl.Mesh[float32, uint32] {
	t.Helper()
	path := stltest.WriteFile(t, "cube.stl", stltest.Binary("cube", facets))
	mesh, err := stl.ReadFile[float32, uint32](path)
	require.NoError(t, err)
	return mesh
}

func assertNearColor(t *testing.T, want color.RGBA, got color.RGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 2)
	assert.InDelta(t, want.G, got.G, 2)
	assert.InDelta(t, want.B, got.B, 2)
}

func TestRenderCube(t *testing.T) {
	mesh := loadCube(t, stltest.Cube([3]float32{0, 0, 0}))
	opts := DefaultOptions()
	opts.Width, opts.Height = 160, 120

	img, err := Render(mesh, opts)
	require.NoError(t, err)

	assert.Equal(t, 160, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())
	assertNearColor(t, opts.Background, img.RGBAAt(159, 119))
	assert.NotEqual(t, opts.Background, img.RGBAAt(80, 60))
}

func TestRenderMarksOpenEdges(t *testing.T) {
	// drop the top face so the cube has a hole
	facets := stltest.Cube([3]float32{0, 0, 0})
	facets = append(facets[:2:2], facets[4:]...)
	mesh := loadCube(t, facets)

	assert.Len(t, openEdges(mesh), 4)

	opts := DefaultOptions()
	opts.Width, opts.Height = 160, 120
	opts.Supersample = 1

	img, err := Render(mesh, opts)
	require.NoError(t, err)

	found := false
	for y := range 120 {
		for x := range 160 {
			if img.RGBAAt(x, y) == openEdgeColor {
				found = true
			}
		}
	}
	assert.True(t, found, "no open edge pixel drawn")
}

func TestRenderZoom(t *testing.T) {
	mesh := loadCube(t, stltest.Cube([3]float32{0, 0, 0}))

	covered := func(zoom float64) int {
		opts := DefaultOptions()
		opts.Width, opts.Height = 160, 120
		opts.Supersample = 1
		opts.OpenEdges = false
		opts.Zoom = zoom

		img, err := Render(mesh, opts)
		require.NoError(t, err)

		n := 0
		for y := range 120 {
			for x := range 160 {
				if img.RGBAAt(x, y) != opts.Background {
					n++
				}
			}
		}
		return n
	}

	framed := covered(1)
	assert.Positive(t, framed)
	assert.Equal(t, framed, covered(0))
	assert.Greater(t, covered(2), framed)
	assert.Less(t, covered(0.5), framed)

	opts := DefaultOptions()
	opts.Zoom = -1
	_, err := Render(mesh, opts)
	assert.Error(t, err)
}

func TestRenderEmptyMesh(t *testing.T) {
	path := stltest.WriteFile(t, "empty.stl", []byte("solid empty\nendsolid empty\n"))
	mesh, err := stl.ReadFile[float64, uint32](path)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Width, opts.Height = 40, 30
	opts.Supersample = 1

	img, err := Render(mesh, opts)
	require.NoError(t, err)
	assert.Equal(t, opts.Background, img.RGBAAt(20, 15))
}

func TestRenderLabel(t *testing.T) {
	mesh := loadCube(t, stltest.Cube([3]float32{0, 0, 0}))
	opts := DefaultOptions()
	opts.Width, opts.Height = 160, 120
	opts.Supersample = 1
	opts.Label = []string{"WWWW"}

	img, err := Render(mesh, opts)
	require.NoError(t, err)

	changed := 0
	for y := 6; y < 19; y++ {
		for x := 6; x < 34; x++ {
			if img.RGBAAt(x, y) != opts.Background {
				changed++
			}
		}
	}
	assert.Positive(t, changed)
}

func TestRenderInvalidSize(t *testing.T) {
	mesh := loadCube(t, stltest.Cube([3]float32{0, 0, 0}))
	opts := DefaultOptions()
	opts.Width = 0

	_, err := Render(mesh, opts)
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	mesh := loadCube(t, stltest.Cube([3]float32{0, 0, 0}))
	opts := DefaultOptions()
	opts.Width, opts.Height = 64, 48

	img, err := Render(mesh, opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, FormatPNG))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatWebP))
	assert.Equal(t, []byte("RIFF"), buf.Bytes()[:4])

	assert.Error(t, Encode(&buf, img, "gif"))
}

func TestFormatFromPath(t *testing.T) {
	format, err := FormatFromPath("preview.PNG")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, format)

	format, err = FormatFromPath("out/preview.webp")
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, format)

	_, err = FormatFromPath("preview.jpg")
	assert.Error(t, err)
}

func TestCameraProjectsTargetToCenter(t *testing.T) {
	bbox := geometry.NewBoundingBox()
	bbox.Extend(geometry.NewVector3(-1, -1, -1))
	bbox.Extend(geometry.NewVector3(1, 1, 1))

	camera := NewCamera(bbox)
	camera.Rotate(0.4, 1.2)

	x, y, z := camera.Project(camera.Target, 200, 100)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)
	assert.InDelta(t, camera.Distance, z, 1e-9)
}

func TestCameraClampsElevation(t *testing.T) {
	camera := NewCamera(geometry.NewBoundingBox())
	camera.Rotate(10, 0)
	assert.Less(t, camera.RotationX, math.Pi/2)

	camera.Zoom(-1)
	assert.InDelta(t, 0.1, camera.Distance, 1e-12)
}
