package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/philipparndt/stlmesh/pkg/geometry"
	"github.com/philipparndt/stlmesh/pkg/stl"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Image formats understood by Encode
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// Options control a preview rendering
type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the target size and scales
	// the result down.
	Supersample int
	// Pitch and Yaw place the camera, in radians.
	Pitch, Yaw float64
	// Zoom magnifies the view. 1 and 0 keep the whole mesh in frame.
	Zoom       float64
	Background color.RGBA
	// OpenEdges marks edges used by a single triangle.
	OpenEdges bool
	// Label lines are printed in the top left corner.
	Label []string
}

// DefaultOptions returns a 800x600 isometric-like view
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      600,
		Supersample: 2,
		Pitch:       25 * math.Pi / 180,
		Yaw:         30 * math.Pi / 180,
		Zoom:        1,
		Background:  color.RGBA{R: 32, G: 34, B: 40, A: 255},
		OpenEdges:   true,
	}
}

// solidColors cycles through the solids of a mesh
var solidColors = []color.RGBA{
	{R: 200, G: 200, B: 210, A: 255},
	{R: 110, G: 170, B: 230, A: 255},
	{R: 240, G: 170, B: 90, A: 255},
	{R: 130, G: 200, B: 130, A: 255},
	{R: 220, G: 120, B: 160, A: 255},
}

var openEdgeColor = color.RGBA{R: 255, G: 60, B: 60, A: 255}

// Render draws a shaded preview of mesh. Every solid gets its own color.
func Render[N stl.Number, I stl.Index](mesh *stl.Mesh[N, I], opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if opts.Zoom < 0 {
		return nil, fmt.Errorf("invalid zoom %g", opts.Zoom)
	}
	ss := max(opts.Supersample, 1)
	w, h := opts.Width*ss, opts.Height*ss

	f := newFrame(w, h, opts.Background)

	camera := NewCamera(mesh.BoundingBox())
	camera.RotationX = opts.Pitch
	camera.Rotate(0, opts.Yaw)
	if opts.Zoom > 0 {
		camera.Zoom(1/opts.Zoom - 1)
	}
	light := camera.ViewDirection().Mul(-1).Add(geometry.NewVector3(0, 0, 0.5)).Normalize()

	project := func(v geometry.Vector3) screenPoint {
		x, y, z := camera.Project(v, float64(w), float64(h))
		return screenPoint{x: x, y: y, z: z}
	}

	for s := range mesh.NumSolids() {
		base := solidColors[s%len(solidColors)]
		for t := int(mesh.SolidTrisBegin(s)); t < int(mesh.SolidTrisEnd(s)); t++ {
			tri := mesh.Triangle(t)
			f.fillTriangle(project(tri.V1), project(tri.V2), project(tri.V3), shade(base, tri, light))
		}
	}

	if opts.OpenEdges {
		for _, e := range openEdges(mesh) {
			f.drawLine(project(mesh.Vertex(e[0])), project(mesh.Vertex(e[1])), openEdgeColor)
		}
	}

	img := f.img
	if ss > 1 {
		img = image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
		draw.CatmullRom.Scale(img, img.Bounds(), f.img, f.img.Bounds(), draw.Src, nil)
	}

	drawLabel(img, opts.Label)
	return img, nil
}

// shade lights a face from both sides, so inverted triangles stay visible
func shade(base color.RGBA, tri geometry.Triangle, light geometry.Vector3) color.RGBA {
	normal := tri.CalculateNormal()
	intensity := 0.35 + 0.65*math.Abs(normal.Dot(light))

	scale := func(c uint8) uint8 {
		return uint8(math.Min(255, float64(c)*intensity))
	}
	return color.RGBA{R: scale(base.R), G: scale(base.G), B: scale(base.B), A: 255}
}

// openEdges returns the vertex pairs of edges used by exactly one triangle
func openEdges[N stl.Number, I stl.Index](mesh *stl.Mesh[N, I]) [][2]int {
	uses := make(map[[2]int]int)
	var order [][2]int
	for t := range mesh.NumTris() {
		idx := mesh.TriIndices(t)
		for c := range 3 {
			a, b := int(idx[c]), int(idx[(c+1)%3])
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			if uses[key] == 0 {
				order = append(order, key)
			}
			uses[key]++
		}
	}

	var open [][2]int
	for _, key := range order {
		if uses[key] == 1 {
			open = append(open, key)
		}
	}
	return open
}

func drawLabel(img *image.RGBA, lines []string) {
	if len(lines) == 0 {
		return
	}

	face := basicfont.Face7x13
	metrics := face.Metrics()
	lineHeight := metrics.Height.Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{R: 235, G: 235, B: 235, A: 255}),
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.Point26_6{X: fixed.I(6), Y: fixed.I(6 + metrics.Ascent.Ceil() + i*lineHeight)}
		d.DrawString(line)
	}
}

// FormatFromPath picks the image format from the file extension of path
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unsupported image format %q (expected .png or .webp)", ext)
	}
}

// Encode writes img in the given format
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}
