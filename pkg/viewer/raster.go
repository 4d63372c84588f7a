package viewer

import (
	"image"
	"image/color"
	"math"
)

// screenPoint is a projected vertex: pixel position plus view depth
type screenPoint struct {
	x, y, z float64
}

// frame is a color target with a depth buffer of the same size
type frame struct {
	img    *image.RGBA
	zbuf   []float64
	width  int
	height int
}

func newFrame(width, height int, background color.RGBA) *frame {
	f := &frame{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		zbuf:   make([]float64, width*height),
		width:  width,
		height: height,
	}
	for i := range f.zbuf {
		f.zbuf[i] = math.Inf(1)
	}
	for i := 0; i < len(f.img.Pix); i += 4 {
		f.img.Pix[i] = background.R
		f.img.Pix[i+1] = background.G
		f.img.Pix[i+2] = background.B
		f.img.Pix[i+3] = background.A
	}
	return f
}

// plot writes col at (x, y) if z is nearer than what is already there
func (f *frame) plot(x, y int, z float64, col color.RGBA) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	idx := y*f.width + x
	if z < f.zbuf[idx] {
		f.zbuf[idx] = z
		f.img.SetRGBA(x, y, col)
	}
}

// fillTriangle fills a triangle with the scanline algorithm and depth testing
func (f *frame) fillTriangle(a, b, c screenPoint, col color.RGBA) {
	// Sort vertices by Y coordinate (top to bottom)
	if a.y > b.y {
		a, b = b, a
	}
	if b.y > c.y {
		b, c = c, b
	}
	if a.y > b.y {
		a, b = b, a
	}

	yStart := int(math.Ceil(math.Max(0, a.y)))
	yEnd := int(math.Min(float64(f.height-1), c.y))

	for y := yStart; y <= yEnd; y++ {
		fy := float64(y)

		var xs, zs [2]float64
		n := 0
		edge := func(p, q screenPoint) {
			if n == 2 || p.y == q.y || fy < p.y || fy > q.y {
				return
			}
			t := (fy - p.y) / (q.y - p.y)
			xs[n] = p.x + t*(q.x-p.x)
			zs[n] = p.z + t*(q.z-p.z)
			n++
		}
		edge(a, b)
		edge(b, c)
		edge(a, c)
		if n < 2 {
			continue
		}

		if xs[0] > xs[1] {
			xs[0], xs[1] = xs[1], xs[0]
			zs[0], zs[1] = zs[1], zs[0]
		}

		xFrom := int(math.Ceil(math.Max(0, xs[0])))
		xTo := int(math.Min(float64(f.width-1), xs[1]))
		for x := xFrom; x <= xTo; x++ {
			t := 0.0
			if xs[1] != xs[0] {
				t = (float64(x) - xs[0]) / (xs[1] - xs[0])
			}
			f.plot(x, y, zs[0]+t*(zs[1]-zs[0]), col)
		}
	}
}

// drawLine draws a line using Bresenham's algorithm. The line is pulled
// slightly towards the camera so it wins against the faces it borders.
func (f *frame) drawLine(a, b screenPoint, col color.RGBA) {
	x1, y1 := int(math.Round(a.x)), int(math.Round(a.y))
	x2, y2 := int(math.Round(b.x)), int(math.Round(b.y))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	steps := max(dx, dy)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for i := 0; ; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		f.plot(x1, y1, (a.z+t*(b.z-a.z))*0.999, col)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
