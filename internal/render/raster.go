package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498307936

// maxDevicePx bounds the coordinates Rasterize accepts. BuildFrame output
// stays far inside it.
const maxDevicePx = 1 << 20

// Rasterize composites frame onto dst with anti-aliasing. Fills go first,
// then strokes with flat caps and bevel joins, layer by layer.
func Rasterize(dst *image.RGBA, frame Frame) {
	bounds := dst.Bounds()
	if bounds.Empty() {
		return
	}
	for _, prim := range frame.Device() {
		if !reaches(prim, bounds) {
			continue
		}
		if prim.Filled && prim.Kind != PrimitiveLine {
			z := newRasterizer(bounds)
			fillPath(z, bounds, prim)
			paint(dst, z, prim.Fill)
		}
		if prim.Stroke.Width > 0 && prim.Stroke.Color.A > 0 {
			z := newRasterizer(bounds)
			strokePath(z, bounds, prim)
			paint(dst, z, prim.Stroke.Color)
		}
	}
}

// reaches reports whether prim, stroke included, can touch bounds. Primitives
// with non-finite coordinates or coordinates beyond maxDevicePx never do.
func reaches(prim Primitive, bounds image.Rectangle) bool {
	if len(prim.Points) == 0 {
		return false
	}
	pad := math.Abs(prim.Stroke.Width)/2 + math.Max(math.Abs(prim.RX), math.Abs(prim.RY))
	if !inRange(pad) {
		return false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range prim.Points {
		if !inRange(p[0]) || !inRange(p[1]) {
			return false
		}
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	return maxX+pad >= float64(bounds.Min.X) && minX-pad <= float64(bounds.Max.X) &&
		maxY+pad >= float64(bounds.Min.Y) && minY-pad <= float64(bounds.Max.Y)
}

func inRange(v float64) bool { return v >= -maxDevicePx && v <= maxDevicePx }

func newRasterizer(bounds image.Rectangle) *vector.Rasterizer {
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Over
	return z
}

func paint(dst *image.RGBA, z *vector.Rasterizer, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func fillPath(z *vector.Rasterizer, bounds image.Rectangle, prim Primitive) {
	switch prim.Kind {
	case PrimitiveEllipse:
		ellipse(z, bounds, prim.Points[0], prim.RX, prim.RY, false)
	case PrimitivePolygon:
		polygon(z, bounds, prim.Points)
	}
}

func strokePath(z *vector.Rasterizer, bounds image.Rectangle, prim Primitive) {
	half := prim.Stroke.Width / 2
	switch prim.Kind {
	case PrimitiveLine:
		segment(z, bounds, prim.Points[0], prim.Points[1], half)
	case PrimitiveEllipse:
		center := prim.Points[0]
		ellipse(z, bounds, center, prim.RX+half, prim.RY+half, false)
		if prim.RX > half && prim.RY > half {
			ellipse(z, bounds, center, prim.RX-half, prim.RY-half, true)
		}
	case PrimitivePolygon:
		n := len(prim.Points)
		for i := 0; i < n; i++ {
			segment(z, bounds, prim.Points[i], prim.Points[(i+1)%n], half)
		}
		for i := 0; i < n; i++ {
			bevel(z, bounds, prim.Points[(i+n-1)%n], prim.Points[i], prim.Points[(i+1)%n], half)
		}
	}
}

// segment adds the rectangle covering a flat-capped stroke from a to b.
func segment(z *vector.Rasterizer, bounds image.Rectangle, a, b f64.Vec2, half float64) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*half, dx/length*half
	polygon(z, bounds, []f64.Vec2{
		{a[0] + nx, a[1] + ny},
		{b[0] + nx, b[1] + ny},
		{b[0] - nx, b[1] - ny},
		{a[0] - nx, a[1] - ny},
	})
}

// bevel fills the notch between the outer corners of two strokes meeting
// at vertex.
func bevel(z *vector.Rasterizer, bounds image.Rectangle, prev, vertex, next f64.Vec2, half float64) {
	n1, ok1 := normal(prev, vertex, half)
	n2, ok2 := normal(vertex, next, half)
	if !ok1 || !ok2 {
		return
	}
	for _, sign := range []float64{1, -1} {
		polygon(z, bounds, []f64.Vec2{
			vertex,
			{vertex[0] + sign*n1[0], vertex[1] + sign*n1[1]},
			{vertex[0] + sign*n2[0], vertex[1] + sign*n2[1]},
		})
	}
}

func normal(a, b f64.Vec2, half float64) (f64.Vec2, bool) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	length := math.Hypot(dx, dy)
	if length == 0 {
		return f64.Vec2{}, false
	}
	return f64.Vec2{-dy / length * half, dx / length * half}, true
}

// polygon adds a closed ring wound clockwise on screen so overlapping pieces
// of one stroke accumulate instead of cancelling.
func polygon(z *vector.Rasterizer, bounds image.Rectangle, points []f64.Vec2) {
	if len(points) < 3 {
		return
	}
	if signedArea(points) < 0 {
		reversed := make([]f64.Vec2, len(points))
		for i, p := range points {
			reversed[len(points)-1-i] = p
		}
		points = reversed
	}
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	z.MoveTo(float32(points[0][0]-ox), float32(points[0][1]-oy))
	for _, p := range points[1:] {
		z.LineTo(float32(p[0]-ox), float32(p[1]-oy))
	}
	z.ClosePath()
}

// ellipse adds four cubic arcs. hole reverses the winding so the ring
// subtracts from an enclosing ellipse.
func ellipse(z *vector.Rasterizer, bounds image.Rectangle, center f64.Vec2, rx, ry float64, hole bool) {
	if rx <= 0 || ry <= 0 {
		return
	}
	cx, cy := center[0]-float64(bounds.Min.X), center[1]-float64(bounds.Min.Y)
	kx, ky := rx*kappa, ry*kappa
	pt := func(x, y float64) (float32, float32) { return float32(cx + x), float32(cy + y) }

	if !hole {
		z.MoveTo(pt(rx, 0))
		cubic(z, pt, rx, ky, kx, ry, 0, ry)
		cubic(z, pt, -kx, ry, -rx, ky, -rx, 0)
		cubic(z, pt, -rx, -ky, -kx, -ry, 0, -ry)
		cubic(z, pt, kx, -ry, rx, -ky, rx, 0)
	} else {
		z.MoveTo(pt(rx, 0))
		cubic(z, pt, rx, -ky, kx, -ry, 0, -ry)
		cubic(z, pt, -kx, -ry, -rx, -ky, -rx, 0)
		cubic(z, pt, -rx, ky, -kx, ry, 0, ry)
		cubic(z, pt, kx, ry, rx, ky, rx, 0)
	}
	z.ClosePath()
}

func cubic(z *vector.Rasterizer, pt func(x, y float64) (float32, float32), x1, y1, x2, y2, x3, y3 float64) {
	ax, ay := pt(x1, y1)
	bx, by := pt(x2, y2)
	cx, cy := pt(x3, y3)
	z.CubeTo(ax, ay, bx, by, cx, cy)
}

func signedArea(points []f64.Vec2) float64 {
	area := 0.0
	for i := range points {
		j := (i + 1) % len(points)
		area += points[i][0]*points[j][1] - points[j][0]*points[i][1]
	}
	return area / 2
}
