package render

import (
	"image"
	"image/color"
	"math"

	"github.com/rook-computer/crosshair/internal/state"
	"golang.org/x/image/math/f64"
)

// Source tells which part of a scene produced a layer.
type Source int

const (
	SourceCrosshair Source = iota
	SourceObject
)

type PrimitiveKind int

const (
	PrimitiveLine PrimitiveKind = iota
	PrimitiveEllipse
	PrimitivePolygon
)

// Stroke is the pen a primitive is outlined with. Width is in the units of
// the coordinates it travels with: local for Layer.Primitives, pixels after
// Layer.Device.
type Stroke struct {
	Color color.NRGBA
	Width float64
}

// Primitive is one draw command. Line uses Points[0..1], Ellipse is centered
// on Points[0] with radii RX/RY, Polygon is the closed ring through Points.
type Primitive struct {
	Kind   PrimitiveKind
	Points []f64.Vec2
	RX, RY float64
	Stroke Stroke
	Fill   color.NRGBA
	Filled bool
}

// Layer groups the primitives of the base crosshair or of one scene object
// with the transform that takes them to surface coordinates.
type Layer struct {
	Source     Source
	Index      int
	Transform  f64.Aff3
	Primitives []Primitive
}

// Frame is the ordered, back-to-front output for one surface.
type Frame struct {
	Layers []Layer
}

// CrosshairLayers counts the layers drawn for the base crosshair.
func (frame Frame) CrosshairLayers() int {
	n := 0
	for _, layer := range frame.Layers {
		if layer.Source == SourceCrosshair {
			n++
		}
	}
	return n
}

// Device returns every primitive of the frame in surface coordinates.
func (frame Frame) Device() []Primitive {
	var out []Primitive
	for _, layer := range frame.Layers {
		out = append(out, layer.Device()...)
	}
	return out
}

// Device maps the layer's primitives through its transform.
func (layer Layer) Device() []Primitive {
	s := UniformScale(layer.Transform)
	out := make([]Primitive, len(layer.Primitives))
	for i, prim := range layer.Primitives {
		mapped := prim
		mapped.Points = make([]f64.Vec2, len(prim.Points))
		for j, p := range prim.Points {
			mapped.Points[j] = Apply(layer.Transform, p)
		}
		mapped.RX *= s
		mapped.RY *= s
		mapped.Stroke.Width *= s
		out[i] = mapped
	}
	return out
}

func ClampScale(scale float64) float64 {
	return clampFloat(scale, state.MinScale, state.MaxScale)
}

func ClampObjectScale(scale float64) float64 {
	return clampFloat(scale, state.MinObjectScale, state.MaxObjectScale)
}

// sizePx caps a size field at the editor maximum. Minimums are applied by
// each shape.
func sizePx(v int) int { return min(v, state.MaxSizePx) }

func thicknessPx(v int) int { return clampInt(v, state.MinThicknessPx, state.MaxThicknessPx) }

func offsetPx(v int) int { return clampInt(v, -state.MaxOffsetPx, state.MaxOffsetPx) }

// degrees maps a non-finite rotation to 0.
func degrees(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// roundPx rounds half to even, the rounding the pen and crosshair sizes use.
func roundPx(v float64) int {
	return int(math.RoundToEven(v))
}

// BaseStroke is the default pen for the base crosshair of body.
func BaseStroke(body state.SceneBody, globalScale float64) Stroke {
	return Stroke{
		Color: ResolveColor(body.ColorHex, body.Opacity),
		Width: float64(max(1, roundPx(float64(thicknessPx(body.Thickness))*ClampScale(globalScale)))),
	}
}

// BuildFrame maps a scene onto a surface whose center is center.
func BuildFrame(body state.SceneBody, center image.Point, globalScale float64) Frame {
	return BuildFrameWith(body, center, globalScale, BaseStroke(body, globalScale))
}

// BuildFrameWith is BuildFrame with the base crosshair pen supplied by the
// caller. It keeps no state between calls.
func BuildFrameWith(body state.SceneBody, center image.Point, globalScale float64, base Stroke) Frame {
	scale := ClampScale(globalScale)
	cx := float64(center.X + offsetPx(body.OffsetX))
	cy := float64(center.Y + offsetPx(body.OffsetY))

	var frame Frame
	if !body.HidesCrosshair() {
		if prims := crosshairPrimitives(body.Crosshair, cx, cy, scale, base); len(prims) > 0 {
			frame.Layers = append(frame.Layers, Layer{
				Source:     SourceCrosshair,
				Transform:  Identity(),
				Primitives: prims,
			})
		}
	}

	stack := NewTransformStack()
	for i, obj := range body.Objects {
		prims := objectPrimitives(obj, scale)
		if len(prims) == 0 {
			continue
		}
		stack.Push()
		stack.Translate(cx+float64(offsetPx(obj.X)), cy+float64(offsetPx(obj.Y)))
		stack.Rotate(degrees(obj.Rotation))
		stack.Scale(ClampObjectScale(obj.Scale))
		frame.Layers = append(frame.Layers, Layer{
			Source:     SourceObject,
			Index:      i,
			Transform:  stack.Current(),
			Primitives: prims,
		})
		stack.Pop()
	}
	return frame
}

func crosshairPrimitives(c state.Crosshair, cx, cy, scale float64, pen Stroke) []Primitive {
	var prims []Primitive
	if c.Style == state.StyleDot {
		r := float64(max(1, roundPx(float64(thicknessPx(c.Thickness)+1)*scale)))
		return append(prims, Primitive{
			Kind:   PrimitiveEllipse,
			Points: []f64.Vec2{{cx, cy}},
			RX:     r,
			RY:     r,
			Stroke: pen,
			Fill:   ResolveColor(c.ColorHex, c.Opacity),
			Filled: true,
		})
	}
	if c.Style == state.StyleCross || c.Style == state.StyleCrossCircle {
		g := float64(max(0, roundPx(float64(sizePx(c.Gap))*scale)))
		l := float64(max(2, roundPx(float64(sizePx(c.Length))*scale)))
		prims = append(prims,
			line(cx-g-l, cy, cx-g, cy, pen),
			line(cx+g, cy, cx+g+l, cy, pen),
			line(cx, cy-g-l, cx, cy-g, pen),
			line(cx, cy+g, cx, cy+g+l, pen),
		)
	}
	if c.Style == state.StyleCircle || c.Style == state.StyleCrossCircle {
		r := float64(max(2, roundPx(float64(sizePx(c.Radius))*scale)))
		prims = append(prims, Primitive{
			Kind:   PrimitiveEllipse,
			Points: []f64.Vec2{{cx, cy}},
			RX:     r,
			RY:     r,
			Stroke: pen,
		})
	}
	return prims
}

// objectPrimitives builds the local geometry of one object. Sizes are floored
// at their minimum and capped at the editor maximum instead of being
// rejected.
func objectPrimitives(obj state.SceneObject, scale float64) []Primitive {
	pen := Stroke{
		Color: ResolveColor(obj.ColorHex, obj.Opacity),
		Width: float64(max(1, roundPx(float64(thicknessPx(obj.Thickness))*scale))),
	}
	fill := closedFill(obj)

	switch shape := obj.Shape.(type) {
	case state.Line:
		l := max(1, sizePx(shape.Length))
		return []Primitive{line(float64(floorDiv(-l, 2)), 0, float64(l/2), 0, pen)}
	case state.Rect:
		w, h := max(1, sizePx(shape.Width)), max(1, sizePx(shape.Height))
		x0, y0 := float64(floorDiv(-w, 2)), float64(floorDiv(-h, 2))
		x1, y1 := x0+float64(w), y0+float64(h)
		return []Primitive{fill(Primitive{
			Kind:   PrimitivePolygon,
			Points: []f64.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}},
			Stroke: pen,
		})}
	case state.Circle:
		r := float64(max(1, sizePx(shape.Radius)))
		return []Primitive{fill(Primitive{
			Kind:   PrimitiveEllipse,
			Points: []f64.Vec2{{0, 0}},
			RX:     r,
			RY:     r,
			Stroke: pen,
		})}
	case state.Cross:
		l := float64(max(2, sizePx(shape.Length)))
		half := float64(max(0, sizePx(shape.Gap)) / 2)
		return []Primitive{
			line(-half-l, 0, -half, 0, pen),
			line(half, 0, half+l, 0, pen),
			line(0, -half-l, 0, -half, pen),
			line(0, half, 0, half+l, pen),
		}
	case state.XCross:
		l := float64(max(2, sizePx(shape.Arm)))
		return []Primitive{
			line(-l, -l, l, l, pen),
			line(-l, l, l, -l, pen),
		}
	case state.Triangle:
		return []Primitive{fill(regularPolygon(max(1, sizePx(shape.Radius)), 3, pen))}
	case state.NGon:
		sides := clampInt(shape.Sides, state.MinSides, state.MaxSides)
		return []Primitive{fill(regularPolygon(max(1, sizePx(shape.Radius)), sides, pen))}
	}
	return nil
}

func closedFill(obj state.SceneObject) func(Primitive) Primitive {
	return func(prim Primitive) Primitive {
		if obj.Fill {
			prim.Filled = true
			prim.Fill = prim.Stroke.Color
		}
		return prim
	}
}

func line(x0, y0, x1, y1 float64, pen Stroke) Primitive {
	return Primitive{
		Kind:   PrimitiveLine,
		Points: []f64.Vec2{{x0, y0}, {x1, y1}},
		Stroke: pen,
	}
}

// regularPolygon places vertex i at -90°+360°·i/n on radius r, truncating
// coordinates toward zero.
func regularPolygon(r, n int, pen Stroke) Primitive {
	points := make([]f64.Vec2, n)
	for i := range points {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		points[i] = f64.Vec2{
			float64(int(math.Cos(angle) * float64(r))),
			float64(int(math.Sin(angle) * float64(r))),
		}
	}
	return Primitive{Kind: PrimitivePolygon, Points: points, Stroke: pen}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
