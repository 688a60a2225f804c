package render

import (
	"image"
	"math"
	"reflect"
	"testing"

	"github.com/rook-computer/crosshair/internal/state"
	"golang.org/x/image/math/f64"
)

func crossBody() state.SceneBody {
	c := state.DefaultCrosshair()
	c.Style, c.Thickness, c.Length, c.Gap = state.StyleCross, 2, 24, 6
	return state.SceneBody{Crosshair: c, Objects: []state.SceneObject{}}
}

func object(t *testing.T, kind state.Kind) state.SceneObject {
	t.Helper()
	obj, ok := state.NewObject(kind)
	if !ok {
		t.Fatalf("NewObject(%s)", kind)
	}
	return obj
}

func TestCrossScenario(t *testing.T) {
	frame := BuildFrame(crossBody(), image.Pt(300, 300), 1.0)
	if frame.CrosshairLayers() != 1 || len(frame.Layers) != 1 {
		t.Fatalf("layers = %+v", frame.Layers)
	}
	prims := frame.Device()
	want := [][2]f64.Vec2{
		{{270, 300}, {294, 300}},
		{{306, 300}, {330, 300}},
		{{300, 270}, {300, 294}},
		{{300, 306}, {300, 330}},
	}
	if len(prims) != len(want) {
		t.Fatalf("got %d primitives, want %d", len(prims), len(want))
	}
	for i, prim := range prims {
		if prim.Kind != PrimitiveLine {
			t.Fatalf("primitive %d kind = %v", i, prim.Kind)
		}
		if prim.Points[0] != want[i][0] || prim.Points[1] != want[i][1] {
			t.Errorf("segment %d = %v-%v, want %v-%v", i, prim.Points[0], prim.Points[1], want[i][0], want[i][1])
		}
		if prim.Stroke.Width != 2 {
			t.Errorf("segment %d width = %v", i, prim.Stroke.Width)
		}
	}
}

func TestCrosshairSuppression(t *testing.T) {
	cases := []struct {
		name    string
		hide    bool
		objects int
		want    int
	}{
		{"shown", false, 0, 1},
		{"hidden without objects", true, 0, 0},
		{"objects win over flag", false, 2, 0},
		{"objects and flag", true, 1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := crossBody()
			body.HideCrosshair = tc.hide
			for i := 0; i < tc.objects; i++ {
				body.Objects = append(body.Objects, object(t, state.KindCircle))
			}
			frame := BuildFrame(body, image.Pt(100, 100), 1)
			if got := frame.CrosshairLayers(); got != tc.want {
				t.Fatalf("crosshair layers = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCrosshairStyles(t *testing.T) {
	cases := []struct {
		style    state.Style
		lines    int
		ellipses int
		filled   bool
	}{
		{state.StyleDot, 0, 1, true},
		{state.StyleCross, 4, 0, false},
		{state.StyleCircle, 0, 1, false},
		{state.StyleCrossCircle, 4, 1, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.style), func(t *testing.T) {
			body := crossBody()
			body.Style = tc.style
			var lines, ellipses int
			filled := false
			for _, prim := range BuildFrame(body, image.Pt(0, 0), 1).Device() {
				switch prim.Kind {
				case PrimitiveLine:
					lines++
				case PrimitiveEllipse:
					ellipses++
					filled = filled || prim.Filled
				}
			}
			if lines != tc.lines || ellipses != tc.ellipses || filled != tc.filled {
				t.Fatalf("lines=%d ellipses=%d filled=%v", lines, ellipses, filled)
			}
		})
	}
}

func TestDotRadiusRoundsHalfToEven(t *testing.T) {
	body := crossBody()
	body.Style = state.StyleDot
	body.Thickness = 1
	// (1+1)·1.25 = 2.5 rounds to 2.
	prims := BuildFrame(body, image.Pt(0, 0), 1.25).Device()
	if prims[0].RX != 2 {
		t.Fatalf("dot radius = %v, want 2", prims[0].RX)
	}
}

func TestUnknownStyleDrawsNoCrosshair(t *testing.T) {
	body := crossBody()
	body.Style = "Star"
	if frame := BuildFrame(body, image.Pt(0, 0), 1); len(frame.Layers) != 0 {
		t.Fatalf("layers = %+v", frame.Layers)
	}
}

func TestGlobalScaleClamped(t *testing.T) {
	body := crossBody()
	huge := BuildFrame(body, image.Pt(0, 0), 100).Device()
	capped := BuildFrame(body, image.Pt(0, 0), 4).Device()
	if !reflect.DeepEqual(huge, capped) {
		t.Fatal("scale 100 should render like scale 4")
	}
	if huge[0].Stroke.Width != 8 {
		t.Fatalf("stroke width = %v, want 8", huge[0].Stroke.Width)
	}
	tiny := BuildFrame(body, image.Pt(0, 0), -3).Device()
	floor := BuildFrame(body, image.Pt(0, 0), 0.1).Device()
	if !reflect.DeepEqual(tiny, floor) {
		t.Fatal("negative scale should render like scale 0.1")
	}
}

func TestObjectScaleClamped(t *testing.T) {
	obj := object(t, state.KindRect)
	obj.Scale = -5
	body := state.SceneBody{Crosshair: state.DefaultCrosshair(), Objects: []state.SceneObject{obj}}
	frame := BuildFrame(body, image.Pt(0, 0), 1)
	if got := UniformScale(frame.Layers[0].Transform); math.Abs(got-0.1) > 1e-12 {
		t.Fatalf("object scale = %v, want 0.1", got)
	}
}

func TestObjectTransformOrder(t *testing.T) {
	obj := object(t, state.KindLine)
	obj.Shape = state.Line{Length: 20}
	obj.X, obj.Y = 10, 0
	obj.Rotation = 90
	obj.Scale = 2
	body := state.SceneBody{Crosshair: state.DefaultCrosshair(), Objects: []state.SceneObject{obj}}
	body.OffsetX = 5
	prims := BuildFrame(body, image.Pt(100, 100), 1).Device()
	// Local (-10,0)-(10,0), scaled by 2, rotated clockwise onto the Y axis,
	// then moved to (100+5+10, 100).
	want := [2]f64.Vec2{{115, 80}, {115, 120}}
	for i, p := range prims[0].Points {
		if math.Abs(p[0]-want[i][0]) > 1e-9 || math.Abs(p[1]-want[i][1]) > 1e-9 {
			t.Fatalf("point %d = %v, want %v", i, p, want[i])
		}
	}
	if prims[0].Stroke.Width != 4 {
		t.Fatalf("stroke width = %v, want 4", prims[0].Stroke.Width)
	}
}

func TestNGonOfThreeMatchesTriangle(t *testing.T) {
	tri := object(t, state.KindTriangle)
	tri.Shape = state.Triangle{Radius: 37}
	gon := tri
	gon.Shape = state.NGon{Radius: 37, Sides: 3}
	for _, rot := range []float64{0, 17.5, -200} {
		tri.Rotation, gon.Rotation = rot, rot
		a := BuildFrame(state.SceneBody{Objects: []state.SceneObject{tri}}, image.Pt(50, 60), 1)
		b := BuildFrame(state.SceneBody{Objects: []state.SceneObject{gon}}, image.Pt(50, 60), 1)
		if !reflect.DeepEqual(a.Device(), b.Device()) {
			t.Fatalf("rotation %v: NGon(3) %+v differs from Triangle %+v", rot, b.Device(), a.Device())
		}
	}
}

func TestObjectGeometry(t *testing.T) {
	cases := []struct {
		name   string
		shape  state.Shape
		kind   PrimitiveKind
		points []f64.Vec2
		radius float64
	}{
		{"odd line floors left end", state.Line{Length: 5}, PrimitiveLine, []f64.Vec2{{-3, 0}, {2, 0}}, 0},
		{"degenerate line", state.Line{Length: -4}, PrimitiveLine, []f64.Vec2{{-1, 0}, {0, 0}}, 0},
		{"rect", state.Rect{Width: 5, Height: 4}, PrimitivePolygon, []f64.Vec2{{-3, -2}, {2, -2}, {2, 2}, {-3, 2}}, 0},
		{"circle floor", state.Circle{Radius: 0}, PrimitiveEllipse, []f64.Vec2{{0, 0}}, 1},
		{"square ngon", state.NGon{Radius: 10, Sides: 4}, PrimitivePolygon, []f64.Vec2{{0, -10}, {10, 0}, {0, 10}, {-10, 0}}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj := object(t, state.KindCircle)
			obj.Shape = tc.shape
			prims := objectPrimitives(obj, 1)
			if len(prims) != 1 {
				t.Fatalf("got %d primitives", len(prims))
			}
			if prims[0].Kind != tc.kind {
				t.Fatalf("kind = %v, want %v", prims[0].Kind, tc.kind)
			}
			if !reflect.DeepEqual(prims[0].Points, tc.points) {
				t.Fatalf("points = %v, want %v", prims[0].Points, tc.points)
			}
			if prims[0].RX != tc.radius {
				t.Fatalf("radius = %v, want %v", prims[0].RX, tc.radius)
			}
		})
	}
}

func TestTriangleApexPointsUp(t *testing.T) {
	obj := object(t, state.KindTriangle)
	obj.Shape = state.Triangle{Radius: 10}
	points := objectPrimitives(obj, 1)[0].Points
	if len(points) != 3 || points[0] != (f64.Vec2{0, -10}) {
		t.Fatalf("points = %v", points)
	}
	if points[1][0] <= 0 || points[2][0] >= 0 || points[1][1] <= 0 {
		t.Fatalf("vertices not placed clockwise from the apex: %v", points)
	}
}

func TestNGonSidesClamped(t *testing.T) {
	obj := object(t, state.KindNGon)
	for _, tc := range []struct{ sides, want int }{{0, 3}, {3, 3}, {9, 9}, {100, 24}} {
		obj.Shape = state.NGon{Radius: 20, Sides: tc.sides}
		if got := len(objectPrimitives(obj, 1)[0].Points); got != tc.want {
			t.Errorf("sides %d: got %d vertices, want %d", tc.sides, got, tc.want)
		}
	}
}

func TestCrossObjectGap(t *testing.T) {
	obj := object(t, state.KindCross)
	obj.Shape = state.Cross{Length: 10, Gap: 7}
	prims := objectPrimitives(obj, 1)
	if len(prims) != 4 {
		t.Fatalf("got %d segments", len(prims))
	}
	if prims[0].Points[0] != (f64.Vec2{-13, 0}) || prims[0].Points[1] != (f64.Vec2{-3, 0}) {
		t.Fatalf("left arm = %v", prims[0].Points)
	}
	if prims[3].Points[0] != (f64.Vec2{0, 3}) || prims[3].Points[1] != (f64.Vec2{0, 13}) {
		t.Fatalf("bottom arm = %v", prims[3].Points)
	}
}

func TestFillOnlyForClosedShapes(t *testing.T) {
	for _, kind := range state.Kinds {
		obj := object(t, kind)
		obj.Fill = true
		for _, prim := range objectPrimitives(obj, 1) {
			if prim.Kind == PrimitiveLine && prim.Filled {
				t.Errorf("%s: line primitive marked filled", kind)
			}
			if prim.Kind != PrimitiveLine && !prim.Filled {
				t.Errorf("%s: closed primitive not filled", kind)
			}
		}
	}
}

func TestBuildFrameIsIdempotent(t *testing.T) {
	body := crossBody()
	for _, kind := range state.Kinds {
		obj := object(t, kind)
		obj.Rotation = 33
		obj.X = -4
		body.Objects = append(body.Objects, obj)
	}
	a := BuildFrame(body, image.Pt(320, 240), 1.5)
	b := BuildFrame(body, image.Pt(320, 240), 1.5)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two renders of the same scene differ")
	}
	if len(a.Layers) != len(state.Kinds) {
		t.Fatalf("layers = %d", len(a.Layers))
	}
}

func TestUnknownShapeDrawsNothing(t *testing.T) {
	body := state.SceneBody{Objects: []state.SceneObject{{Placement: state.Placement{Scale: 1}}}}
	if frame := BuildFrame(body, image.Pt(0, 0), 1); len(frame.Layers) != 0 {
		t.Fatalf("layers = %+v", frame.Layers)
	}
}

func TestBuildFrameWithUsesSuppliedPen(t *testing.T) {
	pen := Stroke{Width: 9}
	for _, prim := range BuildFrameWith(crossBody(), image.Pt(0, 0), 1, pen).Device() {
		if prim.Stroke != pen {
			t.Fatalf("stroke = %+v, want %+v", prim.Stroke, pen)
		}
	}
}

func TestResolveColor(t *testing.T) {
	cases := []struct {
		hex     string
		opacity float64
		r, g, a uint8
	}{
		{"#00FF00", 1, 0, 255, 255},
		{"#ff0000", 0.5, 255, 0, 128},
		{"#FF0000", 7, 255, 0, 255},
		{"#FF0000", -1, 255, 0, 0},
		{"garbage", 1, 0, 0, 255},
	}
	for _, tc := range cases {
		got := ResolveColor(tc.hex, tc.opacity)
		if got.R != tc.r || got.G != tc.g || got.A != tc.a {
			t.Errorf("ResolveColor(%q, %v) = %+v", tc.hex, tc.opacity, got)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	for _, tc := range []struct{ a, b, want int }{{5, 2, 2}, {-5, 2, -3}, {-4, 2, -2}, {0, 2, 0}} {
		if got := floorDiv(tc.a, tc.b); got != tc.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestOversizedFieldsCappedAtEditorRange(t *testing.T) {
	body := crossBody()
	body.Thickness = 1 << 62
	body.Length = math.MaxInt32
	body.OffsetX = -1 << 40

	if got := BaseStroke(body, 1).Width; got != state.MaxThicknessPx {
		t.Fatalf("base stroke = %v, want %v", got, state.MaxThicknessPx)
	}
	left := BuildFrame(body, image.Pt(0, 0), 1).Layers[0].Primitives[0]
	if left.Points[0][0] != -state.MaxOffsetPx-6-state.MaxSizePx {
		t.Fatalf("left arm starts at %v", left.Points[0])
	}

	circle := object(t, state.KindCircle)
	circle.Shape = state.Circle{Radius: 1 << 40}
	circle.Scale = 1e12
	circle.Thickness = 1 << 62
	circle.X = 1 << 50
	circle.Rotation = math.Inf(1)
	body.Objects = []state.SceneObject{circle}

	layer := BuildFrame(body, image.Pt(0, 0), 1).Layers[0]
	if layer.Source != SourceObject {
		t.Fatalf("layer source = %v", layer.Source)
	}
	// Offsets cancel: -MaxOffsetPx from the scene, +MaxOffsetPx from the object.
	if layer.Transform != (f64.Aff3{state.MaxObjectScale, 0, 0, 0, state.MaxObjectScale, 0}) {
		t.Fatalf("object transform = %v", layer.Transform)
	}
	prim := layer.Primitives[0]
	if prim.RX != state.MaxSizePx || prim.Stroke.Width != state.MaxThicknessPx {
		t.Fatalf("object primitive = %+v", prim)
	}
}
