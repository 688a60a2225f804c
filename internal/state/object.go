package state

// Kind is the wire name of a scene object shape.
type Kind string

const (
	KindLine     Kind = "Line"
	KindRect     Kind = "Rect"
	KindCircle   Kind = "Circle"
	KindCross    Kind = "Cross"
	KindXCross   Kind = "XCross"
	KindTriangle Kind = "Triangle"
	KindNGon     Kind = "NGon"
)

// Kinds lists every shape kind in the order the editor offers them.
var Kinds = []Kind{KindCircle, KindRect, KindLine, KindCross, KindXCross, KindTriangle, KindNGon}

func (kind Kind) Valid() bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Placement positions an object relative to the surface center. Rotation is
// in degrees clockwise; Scale is clamped at render time.
type Placement struct {
	X        int
	Y        int
	Rotation float64
	Scale    float64
}

type Paint struct {
	Thickness int
	Fill      bool
	ColorHex  string
	Opacity   float64
}

// Shape is one of Line, Rect, Circle, Cross, XCross, Triangle or NGon.
type Shape interface {
	Kind() Kind
	isShape()
}

// Line is a horizontal segment of Length centered on the origin.
type Line struct{ Length int }

type Rect struct{ Width, Height int }

type Circle struct{ Radius int }

// Cross is a plus of four arms of Length, split by Gap at the center.
type Cross struct{ Length, Gap int }

// XCross spans from (-Arm,-Arm) to (Arm,Arm) and from (-Arm,Arm) to (Arm,-Arm).
type XCross struct{ Arm int }

type Triangle struct{ Radius int }

// NGon is a regular polygon inscribed in Radius; Sides is clamped to 3..24.
type NGon struct{ Radius, Sides int }

func (Line) Kind() Kind     { return KindLine }
func (Rect) Kind() Kind     { return KindRect }
func (Circle) Kind() Kind   { return KindCircle }
func (Cross) Kind() Kind    { return KindCross }
func (XCross) Kind() Kind   { return KindXCross }
func (Triangle) Kind() Kind { return KindTriangle }
func (NGon) Kind() Kind     { return KindNGon }

func (Line) isShape()     {}
func (Rect) isShape()     {}
func (Circle) isShape()   {}
func (Cross) isShape()    {}
func (XCross) isShape()   {}
func (Triangle) isShape() {}
func (NGon) isShape()     {}

type SceneObject struct {
	Placement
	Paint
	Shape Shape
}

func (obj SceneObject) Kind() Kind {
	if obj.Shape == nil {
		return ""
	}
	return obj.Shape.Kind()
}

// DefaultShape returns the shape a freshly added object of kind starts with.
func DefaultShape(kind Kind) (Shape, bool) {
	switch kind {
	case KindCircle:
		return Circle{Radius: 40}, true
	case KindRect:
		return Rect{Width: 60, Height: 40}, true
	case KindLine:
		return Line{Length: 120}, true
	case KindCross:
		return Cross{Length: 40, Gap: 8}, true
	case KindXCross:
		return XCross{Arm: 40}, true
	case KindTriangle:
		return Triangle{Radius: 40}, true
	case KindNGon:
		return NGon{Radius: 40, Sides: 5}, true
	}
	return nil, false
}

// NewObject builds an object of kind with the editor defaults. Unknown kinds
// report false.
func NewObject(kind Kind) (SceneObject, bool) {
	shape, ok := DefaultShape(kind)
	if !ok {
		return SceneObject{}, false
	}
	return SceneObject{
		Placement: Placement{Scale: 1.0},
		Paint:     Paint{Thickness: 2, ColorHex: "#FF0000", Opacity: 1.0},
		Shape:     shape,
	}, true
}
