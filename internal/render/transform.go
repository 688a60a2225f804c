package render

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Affine transforms are f64.Aff3 in row-major form:
//
//	| a b c |
//	| d e f |
//	| 0 0 1 |
//
// Angles are degrees, clockwise on screen (Y grows down).

func Identity() f64.Aff3 { return f64.Aff3{1, 0, 0, 0, 1, 0} }

func Translation(dx, dy float64) f64.Aff3 { return f64.Aff3{1, 0, dx, 0, 1, dy} }

func Rotation(degrees float64) f64.Aff3 {
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return f64.Aff3{cos, -sin, 0, sin, cos, 0}
}

func Scaling(s float64) f64.Aff3 { return f64.Aff3{s, 0, 0, 0, s, 0} }

// Mul returns m·n, the transform that applies n first and then m.
func Mul(m, n f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		m[0]*n[0] + m[1]*n[3],
		m[0]*n[1] + m[1]*n[4],
		m[0]*n[2] + m[1]*n[5] + m[2],
		m[3]*n[0] + m[4]*n[3],
		m[3]*n[1] + m[4]*n[4],
		m[3]*n[2] + m[4]*n[5] + m[5],
	}
}

func Apply(m f64.Aff3, p f64.Vec2) f64.Vec2 {
	return f64.Vec2{m[0]*p[0] + m[1]*p[1] + m[2], m[3]*p[0] + m[4]*p[1] + m[5]}
}

// UniformScale is the length a unit vector has after m. Only meaningful for
// transforms built from translations, rotations and uniform scales.
func UniformScale(m f64.Aff3) float64 {
	return math.Hypot(m[0], m[3])
}

// TransformStack composes transforms the way a painter does: each operation
// post-multiplies the current transform, Push/Pop save and restore it.
type TransformStack struct {
	current f64.Aff3
	saved   []f64.Aff3
}

func NewTransformStack() *TransformStack {
	return &TransformStack{current: Identity()}
}

func (stack *TransformStack) Current() f64.Aff3 { return stack.current }

func (stack *TransformStack) Push() {
	stack.saved = append(stack.saved, stack.current)
}

// Pop restores the last pushed transform. Popping an empty stack resets to
// identity.
func (stack *TransformStack) Pop() {
	if len(stack.saved) == 0 {
		stack.current = Identity()
		return
	}
	stack.current = stack.saved[len(stack.saved)-1]
	stack.saved = stack.saved[:len(stack.saved)-1]
}

func (stack *TransformStack) Translate(dx, dy float64) {
	stack.current = Mul(stack.current, Translation(dx, dy))
}

func (stack *TransformStack) Rotate(degrees float64) {
	stack.current = Mul(stack.current, Rotation(degrees))
}

func (stack *TransformStack) Scale(s float64) {
	stack.current = Mul(stack.current, Scaling(s))
}
