package editing

import (
	"errors"
	"fmt"

	"github.com/rook-computer/crosshair/internal/state"
)

var ErrOutOfRange = errors.New("value out of range")

func checkInt(field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %d not in [%d, %d]", ErrOutOfRange, field, v, lo, hi)
	}
	return nil
}

func checkFloat(field string, v, lo, hi float64) error {
	if !(v >= lo && v <= hi) {
		return fmt.Errorf("%w: %s %v not in [%v, %v]", ErrOutOfRange, field, v, lo, hi)
	}
	return nil
}

func CheckCanvasSize(size int) error {
	return checkInt("canvas_size", size, state.MinCanvasSize, state.MaxCanvasSize)
}

// CheckCrosshair rejects crosshair fields outside the editor ranges. Every
// offending field is reported.
func CheckCrosshair(c state.Crosshair) error {
	return errors.Join(
		checkInt("thickness", c.Thickness, state.MinThicknessPx, state.MaxThicknessPx),
		checkInt("length", c.Length, 0, state.MaxSizePx),
		checkInt("gap", c.Gap, 0, state.MaxSizePx),
		checkInt("radius", c.Radius, 0, state.MaxSizePx),
		checkInt("offset_x", c.OffsetX, -state.MaxOffsetPx, state.MaxOffsetPx),
		checkInt("offset_y", c.OffsetY, -state.MaxOffsetPx, state.MaxOffsetPx),
		checkFloat("scale", c.Scale, state.MinScale, state.MaxScale),
		checkFloat("opacity", c.Opacity, 0, 1),
	)
}

// CheckObject rejects object fields outside the editor ranges.
func CheckObject(obj state.SceneObject) error {
	errs := []error{
		checkInt("x", obj.X, -state.MaxOffsetPx, state.MaxOffsetPx),
		checkInt("y", obj.Y, -state.MaxOffsetPx, state.MaxOffsetPx),
		checkFloat("scale", obj.Scale, state.MinObjectScale, state.MaxObjectScale),
		checkInt("thickness", obj.Thickness, state.MinThicknessPx, state.MaxThicknessPx),
		checkFloat("opacity", obj.Opacity, 0, 1),
	}
	size := func(field string, v int) {
		errs = append(errs, checkInt(field, v, 0, state.MaxSizePx))
	}
	switch shape := obj.Shape.(type) {
	case state.Line:
		size("size_a", shape.Length)
	case state.Rect:
		size("size_a", shape.Width)
		size("size_b", shape.Height)
	case state.Circle:
		size("size_a", shape.Radius)
	case state.Cross:
		size("size_a", shape.Length)
		size("size_b", shape.Gap)
	case state.XCross:
		size("size_a", shape.Arm)
	case state.Triangle:
		size("size_a", shape.Radius)
	case state.NGon:
		size("size_a", shape.Radius)
		errs = append(errs, checkInt("sides", shape.Sides, state.MinSides, state.MaxSides))
	}
	return errors.Join(errs...)
}
