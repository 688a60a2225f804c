package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ResolveColor turns a "#rrggbb" string and an opacity into a drawable color.
// Opacity is clamped to [0,1]. Hex text is validated before it gets here; a
// malformed value still resolves to black rather than failing the frame.
func ResolveColor(hex string, opacity float64) color.NRGBA {
	alpha := uint8(math.Round(clampFloat(opacity, 0, 1) * 255))
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{A: alpha}
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
