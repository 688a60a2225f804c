// Package editing holds the helpers an editor front end needs before it
// touches the scene store: color text validation, picker math and object
// list operations.
package editing

import (
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var ErrInvalidColor = errors.New("invalid color")

// SanitizeHex turns loose user input into #RRGGBB form: it trims, adds the
// leading '#', expands #RGB and cuts anything past seven characters. Text
// that is still not a color afterwards yields ErrInvalidColor.
func SanitizeHex(text string) (string, error) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "#") {
		t = "#" + t
	}
	if len(t) == 4 {
		t = "#" + strings.Repeat(t[1:2], 2) + strings.Repeat(t[2:3], 2) + strings.Repeat(t[3:4], 2)
	}
	if len(t) > 7 {
		t = t[:7]
	}
	if len(t) != 7 || strings.Trim(t[1:], "0123456789abcdefABCDEF") != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, text)
	}
	if _, err := colorful.Hex(t); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, text)
	}
	return t, nil
}

// HSV is a picker position. Hue is in turns, [0, 1).
type HSV struct {
	H, S, V float64
}

// greyHue is where the wheel marker sits for colors without a hue.
const greyHue = 0.33

// HSVFromHex places the picker on hex. Colors without a hue put the marker
// at greyHue, and zero saturation or value are shown at full strength so the
// marker never collapses into the wheel center.
func HSVFromHex(hex string) (HSV, error) {
	clean, err := SanitizeHex(hex)
	if err != nil {
		return HSV{}, err
	}
	c, err := colorful.Hex(clean)
	if err != nil {
		return HSV{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	h, s, v := c.Hsv()
	out := HSV{H: h / 360, S: s, V: v}
	if s == 0 {
		out.H = greyHue
	}
	if out.S <= 0 {
		out.S = 1
	}
	if out.V <= 0 {
		out.V = 1
	}
	return out, nil
}

// HexFromHSV is the #RRGGBB color at a picker position. Inputs are clamped.
func HexFromHSV(hsv HSV) string {
	h := clamp01(hsv.H)
	if h >= 1 {
		h = 0
	}
	c := colorful.Hsv(h*360, clamp01(hsv.S), clamp01(hsv.V)).Clamped()
	return strings.ToUpper(c.Hex())
}

func clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
