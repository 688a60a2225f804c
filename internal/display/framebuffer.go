package display

import "image"

type bounded interface {
	Bounds() image.Rectangle
}

// FBSource reports the framebuffer as a single display, or split into the
// regions given in Regions (clipped to the framebuffer).
type FBSource struct {
	Device  bounded
	Regions Static
}

func (src FBSource) Displays() ([]image.Rectangle, error) {
	bounds := src.Device.Bounds()
	if len(src.Regions) == 0 {
		return []image.Rectangle{bounds}, nil
	}
	out := make([]image.Rectangle, 0, len(src.Regions))
	for _, region := range src.Regions {
		if clipped := region.Intersect(bounds); !clipped.Empty() {
			out = append(out, clipped)
		}
	}
	if len(out) == 0 {
		return []image.Rectangle{bounds}, nil
	}
	return out, nil
}
