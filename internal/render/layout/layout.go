package layout

import "image"

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Center is the middle pixel of rect: the midpoint of its first and last
// pixel, truncated toward zero. An even side picks the pixel before the
// midline, so a 600 wide rect starting at 0 has its center at 299.
func Center(rect image.Rectangle) image.Point {
	rect = Normalize(rect)
	return image.Pt((rect.Min.X+rect.Max.X-1)/2, (rect.Min.Y+rect.Max.Y-1)/2)
}

// CenterSquare returns the square of side sizePx whose center is the center
// of rect. The square may be larger than rect. sizePx is floored at 1.
func CenterSquare(rect image.Rectangle, sizePx int) image.Rectangle {
	if sizePx < 1 {
		sizePx = 1
	}
	c := Center(rect)
	origin := c.Sub(image.Pt(sizePx/2, sizePx/2))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(sizePx, sizePx))}
}
