package layout

import (
	"image"
	"testing"
)

func TestCenterSquare(t *testing.T) {
	cases := []struct {
		name    string
		display image.Rectangle
		size    int
		want    image.Rectangle
	}{
		{"primary", image.Rect(0, 0, 1920, 1080), 600, image.Rect(659, 239, 1259, 839)},
		{"right of primary", image.Rect(1920, 0, 3840, 1080), 600, image.Rect(2579, 239, 3179, 839)},
		{"negative origin", image.Rect(-1280, -1024, 0, 0), 100, image.Rect(-690, -562, -590, -462)},
		{"odd size", image.Rect(0, 0, 101, 101), 11, image.Rect(45, 45, 56, 56)},
		{"larger than display", image.Rect(0, 0, 200, 200), 400, image.Rect(-101, -101, 299, 299)},
		{"zero size", image.Rect(0, 0, 10, 10), 0, image.Rect(4, 4, 5, 5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CenterSquare(tc.display, tc.size)
			if got != tc.want {
				t.Fatalf("CenterSquare = %v, want %v", got, tc.want)
			}
			if again := CenterSquare(tc.display, tc.size); again != got {
				t.Fatalf("not idempotent: %v then %v", got, again)
			}
		})
	}
}

func TestCenterIsMiddlePixel(t *testing.T) {
	cases := []struct {
		rect image.Rectangle
		want image.Point
	}{
		{image.Rect(0, 0, 600, 600), image.Pt(299, 299)},
		{image.Rect(0, 0, 601, 601), image.Pt(300, 300)},
		{image.Rect(0, 0, 1, 1), image.Pt(0, 0)},
		{image.Rect(1920, 0, 3840, 1080), image.Pt(2879, 539)},
		{image.Rect(-1280, -1024, 0, 0), image.Pt(-640, -512)},
		{image.Rect(10, 10, 0, 0), image.Pt(4, 4)},
	}
	for _, tc := range cases {
		if got := Center(tc.rect); got != tc.want {
			t.Errorf("Center(%v) = %v, want %v", tc.rect, got, tc.want)
		}
	}
}
