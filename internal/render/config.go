package render

import "image/color"

// Preview palette. The checkerboard stands in for whatever the overlay
// would sit on top of.
var (
	CheckerLight = color.RGBA{R: 0x3A, G: 0x3C, B: 0x44, A: 0xFF}
	CheckerDark  = color.RGBA{R: 0x1A, G: 0x1B, B: 0x20, A: 0xFF}
	LabelColor   = color.RGBA{R: 0xE6, G: 0xE6, B: 0xE6, A: 0xFF}
	LabelShadow  = color.RGBA{A: 0xFF}

	CheckerCellPx  = 16
	LabelSizePt    = 14.0
	LabelMarginPx  = 8
	PreviewMaxSide = 4096
)
