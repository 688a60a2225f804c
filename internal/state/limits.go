package state

// Editor ranges. The renderer clamps to them; the editing boundary rejects
// values outside them.
const (
	MinCanvasSize = 1
	MaxCanvasSize = 4096

	MaxSizePx      = 2000
	MinThicknessPx = 1
	MaxThicknessPx = 50
	MaxOffsetPx    = 3000

	MinScale       = 0.1
	MaxScale       = 4.0
	MinObjectScale = 0.1
	MaxObjectScale = 4.0

	MinSides = 3
	MaxSides = 24
)

// ClampCanvasSize limits a canvas side to what a presenter can allocate.
func ClampCanvasSize(size int) int {
	return min(max(size, MinCanvasSize), MaxCanvasSize)
}
