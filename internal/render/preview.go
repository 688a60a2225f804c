package render

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/rook-computer/crosshair/internal/render/layout"
	"github.com/rook-computer/crosshair/internal/state"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

type PreviewOptions struct {
	// Size is the side of the square preview; 0 uses the canvas size.
	Size  int
	Label string
	// Transparent skips the checkerboard.
	Transparent bool
}

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
)

func loadLabelFont() *truetype.Font {
	labelFontOnce.Do(func() {
		if f, err := truetype.Parse(goregular.TTF); err == nil {
			labelFont = f
		}
	})
	return labelFont
}

// Preview renders the live scene of cfg off-screen, the way one surface
// would show it.
func Preview(cfg state.Configuration, opts PreviewOptions) *image.RGBA {
	size := opts.Size
	if size <= 0 {
		size = cfg.CanvasSize
	}
	size = clampInt(size, 1, PreviewMaxSide)
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	if !opts.Transparent {
		drawChecker(img)
	}
	frame := BuildFrame(cfg.LiveScene(), layout.Center(image.Rect(0, 0, size, size)), cfg.Scale)
	Rasterize(img, frame)
	if opts.Label != "" {
		drawLabel(img, opts.Label)
	}
	return img
}

func drawChecker(img *image.RGBA) {
	cell := max(1, CheckerCellPx)
	bounds := img.Bounds()
	draw.Draw(img, bounds, &image.Uniform{C: CheckerDark}, image.Point{}, draw.Src)
	light := &image.Uniform{C: CheckerLight}
	for y := bounds.Min.Y; y < bounds.Max.Y; y += cell {
		for x := bounds.Min.X; x < bounds.Max.X; x += cell {
			if ((x-bounds.Min.X)/cell+(y-bounds.Min.Y)/cell)%2 == 0 {
				continue
			}
			draw.Draw(img, image.Rect(x, y, x+cell, y+cell).Intersect(bounds), light, image.Point{}, draw.Src)
		}
	}
}

// drawLabel writes text bottom-left with a one pixel shadow.
func drawLabel(img *image.RGBA, text string) {
	bounds := img.Bounds()
	x := bounds.Min.X + LabelMarginPx
	baseline := bounds.Max.Y - LabelMarginPx

	ttf := loadLabelFont()
	if ttf == nil {
		drawBasicLabel(img, text, x, baseline)
		return
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(LabelSizePt)
	ctx.SetClip(bounds)
	ctx.SetDst(img)
	ctx.SetHinting(font.HintingFull)
	for _, pass := range []struct {
		c      color.Color
		offset int
	}{{LabelShadow, 1}, {LabelColor, 0}} {
		ctx.SetSrc(image.NewUniform(pass.c))
		if _, err := ctx.DrawString(text, freetype.Pt(x+pass.offset, baseline+pass.offset)); err != nil {
			drawBasicLabel(img, text, x, baseline)
			return
		}
	}
}

func drawBasicLabel(img *image.RGBA, text string, x, baseline int) {
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(LabelColor), Face: basicfont.Face7x13}
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}
