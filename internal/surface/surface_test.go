package surface

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
)

func newTestSurface(display image.Rectangle) (*Surface, *MemoryPresenter) {
	presenter := NewMemoryPresenter()
	return New(display, state.DefaultConfiguration(), presenter), presenter
}

func TestRepositionCentersCanvas(t *testing.T) {
	surface, _ := newTestSurface(image.Rect(1920, 0, 3840, 1080))
	if got, want := surface.Target(), image.Rect(2579, 239, 3179, 839); got != want {
		t.Fatalf("target = %v, want %v", got, want)
	}
	surface.Render()
	surface.Reposition(image.Rect(1920, 0, 3840, 1080))
	if surface.Dirty() {
		t.Fatal("repositioning onto the same display should change nothing")
	}
	surface.Reposition(image.Rect(0, 0, 800, 600))
	if got, want := surface.Target(), image.Rect(99, -1, 699, 599); got != want || !surface.Dirty() {
		t.Fatalf("target = %v dirty=%v, want %v", got, surface.Dirty(), want)
	}
}

func TestResizeCanvasKeepsDisplay(t *testing.T) {
	surface, _ := newTestSurface(image.Rect(0, 0, 1000, 1000))
	surface.ResizeCanvas(200)
	if got, want := surface.Target(), image.Rect(399, 399, 599, 599); got != want {
		t.Fatalf("target = %v, want %v", got, want)
	}
	surface.ResizeCanvas(-5)
	if surface.CanvasSize() != 1 {
		t.Fatalf("canvas = %d", surface.CanvasSize())
	}
}

func TestRefreshInvalidatesStroke(t *testing.T) {
	surface, _ := newTestSurface(image.Rect(0, 0, 640, 480))
	first := surface.DefaultStroke()
	if surface.stroke == nil {
		t.Fatal("stroke not cached after first use")
	}

	cfg := state.DefaultConfiguration()
	cfg.ColorHex = "#FF00FF"
	cfg.Thickness = 5
	surface.Refresh(cfg)
	if surface.stroke != nil {
		t.Fatal("refresh kept the cached stroke")
	}
	second := surface.DefaultStroke()
	if second == first || second.Width != 5 || second.Color.B != 0xFF {
		t.Fatalf("stroke after refresh = %+v", second)
	}
}

func TestRefreshDetachesConfiguration(t *testing.T) {
	cfg := state.DefaultConfiguration()
	rect, _ := state.NewObject(state.KindRect)
	body := cfg.Scenes[cfg.ActiveScene]
	body.Objects = []state.SceneObject{rect}
	cfg.Scenes[cfg.ActiveScene] = body

	surface := New(image.Rect(0, 0, 100, 100), cfg, NewMemoryPresenter())
	cfg.Scenes[cfg.ActiveScene].Objects[0].X = 50
	if surface.config.LiveScene().Objects[0].X != 0 {
		t.Fatal("surface shares object storage with the caller")
	}
}

func TestRenderIsRepeatable(t *testing.T) {
	surface, presenter := newTestSurface(image.Rect(0, 0, 1920, 1080))
	if err := surface.Render(); err != nil {
		t.Fatal(err)
	}
	first := presenter.Image()
	if err := surface.Render(); err != nil {
		t.Fatal(err)
	}
	second := presenter.Image()
	if string(first.Pix) != string(second.Pix) {
		t.Fatal("second render differs from the first")
	}
	if presenter.Target() != surface.Target() || presenter.Presents() != 2 {
		t.Fatalf("presenter target %v presents %d", presenter.Target(), presenter.Presents())
	}
	// The crosshair sits on the middle pixel of the 600 px canvas.
	if px := first.RGBAAt(299-6-10, 299); px.G != 0xFF || px.A != 0xFF {
		t.Fatalf("arm pixel = %+v", px)
	}
}

func TestRenderFailureKeepsDirty(t *testing.T) {
	surface, presenter := newTestSurface(image.Rect(0, 0, 100, 100))
	presenter.FailPresents(true)
	if err := surface.Render(); err == nil {
		t.Fatal("expected present failure")
	}
	if !surface.Dirty() {
		t.Fatal("failed render cleared dirty flag")
	}
}

func TestShowHideClose(t *testing.T) {
	surface, presenter := newTestSurface(image.Rect(0, 0, 100, 100))
	if surface.Visible() {
		t.Fatal("new surface is visible")
	}
	surface.Show()
	if !surface.Visible() || !presenter.Visible() {
		t.Fatal("show did not reach presenter")
	}
	surface.Hide()
	if surface.Visible() || presenter.Visible() {
		t.Fatal("hide did not reach presenter")
	}
	surface.Close()
	if !presenter.Closed() {
		t.Fatal("presenter not closed")
	}
	if err := surface.Show(); err != ErrClosed {
		t.Fatalf("show after close = %v", err)
	}
}

func TestFlagsAlwaysOn(t *testing.T) {
	surface, _ := newTestSurface(image.Rect(0, 0, 10, 10))
	if surface.Flags() != (Flags{ClickThrough: true, StayOnTop: true, Transparent: true}) {
		t.Fatalf("flags = %+v", surface.Flags())
	}
}

func TestFBPresenterRestoresBackground(t *testing.T) {
	screen := image.NewRGBA(image.Rect(0, 0, 200, 200))
	blue := color.RGBA{B: 0xFF, A: 0xFF}
	draw.Draw(screen, screen.Bounds(), &image.Uniform{C: blue}, image.Point{}, draw.Src)
	presenter := NewFBPresenter(NewFBDevice(screen))

	cfg := state.DefaultConfiguration()
	cfg.CanvasSize = 100
	surface := New(screen.Bounds(), cfg, presenter)
	surface.Render()
	surface.Show()

	// Left arm of the default cross at canvas center (49,49), offset by the
	// target origin (49,49).
	if got := surface.Target(); got != image.Rect(49, 49, 149, 149) {
		t.Fatalf("target = %v", got)
	}
	if px := screen.RGBAAt(98-6-10, 98); px.G != 0xFF || px.B != 0 {
		t.Fatalf("arm pixel = %+v, want green", px)
	}
	if px := screen.RGBAAt(98, 98); px != blue {
		t.Fatalf("gap pixel = %+v, want background", px)
	}

	surface.Hide()
	if px := screen.RGBAAt(98-6-10, 98); px != blue {
		t.Fatalf("hide left %+v behind", px)
	}

	surface.Show()
	surface.Reposition(image.Rect(100, 100, 200, 200))
	surface.Render()
	if px := screen.RGBAAt(98-6-10, 98); px != blue {
		t.Fatalf("moving the canvas left %+v behind", px)
	}
	if px := screen.RGBAAt(148-6-10, 148); px.G != 0xFF {
		t.Fatalf("arm missing at new target: %+v", px)
	}
}

func TestFBPresenterClipsToDevice(t *testing.T) {
	screen := image.NewRGBA(image.Rect(0, 0, 50, 50))
	presenter := NewFBPresenter(NewFBDevice(screen))
	frame := render.BuildFrame(state.DefaultConfiguration().LiveScene(), image.Pt(50, 50), 1)
	if err := presenter.Present(image.Rect(-25, -25, 75, 75), frame); err != nil {
		t.Fatal(err)
	}
	if err := presenter.Show(); err != nil {
		t.Fatal(err)
	}
	if px := screen.RGBAAt(25-6-10, 25); px.G != 0xFF {
		t.Fatalf("clipped arm pixel = %+v", px)
	}
}
