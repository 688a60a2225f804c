package surface

import (
	"errors"
	"image"

	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/render/layout"
	"github.com/rook-computer/crosshair/internal/state"
)

var ErrClosed = errors.New("surface closed")

// Flags are the window properties every surface carries. None of them can be
// turned off.
type Flags struct {
	ClickThrough bool
	StayOnTop    bool
	Transparent  bool
}

func RequiredFlags() Flags {
	return Flags{ClickThrough: true, StayOnTop: true, Transparent: true}
}

// Presenter puts frames on a physical output. target is in display
// coordinates; frame coordinates are relative to target.Min.
type Presenter interface {
	Present(target image.Rectangle, frame render.Frame) error
	Show() error
	Hide() error
	Close() error
}

// Surface is the canvas of one display. It holds its own copy of the
// configuration and never shares it with other surfaces. A Surface is driven
// from a single goroutine.
type Surface struct {
	presenter Presenter
	display   image.Rectangle
	target    image.Rectangle
	config    state.Configuration
	stroke    *render.Stroke
	visible   bool
	dirty     bool
	closed    bool
}

func New(display image.Rectangle, cfg state.Configuration, presenter Presenter) *Surface {
	surface := &Surface{presenter: presenter}
	surface.Refresh(cfg)
	surface.Reposition(display)
	return surface
}

func (surface *Surface) Flags() Flags { return RequiredFlags() }

// Reposition centers a canvasSize square on display. Calling it again with
// the same display changes nothing.
func (surface *Surface) Reposition(display image.Rectangle) {
	surface.display = layout.Normalize(display)
	target := layout.CenterSquare(surface.display, surface.config.CanvasSize)
	if target != surface.target {
		surface.target = target
		surface.dirty = true
	}
}

// ResizeCanvas changes the canvas size and recomputes placement on the
// current display.
func (surface *Surface) ResizeCanvas(size int) {
	surface.config.CanvasSize = state.ClampCanvasSize(size)
	surface.Reposition(surface.display)
}

// Refresh swaps in a new configuration and drops the cached default stroke.
// Placement is left alone until the next Reposition.
func (surface *Surface) Refresh(cfg state.Configuration) {
	surface.config = cfg.Clone()
	surface.config.CanvasSize = state.ClampCanvasSize(surface.config.CanvasSize)
	surface.stroke = nil
	surface.dirty = true
}

// DefaultStroke returns the base crosshair pen, building it once per
// configuration.
func (surface *Surface) DefaultStroke() render.Stroke {
	if surface.stroke == nil {
		stroke := render.BaseStroke(surface.config.LiveScene(), surface.config.Scale)
		surface.stroke = &stroke
	}
	return *surface.stroke
}

// Frame is what Render would present right now.
func (surface *Surface) Frame() render.Frame {
	center := layout.Center(image.Rectangle{Max: surface.target.Size()})
	return render.BuildFrameWith(surface.config.LiveScene(), center, surface.config.Scale, surface.DefaultStroke())
}

// Render rebuilds the frame from scratch and hands it to the presenter.
func (surface *Surface) Render() error {
	if surface.closed {
		return ErrClosed
	}
	if err := surface.presenter.Present(surface.target, surface.Frame()); err != nil {
		return err
	}
	surface.dirty = false
	return nil
}

func (surface *Surface) Show() error {
	if surface.closed {
		return ErrClosed
	}
	if err := surface.presenter.Show(); err != nil {
		return err
	}
	surface.visible = true
	return nil
}

func (surface *Surface) Hide() error {
	if surface.closed {
		return ErrClosed
	}
	if err := surface.presenter.Hide(); err != nil {
		return err
	}
	surface.visible = false
	return nil
}

func (surface *Surface) Close() error {
	if surface.closed {
		return nil
	}
	surface.closed = true
	surface.visible = false
	return surface.presenter.Close()
}

func (surface *Surface) Visible() bool            { return surface.visible }
func (surface *Surface) Dirty() bool              { return surface.dirty }
func (surface *Surface) Target() image.Rectangle  { return surface.target }
func (surface *Surface) Display() image.Rectangle { return surface.display }
func (surface *Surface) CanvasSize() int          { return surface.config.CanvasSize }
func (surface *Surface) Presenter() Presenter     { return surface.presenter }
