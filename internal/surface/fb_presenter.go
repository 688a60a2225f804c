package surface

import (
	"image"
	"image/draw"
	"sync"

	"github.com/rook-computer/crosshair/internal/render"
	xdraw "golang.org/x/image/draw"
)

type fbLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// FBDevice is a framebuffer shared by the presenters of every display region
// carved out of it.
type FBDevice struct {
	mu    sync.Mutex
	dst   draw.Image
	close func()
}

// NewFBDevice wraps any draw.Image, such as an in-memory stand-in for the
// framebuffer.
func NewFBDevice(dst draw.Image) *FBDevice {
	return &FBDevice{dst: dst, close: func() {}}
}

func (device *FBDevice) Bounds() image.Rectangle { return device.dst.Bounds() }

func (device *FBDevice) Close() {
	device.mu.Lock()
	defer device.mu.Unlock()
	device.close()
}

func (device *FBDevice) update(fn func(dst draw.Image)) {
	device.mu.Lock()
	defer device.mu.Unlock()
	fn(device.dst)
}

// FBPresenter draws onto the framebuffer in place. The framebuffer has no
// windows, so it saves the pixels under the canvas before compositing and
// puts them back when hidden or moved.
type FBPresenter struct {
	device *FBDevice
	Logger fbLogger

	mu      sync.Mutex
	canvas  *image.RGBA
	target  image.Rectangle
	saved   *image.RGBA
	visible bool
}

func NewFBPresenter(device *FBDevice) *FBPresenter {
	return &FBPresenter{device: device}
}

func (presenter *FBPresenter) Present(target image.Rectangle, frame render.Frame) error {
	canvas := image.NewRGBA(image.Rect(0, 0, target.Dx(), target.Dy()))
	render.Rasterize(canvas, frame)

	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	presenter.canvas = canvas
	presenter.target = target
	if presenter.visible {
		presenter.device.update(func(dst draw.Image) {
			presenter.restoreLocked(dst)
			presenter.blitLocked(dst)
		})
	}
	return nil
}

func (presenter *FBPresenter) Show() error {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	if presenter.visible {
		return nil
	}
	presenter.visible = true
	presenter.device.update(presenter.blitLocked)
	return nil
}

func (presenter *FBPresenter) Hide() error {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	if !presenter.visible {
		return nil
	}
	presenter.visible = false
	presenter.device.update(presenter.restoreLocked)
	return nil
}

func (presenter *FBPresenter) Close() error {
	return presenter.Hide()
}

// blitLocked saves what lies beneath the target and composites the canvas
// over it.
func (presenter *FBPresenter) blitLocked(dst draw.Image) {
	if presenter.canvas == nil {
		return
	}
	area := presenter.target.Intersect(dst.Bounds())
	if area.Empty() {
		return
	}
	saved := image.NewRGBA(area)
	xdraw.Copy(saved, area.Min, dst, area, xdraw.Src, nil)
	presenter.saved = saved
	xdraw.Copy(dst, area.Min, presenter.canvas, area.Sub(presenter.target.Min), xdraw.Over, nil)
	if presenter.Logger != nil {
		presenter.Logger.Infof("fb", "blit %v", area)
	}
}

func (presenter *FBPresenter) restoreLocked(dst draw.Image) {
	if presenter.saved == nil {
		return
	}
	xdraw.Copy(dst, presenter.saved.Rect.Min, presenter.saved, presenter.saved.Rect, xdraw.Src, nil)
	presenter.saved = nil
}
