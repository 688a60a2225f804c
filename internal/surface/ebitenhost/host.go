// Package ebitenhost shows a surface in a desktop window. The window is
// undecorated, floating, transparent and passes the mouse through, so it
// behaves like an overlay on top of whatever runs beneath it.
package ebitenhost

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rook-computer/crosshair/internal/render"
)

const windowTitle = "crosshair"

type hostLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Host is both the ebiten game and the surface presenter. Present and the
// visibility calls come from the control loop; Update and Draw run on the
// ebiten thread and pick up whatever changed.
type Host struct {
	Logger hostLogger

	mu       sync.Mutex
	pixels   *image.RGBA
	target   image.Rectangle
	visible  bool
	uploaded bool
	moved    bool
	closed   bool
	canvas   *ebiten.Image
}

func New() *Host {
	return &Host{target: image.Rect(0, 0, 1, 1), moved: true}
}

func (host *Host) Present(target image.Rectangle, frame render.Frame) error {
	pixels := image.NewRGBA(image.Rect(0, 0, max(1, target.Dx()), max(1, target.Dy())))
	render.Rasterize(pixels, frame)

	host.mu.Lock()
	defer host.mu.Unlock()
	if host.closed {
		return errors.New("window closed")
	}
	host.pixels = pixels
	host.uploaded = false
	if target != host.target {
		host.target = target
		host.moved = true
	}
	return nil
}

func (host *Host) Show() error {
	host.mu.Lock()
	host.visible = true
	host.mu.Unlock()
	return nil
}

// Hide keeps the window but draws nothing; the window stays transparent and
// click-through.
func (host *Host) Hide() error {
	host.mu.Lock()
	host.visible = false
	host.mu.Unlock()
	return nil
}

// Close ends the ebiten loop on its next update.
func (host *Host) Close() error {
	host.mu.Lock()
	host.closed = true
	host.mu.Unlock()
	return nil
}

func (host *Host) Update() error {
	host.mu.Lock()
	defer host.mu.Unlock()
	if host.closed {
		return ebiten.Termination
	}
	if host.moved {
		ebiten.SetWindowSize(host.target.Dx(), host.target.Dy())
		ebiten.SetWindowPosition(host.target.Min.X, host.target.Min.Y)
		host.moved = false
		if host.Logger != nil {
			host.Logger.Infof("window", "placed at %v", host.target)
		}
	}
	return nil
}

func (host *Host) Draw(screen *ebiten.Image) {
	host.mu.Lock()
	defer host.mu.Unlock()
	if host.pixels == nil {
		return
	}
	bounds := host.pixels.Bounds()
	if host.canvas == nil || host.canvas.Bounds().Size() != bounds.Size() {
		if host.canvas != nil {
			host.canvas.Deallocate()
		}
		host.canvas = ebiten.NewImage(bounds.Dx(), bounds.Dy())
		host.uploaded = false
	}
	if !host.uploaded {
		host.canvas.WritePixels(host.pixels.Pix)
		host.uploaded = true
	}
	if host.visible {
		screen.DrawImage(host.canvas, nil)
	}
}

func (host *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	host.mu.Lock()
	defer host.mu.Unlock()
	return max(1, host.target.Dx()), max(1, host.target.Dy())
}

// Run opens the overlay window and blocks until ctx is done or the host is
// closed. ebiten requires this to run on the main goroutine.
func (host *Host) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		host.Close()
	}()

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowMousePassthrough(true)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	ebiten.SetScreenClearedEveryFrame(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(20)

	host.mu.Lock()
	ebiten.SetWindowSize(max(1, host.target.Dx()), max(1, host.target.Dy()))
	host.mu.Unlock()

	err := ebiten.RunGameWithOptions(host, &ebiten.RunGameOptions{
		InitUnfocused:     true,
		ScreenTransparent: true,
		SkipTaskbar:       true,
		X11ClassName:      windowTitle,
		X11InstanceName:   windowTitle,
	})
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Lease hands the window to one surface at a time. Closing a lease only hides
// the window, so a display rebuild does not end the ebiten loop.
func (host *Host) Lease() *Lease { return &Lease{host: host} }

type Lease struct {
	host *Host
}

func (lease *Lease) Present(target image.Rectangle, frame render.Frame) error {
	return lease.host.Present(target, frame)
}

func (lease *Lease) Show() error  { return lease.host.Show() }
func (lease *Lease) Hide() error  { return lease.host.Hide() }
func (lease *Lease) Close() error { return lease.host.Hide() }
