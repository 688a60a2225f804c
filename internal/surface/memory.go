package surface

import (
	"errors"
	"image"
	"sync"

	"github.com/rook-computer/crosshair/internal/render"
)

var ErrPresentFailed = errors.New("present failed")

// MemoryPresenter keeps the last frame instead of drawing it anywhere.
type MemoryPresenter struct {
	mu       sync.Mutex
	frame    render.Frame
	target   image.Rectangle
	visible  bool
	closed   bool
	presents int
	fail     bool
}

func NewMemoryPresenter() *MemoryPresenter { return &MemoryPresenter{} }

func (presenter *MemoryPresenter) Present(target image.Rectangle, frame render.Frame) error {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	if presenter.fail {
		return ErrPresentFailed
	}
	presenter.frame = frame
	presenter.target = target
	presenter.presents++
	return nil
}

func (presenter *MemoryPresenter) Show() error {
	presenter.mu.Lock()
	presenter.visible = true
	presenter.mu.Unlock()
	return nil
}

func (presenter *MemoryPresenter) Hide() error {
	presenter.mu.Lock()
	presenter.visible = false
	presenter.mu.Unlock()
	return nil
}

func (presenter *MemoryPresenter) Close() error {
	presenter.mu.Lock()
	presenter.closed = true
	presenter.visible = false
	presenter.mu.Unlock()
	return nil
}

// FailPresents makes every following Present fail until called with false.
func (presenter *MemoryPresenter) FailPresents(fail bool) {
	presenter.mu.Lock()
	presenter.fail = fail
	presenter.mu.Unlock()
}

func (presenter *MemoryPresenter) Frame() render.Frame {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	return presenter.frame
}

func (presenter *MemoryPresenter) Target() image.Rectangle {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	return presenter.target
}

func (presenter *MemoryPresenter) Visible() bool {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	return presenter.visible
}

func (presenter *MemoryPresenter) Closed() bool {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	return presenter.closed
}

func (presenter *MemoryPresenter) Presents() int {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	return presenter.presents
}

// Image rasterizes the last frame onto a transparent canvas of the target
// size.
func (presenter *MemoryPresenter) Image() *image.RGBA {
	presenter.mu.Lock()
	frame, target := presenter.frame, presenter.target
	presenter.mu.Unlock()
	img := image.NewRGBA(image.Rect(0, 0, max(1, target.Dx()), max(1, target.Dy())))
	render.Rasterize(img, frame)
	return img
}
