// Package overlay keeps one surface per display in step with the
// configuration.
package overlay

import (
	"errors"
	"fmt"
	"image"

	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/surface"
)

type State int

const (
	Uninitialized State = iota
	Visible
	Hidden
)

func (s State) String() string {
	switch s {
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	}
	return "uninitialized"
}

// PresenterFactory creates the output for the surface of display number
// index.
type PresenterFactory func(index int, display image.Rectangle) (surface.Presenter, error)

type managerLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Info describes one surface for callers outside the control loop.
type Info struct {
	Index      int             `json:"index"`
	Display    image.Rectangle `json:"display"`
	Target     image.Rectangle `json:"target"`
	CanvasSize int             `json:"canvas_size"`
	Visible    bool            `json:"visible"`
	Dirty      bool            `json:"dirty"`
}

// Manager owns the surfaces. Every method is meant to be called from the
// single control loop; nothing here locks.
type Manager struct {
	factory  PresenterFactory
	logger   managerLogger
	surfaces []*surface.Surface
	owners   []int // index into displays, per surface
	displays []image.Rectangle
	state    State
}

func NewManager(factory PresenterFactory, logger managerLogger) *Manager {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Manager{factory: factory, logger: logger}
}

// RebuildForDisplays closes every surface, creates one per display in list
// order and applies cfg to them. A display whose presenter cannot be created
// is logged and left without a surface.
func (manager *Manager) RebuildForDisplays(displays []image.Rectangle, cfg state.Configuration) {
	manager.closeAll()
	manager.displays = append([]image.Rectangle(nil), displays...)
	for i, display := range manager.displays {
		presenter, err := manager.factory(i, display)
		if err != nil {
			manager.logger.Errorf("overlay", "display %d %v: %v", i, display, err)
			continue
		}
		manager.surfaces = append(manager.surfaces, surface.New(display, cfg, presenter))
		manager.owners = append(manager.owners, i)
	}
	manager.logger.Infof("overlay", "rebuilt %d surfaces for %d displays", len(manager.surfaces), len(displays))
	manager.ApplyConfig(cfg)
}

// ApplyConfig pushes cfg and each surface's own display geometry to every
// surface, then shows or hides all of them per cfg.Visible.
func (manager *Manager) ApplyConfig(cfg state.Configuration) {
	for i, s := range manager.surfaces {
		s.Refresh(cfg)
		s.Reposition(manager.displays[manager.owners[i]])
	}
	manager.SetVisible(cfg.Visible)
}

// ApplyConfigOn is ApplyConfig against the current display list. Surfaces
// follow their display's new geometry in place; a different number of
// displays rebuilds them.
func (manager *Manager) ApplyConfigOn(displays []image.Rectangle, cfg state.Configuration) {
	if len(displays) != len(manager.displays) {
		manager.RebuildForDisplays(displays, cfg)
		return
	}
	copy(manager.displays, displays)
	manager.ApplyConfig(cfg)
}

// SetVisible shows or hides every surface. A surface that fails is logged and
// the rest still follow.
func (manager *Manager) SetVisible(visible bool) error {
	var errs []error
	for i, s := range manager.surfaces {
		var err error
		if visible {
			err = s.Show()
		} else {
			err = s.Hide()
		}
		if err != nil {
			manager.logger.Errorf("overlay", "surface %d visibility: %v", i, err)
			errs = append(errs, fmt.Errorf("surface %d: %w", i, err))
		}
	}
	if visible {
		manager.state = Visible
	} else {
		manager.state = Hidden
	}
	return errors.Join(errs...)
}

// ToggleVisible hides everything if any surface is shown, otherwise shows
// everything. It returns the visibility it switched to.
func (manager *Manager) ToggleVisible() bool {
	visible := manager.VisibleCount() == 0
	manager.SetVisible(visible)
	return visible
}

// OnCanvasSizeChanged re-places every surface for the new canvas size
// without recreating any of them.
func (manager *Manager) OnCanvasSizeChanged(size int) {
	for i, s := range manager.surfaces {
		s.ResizeCanvas(size)
		s.Reposition(manager.displays[manager.owners[i]])
	}
}

// RenderDirty renders every dirty surface. One failure does not stop the
// others; all failures come back joined.
func (manager *Manager) RenderDirty() error {
	var errs []error
	for i, s := range manager.surfaces {
		if !s.Dirty() {
			continue
		}
		if err := s.Render(); err != nil {
			manager.logger.Errorf("overlay", "surface %d render: %v", i, err)
			errs = append(errs, fmt.Errorf("surface %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

func (manager *Manager) State() State { return manager.state }

func (manager *Manager) VisibleCount() int {
	n := 0
	for _, s := range manager.surfaces {
		if s.Visible() {
			n++
		}
	}
	return n
}

func (manager *Manager) Displays() []image.Rectangle {
	return append([]image.Rectangle(nil), manager.displays...)
}

func (manager *Manager) Surfaces() []Info {
	out := make([]Info, len(manager.surfaces))
	for i, s := range manager.surfaces {
		out[i] = Info{
			Index:      i,
			Display:    s.Display(),
			Target:     s.Target(),
			CanvasSize: s.CanvasSize(),
			Visible:    s.Visible(),
			Dirty:      s.Dirty(),
		}
	}
	return out
}

// Close releases every surface. The manager can be rebuilt afterwards.
func (manager *Manager) Close() {
	manager.closeAll()
	manager.state = Uninitialized
}

func (manager *Manager) closeAll() {
	for i, s := range manager.surfaces {
		if err := s.Close(); err != nil {
			manager.logger.Errorf("overlay", "surface %d close: %v", i, err)
		}
	}
	manager.surfaces = nil
	manager.owners = nil
}
