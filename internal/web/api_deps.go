package web

import (
	"context"

	"github.com/rook-computer/crosshair/internal/editing"
	"github.com/rook-computer/crosshair/internal/overlay"
	"github.com/rook-computer/crosshair/internal/state"
)

// Controller is the overlay as the API drives it. Implementations run every
// call on their control loop and return once it has been handled.
type Controller interface {
	Snapshot(ctx context.Context) (state.Configuration, error)
	Update(ctx context.Context, fn func(store *state.Store) error) error
	Apply(ctx context.Context) error
	Save(ctx context.Context) error
	SetCanvasSize(ctx context.Context, size int) error
	SetVisible(ctx context.Context, visible bool) error
	ToggleVisible(ctx context.Context) (bool, error)
	Surfaces(ctx context.Context) ([]overlay.Info, error)
}

// webLogger matches the component logger used across the app.
type webLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

type APIV1Deps struct {
	Controller Controller
	Notifier   editing.Notifier
	Picker     editing.Picker
	Logger     webLogger
}

func (d APIV1Deps) withDefaults() APIV1Deps {
	out := d
	if out.Notifier == nil {
		out.Notifier = editing.NoopNotifier{}
	}
	if out.Picker == nil {
		out.Picker = editing.NoopPicker{}
	}
	if out.Logger == nil {
		out.Logger = noopLogger{}
	}
	return out
}
