package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rook-computer/crosshair/internal/display"
	"github.com/rook-computer/crosshair/internal/hotkey"
	"github.com/rook-computer/crosshair/internal/overlay"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/web"
)

// ErrStopped is returned to callers whose request reached an app that is not
// running its loop anymore.
var ErrStopped = errors.New("app stopped")

type App struct {
	Store    *state.Store
	Overlay  *overlay.Manager
	Displays display.Source
	Hotkeys  hotkey.Source
	Web      web.Server
	Logger   Logger

	// PollInterval enables display hot-plug polling when positive.
	PollInterval time.Duration

	requests chan request
	done     chan struct{}
	running  atomic.Bool

	exitOnce atomic.Bool
	exitCh   chan error
}

type request struct {
	name string
	fn   func()
	done chan struct{}
}

func New(store *state.Store, manager *overlay.Manager, displays display.Source, hotkeys hotkey.Source) *App {
	return &App{
		Store:    store,
		Overlay:  manager,
		Displays: displays,
		Hotkeys:  hotkeys,
		Logger:   NoopLogger{},
		requests: make(chan request),
		done:     make(chan struct{}),
		exitCh:   make(chan error, 1),
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start loads the settings, builds one surface per display and runs the
// control loop until ctx is done or Exit is called. Every change to the
// surfaces happens on this goroutine.
func (app *App) Start(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return errors.New("app already running")
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	if app.Hotkeys == nil {
		app.Hotkeys = hotkey.NewNoopSource()
	}
	if app.Web == nil {
		app.Web = &web.NoopServer{}
	}
	app.exitOnce.Store(false)
	defer close(app.done)

	app.Store.Load()
	displays, err := app.Displays.Displays()
	if err != nil {
		return fmt.Errorf("enumerate displays: %w", err)
	}
	app.Overlay.RebuildForDisplays(displays, app.Store.Snapshot())
	app.Overlay.RenderDirty()
	defer app.Overlay.Close()

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	if err := app.Hotkeys.Start(loopCtx); err != nil {
		app.Logger.Errorf("hotkey", "start failed: %v", err)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.forwardHotkeys(loopCtx)
	}()

	if app.PollInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			display.Watch(loopCtx, app.Displays, app.PollInterval, displays, func(displays []image.Rectangle) {
				app.Logger.Infof("display", "changed: %d displays %v", len(displays), displays)
				_ = app.DisplaysChanged(loopCtx, displays)
			})
		}()
	}

	if err := app.Web.Start(loopCtx); err != nil {
		app.Logger.Errorf("web", "start failed: %v", err)
	}

	err = app.loop(ctx)

	cancel()
	_ = app.Web.Stop()
	_ = app.Hotkeys.Stop()
	wg.Wait()
	return err
}

func (app *App) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-app.exitCh:
			return err
		case req := <-app.requests:
			req.fn()
			if err := app.Overlay.RenderDirty(); err != nil {
				app.Logger.Errorf("app", "%s: render: %v", req.name, err)
			}
			close(req.done)
		}
	}
}

// do runs fn on the control loop and waits for it.
func (app *App) do(ctx context.Context, name string, fn func()) error {
	req := request{name: name, fn: fn, done: make(chan struct{})}
	select {
	case app.requests <- req:
	case <-ctx.Done():
		return ctx.Err()
	case <-app.done:
		return ErrStopped
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-app.done:
		return ErrStopped
	}
}

func (app *App) forwardHotkeys(ctx context.Context) {
	events := app.Hotkeys.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			app.Logger.Infof("hotkey", "%s", ev)
			switch ev {
			case hotkey.Toggle:
				_, _ = app.ToggleVisible(ctx)
			case hotkey.Show:
				_ = app.do(ctx, "show", func() { app.Overlay.SetVisible(true) })
			case hotkey.Hide:
				_ = app.do(ctx, "hide", func() { app.Overlay.SetVisible(false) })
			case hotkey.Exit:
				app.Exit(nil)
			}
		}
	}
}

// ToggleVisible flips every surface. The persisted Visible flag is left
// alone.
func (app *App) ToggleVisible(ctx context.Context) (bool, error) {
	var visible bool
	err := app.do(ctx, "toggle", func() { visible = app.Overlay.ToggleVisible() })
	return visible, err
}

// SetVisible stores the flag and shows or hides every surface.
func (app *App) SetVisible(ctx context.Context, visible bool) error {
	return app.do(ctx, "visible", func() {
		app.Store.SetVisible(visible)
		app.Overlay.SetVisible(visible)
	})
}

// DisplaysChanged rebuilds the surfaces for a new display list.
func (app *App) DisplaysChanged(ctx context.Context, displays []image.Rectangle) error {
	return app.do(ctx, "displays", func() {
		app.Overlay.RebuildForDisplays(displays, app.Store.Snapshot())
	})
}

// Update edits the store on the loop. When the stored configuration has
// AutoApply set, the result is pushed to every surface straight away.
func (app *App) Update(ctx context.Context, fn func(store *state.Store) error) error {
	var fnErr error
	err := app.do(ctx, "update", func() {
		if fnErr = fn(app.Store); fnErr != nil {
			return
		}
		if cfg := app.Store.Snapshot(); cfg.AutoApply {
			app.Overlay.ApplyConfigOn(app.currentDisplays(), cfg)
		}
	})
	if err != nil {
		return err
	}
	return fnErr
}

// Apply pushes the stored configuration to every surface, placed on the
// display geometry as it is now.
func (app *App) Apply(ctx context.Context) error {
	return app.do(ctx, "apply", func() {
		app.Overlay.ApplyConfigOn(app.currentDisplays(), app.Store.Snapshot())
	})
}

// SetCanvasSize resizes every surface and saves, whether or not AutoApply
// is set.
func (app *App) SetCanvasSize(ctx context.Context, size int) error {
	return app.do(ctx, "canvas", func() {
		app.Store.SetCanvasSize(size)
		app.Overlay.OnCanvasSizeChanged(app.Store.Snapshot().CanvasSize)
		app.Store.Save()
	})
}

// currentDisplays re-reads the display source. On failure the surfaces stay
// on the layout they were built for.
func (app *App) currentDisplays() []image.Rectangle {
	displays, err := app.Displays.Displays()
	if err != nil {
		app.Logger.Errorf("display", "enumerate: %v", err)
		return app.Overlay.Displays()
	}
	return displays
}

func (app *App) Save(ctx context.Context) error {
	return app.do(ctx, "save", func() { app.Store.Save() })
}

func (app *App) Surfaces(ctx context.Context) ([]overlay.Info, error) {
	var infos []overlay.Info
	err := app.do(ctx, "surfaces", func() { infos = app.Overlay.Surfaces() })
	return infos, err
}

func (app *App) Snapshot(ctx context.Context) (state.Configuration, error) {
	var cfg state.Configuration
	err := app.do(ctx, "snapshot", func() { cfg = app.Store.Snapshot() })
	return cfg, err
}

// Logger interface and implementations
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopLogger struct{}

func (NoopLogger) Infof(component, format string, args ...interface{})  {}
func (NoopLogger) Errorf(component, format string, args ...interface{}) {}

type FileLogger struct {
	mu *sync.Mutex
	w  io.Writer
}

func NewFileLogger(w io.Writer) FileLogger { return FileLogger{mu: &sync.Mutex{}, w: w} }
func (l FileLogger) Infof(component string, format string, args ...interface{}) {
	l.write("INFO", component, format, args...)
}
func (l FileLogger) Errorf(component string, format string, args ...interface{}) {
	l.write("ERROR", component, format, args...)
}

func (l FileLogger) write(level, component, format string, args ...interface{}) {
	if l.mu != nil {
		l.mu.Lock()
		defer l.mu.Unlock()
	}
	writeLog(l.w, level, component, format, args...)
}

func writeLog(w io.Writer, level, component, format string, args ...interface{}) {
	timestamp := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	_, _ = io.WriteString(w, timestamp+" ["+level+"] "+component+": "+msg+"\n")
}
