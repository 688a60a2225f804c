// Command window shows the crosshair in a transparent, click-through desktop
// window on top of whatever runs on the current monitor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/crosshair/internal/app"
	"github.com/rook-computer/crosshair/internal/console"
	"github.com/rook-computer/crosshair/internal/display"
	"github.com/rook-computer/crosshair/internal/hotkey"
	"github.com/rook-computer/crosshair/internal/overlay"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/surface"
	"github.com/rook-computer/crosshair/internal/surface/ebitenhost"
	"github.com/rook-computer/crosshair/internal/web"
)

var errOneWindow = errors.New("one overlay window per process")

func main() {
	defaults, err := web.DefaultServerConfigFromEnv("127.0.0.1:7878")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	settings := flag.String("settings", state.DefaultSettingsPath(), "settings file; also configurable via CROSSHAIR_SETTINGS")
	listenAddr := flag.String("listen", defaults.ListenAddr, "control API listen address, empty disables it; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "allow cross-origin API calls; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve the control page from this directory instead of the embedded one")
	fallback := flag.String("display", "1920x1080+0+0", "monitor geometry to assume when the monitor cannot be queried")
	poll := flag.Duration("poll", 2*time.Second, "re-read the monitor at this interval, 0 disables it")
	withHotkeys := flag.Bool("hotkeys", false, "read global hotkeys from /dev/input (linux, needs read access)")
	withConsole := flag.Bool("console", false, "run the terminal scene switcher")
	debug := flag.Bool("debug", false, "enable debug logging to ./crosshair-debug.log")
	flag.Parse()

	assumed, err := display.Parse(*fallback)
	if err != nil {
		fmt.Println("display:", err)
		os.Exit(2)
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./crosshair-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled, monitors %v", ebitenhost.MonitorNames())
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	host := ebitenhost.New()
	host.Logger = logger

	store := state.NewStore(state.FileBlob{Path: *settings})
	store.Logger = logger

	manager := overlay.NewManager(func(index int, _ image.Rectangle) (surface.Presenter, error) {
		if index > 0 {
			return nil, errOneWindow
		}
		return host.Lease(), nil
	}, logger)

	var hotkeys hotkey.Source = hotkey.NewNoopSource()
	if *withHotkeys {
		hotkeys = hotkey.NewEvdevSource(logger, hotkey.DefaultBindings())
	}

	a := app.New(store, manager, display.Fallback{Primary: ebitenhost.MonitorSource{}, Secondary: assumed}, hotkeys)
	a.Logger = logger
	a.PollInterval = *poll

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Logger = logger
	server.Handler = web.NewDefaultMux(*staticDir, web.NewDesktopAPIV1Deps(a, logger))
	a.Web = server

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(processCtx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "app error:", err)
		}
	}()

	if *withConsole {
		screen, err := tcell.NewScreen()
		if err != nil {
			fmt.Fprintln(os.Stderr, "terminal error:", err)
		} else {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer cancel()
				if err := console.New(screen, a).Run(ctx); err != nil {
					fmt.Fprintln(os.Stderr, "console error:", err)
				}
			}()
		}
	} else if *listenAddr != "" {
		fmt.Println("Crosshair control page: http://" + *listenAddr + "/")
	}

	// ebiten owns the main goroutine until the window closes.
	if err := host.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "window error:", err)
	}
	cancel()
	wg.Wait()
}
