package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/rook-computer/crosshair/internal/app"
	"github.com/rook-computer/crosshair/internal/console"
	"github.com/rook-computer/crosshair/internal/display"
	"github.com/rook-computer/crosshair/internal/hotkey"
	"github.com/rook-computer/crosshair/internal/overlay"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv("127.0.0.1:8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}
	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, the embedded control page is served")
	displaySpec := flag.String("displays", "", "simulated monitors as WxH+X+Y, comma separated; also configurable via CROSSHAIR_DISPLAYS (default 1920x1080+0+0,1920x1080+1920+0)")
	settingsPath := flag.String("settings", "", "settings file; when empty, settings live in memory and save faults can be injected")
	withConsole := flag.Bool("console", false, "run the terminal scene switcher")
	debug := flag.Bool("debug", false, "log to stdout")
	flag.Parse()

	displays, fromEnv, err := display.FromEnv()
	switch {
	case *displaySpec != "":
		displays, err = display.Parse(*displaySpec)
	case !fromEnv:
		displays, err = display.Parse("1920x1080+0+0,1920x1080+1920+0")
	}
	if err != nil {
		fmt.Println("displays:", err)
		os.Exit(2)
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug && !*withConsole {
		logger = app.NewFileLogger(os.Stdout)
	}

	var (
		blob   state.Blob
		memory *state.MemoryBlob
	)
	if *settingsPath == "" {
		memory = state.NewMemoryBlob(nil)
		blob = memory
	} else {
		blob = state.FileBlob{Path: *settingsPath}
	}
	store := state.NewStore(blob)
	store.Logger = logger

	hotkeys := hotkey.NewManualSource()
	control := NewSimControl(displays, memory, hotkeys)
	manager := overlay.NewManager(control.NewPresenter, logger)

	a := app.New(store, manager, control, hotkeys)
	a.Logger = logger

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Logger = logger
	mux := web.NewDefaultMux(*staticDir, web.NewHeadlessAPIV1Deps(a, logger))
	registerSimEndpoints(mux, control, a)
	server.Handler = mux
	a.Web = server

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(processCtx)
	defer cancel()

	if *withConsole {
		screen, err := tcell.NewScreen()
		if err != nil {
			fmt.Println("terminal error:", err)
			os.Exit(1)
		}
		go func() {
			defer cancel()
			if err := console.New(screen, a).Run(ctx); err != nil {
				fmt.Fprintln(os.Stderr, "console error:", err)
			}
		}()
	} else {
		fmt.Println("Crosshair simulator")
		fmt.Println("Displays:", *displaySpec)
		if *listenAddr != "" {
			fmt.Println("API: http://" + *listenAddr + "/api/v1/")
		}
	}

	err = a.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
		os.Exit(1)
	}
}
