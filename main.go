//go:build linux

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rook-computer/crosshair/internal/app"
	"github.com/rook-computer/crosshair/internal/display"
	"github.com/rook-computer/crosshair/internal/hotkey"
	"github.com/rook-computer/crosshair/internal/overlay"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/surface"
	"github.com/rook-computer/crosshair/internal/system"
	"github.com/rook-computer/crosshair/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv("127.0.0.1:7878")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	settings := flag.String("settings", state.DefaultSettingsPath(), "settings file; also configurable via CROSSHAIR_SETTINGS")
	fbPath := flag.String("fb", "/dev/fb0", "framebuffer device")
	regions := flag.String("regions", "", "split the framebuffer into displays given as WxH+X+Y, comma separated; also configurable via CROSSHAIR_DISPLAYS")
	listenAddr := flag.String("listen", defaults.ListenAddr, "control API listen address, empty disables it; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "allow cross-origin API calls; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve the control page from this directory instead of the embedded one")
	debug := flag.Bool("debug", false, "enable debug logging to ./crosshair-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via CROSSHAIR_STDIO_LOG")
	noHotkeys := flag.Bool("no-hotkey", false, "do not read global hotkeys from /dev/input")
	toggleKey := flag.String("toggle-key", "F8", "function key that shows or hides the overlay")
	exitKey := flag.String("exit-key", "F4", "function key that quits, empty disables it")
	keepConsole := flag.Bool("keep-console", false, "leave the virtual terminal in text mode")
	poll := flag.Duration("poll", 0, "re-read the display layout at this interval, 0 disables it")
	flag.Parse()

	// Best-effort: the console is in graphics mode while the overlay runs, so
	// panics are only readable from a file.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("CROSSHAIR_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	var logger app.Logger = app.NoopLogger{}
	if *debug {
		f, err := os.OpenFile("./crosshair-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			defer f.Close()
			logger = app.NewFileLogger(f)
			logger.Infof("main", "debug logging enabled")
		} else {
			fmt.Println("debug log open error:", err)
		}
	}

	bindings, err := hotkeyBindings(*toggleKey, *exitKey)
	if err != nil {
		fmt.Println("hotkeys:", err)
		os.Exit(2)
	}
	split, _, err := display.FromEnv()
	if err != nil {
		fmt.Println("CROSSHAIR_DISPLAYS:", err)
		os.Exit(2)
	}
	if *regions != "" {
		if split, err = display.Parse(*regions); err != nil {
			fmt.Println("regions:", err)
			os.Exit(2)
		}
	}

	device, err := surface.OpenFBDevice(*fbPath)
	if err != nil {
		fmt.Println("framebuffer error:", err)
		os.Exit(1)
	}
	defer device.Close()

	if !*keepConsole {
		restore, err := system.NewConsole(logger).EnterGraphics()
		if err != nil {
			fmt.Println("console graphics mode:", err)
		}
		defer restore()
	}

	store := state.NewStore(state.FileBlob{Path: *settings})
	store.Logger = logger

	manager := overlay.NewManager(func(index int, _ image.Rectangle) (surface.Presenter, error) {
		presenter := surface.NewFBPresenter(device)
		presenter.Logger = logger
		return presenter, nil
	}, logger)

	var hotkeys hotkey.Source = hotkey.NewNoopSource()
	if !*noHotkeys {
		hotkeys = hotkey.NewEvdevSource(logger, bindings)
	}

	a := app.New(store, manager, display.FBSource{Device: device, Regions: split}, hotkeys)
	a.Logger = logger
	a.PollInterval = *poll

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: *listenAddr, DevMode: *devMode})
	server.Logger = logger
	server.Handler = web.NewDefaultMux(*staticDir, web.NewHeadlessAPIV1Deps(a, logger))
	a.Web = server

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	err = a.Start(ctx)
	logger.Infof("main", "stopped after %s", time.Since(started).Round(time.Second))
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("app error:", err)
	}
}

func hotkeyBindings(toggle, exit string) (hotkey.Bindings, error) {
	toggleCode, err := hotkey.ParseKey(toggle)
	if err != nil {
		return nil, fmt.Errorf("toggle key: %w", err)
	}
	var exitCode uint16
	if exit != "" {
		if exitCode, err = hotkey.ParseKey(exit); err != nil {
			return nil, fmt.Errorf("exit key: %w", err)
		}
	}
	if exitCode == toggleCode {
		return nil, fmt.Errorf("toggle and exit share %s", toggle)
	}
	return hotkey.Bindings{toggleCode: hotkey.Toggle}.WithExitKey(exitCode), nil
}
