package web

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvListenAddr = "CROSSHAIR_LISTEN"
	EnvDevMode    = "CROSSHAIR_DEV"
)

// ServerConfig contains settings for running the HTTP server.
//
// The API only ever listens on loopback by default:
// - overlay binaries: 127.0.0.1:7878
// - simulator:        127.0.0.1:8080
// An empty ListenAddr disables the server.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
}

func DefaultServerConfigFromEnv(defaultListenAddr string) (ServerConfig, error) {
	listenAddr, set := os.LookupEnv(EnvListenAddr)
	if !set {
		listenAddr = defaultListenAddr
	}

	devMode := false
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		devMode = parsed
	}

	return ServerConfig{ListenAddr: listenAddr, DevMode: devMode}, nil
}
