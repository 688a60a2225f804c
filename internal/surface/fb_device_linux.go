//go:build linux

package surface

import (
	"fmt"

	fb "github.com/gonutz/framebuffer"
)

// OpenFBDevice opens a Linux framebuffer such as /dev/fb0.
func OpenFBDevice(path string) (*FBDevice, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer %s: %w", path, err)
	}
	return &FBDevice{dst: dev, close: func() { dev.Close() }}, nil
}
