//go:build linux

package hotkey

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

type evdevLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// EvdevSource watches every /dev/input/event* device. It sees key presses
// whichever program has focus, which is what a global hotkey needs.
type EvdevSource struct {
	Logger   evdevLogger
	Bindings Bindings
	Glob     string

	ch     chan Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewEvdevSource(logger evdevLogger, bindings Bindings) Source {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &EvdevSource{Logger: logger, Bindings: bindings, Glob: "/dev/input/event*", ch: make(chan Event, 8)}
}

func (src *EvdevSource) Events() <-chan Event { return src.ch }

// Start is best-effort: with no readable devices it logs and returns nil.
func (src *EvdevSource) Start(ctx context.Context) error {
	paths, err := filepath.Glob(src.Glob)
	if err != nil || len(paths) == 0 {
		src.logf("no evdev devices found for hotkeys")
		return nil
	}
	ctx, src.cancel = context.WithCancel(ctx)
	tvSize := binary.Size(unix.Timeval{})
	for _, path := range paths {
		src.wg.Add(1)
		go func(path string) {
			defer src.wg.Done()
			src.watch(ctx, path, tvSize)
		}(path)
	}
	src.logf("watching %d input devices", len(paths))
	return nil
}

func (src *EvdevSource) Stop() error {
	src.once.Do(func() {
		if src.cancel != nil {
			src.cancel()
		}
		src.wg.Wait()
		close(src.ch)
	})
	return nil
}

func (src *EvdevSource) watch(ctx context.Context, path string, tvSize int) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return
	}
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		_ = f.Close()
	}()

	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			// Device might have gone away.
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}

		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			return
		}
		for _, ev := range decodeKeyPresses(buf[:n], tvSize, src.Bindings) {
			src.logf("key pressed: %s", ev)
			select {
			case src.ch <- ev:
			case <-ctx.Done():
				return
			default:
				// Drop presses nobody is draining.
			}
		}
	}
}

func (src *EvdevSource) logf(format string, args ...interface{}) {
	if src.Logger != nil {
		src.Logger.Infof("input", format, args...)
	}
}
