//go:build linux

package system

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A
)

const (
	hideCursorSeq = "\x1b[?25l"
	showCursorSeq = "\x1b[?25h"
)

// Console is the virtual terminal under the framebuffer overlay. The first
// path that accepts a request wins.
type Console struct {
	Paths  []string
	Logger logger
}

func NewConsole(l logger) *Console {
	return &Console{Paths: []string{"/dev/tty", "/dev/tty0"}, Logger: l}
}

// EnterGraphics keeps the kernel console from drawing text and its cursor
// over the overlay. restore is always usable, even after an error.
func (c *Console) EnterGraphics() (restore func(), err error) {
	modeErr := c.setMode(kdGraphics)
	cursorErr := c.write(hideCursorSeq)
	c.report("graphics mode", modeErr)
	c.report("hide cursor", cursorErr)
	return func() {
		c.report("text mode", c.setMode(kdText))
		c.report("show cursor", c.write(showCursorSeq))
	}, errors.Join(modeErr, cursorErr)
}

func (c *Console) setMode(mode int) error {
	return c.each(func(path string) error {
		fd, err := unix.Open(path, unix.O_RDONLY, 0)
		if err != nil {
			return err
		}
		defer unix.Close(fd)
		return unix.IoctlSetInt(fd, kdSetMode, mode)
	})
}

func (c *Console) write(seq string) error {
	return c.each(func(path string) error {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = f.WriteString(seq)
		return err
	})
}

func (c *Console) each(fn func(path string) error) error {
	if len(c.Paths) == 0 {
		return errors.New("no console paths")
	}
	var errs []error
	for _, path := range c.Paths {
		err := fn(path)
		if err == nil {
			return nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", path, err))
	}
	return errors.Join(errs...)
}

func (c *Console) report(what string, err error) {
	if c.Logger == nil {
		return
	}
	if err != nil {
		c.Logger.Errorf("tty", "%s failed: %v", what, err)
		return
	}
	c.Logger.Infof("tty", "%s set", what)
}
