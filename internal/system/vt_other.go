//go:build !linux

package system

import "errors"

type Console struct {
	Paths  []string
	Logger logger
}

func NewConsole(l logger) *Console { return &Console{Logger: l} }

func (c *Console) EnterGraphics() (restore func(), err error) {
	return func() {}, errors.New("console modes need linux")
}
