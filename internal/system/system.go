// Package system talks to the host console the framebuffer overlay runs on.
package system

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}
