//go:build !linux

package hotkey

type evdevLogger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// NewEvdevSource has no devices to watch outside Linux.
func NewEvdevSource(logger evdevLogger, bindings Bindings) Source {
	if logger != nil {
		logger.Infof("input", "global hotkeys need Linux evdev; disabled")
	}
	return NewNoopSource()
}
