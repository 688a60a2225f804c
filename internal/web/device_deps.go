package web

import "github.com/rook-computer/crosshair/internal/editing"

// NewDesktopAPIV1Deps wires the API for a desktop session: colors are picked
// and rejected input is reported through native dialogs.
func NewDesktopAPIV1Deps(ctrl Controller, logger webLogger) APIV1Deps {
	return APIV1Deps{
		Controller: ctrl,
		Notifier:   editing.ZenityNotifier{},
		Picker:     editing.ZenityPicker{Title: "Crosshair color"},
		Logger:     logger,
	}.withDefaults()
}

// NewHeadlessAPIV1Deps wires the API where no dialog can be shown, such as
// the framebuffer console or the simulator. Rejected input goes to the log.
func NewHeadlessAPIV1Deps(ctrl Controller, logger webLogger) APIV1Deps {
	deps := APIV1Deps{Controller: ctrl, Picker: editing.NoopPicker{}, Logger: logger}.withDefaults()
	deps.Notifier = LogNotifier{Logger: deps.Logger}
	return deps
}

// LogNotifier writes warnings to a logger.
type LogNotifier struct {
	Logger webLogger
}

func (n LogNotifier) Warn(title, message string) error {
	if n.Logger != nil {
		n.Logger.Errorf("web", "%s: %s", title, message)
	}
	return nil
}
