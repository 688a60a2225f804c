package ebitenhost

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

var ErrNoMonitor = errors.New("no monitor available")

// MonitorSource reports the monitor the overlay window lives on. Window
// positions are relative to that monitor, so its rectangle starts at the
// origin.
type MonitorSource struct{}

func (MonitorSource) Displays() ([]image.Rectangle, error) {
	monitor := ebiten.Monitor()
	if monitor == nil {
		return nil, ErrNoMonitor
	}
	w, h := monitor.Size()
	if w <= 0 || h <= 0 {
		return nil, ErrNoMonitor
	}
	return []image.Rectangle{image.Rect(0, 0, w, h)}, nil
}

// MonitorNames lists every attached monitor, for diagnostics.
func MonitorNames() []string {
	var names []string
	for _, monitor := range ebiten.AppendMonitors(nil) {
		names = append(names, monitor.Name())
	}
	return names
}
