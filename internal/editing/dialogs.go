package editing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/ncruces/zenity"
)

var ErrCanceled = errors.New("canceled")

// Notifier tells the person editing that something they typed was rejected.
type Notifier interface {
	Warn(title, message string) error
}

// Picker asks for a color, starting from initial. A dismissed dialog
// returns ErrCanceled.
type Picker interface {
	Pick(ctx context.Context, initial string) (string, error)
}

type NoopNotifier struct{}

func (NoopNotifier) Warn(title, message string) error { return nil }

// NoopPicker answers every request with the initial color.
type NoopPicker struct{}

func (NoopPicker) Pick(ctx context.Context, initial string) (string, error) {
	return SanitizeHex(initial)
}

// ZenityNotifier shows a native warning box.
type ZenityNotifier struct{}

func (ZenityNotifier) Warn(title, message string) error {
	return zenity.Warning(message, zenity.Title(title), zenity.WarningIcon)
}

// ZenityPicker opens the native color chooser.
type ZenityPicker struct {
	Title string
}

func (picker ZenityPicker) Pick(ctx context.Context, initial string) (string, error) {
	options := []zenity.Option{zenity.Context(ctx), zenity.ShowPalette()}
	if picker.Title != "" {
		options = append(options, zenity.Title(picker.Title))
	}
	if clean, err := SanitizeHex(initial); err == nil {
		if c, err := colorful.Hex(clean); err == nil {
			options = append(options, zenity.Color(c))
		}
	}
	picked, err := zenity.SelectColor(options...)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrCanceled
	}
	if err != nil {
		return "", fmt.Errorf("color dialog: %w", err)
	}
	c, _ := colorful.MakeColor(picked)
	return strings.ToUpper(c.Clamped().Hex()), nil
}
