// Package display enumerates the outputs surfaces are placed on.
package display

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source lists display geometries in a stable order.
type Source interface {
	Displays() ([]image.Rectangle, error)
}

// Static is a fixed display list.
type Static []image.Rectangle

func (static Static) Displays() ([]image.Rectangle, error) {
	return append([]image.Rectangle(nil), static...), nil
}

var ErrBadGeometry = errors.New("bad display geometry")

// Parse reads a comma separated list of WxH+X+Y geometries, the form X11
// tools print. Offsets may be negative: 1280x1024-1280+0.
func Parse(spec string) (Static, error) {
	var out Static
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		rect, err := parseGeometry(field)
		if err != nil {
			return nil, err
		}
		out = append(out, rect)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty list", ErrBadGeometry)
	}
	return out, nil
}

func parseGeometry(field string) (image.Rectangle, error) {
	size, offsets := field, ""
	if i := strings.IndexAny(field, "+-"); i >= 0 {
		size, offsets = field[:i], field[i:]
	}
	w, h, ok := strings.Cut(size, "x")
	if !ok {
		return image.Rectangle{}, fmt.Errorf("%w: %q", ErrBadGeometry, field)
	}
	width, err1 := strconv.Atoi(w)
	height, err2 := strconv.Atoi(h)
	if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: %q", ErrBadGeometry, field)
	}
	x, y := 0, 0
	if offsets != "" {
		var n int
		coords := [2]*int{&x, &y}
		for n < 2 && offsets != "" {
			j := strings.IndexAny(offsets[1:], "+-")
			part := offsets
			if j >= 0 {
				part, offsets = offsets[:j+1], offsets[j+1:]
			} else {
				offsets = ""
			}
			v, err := strconv.Atoi(part)
			if err != nil {
				return image.Rectangle{}, fmt.Errorf("%w: %q", ErrBadGeometry, field)
			}
			*coords[n] = v
			n++
		}
		if n != 2 || offsets != "" {
			return image.Rectangle{}, fmt.Errorf("%w: %q", ErrBadGeometry, field)
		}
	}
	return image.Rect(x, y, x+width, y+height), nil
}

// FromEnv parses CROSSHAIR_DISPLAYS when it is set.
func FromEnv() (Static, bool, error) {
	spec := os.Getenv("CROSSHAIR_DISPLAYS")
	if spec == "" {
		return nil, false, nil
	}
	static, err := Parse(spec)
	return static, true, err
}

func Format(rect image.Rectangle) string {
	return fmt.Sprintf("%dx%d%+d%+d", rect.Dx(), rect.Dy(), rect.Min.X, rect.Min.Y)
}

// Equal reports whether two display lists match entry by entry.
func Equal(a, b []image.Rectangle) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Watch polls src every interval and calls onChange with each list that
// differs from the previous one, starting from initial. Errors keep the
// previous list.
func Watch(ctx context.Context, src Source, interval time.Duration, initial []image.Rectangle, onChange func([]image.Rectangle)) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	last := append([]image.Rectangle(nil), initial...)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current, err := src.Displays()
			if err != nil || Equal(current, last) {
				continue
			}
			last = current
			onChange(append([]image.Rectangle(nil), current...))
		}
	}
}

// Fallback asks Primary first and uses Secondary when Primary fails or
// reports no display.
type Fallback struct {
	Primary   Source
	Secondary Source
}

func (fallback Fallback) Displays() ([]image.Rectangle, error) {
	displays, err := fallback.Primary.Displays()
	if err == nil && len(displays) > 0 {
		return displays, nil
	}
	if fallback.Secondary == nil {
		if err == nil {
			err = errors.New("no displays")
		}
		return nil, err
	}
	return fallback.Secondary.Displays()
}
