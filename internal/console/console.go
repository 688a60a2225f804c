// Package console is a terminal scene switcher for the overlay. It lists the
// stored scenes and drives the same controller the HTTP API uses.
package console

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/rook-computer/crosshair/internal/overlay"
	"github.com/rook-computer/crosshair/internal/state"
)

// Controller is the part of the overlay control surface the console needs.
type Controller interface {
	Snapshot(ctx context.Context) (state.Configuration, error)
	Update(ctx context.Context, fn func(store *state.Store) error) error
	ToggleVisible(ctx context.Context) (bool, error)
	Save(ctx context.Context) error
	Surfaces(ctx context.Context) ([]overlay.Info, error)
}

type consoleLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

const helpLine = "↑↓ select  enter activate  t toggle  n new  d delete  s save  q quit"

var (
	styleDefault  = tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	styleTitle    = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x001040)).Background(tcell.NewHexColor(0xdfdfdf)).Bold(true)
	styleSelected = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xffffff)).Background(tcell.NewHexColor(0x1f1f9f))
	styleActive   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x00ff00)).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0xffff80))
)

type sceneRow struct {
	name    string
	objects int
	hidden  bool
}

type Console struct {
	Logger consoleLogger

	ctrl   Controller
	screen tcell.Screen

	rows    []sceneRow
	active  string
	visible bool
	cursor  int
	placed  bool

	prompting bool
	prompt    []rune
	status    string
}

func New(screen tcell.Screen, ctrl Controller) *Console {
	return &Console{ctrl: ctrl, screen: screen, Logger: noopLogger{}}
}

// Run takes over the terminal until q is pressed or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	if err := c.screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer c.screen.Fini()
	c.screen.SetStyle(styleDefault)

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	c.refresh(ctx)
	c.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				c.screen.Sync()
			case *tcell.EventKey:
				if c.handleKey(ctx, ev) {
					return nil
				}
			}
			c.draw()
		}
	}
}

// refresh reloads the scene list. The cursor starts on the active scene.
func (c *Console) refresh(ctx context.Context) {
	cfg, err := c.ctrl.Snapshot(ctx)
	if err != nil {
		c.fail("load", err)
		return
	}
	c.rows = c.rows[:0]
	for _, name := range cfg.SceneNames() {
		body := cfg.Scenes[name]
		c.rows = append(c.rows, sceneRow{name: name, objects: len(body.Objects), hidden: body.HideCrosshair})
	}
	c.active = cfg.ActiveScene
	if !c.placed {
		c.cursor = c.indexOf(c.active)
		c.placed = true
	}
	c.cursor = max(0, min(c.cursor, len(c.rows)-1))

	infos, err := c.ctrl.Surfaces(ctx)
	if err != nil {
		c.fail("surfaces", err)
		return
	}
	c.visible = false
	for _, info := range infos {
		c.visible = c.visible || info.Visible
	}
}

func (c *Console) indexOf(name string) int {
	for i, row := range c.rows {
		if row.name == name {
			return i
		}
	}
	return 0
}

func (c *Console) selected() (string, bool) {
	if c.cursor < 0 || c.cursor >= len(c.rows) {
		return "", false
	}
	return c.rows[c.cursor].name, true
}

// handleKey applies one key press and reports whether the console should
// quit.
func (c *Console) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	if c.prompting {
		c.handlePromptKey(ctx, ev)
		return false
	}
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyUp:
		if c.cursor > 0 {
			c.cursor--
		}
	case tcell.KeyDown:
		if c.cursor < len(c.rows)-1 {
			c.cursor++
		}
	case tcell.KeyEnter:
		c.activate(ctx)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			return c.handleKey(ctx, tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
		case 'j':
			return c.handleKey(ctx, tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
		case 't':
			visible, err := c.ctrl.ToggleVisible(ctx)
			if err != nil {
				c.fail("toggle", err)
				return false
			}
			c.visible = visible
			c.status = "overlay " + visibilityText(visible)
		case 'n':
			c.prompting = true
			c.prompt = c.prompt[:0]
			c.status = ""
		case 'd':
			c.remove(ctx)
		case 's':
			if err := c.ctrl.Save(ctx); err != nil {
				c.fail("save", err)
				return false
			}
			c.status = "saved"
		case 'r':
			c.refresh(ctx)
		}
	}
	return false
}

func (c *Console) handlePromptKey(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		c.prompting = false
		c.status = "canceled"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(c.prompt) > 0 {
			c.prompt = c.prompt[:len(c.prompt)-1]
		}
	case tcell.KeyEnter:
		c.prompting = false
		c.create(ctx, string(c.prompt))
	case tcell.KeyRune:
		c.prompt = append(c.prompt, ev.Rune())
	}
}

func (c *Console) activate(ctx context.Context) {
	name, ok := c.selected()
	if !ok {
		return
	}
	err := c.ctrl.Update(ctx, func(store *state.Store) error {
		if !store.ActivateScene(name) {
			return state.ErrUnknownScene
		}
		return nil
	})
	if err != nil {
		c.fail("activate", err)
		return
	}
	c.status = "activated " + name
	c.refresh(ctx)
}

func (c *Console) create(ctx context.Context, text string) {
	var name string
	err := c.ctrl.Update(ctx, func(store *state.Store) error {
		var err error
		name, err = store.CreateScene(text)
		return err
	})
	if err != nil {
		c.fail("new scene", err)
		return
	}
	c.status = "created " + name
	c.refresh(ctx)
	c.cursor = c.indexOf(name)
}

func (c *Console) remove(ctx context.Context) {
	name, ok := c.selected()
	if !ok {
		return
	}
	err := c.ctrl.Update(ctx, func(store *state.Store) error {
		if !store.DeleteScene(name) {
			return state.ErrUnknownScene
		}
		return nil
	})
	if err != nil {
		c.fail("delete", err)
		return
	}
	c.status = "deleted " + name
	c.refresh(ctx)
	c.cursor = c.indexOf(c.active)
}

func (c *Console) fail(action string, err error) {
	c.Logger.Errorf("console", "%s: %v", action, err)
	c.status = action + ": " + err.Error()
}

func (c *Console) draw() {
	c.screen.Clear()
	width, height := c.screen.Size()

	title := fmt.Sprintf(" crosshair  overlay %s  %d scenes", visibilityText(c.visible), len(c.rows))
	c.fill(0, styleTitle, width)
	c.text(0, 0, runewidth.Truncate(title, width, "…"), styleTitle)

	for i, row := range c.rows {
		y := i + 2
		if y >= height-2 {
			break
		}
		marker := "  "
		if row.name == c.active {
			marker = "* "
		}
		detail := fmt.Sprintf("%3d obj", row.objects)
		if row.hidden {
			detail += "  no crosshair"
		}
		nameWidth := max(1, width-runewidth.StringWidth(detail)-4)
		line := marker + runewidth.FillRight(runewidth.Truncate(row.name, nameWidth, "…"), nameWidth) + " " + detail

		style := styleDefault
		if i == c.cursor {
			style = styleSelected
			c.fill(y, style, width)
		}
		c.text(0, y, line, style)
		if row.name == c.active && i != c.cursor {
			c.text(0, y, "*", styleActive)
		}
	}

	switch {
	case c.prompting:
		c.text(0, height-1, "new scene: "+string(c.prompt)+"_", styleStatus)
	case c.status != "":
		c.text(0, height-2, runewidth.Truncate(c.status, width, "…"), styleStatus)
		c.text(0, height-1, runewidth.Truncate(helpLine, width, "…"), styleDefault)
	default:
		c.text(0, height-1, runewidth.Truncate(helpLine, width, "…"), styleDefault)
	}
	c.screen.Show()
}

func (c *Console) fill(y int, style tcell.Style, width int) {
	for x := 0; x < width; x++ {
		c.screen.SetContent(x, y, ' ', nil, style)
	}
}

// text draws s from x, advancing by each rune's cell width.
func (c *Console) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.screen.SetContent(x, y, r, nil, style)
		x += max(1, runewidth.RuneWidth(r))
	}
}

func visibilityText(visible bool) string {
	if visible {
		return "visible"
	}
	return "hidden"
}
