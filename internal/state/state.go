package state

import "sort"

type Style string

const (
	StyleDot         Style = "Dot"
	StyleCross       Style = "Cross"
	StyleCircle      Style = "Circle"
	StyleCrossCircle Style = "CrossCircle"
)

// DefaultSceneName is the scene synthesized whenever no usable scene exists.
const DefaultSceneName = "Default"

func (style Style) Valid() bool {
	switch style {
	case StyleDot, StyleCross, StyleCircle, StyleCrossCircle:
		return true
	}
	return false
}

// Crosshair holds the fields a scene carries for the base crosshair.
type Crosshair struct {
	Style     Style
	ColorHex  string
	Opacity   float64
	Thickness int
	Length    int
	Gap       int
	Radius    int
	OffsetX   int
	OffsetY   int
	Scale     float64
}

type View struct {
	CanvasSize int
	Visible    bool
	AutoApply  bool
}

type SceneBody struct {
	Crosshair
	Objects       []SceneObject
	HideCrosshair bool
}

type Configuration struct {
	Crosshair
	View

	Scenes      map[string]SceneBody
	ActiveScene string
}

func DefaultCrosshair() Crosshair {
	return Crosshair{
		Style:     StyleCross,
		ColorHex:  "#00FF00",
		Opacity:   1.0,
		Thickness: 2,
		Length:    24,
		Gap:       6,
		Radius:    18,
		Scale:     1.0,
	}
}

func DefaultView() View {
	return View{CanvasSize: 600, Visible: true, AutoApply: true}
}

// DefaultConfiguration returns a fresh configuration with a single "Default"
// scene seeded from the default crosshair.
func DefaultConfiguration() Configuration {
	cfg := Configuration{
		Crosshair:   DefaultCrosshair(),
		View:        DefaultView(),
		Scenes:      map[string]SceneBody{},
		ActiveScene: DefaultSceneName,
	}
	cfg.Scenes[DefaultSceneName] = SceneBody{Crosshair: cfg.Crosshair, Objects: []SceneObject{}}
	return cfg
}

// LiveScene captures the live crosshair fields together with the active
// scene's objects and hide flag.
func (cfg Configuration) LiveScene() SceneBody {
	active := cfg.Scenes[cfg.ActiveScene]
	return SceneBody{
		Crosshair:     cfg.Crosshair,
		Objects:       cloneObjects(active.Objects),
		HideCrosshair: active.HideCrosshair,
	}
}

// Clone returns a deep copy that shares no slices or maps with cfg.
func (cfg Configuration) Clone() Configuration {
	out := cfg
	out.Scenes = make(map[string]SceneBody, len(cfg.Scenes))
	for name, body := range cfg.Scenes {
		out.Scenes[name] = body.Clone()
	}
	return out
}

func (body SceneBody) Clone() SceneBody {
	out := body
	out.Objects = cloneObjects(body.Objects)
	return out
}

// HidesCrosshair reports whether the base crosshair is suppressed: any object
// or an explicit hide flag suppresses it.
func (body SceneBody) HidesCrosshair() bool {
	return body.HideCrosshair || len(body.Objects) > 0
}

func (cfg Configuration) SceneNames() []string {
	names := make([]string, 0, len(cfg.Scenes))
	for name := range cfg.Scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cloneObjects(input []SceneObject) []SceneObject {
	if len(input) == 0 {
		return []SceneObject{}
	}
	out := make([]SceneObject, len(input))
	copy(out, input)
	return out
}
