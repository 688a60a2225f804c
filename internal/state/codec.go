package state

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The blob keeps the flat field names of the settings file; shapes are
// flattened into size_a / size_b / sides and rebuilt on decode.

type crosshairRecord struct {
	Style     string  `json:"style"`
	ColorHex  string  `json:"color_hex"`
	Opacity   float64 `json:"opacity"`
	Thickness int     `json:"thickness"`
	Length    int     `json:"length"`
	Gap       int     `json:"gap"`
	Radius    int     `json:"radius"`
	OffsetX   int     `json:"offset_x"`
	OffsetY   int     `json:"offset_y"`
	Scale     float64 `json:"scale"`
}

type objectRecord struct {
	Type      string  `json:"type"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Rotation  float64 `json:"rotation"`
	Scale     float64 `json:"scale"`
	SizeA     int     `json:"size_a"`
	SizeB     int     `json:"size_b"`
	Thickness int     `json:"thickness"`
	Fill      bool    `json:"fill"`
	ColorHex  string  `json:"color_hex"`
	Opacity   float64 `json:"opacity"`
	Sides     int     `json:"sides"`
}

type sceneRecord struct {
	crosshairRecord
	Objects       []objectRecord `json:"objects"`
	HideCrosshair bool           `json:"hide_crosshair"`
}

type configRecord struct {
	crosshairRecord
	CanvasSize  int                    `json:"canvas_size"`
	Visible     bool                   `json:"visible"`
	AutoApply   bool                   `json:"auto_apply"`
	Scenes      map[string]sceneRecord `json:"scenes"`
	ActiveScene string                 `json:"active_scene"`
}

// configEnvelope is the decode-side twin of configRecord: scenes stay raw so
// each one can be decoded on top of the live fields.
type configEnvelope struct {
	crosshairRecord
	CanvasSize  int                        `json:"canvas_size"`
	Visible     bool                       `json:"visible"`
	AutoApply   bool                       `json:"auto_apply"`
	Scenes      map[string]json.RawMessage `json:"scenes"`
	ActiveScene string                     `json:"active_scene"`
}

type sceneEnvelope struct {
	crosshairRecord
	Objects       []json.RawMessage `json:"objects"`
	HideCrosshair *bool             `json:"hide_crosshair"`
}

// MarshalConfiguration encodes cfg as the indented settings blob.
func MarshalConfiguration(cfg Configuration) ([]byte, error) {
	rec := configRecord{
		crosshairRecord: crosshairToRecord(cfg.Crosshair),
		CanvasSize:      cfg.CanvasSize,
		Visible:         cfg.Visible,
		AutoApply:       cfg.AutoApply,
		Scenes:          make(map[string]sceneRecord, len(cfg.Scenes)),
		ActiveScene:     cfg.ActiveScene,
	}
	for name, body := range cfg.Scenes {
		rec.Scenes[name] = sceneToRecord(body)
	}
	return json.MarshalIndent(rec, "", "  ")
}

// UnmarshalConfiguration decodes a settings blob. Missing top-level fields keep
// their defaults, missing scene fields fall back to the decoded top-level
// values, and objects of unknown type are dropped. The result is not yet
// normalized; see Store.Load.
func UnmarshalConfiguration(data []byte) (Configuration, error) {
	defaults := DefaultConfiguration()
	env := configEnvelope{
		crosshairRecord: crosshairToRecord(defaults.Crosshair),
		CanvasSize:      defaults.CanvasSize,
		Visible:         defaults.Visible,
		AutoApply:       defaults.AutoApply,
		ActiveScene:     defaults.ActiveScene,
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return Configuration{}, fmt.Errorf("decode settings: %w", err)
	}

	cfg := Configuration{
		Crosshair: recordToCrosshair(env.crosshairRecord),
		View: View{
			CanvasSize: env.CanvasSize,
			Visible:    env.Visible,
			AutoApply:  env.AutoApply,
		},
		Scenes:      make(map[string]SceneBody, len(env.Scenes)),
		ActiveScene: env.ActiveScene,
	}
	for name, raw := range env.Scenes {
		body, err := decodeScene(raw, name, cfg.Crosshair)
		if err != nil {
			return Configuration{}, fmt.Errorf("decode scene %q: %w", name, err)
		}
		cfg.Scenes[name] = body
	}
	return cfg, nil
}

// MarshalScene encodes a single scene body, used for share codes and exports.
func MarshalScene(body SceneBody) ([]byte, error) {
	return json.Marshal(sceneToRecord(body))
}

// UnmarshalScene decodes a single scene body. Missing crosshair fields fall
// back to base.
func UnmarshalScene(data []byte, name string, base Crosshair) (SceneBody, error) {
	return decodeScene(data, name, base)
}

func decodeScene(data []byte, name string, base Crosshair) (SceneBody, error) {
	env := sceneEnvelope{crosshairRecord: crosshairToRecord(base)}
	if err := json.Unmarshal(data, &env); err != nil {
		return SceneBody{}, err
	}
	body := SceneBody{
		Crosshair:     recordToCrosshair(env.crosshairRecord),
		Objects:       make([]SceneObject, 0, len(env.Objects)),
		HideCrosshair: name != DefaultSceneName,
	}
	if env.HideCrosshair != nil {
		body.HideCrosshair = *env.HideCrosshair
	}
	for _, raw := range env.Objects {
		rec := defaultObjectRecord()
		if err := json.Unmarshal(raw, &rec); err != nil {
			return SceneBody{}, err
		}
		obj, ok := recordToObject(rec)
		if !ok {
			continue
		}
		body.Objects = append(body.Objects, obj)
	}
	return body, nil
}

func crosshairToRecord(c Crosshair) crosshairRecord {
	return crosshairRecord{
		Style:     string(c.Style),
		ColorHex:  c.ColorHex,
		Opacity:   c.Opacity,
		Thickness: c.Thickness,
		Length:    c.Length,
		Gap:       c.Gap,
		Radius:    c.Radius,
		OffsetX:   c.OffsetX,
		OffsetY:   c.OffsetY,
		Scale:     c.Scale,
	}
}

func recordToCrosshair(r crosshairRecord) Crosshair {
	return Crosshair{
		Style:     Style(r.Style),
		ColorHex:  r.ColorHex,
		Opacity:   r.Opacity,
		Thickness: r.Thickness,
		Length:    r.Length,
		Gap:       r.Gap,
		Radius:    r.Radius,
		OffsetX:   r.OffsetX,
		OffsetY:   r.OffsetY,
		Scale:     r.Scale,
	}
}

func sceneToRecord(body SceneBody) sceneRecord {
	rec := sceneRecord{
		crosshairRecord: crosshairToRecord(body.Crosshair),
		Objects:         make([]objectRecord, 0, len(body.Objects)),
		HideCrosshair:   body.HideCrosshair,
	}
	for _, obj := range body.Objects {
		if obj.Shape == nil {
			continue
		}
		rec.Objects = append(rec.Objects, objectToRecord(obj))
	}
	return rec
}

// defaultObjectRecord mirrors the fallbacks an object record gets for every
// field it does not carry.
func defaultObjectRecord() objectRecord {
	return objectRecord{
		Type:      string(KindCircle),
		Scale:     1.0,
		SizeA:     40,
		SizeB:     30,
		Thickness: 2,
		ColorHex:  "#FF0000",
		Opacity:   1.0,
		Sides:     5,
	}
}

// objectToRecord fills the size fields obj's shape carries. The others keep
// their record defaults.
func objectToRecord(obj SceneObject) objectRecord {
	rec := defaultObjectRecord()
	rec.Type = string(obj.Kind())
	rec.X, rec.Y = obj.X, obj.Y
	rec.Rotation, rec.Scale = obj.Rotation, obj.Scale
	rec.Thickness, rec.Fill = obj.Thickness, obj.Fill
	rec.ColorHex, rec.Opacity = obj.ColorHex, obj.Opacity
	switch shape := obj.Shape.(type) {
	case Line:
		rec.SizeA = shape.Length
	case Rect:
		rec.SizeA, rec.SizeB = shape.Width, shape.Height
	case Circle:
		rec.SizeA = shape.Radius
	case Cross:
		rec.SizeA, rec.SizeB = shape.Length, shape.Gap
	case XCross:
		rec.SizeA = shape.Arm
	case Triangle:
		rec.SizeA = shape.Radius
	case NGon:
		rec.SizeA, rec.Sides = shape.Radius, shape.Sides
	}
	return rec
}

func recordToObject(rec objectRecord) (SceneObject, bool) {
	var shape Shape
	switch Kind(rec.Type) {
	case KindLine:
		shape = Line{Length: rec.SizeA}
	case KindRect:
		shape = Rect{Width: rec.SizeA, Height: rec.SizeB}
	case KindCircle:
		shape = Circle{Radius: rec.SizeA}
	case KindCross:
		shape = Cross{Length: rec.SizeA, Gap: rec.SizeB}
	case KindXCross:
		shape = XCross{Arm: rec.SizeA}
	case KindTriangle:
		shape = Triangle{Radius: rec.SizeA}
	case KindNGon:
		shape = NGon{Radius: rec.SizeA, Sides: rec.Sides}
	default:
		return SceneObject{}, false
	}
	return SceneObject{
		Placement: Placement{X: rec.X, Y: rec.Y, Rotation: rec.Rotation, Scale: rec.Scale},
		Paint:     Paint{Thickness: rec.Thickness, Fill: rec.Fill, ColorHex: rec.ColorHex, Opacity: rec.Opacity},
		Shape:     shape,
	}, true
}

// ErrUnknownObjectType is returned when an edit names a shape type this
// build does not draw.
var ErrUnknownObjectType = errors.New("unknown object type")

// MarshalObjects encodes an object list in the settings record form.
func MarshalObjects(objs []SceneObject) ([]byte, error) {
	recs := make([]objectRecord, 0, len(objs))
	for _, obj := range objs {
		if obj.Shape == nil {
			continue
		}
		recs = append(recs, objectToRecord(obj))
	}
	return json.Marshal(recs)
}

// UnmarshalObjects decodes an object list. Missing fields get the record
// defaults and objects of unknown type are dropped, as on load.
func UnmarshalObjects(data []byte) ([]SceneObject, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	out := make([]SceneObject, 0, len(raws))
	for _, raw := range raws {
		rec := defaultObjectRecord()
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		if obj, ok := recordToObject(rec); ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

// PatchObject overlays the record fields present in patch on obj. Changing
// the type keeps the size fields, so a Circle of radius 40 becomes a Line of
// length 40.
func PatchObject(obj SceneObject, patch []byte) (SceneObject, error) {
	rec := objectToRecord(obj)
	if obj.Shape == nil {
		rec = defaultObjectRecord()
	}
	if err := json.Unmarshal(patch, &rec); err != nil {
		return obj, err
	}
	out, ok := recordToObject(rec)
	if !ok {
		return obj, fmt.Errorf("%w: %q", ErrUnknownObjectType, rec.Type)
	}
	return out, nil
}

// PatchCrosshair overlays the crosshair fields present in patch on c.
func PatchCrosshair(c Crosshair, patch []byte) (Crosshair, error) {
	rec := crosshairToRecord(c)
	if err := json.Unmarshal(patch, &rec); err != nil {
		return c, err
	}
	return recordToCrosshair(rec), nil
}
