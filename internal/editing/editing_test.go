package editing

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/rook-computer/crosshair/internal/state"
)

func TestSanitizeHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#00FF00", "#00FF00"},
		{"  00ff00 ", "#00ff00"},
		{"#0f0", "#00ff00"},
		{"abc", "#aabbcc"},
		{"#12345678", "#123456"},
	}
	for _, tt := range tests {
		got, err := SanitizeHex(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("SanitizeHex(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestSanitizeHexRejects(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#GGGGGG", "red", "#-12345"} {
		if got, err := SanitizeHex(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("SanitizeHex(%q) = %q, %v; want ErrInvalidColor", in, got, err)
		}
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestHSVFromHex(t *testing.T) {
	tests := []struct {
		hex  string
		want HSV
	}{
		{"#FF0000", HSV{0, 1, 1}},
		{"#00FF00", HSV{1.0 / 3, 1, 1}},
		{"#000080", HSV{2.0 / 3, 1, 128.0 / 255}},
		{"#808080", HSV{greyHue, 1, 128.0 / 255}},
		{"#000000", HSV{greyHue, 1, 1}},
	}
	for _, tt := range tests {
		got, err := HSVFromHex(tt.hex)
		if err != nil {
			t.Fatalf("%s: %v", tt.hex, err)
		}
		if !near(got.H, tt.want.H) || !near(got.S, tt.want.S) || !near(got.V, tt.want.V) {
			t.Errorf("HSVFromHex(%s) = %+v, want %+v", tt.hex, got, tt.want)
		}
	}
	if _, err := HSVFromHex("nope"); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("err = %v", err)
	}
}

func TestHexFromHSV(t *testing.T) {
	tests := []struct {
		in   HSV
		want string
	}{
		{HSV{0, 1, 1}, "#FF0000"},
		{HSV{1.0 / 3, 1, 1}, "#00FF00"},
		{HSV{2.0 / 3, 1, 1}, "#0000FF"},
		{HSV{0.5, 0, 1}, "#FFFFFF"},
		{HSV{1, 1, 1}, "#FF0000"},
		{HSV{-1, 2, 2}, "#FF0000"},
	}
	for _, tt := range tests {
		if got := HexFromHSV(tt.in); got != tt.want {
			t.Errorf("HexFromHSV(%+v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func objects(kinds ...state.Kind) []state.SceneObject {
	var out []state.SceneObject
	for _, kind := range kinds {
		obj, _ := state.NewObject(kind)
		out = append(out, obj)
	}
	return out
}

func kindsOf(objs []state.SceneObject) []state.Kind {
	out := make([]state.Kind, len(objs))
	for i, obj := range objs {
		out[i] = obj.Kind()
	}
	return out
}

func equalKinds(a, b []state.Kind) bool {
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

func TestAddObject(t *testing.T) {
	objs := objects(state.KindCircle)
	out, selected, err := AddObject(objs, state.KindRect)
	if err != nil || selected != 1 || len(objs) != 1 {
		t.Fatalf("add = %d, %v (input len %d)", selected, err, len(objs))
	}
	rect, ok := out[1].Shape.(state.Rect)
	if !ok || rect.Width != 60 || rect.Height != 40 || out[1].ColorHex != "#FF0000" {
		t.Fatalf("added %+v", out[1])
	}
	if _, _, err := AddObject(objs, "Star"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unknown kind err = %v", err)
	}
}

func TestDuplicateObject(t *testing.T) {
	objs := objects(state.KindCircle, state.KindLine)
	objs[0].X = 7
	out, selected, err := DuplicateObject(objs, 0)
	if err != nil || selected != 1 {
		t.Fatalf("duplicate = %d, %v", selected, err)
	}
	want := []state.Kind{state.KindCircle, state.KindCircle, state.KindLine}
	if !equalKinds(kindsOf(out), want) || out[1].X != 7 {
		t.Fatalf("out = %v", kindsOf(out))
	}
	out[1].X = 9
	if objs[0].X != 7 {
		t.Fatal("duplicate shares storage with the input")
	}
}

func TestDeleteObject(t *testing.T) {
	tests := []struct {
		index    int
		want     []state.Kind
		selected int
	}{
		{0, []state.Kind{state.KindLine, state.KindRect}, 0},
		{2, []state.Kind{state.KindCircle, state.KindLine}, 1},
	}
	for _, tt := range tests {
		objs := objects(state.KindCircle, state.KindLine, state.KindRect)
		out, selected, err := DeleteObject(objs, tt.index)
		if err != nil || selected != tt.selected || !equalKinds(kindsOf(out), tt.want) {
			t.Errorf("delete %d = %v sel %d err %v", tt.index, kindsOf(out), selected, err)
		}
		if len(objs) != 3 || objs[0].Kind() != state.KindCircle {
			t.Errorf("delete %d modified input", tt.index)
		}
	}
	out, selected, _ := DeleteObject(objects(state.KindNGon), 0)
	if len(out) != 0 || selected != -1 {
		t.Fatalf("delete last = %d objects, sel %d", len(out), selected)
	}
}

func TestMoveObject(t *testing.T) {
	tests := []struct {
		index, delta int
		want         []state.Kind
		selected     int
	}{
		{0, 1, []state.Kind{state.KindLine, state.KindCircle, state.KindRect}, 1},
		{2, -1, []state.Kind{state.KindCircle, state.KindRect, state.KindLine}, 1},
		{0, -1, []state.Kind{state.KindCircle, state.KindLine, state.KindRect}, 0},
		{1, 5, []state.Kind{state.KindCircle, state.KindRect, state.KindLine}, 2},
	}
	for _, tt := range tests {
		objs := objects(state.KindCircle, state.KindLine, state.KindRect)
		out, selected, err := MoveObject(objs, tt.index, tt.delta)
		if err != nil || selected != tt.selected || !equalKinds(kindsOf(out), tt.want) {
			t.Errorf("move %d by %d = %v sel %d err %v", tt.index, tt.delta, kindsOf(out), selected, err)
		}
	}
}

func TestIndexOutOfRange(t *testing.T) {
	objs := objects(state.KindCircle)
	if _, _, err := DuplicateObject(objs, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("duplicate err = %v", err)
	}
	if _, _, err := DeleteObject(objs, -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("delete err = %v", err)
	}
	if _, _, err := MoveObject(nil, 0, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("move err = %v", err)
	}
}

func TestObjectTitle(t *testing.T) {
	obj, _ := state.NewObject(state.KindXCross)
	if got := ObjectTitle(obj, 2); got != "3. XCross" {
		t.Fatalf("title = %q", got)
	}
	if got := ObjectTitle(state.SceneObject{}, 0); got != "1. Circle" {
		t.Fatalf("title = %q", got)
	}
}

func TestNoopPicker(t *testing.T) {
	got, err := NoopPicker{}.Pick(context.Background(), "0f0")
	if err != nil || got != "#00ff00" {
		t.Fatalf("pick = %q, %v", got, err)
	}
}

func TestRangeChecks(t *testing.T) {
	if err := CheckCrosshair(state.DefaultCrosshair()); err != nil {
		t.Fatalf("default crosshair rejected: %v", err)
	}
	for _, kind := range []state.Kind{state.KindLine, state.KindRect, state.KindCircle, state.KindCross, state.KindXCross, state.KindTriangle, state.KindNGon} {
		obj, _ := state.NewObject(kind)
		if err := CheckObject(obj); err != nil {
			t.Errorf("default %s rejected: %v", kind, err)
		}
	}

	c := state.DefaultCrosshair()
	c.Thickness, c.Scale = 1<<62, 9
	err := CheckCrosshair(c)
	if !errors.Is(err, ErrOutOfRange) || !strings.Contains(err.Error(), "thickness") || !strings.Contains(err.Error(), "scale") {
		t.Fatalf("CheckCrosshair = %v", err)
	}

	obj, _ := state.NewObject(state.KindNGon)
	obj.Shape = state.NGon{Radius: 40, Sides: 2}
	if err := CheckObject(obj); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("two-sided ngon = %v", err)
	}
	for _, size := range []int{0, state.MaxCanvasSize + 1} {
		if err := CheckCanvasSize(size); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("CheckCanvasSize(%d) = %v", size, err)
		}
	}
	if err := CheckCanvasSize(state.MaxCanvasSize); err != nil {
		t.Fatal(err)
	}
}
