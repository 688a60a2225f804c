package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/crosshair/internal/display"
	"github.com/rook-computer/crosshair/internal/hotkey"
	"github.com/rook-computer/crosshair/internal/overlay"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/surface"
)

type harness struct {
	app     *App
	blob    *state.MemoryBlob
	keys    *hotkey.ManualSource
	cancel  context.CancelFunc
	result  chan error
	mu      sync.Mutex
	outputs []*surface.MemoryPresenter
}

func (h *harness) presenters() []*surface.MemoryPresenter {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*surface.MemoryPresenter(nil), h.outputs...)
}

func startHarness(t *testing.T, displays display.Source, settings []byte) *harness {
	t.Helper()
	h := &harness{blob: state.NewMemoryBlob(settings), keys: hotkey.NewManualSource(), result: make(chan error, 1)}
	factory := func(index int, rect image.Rectangle) (surface.Presenter, error) {
		presenter := surface.NewMemoryPresenter()
		h.mu.Lock()
		h.outputs = append(h.outputs, presenter)
		h.mu.Unlock()
		return presenter, nil
	}
	h.app = New(state.NewStore(h.blob), overlay.NewManager(factory, nil), displays, h.keys)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() { h.result <- h.app.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-h.result:
		case <-time.After(2 * time.Second):
			t.Error("app did not stop")
		}
	})
	return h
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// eventually polls the surfaces until check passes.
func eventually(t *testing.T, app *App, check func([]overlay.Info) bool) []overlay.Info {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		infos, err := app.Surfaces(testContext(t))
		if err != nil {
			t.Fatal(err)
		}
		if check(infos) {
			return infos
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached: %+v", infos)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

var twoDisplays = display.Static{image.Rect(0, 0, 1920, 1080), image.Rect(1920, 0, 3840, 1080)}

func visibleCount(infos []overlay.Info) int {
	n := 0
	for _, info := range infos {
		if info.Visible {
			n++
		}
	}
	return n
}

func TestStartBuildsSurfacesPerDisplay(t *testing.T) {
	h := startHarness(t, twoDisplays, nil)
	infos, err := h.app.Surfaces(testContext(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 || visibleCount(infos) != 2 {
		t.Fatalf("surfaces = %+v", infos)
	}
	for i, presenter := range h.presenters() {
		if presenter.Presents() == 0 {
			t.Fatalf("surface %d never rendered", i)
		}
	}
}

func TestStartHonoursStoredVisibility(t *testing.T) {
	h := startHarness(t, twoDisplays, []byte(`{"visible": false}`))
	infos, err := h.app.Surfaces(testContext(t))
	if err != nil {
		t.Fatal(err)
	}
	if visibleCount(infos) != 0 {
		t.Fatalf("visible = %d", visibleCount(infos))
	}
}

func TestHotkeyToggleIsForwarded(t *testing.T) {
	h := startHarness(t, twoDisplays, nil)
	if !h.keys.Send(hotkey.Toggle) {
		t.Fatal("send failed")
	}
	eventually(t, h.app, func(infos []overlay.Info) bool { return visibleCount(infos) == 0 })
	if !h.app.Store.Snapshot().Visible {
		t.Fatal("toggle changed the stored visible flag")
	}
	h.keys.Send(hotkey.Show)
	eventually(t, h.app, func(infos []overlay.Info) bool { return visibleCount(infos) == 2 })
}

func TestSetVisibleIsStored(t *testing.T) {
	h := startHarness(t, twoDisplays, nil)
	if err := h.app.SetVisible(testContext(t), false); err != nil {
		t.Fatal(err)
	}
	cfg, err := h.app.Snapshot(testContext(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Visible {
		t.Fatal("visible flag not stored")
	}
	infos, _ := h.app.Surfaces(testContext(t))
	if visibleCount(infos) != 0 {
		t.Fatalf("visible = %d", visibleCount(infos))
	}
}

func TestUpdateAppliesWhenAutoApply(t *testing.T) {
	h := startHarness(t, twoDisplays, nil)
	err := h.app.Update(testContext(t), func(store *state.Store) error {
		store.SetCanvasSize(200)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	infos, _ := h.app.Surfaces(testContext(t))
	for i, info := range infos {
		if info.Target.Dx() != 200 || info.Dirty {
			t.Fatalf("surface %d = %+v", i, info)
		}
	}
}

func TestUpdateWaitsForApplyWithoutAutoApply(t *testing.T) {
	h := startHarness(t, twoDisplays, []byte(`{"auto_apply": false}`))
	ctx := testContext(t)
	h.app.Update(ctx, func(store *state.Store) error {
		store.SetCanvasSize(200)
		return nil
	})
	infos, _ := h.app.Surfaces(ctx)
	if infos[0].Target.Dx() != 600 {
		t.Fatalf("edit applied early: %+v", infos[0])
	}
	if err := h.app.Apply(ctx); err != nil {
		t.Fatal(err)
	}
	infos, _ = h.app.Surfaces(ctx)
	if infos[0].Target.Dx() != 200 {
		t.Fatalf("apply ignored: %+v", infos[0])
	}
}

func TestUpdateErrorSkipsApply(t *testing.T) {
	h := startHarness(t, twoDisplays, nil)
	boom := errors.New("boom")
	err := h.app.Update(testContext(t), func(store *state.Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestSavePersists(t *testing.T) {
	h := startHarness(t, twoDisplays, nil)
	ctx := testContext(t)
	h.app.Update(ctx, func(store *state.Store) error {
		_, err := store.CreateScene("Sniper")
		return err
	})
	if err := h.app.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(h.blob.Bytes()), `"Sniper"`) {
		t.Fatalf("saved blob = %s", h.blob.Bytes())
	}
}

func TestDisplaysChangedRebuilds(t *testing.T) {
	h := startHarness(t, twoDisplays, nil)
	ctx := testContext(t)
	if err := h.app.DisplaysChanged(ctx, []image.Rectangle{image.Rect(0, 0, 800, 600)}); err != nil {
		t.Fatal(err)
	}
	infos, _ := h.app.Surfaces(ctx)
	if len(infos) != 1 || infos[0].Target != image.Rect(99, -1, 699, 599) {
		t.Fatalf("surfaces = %+v", infos)
	}
	presenters := h.presenters()
	if !presenters[0].Closed() || !presenters[1].Closed() {
		t.Fatal("old surfaces left open")
	}
}

type movableSource struct {
	mu    sync.Mutex
	rects []image.Rectangle
}

func (s *movableSource) Displays() ([]image.Rectangle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]image.Rectangle(nil), s.rects...), nil
}

func (s *movableSource) move(i int, rect image.Rectangle) {
	s.mu.Lock()
	s.rects[i] = rect
	s.mu.Unlock()
}

func TestApplyUsesCurrentDisplayGeometry(t *testing.T) {
	src := &movableSource{rects: append([]image.Rectangle(nil), twoDisplays...)}
	h := startHarness(t, src, []byte(`{"auto_apply": false}`))
	ctx := testContext(t)
	src.move(1, image.Rect(1920, 0, 4480, 1440))

	if err := h.app.Apply(ctx); err != nil {
		t.Fatal(err)
	}
	infos, _ := h.app.Surfaces(ctx)
	if len(h.presenters()) != 2 {
		t.Fatalf("apply recreated surfaces: %d presenters", len(h.presenters()))
	}
	if infos[1].Display != image.Rect(1920, 0, 4480, 1440) || infos[1].Target != image.Rect(2899, 419, 3499, 1019) {
		t.Fatalf("surface 1 = %+v", infos[1])
	}
}

func TestSetCanvasSizeResizesAndSaves(t *testing.T) {
	h := startHarness(t, twoDisplays, []byte(`{"auto_apply": false}`))
	ctx := testContext(t)
	if err := h.app.SetCanvasSize(ctx, 100); err != nil {
		t.Fatal(err)
	}
	infos, _ := h.app.Surfaces(ctx)
	if infos[0].Target != image.Rect(909, 489, 1009, 589) || infos[1].Target != image.Rect(2829, 489, 2929, 589) {
		t.Fatalf("surfaces = %+v", infos)
	}
	saved, err := state.UnmarshalConfiguration(h.blob.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if saved.CanvasSize != 100 {
		t.Fatalf("saved canvas_size = %d", saved.CanvasSize)
	}
}

func TestExitHotkeyStopsApp(t *testing.T) {
	h := startHarness(t, twoDisplays, nil)
	if _, err := h.app.Surfaces(testContext(t)); err != nil {
		t.Fatal(err)
	}
	h.keys.Send(hotkey.Exit)
	select {
	case err := <-h.result:
		if err != nil {
			t.Fatalf("exit returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("exit hotkey ignored")
	}
	h.result <- nil
	if _, err := h.app.Surfaces(testContext(t)); !errors.Is(err, ErrStopped) {
		t.Fatalf("request after exit = %v", err)
	}
	for i, presenter := range h.presenters() {
		if !presenter.Closed() {
			t.Fatalf("surface %d left open", i)
		}
	}
}

type failingSource struct{}

func (failingSource) Displays() ([]image.Rectangle, error) { return nil, errors.New("no screens") }

func TestStartFailsWithoutDisplays(t *testing.T) {
	app := New(state.NewStore(state.NewMemoryBlob(nil)), overlay.NewManager(nil, nil), failingSource{}, nil)
	if err := app.Start(context.Background()); err == nil {
		t.Fatal("expected enumeration error")
	}
}

func TestFileLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFileLogger(&buf)
	logger.Infof("overlay", "rebuilt %d", 2)
	logger.Errorf("state", "save failed")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasSuffix(lines[0], " [INFO] overlay: rebuilt 2") || !strings.HasSuffix(lines[1], " [ERROR] state: save failed") {
		t.Fatalf("lines = %q", lines)
	}
	if _, err := time.Parse(time.RFC3339, strings.SplitN(lines[0], " ", 2)[0]); err != nil {
		t.Fatalf("timestamp: %v", err)
	}
}
