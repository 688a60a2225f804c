package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rook-computer/crosshair/internal/display"
	"github.com/rook-computer/crosshair/internal/hotkey"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
	"github.com/rook-computer/crosshair/internal/surface"
)

type SimFaults struct {
	SaveFail    bool `json:"saveFail"`
	PresentFail bool `json:"presentFail"`
}

// displaySink is told about simulated hot-plugs.
type displaySink interface {
	DisplaysChanged(ctx context.Context, displays []image.Rectangle) error
}

// SimControl stands in for the monitors, the global keyboard and the
// settings storage. Every overlay window is a memory presenter whose last
// frame can be fetched over HTTP.
type SimControl struct {
	blob    *state.MemoryBlob
	hotkeys *hotkey.ManualSource

	mu         sync.Mutex
	startup    display.Static
	displays   display.Static
	presenters map[int]*surface.MemoryPresenter
	faults     SimFaults
}

func NewSimControl(displays display.Static, blob *state.MemoryBlob, hotkeys *hotkey.ManualSource) *SimControl {
	return &SimControl{
		blob:       blob,
		hotkeys:    hotkeys,
		startup:    append(display.Static(nil), displays...),
		displays:   append(display.Static(nil), displays...),
		presenters: map[int]*surface.MemoryPresenter{},
	}
}

func (c *SimControl) Displays() ([]image.Rectangle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displays.Displays()
}

func (c *SimControl) SetDisplays(displays display.Static) {
	c.mu.Lock()
	c.displays = append(display.Static(nil), displays...)
	c.mu.Unlock()
}

// NewPresenter is the overlay's presenter factory.
func (c *SimControl) NewPresenter(index int, _ image.Rectangle) (surface.Presenter, error) {
	presenter := surface.NewMemoryPresenter()
	c.mu.Lock()
	defer c.mu.Unlock()
	presenter.FailPresents(c.faults.PresentFail)
	c.presenters[index] = presenter
	return presenter, nil
}

func (c *SimControl) Presenter(index int) (*surface.MemoryPresenter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	presenter, ok := c.presenters[index]
	if !ok || presenter.Closed() {
		return nil, false
	}
	return presenter, true
}

func (c *SimControl) Faults() SimFaults {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.faults
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.faults = v
	if c.blob != nil {
		c.blob.SetFailWrites(v.SaveFail)
	}
	for _, presenter := range c.presenters {
		presenter.FailPresents(v.PresentFail)
	}
}

// Reset clears the faults and plugs the startup displays back in.
func (c *SimControl) Reset(ctx context.Context, sink displaySink) error {
	c.SetFaults(SimFaults{})
	c.mu.Lock()
	startup := append(display.Static(nil), c.startup...)
	c.mu.Unlock()
	c.SetDisplays(startup)
	return sink.DisplaysChanged(ctx, startup)
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl, sink displaySink) {
	mux.HandleFunc("/sim/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if err := control.Reset(r.Context(), sink); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("/sim/displays", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
		case http.MethodPost:
			var req struct {
				Displays string `json:"displays"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			displays, err := display.Parse(req.Displays)
			if err != nil {
				writeSimError(w, http.StatusBadRequest, err.Error())
				return
			}
			control.SetDisplays(displays)
			if err := sink.DisplaysChanged(r.Context(), displays); err != nil {
				writeSimError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		displays, _ := control.Displays()
		geometries := make([]string, len(displays))
		for i, rect := range displays {
			geometries[i] = display.Format(rect)
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"displays": geometries})
	})

	mux.HandleFunc("/sim/frames", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		control.mu.Lock()
		indexes := make([]int, 0, len(control.presenters))
		for index, presenter := range control.presenters {
			if !presenter.Closed() {
				indexes = append(indexes, index)
			}
		}
		control.mu.Unlock()
		sort.Ints(indexes)

		type frameInfo struct {
			Index    int    `json:"index"`
			Target   string `json:"target"`
			Visible  bool   `json:"visible"`
			Presents int    `json:"presents"`
		}
		frames := []frameInfo{}
		for _, index := range indexes {
			presenter, ok := control.Presenter(index)
			if !ok {
				continue
			}
			frames = append(frames, frameInfo{
				Index:    index,
				Target:   display.Format(presenter.Target()),
				Visible:  presenter.Visible(),
				Presents: presenter.Presents(),
			})
		}
		writeSimJSON(w, http.StatusOK, frames)
	})

	mux.HandleFunc("/sim/frames/{index}", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		index, err := strconv.Atoi(r.PathValue("index"))
		if err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid index")
			return
		}
		presenter, ok := control.Presenter(index)
		if !ok {
			writeSimError(w, http.StatusNotFound, fmt.Sprintf("no surface %d", index))
			return
		}
		format, err := render.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("X-Overlay-Visible", strconv.FormatBool(presenter.Visible()))
		w.Header().Set("X-Overlay-Target", display.Format(presenter.Target()))
		w.WriteHeader(http.StatusOK)
		_ = render.EncodeImage(w, presenter.Image(), format)
	})

	mux.HandleFunc("/sim/hotkeys/{event}", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		ev := hotkey.Event(strings.ToLower(r.PathValue("event")))
		switch ev {
		case hotkey.Toggle, hotkey.Show, hotkey.Hide, hotkey.Exit:
		default:
			writeSimError(w, http.StatusBadRequest, fmt.Sprintf("unknown hotkey event %q", ev))
			return
		}
		if !control.hotkeys.Send(ev) {
			writeSimError(w, http.StatusServiceUnavailable, "hotkey queue full")
			return
		}
		writeSimJSON(w, http.StatusAccepted, map[string]any{"ok": true, "event": ev})
	})

	mux.HandleFunc("/sim/faults", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeSimJSON(w, http.StatusOK, control.Faults())
		case http.MethodPost:
			var patch struct {
				SaveFail    *bool `json:"saveFail"`
				PresentFail *bool `json:"presentFail"`
			}
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeSimError(w, http.StatusBadRequest, "invalid json")
				return
			}
			current := control.Faults()
			if patch.SaveFail != nil {
				current.SaveFail = *patch.SaveFail
			}
			if patch.PresentFail != nil {
				current.PresentFail = *patch.PresentFail
			}
			control.SetFaults(current)
			writeSimJSON(w, http.StatusOK, current)
		default:
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
