package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rook-computer/crosshair/internal/editing"
	"github.com/rook-computer/crosshair/internal/render"
	"github.com/rook-computer/crosshair/internal/state"
)

const maxBodyBytes = 1 << 20

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type sceneSummary struct {
	Name          string `json:"name"`
	HideCrosshair bool   `json:"hide_crosshair"`
	Objects       int    `json:"objects"`
}

type scenesResponse struct {
	Active string         `json:"active"`
	Scenes []sceneSummary `json:"scenes"`
}

type createSceneRequest struct {
	Name          string `json:"name"`
	Mode          string `json:"mode"`
	HideCrosshair bool   `json:"hide_crosshair"`
}

type sceneResponse struct {
	Name   string `json:"name"`
	Active string `json:"active"`
}

type viewPatch struct {
	CanvasSize *int  `json:"canvas_size"`
	Visible    *bool `json:"visible"`
	AutoApply  *bool `json:"auto_apply"`
}

type hidePatch struct {
	HideCrosshair *bool `json:"hide_crosshair"`
}

type objectsResponse struct {
	Selected int             `json:"selected"`
	Objects  json.RawMessage `json:"objects"`
}

type addObjectRequest struct {
	Type string `json:"type"`
}

type moveObjectRequest struct {
	Delta int `json:"delta"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

type visibilityResponse struct {
	Visible bool `json:"visible"`
}

type pickRequest struct {
	Initial string `json:"initial"`
}

type pickResponse struct {
	ColorHex string `json:"color_hex"`
}

var (
	errBadBody      = errors.New("invalid request body")
	errInvalidStyle = errors.New("invalid crosshair style")
)

type apiV1 struct {
	deps APIV1Deps
}

func apiV1Router(deps APIV1Deps) http.Handler {
	api := &apiV1{deps: deps.withDefaults()}
	mux := http.NewServeMux()
	mux.HandleFunc("/config", api.handleConfig)
	mux.HandleFunc("/crosshair", api.handleCrosshair)
	mux.HandleFunc("/view", api.handleView)
	mux.HandleFunc("/scenes", api.handleScenes)
	mux.HandleFunc("/scenes/{name}", api.handleScene)
	mux.HandleFunc("/scenes/{name}/activate", api.handleSceneActivate)
	mux.HandleFunc("/scenes/{name}/qr", api.handleSceneQR)
	mux.HandleFunc("/objects", api.handleObjects)
	mux.HandleFunc("/objects/{index}", api.handleObject)
	mux.HandleFunc("/objects/{index}/duplicate", api.handleObjectDuplicate)
	mux.HandleFunc("/objects/{index}/move", api.handleObjectMove)
	mux.HandleFunc("/visibility", api.handleVisibility)
	mux.HandleFunc("/visibility/toggle", api.handleVisibilityToggle)
	mux.HandleFunc("/surfaces", api.handleSurfaces)
	mux.HandleFunc("/preview", api.handlePreview)
	mux.HandleFunc("/apply", api.handleApply)
	mux.HandleFunc("/save", api.handleSave)
	mux.HandleFunc("/color/pick", api.handleColorPick)
	return api.requireController(mux)
}

func (api *apiV1) requireController(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.deps.Controller == nil {
			writeAPIError(w, http.StatusNotImplemented, "not_implemented", "overlay not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (api *apiV1) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	api.writeConfig(r.Context(), w)
}

func (api *apiV1) handleCrosshair(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPatch) {
		return
	}
	body, err := readBody(r)
	if err != nil {
		api.writeError(w, err)
		return
	}
	err = api.deps.Controller.Update(r.Context(), func(store *state.Store) error {
		patched, err := state.PatchCrosshair(store.Snapshot().Crosshair, body)
		if err != nil {
			return fmt.Errorf("%w: %v", errBadBody, err)
		}
		if !patched.Style.Valid() {
			return fmt.Errorf("%w: %q", errInvalidStyle, patched.Style)
		}
		if patched.ColorHex, err = editing.SanitizeHex(patched.ColorHex); err != nil {
			return err
		}
		if err := editing.CheckCrosshair(patched); err != nil {
			return err
		}
		store.SetCrosshair(patched)
		return nil
	})
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeConfig(r.Context(), w)
}

func (api *apiV1) handleView(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPatch) {
		return
	}
	var patch viewPatch
	if err := decodeBody(r, &patch); err != nil {
		api.writeError(w, err)
		return
	}
	if patch.CanvasSize != nil {
		if err := editing.CheckCanvasSize(*patch.CanvasSize); err != nil {
			api.writeError(w, err)
			return
		}
	}
	var err error
	if patch.AutoApply != nil {
		err = api.deps.Controller.Update(r.Context(), func(store *state.Store) error {
			store.SetAutoApply(*patch.AutoApply)
			return nil
		})
	}
	if err == nil && patch.CanvasSize != nil {
		err = api.deps.Controller.SetCanvasSize(r.Context(), *patch.CanvasSize)
	}
	if err == nil && patch.Visible != nil {
		err = api.deps.Controller.SetVisible(r.Context(), *patch.Visible)
	}
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeConfig(r.Context(), w)
}

func (api *apiV1) handleScenes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := api.deps.Controller.Snapshot(r.Context())
		if err != nil {
			api.writeError(w, err)
			return
		}
		resp := scenesResponse{Active: cfg.ActiveScene, Scenes: []sceneSummary{}}
		for _, name := range cfg.SceneNames() {
			body := cfg.Scenes[name]
			resp.Scenes = append(resp.Scenes, sceneSummary{Name: name, HideCrosshair: body.HideCrosshair, Objects: len(body.Objects)})
		}
		writeJSON(w, http.StatusOK, resp)
	case http.MethodPost:
		var req createSceneRequest
		if err := decodeBody(r, &req); err != nil {
			api.writeError(w, err)
			return
		}
		var name string
		err := api.deps.Controller.Update(r.Context(), func(store *state.Store) error {
			var err error
			switch req.Mode {
			case "", "new":
				name, err = store.CreateScene(req.Name)
			case "save_as":
				name, err = store.SaveSceneAs(req.Name, req.HideCrosshair)
			default:
				err = fmt.Errorf("%w: unknown mode %q", errBadBody, req.Mode)
			}
			return err
		})
		if err != nil {
			api.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sceneResponse{Name: name, Active: name})
	default:
		writeMethodNotAllowed(w)
	}
}

func (api *apiV1) handleScene(w http.ResponseWriter, r *http.Request) {
	name, err := state.NormalizeSceneName(r.PathValue("name"))
	if err != nil {
		api.writeError(w, err)
		return
	}
	switch r.Method {
	case http.MethodGet:
		cfg, err := api.deps.Controller.Snapshot(r.Context())
		if err != nil {
			api.writeError(w, err)
			return
		}
		body, ok := cfg.Scenes[name]
		if !ok {
			api.writeError(w, state.ErrUnknownScene)
			return
		}
		data, err := state.MarshalScene(body)
		if err != nil {
			api.writeError(w, err)
			return
		}
		writeRawJSON(w, http.StatusOK, data)
	case http.MethodPut:
		var stored string
		err := api.deps.Controller.Update(r.Context(), func(store *state.Store) error {
			var err error
			stored, err = store.OverwriteScene(name)
			return err
		})
		if err != nil {
			api.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sceneResponse{Name: stored, Active: stored})
	case http.MethodPatch:
		var patch hidePatch
		if err := decodeBody(r, &patch); err != nil {
			api.writeError(w, err)
			return
		}
		if patch.HideCrosshair == nil {
			api.writeError(w, fmt.Errorf("%w: hide_crosshair is required", errBadBody))
			return
		}
		err := api.deps.Controller.Update(r.Context(), func(store *state.Store) error {
			if !store.SetHideCrosshair(name, *patch.HideCrosshair) {
				return state.ErrUnknownScene
			}
			return nil
		})
		if err != nil {
			api.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, okResponse{OK: true})
	case http.MethodDelete:
		var active string
		err := api.deps.Controller.Update(r.Context(), func(store *state.Store) error {
			if !store.DeleteScene(name) {
				return state.ErrUnknownScene
			}
			active = store.Snapshot().ActiveScene
			return nil
		})
		if err != nil {
			api.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sceneResponse{Name: name, Active: active})
	default:
		writeMethodNotAllowed(w)
	}
}

func (api *apiV1) handleSceneActivate(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	name, err := state.NormalizeSceneName(r.PathValue("name"))
	if err != nil {
		api.writeError(w, err)
		return
	}
	err = api.deps.Controller.Update(r.Context(), func(store *state.Store) error {
		if !store.ActivateScene(name) {
			return state.ErrUnknownScene
		}
		return nil
	})
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sceneResponse{Name: name, Active: name})
}

func (api *apiV1) handleSceneQR(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	name, err := state.NormalizeSceneName(r.PathValue("name"))
	if err != nil {
		api.writeError(w, err)
		return
	}
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_format", err.Error())
		return
	}
	size := 256
	if raw := r.URL.Query().Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil || size < 64 || size > 1024 {
			writeAPIError(w, http.StatusBadRequest, "invalid_size", "size must be between 64 and 1024")
			return
		}
	}
	cfg, err := api.deps.Controller.Snapshot(r.Context())
	if err != nil {
		api.writeError(w, err)
		return
	}
	body, ok := cfg.Scenes[name]
	if !ok {
		api.writeError(w, state.ErrUnknownScene)
		return
	}
	payload, err := state.MarshalScene(body)
	if err != nil {
		api.writeError(w, err)
		return
	}
	code, err := render.ShareCode(payload, size, format)
	if err != nil {
		writeAPIError(w, http.StatusUnprocessableEntity, "share_failed", err.Error())
		return
	}
	writeImage(w, format, code)
}

func (api *apiV1) handleObjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cfg, err := api.deps.Controller.Snapshot(r.Context())
		if err != nil {
			api.writeError(w, err)
			return
		}
		api.writeObjects(w, http.StatusOK, cfg.LiveScene().Objects, -1)
	case http.MethodPut:
		body, err := readBody(r)
		if err != nil {
			api.writeError(w, err)
			return
		}
		objs, err := state.UnmarshalObjects(body)
		if err != nil {
			api.writeError(w, fmt.Errorf("%w: %v", errBadBody, err))
			return
		}
		for i := range objs {
			if objs[i].ColorHex, err = editing.SanitizeHex(objs[i].ColorHex); err != nil {
				api.writeError(w, err)
				return
			}
			if err := editing.CheckObject(objs[i]); err != nil {
				api.writeError(w, fmt.Errorf("object %d: %w", i, err))
				return
			}
		}
		api.editObjects(w, r, http.StatusOK, func([]state.SceneObject) ([]state.SceneObject, int, error) {
			return objs, -1, nil
		})
	case http.MethodPost:
		var req addObjectRequest
		if err := decodeBody(r, &req); err != nil {
			api.writeError(w, err)
			return
		}
		api.editObjects(w, r, http.StatusCreated, func(objs []state.SceneObject) ([]state.SceneObject, int, error) {
			return editing.AddObject(objs, state.Kind(req.Type))
		})
	default:
		writeMethodNotAllowed(w)
	}
}

func (api *apiV1) handleObject(w http.ResponseWriter, r *http.Request) {
	index, ok := objectIndex(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodPatch:
		body, err := readBody(r)
		if err != nil {
			api.writeError(w, err)
			return
		}
		api.editObjects(w, r, http.StatusOK, func(objs []state.SceneObject) ([]state.SceneObject, int, error) {
			if index >= len(objs) {
				return nil, -1, fmt.Errorf("%w: %d of %d", editing.ErrIndexOutOfRange, index, len(objs))
			}
			patched, err := state.PatchObject(objs[index], body)
			if err != nil {
				if errors.Is(err, state.ErrUnknownObjectType) {
					return nil, -1, err
				}
				return nil, -1, fmt.Errorf("%w: %v", errBadBody, err)
			}
			if patched.ColorHex, err = editing.SanitizeHex(patched.ColorHex); err != nil {
				return nil, -1, err
			}
			if err := editing.CheckObject(patched); err != nil {
				return nil, -1, err
			}
			objs[index] = patched
			return objs, index, nil
		})
	case http.MethodDelete:
		api.editObjects(w, r, http.StatusOK, func(objs []state.SceneObject) ([]state.SceneObject, int, error) {
			return editing.DeleteObject(objs, index)
		})
	default:
		writeMethodNotAllowed(w)
	}
}

func (api *apiV1) handleObjectDuplicate(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	index, ok := objectIndex(w, r)
	if !ok {
		return
	}
	api.editObjects(w, r, http.StatusCreated, func(objs []state.SceneObject) ([]state.SceneObject, int, error) {
		return editing.DuplicateObject(objs, index)
	})
}

func (api *apiV1) handleObjectMove(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	index, ok := objectIndex(w, r)
	if !ok {
		return
	}
	var req moveObjectRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, err)
		return
	}
	api.editObjects(w, r, http.StatusOK, func(objs []state.SceneObject) ([]state.SceneObject, int, error) {
		return editing.MoveObject(objs, index, req.Delta)
	})
}

// editObjects runs edit on the active scene's object list inside one store
// update and answers with the resulting list.
func (api *apiV1) editObjects(w http.ResponseWriter, r *http.Request, status int, edit func([]state.SceneObject) ([]state.SceneObject, int, error)) {
	var (
		result   []state.SceneObject
		selected int
	)
	err := api.deps.Controller.Update(r.Context(), func(store *state.Store) error {
		objs, sel, err := edit(store.CurrentObjects())
		if err != nil {
			return err
		}
		store.SetCurrentObjects(objs)
		result, selected = store.CurrentObjects(), sel
		return nil
	})
	if err != nil {
		api.writeError(w, err)
		return
	}
	api.writeObjects(w, status, result, selected)
}

func (api *apiV1) writeObjects(w http.ResponseWriter, status int, objs []state.SceneObject, selected int) {
	data, err := state.MarshalObjects(objs)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeJSON(w, status, objectsResponse{Selected: selected, Objects: data})
}

func (api *apiV1) handleVisibility(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	var req visibilityRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, err)
		return
	}
	if req.Visible == nil {
		api.writeError(w, fmt.Errorf("%w: visible is required", errBadBody))
		return
	}
	if err := api.deps.Controller.SetVisible(r.Context(), *req.Visible); err != nil {
		api.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visibilityResponse{Visible: *req.Visible})
}

func (api *apiV1) handleVisibilityToggle(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	visible, err := api.deps.Controller.ToggleVisible(r.Context())
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visibilityResponse{Visible: visible})
}

func (api *apiV1) handleSurfaces(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	infos, err := api.deps.Controller.Surfaces(r.Context())
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (api *apiV1) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	query := r.URL.Query()
	format, err := render.ParseFormat(query.Get("format"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid_format", err.Error())
		return
	}
	var opts render.PreviewOptions
	if raw := query.Get("size"); raw != "" {
		if opts.Size, err = strconv.Atoi(raw); err != nil || opts.Size < 1 || opts.Size > render.PreviewMaxSide {
			writeAPIError(w, http.StatusBadRequest, "invalid_size", fmt.Sprintf("size must be between 1 and %d", render.PreviewMaxSide))
			return
		}
	}
	opts.Transparent = queryFlag(query.Get("transparent"))
	cfg, err := api.deps.Controller.Snapshot(r.Context())
	if err != nil {
		api.writeError(w, err)
		return
	}
	if queryFlag(query.Get("label")) {
		opts.Label = cfg.ActiveScene
	}
	img := render.Preview(cfg, opts)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := render.EncodeImage(w, img, format); err != nil {
		api.deps.Logger.Errorf("web", "preview: %v", err)
	}
}

func (api *apiV1) handleApply(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if err := api.deps.Controller.Apply(r.Context()); err != nil {
		api.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (api *apiV1) handleSave(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if err := api.deps.Controller.Save(r.Context()); err != nil {
		api.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (api *apiV1) handleColorPick(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	var req pickRequest
	if err := decodeBody(r, &req); err != nil {
		api.writeError(w, err)
		return
	}
	if req.Initial == "" {
		cfg, err := api.deps.Controller.Snapshot(r.Context())
		if err != nil {
			api.writeError(w, err)
			return
		}
		req.Initial = cfg.ColorHex
	}
	picked, err := api.deps.Picker.Pick(r.Context(), req.Initial)
	if errors.Is(err, editing.ErrCanceled) {
		writeAPIError(w, http.StatusConflict, "canceled", "color dialog dismissed")
		return
	}
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pickResponse{ColorHex: picked})
}

func (api *apiV1) writeConfig(ctx context.Context, w http.ResponseWriter) {
	cfg, err := api.deps.Controller.Snapshot(ctx)
	if err != nil {
		api.writeError(w, err)
		return
	}
	data, err := state.MarshalConfiguration(cfg)
	if err != nil {
		api.writeError(w, err)
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

// writeError maps domain errors onto API error codes. Rejected colors are
// also reported to the notifier.
func (api *apiV1) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, editing.ErrInvalidColor):
		go func(message string) {
			if err := api.deps.Notifier.Warn("Color", message); err != nil {
				api.deps.Logger.Errorf("web", "notify: %v", err)
			}
		}(err.Error())
		writeAPIError(w, http.StatusBadRequest, "invalid_color", err.Error())
	case errors.Is(err, errBadBody):
		writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
	case errors.Is(err, editing.ErrOutOfRange):
		writeAPIError(w, http.StatusBadRequest, "out_of_range", err.Error())
	case errors.Is(err, errInvalidStyle):
		writeAPIError(w, http.StatusBadRequest, "invalid_style", err.Error())
	case errors.Is(err, state.ErrEmptySceneName):
		writeAPIError(w, http.StatusBadRequest, "invalid_name", err.Error())
	case errors.Is(err, state.ErrUnknownScene):
		writeAPIError(w, http.StatusNotFound, "scene_not_found", err.Error())
	case errors.Is(err, editing.ErrIndexOutOfRange):
		writeAPIError(w, http.StatusNotFound, "object_not_found", err.Error())
	case errors.Is(err, editing.ErrUnknownKind), errors.Is(err, state.ErrUnknownObjectType):
		writeAPIError(w, http.StatusBadRequest, "invalid_type", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeAPIError(w, http.StatusServiceUnavailable, "unavailable", err.Error())
	default:
		api.deps.Logger.Errorf("web", "request failed: %v", err)
		writeAPIError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func objectIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || index < 0 {
		writeAPIError(w, http.StatusBadRequest, "invalid_index", "object index must be a non-negative integer")
		return 0, false
	}
	return index, true
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, method := range methods {
		if r.Method == method {
			return true
		}
	}
	writeMethodNotAllowed(w)
	return false
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
}

func readBody(r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadBody, err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body too large", errBadBody)
	}
	return data, nil
}

func decodeBody(r *http.Request, v any) error {
	data, err := readBody(r)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

func queryFlag(raw string) bool {
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

func writeImage(w http.ResponseWriter, format render.Format, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
	_, _ = io.WriteString(w, "\n")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
