package state

import (
	"errors"
	"io/fs"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptySceneName = errors.New("scene name is empty")
	ErrUnknownScene   = errors.New("unknown scene")
)

type storeLogger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Infof(string, string, ...interface{})  {}
func (noopLogger) Errorf(string, string, ...interface{}) {}

// Store owns the process-wide configuration. Callers only ever see deep
// copies of it.
type Store struct {
	mu     sync.RWMutex
	config Configuration
	blob   Blob
	Logger storeLogger
}

func NewStore(blob Blob) *Store {
	return &Store{config: DefaultConfiguration(), blob: blob, Logger: noopLogger{}}
}

func (store *Store) Snapshot() Configuration {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.config.Clone()
}

// Load replaces the configuration with the stored one. Any read or decode
// failure substitutes the defaults; Load never fails.
func (store *Store) Load() {
	cfg := store.decodeBlob()
	normalize(&cfg)

	store.mu.Lock()
	store.config = cfg
	store.mu.Unlock()
}

func (store *Store) decodeBlob() Configuration {
	if store.blob == nil {
		return DefaultConfiguration()
	}
	data, err := store.blob.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			store.Logger.Infof("store", "no settings yet, using defaults")
		} else {
			store.Logger.Errorf("store", "read settings failed: %v", err)
		}
		return DefaultConfiguration()
	}
	cfg, err := UnmarshalConfiguration(data)
	if err != nil {
		store.Logger.Errorf("store", "settings unreadable, using defaults: %v", err)
		return DefaultConfiguration()
	}
	store.Logger.Infof("store", "loaded %d scenes, active=%q", len(cfg.Scenes), cfg.ActiveScene)
	return cfg
}

// normalize makes ActiveScene resolve: a known active scene is applied to the
// live fields, otherwise Default is synthesized from the live fields if
// missing and marked active. An existing Default is not applied; the live
// fields stay as stored.
func normalize(cfg *Configuration) {
	cfg.CanvasSize = ClampCanvasSize(cfg.CanvasSize)
	if cfg.Scenes == nil {
		cfg.Scenes = map[string]SceneBody{}
	}
	if body, ok := cfg.Scenes[cfg.ActiveScene]; ok && cfg.ActiveScene != "" {
		cfg.Crosshair = body.Crosshair
		return
	}
	if _, ok := cfg.Scenes[DefaultSceneName]; !ok {
		cfg.Scenes[DefaultSceneName] = SceneBody{Crosshair: cfg.Crosshair, Objects: []SceneObject{}}
	}
	cfg.ActiveScene = DefaultSceneName
}

// Save writes the configuration. Failures are logged and dropped; the
// in-memory configuration stays authoritative.
func (store *Store) Save() {
	if store.blob == nil {
		return
	}
	store.mu.RLock()
	data, err := MarshalConfiguration(store.config)
	store.mu.RUnlock()
	if err != nil {
		store.Logger.Errorf("store", "encode settings failed: %v", err)
		return
	}
	if err := store.blob.Write(data); err != nil {
		store.Logger.Errorf("store", "save settings failed: %v", err)
		return
	}
	store.Logger.Infof("store", "settings saved")
}

// ActivateScene copies the named scene's crosshair fields into the live
// configuration. Unknown names are a no-op.
func (store *Store) ActivateScene(name string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.activateLocked(name)
}

func (store *Store) activateLocked(name string) bool {
	body, ok := store.config.Scenes[name]
	if !ok {
		return false
	}
	store.config.Crosshair = body.Crosshair
	store.config.ActiveScene = name
	return true
}

func (store *Store) CurrentObjects() []SceneObject {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return cloneObjects(store.config.Scenes[store.config.ActiveScene].Objects)
}

// SetCurrentObjects replaces the object list of the active scene only.
func (store *Store) SetCurrentObjects(objs []SceneObject) {
	store.mu.Lock()
	defer store.mu.Unlock()
	body := store.config.Scenes[store.config.ActiveScene]
	body.Objects = cloneObjects(objs)
	store.config.Scenes[store.config.ActiveScene] = body
}

func (store *Store) SnapshotAsScene() SceneBody {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.config.LiveScene()
}

// CreateScene stores a new scene built from the live crosshair fields with no
// objects and the base crosshair hidden, and activates it.
func (store *Store) CreateScene(name string) (string, error) {
	name, err := NormalizeSceneName(name)
	if err != nil {
		return "", err
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	store.config.Scenes[name] = SceneBody{
		Crosshair:     store.config.Crosshair,
		Objects:       []SceneObject{},
		HideCrosshair: true,
	}
	store.activateLocked(name)
	return name, nil
}

// SaveSceneAs stores the live scene under name with the given hide flag.
func (store *Store) SaveSceneAs(name string, hideCrosshair bool) (string, error) {
	name, err := NormalizeSceneName(name)
	if err != nil {
		return "", err
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	body := store.config.LiveScene()
	body.HideCrosshair = hideCrosshair
	store.config.Scenes[name] = body
	store.activateLocked(name)
	return name, nil
}

// OverwriteScene stores the live scene under name, keeping the hide flag the
// stored scene already had (false for a new name).
func (store *Store) OverwriteScene(name string) (string, error) {
	name, err := NormalizeSceneName(name)
	if err != nil {
		return "", err
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	body := store.config.LiveScene()
	body.HideCrosshair = store.config.Scenes[name].HideCrosshair
	store.config.Scenes[name] = body
	store.activateLocked(name)
	return name, nil
}

// DeleteScene removes a scene and activates the first remaining one by name.
// The scene set never ends up empty: deleting the last one synthesizes
// Default from the live fields.
func (store *Store) DeleteScene(name string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.config.Scenes[name]; !ok {
		return false
	}
	delete(store.config.Scenes, name)
	if len(store.config.Scenes) == 0 {
		store.config.Scenes[DefaultSceneName] = SceneBody{Crosshair: store.config.Crosshair, Objects: []SceneObject{}}
		store.activateLocked(DefaultSceneName)
		return true
	}
	store.activateLocked(store.config.SceneNames()[0])
	return true
}

func (store *Store) SetHideCrosshair(name string, hide bool) bool {
	store.mu.Lock()
	defer store.mu.Unlock()
	body, ok := store.config.Scenes[name]
	if !ok {
		return false
	}
	body.HideCrosshair = hide
	store.config.Scenes[name] = body
	return true
}

// SetCrosshair edits the live crosshair fields. The active scene keeps its
// stored copy until it is overwritten.
func (store *Store) SetCrosshair(c Crosshair) {
	store.mu.Lock()
	store.config.Crosshair = c
	store.mu.Unlock()
}

// SetCanvasSize stores size clamped to [MinCanvasSize, MaxCanvasSize].
func (store *Store) SetCanvasSize(size int) {
	store.mu.Lock()
	store.config.CanvasSize = ClampCanvasSize(size)
	store.mu.Unlock()
}

func (store *Store) SetVisible(visible bool) {
	store.mu.Lock()
	store.config.Visible = visible
	store.mu.Unlock()
}

func (store *Store) SetAutoApply(autoApply bool) {
	store.mu.Lock()
	store.config.AutoApply = autoApply
	store.mu.Unlock()
}

func (store *Store) SceneNames() []string {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.config.SceneNames()
}

func (store *Store) Scene(name string) (SceneBody, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	body, ok := store.config.Scenes[name]
	if !ok {
		return SceneBody{}, false
	}
	return body.Clone(), true
}

// NormalizeSceneName trims name and puts it in NFC form so visually equal
// names map to one scene.
func NormalizeSceneName(name string) (string, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	if name == "" {
		return "", ErrEmptySceneName
	}
	return name, nil
}
