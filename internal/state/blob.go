package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Blob is where the settings bytes live. Read reports fs.ErrNotExist when
// nothing was written yet.
type Blob interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

type FileBlob struct {
	Path string
}

func (blob FileBlob) Read() ([]byte, error) {
	return os.ReadFile(blob.Path)
}

// Write replaces the file through a temp file in the same directory so a
// crash never leaves a truncated settings file behind.
func (blob FileBlob) Write(data []byte) error {
	dir := filepath.Dir(blob.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp settings: %w", err)
	}
	if err := os.Rename(tmpName, blob.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

var ErrBlobUnavailable = errors.New("settings storage unavailable")

// MemoryBlob keeps the settings in memory. FailReads and FailWrites simulate
// broken storage.
type MemoryBlob struct {
	mu         sync.Mutex
	data       []byte
	present    bool
	FailReads  bool
	FailWrites bool
	writes     int
}

func NewMemoryBlob(data []byte) *MemoryBlob {
	blob := &MemoryBlob{}
	if data != nil {
		blob.data = append([]byte(nil), data...)
		blob.present = true
	}
	return blob
}

func (blob *MemoryBlob) Read() ([]byte, error) {
	blob.mu.Lock()
	defer blob.mu.Unlock()
	if blob.FailReads {
		return nil, ErrBlobUnavailable
	}
	if !blob.present {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), blob.data...), nil
}

func (blob *MemoryBlob) Write(data []byte) error {
	blob.mu.Lock()
	defer blob.mu.Unlock()
	if blob.FailWrites {
		return ErrBlobUnavailable
	}
	blob.data = append([]byte(nil), data...)
	blob.present = true
	blob.writes++
	return nil
}

// SetFailWrites toggles write failures while other goroutines may be saving.
func (blob *MemoryBlob) SetFailWrites(fail bool) {
	blob.mu.Lock()
	blob.FailWrites = fail
	blob.mu.Unlock()
}

func (blob *MemoryBlob) Writes() int {
	blob.mu.Lock()
	defer blob.mu.Unlock()
	return blob.writes
}

func (blob *MemoryBlob) Bytes() []byte {
	blob.mu.Lock()
	defer blob.mu.Unlock()
	return append([]byte(nil), blob.data...)
}

// DefaultSettingsPath returns settings.json next to the executable, unless
// CROSSHAIR_SETTINGS names another file.
func DefaultSettingsPath() string {
	if path := os.Getenv("CROSSHAIR_SETTINGS"); path != "" {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return "settings.json"
	}
	return filepath.Join(filepath.Dir(exe), "settings.json")
}
