package history

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// KV is the local key-value store sessions are persisted to
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid key: %q", key)
	}
	return nil
}

// FileKV stores each key as a JSON file in a directory
type FileKV struct {
	dir string
	mu  sync.RWMutex
}

// NewFileKV creates a file-backed store rooted at dir
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

// Dir returns the directory backing the store
func (f *FileKV) Dir() string {
	return f.dir
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get reads the file for key
func (f *FileKV) Get(key string) ([]byte, bool, error) {
	if err := checkKey(key); err != nil {
		return nil, false, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes the value through a temp file and rename, so a failed write
// leaves the previous value in place.
func (f *FileKV) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, f.path(key)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key; deleting an absent key is not an error
func (f *FileKV) Delete(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Close is a no-op for files
func (f *FileKV) Close() error {
	return nil
}

// MemoryKV is an in-process KV, used by tests and the mock provider
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
