package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	stateDirName  = "directus-crud"
	stateFileName = "state.json"
)

// DefaultDir returns ~/.config/directus-crud
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", stateDirName), nil
}

// File keeps items as a flat JSON object in a single file. Items are
// namespaced so several projects can share one state file.
type File struct {
	mu        sync.Mutex
	path      string
	namespace string
}

// NewFile returns a file store at dir/state.json.
func NewFile(dir, namespace string) *File {
	return &File{
		path:      filepath.Join(dir, stateFileName),
		namespace: namespace,
	}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) key(name string) string {
	if f.namespace == "" {
		return name
	}
	return f.namespace + "/" + name
}

func (f *File) GetItem(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return "", err
	}
	value, ok := items[f.key(key)]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *File) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return err
	}
	items[f.key(key)] = value
	return f.save(items)
}

func (f *File) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := items[f.key(key)]; !ok {
		return nil
	}
	delete(items, f.key(key))
	return f.save(items)
}

func (f *File) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	items := map[string]string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	return items, nil
}

func (f *File) save(items map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Holds a bearer token, keep it private
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
