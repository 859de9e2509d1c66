// Package storage provides the persistent client-side key/value stores the
// CLI keeps its bearer token and cached user in.
package storage

import "errors"

// ErrNotFound is returned by GetItem when the key has no value.
var ErrNotFound = errors.New("storage: item not found")

// Storage is a string key/value store that survives process restarts.
// RemoveItem on a missing key is not an error.
type Storage interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Noop is the storage used outside a client context: reads are always
// absent and writes are discarded.
type Noop struct{}

func (Noop) GetItem(string) (string, error) { return "", ErrNotFound }
func (Noop) SetItem(string, string) error   { return nil }
func (Noop) RemoveItem(string) error        { return nil }
