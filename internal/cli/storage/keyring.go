package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "directus-crud"

// Keyring stores items in the OS keychain/credential manager.
type Keyring struct {
	namespace string
}

// NewKeyring returns a keyring store whose keys are prefixed with namespace,
// usually the Directus project id.
func NewKeyring(namespace string) *Keyring {
	return &Keyring{namespace: namespace}
}

// key returns a unique keychain entry per project
func (k *Keyring) key(name string) string {
	if k.namespace == "" {
		return name
	}
	return fmt.Sprintf("%s-%s", k.namespace, name)
}

func (k *Keyring) GetItem(key string) (string, error) {
	value, err := keyring.Get(keyringService, k.key(key))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return value, nil
}

func (k *Keyring) SetItem(key, value string) error {
	if err := keyring.Set(keyringService, k.key(key), value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *Keyring) RemoveItem(key string) error {
	if err := keyring.Delete(keyringService, k.key(key)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
