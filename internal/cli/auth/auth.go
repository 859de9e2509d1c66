package auth

import (
	"errors"
	"fmt"

	"github.com/usman766/directus-crud/internal/cli/storage"
)

// TokenKey is the storage key the bearer token lives under.
const TokenKey = "directus_token"

// TokenStore persists the Directus bearer token. It never validates the
// token's format or expiry.
type TokenStore struct {
	store storage.Storage
}

// NewTokenStore creates a token store over the given storage backend.
func NewTokenStore(store storage.Storage) *TokenStore {
	return &TokenStore{store: store}
}

// GetToken returns the stored token, or "" when none is stored.
func (t *TokenStore) GetToken() (string, error) {
	token, err := t.store.GetItem(TokenKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// SetToken persists the token, replacing any previous one.
func (t *TokenStore) SetToken(token string) error {
	if err := t.store.SetItem(TokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// RemoveToken deletes the stored token. Removing an absent token is a no-op.
func (t *TokenStore) RemoveToken() error {
	if err := t.store.RemoveItem(TokenKey); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
