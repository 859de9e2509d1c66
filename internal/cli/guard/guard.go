// Package guard gates commands on whether a token is stored.
package guard

import "errors"

var (
	ErrLoginRequired        = errors.New("not authenticated. Please run 'directus-crud login' first")
	ErrAlreadyAuthenticated = errors.New("already logged in. Run 'directus-crud logout' first or pass --force")
)

// Annotation is the cobra annotation key commands use to declare a guard.
const Annotation = "guard"

// Guard kinds accepted in the annotation.
const (
	Auth  = "auth"
	Guest = "guest"
)

// Checker reports token presence.
type Checker interface {
	IsAuthenticated() bool
}

// RequireAuth fails when no token is stored.
func RequireAuth(c Checker) error {
	if !c.IsAuthenticated() {
		return ErrLoginRequired
	}
	return nil
}

// RequireGuest fails when a token is already stored.
func RequireGuest(c Checker) error {
	if c.IsAuthenticated() {
		return ErrAlreadyAuthenticated
	}
	return nil
}

// Check applies the guard named by kind. Unknown or empty kinds pass.
func Check(kind string, c Checker) error {
	switch kind {
	case Auth:
		return RequireAuth(c)
	case Guest:
		return RequireGuest(c)
	default:
		return nil
	}
}
