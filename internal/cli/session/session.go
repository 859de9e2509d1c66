// Package session holds the authenticated user of the running process and
// keeps it in step with the stored token and with Directus.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/usman766/directus-crud/internal/cli/client"
	"github.com/usman766/directus-crud/internal/cli/storage"
)

// UserKey is the storage key of the cached user copy.
const UserKey = "user_data"

// API is the part of the Directus client the session drives.
type API interface {
	Login(ctx context.Context, creds client.Credentials) (*client.AuthResponse, error)
	Logout() error
	GetCurrentUser(ctx context.Context) (*client.Response[client.AuthUser], error)
	IsAuthenticated() bool
}

// State is a snapshot of the session.
//
// Authenticated is true when User is set. Validated tells whether that user
// was confirmed by Directus in this process or only restored from the cache.
type State struct {
	User          *client.AuthUser
	Authenticated bool
	Loading       bool
	Error         string
	Validated     bool
}

// Session is the auth state of one process. Operations are not serialized:
// concurrent calls race and the last to finish wins.
type Session struct {
	api    API
	cache  storage.Storage
	admin  client.AdminIdentity
	logger zerolog.Logger

	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithAdminIdentity(admin client.AdminIdentity) Option {
	return func(s *Session) { s.admin = admin }
}

// New creates an anonymous session. cache holds the user copy restored by
// InitializeAuth.
func New(api API, cache storage.Storage, opts ...Option) *Session {
	s := &Session{
		api:       api,
		cache:     cache,
		admin:     client.DefaultAdmin,
		logger:    zerolog.Nop(),
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Session) snapshot() State {
	st := s.state
	if st.User != nil {
		user := *st.User
		st.User = &user
	}
	return st
}

// Subscribe registers fn to be called with the new state after every
// change. The returned func removes it.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// update applies mutate under the lock and notifies listeners outside it.
func (s *Session) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	st := s.snapshot()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(st)
	}
}

// Login authenticates, fetches the user and caches a copy of it. The
// failure message is kept on the state and the error returned. Loading is
// reset whatever the outcome.
func (s *Session) Login(ctx context.Context, creds client.Credentials) (*client.AuthUser, error) {
	s.update(func(st *State) {
		st.Loading = true
		st.Error = ""
	})
	defer s.update(func(st *State) { st.Loading = false })

	user, err := s.login(ctx, creds)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "login failed"
		}
		s.update(func(st *State) { st.Error = msg })
		return nil, err
	}

	s.update(func(st *State) {
		st.User = user
		st.Authenticated = true
		st.Validated = true
	})
	s.persist(user)

	u := *user
	return &u, nil
}

func (s *Session) login(ctx context.Context, creds client.Credentials) (*client.AuthUser, error) {
	if _, err := s.api.Login(ctx, creds); err != nil {
		return nil, err
	}
	resp, err := s.api.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	user := resp.Data
	return &user, nil
}

// Logout forgets the token, the user and the cached copy. Memory state is
// always cleared; storage failures are joined into the returned error.
func (s *Session) Logout() error {
	tokenErr := s.api.Logout()

	s.update(func(st *State) {
		*st = State{}
	})

	cacheErr := s.cache.RemoveItem(UserKey)
	if cacheErr != nil {
		cacheErr = fmt.Errorf("failed to clear cached user: %w", cacheErr)
	}
	return errors.Join(tokenErr, cacheErr)
}

// CheckAuth validates the stored token against Directus. Without a token it
// returns false and leaves the state alone. When Directus rejects the token
// the session logs out.
func (s *Session) CheckAuth(ctx context.Context) bool {
	if !s.api.IsAuthenticated() {
		return false
	}

	resp, err := s.api.GetCurrentUser(ctx)
	if err != nil {
		s.logger.Info().Err(err).Msg("stored token rejected, logging out")
		if err := s.Logout(); err != nil {
			s.logger.Warn().Err(err).Msg("logout after rejected token failed")
		}
		return false
	}

	user := resp.Data
	s.update(func(st *State) {
		st.User = &user
		st.Authenticated = true
		st.Validated = true
	})
	s.persist(&user)
	return true
}

// InitializeAuth restores the cached user, if any, without asking Directus.
// The restored state is provisional until CheckAuth. A cache entry that
// does not parse is removed.
func (s *Session) InitializeAuth() {
	raw, err := s.cache.GetItem(UserKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("failed to read cached user")
		}
		return
	}

	var user client.AuthUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt cached user")
		if err := s.cache.RemoveItem(UserKey); err != nil {
			s.logger.Warn().Err(err).Msg("failed to remove corrupt cached user")
		}
		return
	}

	s.update(func(st *State) {
		st.User = &user
		st.Authenticated = true
		st.Validated = false
	})
}

// ClearError resets the last error message.
func (s *Session) ClearError() {
	s.update(func(st *State) { st.Error = "" })
}

// IsAdmin reports whether the user holds the administrator role. A user
// restored from the cache is never admin until CheckAuth has confirmed it.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.Validated || s.state.User == nil {
		return false
	}
	return s.admin.Matches(s.state.User.Role)
}

func (s *Session) persist(user *client.AuthUser) {
	data, err := json.Marshal(user)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode user for cache")
		return
	}
	if err := s.cache.SetItem(UserKey, string(data)); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache user")
	}
}
