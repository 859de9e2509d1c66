// Package app builds the object graph one CLI invocation runs on.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/usman766/directus-crud/internal/cli/auth"
	"github.com/usman766/directus-crud/internal/cli/client"
	"github.com/usman766/directus-crud/internal/cli/message"
	"github.com/usman766/directus-crud/internal/cli/session"
	"github.com/usman766/directus-crud/internal/cli/storage"
	"github.com/usman766/directus-crud/internal/config"
)

// App is the per-process context commands receive: configuration, the
// Directus client and the auth session.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Tokens  *auth.TokenStore
	API     *client.Client
	Session *session.Session
	Msg     *message.Printer
	Out     io.Writer
	In      io.Reader

	tokenStore  storage.Storage
	cacheStore  storage.Storage
	unsubscribe func()
}

// Option configures New.
type Option func(*App)

// WithOutput sets where command output and notifications go.
func WithOutput(out io.Writer) Option {
	return func(a *App) { a.Out = out }
}

// WithInput sets where prompts read from.
func WithInput(in io.Reader) Option {
	return func(a *App) { a.In = in }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) { a.Logger = logger }
}

// WithStorage replaces the configured token and user-cache backends.
func WithStorage(tokens, cache storage.Storage) Option {
	return func(a *App) {
		a.tokenStore = tokens
		a.cacheStore = cache
	}
}

// New wires storage, client and session from cfg and restores the cached
// user. Call Close when done.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: zerolog.Nop(),
		Out:    os.Stdout,
		In:     os.Stdin,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.tokenStore == nil || a.cacheStore == nil {
		tokens, cache, err := openStorage(cfg)
		if err != nil {
			return nil, err
		}
		a.tokenStore, a.cacheStore = tokens, cache
	}

	admin := client.AdminIdentity{
		RoleID:   cfg.Directus.AdminRoleID,
		RoleName: cfg.Directus.AdminRoleName,
	}

	a.Msg = message.New(a.Out, cfg.NoColor)
	a.Tokens = auth.NewTokenStore(a.tokenStore)
	a.API = client.New(cfg.Directus.URL, a.Tokens,
		client.WithLogger(a.Logger.With().Str("component", "client").Logger()),
		client.WithAdminIdentity(admin),
		client.WithTimeout(cfg.Directus.Timeout),
	)
	a.Session = session.New(a.API, a.cacheStore,
		session.WithLogger(a.Logger.With().Str("component", "session").Logger()),
		session.WithAdminIdentity(admin),
	)

	a.unsubscribe = a.Session.Subscribe(func(st session.State) {
		a.Logger.Debug().
			Bool("authenticated", st.Authenticated).
			Bool("validated", st.Validated).
			Bool("loading", st.Loading).
			Str("error", st.Error).
			Msg("session changed")
	})
	a.Session.InitializeAuth()

	return a, nil
}

// Close detaches the app from its session.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func openStorage(cfg *config.Config) (storage.Storage, storage.Storage, error) {
	switch cfg.State.TokenStore {
	case config.TokenStoreMemory:
		return storage.NewMemory(), storage.NewMemory(), nil
	case config.TokenStoreNone:
		return storage.Noop{}, storage.Noop{}, nil
	}

	dir := cfg.State.Dir
	if dir == "" {
		var err error
		dir, err = storage.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
	}
	cache := storage.NewFile(dir, cfg.Directus.ProjectID)

	switch cfg.State.TokenStore {
	case config.TokenStoreKeyring:
		return storage.NewKeyring(cfg.Directus.ProjectID), cache, nil
	case config.TokenStoreFile:
		return cache, cache, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store '%s'", cfg.State.TokenStore)
	}
}
