package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usman766/directus-crud/internal/cli/auth"
	"github.com/usman766/directus-crud/internal/cli/client"
	"github.com/usman766/directus-crud/internal/cli/storage"
)

// fakeDirectus serves /auth/login and /users/me. meStatus controls /users/me.
type fakeDirectus struct {
	role     string
	meStatus int
}

func (f *fakeDirectus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		if r.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		io.WriteString(w, `{"data":{"access_token":"tok1","refresh_token":"ref1","expires":900000}}`)
	case "/users/me":
		if f.meStatus != 0 && f.meStatus != http.StatusOK {
			w.WriteHeader(f.meStatus)
			io.WriteString(w, `{"errors":[{"message":"Invalid user credentials.","extensions":{"code":"INVALID_CREDENTIALS"}}]}`)
			return
		}
		if r.Header.Get("Authorization") != "Bearer tok1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		role := f.role
		if role == "" {
			role = `"role-user"`
		}
		io.WriteString(w, `{"data":{"id":"u1","email":"a@b.com","first_name":"Ada","role":`+role+`}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

type fixture struct {
	session *Session
	tokens  *auth.TokenStore
	cache   *storage.Memory
	fake    *fakeDirectus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := &fakeDirectus{}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	tokens := auth.NewTokenStore(storage.NewMemory())
	cache := storage.NewMemory()
	api := client.New(server.URL, tokens)
	return &fixture{
		session: New(api, cache),
		tokens:  tokens,
		cache:   cache,
		fake:    fake,
	}
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)

	var loadingSeen bool
	unsubscribe := f.session.Subscribe(func(st State) {
		if st.Loading {
			loadingSeen = true
		}
	})
	defer unsubscribe()

	user, err := f.session.Login(context.Background(), client.Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.True(t, loadingSeen)

	st := f.session.State()
	assert.True(t, st.Authenticated)
	assert.True(t, st.Validated)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	require.NotNil(t, st.User)
	assert.Equal(t, "a@b.com", st.User.Email)

	token, err := f.tokens.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "tok1", token)

	cached, err := f.cache.GetItem(UserKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","email":"a@b.com","first_name":"Ada","role":"role-user"}`, cached)
}

func TestLogin_FailureKeepsMessage(t *testing.T) {
	f := newFixture(t)
	f.fake.meStatus = http.StatusUnauthorized

	_, err := f.session.Login(context.Background(), client.Credentials{Email: "a@b.com", Password: "x"})
	require.Error(t, err)

	st := f.session.State()
	assert.Equal(t, "Invalid user credentials.", st.Error)
	assert.False(t, st.Loading)
	assert.False(t, st.Authenticated)
	assert.Nil(t, st.User)

	f.session.ClearError()
	assert.Empty(t, f.session.State().Error)
}

func TestLogout_ClearsEverything(t *testing.T) {
	f := newFixture(t)
	_, err := f.session.Login(context.Background(), client.Credentials{Email: "a@b.com", Password: "x"})
	require.NoError(t, err)

	require.NoError(t, f.session.Logout())

	assert.Equal(t, State{}, f.session.State())
	token, _ := f.tokens.GetToken()
	assert.Empty(t, token)
	_, err = f.cache.GetItem(UserKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCheckAuth_NoTokenLeavesStateAlone(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.SetItem(UserKey, `{"id":"u1","email":"a@b.com","role":"role-user"}`))
	f.session.InitializeAuth()
	before := f.session.State()

	assert.False(t, f.session.CheckAuth(context.Background()))
	assert.Equal(t, before, f.session.State())
}

func TestCheckAuth_ValidToken(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.SetToken("tok1"))

	assert.True(t, f.session.CheckAuth(context.Background()))
	st := f.session.State()
	assert.True(t, st.Authenticated)
	assert.True(t, st.Validated)
	assert.Equal(t, "u1", st.User.ID)
}

func TestCheckAuth_InvalidTokenSelfHeals(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tokens.SetToken("expired"))
	require.NoError(t, f.cache.SetItem(UserKey, `{"id":"u1","email":"a@b.com","role":"role-user"}`))
	f.session.InitializeAuth()
	require.True(t, f.session.State().Authenticated)

	assert.False(t, f.session.CheckAuth(context.Background()))

	assert.Equal(t, State{}, f.session.State())
	token, _ := f.tokens.GetToken()
	assert.Empty(t, token)
	_, err := f.cache.GetItem(UserKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInitializeAuth_RestoresProvisionally(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.SetItem(UserKey, `{"id":"u1","email":"a@b.com","role":{"id":"3e935259-a0ca-416f-9807-4d11d6ff8466","name":"Administrator"}}`))

	f.session.InitializeAuth()

	st := f.session.State()
	assert.True(t, st.Authenticated)
	assert.False(t, st.Validated)
	require.NotNil(t, st.User)
	assert.Equal(t, "u1", st.User.ID)

	// A cached admin role grants nothing before validation
	assert.False(t, f.session.IsAdmin())
}

func TestInitializeAuth_CorruptCache(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.SetItem(UserKey, `{"id":`))

	f.session.InitializeAuth()

	assert.Equal(t, State{}, f.session.State())
	_, err := f.cache.GetItem(UserKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestInitializeAuth_EmptyCache(t *testing.T) {
	f := newFixture(t)
	f.session.InitializeAuth()
	assert.Equal(t, State{}, f.session.State())
}

func TestIsAdmin_AfterValidation(t *testing.T) {
	tests := []struct {
		name string
		role string
		want bool
	}{
		{name: "admin role id", role: `"3e935259-a0ca-416f-9807-4d11d6ff8466"`, want: true},
		{name: "admin role object", role: `{"id":"x","name":"Administrator"}`, want: true},
		{name: "regular role", role: `{"id":"x","name":"Editor"}`, want: false},
		{name: "no role", role: `null`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.fake.role = tt.role
			require.NoError(t, f.tokens.SetToken("tok1"))

			require.True(t, f.session.CheckAuth(context.Background()))
			assert.Equal(t, tt.want, f.session.IsAdmin())
		})
	}
}

// stubAPI lets tests control each step of a login
type stubAPI struct {
	loginErr  error
	meErr     error
	logoutErr error
	hasToken  bool
}

func (s *stubAPI) Login(context.Context, client.Credentials) (*client.AuthResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.hasToken = true
	return &client.AuthResponse{}, nil
}

func (s *stubAPI) Logout() error {
	s.hasToken = false
	return s.logoutErr
}

func (s *stubAPI) GetCurrentUser(context.Context) (*client.Response[client.AuthUser], error) {
	if s.meErr != nil {
		return nil, s.meErr
	}
	return &client.Response[client.AuthUser]{Data: client.AuthUser{ID: "u1"}}, nil
}

func (s *stubAPI) IsAuthenticated() bool { return s.hasToken }

func TestLogin_LoginStepFailure(t *testing.T) {
	boom := errors.New("connection refused")
	s := New(&stubAPI{loginErr: boom}, storage.NewMemory())

	_, err := s.Login(context.Background(), client.Credentials{Email: "a@b.com", Password: "x"})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "connection refused", s.State().Error)
	assert.False(t, s.State().Loading)
}

func TestLogout_ReportsStorageFailure(t *testing.T) {
	boom := errors.New("keychain locked")
	api := &stubAPI{hasToken: true, logoutErr: boom}
	s := New(api, storage.NewMemory())
	require.True(t, s.CheckAuth(context.Background()))

	err := s.Logout()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, State{}, s.State())
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := New(&stubAPI{}, storage.NewMemory())

	var calls int
	unsubscribe := s.Subscribe(func(State) { calls++ })
	s.ClearError()
	unsubscribe()
	s.ClearError()

	assert.Equal(t, 1, calls)
}
