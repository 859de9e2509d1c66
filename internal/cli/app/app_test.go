package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/usman766/directus-crud/internal/cli/session"
	"github.com/usman766/directus-crud/internal/cli/storage"
	"github.com/usman766/directus-crud/internal/config"
)

func testConfig(store, dir string) *config.Config {
	cfg := &config.Config{NoColor: true}
	cfg.Directus.URL = "http://localhost:8055"
	cfg.Directus.ProjectID = "acme"
	cfg.Directus.AdminRoleID = "admin-id"
	cfg.Directus.AdminRoleName = "Administrator"
	cfg.State.TokenStore = store
	cfg.State.Dir = dir
	return cfg
}

func TestNew_FileStoreSharesStateFile(t *testing.T) {
	dir := t.TempDir()
	a, err := New(testConfig(config.TokenStoreFile, dir), WithOutput(&bytes.Buffer{}))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Tokens.SetToken("tok1"))
	assert.True(t, a.API.IsAuthenticated())

	raw, err := storage.NewFile(dir, "acme").GetItem("directus_token")
	require.NoError(t, err)
	assert.Equal(t, "tok1", raw)
}

func TestNew_KeyringStore(t *testing.T) {
	keyring.MockInit()

	a, err := New(testConfig(config.TokenStoreKeyring, t.TempDir()))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Tokens.SetToken("tok1"))
	raw, err := storage.NewKeyring("acme").GetItem("directus_token")
	require.NoError(t, err)
	assert.Equal(t, "tok1", raw)
}

func TestNew_RestoresCachedUser(t *testing.T) {
	tokens, cache := storage.NewMemory(), storage.NewMemory()
	require.NoError(t, cache.SetItem(session.UserKey, `{"id":"u1","email":"a@b.com","role":"admin-id"}`))

	a, err := New(testConfig(config.TokenStoreMemory, ""), WithStorage(tokens, cache))
	require.NoError(t, err)
	defer a.Close()

	st := a.Session.State()
	assert.True(t, st.Authenticated)
	assert.False(t, st.Validated)
	assert.False(t, a.Session.IsAdmin())
	assert.Equal(t, "admin-id", a.API.Admin().RoleID)
}

func TestNew_NoneStoreKeepsNothing(t *testing.T) {
	a, err := New(testConfig(config.TokenStoreNone, ""))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Tokens.SetToken("tok1"))
	assert.False(t, a.API.IsAuthenticated())
	assert.False(t, a.Session.State().Authenticated)
}
