package commands

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/usman766/directus-crud/internal/cli/app"
	"github.com/usman766/directus-crud/internal/cli/storage"
	"github.com/usman766/directus-crud/internal/config"
)

// testEnv is an App wired to a fake Directus server
type testEnv struct {
	app    *app.App
	out    *bytes.Buffer
	tokens *storage.Memory
	cache  *storage.Memory
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{NoColor: true}
	cfg.Directus.URL = server.URL
	cfg.Directus.ProjectID = "acme"
	cfg.Directus.AdminRoleID = "admin-role"
	cfg.Directus.AdminRoleName = "Administrator"
	cfg.State.TokenStore = config.TokenStoreMemory

	env := &testEnv{
		out:    &bytes.Buffer{},
		tokens: storage.NewMemory(),
		cache:  storage.NewMemory(),
	}
	a, err := app.New(cfg, app.WithOutput(env.out), app.WithStorage(env.tokens, env.cache))
	require.NoError(t, err)
	t.Cleanup(a.Close)
	env.app = a
	return env
}

func (e *testEnv) login(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, e.app.Tokens.SetToken(token))
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

