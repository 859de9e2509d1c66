package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usman766/directus-crud/internal/cli/guard"
)

// setupEnv points the CLI at server with in-memory state, from an empty directory
func setupEnv(t *testing.T, server *httptest.Server) {
	t.Helper()
	t.Setenv("DIRECTUS_URL", server.URL)
	t.Setenv("DIRECTUS_TOKEN_STORE", "memory")
	t.Setenv("LOG_LEVEL", "off")
	t.Setenv("NO_COLOR", "true")

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "directus-crud version dev\n", out)
}

func TestRoot_ProtectedCommandNeedsLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s", r.URL.Path)
	}))
	defer server.Close()
	setupEnv(t, server)

	for _, args := range [][]string{
		{"profiles", "ls"},
		{"profiles", "get", "1"},
		{"upload", "file.txt"},
		{"whoami"},
		{"admin"},
	} {
		_, err := execute(t, args...)
		assert.ErrorIs(t, err, guard.ErrLoginRequired, args)
	}
}

func TestRoot_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			io.WriteString(w, `{"data":{"access_token":"tok1"}}`)
		case "/users/me":
			assert.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
			io.WriteString(w, `{"data":{"id":"u1","email":"a@b.com","role":"Administrator"}}`)
		}
	}))
	defer server.Close()
	setupEnv(t, server)

	out, err := execute(t, "login", "--email", "a@b.com", "--password", "x")
	require.NoError(t, err)
	assert.Contains(t, out, "Login successful!")
	assert.Contains(t, out, "Role: Admin")
}

func TestRoot_FlagsOverrideEnvironment(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	setupEnv(t, server)
	t.Setenv("DIRECTUS_URL", "http://unused.invalid")

	out, err := execute(t, "status", "--url", server.URL, "--project", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, "Directus: "+server.URL)
	assert.Contains(t, out, "Project:  acme")
}

func TestRoot_InvalidConfig(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()
	setupEnv(t, server)
	t.Setenv("DIRECTUS_TOKEN_STORE", "cookie")

	_, err := execute(t, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DIRECTUS_TOKEN_STORE")
}

func TestReportError(t *testing.T) {
	var out bytes.Buffer
	reportError(&out, true, guard.ErrLoginRequired)
	assert.Equal(t, "✗ Error: "+guard.ErrLoginRequired.Error()+"\n", out.String())
}
