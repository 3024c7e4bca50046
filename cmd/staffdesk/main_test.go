package main

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/staffdesk/internal/devserver"
	"github.com/kingrea/staffdesk/internal/session"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// useDevBackend points the CLI at an in-process development backend.
func useDevBackend(t *testing.T) string {
	t.Helper()
	srv, err := devserver.NewServer(devserver.Settings{SigningKey: "cli-test", TokenTTL: time.Hour})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Setenv("STAFFDESK_BASE_URL", ts.URL)
	return ts.URL
}

func TestLoginWhoamiLogout(t *testing.T) {
	baseURL := useDevBackend(t)
	home := t.TempDir()

	out, err := run(t, "--home", home, "login", "--username", "dana", "--password", devserver.SeedPassword)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Dana Whitfield (#1)")

	out, err = run(t, "--home", home, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "dana.whitfield@example.com")
	assert.Contains(t, out, baseURL)

	_, err = run(t, "--home", home, "logout")
	require.NoError(t, err)
	_, err = run(t, "--home", home, "whoami")
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	useDevBackend(t)
	_, err := run(t, "--home", t.TempDir(), "login", "--username", "dana", "--password", "wrong")
	assert.Error(t, err)
}

func TestRootRequiresSession(t *testing.T) {
	_, err := run(t, "--home", t.TempDir())
	assert.ErrorIs(t, err, session.ErrUnauthenticated)
}
