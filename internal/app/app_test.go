package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/mines"
)

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	setTestEnv(t)
	a, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)), opts...)
	require.NoError(t, err)
	return a
}

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DEVELOPMENT", "0")
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("SESSION_REAP_INTERVAL", "10ms")
	t.Setenv("APP_BASE_PATH", "")
}

func TestNewRequiresSecret(t *testing.T) {
	t.Setenv("DEVELOPMENT", "0")
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("JWT_SECRET_FILE", "/nonexistent/secret")
	_, err := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	a := newTestApp(t, WithOrigins("https://mines.example"))
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/game?difficulty=hard", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://mines.example")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "https://mines.example", resp.Header.Get("Access-Control-Allow-Origin"))

	var body struct {
		Token  string `json:"token"`
		GameID string `json:"game_id"`
		Rows   int    `json:"rows"`
		Cols   int    `json:"cols"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, 16, body.Rows)
	assert.Equal(t, 30, body.Cols)
	assert.Equal(t, 1, a.store.Len())
}

func TestHandlerBasePath(t *testing.T) {
	a := newTestApp(t, WithBasePath("/api"))
	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	for path, want := range map[string]int{
		"/api/healthz": http.StatusNoContent,
		"/api/presets": http.StatusOK,
		"/healthz":     http.StatusNotFound,
	} {
		resp, err := srv.Client().Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestNewRoutesEngineLogs(t *testing.T) {
	t.Cleanup(func() { mines.Log = slog.Default() })

	var buf bytes.Buffer
	setTestEnv(t)
	_, err := New(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	require.NoError(t, err)

	game, err := mines.NewGame(mines.Presets[mines.Easy], rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	game.Forfeit()

	assert.Contains(t, buf.String(), `"msg":"game forfeited"`)
	assert.Contains(t, buf.String(), `"component":"mines"`)
}

func TestStartStopsWithContext(t *testing.T) {
	a := newTestApp(t, WithAddr("127.0.0.1:0"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- a.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(20 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
