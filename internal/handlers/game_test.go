package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type testServer struct {
	*httptest.Server
	store *session.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := session.NewStore(logger, rand.New(rand.NewPCG(1, 2)))
	j, err := config.NewJWTWithSecret([]byte("0123456789abcdef"), time.Hour)
	require.NoError(t, err)
	ws, err := config.NewWebSocket()
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewGameHandler(logger, store, j, ws).Register(mux)
	srv := httptest.NewServer(middleware.Wrap(mux, middleware.Auth(logger, j)))
	t.Cleanup(srv.Close)
	return &testServer{srv, store}
}

func (ts *testServer) do(t *testing.T, method, path, token string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (ts *testServer) newGame(t *testing.T, query string) NewGameResponse {
	t.Helper()
	var created NewGameResponse
	status := ts.do(t, http.MethodPost, "/game?"+query, "", &created)
	require.Equal(t, http.StatusCreated, status)
	return created
}

func TestPresets(t *testing.T) {
	ts := newTestServer(t)

	var presets []PresetDTO
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/presets", "", &presets))
	require.Len(t, presets, 3)
	assert.Equal(t, mines.Easy, presets[0].Difficulty)
	assert.Equal(t, 99, presets[2].MineCount)
}

func TestNewGame(t *testing.T) {
	ts := newTestServer(t)

	t.Run("difficulty", func(t *testing.T) {
		created := ts.newGame(t, "difficulty=medium")
		assert.NotEmpty(t, created.Token)
		assert.NotEmpty(t, created.GameID)
		assert.Equal(t, "16:16:40", created.Seed)
		assert.Equal(t, mines.InProgress, created.Status)
		assert.Equal(t, 40, created.RemainingFlags)
		assert.Len(t, created.Cells, 256)
		for _, c := range created.Cells {
			assert.Nil(t, c.Mine)
		}
	})

	t.Run("explicit size", func(t *testing.T) {
		created := ts.newGame(t, "rows=4&cols=5&mine_count=3")
		assert.Equal(t, 4, created.Rows)
		assert.Equal(t, 5, created.Cols)
		assert.Equal(t, 3, created.MineCount)
	})

	for _, query := range []string{
		"", "difficulty=nightmare", "rows=3&cols=3&mine_count=9", "rows=x",
		"rows=1000000&cols=1000000&mine_count=1",
	} {
		t.Run("bad "+query, func(t *testing.T) {
			var body map[string]string
			status := ts.do(t, http.MethodPost, "/game?"+query, "", &body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestFetch(t *testing.T) {
	ts := newTestServer(t)
	created := ts.newGame(t, "difficulty=easy")

	var view session.View
	status := ts.do(t, http.MethodGet, "/game/"+created.GameID, "", &view)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.GameID, view.GameID)

	assert.Equal(t, http.StatusNotFound,
		ts.do(t, http.MethodGet, "/game/00000000-0000-0000-0000-000000000000", "", nil))
	assert.Equal(t, http.StatusNotFound,
		ts.do(t, http.MethodGet, "/game/42", "", nil))
}

func TestMakeAMove(t *testing.T) {
	ts := newTestServer(t)
	created := ts.newGame(t, "difficulty=easy")
	other := ts.newGame(t, "difficulty=easy")
	path := "/game/" + created.GameID + "/move?"

	t.Run("flag", func(t *testing.T) {
		var view session.View
		status := ts.do(t, http.MethodPost, path+"move=flag&row=0&col=0", created.Token, &view)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, view.At(0, 0).Flagged)
		assert.Equal(t, 9, view.RemainingFlags)
	})

	t.Run("open", func(t *testing.T) {
		var view session.View
		status := ts.do(t, http.MethodPost, path+"move=open&row=8&col=8", created.Token, &view)
		require.Equal(t, http.StatusOK, status)
		assert.True(t, view.At(8, 8).Revealed)
		require.NotNil(t, view.StartedAt)
	})

	t.Run("unauthorized", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized,
			ts.do(t, http.MethodPost, path+"move=flag&row=1&col=1", "", nil))
		assert.Equal(t, http.StatusUnauthorized,
			ts.do(t, http.MethodPost, path+"move=flag&row=1&col=1", other.Token, nil))
	})

	t.Run("bad input", func(t *testing.T) {
		for _, query := range []string{
			"move=dig&row=0&col=0",
			"move=open",
			"move=open&row=9&col=0",
			"move=open&row=-1&col=0",
		} {
			status := ts.do(t, http.MethodPost, path+query, created.Token, nil)
			assert.Equal(t, http.StatusBadRequest, status, query)
		}
	})
}

func TestForfeit(t *testing.T) {
	ts := newTestServer(t)
	created := ts.newGame(t, "difficulty=easy")
	path := "/game/" + created.GameID + "/forfeit"

	assert.Equal(t, http.StatusUnauthorized, ts.do(t, http.MethodPost, path, "", nil))

	var view session.View
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, path, created.Token, &view))
	assert.Equal(t, mines.Lost, view.Status)
	require.NotNil(t, view.EndedAt)

	mineCount := 0
	for _, c := range view.Cells {
		require.NotNil(t, c.Mine)
		if *c.Mine {
			mineCount++
		}
	}
	assert.Equal(t, 10, mineCount)
}

func dialWS(t *testing.T, ts *testServer, gameID, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u, err := url.Parse(ts.URL)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = "/game/" + gameID + "/connect"
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return websocket.DefaultDialer.Dial(u.String(), nil)
}

func TestConnectWS(t *testing.T) {
	ts := newTestServer(t)
	created := ts.newGame(t, "difficulty=easy")

	conn, _, err := dialWS(t, ts, created.GameID, created.Token)
	require.NoError(t, err)
	defer conn.Close()

	t.Run("noop", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("g")))
		var view session.View
		require.NoError(t, conn.ReadJSON(&view))
		assert.Equal(t, created.GameID, view.GameID)
	})

	t.Run("several lines", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("f 0 0\nf 0 1\n")))
		var view session.View
		require.NoError(t, conn.ReadJSON(&view))
		assert.True(t, view.At(0, 0).Flagged)
		assert.True(t, view.At(0, 1).Flagged)
		assert.Equal(t, 8, view.RemainingFlags)
	})

	t.Run("bad line", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("f 0 2\nz\nf 0 3")))
		var reply map[string]any
		require.NoError(t, conn.ReadJSON(&reply))
		assert.Contains(t, reply["error"], "unknown command")

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("g")))
		var view session.View
		require.NoError(t, conn.ReadJSON(&view))
		assert.True(t, view.At(0, 2).Flagged)
		assert.False(t, view.At(0, 3).Flagged)
	})

	t.Run("forfeit", func(t *testing.T) {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("r")))
		var view session.View
		require.NoError(t, conn.ReadJSON(&view))
		assert.Equal(t, mines.Lost, view.Status)
	})

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}

func TestConnectWSUnauthorized(t *testing.T) {
	ts := newTestServer(t)
	created := ts.newGame(t, "difficulty=easy")

	_, resp, err := dialWS(t, ts, created.GameID, "garbage")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = dialWS(t, ts, strings.Repeat("0", 8), created.Token)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
