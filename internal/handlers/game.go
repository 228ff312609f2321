package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

var (
	ErrUnauthorized = errors.New("a valid token for this game is required")
	ErrNotFound     = errors.New("game not found")
)

type GameHandler struct {
	logger *slog.Logger
	store  *session.Store
	jwt    *config.JWT
	ws     *config.WebSocket
	now    func() time.Time
}

func NewGameHandler(
	logger *slog.Logger,
	store *session.Store,
	jwt *config.JWT,
	ws *config.WebSocket,
) *GameHandler {
	handler := &GameHandler{
		logger: logger,
		store:  store,
		jwt:    jwt,
		ws:     ws,
		now:    time.Now,
	}
	return handler
}

func (g *GameHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /presets", g.Presets)
	mux.HandleFunc("POST /game", g.NewGame)
	mux.HandleFunc("GET /game/{id}", g.Fetch)
	mux.HandleFunc("POST /game/{id}/move", g.MakeAMove)
	mux.HandleFunc("POST /game/{id}/forfeit", g.Forfeit)
	mux.HandleFunc("GET /game/{id}/connect", g.ConnectWS)
}

func (g GameHandler) Presets(w http.ResponseWriter, r *http.Request) {
	presets := make([]PresetDTO, 0, len(mines.Presets))
	for _, d := range mines.Difficulties() {
		presets = append(presets, PresetDTO{d, mines.Presets[d]})
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, presets)
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	params, err := decodeNewGame(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}

	now := g.now()
	s, err := g.store.Create(params, now)
	if err != nil {
		internalError(w, g.logger, "unable to create a new game", slog.Any("error", err))
		return
	}

	token, err := g.jwt.Sign(config.NewGameClaims(s.ID.String(), now, g.jwt.TokenLifetime()))
	if err != nil {
		g.store.Delete(s.ID)
		internalError(w, g.logger, "unable to sign game token", slog.Any("error", err))
		return
	}

	g.logger.Debug("created game",
		slog.String("id", s.ID.String()), slog.String("seed", params.Seed()))

	sendJSONOrLog(w, g.logger, http.StatusCreated, NewGameResponse{
		Token: token,
		View:  s.View(now),
	})
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, http.StatusOK, s.View(g.now()))
}

func (g GameHandler) MakeAMove(w http.ResponseWriter, r *http.Request) {
	cmd, err := decodeMove(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	g.apply(w, r, cmd)
}

func (g GameHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	g.apply(w, r, command.Command{Verb: command.Forfeit})
}

func (g GameHandler) apply(w http.ResponseWriter, r *http.Request, cmd command.Command) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	if !g.authorized(r, s) {
		sendErrorOrLog(w, g.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	view, err := s.Apply(cmd, g.now())
	if errors.Is(err, mines.ErrInvalidCoordinate) {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		internalError(w, g.logger, "unable to apply move",
			slog.String("command", cmd.String()), slog.Any("error", err))
		return
	}

	sendJSONOrLog(w, g.logger, http.StatusOK, view)
}

func (g GameHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := g.store.Get(r.PathValue("id"))
	if errors.Is(err, session.ErrNotFound) {
		sendErrorOrLog(w, g.logger, http.StatusNotFound, ErrNotFound)
		return nil, false
	}
	if err != nil {
		internalError(w, g.logger, "unable to fetch session", slog.Any("error", err))
		return nil, false
	}
	return s, true
}

func (g GameHandler) authorized(r *http.Request, s *session.Session) bool {
	claims, ok := middleware.GameClaims(r.Context())
	return ok && claims.GameID == s.ID.String()
}
