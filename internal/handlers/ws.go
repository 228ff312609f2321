package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	if !g.authorized(r, s) {
		sendErrorOrLog(w, g.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		g.logger.Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger := g.logger.With(slog.String("game", s.ID.String()))
	logger.Debug("established ws connection")

	err = g.wsRunGameLoop(r.Context(), logger, conn, s)
	if err != nil && !websocket.IsCloseError(err,
		websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		logger.Warn("abnormal ws break", slog.Any("error", err))
	}
}

// wsRunGameLoop treats every text message as one or more command lines
// and answers each message with the resulting view. A bad line is
// reported back and the rest of its message is skipped.
func (g GameHandler) wsRunGameLoop(
	ctx context.Context, logger *slog.Logger, conn *websocket.Conn, s *session.Session,
) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text only"))
		}

		message := strings.TrimSpace(string(buf))
		logger.Debug(fmt.Sprintf("\t> %s", message))

		var reply any
		view := s.View(g.now())
	LINES:
		for _, line := range command.Lines(message) {
			cmd, err := command.Parse(line)
			if err == nil {
				view, err = s.Apply(cmd, g.now())
			}
			if err != nil {
				reply = wrapError(fmt.Errorf("%q: %w", line, err))
				break LINES
			}
			if view.Status != mines.InProgress {
				break LINES
			}
		}
		if reply == nil {
			reply = view
		}

		if err := conn.WriteJSON(reply); err != nil {
			return fmt.Errorf("unable to write json: %w", err)
		}
		logger.Debug("\t< <game view>")
	}
}
