package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/mines"
)

// Session is one live game. The clock starts with the first opened cell
// and stops when the game ends.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu         sync.Mutex
	game       *mines.GameState
	startedAt  time.Time
	endedAt    time.Time
	lastActive time.Time
}

type View struct {
	GameID    string `json:"game_id"`
	Seed      string `json:"seed"`
	StartedAt *int64 `json:"started_at,omitempty"`
	EndedAt   *int64 `json:"ended_at,omitempty"`
	ElapsedMs int64  `json:"elapsed_ms"`
	mines.Snapshot
}

func New(game *mines.GameState, now time.Time) *Session {
	return &Session{
		ID:         uuid.New(),
		CreatedAt:  now,
		game:       game,
		lastActive: now,
	}
}

// Apply runs cmd against the game and updates the clock.
func (s *Session) Apply(cmd command.Command, now time.Time) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = now
	over := s.game.Over()

	snap, err := cmd.Apply(s.game)
	if err != nil {
		return View{}, err
	}

	if s.startedAt.IsZero() && (s.game.RevealedCount() > 0 || s.game.Over()) {
		s.startedAt = now
	}
	if !over && s.game.Over() {
		s.endedAt = now
	}
	return s.view(snap, now), nil
}

func (s *Session) View(now time.Time) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(s.game.Snapshot(), now)
}

func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Over()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func (s *Session) view(snap mines.Snapshot, now time.Time) View {
	v := View{
		GameID:   s.ID.String(),
		Seed:     s.game.Params().Seed(),
		Snapshot: snap,
	}
	if !s.startedAt.IsZero() {
		started := s.startedAt.UnixMilli()
		v.StartedAt = &started
		end := now
		if !s.endedAt.IsZero() {
			ended := s.endedAt.UnixMilli()
			v.EndedAt = &ended
			end = s.endedAt
		}
		v.ElapsedMs = end.Sub(s.startedAt).Milliseconds()
	}
	return v
}
