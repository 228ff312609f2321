package session

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper/internal/mines"
)

var ErrNotFound = errors.New("session not found")

// Store keeps live sessions in memory. Nothing outlives the process.
type Store struct {
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	rnd      *rand.Rand
}

func NewStore(logger *slog.Logger, rnd *rand.Rand) *Store {
	return &Store{
		logger:   logger,
		sessions: make(map[uuid.UUID]*Session),
		rnd:      rnd,
	}
}

func (st *Store) Create(params mines.GameParams, now time.Time) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	game, err := mines.NewGame(params, st.rnd)
	if err != nil {
		return nil, err
	}
	s := New(game, now)
	st.sessions[s.ID] = s
	return s, nil
}

func (st *Store) Get(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[key]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (st *Store) Delete(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Reap drops sessions idle for longer than ttl and returns how many went.
func (st *Store) Reap(now time.Time, ttl time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for id, s := range st.sessions {
		if now.Sub(s.idleSince()) > ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Run reaps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, every, ttl time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := st.Reap(now, ttl); n > 0 {
				st.logger.Debug("reaped idle sessions",
					slog.Int("count", n), slog.Int("live", st.Len()))
			}
		}
	}
}
