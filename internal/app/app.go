package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/middleware"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

type App struct {
	logger   *slog.Logger
	router   *http.ServeMux
	store    *session.Store
	jwt      *config.JWT
	ws       *config.WebSocket
	sessions *config.Sessions
	addr     string
	basePath string
	origins  []string
}

type Option func(*App)

func WithAddr(addr string) Option {
	return func(a *App) { a.addr = addr }
}

// WithBasePath mounts every route under prefix, e.g. "/api".
func WithBasePath(prefix string) Option {
	return func(a *App) { a.basePath = prefix }
}

func WithOrigins(origins ...string) Option {
	return func(a *App) { a.origins = origins }
}

// New reads the environment configuration and wires the game routes.
func New(logger *slog.Logger, opts ...Option) (*App, error) {
	jwt, err := config.NewJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to read jwt config: %w", err)
	}

	ws, err := config.NewWebSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to read ws config: %w", err)
	}

	sessions, err := config.NewSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to read session config: %w", err)
	}

	app := &App{
		logger:   logger,
		router:   http.NewServeMux(),
		store:    session.NewStore(logger, createRand()),
		jwt:      jwt,
		ws:       ws,
		sessions: sessions,
		addr:     config.Port(),
		basePath: config.BasePath(),
	}
	for _, opt := range opts {
		opt(app)
	}

	app.loadRoutes()
	mines.Log = logger.With(slog.String("component", "mines"))

	return app, nil
}

func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if a.basePath != "" {
		mux := http.NewServeMux()
		mux.Handle(a.basePath+"/", http.StripPrefix(a.basePath, a.router))
		h = mux
	}
	return middleware.Wrap(
		h,
		middleware.Auth(a.logger, a.jwt),
		middleware.Cors(a.origins...),
		middleware.Logging(a.logger),
		middleware.Recover(a.logger),
	)
}

// Start serves until ctx is done, reaping idle sessions alongside.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         a.addr,
		Handler:      a.Handler(),
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("server listening",
			slog.String("addr", a.addr), slog.String("base path", a.basePath))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.store.Run(gCtx, a.sessions.ReapInterval, a.sessions.TTL)
	})
	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), time.Second*15)
		defer cancel()
		return server.Shutdown(sCtx)
	})

	return g.Wait()
}
