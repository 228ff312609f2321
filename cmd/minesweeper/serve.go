package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper/internal/app"
	"github.com/vancomm/minesweeper/internal/config"
)

var (
	addr    string
	origins []string
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live games over HTTP and websocket",
		Long: `Serve live games over HTTP and websocket.

Configuration is read from the environment (APP_PORT, DEVELOPMENT,
JWT_SECRET, JWT_SECRET_FILE, JWT_TOKEN_LIFETIME, SESSION_TTL,
SESSION_REAP_INTERVAL, LOG_LEVEL). Flags override the listen address
and the allowed CORS origins.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from APP_PORT)")
	serveCmd.Flags().StringSliceVar(&origins, "origin", nil, "Allowed CORS origin, repeatable (default any)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := config.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var opts []app.Option
	if addr != "" {
		opts = append(opts, app.WithAddr(addr))
	}
	if len(origins) > 0 {
		opts = append(opts, app.WithOrigins(origins...))
	}

	a, err := app.New(logger, opts...)
	if err != nil {
		logger.Error("failed to configure server", slog.Any("error", err))
		return err
	}

	if err := a.Start(ctx); err != nil {
		logger.Error("failed to start server", slog.Any("error", err))
		return err
	}
	return nil
}
