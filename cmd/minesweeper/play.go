package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper/internal/console"
	"github.com/vancomm/minesweeper/internal/mines"
)

var (
	difficulty string
	board      string
	rows       int
	cols       int
	mineCount  int
	logFile    string
	seed       uint64
	verbose    bool
)

func init() {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Long: `Play in the terminal.

The board is picked from, in order of precedence, --rows/--cols/--mines,
--board ROWS:COLS:MINES and --difficulty.

Examples:
  minesweeper play
  minesweeper play -d hard
  minesweeper play --board 20:20:60 --seed 42
  minesweeper play --rows 5 --cols 5 --mines 3 --log-file mines.log`,
		Args: cobra.NoArgs,
		RunE: runPlay,
	}

	playCmd.Flags().StringVarP(&difficulty, "difficulty", "d", string(mines.Easy), "Preset: easy, medium or hard")
	playCmd.Flags().StringVarP(&board, "board", "b", "", "Board as ROWS:COLS:MINES")
	playCmd.Flags().IntVar(&rows, "rows", 0, "Board rows")
	playCmd.Flags().IntVar(&cols, "cols", 0, "Board columns")
	playCmd.Flags().IntVar(&mineCount, "mines", 0, "Number of mines")
	playCmd.Flags().StringVar(&logFile, "log-file", "", "Write a JSON log to this file (rotated)")
	playCmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed for reproducible boards (default random)")
	playCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every command")
	playCmd.MarkFlagsRequiredTogether("rows", "cols", "mines")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	params, err := resolveParams(cmd)
	if err != nil {
		return err
	}

	level := logrus.InfoLevel
	if verbose {
		level = logrus.DebugLevel
	}
	log, err := console.NewLogger(logFile, level)
	if err != nil {
		return fmt.Errorf("unable to open log file: %w", err)
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	log.WithField("rng_seed", seed).Debug("seeded")
	r := rand.New(rand.NewPCG(seed, seed))

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	c := console.New(cmd.InOrStdin(), cmd.OutOrStdout(), log, func() (*mines.GameState, error) {
		return mines.NewGame(params, r)
	})
	return c.Run(ctx)
}

func resolveParams(cmd *cobra.Command) (mines.GameParams, error) {
	switch {
	case cmd.Flags().Changed("rows"):
		params := mines.GameParams{Rows: rows, Cols: cols, MineCount: mineCount}
		return params, params.Validate()
	case board != "":
		params, err := mines.ParseSeed(board)
		if err != nil {
			return mines.GameParams{}, err
		}
		return *params, nil
	default:
		return mines.ParseDifficulty(difficulty)
	}
}
