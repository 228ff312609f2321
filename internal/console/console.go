// Package console plays minesweeper on a terminal, speaking the same
// line commands as the websocket transport.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

const help = `commands:
  o ROW COL   reveal
  f ROW COL   flag / unflag
  c ROW COL   chord
  k ROW COL   click (chord a revealed number, reveal anything else)
  r           give up
  n           new game
  h           this help
  q           quit
`

type Console struct {
	in      *bufio.Scanner
	out     io.Writer
	log     *logrus.Logger
	newGame func() (*mines.GameState, error)
	now     func() time.Time

	session *session.Session
	status  mines.Status
}

func New(
	in io.Reader, out io.Writer, log *logrus.Logger,
	newGame func() (*mines.GameState, error),
) *Console {
	return &Console{
		in:      bufio.NewScanner(in),
		out:     out,
		log:     log,
		newGame: newGame,
		now:     time.Now,
	}
}

// Run plays until q, end of input or ctx is done. A cancelled ctx ends
// the loop even while it waits for a line.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.reset(); err != nil {
		return err
	}
	fmt.Fprint(c.out, help)
	c.render(c.session.View(c.now()))

	var scanErr error
	lines := make(chan string)
	go func() {
		defer close(lines)
		for c.in.Scan() {
			select {
			case lines <- c.in.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr = c.in.Err()
	}()

	for c.prompt() {
		var line string
		select {
		case <-ctx.Done():
		case l, ok := <-lines:
			if !ok {
				return scanErr
			}
			line = l
		}
		if ctx.Err() != nil {
			c.log.Info("interrupted")
			return nil
		}

		quit, err := c.handle(strings.TrimSpace(line))
		if quit || err != nil {
			return err
		}
	}
	return nil
}

func (c *Console) handle(line string) (quit bool, err error) {
	switch line {
	case "":
		return false, nil
	case "q":
		c.log.Info("quit")
		return true, nil
	case "h", "?":
		fmt.Fprint(c.out, help)
		return false, nil
	case "n":
		if err := c.reset(); err != nil {
			return true, err
		}
		c.render(c.session.View(c.now()))
		return false, nil
	}

	cmd, err := command.Parse(line)
	if err != nil {
		fmt.Fprintf(c.out, "error: %s (h for help)\n", err)
		return false, nil
	}

	view, err := c.session.Apply(cmd, c.now())
	if errors.Is(err, mines.ErrInvalidCoordinate) {
		fmt.Fprintf(c.out, "error: %s\n", err)
		return false, nil
	}
	if err != nil {
		return true, err
	}

	c.log.WithFields(logrus.Fields{
		"command": cmd.String(),
		"status":  view.Status.String(),
	}).Debug("applied command")

	c.render(view)
	return false, nil
}

func (c *Console) reset() error {
	game, err := c.newGame()
	if err != nil {
		return fmt.Errorf("unable to start a game: %w", err)
	}
	c.session = session.New(game, c.now())
	c.status = mines.InProgress
	c.log.WithFields(logrus.Fields{
		"game": c.session.ID.String(),
		"seed": game.Params().Seed(),
	}).Info("new game")
	return nil
}

func (c *Console) prompt() bool {
	_, err := fmt.Fprint(c.out, "> ")
	return err == nil
}

func (c *Console) render(v session.View) {
	fmt.Fprint(c.out, v.Snapshot.String())
	fmt.Fprintf(c.out, "flags left: %d   time: %ds\n",
		v.RemainingFlags, v.ElapsedMs/1000)

	switch v.Status {
	case mines.Won:
		fmt.Fprintln(c.out, "You win! (n for a new game, q to quit)")
	case mines.Lost:
		fmt.Fprintln(c.out, "Game over! (n for a new game, q to quit)")
	}

	if v.Status != c.status {
		c.log.WithField("elapsed_ms", v.ElapsedMs).Info("game " + v.Status.String())
		c.status = v.Status
	}
}
