// Package command parses and runs the line protocol shared by the
// websocket transport and the terminal client.
//
//	g        no-op, returns the current board
//	o r c    reveal
//	f r c    toggle flag
//	c r c    chord
//	k r c    click (chord on a revealed number, reveal otherwise)
//	r        forfeit
package command

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minesweeper/internal/mines"
)

type Verb string

const (
	Noop    Verb = "g"
	Open    Verb = "o"
	Flag    Verb = "f"
	Chord   Verb = "c"
	Click   Verb = "k"
	Forfeit Verb = "r" // =)
)

// Maps known commands to number of arguments
var verbNargs = map[Verb]int{
	Noop:    0,
	Open:    2,
	Flag:    2,
	Chord:   2,
	Click:   2,
	Forfeit: 0,
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgs        = errors.New("invalid arguments")
)

type Command struct {
	Verb  Verb
	Point mines.Point
}

func (c Command) String() string {
	if verbNargs[c.Verb] == 0 {
		return string(c.Verb)
	}
	return fmt.Sprintf("%s %d %d", c.Verb, c.Point.Row, c.Point.Col)
}

func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrUnknownCommand
	}

	verb := Verb(parts[0])
	nargs, ok := verbNargs[verb]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf("%w: %s takes %d arguments, got %d",
			ErrBadArgs, verb, nargs, len(parts)-1)
	}

	cmd := Command{Verb: verb}
	if nargs == 2 {
		row, col, err := parseRowCol(parts[1:])
		if err != nil {
			return Command{}, err
		}
		cmd.Point = mines.Point{Row: row, Col: col}
	}
	return cmd, nil
}

func parseRowCol(args []string) (row int, col int, err error) {
	if row, err = strconv.Atoi(args[0]); err != nil {
		err = fmt.Errorf("%w: row must be an int", ErrBadArgs)
		return
	}
	if col, err = strconv.Atoi(args[1]); err != nil {
		err = fmt.Errorf("%w: col must be an int", ErrBadArgs)
		return
	}
	return
}

// Apply runs the command against g.
func (c Command) Apply(g *mines.GameState) (mines.Snapshot, error) {
	p := c.Point
	switch c.Verb {
	case Noop:
		return g.Snapshot(), nil
	case Open:
		return g.Reveal(p.Row, p.Col)
	case Flag:
		return g.ToggleFlag(p.Row, p.Col)
	case Chord:
		return g.Chord(p.Row, p.Col)
	case Click:
		return g.Click(p.Row, p.Col)
	case Forfeit:
		return g.Forfeit(), nil
	}
	return mines.Snapshot{}, fmt.Errorf("%w %q", ErrUnknownCommand, c.Verb)
}

// Lines splits a message into its non-empty, trimmed lines.
func Lines(message string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, message, found = strings.Cut(message, "\n")
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
