package mines

import (
	"strconv"
	"strings"
)

// CellState is the compact, player-visible rendering of one cell.
type CellState int8

const (
	Unknown          CellState = -2
	Flagged          CellState = -1
	CorrectlyFlagged CellState = 64
	ExplodedMine     CellState = 65
	FalselyFlagged   CellState = 66
	UnflaggedMine    CellState = 67
	/*
	 * 0 to 8 mean the cell is open and carry its adjacent mine count.
	 * The values from 64 up only appear once the game is over.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Unknown:
		return "."
	case s == Flagged, s == CorrectlyFlagged:
		return "*"
	case s == ExplodedMine:
		return "!"
	case s == FalselyFlagged:
		return "x"
	case s == UnflaggedMine:
		return "m"
	case s == 0:
		return " "
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "?"
	}
}

type Grid []CellState

func (g Grid) ToString(cols int) string {
	var b strings.Builder
	b.WriteString("   ")
	for c := range cols {
		b.WriteString(strconv.Itoa(c % 10))
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	for r := range len(g) / cols {
		if r < 10 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(r))
		b.WriteByte(' ')
		for c := range cols {
			b.WriteString(g[r*cols+c].String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
