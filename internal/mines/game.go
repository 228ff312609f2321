package mines

import (
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
)

var Log *slog.Logger = slog.Default()

type Point struct {
	Row int `json:"row" schema:"row,required"`
	Col int `json:"col" schema:"col,required"`
}

type Cell struct {
	IsMine   bool
	Adjacent int
	Revealed bool
	Flagged  bool
}

type Status uint8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress":
		*s = InProgress
	case "won":
		*s = Won
	case "lost":
		*s = Lost
	default:
		return fmt.Errorf("unknown game status %q", text)
	}
	return nil
}

// GameState is one game of minesweeper. A new game always gets a new
// GameState; nothing carries over between games.
type GameState struct {
	params        GameParams
	cells         []Cell
	revealedCount int
	flagCount     int
	status        Status
	exploded      int
}

// NewGame places params.MineCount mines uniformly at random. The first
// click is not guaranteed to be safe.
func NewGame(params GameParams, r *rand.Rand) (*GameState, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := newGameState(params)
	s.placeMines(r)
	s.countAdjacent()
	return s, nil
}

// NewGameWithMines builds a board with mines at exactly the given points.
func NewGameWithMines(params GameParams, mines []Point) (*GameState, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := newGameState(params)
	placed := 0
	for _, p := range mines {
		i, err := s.index(p.Row, p.Col)
		if err != nil {
			return nil, err
		}
		if !s.cells[i].IsMine {
			s.cells[i].IsMine = true
			placed++
		}
	}
	if placed != params.MineCount {
		return nil, fmt.Errorf("%w: %d distinct mines given, want %d",
			ErrInvalidParams, placed, params.MineCount)
	}
	s.countAdjacent()
	return s, nil
}

func newGameState(params GameParams) *GameState {
	return &GameState{
		params:   params,
		cells:    make([]Cell, params.Size()),
		status:   InProgress,
		exploded: -1,
	}
}

func (s *GameState) placeMines(r *rand.Rand) {
	placed := 0
	for placed < s.params.MineCount {
		i := r.IntN(s.params.Rows)*s.params.Cols + r.IntN(s.params.Cols)
		if !s.cells[i].IsMine {
			s.cells[i].IsMine = true
			placed++
		}
	}
}

func (s *GameState) countAdjacent() {
	for i := range s.cells {
		if s.cells[i].IsMine {
			continue
		}
		n := 0
		for j := range s.neighbours(i) {
			if s.cells[j].IsMine {
				n++
			}
		}
		s.cells[i].Adjacent = n
	}
}

// neighbours yields the indices of the Moore neighbourhood of cell i,
// clamped at the board edges.
func (s *GameState) neighbours(i int) iter.Seq[int] {
	return func(yield func(int) bool) {
		row, col := i/s.params.Cols, i%s.params.Cols
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				r, c := row+dr, col+dc
				if !s.params.InBounds(r, c) {
					continue
				}
				if !yield(r*s.params.Cols + c) {
					return
				}
			}
		}
	}
}

func (s *GameState) index(row, col int) (int, error) {
	if !s.params.InBounds(row, col) {
		return -1, &CoordinateError{
			Point: Point{row, col},
			Rows:  s.params.Rows, Cols: s.params.Cols,
		}
	}
	return row*s.params.Cols + col, nil
}

func (s *GameState) Params() GameParams { return s.params }

func (s *GameState) Status() Status { return s.status }

func (s *GameState) Over() bool { return s.status != InProgress }

func (s *GameState) RevealedCount() int { return s.revealedCount }

func (s *GameState) FlagCount() int { return s.flagCount }

func (s *GameState) RemainingFlags() int { return s.params.MineCount - s.flagCount }

func (s *GameState) Cell(row, col int) (Cell, error) {
	i, err := s.index(row, col)
	if err != nil {
		return Cell{}, err
	}
	return s.cells[i], nil
}

// Mines returns the positions of all mines in row-major order.
func (s *GameState) Mines() []Point {
	ps := make([]Point, 0, s.params.MineCount)
	for i, c := range s.cells {
		if c.IsMine {
			ps = append(ps, Point{i / s.params.Cols, i % s.params.Cols})
		}
	}
	return ps
}
