package mines

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MaxSide bounds both board dimensions so a board always fits in memory
// and row*cols never overflows.
const MaxSide = 1024

type GameParams struct {
	Rows      int `json:"rows"`
	Cols      int `json:"cols"`
	MineCount int `json:"mine_count"`
}

func (p GameParams) Unpack() (rows int, cols int, mineCount int) {
	return p.Rows, p.Cols, p.MineCount
}

func (p GameParams) Size() int {
	return p.Rows * p.Cols
}

func (p GameParams) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d",
			ErrInvalidParams, p.Rows, p.Cols)
	}
	if p.Rows > MaxSide || p.Cols > MaxSide {
		return fmt.Errorf("%w: board must be at most %dx%d, got %dx%d",
			ErrInvalidParams, MaxSide, MaxSide, p.Rows, p.Cols)
	}
	if p.MineCount <= 0 || p.MineCount >= p.Size() {
		return fmt.Errorf("%w: mine count must be in [1, %d), got %d",
			ErrInvalidParams, p.Size(), p.MineCount)
	}
	return nil
}

func (p GameParams) InBounds(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

// Seed renders params as rows:cols:mines.
func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	fields := strings.Split(seed, ":")
	if len(fields) != 3 {
		return nil, fmt.Errorf(
			`invalid game params seed %q: want rows:cols:mines`, seed)
	}
	var nums [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid game params seed %q: %w", seed, err)
		}
		nums[i] = n
	}
	p := &GameParams{Rows: nums[0], Cols: nums[1], MineCount: nums[2]}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var Presets = map[Difficulty]GameParams{
	Easy:   {Rows: 9, Cols: 9, MineCount: 10},
	Medium: {Rows: 16, Cols: 16, MineCount: 40},
	Hard:   {Rows: 16, Cols: 30, MineCount: 99},
}

// Difficulties lists preset names from easiest to hardest.
func Difficulties() []Difficulty {
	ds := make([]Difficulty, 0, len(Presets))
	for d := range Presets {
		ds = append(ds, d)
	}
	slices.SortFunc(ds, func(a, b Difficulty) int {
		return Presets[a].MineCount - Presets[b].MineCount
	})
	return ds
}

func ParseDifficulty(s string) (GameParams, error) {
	p, ok := Presets[Difficulty(strings.ToLower(strings.TrimSpace(s)))]
	if !ok {
		return GameParams{}, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidParams, s)
	}
	return p, nil
}
