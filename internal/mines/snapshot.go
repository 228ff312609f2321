package mines

// CellView is what a player may know about one cell. Mine is only set
// for revealed cells or once the game is over; Adjacent only for
// revealed safe cells.
type CellView struct {
	Revealed bool  `json:"revealed"`
	Flagged  bool  `json:"flagged"`
	Mine     *bool `json:"mine,omitempty"`
	Adjacent *int  `json:"adjacent,omitempty"`
	Exploded bool  `json:"exploded,omitempty"`
}

type Snapshot struct {
	Rows           int        `json:"rows"`
	Cols           int        `json:"cols"`
	MineCount      int        `json:"mine_count"`
	Status         Status     `json:"status"`
	RemainingFlags int        `json:"remaining_flags"`
	Cells          []CellView `json:"cells"`
}

func (s *GameState) Snapshot() Snapshot {
	over := s.Over()
	cells := make([]CellView, len(s.cells))
	for i, c := range s.cells {
		v := CellView{Revealed: c.Revealed, Flagged: c.Flagged}
		if c.Revealed || over {
			mine := c.IsMine
			v.Mine = &mine
		}
		if c.Revealed && !c.IsMine {
			adjacent := c.Adjacent
			v.Adjacent = &adjacent
		}
		v.Exploded = i == s.exploded
		cells[i] = v
	}
	return Snapshot{
		Rows:           s.params.Rows,
		Cols:           s.params.Cols,
		MineCount:      s.params.MineCount,
		Status:         s.status,
		RemainingFlags: s.RemainingFlags(),
		Cells:          cells,
	}
}

func (s Snapshot) At(row, col int) CellView {
	return s.Cells[row*s.Cols+col]
}

// Grid folds the snapshot into one CellState per cell.
func (s Snapshot) Grid() Grid {
	g := make(Grid, len(s.Cells))
	for i, v := range s.Cells {
		mine := v.Mine != nil && *v.Mine
		switch {
		case v.Exploded:
			g[i] = ExplodedMine
		case v.Flagged && v.Mine == nil:
			g[i] = Flagged
		case v.Flagged && mine:
			g[i] = CorrectlyFlagged
		case v.Flagged:
			g[i] = FalselyFlagged
		case v.Revealed && mine:
			g[i] = UnflaggedMine
		case v.Revealed && v.Adjacent != nil:
			g[i] = CellState(*v.Adjacent)
		default:
			g[i] = Unknown
		}
	}
	return g
}

func (s Snapshot) String() string {
	return s.Grid().ToString(s.Cols)
}
