package mines

import "log/slog"

// Reveal opens the cell at (row, col). Revealing an already revealed or
// flagged cell, or any cell after the game is over, changes nothing.
func (s *GameState) Reveal(row, col int) (Snapshot, error) {
	i, err := s.index(row, col)
	if err != nil {
		return Snapshot{}, err
	}
	s.open(i)
	return s.Snapshot(), nil
}

func (s *GameState) ToggleFlag(row, col int) (Snapshot, error) {
	i, err := s.index(row, col)
	if err != nil {
		return Snapshot{}, err
	}
	c := &s.cells[i]
	if s.Over() || c.Revealed {
		return s.Snapshot(), nil
	}
	c.Flagged = !c.Flagged
	if c.Flagged {
		s.flagCount++
	} else {
		s.flagCount--
	}
	return s.Snapshot(), nil
}

// Chord opens every unflagged neighbour of a revealed number once the
// number of flags around it matches. A misplaced flag loses the game.
func (s *GameState) Chord(row, col int) (Snapshot, error) {
	i, err := s.index(row, col)
	if err != nil {
		return Snapshot{}, err
	}
	s.chord(i)
	return s.Snapshot(), nil
}

// Click is the primary-button action: chord on a revealed number,
// reveal anywhere else.
func (s *GameState) Click(row, col int) (Snapshot, error) {
	i, err := s.index(row, col)
	if err != nil {
		return Snapshot{}, err
	}
	if c := s.cells[i]; c.Revealed && c.Adjacent > 0 {
		s.chord(i)
	} else {
		s.open(i)
	}
	return s.Snapshot(), nil
}

// Forfeit ends a running game as lost and uncovers the board.
func (s *GameState) Forfeit() Snapshot {
	if !s.Over() {
		s.status = Lost
		s.uncover()
		Log.Debug("game forfeited", slog.Int("revealed", s.revealedCount))
	}
	return s.Snapshot()
}

func (s *GameState) chord(i int) {
	c := s.cells[i]
	if s.Over() || !c.Revealed || c.Adjacent == 0 {
		return
	}
	flags := 0
	todo := make([]int, 0, 8)
	for j := range s.neighbours(i) {
		if s.cells[j].Flagged {
			flags++
		} else if !s.cells[j].Revealed {
			todo = append(todo, j)
		}
	}
	if flags != c.Adjacent {
		return
	}
	for _, j := range todo {
		s.open(j)
	}
}

func (s *GameState) open(i int) {
	c := &s.cells[i]
	if s.Over() || c.Revealed || c.Flagged {
		return
	}

	if c.IsMine {
		c.Revealed = true
		s.exploded = i
		s.status = Lost
		s.uncover()
		Log.Debug("game lost",
			slog.Int("row", i/s.params.Cols), slog.Int("col", i%s.params.Cols))
		return
	}

	/*
	 * Flood fill. A cell is marked revealed before it goes on the stack,
	 * so no cell is pushed twice and the loop ends after at most
	 * rows*cols pops.
	 */
	var std celltodo
	s.reveal(i)
	std.add(i)
	for {
		j, ok := std.pop()
		if !ok {
			break
		}
		if s.cells[j].Adjacent != 0 {
			continue
		}
		for k := range s.neighbours(j) {
			n := &s.cells[k]
			if n.Revealed || n.Flagged {
				continue
			}
			s.reveal(k)
			std.add(k)
		}
	}

	if s.revealedCount == s.params.Size()-s.params.MineCount {
		s.status = Won
		Log.Debug("game won", slog.String("seed", s.params.Seed()))
	}
}

func (s *GameState) reveal(i int) {
	s.cells[i].Revealed = true
	s.revealedCount++
}

// uncover shows every unflagged cell once the game is lost. Nothing
// flood fills from here and revealedCount is left alone; flags stay put
// so correct and false flags remain distinguishable.
func (s *GameState) uncover() {
	for i := range s.cells {
		c := &s.cells[i]
		if !c.Flagged {
			c.Revealed = true
		}
	}
}
