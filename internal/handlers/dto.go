package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper/internal/command"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

// NewGameDTO picks a preset by name, or spells the board out.
type NewGameDTO struct {
	Difficulty string `schema:"difficulty"`
	Rows       int    `schema:"rows"`
	Cols       int    `schema:"cols"`
	MineCount  int    `schema:"mine_count"`
}

var ErrBadNewGame = errors.New("either difficulty or rows, cols and mine_count are required")

func decodeNewGame(src map[string][]string) (mines.GameParams, error) {
	var dto NewGameDTO
	if err := decoder.Decode(&dto, src); err != nil {
		return mines.GameParams{}, err
	}
	if dto.Difficulty != "" {
		return mines.ParseDifficulty(dto.Difficulty)
	}
	if dto.Rows == 0 && dto.Cols == 0 && dto.MineCount == 0 {
		return mines.GameParams{}, ErrBadNewGame
	}
	params := mines.GameParams{Rows: dto.Rows, Cols: dto.Cols, MineCount: dto.MineCount}
	return params, params.Validate()
}

func decodePoint(src map[string][]string) (mines.Point, error) {
	var p mines.Point
	err := decoder.Decode(&p, src)
	return p, err
}

var moveVerbs = map[string]command.Verb{
	"open":  command.Open,
	"flag":  command.Flag,
	"chord": command.Chord,
	"click": command.Click,
}

var ErrBadMove = fmt.Errorf("move must be one of 'open', 'flag', 'chord', 'click'")

func decodeMove(src map[string][]string) (command.Command, error) {
	moves := src["move"]
	if len(moves) == 0 {
		return command.Command{}, ErrBadMove
	}
	verb, ok := moveVerbs[strings.ToLower(moves[0])]
	if !ok {
		return command.Command{}, ErrBadMove
	}
	p, err := decodePoint(src)
	if err != nil {
		return command.Command{}, err
	}
	return command.Command{Verb: verb, Point: p}, nil
}

type NewGameResponse struct {
	Token string `json:"token"`
	session.View
}

type PresetDTO struct {
	Difficulty mines.Difficulty `json:"difficulty"`
	mines.GameParams
}
