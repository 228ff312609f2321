package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidParams     = errors.New("invalid game params")
)

type CoordinateError struct {
	Point
	Rows, Cols int
}

// [CoordinateError] implements [error]
func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%s: (%d, %d) outside %dx%d board",
		ErrInvalidCoordinate, e.Row, e.Col, e.Rows, e.Cols)
}

func (e *CoordinateError) Unwrap() error {
	return ErrInvalidCoordinate
}
