package apperror

import "errors"

var (
	ErrOutOfBounds      = errors.New("cell is out of bounds")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidPlayer    = errors.New("invalid player")
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidSnapshot  = errors.New("invalid game snapshot")
)
