package game

import "errors"

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameOver     = errors.New("game is over")
	ErrConflict     = errors.New("game update conflict")
	ErrInvalidInput = errors.New("invalid input")
)
