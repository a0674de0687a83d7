package game

import "errors"

// Errors reported back to the acting connection only.
var (
	ErrNotYourTurn = errors.New("Not your turn")
	ErrIllegalMove = errors.New("Illegal move")
	ErrNotInGame   = errors.New("Player is not part of this game")
	ErrGameOver    = errors.New("Game is already over")
)
