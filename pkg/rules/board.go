// Package rules adapts the chess rules engine behind a small surface:
// legality checks, move application and terminal-position queries. The
// coordinator treats it as a black box.
package rules

import (
	"errors"
	"strings"

	nchess "github.com/corentings/chess/v2"

	"github.com/castlegate/arena-server/internal/color"
)

// ErrIllegalMove is returned when a move cannot be played in the current position.
var ErrIllegalMove = errors.New("Illegal move")

// Board wraps a single game position. Moves are in UCI notation (e.g. "e2e4").
// Board itself is not safe for concurrent use; callers serialize access.
type Board struct {
	game *nchess.Game
}

// NewBoard creates a board in the standard starting position
func NewBoard() *Board {
	return &Board{game: nchess.NewGame()}
}

// IsLegal reports whether the move is playable in the current position
func (b *Board) IsLegal(move string) bool {
	move = normalize(move)
	if move == "" {
		return false
	}

	for _, vm := range b.game.ValidMoves() {
		if vm.String() == move {
			return true
		}
	}
	return false
}

// ApplyMove plays the move, mutating the position
func (b *Board) ApplyMove(move string) error {
	move = normalize(move)
	if !b.IsLegal(move) {
		return ErrIllegalMove
	}

	if err := b.game.PushNotationMove(move, nchess.UCINotation{}, nil); err != nil {
		return ErrIllegalMove
	}
	return nil
}

// SideToMove returns the color whose turn it is
func (b *Board) SideToMove() color.Color {
	if b.game.Position().Turn() == nchess.White {
		return color.White
	}
	return color.Black
}

// IsCheckmate reports whether the side to move is checkmated
func (b *Board) IsCheckmate() bool {
	return b.game.Method() == nchess.Checkmate
}

// IsStalemate reports whether the position is a stalemate
func (b *Board) IsStalemate() bool {
	return b.game.Method() == nchess.Stalemate
}

// IsInsufficientMaterial reports whether neither side can mate
func (b *Board) IsInsufficientMaterial() bool {
	return b.game.Method() == nchess.InsufficientMaterial
}

// FEN serializes the current position
func (b *Board) FEN() string {
	return b.game.FEN()
}

func normalize(move string) string {
	return strings.ToLower(strings.TrimSpace(move))
}
