package game

import (
	"github.com/castlegate/arena-server/internal/color"
	"github.com/castlegate/arena-server/pkg/messages"
)

// Board is the rules-engine surface a session needs. The concrete
// implementation lives in pkg/rules; sessions never reach past it.
type Board interface {
	IsLegal(move string) bool
	ApplyMove(move string) error
	SideToMove() color.Color
	IsCheckmate() bool
	IsStalemate() bool
	IsInsufficientMaterial() bool
	FEN() string
}

// Notifier delivers an outbound message to a player's current live
// connection, if any. Delivery is best-effort; a player without a
// connection is skipped, not an error.
type Notifier interface {
	Notify(identity string, msg messages.OutboundMessage)
}
