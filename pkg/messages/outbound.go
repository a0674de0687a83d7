package messages

import "github.com/castlegate/arena-server/internal/color"

// Outbound event names sent to clients.
const (
	EventConnected  = "connected"
	EventWaiting    = "waiting_for_opponent"
	EventGameFound  = "game_found"
	EventMoveMade   = "move_made"
	EventTimeUpdate = "time_update"
	EventBoardState = "board_state_update"
	EventGameOver   = "game_over"
	EventError      = "error"
)

// OutboundMessage is how we wrap responses before sending
// them to the client
type OutboundMessage struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// ConnectedPayload acknowledges a successfully authenticated connection
type ConnectedPayload struct {
	Identity string `json:"identity"`
}

// OpponentInfo describes the other player of a new game
type OpponentInfo struct {
	Identity string      `json:"identity"`
	Color    color.Color `json:"color"`
}

// GameFoundPayload represents the payload after a successful match
type GameFoundPayload struct {
	GameID   string       `json:"game_id"`
	Color    color.Color  `json:"color"`
	Opponent OpponentInfo `json:"opponent"`
}

// MoveMadePayload represents the payload broadcast after an accepted move
type MoveMadePayload struct {
	Move      string      `json:"move"`
	FEN       string      `json:"fen"`
	WhiteTime int64       `json:"white_time"`
	BlackTime int64       `json:"black_time"`
	Turn      color.Color `json:"turn"`
}

// TimeUpdatePayload carries the periodic clock broadcast
type TimeUpdatePayload struct {
	WhiteTime int64 `json:"white_time"`
	BlackTime int64 `json:"black_time"`
}

// BoardStatePayload represents a point-in-time snapshot of a game
type BoardStatePayload struct {
	FEN       string      `json:"fen"`
	WhiteTime int64       `json:"white_time"`
	BlackTime int64       `json:"black_time"`
	Turn      color.Color `json:"turn"`
}

// GameOverPayload announces a terminated game. Winner is empty on a draw.
type GameOverPayload struct {
	Winner        string `json:"winner,omitempty"`
	Reason        string `json:"reason"`
	FinalPosition string `json:"final_position"`
	GameType      string `json:"game_type"`
}

// ErrorPayload reports a rejected input to the originating connection only
type ErrorPayload struct {
	Message string `json:"message"`
}
