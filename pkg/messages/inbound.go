// Package messages defines the wire format between client and server
package messages

import "encoding/json"

// Inbound event names accepted from clients.
const (
	EventJoinGame     = "join_game"
	EventStopWaiting  = "stop_waiting"
	EventMakeMove     = "make_move"
	EventResignGame   = "resign_game"
	EventRequestBoard = "request_board_state"
)

// InboundMessage is the generic wrapper for messages coming from the client.
// The "event" field tells us the action; "payload" is the data we parse further.
type InboundMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// JoinGamePayload represents the payload for entering matchmaking
type JoinGamePayload struct {
	GameType string `json:"game_type"`
}

// StopWaitingPayload represents the payload for leaving matchmaking.
// An empty GameType means "remove me from every queue".
type StopWaitingPayload struct {
	GameType string `json:"game_type,omitempty"`
}

// MakeMovePayload represents the payload for making a move during a game
type MakeMovePayload struct {
	GameID string `json:"game_id"`
	Move   string `json:"move"`
}

// ResignGamePayload represents the payload for resigning a game
type ResignGamePayload struct {
	GameID string `json:"game_id"`
}

// RequestBoardPayload represents the payload for a board snapshot request
type RequestBoardPayload struct {
	GameID string `json:"game_id"`
}
