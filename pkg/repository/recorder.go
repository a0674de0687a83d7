// Package repository records finished games. Recording is asynchronous
// and best-effort: a failure here never affects in-memory session state.
package repository

import (
	"context"
	"time"
)

// Result is the final record of a terminated game.
type Result struct {
	GameID        string    `json:"game_id"`
	White         string    `json:"white"`
	Black         string    `json:"black"`
	GameType      string    `json:"game_type"`
	Winner        string    `json:"winner,omitempty"`
	Reason        string    `json:"reason"`
	FinalPosition string    `json:"final_position"`
	FinishedAt    time.Time `json:"finished_at"`
}

// Recorder persists final game results.
type Recorder interface {
	RecordResult(ctx context.Context, res Result) error
}
