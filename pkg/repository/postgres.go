package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRecorder writes final results to a finished_games table.
type PostgresRecorder struct {
	db *sql.DB
}

// NewPostgresRecorder opens and pings the database
func NewPostgresRecorder(databaseURL string) (*PostgresRecorder, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return &PostgresRecorder{db: db}, nil
}

// Close releases the connection pool
func (r *PostgresRecorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// RecordResult upserts a final game result. Termination may race a
// duplicate hand-off, so the insert is idempotent on game_id.
func (r *PostgresRecorder) RecordResult(ctx context.Context, res Result) error {
	if r == nil || r.db == nil {
		return nil
	}

	q := `INSERT INTO finished_games (
	    game_id, white_player, black_player, game_type,
	    winner, reason, final_position, finished_at
	  ) VALUES (
	    $1,$2,$3,$4,$5,$6,$7,$8
	  ) ON CONFLICT (game_id) DO UPDATE SET
	    winner=EXCLUDED.winner,
	    reason=EXCLUDED.reason,
	    final_position=EXCLUDED.final_position,
	    finished_at=EXCLUDED.finished_at`

	_, err := r.db.ExecContext(ctx, q,
		res.GameID,
		res.White, res.Black, res.GameType,
		res.Winner, res.Reason, res.FinalPosition,
		res.FinishedAt,
	)
	return err
}
