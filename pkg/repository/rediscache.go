package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// resultTTL keeps recently finished games around for a day.
const resultTTL = 24 * time.Hour

// RedisRecorder caches recently finished games in Redis with a TTL,
// so clients can fetch a result shortly after the session is gone from
// the active registry.
type RedisRecorder struct {
	rdb *redis.Client
}

// NewRedisRecorder connects and pings Redis
func NewRedisRecorder(redisURL string) (*RedisRecorder, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisRecorder{rdb: rdb}, nil
}

// Close releases the client
func (r *RedisRecorder) Close() error {
	if r == nil || r.rdb == nil {
		return nil
	}
	return r.rdb.Close()
}

// RecordResult stores the result under its game id with a TTL
func (r *RedisRecorder) RecordResult(ctx context.Context, res Result) error {
	raw, err := json.Marshal(&res)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, resultKey(res.GameID), raw, resultTTL).Err()
}

// GetResult fetches a cached result; ok is false when none is stored
func (r *RedisRecorder) GetResult(ctx context.Context, gameID string) (Result, bool, error) {
	raw, err := r.rdb.Get(ctx, resultKey(gameID)).Bytes()
	if err == redis.Nil {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, false, err
	}
	return res, true, nil
}

func resultKey(gameID string) string {
	return "arena:result:" + strings.TrimSpace(gameID)
}
