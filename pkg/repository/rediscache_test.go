package repository

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisRecorder(t *testing.T) *RedisRecorder {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	r, err := NewRedisRecorder("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRedisRecordAndGet(t *testing.T) {
	r := newTestRedisRecorder(t)
	ctx := context.Background()

	res := Result{
		GameID:        "g1",
		White:         "a@test",
		Black:         "b@test",
		GameType:      "Rapid",
		Reason:        "stalemate",
		FinalPosition: "8/8/8/8/8/8/8/8 w - - 0 1",
		FinishedAt:    time.Now().UTC(),
	}
	require.NoError(t, r.RecordResult(ctx, res))

	got, ok, err := r.GetResult(ctx, "g1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, res.GameID, got.GameID)
	assert.Equal(t, res.Reason, got.Reason)
	assert.Empty(t, got.Winner, "draw has no winner")
}

func TestRedisGetMissing(t *testing.T) {
	r := newTestRedisRecorder(t)

	_, ok, err := r.GetResult(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRecorderRequiresURL(t *testing.T) {
	_, err := NewRedisRecorder("")
	assert.Error(t, err)
}
