package matchmaking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castlegate/arena-server/pkg/game"
)

func TestEnqueueDequeueFIFO(t *testing.T) {
	q := NewQueues()

	q.Enqueue("a", game.Blitz)
	q.Enqueue("b", game.Blitz)
	q.Enqueue("c", game.Blitz)

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.DequeueOldest(game.Blitz)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := q.DequeueOldest(game.Blitz)
	assert.False(t, ok, "queue drained")
}

func TestEnqueueIsIdempotent(t *testing.T) {
	q := NewQueues()

	q.Enqueue("a", game.Blitz)
	q.Enqueue("b", game.Blitz)
	q.Enqueue("a", game.Blitz)

	assert.Equal(t, 2, q.Len(game.Blitz))

	got, _ := q.DequeueOldest(game.Blitz)
	assert.Equal(t, "a", got, "duplicate enqueue keeps original position")
}

func TestQueuesAreIndependentPerCategory(t *testing.T) {
	q := NewQueues()

	q.Enqueue("a", game.Blitz)
	q.Enqueue("a", game.Bullet)

	assert.Equal(t, 1, q.Len(game.Blitz))
	assert.Equal(t, 1, q.Len(game.Bullet))
	assert.Equal(t, 0, q.Len(game.Rapid))
}

func TestRemove(t *testing.T) {
	q := NewQueues()
	q.Enqueue("a", game.Rapid)
	q.Enqueue("b", game.Rapid)

	assert.True(t, q.Remove("a", game.Rapid))
	assert.False(t, q.Remove("a", game.Rapid), "already gone")
	assert.Equal(t, 1, q.Len(game.Rapid))

	got, _ := q.DequeueOldest(game.Rapid)
	assert.Equal(t, "b", got)
}

func TestRemoveAll(t *testing.T) {
	q := NewQueues()
	q.Enqueue("a", game.Blitz)
	q.Enqueue("a", game.Rapid)
	q.Enqueue("b", game.Blitz)

	assert.True(t, q.RemoveAll("a"))
	assert.False(t, q.RemoveAll("a"))

	assert.Equal(t, 1, q.Len(game.Blitz))
	assert.Equal(t, 0, q.Len(game.Rapid))
}
