// Package matchmaking holds the per-category FIFO waiting lists.
package matchmaking

import (
	"sync"

	"github.com/castlegate/arena-server/pkg/game"
)

// Queues keeps one arrival-ordered waiting list per category. An
// identity appears at most once within a category's queue. All
// operations are safe for concurrent use.
type Queues struct {
	mu      sync.Mutex
	waiting map[game.Category][]string
}

// NewQueues creates empty queues for every supported category
func NewQueues() *Queues {
	waiting := make(map[game.Category][]string)
	for _, c := range game.Categories() {
		waiting[c] = nil
	}
	return &Queues{waiting: waiting}
}

// Enqueue appends the identity to the category's queue. Already-queued
// identities are left where they are (idempotent no-op).
func (q *Queues) Enqueue(identity string, category game.Category) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, waiting := range q.waiting[category] {
		if waiting == identity {
			return
		}
	}
	q.waiting[category] = append(q.waiting[category], identity)
}

// DequeueOldest removes and returns the earliest-enqueued identity,
// or false when the queue is empty.
func (q *Queues) DequeueOldest(category game.Category) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	list := q.waiting[category]
	if len(list) == 0 {
		return "", false
	}
	q.waiting[category] = list[1:]
	return list[0], true
}

// Remove takes the identity out of the category's queue. Reports
// whether it was present.
func (q *Queues) Remove(identity string, category game.Category) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.removeLocked(identity, category)
}

// RemoveAll takes the identity out of every queue. Reports whether it
// was present in any of them.
func (q *Queues) RemoveAll(identity string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := false
	for category := range q.waiting {
		if q.removeLocked(identity, category) {
			removed = true
		}
	}
	return removed
}

func (q *Queues) removeLocked(identity string, category game.Category) bool {
	list := q.waiting[category]
	for i, waiting := range list {
		if waiting == identity {
			q.waiting[category] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of identities waiting in a category
func (q *Queues) Len(category game.Category) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting[category])
}
