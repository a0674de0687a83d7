// Package events provides a small in-process pub/sub used to decouple
// session termination from persistence and registry cleanup.
package events

import "sync"

// EventType represents the type of event
type EventType string

// Define event types
const (
	EventGameCreated  EventType = "GAME_CREATED"
	EventGameFinished EventType = "GAME_FINISHED"
)

// GameFinishedPayload describes a terminated game. Winner is empty on a draw.
type GameFinishedPayload struct {
	GameID        string
	White         string
	Black         string
	GameType      string
	Winner        string
	Reason        string
	FinalPosition string
}

// Event represents an event in the system
type Event struct {
	Type    EventType
	GameID  string
	Payload interface{}
}

// Handler is a function that processes events
type Handler func(event Event)

// Publisher is the central event publisher
type Publisher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
}

// NewPublisher creates a new event publisher
func NewPublisher() *Publisher {
	return &Publisher{
		subscribers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (p *Publisher) Subscribe(eventType EventType, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.subscribers[eventType] = append(p.subscribers[eventType], handler)
}

// Publish broadcasts an event to all subscribers. Handlers run
// concurrently; a slow or failing handler never blocks the caller.
func (p *Publisher) Publish(event Event) {
	p.mu.RLock()
	handlers := p.subscribers[event.Type]
	p.mu.RUnlock()

	for _, handler := range handlers {
		go handler(event)
	}
}
