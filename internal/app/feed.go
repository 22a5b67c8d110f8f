package app

import (
	"log/slog"
	"sync"

	"undercover/internal/domain"
)

// Subscriber receives events for the lobby it subscribed to
type Subscriber interface {
	Send(event *domain.LobbyEvent) error
	ID() string
}

// Feed fans committed lobby changes out to subscribers. Publishing never
// blocks the lifecycle operation that produced the event.
type Feed struct {
	subs   map[string]map[string]Subscriber // code -> subscriber ID -> subscriber
	mu     sync.RWMutex
	logger *slog.Logger

	events chan *domain.LobbyEvent
	done   chan struct{}
	once   sync.Once
}

// NewFeed creates a feed and starts its broadcaster
func NewFeed(logger *slog.Logger) *Feed {
	f := &Feed{
		subs:   make(map[string]map[string]Subscriber),
		logger: logger,
		events: make(chan *domain.LobbyEvent, 256),
		done:   make(chan struct{}),
	}

	go f.eventLoop()

	return f
}

// Subscribe registers sub for events of the lobby with the given code
func (f *Feed) Subscribe(code string, sub Subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.subs[code] == nil {
		f.subs[code] = make(map[string]Subscriber)
	}
	f.subs[code][sub.ID()] = sub
}

// Unsubscribe removes a subscriber
func (f *Feed) Unsubscribe(code, subID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.subs[code], subID)
	if len(f.subs[code]) == 0 {
		delete(f.subs, code)
	}
}

// SubscriberCount returns the number of subscribers of a lobby
func (f *Feed) SubscriberCount(code string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[code])
}

// Publish queues an event for broadcasting
func (f *Feed) Publish(event *domain.LobbyEvent) {
	select {
	case <-f.done:
		return
	default:
	}

	select {
	case f.events <- event:
	default:
		f.logger.Warn("event queue full, dropping event", "type", event.Type, "code", event.Code)
	}
}

// Close stops the broadcaster
func (f *Feed) Close() {
	f.once.Do(func() {
		close(f.done)
	})
}

// eventLoop processes events and broadcasts to subscribers
func (f *Feed) eventLoop() {
	for {
		select {
		case <-f.done:
			return
		case event := <-f.events:
			f.broadcast(event)
		}
	}
}

func (f *Feed) broadcast(event *domain.LobbyEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for id, sub := range f.subs[event.Code] {
		if err := sub.Send(event); err != nil {
			f.logger.Debug("failed to send to subscriber", "code", event.Code, "subscriber", id, "error", err)
		}
	}
}
