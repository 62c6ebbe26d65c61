package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// InMemoryStore keeps the audit trail in process memory. Subscribers run synchronously,
// in subscription order, once the event is stored and the lock released.
type InMemoryStore struct {
	mu          sync.RWMutex
	byItem      map[string][]Event
	log         []Event
	subscribers map[string][]Handler
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byItem:      make(map[string][]Event),
		subscribers: make(map[string][]Handler),
	}
}

func (s *InMemoryStore) Append(event Event) (Event, error) {
	if event.ItemID == "" {
		return Event{}, fmt.Errorf("event %s has no item id", event.Type)
	}

	s.mu.Lock()
	event.Version = len(s.byItem[event.ItemID]) + 1
	s.byItem[event.ItemID] = append(s.byItem[event.ItemID], event)
	s.log = append(s.log, event)
	handlers := append([]Handler(nil), s.subscribers[event.Type]...)
	s.mu.Unlock()

	for _, handler := range handlers {
		if err := handler.Handle(event); err != nil {
			log.Warn().Err(err).Str("event", event.Type).Str("item", event.ItemID).Msg("Event handler failed")
		}
	}
	return event, nil
}

// ItemHistory returns the item's events from fromVersion (1-based) on
func (s *InMemoryStore) ItemHistory(itemID string, fromVersion int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.byItem[itemID]
	if fromVersion < 1 {
		fromVersion = 1
	}
	if fromVersion > len(stream) {
		return []Event{}, nil
	}
	return append([]Event(nil), stream[fromVersion-1:]...), nil
}

// ReadAll returns every event from the zero-based global position on
func (s *InMemoryStore) ReadAll(fromPosition int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if fromPosition < 0 {
		fromPosition = 0
	}
	if fromPosition >= len(s.log) {
		return []Event{}, nil
	}
	return append([]Event(nil), s.log[fromPosition:]...), nil
}

func (s *InMemoryStore) Subscribe(eventTypes []string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("nil event handler")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, eventType := range eventTypes {
		s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	}
	return nil
}

// LogHandler writes every event it receives to the global logger
type LogHandler struct{}

func (LogHandler) Handle(event Event) error {
	log.Info().
		Str("event", event.Type).
		Str("item", event.ItemID).
		Int("version", event.Version).
		Msg("Tracking data changed")
	return nil
}
