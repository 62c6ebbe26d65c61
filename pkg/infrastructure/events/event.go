package events

import (
	"time"
)

// Event is one recorded change to production tracking data. Every event belongs to the
// production item it touched, so an item's history is a single stream keyed by ItemID.
type Event struct {
	Type       string      `json:"type"`
	ItemID     string      `json:"itemId"`
	Data       interface{} `json:"data"`
	RecordedAt time.Time   `json:"recordedAt"`
	// Version is the 1-based position in the item's stream; zero until stored
	Version int `json:"version"`
}

func newEvent(eventType, itemID string, data interface{}) Event {
	return Event{
		Type:       eventType,
		ItemID:     itemID,
		Data:       data,
		RecordedAt: time.Now().UTC(),
	}
}

// Handler reacts to stored events
type Handler interface {
	Handle(event Event) error
}

// Store is an append-only log of tracking events
type Store interface {
	// Append stores the event and returns it with its stream version set
	Append(event Event) (Event, error)
	ItemHistory(itemID string, fromVersion int) ([]Event, error)
	ReadAll(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler Handler) error
}
