package events

import (
	"context"
	"encoding/json"
	"sync"
)

// TypeDocumentIngested is emitted once per stored upload.
const TypeDocumentIngested = "document.ingested"

// Event is the payload sent to downstream consumers.
type Event struct {
	Type       string `json:"type"`
	DocumentID string `json:"documentId"`
	TenderID   string `json:"tenderId"`
	Category   string `json:"category"`
	RequestID  string `json:"requestId,omitempty"`
	EnqueuedAt string `json:"enqueuedAt"`
	Version    int    `json:"version"`
}

// Publisher sends events to a backend.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Encode returns the JSON representation of an event.
func Encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

// Decode parses a JSON payload into an Event.
func Decode(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Noop discards events.
type Noop struct{}

func (Noop) Publish(ctx context.Context, ev Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(ctx context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
