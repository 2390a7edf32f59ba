package events

import (
	"encoding/json"
	"time"
)

// Event is anything the gateway pushes to browsers or over the bus.
type Event interface {
	// EventType is the dotted code, e.g. "session.focus_changed".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time { return e.OccurredAt }

// Frame is the JSON shape written to websocket clients.
type Frame struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func EncodeFrame(e Event) ([]byte, error) {
	return json.Marshal(Frame{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp().UTC(),
	})
}
