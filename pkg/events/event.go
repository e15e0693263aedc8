package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Storefront event codes.
const (
	ChatTurnCompleted = "CHAT_TURN_COMPLETED"
	ChatTurnFailed    = "CHAT_TURN_FAILED"
	ChatSessionReset  = "CHAT_SESSION_RESET"
	ContentRefreshed  = "CONTENT_REFRESHED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_TURN_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the only Event implementation used on the wire.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Marshal encodes any Event as a BaseEvent envelope.
func Marshal(e Event) ([]byte, error) {
	data, err := json.Marshal(BaseEvent{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.EventType(), err)
	}
	return data, nil
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var e BaseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return BaseEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	if e.Type == "" {
		return BaseEvent{}, fmt.Errorf("unmarshal event: missing type")
	}
	return e, nil
}
