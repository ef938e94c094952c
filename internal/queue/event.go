// Package queue defines the broker envelope for realtime notifications and
// the consumer that archives them.
package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// NotificationEvent wraps one realtime notification for the broker. The
// payload is the same JSON the websocket subscribers receive as data.
type NotificationEvent struct {
	Event       string          `json:"event"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"published_at"`
}

// Encode builds the broker message body for a notification.
func Encode(event string, payload any, at time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", event, err)
	}
	return json.Marshal(NotificationEvent{Event: event, Payload: raw, PublishedAt: at.UTC()})
}

// Decode parses a broker message body.
func Decode(body []byte) (NotificationEvent, error) {
	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Event == "" {
		return ev, fmt.Errorf("unmarshal: missing event name")
	}
	return ev, nil
}

// LogLine renders the single-line form written to logs/notifications.log.
func (e NotificationEvent) LogLine() string {
	return fmt.Sprintf("[%s] %s | %s\n", e.PublishedAt.Format(time.RFC3339), e.Event, e.Payload)
}
