package ports

import (
	"context"
	"time"
)

// EventEnvelope is the wire shape the audit relay hands to the event bus.
// EventID is derived from the audit sequence, so replays of the same entry
// publish byte-identical envelopes.
type EventEnvelope struct {
	EventID        string         `json:"event_id"`
	EventType      string         `json:"event_type"`
	SourceService  string         `json:"source_service"`
	OccurredAtUTC  time.Time      `json:"occurred_at_utc"`
	EntityType     string         `json:"entity_type"`
	EntityID       string         `json:"entity_id"`
	PayloadVersion int            `json:"payload_version"`
	Payload        map[string]any `json:"payload"`
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
