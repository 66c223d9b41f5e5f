package domain

import "time"

// Audit layers identify which component emitted an event.
const (
	LayerPerception = "perception"
	LayerKnowledge  = "knowledge"
	LayerReasoning  = "reasoning"
	LayerLearning   = "learning"
	LayerSystem     = "system"
)

// Audit actors.
const (
	ActorSystem = "system"
	ActorHuman  = "human"
)

// AuditEvent is one append-only audit trail entry.
// Events carry no raw credentials or PII; payloads are safe to persist.
type AuditEvent struct {
	// ID is the unique event identifier.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Layer is the emitting component layer.
	Layer string

	// EventType names what happened.
	EventType string

	// Payload carries event-specific key-value details.
	Payload map[string]any

	// DecisionID links the event to a decision, when applicable.
	DecisionID string

	// Actor is "system", "human", or a model name.
	Actor string
}

// NewAuditEvent constructs an event with a fresh ID and timestamp.
func NewAuditEvent(layer, eventType string, payload map[string]any) AuditEvent {
	if payload == nil {
		payload = map[string]any{}
	}
	return AuditEvent{
		ID:        NewID(),
		Timestamp: time.Now().UTC(),
		Layer:     layer,
		EventType: eventType,
		Payload:   payload,
		Actor:     ActorSystem,
	}
}
