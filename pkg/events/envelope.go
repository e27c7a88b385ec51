// Package events provides the envelope and sink types used to publish
// evaluation lifecycle events to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is the envelope version written by this module.
const SchemaVersion = "1.0.0"

// Envelope wraps an event payload with routing and idempotency metadata.
type Envelope struct {
	// ID uniquely identifies this event instance.
	ID string `json:"id"`

	// Type identifies the event, e.g. "evaluation.prepared".
	Type string `json:"type"`

	// Source identifies the emitting component.
	Source string `json:"source"`

	// Version is the payload schema version.
	Version string `json:"version"`

	// Timestamp records when the event was emitted.
	Timestamp time.Time `json:"timestamp"`

	// IdempotencyKey is stable across retries of the same emission so
	// consumers can drop duplicates.
	IdempotencyKey string `json:"idempotency_key"`

	// TenantID identifies the tenant for filtering.
	TenantID string `json:"tenant_id"`

	// WorkflowID and RunID identify the Temporal execution that emitted the event.
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`

	// Payload is the JSON-encoded event body; its schema depends on Type.
	Payload json.RawMessage `json:"payload"`
}

// NewEnvelope creates an envelope with a fresh ID and the current time,
// encoding payload as JSON.
func NewEnvelope(eventType, source string, payload any) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Version:   SchemaVersion,
		Timestamp: time.Now().UTC(),
		Payload:   body,
	}, nil
}

// EventSink delivers envelopes to downstream consumers.
//
// Append should treat a repeated IdempotencyKey as a no-op where the backend
// allows it. Callers treat a returned error as a delivery failure to log, not
// as a failure of their own operation.
type EventSink interface {
	Append(ctx context.Context, envelope Envelope) error
}

// NoOpEventSink discards every event.
type NoOpEventSink struct{}

// Append implements EventSink.
func (n *NoOpEventSink) Append(_ context.Context, _ Envelope) error {
	return nil
}

// NewNoOpEventSink creates a sink that discards every event.
func NewNoOpEventSink() EventSink {
	return &NoOpEventSink{}
}
