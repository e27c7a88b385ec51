package events

import (
	"context"
	"sync"
)

// MemorySink keeps events in memory, dropping repeated idempotency keys.
// It is safe for concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	events []Envelope
	seen   map[string]struct{}
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{seen: make(map[string]struct{})}
}

// Append implements EventSink.
func (m *MemorySink) Append(ctx context.Context, envelope Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if key := envelope.IdempotencyKey; key != "" {
		if _, dup := m.seen[key]; dup {
			return nil
		}
		m.seen[key] = struct{}{}
	}
	m.events = append(m.events, envelope)
	return nil
}

// Events returns a copy of the stored events in arrival order.
func (m *MemorySink) Events() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Envelope, len(m.events))
	copy(out, m.events)
	return out
}

// Len returns the number of stored events.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}
