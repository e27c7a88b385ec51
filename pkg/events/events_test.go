package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope("evaluation.prepared", "prepare-activity", map[string]string{"id": "42"})
	require.NoError(t, err)

	assert.NotEmpty(t, env.ID)
	assert.Equal(t, "evaluation.prepared", env.Type)
	assert.Equal(t, "prepare-activity", env.Source)
	assert.Equal(t, SchemaVersion, env.Version)
	assert.False(t, env.Timestamp.IsZero())
	assert.JSONEq(t, `{"id":"42"}`, string(env.Payload))

	other, err := NewEnvelope("evaluation.prepared", "prepare-activity", nil)
	require.NoError(t, err)
	assert.NotEqual(t, env.ID, other.ID)

	_, err = NewEnvelope("bad", "src", make(chan int))
	assert.Error(t, err)
}

func TestNoOpEventSink(t *testing.T) {
	assert.NoError(t, NewNoOpEventSink().Append(context.Background(), Envelope{}))
}

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, Envelope{ID: "1", IdempotencyKey: "k1"}))
	require.NoError(t, sink.Append(ctx, Envelope{ID: "2", IdempotencyKey: "k1"}))
	require.NoError(t, sink.Append(ctx, Envelope{ID: "3"}))
	require.NoError(t, sink.Append(ctx, Envelope{ID: "4"}))

	events := sink.Events()
	require.Len(t, events, 3, "duplicate idempotency key dropped")
	assert.Equal(t, "1", events[0].ID)
	assert.Equal(t, "3", events[1].ID)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, sink.Append(cancelled, Envelope{ID: "5"}), context.Canceled)
	assert.Equal(t, 3, sink.Len())
}

func TestMemorySink_Concurrent(t *testing.T) {
	sink := NewMemorySink()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sink.Append(context.Background(), Envelope{IdempotencyKey: "same"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, sink.Len())
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSink_Append(t *testing.T) {
	w := &fakeWriter{}
	sink := NewKafkaSinkWithWriter(w, "evaluation-events")

	env, err := NewEnvelope("evaluation.prepared", "test", map[string]int{"n": 1})
	require.NoError(t, err)
	env.IdempotencyKey = "wf-1:prepared"

	require.NoError(t, sink.Append(context.Background(), env))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "evaluation-events", msg.Topic)
	assert.Equal(t, "wf-1:prepared", string(msg.Key))
	assert.Equal(t, env.Timestamp, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "evaluation.prepared", string(msg.Headers[0].Value))

	var decoded Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, env.ID, decoded.ID)
	assert.JSONEq(t, `{"n":1}`, string(decoded.Payload))

	require.NoError(t, sink.Close())
	assert.True(t, w.closed)
}

func TestKafkaSink_KeyFallsBackToID(t *testing.T) {
	w := &fakeWriter{}
	sink := NewKafkaSinkWithWriter(w, "t")

	require.NoError(t, sink.Append(context.Background(), Envelope{ID: "abc", Type: "x"}))
	assert.Equal(t, "abc", string(w.msgs[0].Key))
}

func TestKafkaSink_WriteError(t *testing.T) {
	cause := errors.New("broker down")
	sink := NewKafkaSinkWithWriter(&fakeWriter{err: cause}, "t")

	err := sink.Append(context.Background(), Envelope{ID: "1", Type: "evaluation.prepared"})
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "evaluation.prepared")
}
