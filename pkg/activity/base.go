// Package activity provides shared plumbing for Temporal activities: execution
// metadata, logging that tolerates non-activity contexts, and best-effort
// event emission.
package activity

import (
	"context"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/ahrav/go-evalrules/pkg/events"
)

// DefaultTenantID is used until tenants are carried in workflow metadata.
const DefaultTenantID = "default"

// Event emission retry parameters.
const (
	emitAttempts   = 2
	emitRetryDelay = 200 * time.Millisecond
)

// WorkflowContext identifies the execution an activity runs in.
type WorkflowContext struct {
	WorkflowID string
	RunID      string
	TenantID   string
	ActivityID string
}

// BaseActivities holds infrastructure shared by activity implementations.
type BaseActivities struct {
	eventSink events.EventSink
}

// NewBaseActivities creates a BaseActivities emitting to sink.
// A nil sink disables event emission.
func NewBaseActivities(sink events.EventSink) BaseActivities {
	return BaseActivities{eventSink: sink}
}

// GetWorkflowContext returns the execution metadata of ctx. Outside an
// activity context, such as in unit tests, it returns fixed placeholder ids
// so idempotency keys stay stable.
func (b *BaseActivities) GetWorkflowContext(ctx context.Context) WorkflowContext {
	wfCtx := WorkflowContext{
		WorkflowID: "local-workflow",
		RunID:      "local-run",
		TenantID:   DefaultTenantID,
		ActivityID: "local-activity",
	}

	func() {
		defer func() { _ = recover() }()
		info := activity.GetInfo(ctx)
		wfCtx.WorkflowID = info.WorkflowExecution.ID
		wfCtx.RunID = info.WorkflowExecution.RunID
		wfCtx.ActivityID = info.ActivityID
	}()

	return wfCtx
}

// Stamp fills the execution fields of envelope and sets its idempotency key.
func (b *BaseActivities) Stamp(ctx context.Context, envelope events.Envelope) events.Envelope {
	wfCtx := b.GetWorkflowContext(ctx)
	envelope.WorkflowID = wfCtx.WorkflowID
	envelope.RunID = wfCtx.RunID
	envelope.TenantID = wfCtx.TenantID
	envelope.IdempotencyKey = IdempotencyKey(wfCtx, envelope.Type)
	return envelope
}

// IdempotencyKey identifies one event of eventType per workflow run. Activity
// retries within a run share the key; a new run under a reused workflow id
// gets a new one.
func IdempotencyKey(wfCtx WorkflowContext, eventType string) string {
	return fmt.Sprintf("%s:%s:%s", wfCtx.WorkflowID, wfCtx.RunID, eventType)
}

// EmitEventSafe delivers envelope with one retry and never returns an error.
// Failures are logged; they must not fail the calling activity.
func (b *BaseActivities) EmitEventSafe(ctx context.Context, envelope events.Envelope, description string) bool {
	if b.eventSink == nil {
		return false
	}

	var lastErr error
	for attempt := 0; attempt < emitAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(emitRetryDelay):
			case <-ctx.Done():
				SafeLogError(ctx, "Event emission cancelled: "+description,
					"event_type", envelope.Type)
				return false
			}
		}

		if err := b.eventSink.Append(ctx, envelope); err != nil {
			lastErr = err
			continue
		}

		SafeLog(ctx, "Event emitted: "+description,
			"event_type", envelope.Type,
			"idempotency_key", envelope.IdempotencyKey)
		return true
	}

	SafeLogError(ctx, fmt.Sprintf("Failed to emit %s after %d attempts", description, emitAttempts),
		"event_type", envelope.Type,
		"error", lastErr)
	return false
}

// RecordHeartbeat records a heartbeat; it is ignored outside activity contexts.
func (b *BaseActivities) RecordHeartbeat(ctx context.Context, details ...any) {
	RecordHeartbeat(ctx, details...)
}

// SafeLog logs at info level through the activity logger. Outside an activity
// context the call is dropped.
func SafeLog(ctx context.Context, msg string, keyvals ...any) {
	defer func() { _ = recover() }()
	activity.GetLogger(ctx).Info(msg, keyvals...)
}

// SafeLogError is SafeLog at error level.
func SafeLogError(ctx context.Context, msg string, keyvals ...any) {
	defer func() { _ = recover() }()
	activity.GetLogger(ctx).Error(msg, keyvals...)
}

// RecordHeartbeat records an activity heartbeat; it is ignored outside
// activity contexts.
func RecordHeartbeat(ctx context.Context, details ...any) {
	defer func() { _ = recover() }()
	activity.RecordHeartbeat(ctx, details...)
}
