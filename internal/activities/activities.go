// Package activities implements the Temporal activities used by the
// evaluation write path: loading settings, resolving the acting user, and
// publishing the prepared evaluation.
package activities

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"

	"github.com/ahrav/go-evalrules/internal/domain"
	"github.com/ahrav/go-evalrules/internal/identity"
	"github.com/ahrav/go-evalrules/internal/settings"
	"github.com/ahrav/go-evalrules/pkg/activity"
	"github.com/ahrav/go-evalrules/pkg/events"
)

// Event types and source emitted by this package.
const (
	EventEvaluationPrepared = "evaluation.prepared"
	EventSource             = "evalrules-prepare"
)

// ErrNoLoader indicates activities were built without a settings loader.
var ErrNoLoader = errors.New("settings loader not configured")

// Activities holds the dependencies of the write-path activities.
type Activities struct {
	activity.BaseActivities
	loader    settings.Loader
	directory identity.Resolver
	system    settings.SystemDefaults
	timeout   time.Duration
}

// NewActivities creates the activities. directory may be nil, in which case
// every actor resolves to a bare, non-admin user. activityTimeout is the
// worker's configured activity timeout; zero leaves the workflow default.
func NewActivities(
	base activity.BaseActivities,
	loader settings.Loader,
	directory identity.Resolver,
	system settings.SystemDefaults,
	activityTimeout time.Duration,
) *Activities {
	return &Activities{
		BaseActivities: base,
		loader:         loader,
		directory:      directory,
		system:         system,
		timeout:        activityTimeout,
	}
}

// LoadSettingsOutput is a settings snapshot plus the worker configuration
// that accompanies it.
type LoadSettingsOutput struct {
	Settings *settings.Snapshot      `json:"settings"`
	System   settings.SystemDefaults `json:"system"`

	// ActivityTimeout is the worker's configured activity timeout, zero when unset.
	ActivityTimeout time.Duration `json:"activity_timeout,omitempty"`
}

// LoadSettings reads a fresh settings snapshot. Store failures are retryable.
func (a *Activities) LoadSettings(ctx context.Context) (*LoadSettingsOutput, error) {
	if a.loader == nil {
		return nil, nonRetryable("LoadSettings", ErrNoLoader, "no settings loader")
	}

	snap, err := a.loader.Load(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrWrongKind) || errors.Is(err, settings.ErrUnknownKey) {
			return nil, nonRetryable("LoadSettings", err, "settings store holds invalid values")
		}
		return nil, retryable("LoadSettings", err, "failed to load settings")
	}
	if snap == nil {
		snap = settings.EmptySnapshot()
	}

	activity.SafeLog(ctx, "Loaded settings snapshot", "values", snap.Len())
	return &LoadSettingsOutput{Settings: snap, System: a.system, ActivityTimeout: a.timeout}, nil
}

// ResolveActorInput names the acting user.
type ResolveActorInput struct {
	UserID string `json:"user_id"`
}

// ResolveActor looks up the acting user and their admin status. An empty
// UserID resolves to an anonymous actor; an unknown id resolves to a user
// with no directory details.
func (a *Activities) ResolveActor(ctx context.Context, input ResolveActorInput) (identity.Actor, error) {
	if input.UserID == "" {
		return identity.Actor{}, nil
	}

	actor := identity.Actor{User: domain.User{ID: input.UserID}}
	if a.directory == nil {
		return actor, nil
	}
	if u, ok := a.directory.UserByID(input.UserID); ok {
		actor.User = *u
	}
	actor.Admin = a.directory.IsUserAdmin(input.UserID)

	activity.SafeLog(ctx, "Resolved actor",
		"user_id", actor.User.ID,
		"admin", actor.Admin)
	return actor, nil
}

// PublishPreparedInput is the evaluation produced by the write path.
type PublishPreparedInput struct {
	Evaluation domain.Evaluation `json:"evaluation"`
	Created    bool              `json:"created"`
	ActorID    string            `json:"actor_id,omitempty"`
}

// PreparedPayload is the body of an evaluation.prepared event.
type PreparedPayload struct {
	Evaluation domain.Evaluation `json:"evaluation"`
	Created    bool              `json:"created"`
	ActorID    string            `json:"actor_id,omitempty"`
}

// PublishPrepared emits an evaluation.prepared event. Delivery is best
// effort: the result reports whether the event was delivered and sink
// failures never fail the activity.
func (a *Activities) PublishPrepared(ctx context.Context, input PublishPreparedInput) (bool, error) {
	envelope, err := events.NewEnvelope(EventEvaluationPrepared, EventSource, PreparedPayload(input))
	if err != nil {
		return false, nonRetryable("PublishPrepared", err, "failed to build event")
	}
	envelope = a.Stamp(ctx, envelope)

	return a.EmitEventSafe(ctx, envelope, fmt.Sprintf("prepared evaluation %q", input.Evaluation.ID)), nil
}

func nonRetryable(tag string, cause error, msg string) error {
	return temporal.NewNonRetryableApplicationError(msg, tag, cause)
}

func retryable(tag string, cause error, msg string) error {
	return temporal.NewApplicationError(msg, tag, cause)
}
