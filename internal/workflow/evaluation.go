package workflow

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ahrav/go-evalrules/internal/activities"
	"github.com/ahrav/go-evalrules/internal/defaults"
	"github.com/ahrav/go-evalrules/internal/domain"
	"github.com/ahrav/go-evalrules/internal/entity"
	"github.com/ahrav/go-evalrules/internal/fixup"
	"github.com/ahrav/go-evalrules/internal/identity"
	"github.com/ahrav/go-evalrules/internal/settings"
)

// DefaultActivityTimeout bounds each activity when neither the request nor
// the worker configuration sets a timeout.
const DefaultActivityTimeout = 30 * time.Second

// ErrInvalidRequest indicates a prepare request that cannot be processed.
var ErrInvalidRequest = errors.New("invalid prepare request")

// PrepareRequest asks for an evaluation to be readied for saving.
type PrepareRequest struct {
	Evaluation domain.Evaluation `json:"evaluation"`

	// Create applies creation defaults before the dates are fixed.
	Create bool `json:"create"`

	// Type replaces the evaluation type on create when set.
	Type domain.EvaluationType `json:"type,omitempty"`

	// ActorID is the user performing the change.
	ActorID string `json:"actor_id,omitempty"`

	// IgnoreMinGap skips the minimum start-to-due gap.
	IgnoreMinGap bool `json:"ignore_min_gap"`

	// ActivityTimeoutSeconds overrides the configured activity timeout when positive.
	ActivityTimeoutSeconds int `json:"activity_timeout_seconds,omitempty"`
}

// Validate checks the request before any activity runs.
func (r *PrepareRequest) Validate() error {
	if r.Type != "" && r.Type != domain.TypeEvaluation && r.Type != domain.TypePool {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRequest, r.Type)
	}
	if r.ActivityTimeoutSeconds < 0 {
		return fmt.Errorf("%w: negative activity timeout", ErrInvalidRequest)
	}
	if err := r.Evaluation.Validate(); err != nil {
		return err
	}
	if err := entity.ValidateCategory(nil, r.Evaluation.Category); err != nil {
		return err
	}
	return nil
}

// ActivityTimeout resolves the activity timeout: the request's own value,
// else the worker's configured value, else DefaultActivityTimeout.
func (r *PrepareRequest) ActivityTimeout(configured time.Duration) time.Duration {
	switch {
	case r.ActivityTimeoutSeconds > 0:
		return time.Duration(r.ActivityTimeoutSeconds) * time.Second
	case configured > 0:
		return configured
	default:
		return DefaultActivityTimeout
	}
}

// activityOptions returns the timeouts and retry policy for every activity
// in the workflow.
func activityOptions(timeout time.Duration) workflow.ActivityOptions {
	return workflow.ActivityOptions{
		StartToCloseTimeout: timeout,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
}

// PrepareResult is the evaluation ready to persist.
type PrepareResult struct {
	Evaluation domain.Evaluation `json:"evaluation"`

	// Published reports whether the evaluation.prepared event was delivered.
	Published bool `json:"published"`
}

// PrepareEvaluationWorkflow applies creation defaults when requested, fixes
// the evaluation dates, and validates the result. Invalid input and invalid
// dates fail without retry.
func PrepareEvaluationWorkflow(
	ctx workflow.Context,
	req PrepareRequest,
) (*PrepareResult, error) {
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "prepare-evaluation.v", workflow.DefaultVersion, currentVersion)

	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid prepare request",
			"Validation",
			err,
		)
	}

	// The worker's configured timeout is only known once settings are loaded.
	ctx = workflow.WithActivityOptions(ctx, activityOptions(req.ActivityTimeout(0)))
	wlog := workflow.GetLogger(ctx)

	var a *activities.Activities

	var loaded activities.LoadSettingsOutput
	if err := workflow.ExecuteActivity(ctx, a.LoadSettings).Get(ctx, &loaded); err != nil {
		return nil, err
	}
	ctx = workflow.WithActivityOptions(ctx, activityOptions(req.ActivityTimeout(loaded.ActivityTimeout)))
	provider := settings.WithDefaults(loaded.Settings)
	logger := replaySafeLogger(ctx)
	now := workflow.Now(ctx)

	eval := req.Evaluation
	if req.Create {
		var actor identity.Actor
		if err := workflow.ExecuteActivity(ctx, a.ResolveActor, activities.ResolveActorInput{UserID: req.ActorID}).
			Get(ctx, &actor); err != nil {
			return nil, err
		}

		initializer := defaults.NewInitializer(provider, actor, loaded.System, nil, logger)
		out, err := initializer.ApplyDefaultsAt(&eval, req.Type, now)
		if err != nil {
			return nil, temporal.NewNonRetryableApplicationError("failed to apply defaults", "InvalidArgument", err)
		}
		eval = out
	}

	fixed, err := fixup.NewEngine(provider, nil, logger).FixupDatesAt(&eval, req.IgnoreMinGap, now)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError("failed to fix dates", "InvalidArgument", err)
	}
	eval = fixed

	if err := domain.ValidateDates(&eval); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"evaluation dates are invalid",
			"InvalidDates",
			err,
		)
	}

	result := &PrepareResult{Evaluation: eval}

	publish := activities.PublishPreparedInput{Evaluation: eval, Created: req.Create, ActorID: req.ActorID}
	if err := workflow.ExecuteActivity(ctx, a.PublishPrepared, publish).Get(ctx, &result.Published); err != nil {
		wlog.Warn("Publishing prepared evaluation failed", "error", err)
	}

	wlog.Info("Prepared evaluation",
		"evaluation_id", eval.ID,
		"create", req.Create,
		"published", result.Published)
	return result, nil
}

// replaySafeLogger returns a logger for the rule engines that stays silent
// while the workflow is replaying history.
func replaySafeLogger(ctx workflow.Context) *slog.Logger {
	if workflow.IsReplaying(ctx) {
		return slog.New(slog.DiscardHandler)
	}
	return slog.Default()
}
