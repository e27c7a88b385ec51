// Package worker exposes helpers to register workflows/activities with a Temporal worker.
package worker

import (
	"time"

	"github.com/ahrav/go-evalrules/internal/activities"
	"github.com/ahrav/go-evalrules/internal/configuration"
	"github.com/ahrav/go-evalrules/internal/identity"
	"github.com/ahrav/go-evalrules/internal/settings"
	"github.com/ahrav/go-evalrules/internal/workflow"
	"github.com/ahrav/go-evalrules/pkg/activity"
	"github.com/ahrav/go-evalrules/pkg/events"
)

// Registrar is the registration surface shared by Temporal workers and the
// workflow test environment.
type Registrar interface {
	RegisterWorkflow(w any)
	RegisterActivity(a any)
}

// Dependencies are the collaborators the activities need.
type Dependencies struct {
	Loader settings.Loader

	// Directory resolves acting users and their admin status. Admin checks
	// and the admin reminder sender only take effect for users it knows.
	Directory identity.Resolver

	Sink   events.EventSink
	System settings.SystemDefaults

	// ActivityTimeout is the default activity timeout for workflows whose
	// request sets none. Zero keeps the workflow default.
	ActivityTimeout time.Duration
}

// NewDependencies builds Dependencies from the worker configuration. A nil
// directory is replaced by one seeded from cfg.Identity.
func NewDependencies(
	cfg *configuration.Config,
	loader settings.Loader,
	sink events.EventSink,
	directory identity.Resolver,
) Dependencies {
	if directory == nil {
		directory = InitializeDirectory(cfg.Identity)
	}
	return Dependencies{
		Loader:          loader,
		Directory:       directory,
		Sink:            sink,
		System:          cfg.System,
		ActivityTimeout: cfg.Temporal.ActivityTimeout,
	}
}

// RegisterAll registers all workflows and activities with the worker.
// It must be called once during startup, before the worker starts.
// A nil Sink discards events.
func RegisterAll(w Registrar, deps Dependencies) *activities.Activities {
	sink := deps.Sink
	if sink == nil {
		sink = events.NewNoOpEventSink()
	}
	base := activity.NewBaseActivities(sink)
	acts := activities.NewActivities(base, deps.Loader, deps.Directory, deps.System, deps.ActivityTimeout)

	w.RegisterWorkflow(workflow.PrepareEvaluationWorkflow)

	w.RegisterActivity(acts.LoadSettings)
	w.RegisterActivity(acts.ResolveActor)
	w.RegisterActivity(acts.PublishPrepared)
	return acts
}
