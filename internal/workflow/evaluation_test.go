package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/ahrav/go-evalrules/internal/activities"
	"github.com/ahrav/go-evalrules/internal/domain"
	"github.com/ahrav/go-evalrules/internal/identity"
	"github.com/ahrav/go-evalrules/internal/settings"
	"github.com/ahrav/go-evalrules/pkg/activity"
	"github.com/ahrav/go-evalrules/pkg/events"
)

var workflowStart = time.Date(2025, 3, 3, 10, 30, 0, 0, time.UTC)

type harness struct {
	env  *testsuite.TestWorkflowEnvironment
	sink *events.MemorySink
	acts *activities.Activities
}

func newHarness(t *testing.T, values map[settings.Key]any) *harness {
	t.Helper()
	snap, err := settings.NewSnapshot(values)
	require.NoError(t, err)

	dir := identity.NewDirectory()
	dir.AddUser(domain.User{ID: "inst", Email: "inst@example.edu"})

	sink := events.NewMemorySink()
	acts := activities.NewActivities(
		activity.NewBaseActivities(sink),
		settings.NewStaticLoader(snap),
		dir,
		settings.DefaultSystemDefaults(),
		0,
	)

	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.SetStartTime(workflowStart)
	env.RegisterWorkflow(PrepareEvaluationWorkflow)
	env.RegisterActivity(acts.LoadSettings)
	env.RegisterActivity(acts.ResolveActor)
	env.RegisterActivity(acts.PublishPrepared)
	return &harness{env: env, sink: sink, acts: acts}
}

func (h *harness) run(t *testing.T, req PrepareRequest) (*PrepareResult, error) {
	t.Helper()
	h.env.ExecuteWorkflow(PrepareEvaluationWorkflow, req)
	require.True(t, h.env.IsWorkflowCompleted(), "workflow should complete")
	if err := h.env.GetWorkflowError(); err != nil {
		return nil, err
	}
	var res PrepareResult
	require.NoError(t, h.env.GetWorkflowResult(&res))
	return &res, nil
}

func requireAppError(t *testing.T, err error, typ string) {
	t.Helper()
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, typ, appErr.Type())
	assert.True(t, appErr.NonRetryable())
}

func TestPrepareEvaluationWorkflow_Create(t *testing.T) {
	h := newHarness(t, map[settings.Key]any{
		settings.StudentAllowedLeaveUnanswered: true,
		settings.FromEmailAddress:              "helpdesk@example.edu",
	})

	res, err := h.run(t, PrepareRequest{Create: true, ActorID: "inst"})
	require.NoError(t, err)

	e := res.Evaluation
	assert.Equal(t, domain.TypeEvaluation, e.Type)
	assert.Equal(t, domain.StatePartial, e.State)
	require.NotNil(t, e.StartDate)
	assert.True(t, e.StartDate.Equal(workflowStart.Add(time.Hour)), "start is an hour after now, got %v", e.StartDate)
	require.NotNil(t, e.DueDate)
	assert.True(t, e.DueDate.After(*e.StartDate))
	assert.Nil(t, e.StopDate)
	assert.Nil(t, e.ViewDate)
	assert.True(t, e.BlankResponsesAllowed.Enabled())
	require.NotNil(t, e.ReminderFromEmail)
	assert.Equal(t, "helpdesk@example.edu", *e.ReminderFromEmail)
	assert.NoError(t, domain.ValidateDates(&e))

	assert.True(t, res.Published)
	require.Equal(t, 1, h.sink.Len())
	assert.Equal(t, activities.EventEvaluationPrepared, h.sink.Events()[0].Type)
}

func TestPrepareEvaluationWorkflow_PoolType(t *testing.T) {
	h := newHarness(t, nil)

	res, err := h.run(t, PrepareRequest{Create: true, Type: domain.TypePool})
	require.NoError(t, err)
	assert.Equal(t, domain.TypePool, res.Evaluation.Type)
}

func TestPrepareEvaluationWorkflow_EditSkipsDefaults(t *testing.T) {
	h := newHarness(t, nil)

	start := workflowStart.Add(-24 * time.Hour)
	due := workflowStart.Add(-30 * time.Hour)
	req := PrepareRequest{Evaluation: domain.Evaluation{
		ID:        "9",
		State:     domain.StateActive,
		StartDate: &start,
		DueDate:   &due,
	}}

	res, err := h.run(t, req)
	require.NoError(t, err)

	e := res.Evaluation
	assert.Empty(t, e.Type, "edits do not apply creation defaults")
	assert.Nil(t, e.ReminderDays)
	require.NotNil(t, e.DueDate)
	assert.True(t, e.DueDate.After(*e.StartDate), "due date is repaired")
}

func TestPrepareEvaluationWorkflow_InvalidRequest(t *testing.T) {
	tests := []struct {
		name string
		req  PrepareRequest
	}{
		{"unknown type", PrepareRequest{Type: "Survey"}},
		{"negative timeout", PrepareRequest{ActivityTimeoutSeconds: -1}},
		{"bad state", PrepareRequest{Evaluation: domain.Evaluation{State: "Archived"}}},
		{"bad category", PrepareRequest{Evaluation: domain.Evaluation{Category: "a/b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			_, err := h.run(t, tt.req)
			requireAppError(t, err, "Validation")
			assert.Zero(t, h.sink.Len())
		})
	}
}

func TestPrepareEvaluationWorkflow_InvalidDates(t *testing.T) {
	h := newHarness(t, map[settings.Key]any{
		settings.EvalUseStopDate: true,
		settings.EvalUseViewDate: true,
	})

	start := workflowStart.Add(-24 * time.Hour)
	due := workflowStart.Add(24 * time.Hour)
	stop := workflowStart.Add(5 * 24 * time.Hour)
	view := workflowStart.Add(2 * 24 * time.Hour)
	req := PrepareRequest{Evaluation: domain.Evaluation{
		StartDate: &start,
		DueDate:   &due,
		StopDate:  &stop,
		ViewDate:  &view,
	}}

	_, err := h.run(t, req)
	requireAppError(t, err, "InvalidDates")

	assert.Contains(t, err.Error(), "invalid "+domain.FieldViewDate)
	assert.Zero(t, h.sink.Len())
}

func TestPrepareEvaluationWorkflow_PublishFailureIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.env.OnActivity(h.acts.PublishPrepared, mock.Anything, mock.Anything).
		Return(false, temporal.NewNonRetryableApplicationError("sink down", "PublishPrepared", errors.New("down")))

	res, err := h.run(t, PrepareRequest{Create: true})
	require.NoError(t, err)
	assert.False(t, res.Published)
	require.NotNil(t, res.Evaluation.StartDate)
}

func TestPrepareEvaluationWorkflow_SettingsFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.env.OnActivity(h.acts.LoadSettings, mock.Anything).
		Return((*activities.LoadSettingsOutput)(nil), temporal.NewNonRetryableApplicationError("store down", "LoadSettings", errors.New("down")))

	_, err := h.run(t, PrepareRequest{Create: true})
	requireAppError(t, err, "LoadSettings")
}

func TestPrepareEvaluationWorkflow_Deterministic(t *testing.T) {
	var first domain.Evaluation
	for i := 0; i < 3; i++ {
		h := newHarness(t, map[settings.Key]any{settings.EvalDefaultStartHour: 8})
		res, err := h.run(t, PrepareRequest{Create: true})
		require.NoError(t, err, "attempt %d", i+1)
		if i == 0 {
			first = res.Evaluation
			continue
		}
		assert.True(t, first.StartDate.Equal(*res.Evaluation.StartDate), "attempt %d", i+1)
		assert.True(t, first.DueDate.Equal(*res.Evaluation.DueDate), "attempt %d", i+1)
	}
}

func TestActivityOptions_Timeout(t *testing.T) {
	tests := []struct {
		name       string
		req        PrepareRequest
		configured time.Duration
		want       time.Duration
	}{
		{"nothing configured", PrepareRequest{}, 0, DefaultActivityTimeout},
		{"worker configuration", PrepareRequest{}, 2 * time.Minute, 2 * time.Minute},
		{"changed worker configuration", PrepareRequest{}, 45 * time.Second, 45 * time.Second},
		{"request overrides configuration", PrepareRequest{ActivityTimeoutSeconds: 10}, 2 * time.Minute, 10 * time.Second},
		{"request without configuration", PrepareRequest{ActivityTimeoutSeconds: 10}, 0, 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ao := activityOptions(tt.req.ActivityTimeout(tt.configured))
			assert.Equal(t, tt.want, ao.StartToCloseTimeout)
			require.NotNil(t, ao.RetryPolicy)
			assert.Equal(t, int32(3), ao.RetryPolicy.MaximumAttempts)
		})
	}
}
