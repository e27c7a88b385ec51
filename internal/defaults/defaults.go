// Package defaults fills in the fields of a new or edited evaluation that the
// caller left unset, using configured settings and deployment defaults.
package defaults

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/facebookgo/clock"

	"github.com/ahrav/go-evalrules/internal/domain"
	"github.com/ahrav/go-evalrules/internal/identity"
	"github.com/ahrav/go-evalrules/internal/settings"
)

const (
	// DefaultStartDelay is how far after now an unset start date is placed.
	DefaultStartDelay = time.Hour

	// DefaultReminderDays is used when no reminder frequency is configured.
	DefaultReminderDays = 1
)

// Initializer applies default values to evaluations. It never overwrites a
// field the caller already set, except for the sharing-mode overrides and the
// shared per-audience view dates.
type Initializer struct {
	settings settings.Provider
	identity identity.Resolver
	system   settings.SystemDefaults
	clock    clock.Clock
	logger   *slog.Logger
}

// NewInitializer creates an Initializer. A nil clock uses the wall clock and
// a nil logger uses slog.Default().
func NewInitializer(
	p settings.Provider,
	id identity.Resolver,
	system settings.SystemDefaults,
	clk clock.Clock,
	logger *slog.Logger,
) *Initializer {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Initializer{settings: p, identity: id, system: system, clock: clk, logger: logger}
}

// ApplyDefaults returns a copy of e with every unset field defaulted.
// A non-empty typ replaces the evaluation type.
func (in *Initializer) ApplyDefaults(e *domain.Evaluation, typ domain.EvaluationType) (domain.Evaluation, error) {
	return in.ApplyDefaultsAt(e, typ, in.clock.Now())
}

// ApplyDefaultsAt is ApplyDefaults with an explicit now. Every relative date
// in one call is computed from the same now.
func (in *Initializer) ApplyDefaultsAt(
	e *domain.Evaluation,
	typ domain.EvaluationType,
	now time.Time,
) (domain.Evaluation, error) {
	if e == nil {
		return domain.Evaluation{}, fmt.Errorf("%w: evaluation is nil", domain.ErrInvalidArgument)
	}
	out := e.Clone()

	switch {
	case typ != "":
		out.Type = typ
	case out.Type == "":
		out.Type = domain.TypeEvaluation
	}

	if !out.IsPersisted() && out.State == "" {
		out.State = domain.StatePartial
	}

	in.applyDates(&out, now)
	in.applyViewFlags(&out)
	in.applyParticipation(&out)
	in.applyReminders(&out)

	if out.InstructorOpt == "" {
		out.InstructorOpt = domain.InstructorOpt(settings.StringOr(in.settings, settings.InstructorMustUseEvalsFromAbove, string(domain.InstructorRequired)))
	}
	return out, nil
}

// startBase is now, moved to the configured start hour on the following day
// when a default start hour is set.
func (in *Initializer) startBase(now time.Time) time.Time {
	hour, ok := settings.Int(in.settings, settings.EvalDefaultStartHour)
	if !ok {
		return now
	}
	next := now.Add(24 * time.Hour)
	y, m, d := next.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, next.Location())
}

func (in *Initializer) applyDates(e *domain.Evaluation, now time.Time) {
	var anchor time.Time
	if e.StartDate == nil {
		anchor = in.startBase(now).Add(DefaultStartDelay)
		e.StartDate = domain.Ptr(anchor)
		in.logger.Debug("Setting start date to default", "start_date", anchor)
	} else {
		anchor = *e.StartDate
	}

	if e.UseDueDate.Disabled() {
		e.DueDate, e.StopDate, e.ViewDate = nil, nil, nil
	} else {
		anchor = anchor.AddDate(0, 0, 1)
		if e.DueDate == nil {
			e.DueDate = domain.Ptr(domain.EndOfDay(anchor))
			in.logger.Debug("Setting due date to default", "due_date", *e.DueDate)
		} else {
			anchor = *e.DueDate
		}

		useStop := !e.UseStopDate.Disabled() && settings.BoolOr(in.settings, settings.EvalUseStopDate, false)
		if useStop {
			if e.StopDate == nil {
				e.StopDate = domain.Ptr(*e.DueDate)
				in.logger.Debug("Setting stop date to default", "stop_date", *e.StopDate)
			}
		} else {
			e.StopDate = nil
		}

		useView := !e.UseViewDate.Disabled() && settings.BoolOr(in.settings, settings.EvalUseViewDate, false)
		if useView {
			anchor = anchor.AddDate(0, 0, 1)
			if e.ViewDate == nil {
				e.ViewDate = domain.Ptr(anchor)
				in.logger.Debug("Setting view date to default", "view_date", anchor)
			}
		} else {
			e.ViewDate = nil
		}
	}

	sameViewDates := settings.BoolOr(in.settings, settings.EvalUseSameViewDates, false)
	shared := e.ViewDate
	if shared == nil {
		shared = e.DueDate
	}
	if e.StudentsDate == nil || sameViewDates {
		e.StudentsDate = cloneTime(shared)
	}
	if e.InstructorsDate == nil || sameViewDates {
		e.InstructorsDate = cloneTime(shared)
	}
}

func (in *Initializer) applyViewFlags(e *domain.Evaluation) {
	if b, ok := settings.Bool(in.settings, settings.StudentAllowedViewResults); ok {
		e.StudentViewResults = domain.FlagOf(b)
	}
	if b, ok := settings.Bool(in.settings, settings.InstructorAllowedViewResults); ok {
		e.InstructorViewResults = domain.FlagOf(b)
	}
	if !e.InstructorViewAllResults.IsSet() {
		e.InstructorViewAllResults = domain.FlagOf(settings.BoolOr(in.settings, settings.InstructorAllowedViewAllResults, false))
	}

	system := in.system.Overlay(in.settings)
	if !e.SectionAwareness.Enabled() {
		e.SectionAwareness = domain.FlagOf(system.SectionAware)
	}
	if e.ResultsSharing == "" {
		e.ResultsSharing = system.SharingMode()
	}
	if !e.InstructorViewResults.IsSet() {
		e.InstructorViewResults = domain.FlagOf(system.InstructorViewResponses)
	}
	if !e.InstructorViewAllResults.IsSet() {
		e.InstructorViewAllResults = domain.FlagOf(system.InstructorViewResponses)
	}

	switch e.ResultsSharing {
	case domain.SharingPrivate:
		e.StudentViewResults = domain.FlagDisabled
		e.InstructorViewResults = domain.FlagDisabled
		e.InstructorViewAllResults = domain.FlagDisabled
	case domain.SharingPublic:
		e.StudentViewResults = domain.FlagEnabled
		e.InstructorViewResults = domain.FlagEnabled
		e.InstructorViewAllResults = domain.FlagEnabled
		e.StudentsDate = cloneTime(e.ViewDate)
		e.InstructorsDate = cloneTime(e.ViewDate)
	}
}

func (in *Initializer) applyParticipation(e *domain.Evaluation) {
	if !e.BlankResponsesAllowed.IsSet() {
		e.BlankResponsesAllowed = domain.FlagOf(settings.BoolOr(in.settings, settings.StudentAllowedLeaveUnanswered, false))
	}
	if !e.ModifyResponsesAllowed.IsSet() {
		e.ModifyResponsesAllowed = domain.FlagOf(settings.BoolOr(in.settings, settings.StudentModifyResponses, false))
	}
	if !e.UnregisteredAllowed.IsSet() {
		e.UnregisteredAllowed = domain.FlagDisabled
	}
	if !e.AllRolesParticipate.IsSet() {
		e.AllRolesParticipate = domain.FlagOf(settings.BoolOr(in.settings, settings.AllowAllSiteRolesToRespond, false))
	}
}

func (in *Initializer) applyReminders(e *domain.Evaluation) {
	if e.ReminderDays == nil {
		e.ReminderDays = domain.Ptr(settings.IntOr(in.settings, settings.DefaultEmailReminderFrequency, DefaultReminderDays))
	}

	if e.ReminderFromEmail != nil {
		return
	}
	from, hasFrom := settings.String(in.settings, settings.FromEmailAddress)
	if settings.BoolOr(in.settings, settings.UseAdminAsFromEmail, false) {
		if u, ok := identity.CurrentUser(in.identity); ok && u.HasEmail() {
			from, hasFrom = u.Email, true
		}
	}
	if hasFrom {
		e.ReminderFromEmail = domain.Ptr(from)
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return domain.Ptr(*t)
}
