// Package fixup normalizes the dates of an evaluation being created or edited
// so that it can be saved with a consistent schedule.
package fixup

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/facebookgo/clock"

	"github.com/ahrav/go-evalrules/internal/domain"
	"github.com/ahrav/go-evalrules/internal/settings"
)

const (
	// DefaultStartDelay is how far after now an unset start date is placed.
	DefaultStartDelay = time.Hour

	// DueDateGrace is how far after the start a due date that does not follow
	// the start is moved.
	DueDateGrace = 25 * time.Hour
)

// Engine repairs evaluation dates using the configured settings.
type Engine struct {
	settings settings.Provider
	clock    clock.Clock
	logger   *slog.Logger
}

// NewEngine creates an Engine. A nil clock uses the wall clock and a nil
// logger uses slog.Default().
func NewEngine(p settings.Provider, clk clock.Clock, logger *slog.Logger) *Engine {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{settings: p, clock: clk, logger: logger}
}

// FixupDates returns a copy of e with its dates normalized. When ignoreMinGap
// is true the configured minimum start-to-due gap is not enforced.
func (f *Engine) FixupDates(e *domain.Evaluation, ignoreMinGap bool) (domain.Evaluation, error) {
	return f.FixupDatesAt(e, ignoreMinGap, f.clock.Now())
}

// FixupDatesAt is FixupDates with an explicit now. Applying it twice with the
// same now yields the same evaluation as applying it once.
func (f *Engine) FixupDatesAt(e *domain.Evaluation, ignoreMinGap bool, now time.Time) (domain.Evaluation, error) {
	if e == nil {
		return domain.Evaluation{}, fmt.Errorf("%w: evaluation must be set to fix dates", domain.ErrInvalidArgument)
	}
	out := e.Clone()

	useDue := out.UseDueDate.Or(true)
	useStop := !out.UseStopDate.Disabled() && settings.BoolOr(f.settings, settings.EvalUseStopDate, false)
	useView := !out.UseViewDate.Disabled() && settings.BoolOr(f.settings, settings.EvalUseViewDate, false)
	useDateTime := settings.BoolOr(f.settings, settings.EvalUseDateTime, false)

	if out.StartDate == nil {
		out.StartDate = domain.Ptr(now.Add(DefaultStartDelay))
		f.logger.Debug("Setting start date to default", "start_date", *out.StartDate)
	}
	if out.StartDate.After(now) && out.CustomStartDate.Disabled() {
		out.StartDate = domain.Ptr(now)
	}

	if !useDue {
		out.DueDate, out.StopDate, out.ViewDate = nil, nil, nil
	}

	if out.DueDate != nil && !out.DueDate.After(*out.StartDate) {
		out.DueDate = domain.Ptr(out.StartDate.Add(DueDateGrace))
	}

	roundDue := !useDateTime && out.State.IsBefore(domain.StateGracePeriod, false)
	if roundDue && out.DueDate != nil {
		out.DueDate = f.endOfDay("due_date", *out.DueDate)
	}

	if !useStop {
		out.StopDate = nil
	}
	roundStop := !useDateTime && out.State.IsBefore(domain.StateClosed, false)
	if roundStop && out.StopDate != nil {
		out.StopDate = f.endOfDay("stop_date", *out.StopDate)
	}

	if out.DueDate != nil {
		minHours := 0
		if !ignoreMinGap {
			minHours = settings.IntOr(f.settings, settings.EvalMinTimeDiffBetweenStartDue, 0)
		}
		if AdjustForMinimumGap(&out, minHours) {
			f.logger.Debug("Adjusted due date for minimum gap",
				"min_hours", minHours,
				"due_date", *out.DueDate)
			// Re-round so a second pass finds nothing to move.
			if roundDue {
				out.DueDate = f.endOfDay("due_date", *out.DueDate)
			}
			if out.StopDate != nil && out.StopDate.Before(*out.DueDate) {
				out.StopDate = domain.Ptr(*out.DueDate)
			}
			if roundStop && out.StopDate != nil {
				out.StopDate = f.endOfDay("stop_date", *out.StopDate)
			}
		}
	}

	if !useView && out.State.IsBefore(domain.StateActive, false) {
		out.ViewDate = nil
	}
	roundView := !useDateTime && out.State.IsBefore(domain.StateViewable, false)
	if roundView && out.ViewDate != nil {
		out.ViewDate = f.endOfDay("view_date", *out.ViewDate)
	}

	if out.ViewDate != nil && out.DueDate != nil && out.ViewDate.Before(*out.DueDate) {
		out.ViewDate = domain.Ptr(*out.DueDate)
		if roundView {
			out.ViewDate = f.endOfDay("view_date", *out.ViewDate)
		}
	}

	if settings.BoolOr(f.settings, settings.EvalUseSameViewDates, false) {
		if out.StudentViewResults.Enabled() {
			out.StudentsDate = cloneTime(out.ViewDate)
		}
		if out.InstructorViewResults.Enabled() {
			out.InstructorsDate = cloneTime(out.ViewDate)
		}
	}
	if out.StudentViewResults.Disabled() {
		out.StudentsDate = nil
	}
	if out.InstructorViewResults.Disabled() {
		out.InstructorsDate = nil
	}
	return out, nil
}

func (f *Engine) endOfDay(field string, t time.Time) *time.Time {
	eod := domain.EndOfDay(t)
	if !eod.Equal(t) {
		f.logger.Info("Forcing date to end of day", "field", field, "date", t)
	}
	return &eod
}

// AdjustForMinimumGap moves the due date of e to at least minHours after the
// start date, and the stop date to the due date when it would precede it.
// It modifies e in place and reports whether anything changed. Evaluations
// without a start or due date are left alone.
func AdjustForMinimumGap(e *domain.Evaluation, minHours int) bool {
	if e == nil || e.StartDate == nil || e.DueDate == nil {
		return false
	}

	changed := false
	earliest := e.StartDate.Add(time.Duration(minHours) * time.Hour)
	if e.DueDate.Before(earliest) {
		e.DueDate = domain.Ptr(earliest)
		changed = true
	}
	if e.StopDate != nil && e.StopDate.Before(*e.DueDate) {
		e.StopDate = domain.Ptr(*e.DueDate)
		changed = true
	}
	return changed
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return domain.Ptr(*t)
}
