package visibility

import (
	"time"

	"github.com/ahrav/go-evalrules/internal/domain"
	"github.com/ahrav/go-evalrules/internal/identity"
	"github.com/ahrav/go-evalrules/internal/settings"
)

// Decision is the outcome of the instructor visibility rules for one evaluation.
type Decision struct {
	// Viewable reports whether instructors may view results.
	Viewable bool

	// Date is when instructors may view results. It is nil whenever Viewable
	// is false, and may also be nil for a viewable evaluation with no dates.
	Date *time.Time

	// Forced reports that viewability came from a promoted state rather than
	// the evaluation's natural lifecycle.
	Forced bool
}

// Resolver applies the visibility rules using the configured settings.
type Resolver struct {
	settings    settings.Provider
	identity    identity.Resolver
	viewability Viewability
}

// NewResolver creates a resolver. A nil viewability selects
// SettingsViewability over p.
func NewResolver(p settings.Provider, id identity.Resolver, viewability Viewability) *Resolver {
	if viewability == nil {
		viewability = SettingsViewability{Settings: p}
	}
	return &Resolver{settings: p, identity: id, viewability: viewability}
}

// ResponsesNeeded applies ResponsesNeededToView for the current actor and the
// configured minimum response count.
func (r *Resolver) ResponsesNeeded(responses, enrollments int) int {
	minResponses := settings.IntOr(r.settings, settings.ResponsesRequiredToViewResults, 0)
	return ResponsesNeededToView(responses, enrollments, identity.IsCurrentUserAdmin(r.identity), minResponses)
}

// CheckUserPermission reports whether userID is an administrator or ownerID.
func (r *Resolver) CheckUserPermission(userID, ownerID string) bool {
	return identity.CheckUserPermission(r.identity, userID, ownerID)
}

// InstructorCanViewResults reports whether instructors may view the results of
// e. A non-empty stateOverride replaces the computed viewability state.
func (r *Resolver) InstructorCanViewResults(e *domain.Evaluation, stateOverride domain.State) bool {
	return r.Decide(e, stateOverride).Viewable
}

// InstructorViewDate returns when instructors may view the results of e,
// or nil when they may not.
func (r *Resolver) InstructorViewDate(e *domain.Evaluation) *time.Time {
	return r.Decide(e, "").Date
}

// Decide runs the shared eligibility computation behind InstructorCanViewResults
// and InstructorViewDate.
func (r *Resolver) Decide(e *domain.Evaluation, stateOverride domain.State) Decision {
	if e == nil || e.State.IsDeleted() {
		return Decision{}
	}

	effective := stateOverride
	if effective == "" {
		effective = r.viewability.Calculate(e.State)
	}
	if !effective.IsAfter(domain.StateInQueue, false) {
		return Decision{}
	}

	var d Decision
	switch {
	case e.State.IsBefore(domain.StateViewable, false) &&
		r.viewability.Calculate(effective).IsAfter(domain.StateViewable, true):
		d.Forced = true
		d.Date = cloneTime(e.StartDate)
	case effective.IsAfter(domain.StateViewable, true):
		d.Date = e.SafeViewDate()
	default:
		return Decision{}
	}

	if allowed, ok := settings.Bool(r.settings, settings.InstructorAllowedViewResults); ok {
		d.Viewable = allowed
	} else {
		d.Viewable = e.InstructorViewResults.Enabled()
	}
	if !d.Viewable {
		return Decision{}
	}

	if e.InstructorsDate != nil {
		d.Date = cloneTime(e.InstructorsDate)
	}
	return d
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
