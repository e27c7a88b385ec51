// Package domain provides the evaluation entity and the lifecycle rules shared
// by the defaults, fixup, and visibility packages. It defines lifecycle state
// ordering, the results-sharing policy, tri-state use flags, and the final
// date-ordering check run before an evaluation is persisted.
package domain

import (
	"fmt"
	"time"
)

// EvaluationType is the kind of evaluation.
type EvaluationType string

const (
	// TypeEvaluation is the generic evaluation type used when none is supplied.
	TypeEvaluation EvaluationType = "Evaluation"

	// TypePool marks an evaluation that pools responses across groups.
	TypePool EvaluationType = "Pool"
)

// ResultsSharing is the coarse-grained policy that decides whether the
// per-audience view flags are honored, forced off, or forced on.
type ResultsSharing string

const (
	// SharingVisible honors the per-audience view flags.
	SharingVisible ResultsSharing = "visible"

	// SharingPrivate hides results from students and instructors.
	SharingPrivate ResultsSharing = "private"

	// SharingPublic shows results to everyone from the view date.
	SharingPublic ResultsSharing = "public"
)

// ParseResultsSharing returns the sharing mode named by s.
// The second result is false when s is not one of the recognized modes.
func ParseResultsSharing(s string) (ResultsSharing, bool) {
	switch rs := ResultsSharing(s); rs {
	case SharingVisible, SharingPrivate, SharingPublic:
		return rs, true
	default:
		return "", false
	}
}

// InstructorOpt is the policy deciding whether instructors must use
// evaluations assigned from above.
type InstructorOpt string

const (
	// InstructorOptIn lets instructors choose to use the evaluation.
	InstructorOptIn InstructorOpt = "opt_in"

	// InstructorOptOut uses the evaluation unless instructors opt out.
	InstructorOptOut InstructorOpt = "opt_out"

	// InstructorRequired forces instructors to use the evaluation.
	InstructorRequired InstructorOpt = "required"
)

// Evaluation is the lifecycle record whose dates and visibility flags are
// computed by this module. Absent dates are nil; absent booleans are FlagUnset.
//
// Components treat an Evaluation as a value: they take a pointer for input,
// never mutate it, and return a new Evaluation built from Clone.
type Evaluation struct {
	// ID is empty until the evaluation has been persisted.
	ID string `json:"id,omitempty"`

	Type  EvaluationType `json:"type,omitempty" validate:"omitempty,oneof=Evaluation Pool"`
	State State          `json:"state,omitempty" validate:"omitempty,oneof=Partial InQueue Active GracePeriod Closed Viewable Deleted"`

	// OwnerID identifies the user who created the evaluation.
	OwnerID string `json:"owner_id,omitempty"`

	// Category is a free-text tag that must be embeddable in an entity reference.
	Category string `json:"category,omitempty" validate:"max=255"`

	StartDate       *time.Time `json:"start_date,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	StopDate        *time.Time `json:"stop_date,omitempty"`
	ViewDate        *time.Time `json:"view_date,omitempty"`
	StudentsDate    *time.Time `json:"students_date,omitempty"`
	InstructorsDate *time.Time `json:"instructors_date,omitempty"`

	UseDueDate      Flag `json:"use_due_date"`
	UseStopDate     Flag `json:"use_stop_date"`
	UseViewDate     Flag `json:"use_view_date"`
	CustomStartDate Flag `json:"custom_start_date"`

	ResultsSharing           ResultsSharing `json:"results_sharing,omitempty" validate:"omitempty,oneof=visible private public"`
	StudentViewResults       Flag           `json:"student_view_results"`
	InstructorViewResults    Flag           `json:"instructor_view_results"`
	InstructorViewAllResults Flag           `json:"instructor_view_all_results"`

	BlankResponsesAllowed  Flag `json:"blank_responses_allowed"`
	ModifyResponsesAllowed Flag `json:"modify_responses_allowed"`
	UnregisteredAllowed    Flag `json:"unregistered_allowed"`
	AllRolesParticipate    Flag `json:"all_roles_participate"`
	SectionAwareness       Flag `json:"section_awareness"`

	ReminderDays      *int          `json:"reminder_days,omitempty" validate:"omitempty,min=0"`
	ReminderFromEmail *string       `json:"reminder_from_email,omitempty" validate:"omitempty,email"`
	InstructorOpt     InstructorOpt `json:"instructor_opt,omitempty" validate:"omitempty,oneof=opt_in opt_out required"`
}

// IsPersisted reports whether the evaluation has an identity.
func (e *Evaluation) IsPersisted() bool { return e.ID != "" }

// Validate checks enumerated fields and simple constraints.
// Date ordering is checked separately by ValidateDates.
func (e *Evaluation) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEvaluation, err)
	}
	return nil
}

// Clone returns a deep copy of e so the copy's pointer fields can be replaced
// or modified without affecting e.
func (e *Evaluation) Clone() Evaluation {
	c := *e
	c.StartDate = cloneTime(e.StartDate)
	c.DueDate = cloneTime(e.DueDate)
	c.StopDate = cloneTime(e.StopDate)
	c.ViewDate = cloneTime(e.ViewDate)
	c.StudentsDate = cloneTime(e.StudentsDate)
	c.InstructorsDate = cloneTime(e.InstructorsDate)
	if e.ReminderDays != nil {
		c.ReminderDays = Ptr(*e.ReminderDays)
	}
	if e.ReminderFromEmail != nil {
		c.ReminderFromEmail = Ptr(*e.ReminderFromEmail)
	}
	return c
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T { return &v }

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	return Ptr(*t)
}
