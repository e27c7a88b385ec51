// Package settings provides the typed configuration lookup consumed by the
// evaluation rules. Every configuration identifier is a Key with a fixed value
// kind and an optional documented default. An absent value means "no override"
// and the consuming rule falls back to its own literal default.
package settings

import "fmt"

// Kind is the value type stored under a Key.
type Kind uint8

const (
	// KindBool keys hold a bool.
	KindBool Kind = iota

	// KindInt keys hold an int.
	KindInt

	// KindString keys hold a string.
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Key identifies a configuration setting.
type Key string

const (
	// ResponsesRequiredToViewResults is the minimum response count before results are viewable.
	ResponsesRequiredToViewResults Key = "RESPONSES_REQUIRED_TO_VIEW_RESULTS"

	// InstructorAllowedViewResults overrides every evaluation's instructor view flag when set.
	InstructorAllowedViewResults Key = "INSTRUCTOR_ALLOWED_VIEW_RESULTS"

	// InstructorAllowedViewAllResults seeds the instructor view-all flag of new evaluations.
	InstructorAllowedViewAllResults Key = "INSTRUCTOR_ALLOWED_VIEW_ALL_RESULTS"

	// StudentAllowedViewResults overrides every evaluation's student view flag when set.
	StudentAllowedViewResults Key = "STUDENT_ALLOWED_VIEW_RESULTS"

	// EvalUseStopDate enables stop dates for evaluations that do not disable them.
	EvalUseStopDate Key = "EVAL_USE_STOP_DATE"

	// EvalUseViewDate enables view dates for evaluations that do not disable them.
	EvalUseViewDate Key = "EVAL_USE_VIEW_DATE"

	// EvalUseSameViewDates forces student and instructor view dates to the shared view date.
	EvalUseSameViewDates Key = "EVAL_USE_SAME_VIEW_DATES"

	// EvalUseDateTime keeps exact times instead of rounding dates to end of day.
	EvalUseDateTime Key = "EVAL_USE_DATE_TIME"

	// EvalMinTimeDiffBetweenStartDue is the minimum number of hours between start and due.
	EvalMinTimeDiffBetweenStartDue Key = "EVAL_MIN_TIME_DIFF_BETWEEN_START_DUE"

	// EvalDefaultStartHour moves default start dates to this hour on the following day.
	EvalDefaultStartHour Key = "EVAL_DEFAULT_START_HOUR"

	// DefaultEmailReminderFrequency is the default number of days between reminders.
	DefaultEmailReminderFrequency Key = "DEFAULT_EMAIL_REMINDER_FREQUENCY"

	// FromEmailAddress is the default reminder sender.
	FromEmailAddress Key = "FROM_EMAIL_ADDRESS"

	// UseAdminAsFromEmail substitutes the acting user's address as reminder sender.
	UseAdminAsFromEmail Key = "USE_ADMIN_AS_FROM_EMAIL"

	// SectionAwareDefault is the default section awareness of new evaluations.
	SectionAwareDefault Key = "SECTION_AWARE_DEFAULT"

	// ResultsSharingDefault is the default results sharing mode of new evaluations.
	ResultsSharingDefault Key = "RESULTS_SHARING_DEFAULT"

	// InstructorViewResponsesDefault is the default instructor view flags of new evaluations.
	InstructorViewResponsesDefault Key = "INSTRUCTOR_VIEW_RESPONSES_DEFAULT"

	// StudentAllowedLeaveUnanswered seeds the blank-responses flag.
	StudentAllowedLeaveUnanswered Key = "STUDENT_ALLOWED_LEAVE_UNANSWERED"

	// StudentModifyResponses seeds the modify-responses flag.
	StudentModifyResponses Key = "STUDENT_MODIFY_RESPONSES"

	// AllowAllSiteRolesToRespond seeds the all-roles-participate flag.
	AllowAllSiteRolesToRespond Key = "ALLOW_ALL_SITE_ROLES_TO_RESPOND"

	// InstructorMustUseEvalsFromAbove is the default instructor opt policy.
	InstructorMustUseEvalsFromAbove Key = "INSTRUCTOR_MUST_USE_EVALS_FROM_ABOVE"

	// ViewSurveyResultsIgnoreDates promotes started evaluations to viewable regardless of dates.
	ViewSurveyResultsIgnoreDates Key = "VIEW_SURVEY_RESULTS_IGNORE_DATES"
)

// definition describes one registered key.
type definition struct {
	kind       Kind
	def        any
	hasDefault bool
}

func withDefault(kind Kind, v any) definition { return definition{kind: kind, def: v, hasDefault: true} }
func noDefault(kind Kind) definition          { return definition{kind: kind} }

// registry lists every known key. Keys without a default are absent unless
// configured, which lets the per-evaluation value win. The three deployment
// defaults carry no registry default; see SystemDefaults.
var registry = map[Key]definition{
	ResponsesRequiredToViewResults:  withDefault(KindInt, 5),
	InstructorAllowedViewResults:    noDefault(KindBool),
	InstructorAllowedViewAllResults: noDefault(KindBool),
	StudentAllowedViewResults:       noDefault(KindBool),
	EvalUseStopDate:                 withDefault(KindBool, false),
	EvalUseViewDate:                 withDefault(KindBool, false),
	EvalUseSameViewDates:            withDefault(KindBool, true),
	EvalUseDateTime:                 withDefault(KindBool, false),
	EvalMinTimeDiffBetweenStartDue:  withDefault(KindInt, 4),
	EvalDefaultStartHour:            noDefault(KindInt),
	DefaultEmailReminderFrequency:   noDefault(KindInt),
	FromEmailAddress:                withDefault(KindString, "helpdesk@institution.edu"),
	UseAdminAsFromEmail:             withDefault(KindBool, false),
	SectionAwareDefault:             noDefault(KindBool),
	ResultsSharingDefault:           noDefault(KindString),
	InstructorViewResponsesDefault:  noDefault(KindBool),
	StudentAllowedLeaveUnanswered:   noDefault(KindBool),
	StudentModifyResponses:          noDefault(KindBool),
	AllowAllSiteRolesToRespond:      noDefault(KindBool),
	InstructorMustUseEvalsFromAbove: noDefault(KindString),
	ViewSurveyResultsIgnoreDates:    withDefault(KindBool, false),
}

// Kind returns the value kind of k. The second result is false for unregistered keys.
func (k Key) Kind() (Kind, bool) {
	d, ok := registry[k]
	return d.kind, ok
}

// Default returns the documented default of k, if it has one.
func (k Key) Default() (any, bool) {
	d, ok := registry[k]
	if !ok || !d.hasDefault {
		return nil, false
	}
	return d.def, true
}

// IsKnown reports whether k is a registered key.
func (k Key) IsKnown() bool {
	_, ok := registry[k]
	return ok
}

// Keys returns every registered key.
func Keys() []Key {
	keys := make([]Key, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	return keys
}

// checkValue verifies v has the kind registered for k.
func checkValue(k Key, v any) error {
	d, ok := registry[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, k)
	}
	var match bool
	switch d.kind {
	case KindBool:
		_, match = v.(bool)
	case KindInt:
		_, match = v.(int)
	case KindString:
		_, match = v.(string)
	}
	if !match {
		return fmt.Errorf("%w: %s wants %s, got %T", ErrWrongKind, k, d.kind, v)
	}
	return nil
}
