package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator instance used for struct validation.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Date field names reported by ValidateDates.
const (
	FieldStartDate = "startDate"
	FieldDueDate   = "dueDate"
	FieldStopDate  = "stopDate"
	FieldViewDate  = "viewDate"
)

// ValidateDates checks the ordering start < due <= stop <= view and returns an
// *InvalidDatesError for the first violation. It never mutates e.
// No rule applies when the due date is absent.
func ValidateDates(e *Evaluation) error {
	if e == nil {
		return ErrInvalidArgument
	}
	if e.DueDate == nil {
		return nil
	}
	due := *e.DueDate

	if e.StartDate == nil {
		return NewInvalidDatesError(FieldStartDate, time.Time{}, FieldDueDate, due,
			"start date must be set when a due date is set")
	}
	if !e.StartDate.Before(due) {
		return NewInvalidDatesError(FieldDueDate, due, FieldStartDate, *e.StartDate,
			"due date must occur after start date, can occur on the same date but not at the same time")
	}

	if e.StopDate != nil {
		if due.After(*e.StopDate) {
			return NewInvalidDatesError(FieldStopDate, *e.StopDate, FieldDueDate, due,
				"stop date must occur on or after due date, can be identical")
		}
		if e.ViewDate != nil && e.ViewDate.Before(*e.StopDate) {
			return NewInvalidDatesError(FieldViewDate, *e.ViewDate, FieldStopDate, *e.StopDate,
				"view date must occur on or after stop date, can be identical")
		}
	}

	if e.ViewDate != nil && e.ViewDate.Before(due) {
		return NewInvalidDatesError(FieldViewDate, *e.ViewDate, FieldDueDate, due,
			"view date must occur on or after due date, can be identical")
	}
	return nil
}
