package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument indicates a missing or nil required input, such as an absent evaluation.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidDates indicates that an evaluation's dates are in an illegal order.
var ErrInvalidDates = errors.New("invalid evaluation dates")

// ErrInvalidCategory indicates that a category cannot be embedded in an entity reference.
var ErrInvalidCategory = errors.New("invalid evaluation category")

// ErrInvalidEvaluation indicates that an evaluation carries malformed field values.
var ErrInvalidEvaluation = errors.New("invalid evaluation")

// InvalidDatesError reports the date field that broke the ordering rules
// together with both compared dates.
type InvalidDatesError struct {
	// Field is the offending field name, e.g. "dueDate".
	Field string

	// Date is the offending field's value.
	Date time.Time

	// OtherField is the field Date was compared against.
	OtherField string

	// Other is the value of OtherField.
	Other time.Time

	// Message describes the violated rule.
	Message string
}

// Error returns a formatted message naming the field and both dates.
func (e *InvalidDatesError) Error() string {
	return fmt.Sprintf("invalid %s (%s): %s (%s %s)",
		e.Field, e.Date.Format(time.RFC3339), e.Message, e.OtherField, e.Other.Format(time.RFC3339))
}

// Is makes errors.Is(err, ErrInvalidDates) match.
func (e *InvalidDatesError) Is(target error) bool { return target == ErrInvalidDates }

// NewInvalidDatesError creates an InvalidDatesError for field compared against otherField.
func NewInvalidDatesError(field string, date time.Time, otherField string, other time.Time, message string) *InvalidDatesError {
	return &InvalidDatesError{
		Field:      field,
		Date:       date,
		OtherField: otherField,
		Other:      other,
		Message:    message,
	}
}

// InvalidCategoryError reports a category that could not be turned into an entity reference.
type InvalidCategoryError struct {
	Category string
	Err      error
}

// Error returns the category and the underlying reason.
func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid evaluation category %q: %v", e.Category, e.Err)
}

// Unwrap returns the reference builder's error.
func (e *InvalidCategoryError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidCategory) match.
func (e *InvalidCategoryError) Is(target error) bool { return target == ErrInvalidCategory }
