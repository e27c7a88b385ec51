package domain

import (
	"errors"
	"testing"
	"time"
)

func FuzzValidateDates(f *testing.F) {
	f.Add(int64(0), int64(3600), int64(3600), int64(7200), true, true, true)
	f.Add(int64(0), int64(0), int64(0), int64(0), true, false, true)
	f.Add(int64(100), int64(50), int64(0), int64(0), false, false, false)

	f.Fuzz(func(t *testing.T, start, due, stop, view int64, dueSet, stopSet, viewSet bool) {
		at := func(set bool, secs int64) *time.Time {
			if !set {
				return nil
			}
			return Ptr(time.Unix(secs, 0).UTC())
		}
		e := Evaluation{
			StartDate: at(true, start),
			DueDate:   at(dueSet, due),
			StopDate:  at(stopSet, stop),
			ViewDate:  at(viewSet, view),
		}

		err := ValidateDates(&e)
		if err == nil {
			return
		}
		if !errors.Is(err, ErrInvalidDates) {
			t.Fatalf("unexpected error kind: %v", err)
		}
		var datesErr *InvalidDatesError
		if !errors.As(err, &datesErr) {
			t.Fatalf("error is not *InvalidDatesError: %T", err)
		}
		switch datesErr.Field {
		case FieldDueDate, FieldStopDate, FieldViewDate:
		default:
			t.Fatalf("unexpected field %q", datesErr.Field)
		}
	})
}
