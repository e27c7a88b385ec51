package domain

import (
	"testing"
	"testing/quick"
	"time"
)

var propBase = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// offsetDate maps a small integer to a date near propBase, or nil when unset.
func offsetDate(set bool, hours int16) *time.Time {
	if !set {
		return nil
	}
	return Ptr(propBase.Add(time.Duration(hours) * time.Hour))
}

// Property: whenever ValidateDates accepts, start < due <= stop <= view holds
// for every present field.
func TestValidateDates_OrderingInvariant_Property(t *testing.T) {
	f := func(dueSet, stopSet, viewSet bool, start, due, stop, view int16) bool {
		e := Evaluation{
			StartDate: offsetDate(true, start),
			DueDate:   offsetDate(dueSet, due),
			StopDate:  offsetDate(stopSet, stop),
			ViewDate:  offsetDate(viewSet, view),
		}
		if ValidateDates(&e) != nil {
			return true
		}
		if e.DueDate == nil {
			return true
		}
		if !e.StartDate.Before(*e.DueDate) {
			return false
		}
		if e.StopDate != nil && e.StopDate.Before(*e.DueDate) {
			return false
		}
		if e.ViewDate != nil {
			if e.ViewDate.Before(*e.DueDate) {
				return false
			}
			if e.StopDate != nil && e.ViewDate.Before(*e.StopDate) {
				return false
			}
		}
		return true
	}

	if err := quick.Check(f, nil); err != nil {
		t.Errorf("ordering invariant property failed: %v", err)
	}
}

// Property: IsAfter and IsBefore are mirror images for every ordered pair.
func TestState_Mirror_Property(t *testing.T) {
	states := OrderedStates()
	f := func(a, b uint8, orEqual bool) bool {
		sa := states[int(a)%len(states)]
		sb := states[int(b)%len(states)]
		return sa.IsAfter(sb, orEqual) == sb.IsBefore(sa, orEqual)
	}

	if err := quick.Check(f, nil); err != nil {
		t.Errorf("state mirror property failed: %v", err)
	}
}
