package domain

import "time"

// EndOfDay returns 23:59:59 on t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// SafeDueDate returns the first set date among due, stop, view and start.
// Returns nil only when none of them is set.
func (e *Evaluation) SafeDueDate() *time.Time {
	for _, t := range []*time.Time{e.DueDate, e.StopDate, e.ViewDate, e.StartDate} {
		if t != nil {
			return Ptr(*t)
		}
	}
	return nil
}

// SafeViewDate returns the later of the view and due dates.
// When only one is set it is returned; when neither is, SafeDueDate is used.
func (e *Evaluation) SafeViewDate() *time.Time {
	switch {
	case e.ViewDate != nil && e.DueDate != nil:
		if e.ViewDate.Before(*e.DueDate) {
			return Ptr(*e.DueDate)
		}
		return Ptr(*e.ViewDate)
	case e.ViewDate != nil:
		return Ptr(*e.ViewDate)
	case e.DueDate != nil:
		return Ptr(*e.DueDate)
	default:
		return e.SafeDueDate()
	}
}
