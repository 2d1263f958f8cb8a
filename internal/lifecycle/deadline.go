package lifecycle

import "time"

// DeadlinePassed reports whether the calendar day of now is after the calendar
// day of deadline. Both are read in now's location, so a deadline stays open
// for its whole listed day. A nil deadline never passes.
func DeadlinePassed(deadline *time.Time, now time.Time) bool {
	if deadline == nil || deadline.IsZero() {
		return false
	}
	return dayOf(now).After(dayOf(deadline.In(now.Location())))
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
