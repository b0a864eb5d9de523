package timesheet

import (
	"time"
)

// Period is the inclusive date range a single timesheet covers. Values are
// date-only: normalized to midnight UTC, no instant semantics.
type Period struct {
	Start time.Time
	End   time.Time
}

// Date truncates t to a date-only value (midnight UTC).
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey formats a date the way entries are keyed in the grid.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Dates returns every calendar day of the period in order, including both
// endpoints. Returns an empty sequence when Start is after End.
func (p Period) Dates() []time.Time {
	start := Date(p.Start)
	end := Date(p.End)
	if start.After(end) {
		return nil
	}

	days := int(end.Sub(start).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// Contains reports whether the given date falls within the period.
func (p Period) Contains(t time.Time) bool {
	d := Date(t)
	return !d.Before(Date(p.Start)) && !d.After(Date(p.End))
}

func (p Period) String() string {
	return DateKey(p.Start) + " - " + DateKey(p.End)
}

// PeriodContaining returns the bi-monthly period the given date falls in:
// the 1st through the 15th, or the 16th through the last day of the month.
func PeriodContaining(t time.Time) Period {
	d := Date(t)
	firstOfMonth := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	if d.Day() <= 15 {
		return Period{
			Start: firstOfMonth,
			End:   firstOfMonth.AddDate(0, 0, 14),
		}
	}
	lastOfMonth := firstOfMonth.AddDate(0, 1, -1)
	return Period{
		Start: firstOfMonth.AddDate(0, 0, 15),
		End:   lastOfMonth,
	}
}
