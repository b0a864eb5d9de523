package timesheet

import (
	"context"
	"time"
)

// StubRepository is an in-memory Repository for tests.
type StubRepository struct {
	timesheets  map[int]Timesheet
	entries     map[int]TimeEntry
	nextTsId    int
	nextEntryId int
}

func NewStubRepository() *StubRepository {
	return &StubRepository{
		timesheets:  make(map[int]Timesheet),
		entries:     make(map[int]TimeEntry),
		nextTsId:    1,
		nextEntryId: 1,
	}
}

func (r *StubRepository) CreateTimesheet(_ context.Context, ts Timesheet) (int, error) {
	ts.Id = r.nextTsId
	r.nextTsId++
	r.timesheets[ts.Id] = ts
	return ts.Id, nil
}

func (r *StubRepository) GetTimesheet(_ context.Context, id int) (Timesheet, error) {
	ts, ok := r.timesheets[id]
	if !ok {
		return Timesheet{}, ErrTimesheetNotFound
	}
	return ts, nil
}

func (r *StubRepository) FindByPeriod(_ context.Context, userId int, period Period) (Timesheet, error) {
	for _, ts := range r.timesheets {
		if ts.UserId == userId && ts.Period.Start.Equal(period.Start) {
			return ts, nil
		}
	}
	return Timesheet{}, ErrTimesheetNotFound
}

func (r *StubRepository) ListForUser(_ context.Context, userId int) ([]Timesheet, error) {
	var result []Timesheet
	for id := 1; id < r.nextTsId; id++ {
		if ts, ok := r.timesheets[id]; ok && ts.UserId == userId {
			result = append(result, ts)
		}
	}
	return result, nil
}

func (r *StubRepository) SaveTotals(_ context.Context, id int, totalHours float64) error {
	ts, ok := r.timesheets[id]
	if !ok {
		return ErrTimesheetNotFound
	}
	ts.TotalHours = totalHours
	r.timesheets[id] = ts
	return nil
}

func (r *StubRepository) MarkSubmitted(_ context.Context, id int, totalHours float64, submittedAt time.Time) error {
	ts, ok := r.timesheets[id]
	if !ok {
		return ErrTimesheetNotFound
	}
	ts.Status = StatusSubmitted
	ts.TotalHours = totalHours
	ts.SubmittedAt = submittedAt
	ts.RejectionReason = ""
	r.timesheets[id] = ts
	return nil
}

func (r *StubRepository) MarkApproved(_ context.Context, id int, approvedAt time.Time, approvedBy int) error {
	ts, ok := r.timesheets[id]
	if !ok {
		return ErrTimesheetNotFound
	}
	ts.Status = StatusApproved
	ts.ApprovedAt = approvedAt
	ts.ApprovedBy = approvedBy
	r.timesheets[id] = ts
	return nil
}

func (r *StubRepository) MarkRejected(_ context.Context, id int, reason string) error {
	ts, ok := r.timesheets[id]
	if !ok {
		return ErrTimesheetNotFound
	}
	ts.Status = StatusRejected
	ts.RejectionReason = reason
	r.timesheets[id] = ts
	return nil
}

func (r *StubRepository) GetEntries(_ context.Context, timesheetId int) ([]TimeEntry, error) {
	var result []TimeEntry
	for id := 1; id < r.nextEntryId; id++ {
		if e, ok := r.entries[id]; ok && e.TimesheetId == timesheetId {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *StubRepository) GetEntry(_ context.Context, entryId int) (TimeEntry, error) {
	e, ok := r.entries[entryId]
	if !ok {
		return TimeEntry{}, ErrEntryNotFound
	}
	return e, nil
}

func (r *StubRepository) InsertEntries(_ context.Context, entries []TimeEntry) error {
	for _, e := range entries {
		e.Id = r.nextEntryId
		r.nextEntryId++
		r.entries[e.Id] = e
	}
	return nil
}

func (r *StubRepository) UpdateEntryHours(_ context.Context, entryId int, hours float64) error {
	e, ok := r.entries[entryId]
	if !ok {
		return ErrEntryNotFound
	}
	e.Hours = hours
	r.entries[entryId] = e
	return nil
}

func (r *StubRepository) Cleanup() {
	r.timesheets = make(map[int]Timesheet)
	r.entries = make(map[int]TimeEntry)
	r.nextTsId = 1
	r.nextEntryId = 1
}
