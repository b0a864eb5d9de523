package timesheet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/archsheet/archsheet/internal/event_bus"
	"github.com/archsheet/archsheet/internal/utils"
	"github.com/archsheet/archsheet/pkg/user"
	log "github.com/sirupsen/logrus"
)

var (
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrEntryNotFound     = errors.New("time entry not found")
	// ErrTimesheetReadOnly is returned for any mutation attempted after the
	// sheet left draft, even when the caller bypasses the UI gating.
	ErrTimesheetReadOnly = errors.New("timesheet is no longer editable")
	ErrEntryGroupExists  = errors.New("this project and phase combination already exists in the timesheet")
	ErrInvalidHours      = errors.New("hours must be a number between 0 and 24")
	ErrTimesheetExists   = errors.New("a timesheet already exists for this period")
	ErrNotSubmitted      = errors.New("timesheet is not awaiting review")
	ErrReviewForbidden   = errors.New("only managers can review timesheets")
)

type Service interface {
	ListTimesheets(ctx context.Context) ([]Timesheet, error)
	// CreateForDate opens a new draft for the bi-monthly period containing
	// the given date.
	CreateForDate(ctx context.Context, date time.Time) (Timesheet, error)
	GetTimesheet(ctx context.Context, id int) (Timesheet, []TimeEntry, error)
	// AddProjectPhase expands a new (project, phase) row into one zero-hour
	// entry per period date and returns the re-fetched entry collection.
	AddProjectPhase(ctx context.Context, timesheetId int, projectId int, phaseId int) ([]TimeEntry, error)
	// UpdateEntryHours validates the raw value and persists a single cell.
	UpdateEntryHours(ctx context.Context, entryId int, rawHours string) (TimeEntry, error)
	SaveDraft(ctx context.Context, timesheetId int) (Timesheet, error)
	Submit(ctx context.Context, timesheetId int) (Timesheet, error)
	Approve(ctx context.Context, timesheetId int) (Timesheet, error)
	Reject(ctx context.Context, timesheetId int, reason string) (Timesheet, error)
}

type ServiceImpl struct {
	repo     Repository
	clock    utils.Clock
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock, eventBus: eventBus}
}

func (s *ServiceImpl) ListTimesheets(ctx context.Context) ([]Timesheet, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListForUser(ctx, userId)
}

func (s *ServiceImpl) CreateForDate(ctx context.Context, date time.Time) (Timesheet, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Timesheet{}, fmt.Errorf("failed to get current user: %w", err)
	}

	period := PeriodContaining(date)
	_, err = s.repo.FindByPeriod(ctx, userId, period)
	if err == nil {
		return Timesheet{}, ErrTimesheetExists
	}
	if !errors.Is(err, ErrTimesheetNotFound) {
		return Timesheet{}, err
	}

	ts := Timesheet{
		UserId: userId,
		Period: period,
		Status: StatusDraft,
	}
	id, err := s.repo.CreateTimesheet(ctx, ts)
	if err != nil {
		return Timesheet{}, err
	}
	ts.Id = id
	return ts, nil
}

func (s *ServiceImpl) GetTimesheet(ctx context.Context, id int) (Timesheet, []TimeEntry, error) {
	ts, err := s.ownedTimesheet(ctx, id)
	if err != nil {
		return Timesheet{}, nil, err
	}
	entries, err := s.repo.GetEntries(ctx, id)
	if err != nil {
		return Timesheet{}, nil, err
	}
	return ts, entries, nil
}

func (s *ServiceImpl) AddProjectPhase(ctx context.Context, timesheetId int, projectId int, phaseId int) ([]TimeEntry, error) {
	ts, err := s.ownedTimesheet(ctx, timesheetId)
	if err != nil {
		return nil, err
	}
	if !ts.Status.Editable() {
		return nil, ErrTimesheetReadOnly
	}

	entries, err := s.repo.GetEntries(ctx, timesheetId)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ProjectId == projectId && entry.PhaseId == phaseId {
			return nil, ErrEntryGroupExists
		}
	}

	dates := ts.Period.Dates()
	newEntries := make([]TimeEntry, 0, len(dates))
	for _, date := range dates {
		newEntries = append(newEntries, TimeEntry{
			TimesheetId: timesheetId,
			ProjectId:   projectId,
			PhaseId:     phaseId,
			Date:        date,
			Hours:       0,
		})
	}
	if err := s.repo.InsertEntries(ctx, newEntries); err != nil {
		return nil, err
	}

	// Re-fetch instead of merging locally so the grid reflects persisted
	// state exactly.
	return s.repo.GetEntries(ctx, timesheetId)
}

func (s *ServiceImpl) UpdateEntryHours(ctx context.Context, entryId int, rawHours string) (TimeEntry, error) {
	hours, err := ParseHours(rawHours)
	if err != nil {
		return TimeEntry{}, err
	}

	entry, err := s.repo.GetEntry(ctx, entryId)
	if err != nil {
		return TimeEntry{}, err
	}
	ts, err := s.ownedTimesheet(ctx, entry.TimesheetId)
	if err != nil {
		return TimeEntry{}, err
	}
	if !ts.Status.Editable() {
		return TimeEntry{}, ErrTimesheetReadOnly
	}

	if err := s.repo.UpdateEntryHours(ctx, entryId, hours); err != nil {
		return TimeEntry{}, err
	}
	entry.Hours = hours
	return entry, nil
}

func (s *ServiceImpl) SaveDraft(ctx context.Context, timesheetId int) (Timesheet, error) {
	ts, err := s.ownedTimesheet(ctx, timesheetId)
	if err != nil {
		return Timesheet{}, err
	}
	if !ts.Status.Editable() {
		return Timesheet{}, ErrTimesheetReadOnly
	}

	entries, err := s.repo.GetEntries(ctx, timesheetId)
	if err != nil {
		return Timesheet{}, err
	}
	total := TotalHours(entries)
	if err := s.repo.SaveTotals(ctx, timesheetId, total); err != nil {
		return Timesheet{}, err
	}
	ts.TotalHours = total
	return ts, nil
}

// Submit transitions a draft to submitted. Any draft is submittable; there is
// deliberately no minimum-hours guard.
func (s *ServiceImpl) Submit(ctx context.Context, timesheetId int) (Timesheet, error) {
	ts, err := s.ownedTimesheet(ctx, timesheetId)
	if err != nil {
		return Timesheet{}, err
	}
	if !ts.Status.Editable() {
		return Timesheet{}, ErrTimesheetReadOnly
	}

	entries, err := s.repo.GetEntries(ctx, timesheetId)
	if err != nil {
		return Timesheet{}, err
	}
	total := TotalHours(entries)
	submittedAt := s.clock.Now()
	if err := s.repo.MarkSubmitted(ctx, timesheetId, total, submittedAt); err != nil {
		return Timesheet{}, err
	}
	ts.Status = StatusSubmitted
	ts.TotalHours = total
	ts.SubmittedAt = submittedAt

	s.publish(ctx, event_bus.TimesheetSubmittedEvent, event_bus.TimesheetSubmitted{
		TimesheetId: ts.Id,
		OwnerId:     ts.UserId,
		PeriodStart: ts.Period.Start,
		PeriodEnd:   ts.Period.End,
		TotalHours:  total,
	})
	return ts, nil
}

func (s *ServiceImpl) Approve(ctx context.Context, timesheetId int) (Timesheet, error) {
	reviewer, ts, err := s.reviewableTimesheet(ctx, timesheetId)
	if err != nil {
		return Timesheet{}, err
	}

	approvedAt := s.clock.Now()
	if err := s.repo.MarkApproved(ctx, timesheetId, approvedAt, reviewer.Id); err != nil {
		return Timesheet{}, err
	}
	ts.Status = StatusApproved
	ts.ApprovedAt = approvedAt
	ts.ApprovedBy = reviewer.Id

	s.publish(ctx, event_bus.TimesheetApprovedEvent, event_bus.TimesheetApproved{
		TimesheetId: ts.Id,
		OwnerId:     ts.UserId,
		ApproverId:  reviewer.Id,
	})
	return ts, nil
}

func (s *ServiceImpl) Reject(ctx context.Context, timesheetId int, reason string) (Timesheet, error) {
	reviewer, ts, err := s.reviewableTimesheet(ctx, timesheetId)
	if err != nil {
		return Timesheet{}, err
	}

	if err := s.repo.MarkRejected(ctx, timesheetId, reason); err != nil {
		return Timesheet{}, err
	}
	ts.Status = StatusRejected
	ts.RejectionReason = reason

	s.publish(ctx, event_bus.TimesheetRejectedEvent, event_bus.TimesheetRejected{
		TimesheetId: ts.Id,
		OwnerId:     ts.UserId,
		ReviewerId:  reviewer.Id,
		Reason:      reason,
	})
	return ts, nil
}

// ownedTimesheet loads a timesheet and verifies the current user owns it.
// Foreign timesheets are reported as not found, not as forbidden.
func (s *ServiceImpl) ownedTimesheet(ctx context.Context, id int) (Timesheet, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Timesheet{}, fmt.Errorf("failed to get current user: %w", err)
	}
	ts, err := s.repo.GetTimesheet(ctx, id)
	if err != nil {
		return Timesheet{}, err
	}
	if ts.UserId != userId {
		log.Warnf("user %d attempted to access timesheet %d owned by user %d", userId, id, ts.UserId)
		return Timesheet{}, ErrTimesheetNotFound
	}
	return ts, nil
}

func (s *ServiceImpl) reviewableTimesheet(ctx context.Context, id int) (user.User, Timesheet, error) {
	reviewer, err := user.CurrentUser(ctx)
	if err != nil {
		return user.User{}, Timesheet{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if !reviewer.IsManager() {
		return user.User{}, Timesheet{}, ErrReviewForbidden
	}
	ts, err := s.repo.GetTimesheet(ctx, id)
	if err != nil {
		return user.User{}, Timesheet{}, err
	}
	if !ts.Status.Reviewable() {
		return user.User{}, Timesheet{}, ErrNotSubmitted
	}
	return reviewer, ts, nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
	}
}
