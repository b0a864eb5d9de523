package timesheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archsheet/archsheet/internal/event_bus"
	"github.com/archsheet/archsheet/internal/utils"
	"github.com/archsheet/archsheet/pkg/user"
)

var (
	owner    = user.User{Id: 1, Uid: "owner-uid", Email: "drafter@firm.test", Role: user.RoleEmployee}
	manager  = user.User{Id: 2, Uid: "manager-uid", Email: "manager@firm.test", Role: user.RoleManager}
	coworker = user.User{Id: 3, Uid: "coworker-uid", Email: "coworker@firm.test", Role: user.RoleEmployee}
)

func setupService(t *testing.T) (*ServiceImpl, *StubRepository, *utils.MockClock, *event_bus.EventBus) {
	t.Helper()
	repo := NewStubRepository()
	clock := &utils.MockClock{FixedNow: date("2024-01-05")}
	bus := event_bus.NewEventBus()
	return NewService(repo, clock, bus), repo, clock, bus
}

func asUser(u user.User) context.Context {
	return user.WithUser(context.Background(), u)
}

func createDraft(t *testing.T, service *ServiceImpl, ctx context.Context) Timesheet {
	t.Helper()
	ts, err := service.CreateForDate(ctx, date("2024-01-03"))
	require.NoError(t, err)
	return ts
}

func TestCreateForDate(t *testing.T) {
	t.Run("creates a draft for the containing period", func(t *testing.T) {
		// given
		service, _, _, _ := setupService(t)

		// when
		ts, err := service.CreateForDate(asUser(owner), date("2024-01-03"))

		// then
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, ts.Status)
		assert.Equal(t, date("2024-01-01"), ts.Period.Start)
		assert.Equal(t, date("2024-01-15"), ts.Period.End)
		assert.Equal(t, owner.Id, ts.UserId)
	})

	t.Run("rejects a second timesheet for the same period", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		createDraft(t, service, asUser(owner))

		_, err := service.CreateForDate(asUser(owner), date("2024-01-10"))

		assert.ErrorIs(t, err, ErrTimesheetExists)
	})

	t.Run("different users may cover the same period", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		createDraft(t, service, asUser(owner))

		_, err := service.CreateForDate(asUser(coworker), date("2024-01-03"))

		assert.NoError(t, err)
	})

	t.Run("requires an authenticated user", func(t *testing.T) {
		service, _, _, _ := setupService(t)

		_, err := service.CreateForDate(context.Background(), date("2024-01-03"))

		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestAddProjectPhase(t *testing.T) {
	t.Run("expands the pair into one zero-hour entry per period date", func(t *testing.T) {
		// given
		service, _, _, _ := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)

		// when
		entries, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)

		// then
		require.NoError(t, err)
		require.Len(t, entries, 15)
		for i, e := range entries {
			assert.Equal(t, ts.Period.Dates()[i], e.Date)
			assert.Zero(t, e.Hours)
			assert.Equal(t, 1, e.ProjectId)
			assert.Equal(t, 10, e.PhaseId)
		}
	})

	t.Run("rejects a duplicate pair", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)
		_, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)
		require.NoError(t, err)

		_, err = service.AddProjectPhase(ctx, ts.Id, 1, 10)

		assert.ErrorIs(t, err, ErrEntryGroupExists)
	})

	t.Run("same project with a different phase is allowed", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)
		_, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)
		require.NoError(t, err)

		entries, err := service.AddProjectPhase(ctx, ts.Id, 1, 11)

		require.NoError(t, err)
		assert.Len(t, entries, 30)
	})

	t.Run("foreign timesheets are reported as not found", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ts := createDraft(t, service, asUser(owner))

		_, err := service.AddProjectPhase(asUser(coworker), ts.Id, 1, 10)

		assert.ErrorIs(t, err, ErrTimesheetNotFound)
	})
}

func TestUpdateEntryHours(t *testing.T) {
	t.Run("persists a valid value", func(t *testing.T) {
		// given
		service, _, _, _ := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)
		entries, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)
		require.NoError(t, err)

		// when
		updated, err := service.UpdateEntryHours(ctx, entries[0].Id, "8")

		// then
		require.NoError(t, err)
		assert.Equal(t, 8.0, updated.Hours)
	})

	t.Run("rejects invalid input without persisting", func(t *testing.T) {
		service, repo, _, _ := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)
		entries, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)
		require.NoError(t, err)

		for _, raw := range []string{"abc", "-1", "25"} {
			_, err := service.UpdateEntryHours(ctx, entries[0].Id, raw)
			assert.ErrorIs(t, err, ErrInvalidHours)
		}

		stored, err := repo.GetEntry(ctx, entries[0].Id)
		require.NoError(t, err)
		assert.Zero(t, stored.Hours)
	})

	t.Run("unknown entry is reported as not found", func(t *testing.T) {
		service, _, _, _ := setupService(t)

		_, err := service.UpdateEntryHours(asUser(owner), 999, "8")

		assert.ErrorIs(t, err, ErrEntryNotFound)
	})
}

func TestSubmitLifecycle(t *testing.T) {
	t.Run("submit freezes the sheet and records totals and time", func(t *testing.T) {
		// given
		service, _, clock, bus := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)
		entries, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)
		require.NoError(t, err)
		_, err = service.UpdateEntryHours(ctx, entries[0].Id, "8")
		require.NoError(t, err)
		_, err = service.UpdateEntryHours(ctx, entries[1].Id, "6.5")
		require.NoError(t, err)

		var published []event_bus.TimesheetSubmitted
		event_bus.SubscribeTyped(bus, event_bus.TimesheetSubmittedEvent, func(e event_bus.EventT[event_bus.TimesheetSubmitted]) error {
			published = append(published, e.Data)
			return nil
		})

		// when
		submitted, err := service.Submit(ctx, ts.Id)

		// then
		require.NoError(t, err)
		assert.Equal(t, StatusSubmitted, submitted.Status)
		assert.InDelta(t, 14.5, submitted.TotalHours, 0.0001)
		assert.Equal(t, clock.FixedNow, submitted.SubmittedAt)
		require.Len(t, published, 1)
		assert.Equal(t, ts.Id, published[0].TimesheetId)
		assert.InDelta(t, 14.5, published[0].TotalHours, 0.0001)

		// and the sheet is read-only from now on
		_, err = service.UpdateEntryHours(ctx, entries[0].Id, "4")
		assert.ErrorIs(t, err, ErrTimesheetReadOnly)
		_, err = service.AddProjectPhase(ctx, ts.Id, 2, 10)
		assert.ErrorIs(t, err, ErrTimesheetReadOnly)
		_, err = service.Submit(ctx, ts.Id)
		assert.ErrorIs(t, err, ErrTimesheetReadOnly)
	})

	t.Run("an empty draft is still submittable", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)

		submitted, err := service.Submit(ctx, ts.Id)

		require.NoError(t, err)
		assert.Zero(t, submitted.TotalHours)
	})

	t.Run("save draft refreshes totals without changing status", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)
		entries, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)
		require.NoError(t, err)
		_, err = service.UpdateEntryHours(ctx, entries[0].Id, "3")
		require.NoError(t, err)

		saved, err := service.SaveDraft(ctx, ts.Id)

		require.NoError(t, err)
		assert.Equal(t, StatusDraft, saved.Status)
		assert.InDelta(t, 3.0, saved.TotalHours, 0.0001)
	})
}

func TestReview(t *testing.T) {
	submit := func(t *testing.T, service *ServiceImpl) Timesheet {
		t.Helper()
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)
		submitted, err := service.Submit(ctx, ts.Id)
		require.NoError(t, err)
		return submitted
	}

	t.Run("manager approves a submitted timesheet", func(t *testing.T) {
		// given
		service, _, clock, bus := setupService(t)
		ts := submit(t, service)

		var published []event_bus.TimesheetApproved
		event_bus.SubscribeTyped(bus, event_bus.TimesheetApprovedEvent, func(e event_bus.EventT[event_bus.TimesheetApproved]) error {
			published = append(published, e.Data)
			return nil
		})

		// when
		approved, err := service.Approve(asUser(manager), ts.Id)

		// then
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, approved.Status)
		assert.Equal(t, clock.FixedNow, approved.ApprovedAt)
		assert.Equal(t, manager.Id, approved.ApprovedBy)
		require.Len(t, published, 1)
		assert.Equal(t, manager.Id, published[0].ApproverId)
	})

	t.Run("manager rejects with a reason", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ts := submit(t, service)

		rejected, err := service.Reject(asUser(manager), ts.Id, "Missing hours on the museum project")

		require.NoError(t, err)
		assert.Equal(t, StatusRejected, rejected.Status)
		assert.Equal(t, "Missing hours on the museum project", rejected.RejectionReason)
	})

	t.Run("approved timesheet stays read-only for the owner", func(t *testing.T) {
		service, repo, _, _ := setupService(t)
		ctx := asUser(owner)
		ts := createDraft(t, service, ctx)
		entries, err := service.AddProjectPhase(ctx, ts.Id, 1, 10)
		require.NoError(t, err)
		_, err = service.Submit(ctx, ts.Id)
		require.NoError(t, err)
		_, err = service.Approve(asUser(manager), ts.Id)
		require.NoError(t, err)

		_, err = service.UpdateEntryHours(ctx, entries[0].Id, "8")

		assert.ErrorIs(t, err, ErrTimesheetReadOnly)
		stored, err := repo.GetEntry(ctx, entries[0].Id)
		require.NoError(t, err)
		assert.Zero(t, stored.Hours)
	})

	t.Run("employees cannot review", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ts := submit(t, service)

		_, err := service.Approve(asUser(coworker), ts.Id)

		assert.ErrorIs(t, err, ErrReviewForbidden)
	})

	t.Run("drafts cannot be reviewed", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ts := createDraft(t, service, asUser(owner))

		_, err := service.Approve(asUser(manager), ts.Id)

		assert.ErrorIs(t, err, ErrNotSubmitted)
	})

	t.Run("approve twice is rejected", func(t *testing.T) {
		service, _, _, _ := setupService(t)
		ts := submit(t, service)
		_, err := service.Approve(asUser(manager), ts.Id)
		require.NoError(t, err)

		_, err = service.Approve(asUser(manager), ts.Id)

		assert.ErrorIs(t, err, ErrNotSubmitted)
	})
}
