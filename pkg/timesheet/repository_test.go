package timesheet

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/archsheet/archsheet/internal/test_utils"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	defer func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			log.Errorf("failed to terminate container: %s", err)
		}
	}()
	code := m.Run()
	os.Exit(code)
}

type fixtures struct {
	userId    int
	projectId int
	phaseId   int
}

func setupTestRepository(t *testing.T) (context.Context, *RepositoryImpl, fixtures) {
	ctx := context.Background()
	db := openDb()
	repository := NewRepository(db)
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})

	u, err := test_utils.CreateTestUser(ctx, db, test_utils.DefaultTestUser())
	require.NoError(t, err)

	var projectId int
	err = db.QueryRow(ctx, `INSERT INTO projects (project_number, name, client_name, start_date, budget_hours)
		VALUES ('2024-100', 'Library', 'City of Springfield', '2024-01-01', 500)
		RETURNING id`).Scan(&projectId)
	require.NoError(t, err)

	var phaseId int
	err = db.QueryRow(ctx, `INSERT INTO standard_phases (phase_code, name, display_order)
		VALUES ('SD', 'Schematic Design', 1)
		RETURNING id`).Scan(&phaseId)
	require.NoError(t, err)

	return ctx, repository, fixtures{userId: u.Id, projectId: projectId, phaseId: phaseId}
}

func TestRepositoryImpl_CreateTimesheet(t *testing.T) {
	t.Run("should create and read back a timesheet", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		ts := Timesheet{
			UserId: f.userId,
			Period: PeriodContaining(date("2024-01-03")),
			Status: StatusDraft,
		}

		// when
		id, err := repo.CreateTimesheet(ctx, ts)

		// then
		require.NoError(t, err)
		stored, err := repo.GetTimesheet(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, f.userId, stored.UserId)
		assert.Equal(t, StatusDraft, stored.Status)
		assert.Equal(t, date("2024-01-01"), stored.Period.Start)
		assert.Equal(t, date("2024-01-15"), stored.Period.End)
	})

	t.Run("should find a timesheet by period", func(t *testing.T) {
		ctx, repo, f := setupTestRepository(t)
		period := PeriodContaining(date("2024-01-20"))
		id, err := repo.CreateTimesheet(ctx, Timesheet{UserId: f.userId, Period: period, Status: StatusDraft})
		require.NoError(t, err)

		found, err := repo.FindByPeriod(ctx, f.userId, period)

		require.NoError(t, err)
		assert.Equal(t, id, found.Id)
	})

	t.Run("should return not found for a missing period", func(t *testing.T) {
		ctx, repo, f := setupTestRepository(t)

		_, err := repo.FindByPeriod(ctx, f.userId, PeriodContaining(date("2030-06-01")))

		assert.ErrorIs(t, err, ErrTimesheetNotFound)
	})
}

func TestRepositoryImpl_Entries(t *testing.T) {
	t.Run("should batch insert and read back entries with joined reference data", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		period := PeriodContaining(date("2024-01-03"))
		tsId, err := repo.CreateTimesheet(ctx, Timesheet{UserId: f.userId, Period: period, Status: StatusDraft})
		require.NoError(t, err)

		var entries []TimeEntry
		for _, d := range period.Dates() {
			entries = append(entries, TimeEntry{
				TimesheetId: tsId,
				Date:        d,
				ProjectId:   f.projectId,
				PhaseId:     f.phaseId,
			})
		}

		// when
		err = repo.InsertEntries(ctx, entries)

		// then
		require.NoError(t, err)
		stored, err := repo.GetEntries(ctx, tsId)
		require.NoError(t, err)
		require.Len(t, stored, 15)
		assert.Equal(t, date("2024-01-01"), stored[0].Date)
		require.NotNil(t, stored[0].Project)
		assert.Equal(t, "2024-100", stored[0].Project.ProjectNumber)
		require.NotNil(t, stored[0].Phase)
		assert.Equal(t, "SD", stored[0].Phase.PhaseCode)
	})

	t.Run("should update the hours of a single entry", func(t *testing.T) {
		ctx, repo, f := setupTestRepository(t)
		tsId, err := repo.CreateTimesheet(ctx, Timesheet{UserId: f.userId, Period: PeriodContaining(date("2024-01-03")), Status: StatusDraft})
		require.NoError(t, err)
		err = repo.InsertEntries(ctx, []TimeEntry{{TimesheetId: tsId, Date: date("2024-01-02"), ProjectId: f.projectId, PhaseId: f.phaseId}})
		require.NoError(t, err)
		stored, err := repo.GetEntries(ctx, tsId)
		require.NoError(t, err)
		require.Len(t, stored, 1)

		err = repo.UpdateEntryHours(ctx, stored[0].Id, 7.5)

		require.NoError(t, err)
		entry, err := repo.GetEntry(ctx, stored[0].Id)
		require.NoError(t, err)
		assert.Equal(t, 7.5, entry.Hours)
	})

	t.Run("overhead entries come back without joined project data", func(t *testing.T) {
		ctx, repo, f := setupTestRepository(t)
		db := openDb()
		defer db.Close()
		var categoryId int
		err := db.QueryRow(ctx, `INSERT INTO overhead_categories (category_code, name)
			VALUES ('VAC', 'Vacation') RETURNING id`).Scan(&categoryId)
		require.NoError(t, err)
		tsId, err := repo.CreateTimesheet(ctx, Timesheet{UserId: f.userId, Period: PeriodContaining(date("2024-01-03")), Status: StatusDraft})
		require.NoError(t, err)
		err = repo.InsertEntries(ctx, []TimeEntry{{TimesheetId: tsId, Date: date("2024-01-02"), OverheadCategoryId: categoryId, Hours: 8}})
		require.NoError(t, err)

		stored, err := repo.GetEntries(ctx, tsId)

		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, categoryId, stored[0].OverheadCategoryId)
		assert.Nil(t, stored[0].Project)
		assert.Nil(t, stored[0].Phase)
	})
}

func TestRepositoryImpl_Lifecycle(t *testing.T) {
	t.Run("should record submission and approval", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		tsId, err := repo.CreateTimesheet(ctx, Timesheet{UserId: f.userId, Period: PeriodContaining(date("2024-01-03")), Status: StatusDraft})
		require.NoError(t, err)
		db := openDb()
		defer db.Close()
		manager, err := test_utils.CreateTestUser(ctx, db, test_utils.DefaultTestManager())
		require.NoError(t, err)
		submittedAt := time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC)

		// when
		err = repo.MarkSubmitted(ctx, tsId, 80, submittedAt)
		require.NoError(t, err)
		err = repo.MarkApproved(ctx, tsId, submittedAt.Add(time.Hour), manager.Id)
		require.NoError(t, err)

		// then
		stored, err := repo.GetTimesheet(ctx, tsId)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, stored.Status)
		assert.Equal(t, 80.0, stored.TotalHours)
		assert.Equal(t, manager.Id, stored.ApprovedBy)
		assert.False(t, stored.ApprovedAt.IsZero())
	})

	t.Run("should record a rejection reason and clear it on resubmit", func(t *testing.T) {
		ctx, repo, f := setupTestRepository(t)
		tsId, err := repo.CreateTimesheet(ctx, Timesheet{UserId: f.userId, Period: PeriodContaining(date("2024-01-03")), Status: StatusDraft})
		require.NoError(t, err)

		err = repo.MarkRejected(ctx, tsId, "Please add the museum hours")
		require.NoError(t, err)
		stored, err := repo.GetTimesheet(ctx, tsId)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, stored.Status)
		assert.Equal(t, "Please add the museum hours", stored.RejectionReason)

		err = repo.MarkSubmitted(ctx, tsId, 80, time.Now())
		require.NoError(t, err)
		stored, err = repo.GetTimesheet(ctx, tsId)
		require.NoError(t, err)
		assert.Empty(t, stored.RejectionReason)
	})
}
