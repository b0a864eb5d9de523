package timesheet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/archsheet/archsheet/pkg/phase"
	"github.com/archsheet/archsheet/pkg/project"
)

type Repository interface {
	CreateTimesheet(ctx context.Context, ts Timesheet) (int, error)
	GetTimesheet(ctx context.Context, id int) (Timesheet, error)
	FindByPeriod(ctx context.Context, userId int, period Period) (Timesheet, error)
	ListForUser(ctx context.Context, userId int) ([]Timesheet, error)
	SaveTotals(ctx context.Context, id int, totalHours float64) error
	MarkSubmitted(ctx context.Context, id int, totalHours float64, submittedAt time.Time) error
	MarkApproved(ctx context.Context, id int, approvedAt time.Time, approvedBy int) error
	MarkRejected(ctx context.Context, id int, reason string) error

	GetEntries(ctx context.Context, timesheetId int) ([]TimeEntry, error)
	GetEntry(ctx context.Context, entryId int) (TimeEntry, error)
	InsertEntries(ctx context.Context, entries []TimeEntry) error
	UpdateEntryHours(ctx context.Context, entryId int, hours float64) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const timesheetColumns = `id, user_id, period_start, period_end, status, total_hours,
	submitted_at, approved_at, approved_by, rejection_reason`

func (r *RepositoryImpl) CreateTimesheet(ctx context.Context, ts Timesheet) (int, error) {
	query := `INSERT INTO timesheets (user_id, period_start, period_end, status, total_hours)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		ts.UserId, ts.Period.Start, ts.Period.End, ts.Status, ts.TotalHours,
	).Scan(&id)
	if err != nil {
		log.Errorf("could not create timesheet for user %d: %v", ts.UserId, err)
		return 0, err
	}
	return id, nil
}

func (r *RepositoryImpl) GetTimesheet(ctx context.Context, id int) (Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE id = $1`
	ts, err := scanTimesheet(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, ErrTimesheetNotFound
	} else if err != nil {
		log.Errorf("could not get timesheet %d: %v", id, err)
		return Timesheet{}, err
	}
	return ts, nil
}

func (r *RepositoryImpl) FindByPeriod(ctx context.Context, userId int, period Period) (Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets
		WHERE user_id = $1 AND period_start = $2`
	ts, err := scanTimesheet(r.db.QueryRow(ctx, query, userId, period.Start))
	if errors.Is(err, pgx.ErrNoRows) {
		return Timesheet{}, ErrTimesheetNotFound
	} else if err != nil {
		log.Errorf("could not find timesheet for user %d period %s: %v", userId, period, err)
		return Timesheet{}, err
	}
	return ts, nil
}

func (r *RepositoryImpl) ListForUser(ctx context.Context, userId int) ([]Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets
		WHERE user_id = $1
		ORDER BY period_start DESC`
	rows, err := r.db.Query(ctx, query, userId)
	if err != nil {
		log.Errorf("could not list timesheets for user %d: %v", userId, err)
		return nil, err
	}
	defer rows.Close()

	var timesheets []Timesheet
	for rows.Next() {
		ts, err := scanTimesheet(rows)
		if err != nil {
			log.Errorf("could not scan timesheet: %v", err)
			return nil, err
		}
		timesheets = append(timesheets, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return timesheets, nil
}

func (r *RepositoryImpl) SaveTotals(ctx context.Context, id int, totalHours float64) error {
	query := `UPDATE timesheets SET total_hours = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, totalHours); err != nil {
		log.Errorf("could not save totals for timesheet %d: %v", id, err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) MarkSubmitted(ctx context.Context, id int, totalHours float64, submittedAt time.Time) error {
	query := `UPDATE timesheets
		SET status = $2, total_hours = $3, submitted_at = $4, rejection_reason = NULL
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, StatusSubmitted, totalHours, submittedAt); err != nil {
		log.Errorf("could not submit timesheet %d: %v", id, err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) MarkApproved(ctx context.Context, id int, approvedAt time.Time, approvedBy int) error {
	query := `UPDATE timesheets
		SET status = $2, approved_at = $3, approved_by = $4
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, StatusApproved, approvedAt, approvedBy); err != nil {
		log.Errorf("could not approve timesheet %d: %v", id, err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) MarkRejected(ctx context.Context, id int, reason string) error {
	query := `UPDATE timesheets
		SET status = $2, rejection_reason = $3
		WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, id, StatusRejected, reason); err != nil {
		log.Errorf("could not reject timesheet %d: %v", id, err)
		return err
	}
	return nil
}

const entryColumns = `e.id, e.timesheet_id, e.date, e.hours, e.description,
	e.project_id, e.phase_id, e.overhead_category_id,
	p.id, p.project_number, p.name, p.client_name, p.budget_hours, p.is_active,
	sp.id, sp.phase_code, sp.name, sp.display_order, sp.is_active`

const entryJoins = ` FROM time_entries e
	LEFT JOIN projects p ON p.id = e.project_id
	LEFT JOIN standard_phases sp ON sp.id = e.phase_id`

func (r *RepositoryImpl) GetEntries(ctx context.Context, timesheetId int) ([]TimeEntry, error) {
	query := `SELECT ` + entryColumns + entryJoins + `
		WHERE e.timesheet_id = $1
		ORDER BY e.id`
	rows, err := r.db.Query(ctx, query, timesheetId)
	if err != nil {
		log.Errorf("could not query entries for timesheet %d: %v", timesheetId, err)
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			log.Errorf("could not scan time entry: %v", err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *RepositoryImpl) GetEntry(ctx context.Context, entryId int) (TimeEntry, error) {
	query := `SELECT ` + entryColumns + entryJoins + ` WHERE e.id = $1`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, entryId))
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeEntry{}, ErrEntryNotFound
	} else if err != nil {
		log.Errorf("could not get time entry %d: %v", entryId, err)
		return TimeEntry{}, err
	}
	return entry, nil
}

func (r *RepositoryImpl) InsertEntries(ctx context.Context, entries []TimeEntry) error {
	batch := &pgx.Batch{}
	query := `INSERT INTO time_entries (timesheet_id, date, hours, description, project_id, phase_id, overhead_category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, entry := range entries {
		batch.Queue(query,
			entry.TimesheetId,
			entry.Date,
			entry.Hours,
			nullString(entry.Description),
			nullInt(entry.ProjectId),
			nullInt(entry.PhaseId),
			nullInt(entry.OverheadCategoryId),
		)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		log.Errorf("could not insert %d time entries: %v", len(entries), err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) UpdateEntryHours(ctx context.Context, entryId int, hours float64) error {
	query := `UPDATE time_entries SET hours = $2 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, entryId, hours); err != nil {
		log.Errorf("could not update hours of time entry %d: %v", entryId, err)
		return err
	}
	return nil
}

func scanTimesheet(row pgx.Row) (Timesheet, error) {
	var ts Timesheet
	var submittedAt, approvedAt sql.NullTime
	var approvedBy sql.NullInt64
	var rejectionReason sql.NullString
	err := row.Scan(
		&ts.Id,
		&ts.UserId,
		&ts.Period.Start,
		&ts.Period.End,
		&ts.Status,
		&ts.TotalHours,
		&submittedAt,
		&approvedAt,
		&approvedBy,
		&rejectionReason,
	)
	if err != nil {
		return Timesheet{}, err
	}
	ts.Period.Start = Date(ts.Period.Start)
	ts.Period.End = Date(ts.Period.End)
	if submittedAt.Valid {
		ts.SubmittedAt = submittedAt.Time
	}
	if approvedAt.Valid {
		ts.ApprovedAt = approvedAt.Time
	}
	if approvedBy.Valid {
		ts.ApprovedBy = int(approvedBy.Int64)
	}
	ts.RejectionReason = rejectionReason.String
	return ts, nil
}

func scanEntry(row pgx.Row) (TimeEntry, error) {
	var e TimeEntry
	var description sql.NullString
	var projectId, phaseId, overheadCategoryId sql.NullInt64
	var pId, spId sql.NullInt64
	var pNumber, pName, pClient sql.NullString
	var pBudget sql.NullFloat64
	var pActive sql.NullBool
	var spCode, spName sql.NullString
	var spOrder sql.NullInt64
	var spActive sql.NullBool
	err := row.Scan(
		&e.Id,
		&e.TimesheetId,
		&e.Date,
		&e.Hours,
		&description,
		&projectId,
		&phaseId,
		&overheadCategoryId,
		&pId, &pNumber, &pName, &pClient, &pBudget, &pActive,
		&spId, &spCode, &spName, &spOrder, &spActive,
	)
	if err != nil {
		return TimeEntry{}, err
	}
	e.Date = Date(e.Date)
	e.Description = description.String
	if projectId.Valid {
		e.ProjectId = int(projectId.Int64)
	}
	if phaseId.Valid {
		e.PhaseId = int(phaseId.Int64)
	}
	if overheadCategoryId.Valid {
		e.OverheadCategoryId = int(overheadCategoryId.Int64)
	}
	if pId.Valid {
		e.Project = &project.Project{
			Id:            int(pId.Int64),
			ProjectNumber: pNumber.String,
			Name:          pName.String,
			ClientName:    pClient.String,
			BudgetHours:   pBudget.Float64,
			IsActive:      pActive.Bool,
		}
	}
	if spId.Valid {
		e.Phase = &phase.Phase{
			Id:           int(spId.Int64),
			PhaseCode:    spCode.String,
			Name:         spName.String,
			DisplayOrder: int(spOrder.Int64),
			IsActive:     spActive.Bool,
		}
	}
	return e, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(i int) any {
	if i == 0 {
		return nil
	}
	return i
}
