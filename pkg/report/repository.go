package report

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// PhaseHours is one aggregation bucket: approved hours for a (project, phase)
// pair within a date range.
type PhaseHours struct {
	ProjectId int
	PhaseId   int
	Hours     float64
}

type Repository interface {
	// ApprovedHoursByPhase sums hours from approved timesheets grouped by
	// project and phase, for entries dated within [from, to].
	ApprovedHoursByPhase(ctx context.Context, from, to time.Time) ([]PhaseHours, error)
	// ApprovedHoursByProject sums all-time approved hours per project, used
	// for the remaining-budget calculation.
	ApprovedHoursByProject(ctx context.Context) (map[int]float64, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ApprovedHoursByPhase(ctx context.Context, from, to time.Time) ([]PhaseHours, error) {
	query := `SELECT e.project_id, e.phase_id, SUM(e.hours)
		FROM time_entries e
		JOIN timesheets t ON t.id = e.timesheet_id
		WHERE t.status = 'approved'
		  AND e.project_id IS NOT NULL
		  AND e.phase_id IS NOT NULL
		  AND e.date BETWEEN $1 AND $2
		GROUP BY e.project_id, e.phase_id
		ORDER BY e.project_id, e.phase_id`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		log.Errorf("could not aggregate approved hours by phase: %v", err)
		return nil, err
	}
	defer rows.Close()

	var buckets []PhaseHours
	for rows.Next() {
		var b PhaseHours
		if err := rows.Scan(&b.ProjectId, &b.PhaseId, &b.Hours); err != nil {
			log.Errorf("could not scan phase hours: %v", err)
			return nil, err
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buckets, nil
}

func (r *RepositoryImpl) ApprovedHoursByProject(ctx context.Context) (map[int]float64, error) {
	query := `SELECT e.project_id, SUM(e.hours)
		FROM time_entries e
		JOIN timesheets t ON t.id = e.timesheet_id
		WHERE t.status = 'approved'
		  AND e.project_id IS NOT NULL
		GROUP BY e.project_id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("could not aggregate approved hours by project: %v", err)
		return nil, err
	}
	defer rows.Close()

	totals := make(map[int]float64)
	for rows.Next() {
		var projectId int
		var hours float64
		if err := rows.Scan(&projectId, &hours); err != nil {
			log.Errorf("could not scan project hours: %v", err)
			return nil, err
		}
		totals[projectId] = hours
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}
