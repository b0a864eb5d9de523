package project

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrProjectNotFound = errors.New("project not found")

type Repository interface {
	GetAll(ctx context.Context, includeInactive bool) ([]Project, error)
	Get(ctx context.Context, id int) (Project, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const projectColumns = `id, project_number, name, client_name, description, start_date,
	expected_end_date, actual_end_date, budget_hours, is_active, project_manager_id`

func (r *RepositoryImpl) GetAll(ctx context.Context, includeInactive bool) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if !includeInactive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY project_number`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("could not query projects: %v", err)
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			log.Errorf("could not scan project: %v", err)
			return nil, err
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	} else if err != nil {
		log.Errorf("could not get project %d: %v", id, err)
		return Project{}, err
	}
	return project, nil
}

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	var description sql.NullString
	var startDate time.Time
	var expectedEnd, actualEnd sql.NullTime
	var budgetHours sql.NullFloat64
	var managerId sql.NullInt64
	err := row.Scan(
		&p.Id,
		&p.ProjectNumber,
		&p.Name,
		&p.ClientName,
		&description,
		&startDate,
		&expectedEnd,
		&actualEnd,
		&budgetHours,
		&p.IsActive,
		&managerId,
	)
	if err != nil {
		return Project{}, err
	}
	p.Description = description.String
	p.StartDate = startDate
	if expectedEnd.Valid {
		p.ExpectedEndDate = expectedEnd.Time
	}
	if actualEnd.Valid {
		p.ActualEndDate = actualEnd.Time
	}
	if budgetHours.Valid {
		p.BudgetHours = budgetHours.Float64
	}
	if managerId.Valid {
		p.ProjectManagerId = int(managerId.Int64)
	}
	return p, nil
}
