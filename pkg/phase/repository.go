package phase

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrPhaseNotFound = errors.New("phase not found")

type Repository interface {
	GetAll(ctx context.Context, includeInactive bool) ([]Phase, error)
	Get(ctx context.Context, id int) (Phase, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetAll(ctx context.Context, includeInactive bool) ([]Phase, error) {
	query := `SELECT id, phase_code, name, description, display_order, is_active FROM standard_phases`
	if !includeInactive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY display_order`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("could not query phases: %v", err)
		return nil, err
	}
	defer rows.Close()

	var phases []Phase
	for rows.Next() {
		phase, err := scanPhase(rows)
		if err != nil {
			log.Errorf("could not scan phase: %v", err)
			return nil, err
		}
		phases = append(phases, phase)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return phases, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int) (Phase, error) {
	query := `SELECT id, phase_code, name, description, display_order, is_active FROM standard_phases WHERE id = $1`
	phase, err := scanPhase(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Phase{}, ErrPhaseNotFound
	} else if err != nil {
		log.Errorf("could not get phase %d: %v", id, err)
		return Phase{}, err
	}
	return phase, nil
}

func scanPhase(row pgx.Row) (Phase, error) {
	var p Phase
	var description sql.NullString
	err := row.Scan(
		&p.Id,
		&p.PhaseCode,
		&p.Name,
		&description,
		&p.DisplayOrder,
		&p.IsActive,
	)
	if err != nil {
		return Phase{}, err
	}
	p.Description = description.String
	return p, nil
}
