package overhead

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	GetAll(ctx context.Context, includeInactive bool) ([]Category, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) GetAll(ctx context.Context, includeInactive bool) ([]Category, error) {
	query := `SELECT id, category_code, name, description, is_active FROM overhead_categories`
	if !includeInactive {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY category_code`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		log.Errorf("could not query overhead categories: %v", err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var description sql.NullString
		if err := rows.Scan(&c.Id, &c.CategoryCode, &c.Name, &description, &c.IsActive); err != nil {
			log.Errorf("could not scan overhead category: %v", err)
			return nil, err
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}
