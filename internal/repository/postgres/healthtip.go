package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/swasthya/medrec-api/internal/model"
	"github.com/swasthya/medrec-api/internal/repository"
	"github.com/swasthya/medrec-api/pkg/errors"
)

type healthTipRepository struct {
	db *sqlx.DB
}

func NewHealthTipRepository(db *sqlx.DB) repository.HealthTipRepository {
	return &healthTipRepository{db: db}
}

func (r *healthTipRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM health_tips`); err != nil {
		return 0, fmt.Errorf("failed to count health tips: %w", err)
	}
	return count, nil
}

func (r *healthTipRepository) GetByOffset(ctx context.Context, offset int) (*model.HealthTip, error) {
	var tip model.HealthTip
	query := `SELECT * FROM health_tips ORDER BY tip_id OFFSET $1 LIMIT 1`
	if err := r.db.GetContext(ctx, &tip, query, offset); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("health tip", err)
		}
		return nil, fmt.Errorf("failed to get health tip: %w", err)
	}
	return &tip, nil
}

func (r *healthTipRepository) ListByCategory(ctx context.Context, category string) ([]*model.HealthTip, error) {
	var tips []*model.HealthTip
	query := `SELECT * FROM health_tips WHERE category ILIKE $1 ORDER BY tip_id`
	if err := r.db.SelectContext(ctx, &tips, query, category); err != nil {
		return nil, fmt.Errorf("failed to list health tips: %w", err)
	}
	return tips, nil
}
