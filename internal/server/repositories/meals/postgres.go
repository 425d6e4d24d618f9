package meals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/rlocatelli9/daily-diet-api/internal/dbx"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
)

// PostgresRepository implements meal storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const mealColumns = `id, owner, title, description, type, datetime, in_diet, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMeal(s scanner) (*models.Meal, error) {
	m := &models.Meal{}
	err := s.Scan(&m.ID, &m.Owner, &m.Title, &m.Description, &m.Type, &m.DateTime, &m.InDiet, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m *models.Meal) (*models.Meal, error) {
	query := `
		INSERT INTO meals (id, owner, title, description, type, datetime, in_diet)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.Owner, m.Title, m.Description, m.Type, m.DateTime, m.InDiet).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// ListByOwner returns the owner's active meals in chronological order.
func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals
		WHERE owner = $1 AND deleted_at IS NULL
		ORDER BY datetime
	`
	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to select meals: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, owner, id string) (*models.Meal, error) {
	query := `SELECT ` + mealColumns + ` FROM meals
		WHERE id = $1 AND owner = $2 AND deleted_at IS NULL
	`
	m, err := scanMeal(r.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

// Update writes every mutable column of m. The caller merges partial
// changes beforehand.
func (r *PostgresRepository) Update(ctx context.Context, m *models.Meal) (*models.Meal, error) {
	query := `
		UPDATE meals
		SET title = $3, description = $4, type = $5, datetime = $6, in_diet = $7, updated_at = now()
		WHERE id = $1 AND owner = $2 AND deleted_at IS NULL
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.Owner, m.Title, m.Description, m.Type, m.DateTime, m.InDiet).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) SoftDelete(ctx context.Context, owner, id string) error {
	query := `
		UPDATE meals SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND owner = $2 AND deleted_at IS NULL
	`
	res, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
