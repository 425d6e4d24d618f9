// Package meals declares and implements owner-scoped meal storage.
package meals

import (
	"context"

	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
)

// Repository defines meal persistence. Every read and write is filtered by
// owner and ignores soft-deleted rows.
type Repository interface {
	Create(ctx context.Context, m *models.Meal) (*models.Meal, error)
	ListByOwner(ctx context.Context, owner string) ([]*models.Meal, error)
	Get(ctx context.Context, owner, id string) (*models.Meal, error)
	Update(ctx context.Context, m *models.Meal) (*models.Meal, error)
	SoftDelete(ctx context.Context, owner, id string) error
}
