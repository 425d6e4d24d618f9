// Package sessions declares and implements storage for login sessions.
package sessions

import (
	"context"
	"time"

	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
)

// Repository defines operations on the sessions table.
type Repository interface {
	// Create inserts a new session row.
	Create(ctx context.Context, s *models.Session) error

	// Upsert stores s as the user's only session, replacing the id and expiry
	// of an existing row in one statement.
	Upsert(ctx context.Context, s *models.Session) error

	// Get returns the session with the given id or common.ErrorNotFound.
	Get(ctx context.Context, id string) (*models.Session, error)

	// Expire sets the session's expiry to at. It returns common.ErrorNotFound
	// when no row was updated.
	Expire(ctx context.Context, id string, at time.Time) error

	// DeleteByUser removes every session owned by userID.
	DeleteByUser(ctx context.Context, userID string) error

	// DeleteExpiredBefore removes sessions that expired before t and reports
	// how many were removed.
	DeleteExpiredBefore(ctx context.Context, t time.Time) (int64, error)

	// ListWithUsers returns all sessions joined with their owners.
	ListWithUsers(ctx context.Context) ([]*models.SessionView, error)
}
