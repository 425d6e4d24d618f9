// Package rest exposes the diet API over HTTP using chi. Handlers depend on
// the small interfaces below, which the services package implements.
package rest

import (
	"context"

	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
	"github.com/rlocatelli9/daily-diet-api/internal/server/services"
)

// SessionGate validates sessions and maps them to owner identities.
type SessionGate interface {
	Validate(ctx context.Context, sessionID string) (*models.Session, error)
	ResolveIdentity(ctx context.Context, sessionID string) (string, error)
	OwnerFromIdentity(identity string) (string, error)
}

// Accounts covers registration, sign-in and user administration.
type Accounts interface {
	SignUp(ctx context.Context, username, email, password string) (*models.User, *models.Session, error)
	SignIn(ctx context.Context, email, password string) (*models.User, *models.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]*models.SessionView, error)
	List(ctx context.Context) ([]*models.User, error)
	SoftDelete(ctx context.Context, id string) error
}

// Meals covers owner-scoped meal operations.
type Meals interface {
	Create(ctx context.Context, owner string, m *models.Meal) (*models.Meal, error)
	List(ctx context.Context, owner string) ([]*models.Meal, error)
	Get(ctx context.Context, owner, id string) (*models.Meal, error)
	Update(ctx context.Context, owner, id string, patch models.MealPatch) (*models.Meal, error)
	Delete(ctx context.Context, owner, id string) error
	Metrics(ctx context.Context, owner string) (models.Metrics, error)
	Export(ctx context.Context, owner string) (*services.ExportResult, error)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

var (
	_ SessionGate = (*services.SessionService)(nil)
	_ Accounts    = (*services.UserService)(nil)
	_ Meals       = (*services.MealService)(nil)
)
