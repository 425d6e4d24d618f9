// Package services contains server-side business logic: registration and
// sign-in, session validation and identity resolution, meal management,
// adherence metrics and meal export.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/rlocatelli9/daily-diet-api/internal/cryptox"
	"github.com/rlocatelli9/daily-diet-api/internal/dbx"
	"github.com/rlocatelli9/daily-diet-api/internal/logging"
	"github.com/rlocatelli9/daily-diet-api/internal/server/config"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/repomanager"
)

var (
	hashPassword   = cryptox.HashPassword
	verifyPassword = cryptox.VerifyPassword
	newID          = func() string { return uuid.NewString() }
)

// UserService provides account operations:
//   - SignUp: create a user together with its first session
//   - SignIn: verify credentials and replace the user's session
//   - SignOut: expire the current session
//   - List / SoftDelete / ListSessions: administrative views
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validity    time.Duration
	log         logging.Logger
	now         func() time.Time
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		validity:    cfg.SessionValidityDuration,
		log:         log.With("module", "users"),
		now:         time.Now,
	}
}

// SignUp creates the user and its first session in one transaction. A
// duplicate email yields common.ErrorAlreadyExists.
func (s *UserService) SignUp(ctx context.Context, username, email, password string) (*models.User, *models.Session, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, nil, common.ErrorValidation
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user := &models.User{ID: newID(), Username: username, Email: email, PasswordHash: hash}
	session := &models.Session{ID: newID(), UserID: user.ID, Expires: s.now().Add(s.validity)}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).Create(ctx, session)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, err
		}
		s.log.Error(ctx, "sign up failed", "err", err)
		return nil, nil, common.ErrorInternal
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, session, nil
}

// SignIn verifies credentials and stores a fresh session as the user's only
// session. Unknown or soft-deleted users yield common.ErrorUserNotFound and a
// wrong password yields common.ErrorInvalidCredentials.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUserNotFound
		}
		s.log.Error(ctx, "user lookup failed", "err", err)
		return nil, nil, common.ErrorInternal
	}

	ok, err := verifyPassword(password, user.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "stored password hash unreadable", "user_id", user.ID, "err", err)
		return nil, nil, common.ErrorInternal
	}
	if !ok {
		return nil, nil, common.ErrorInvalidCredentials
	}

	session := &models.Session{ID: newID(), UserID: user.ID, Expires: s.now().Add(s.validity)}
	if err := s.repomanager.Sessions(s.db).Upsert(ctx, session); err != nil {
		s.log.Error(ctx, "session upsert failed", "err", err)
		return nil, nil, common.ErrorInternal
	}

	return user, session, nil
}

// SignOut expires sessionID immediately. When no row is updated the request
// is rejected with common.ErrorValidation.
func (s *UserService) SignOut(ctx context.Context, sessionID string) error {
	if !wellFormedSessionID(sessionID) {
		return fmt.Errorf("%w: session was not updated", common.ErrorValidation)
	}

	err := s.repomanager.Sessions(s.db).Expire(ctx, sessionID, s.now())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: session was not updated", common.ErrorValidation)
		}
		s.log.Error(ctx, "sign out failed", "err", err)
		return common.ErrorInternal
	}
	return nil
}

func (s *UserService) ListSessions(ctx context.Context) ([]*models.SessionView, error) {
	views, err := s.repomanager.Sessions(s.db).ListWithUsers(ctx)
	if err != nil {
		s.log.Error(ctx, "list sessions failed", "err", err)
		return nil, common.ErrorInternal
	}
	return views, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		s.log.Error(ctx, "list users failed", "err", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

// SoftDelete marks the user deleted and drops its sessions in one
// transaction.
func (s *UserService) SoftDelete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).SoftDelete(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).DeleteByUser(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		s.log.Error(ctx, "delete user failed", "user_id", id, "err", err)
		return common.ErrorInternal
	}
	return nil
}
