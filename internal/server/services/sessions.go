package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/rlocatelli9/daily-diet-api/internal/cryptox"
	"github.com/rlocatelli9/daily-diet-api/internal/logging"
	"github.com/rlocatelli9/daily-diet-api/internal/server/config"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/repomanager"
)

// SessionService gates protected requests. It validates session liveness,
// turns a session into an encrypted identity token and back into an owner
// id, and purges stale sessions in the background.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      *cryptox.TokenCipher
	validity    time.Duration
	log         logging.Logger
	now         func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		cipher:      cryptox.NewTokenCipher(cfg.SecretKey),
		validity:    cfg.SessionValidityDuration,
		log:         log.With("module", "sessions"),
		now:         time.Now,
	}
}

// wellFormedSessionID reports whether id can name a stored session. Session
// ids are UUIDs, so anything else is rejected without a store lookup.
func wellFormedSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Validate checks that sessionID names a session that is live right now.
// It never writes to the store.
func (s *SessionService) Validate(ctx context.Context, sessionID string) (*models.Session, error) {
	if !wellFormedSessionID(sessionID) {
		return nil, common.ErrorUnauthenticated
	}

	session, err := s.repomanager.Sessions(s.db).Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthenticated
		}
		s.log.Error(ctx, "session lookup failed", "err", err)
		return nil, common.ErrorInternal
	}

	if !session.LiveAt(s.now()) {
		return nil, common.ErrorSessionExpired
	}

	return session, nil
}

// ResolveIdentity returns the encrypted owner id for sessionID.
func (s *SessionService) ResolveIdentity(ctx context.Context, sessionID string) (string, error) {
	if !wellFormedSessionID(sessionID) {
		return "", common.ErrorUserNotFound
	}

	session, err := s.repomanager.Sessions(s.db).Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorUserNotFound
		}
		s.log.Error(ctx, "session lookup failed", "err", err)
		return "", common.ErrorInternal
	}

	return s.IdentityFor(session.UserID)
}

// IdentityFor encrypts userID into an identity token.
func (s *SessionService) IdentityFor(userID string) (string, error) {
	token, err := s.cipher.Encrypt(userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

// OwnerFromIdentity decrypts an identity token. An undecryptable token or an
// empty plaintext both yield common.ErrorDecryption; callers must stop there.
func (s *SessionService) OwnerFromIdentity(identity string) (string, error) {
	owner, err := s.cipher.Decrypt(identity)
	if err != nil {
		return "", err
	}
	if owner == "" {
		return "", fmt.Errorf("%w: empty identity", common.ErrorDecryption)
	}
	return owner, nil
}

// CleanupExpired deletes sessions that expired more than one validity window
// ago and returns how many were removed.
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.validity)
	return s.repomanager.Sessions(s.db).DeleteExpiredBefore(ctx, cutoff)
}

// RunCleanup calls CleanupExpired every interval until ctx is done. Each run
// gets at most half the interval.
func (s *SessionService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.log.Debug(ctx, "starting session cleanup worker", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info(context.Background(), "stopping session cleanup worker")
			return
		case <-ticker.C:
			runCtx, cancel := context.WithTimeout(ctx, interval/2)
			n, err := s.CleanupExpired(runCtx)
			cancel()
			if err != nil {
				s.log.Error(ctx, "failed to cleanup sessions", "err", err)
				continue
			}
			if n > 0 {
				s.log.Info(ctx, "expired sessions removed", "count", n)
			}
		}
	}
}
