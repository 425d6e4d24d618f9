package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/rlocatelli9/daily-diet-api/internal/dbx"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id_session, expires)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, s *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id_session, expires)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id_session)
		DO UPDATE SET
			id = EXCLUDED.id,
			expires = EXCLUDED.expires,
			updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.UserID, s.Expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	query := `
		SELECT id, user_id_session, expires, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`
	s := &models.Session{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.UserID, &s.Expires, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) Expire(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE sessions SET expires = $2, updated_at = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, at)
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

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM sessions
		WHERE user_id_session = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteExpiredBefore(ctx context.Context, t time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires < $1
	`
	res, err := r.db.ExecContext(ctx, query, t)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) ListWithUsers(ctx context.Context) ([]*models.SessionView, error) {
	query := `
		SELECT s.id, u.id, u.username, s.expires, s.created_at, s.updated_at
		FROM sessions s
		INNER JOIN users u ON s.user_id_session = u.id
		ORDER BY s.created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.SessionView, 0)
	for rows.Next() {
		v := &models.SessionView{}
		if err := rows.Scan(&v.SessionID, &v.UserID, &v.Username, &v.Expires, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
