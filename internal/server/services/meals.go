package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/rlocatelli9/daily-diet-api/internal/dbx"
	"github.com/rlocatelli9/daily-diet-api/internal/logging"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
	"github.com/rlocatelli9/daily-diet-api/internal/server/repositories/repomanager"
)

// MealService manages an owner's meals. Every method takes the decrypted
// owner id; an empty owner is rejected before the store is touched.
type MealService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	exporter    Exporter
	log         logging.Logger
	now         func() time.Time
}

// NewMealService constructs a MealService. exporter may be nil, which
// disables Export.
func NewMealService(db *sql.DB, m repomanager.RepositoryManager, exporter Exporter, log logging.Logger) *MealService {
	return &MealService{
		db:          db,
		repomanager: m,
		exporter:    exporter,
		log:         log.With("module", "meals"),
		now:         time.Now,
	}
}

func checkOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("%w: empty owner", common.ErrorDecryption)
	}
	return nil
}

func (s *MealService) Create(ctx context.Context, owner string, m *models.Meal) (*models.Meal, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	if strings.TrimSpace(m.Title) == "" || strings.TrimSpace(m.Type) == "" || m.DateTime.IsZero() {
		return nil, common.ErrorValidation
	}

	m.ID = newID()
	m.Owner = owner

	created, err := s.repomanager.Meals(s.db).Create(ctx, m)
	if err != nil {
		s.log.Error(ctx, "create meal failed", "err", err)
		return nil, common.ErrorInternal
	}
	return created, nil
}

// List returns the owner's meals in chronological order.
func (s *MealService) List(ctx context.Context, owner string) ([]*models.Meal, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	list, err := s.repomanager.Meals(s.db).ListByOwner(ctx, owner)
	if err != nil {
		s.log.Error(ctx, "list meals failed", "err", err)
		return nil, common.ErrorInternal
	}
	return list, nil
}

func (s *MealService) Get(ctx context.Context, owner, id string) (*models.Meal, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	m, err := s.repomanager.Meals(s.db).Get(ctx, owner, id)
	if err != nil {
		return nil, s.storeError(ctx, "get meal failed", err)
	}
	return m, nil
}

// Update applies patch to the meal inside a transaction. Fields absent from
// the patch keep their stored values.
func (s *MealService) Update(ctx context.Context, owner, id string, patch models.MealPatch) (*models.Meal, error) {
	if err := checkOwner(owner); err != nil {
		return nil, err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, common.ErrorValidation
	}
	if patch.Type != nil && strings.TrimSpace(*patch.Type) == "" {
		return nil, common.ErrorValidation
	}

	var updated *models.Meal
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Meals(tx)
		current, err := repo.Get(ctx, owner, id)
		if err != nil {
			return err
		}
		patch.Apply(current)
		updated, err = repo.Update(ctx, current)
		return err
	})
	if err != nil {
		return nil, s.storeError(ctx, "update meal failed", err)
	}
	return updated, nil
}

func (s *MealService) Delete(ctx context.Context, owner, id string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	if err := s.repomanager.Meals(s.db).SoftDelete(ctx, owner, id); err != nil {
		return s.storeError(ctx, "delete meal failed", err)
	}
	return nil
}

// Metrics computes adherence over the owner's meals.
func (s *MealService) Metrics(ctx context.Context, owner string) (models.Metrics, error) {
	list, err := s.List(ctx, owner)
	if err != nil {
		return models.Metrics{}, err
	}
	return ComputeMetrics(list), nil
}

func (s *MealService) storeError(ctx context.Context, msg string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	s.log.Error(ctx, msg, "err", err)
	return common.ErrorInternal
}
