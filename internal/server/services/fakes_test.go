package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/rlocatelli9/daily-diet-api/internal/dbx"
	"github.com/rlocatelli9/daily-diet-api/internal/logging"
	"github.com/rlocatelli9/daily-diet-api/internal/server/config"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
	mealsrepo "github.com/rlocatelli9/daily-diet-api/internal/server/repositories/meals"
	sessionsrepo "github.com/rlocatelli9/daily-diet-api/internal/server/repositories/sessions"
	usersrepo "github.com/rlocatelli9/daily-diet-api/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                  "k",
		SessionValidityDuration:    7 * 24 * time.Hour,
		ExportLinkValidityDuration: time.Minute,
	}
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// --- fake users repository ---

type fakeUsersRepo struct {
	mu sync.Mutex

	created   []*models.User
	createErr error

	byEmail    *models.User
	byEmailErr error

	list    []*models.User
	listErr error

	deleted   []string
	deleteErr error
}

var _ usersrepo.Repository = (*fakeUsersRepo)(nil)

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmail, nil
}

func (f *fakeUsersRepo) GetByID(_ context.Context, _ string) (*models.User, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) List(context.Context) ([]*models.User, error) {
	return f.list, f.listErr
}

func (f *fakeUsersRepo) SoftDelete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// --- fake sessions repository ---

type fakeSessionsRepo struct {
	mu sync.Mutex

	sessions map[string]*models.Session
	getErr   error

	created   []*models.Session
	createErr error

	upserted  []*models.Session
	upsertErr error

	expired   map[string]time.Time
	expireErr error

	deletedUsers []string
	deleteErr    error

	cutoffs    []time.Time
	purged     int64
	cleanupErr error

	views    []*models.SessionView
	viewsErr error

	gets int
}

var _ sessionsrepo.Repository = (*fakeSessionsRepo)(nil)

func (f *fakeSessionsRepo) Create(_ context.Context, s *models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSessionsRepo) Upsert(_ context.Context, s *models.Session) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, s)
	return nil
}

func (f *fakeSessionsRepo) Get(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return s, nil
}

func (f *fakeSessionsRepo) Expire(_ context.Context, id string, at time.Time) error {
	if f.expireErr != nil {
		return f.expireErr
	}
	if _, ok := f.sessions[id]; !ok {
		return common.ErrorNotFound
	}
	if f.expired == nil {
		f.expired = map[string]time.Time{}
	}
	f.expired[id] = at
	return nil
}

func (f *fakeSessionsRepo) DeleteByUser(_ context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedUsers = append(f.deletedUsers, userID)
	return nil
}

func (f *fakeSessionsRepo) DeleteExpiredBefore(_ context.Context, t time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, t)
	return f.purged, f.cleanupErr
}

func (f *fakeSessionsRepo) ListWithUsers(context.Context) ([]*models.SessionView, error) {
	return f.views, f.viewsErr
}

func (f *fakeSessionsRepo) cleanupCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cutoffs)
}

// --- fake meals repository ---

type fakeMealsRepo struct {
	meals map[string]*models.Meal
	order []string

	createErr error
	listErr   error
	updateErr error

	calls int
}

var _ mealsrepo.Repository = (*fakeMealsRepo)(nil)

func newFakeMealsRepo(meals ...*models.Meal) *fakeMealsRepo {
	f := &fakeMealsRepo{meals: map[string]*models.Meal{}}
	for _, m := range meals {
		f.meals[m.ID] = m
		f.order = append(f.order, m.ID)
	}
	return f
}

func (f *fakeMealsRepo) Create(_ context.Context, m *models.Meal) (*models.Meal, error) {
	f.calls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.meals[m.ID] = m
	f.order = append(f.order, m.ID)
	return m, nil
}

func (f *fakeMealsRepo) ListByOwner(_ context.Context, owner string) ([]*models.Meal, error) {
	f.calls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*models.Meal, 0)
	for _, id := range f.order {
		if m := f.meals[id]; m != nil && m.Owner == owner && m.DeletedAt == nil {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMealsRepo) Get(_ context.Context, owner, id string) (*models.Meal, error) {
	f.calls++
	m, ok := f.meals[id]
	if !ok || m.Owner != owner || m.DeletedAt != nil {
		return nil, common.ErrorNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMealsRepo) Update(_ context.Context, m *models.Meal) (*models.Meal, error) {
	f.calls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.meals[m.ID] = m
	return m, nil
}

func (f *fakeMealsRepo) SoftDelete(_ context.Context, owner, id string) error {
	f.calls++
	m, ok := f.meals[id]
	if !ok || m.Owner != owner || m.DeletedAt != nil {
		return common.ErrorNotFound
	}
	now := time.Now()
	m.DeletedAt = &now
	return nil
}

// --- fake repository manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	m *fakeMealsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository          { return m.u }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessionsrepo.Repository    { return m.s }
func (m *fakeRepoManager) Meals(dbx.DBTX) mealsrepo.Repository          { return m.m }

func nopLog() logging.Logger { return logging.Nop() }
