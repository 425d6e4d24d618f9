package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/rlocatelli9/daily-diet-api/internal/cryptox"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
	"github.com/rlocatelli9/daily-diet-api/internal/server/services"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// --- session gate ---

type fakeGate struct {
	sessions    map[string]*models.Session
	validateErr error
}

func (g *fakeGate) Validate(_ context.Context, id string) (*models.Session, error) {
	if g.validateErr != nil {
		return nil, g.validateErr
	}
	if id == "" {
		return nil, common.ErrorUnauthenticated
	}
	s, ok := g.sessions[id]
	if !ok {
		return nil, common.ErrorUnauthenticated
	}
	if !s.LiveAt(fixedNow) {
		return nil, common.ErrorSessionExpired
	}
	return s, nil
}

func (g *fakeGate) ResolveIdentity(_ context.Context, id string) (string, error) {
	s, ok := g.sessions[id]
	if !ok {
		return "", common.ErrorUserNotFound
	}
	return cryptox.Encrypt(s.UserID, testSecret)
}

func (g *fakeGate) OwnerFromIdentity(identity string) (string, error) {
	owner, err := cryptox.Decrypt(identity, testSecret)
	if err != nil {
		return "", err
	}
	if owner == "" {
		return "", fmt.Errorf("%w: empty identity", common.ErrorDecryption)
	}
	return owner, nil
}

// --- accounts ---

type fakeAccounts struct {
	user       *models.User
	session    *models.Session
	signUpErr  error
	signInErr  error
	signOutErr error
	signedOut  []string

	views   []*models.SessionView
	users   []*models.User
	deleted []string
	delErr  error
}

func (a *fakeAccounts) SignUp(_ context.Context, _, _, _ string) (*models.User, *models.Session, error) {
	if a.signUpErr != nil {
		return nil, nil, a.signUpErr
	}
	return a.user, a.session, nil
}

func (a *fakeAccounts) SignIn(_ context.Context, _, _ string) (*models.User, *models.Session, error) {
	if a.signInErr != nil {
		return nil, nil, a.signInErr
	}
	return a.user, a.session, nil
}

func (a *fakeAccounts) SignOut(_ context.Context, id string) error {
	if a.signOutErr != nil {
		return a.signOutErr
	}
	a.signedOut = append(a.signedOut, id)
	return nil
}

func (a *fakeAccounts) ListSessions(context.Context) ([]*models.SessionView, error) {
	return a.views, nil
}

func (a *fakeAccounts) List(context.Context) ([]*models.User, error) {
	return a.users, nil
}

func (a *fakeAccounts) SoftDelete(_ context.Context, id string) error {
	if a.delErr != nil {
		return a.delErr
	}
	a.deleted = append(a.deleted, id)
	return nil
}

// --- meals ---

type fakeMeals struct {
	mu     sync.Mutex
	calls  int
	owners []string

	meals     map[string]*models.Meal
	created   *models.Meal
	patch     models.MealPatch
	exportErr error
}

func (m *fakeMeals) touch(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.owners = append(m.owners, owner)
}

func (m *fakeMeals) Create(_ context.Context, owner string, meal *models.Meal) (*models.Meal, error) {
	m.touch(owner)
	meal.ID = "11111111-1111-1111-1111-111111111111"
	meal.Owner = owner
	m.created = meal
	return meal, nil
}

func (m *fakeMeals) List(_ context.Context, owner string) ([]*models.Meal, error) {
	m.touch(owner)
	var out []*models.Meal
	for _, meal := range m.meals {
		if meal.Owner == owner {
			out = append(out, meal)
		}
	}
	return out, nil
}

func (m *fakeMeals) Get(_ context.Context, owner, id string) (*models.Meal, error) {
	m.touch(owner)
	meal, ok := m.meals[id]
	if !ok || meal.Owner != owner {
		return nil, common.ErrorNotFound
	}
	return meal, nil
}

func (m *fakeMeals) Update(ctx context.Context, owner, id string, patch models.MealPatch) (*models.Meal, error) {
	meal, err := m.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	m.patch = patch
	patch.Apply(meal)
	return meal, nil
}

func (m *fakeMeals) Delete(_ context.Context, owner, id string) error {
	m.touch(owner)
	meal, ok := m.meals[id]
	if !ok || meal.Owner != owner {
		return common.ErrorNotFound
	}
	delete(m.meals, id)
	return nil
}

func (m *fakeMeals) Metrics(_ context.Context, owner string) (models.Metrics, error) {
	m.touch(owner)
	var list []*models.Meal
	for _, meal := range m.meals {
		if meal.Owner == owner {
			list = append(list, meal)
		}
	}
	return services.ComputeMetrics(list), nil
}

func (m *fakeMeals) Export(_ context.Context, owner string) (*services.ExportResult, error) {
	m.touch(owner)
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	return &services.ExportResult{Key: "exports/" + owner + "/x.json", URL: "https://s3.example/x"}, nil
}

func (m *fakeMeals) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- pinger ---

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

// --- harness ---

type harness struct {
	gate     *fakeGate
	accounts *fakeAccounts
	meals    *fakeMeals
	pinger   fakePinger
	cfg      RouterConfig
}

const (
	liveSession    = "live-session"
	expiredSession = "expired-session"
	ownerID        = "owner-1"
)

func newHarness() *harness {
	h := &harness{
		gate: &fakeGate{sessions: map[string]*models.Session{
			liveSession:    {ID: liveSession, UserID: ownerID, Expires: fixedNow.Add(time.Hour)},
			expiredSession: {ID: expiredSession, UserID: ownerID, Expires: fixedNow.Add(-time.Hour)},
		}},
		accounts: &fakeAccounts{},
		meals:    &fakeMeals{meals: map[string]*models.Meal{}},
	}
	h.cfg = RouterConfig{
		Now:           func() time.Time { return fixedNow },
		IsDevelopment: true,
	}
	return h
}

func (h *harness) router(t *testing.T) http.Handler {
	t.Helper()
	cfg := h.cfg
	cfg.Gate = h.gate
	cfg.Accounts = h.accounts
	cfg.Meals = h.meals
	cfg.DB = h.pinger
	r, err := NewRouter(cfg)
	require.NoError(t, err)
	return r
}

func do(t *testing.T, handler http.Handler, method, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: session})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func doWithContentType(t *testing.T, handler http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}
