package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rlocatelli9/daily-diet-api/internal/logging"
)

// RouterConfig carries the dependencies of NewRouter.
type RouterConfig struct {
	Gate     SessionGate
	Accounts Accounts
	Meals    Meals
	DB       Pinger
	Log      logging.Logger
	Cookie   CookieOptions

	// Now overrides the clock used for cookie expiry. Defaults to time.Now.
	Now func() time.Time

	RequestTimeout  time.Duration
	SignInRateLimit string
	MetricsEnabled  bool
	IsDevelopment   bool
}

// NewRouter builds the HTTP handler of the diet API.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	authLimiter, err := newIPRateLimiter(cfg.SignInRateLimit)
	if err != nil {
		return nil, err
	}

	log := cfg.Log
	if log == nil {
		log = logging.Nop()
	}

	register := NewRegisterHandler(cfg.Accounts, cfg.Cookie, log.With("module", "rest"))
	if cfg.Now != nil {
		register.now = cfg.Now
	}
	users := NewUsersHandler(cfg.Accounts)
	meals := NewMealsHandler(cfg.Meals, cfg.Gate)

	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(accessLog(log))
	r.Use(chimid.Recoverer)
	if cfg.MetricsEnabled {
		r.Use(prometheusMiddleware)
	}
	r.Use(newSecure(cfg.IsDevelopment))
	if cfg.RequestTimeout > 0 {
		r.Use(chimid.Timeout(cfg.RequestTimeout))
	}

	r.Method(http.MethodGet, "/health", NewHealthHandler(cfg.DB))
	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.Route("/register", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter)
			r.Use(chimid.AllowContentType("application/json"))
			r.Post("/signup", register.SignUp)
			r.Post("/signin", register.SignIn)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireSession(cfg.Gate))
			r.Patch("/signout", register.SignOut)
			r.Get("/", register.ListSessions)
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Use(requireSession(cfg.Gate))
		r.Get("/", users.List)
		r.Delete("/delete/{id}", users.Delete)
	})

	r.Route("/meals", func(r chi.Router) {
		r.Use(requireSession(cfg.Gate))
		r.Use(resolveIdentity(cfg.Gate))
		r.Get("/", meals.List)
		r.Get("/list", meals.List)
		r.Get("/metrics", meals.Metrics)
		r.Post("/export", meals.Export)
		r.Get("/{id}", meals.Get)
		r.Delete("/delete/{id}", meals.Delete)
		r.Group(func(r chi.Router) {
			r.Use(chimid.AllowContentType("application/json"))
			r.Post("/", meals.Create)
			r.Put("/{id}", meals.Update)
		})
	})

	return r, nil
}
