package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/rlocatelli9/daily-diet-api/internal/logging"
	"github.com/ulule/limiter/v3"
	stdlib "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"github.com/unrolled/secure"
)

// requireSession rejects requests without a live session and stores the
// session id in the request context.
func requireSession(gate SessionGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessionCookie(r)
			if _, err := gate.Validate(r.Context(), id); err != nil {
				writeServiceError(w, err, msgNotFoundSession)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), id)))
		})
	}
}

// resolveIdentity attaches the encrypted owner identity of the validated
// session. It must run after requireSession.
func resolveIdentity(gate SessionGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := gate.ResolveIdentity(r.Context(), SessionIDFromContext(r.Context()))
			if err != nil {
				writeServiceError(w, err, msgUserNotFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// accessLog writes one structured line per request.
func accessLog(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info(r.Context(), "request",
				"request_id", chimid.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
			)
		})
	}
}

// prometheusMiddleware records request duration labelled by route pattern.
func prometheusMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimid.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		observeRequest(r.Method, route, ww.Status(), time.Since(start))
	})
}

// newSecure returns a middleware that adds security headers.
func newSecure(isDevelopment bool) func(http.Handler) http.Handler {
	s := secure.New(secure.Options{
		IsDevelopment:         isDevelopment,
		ContentTypeNosniff:    true,
		FrameDeny:             true,
		BrowserXssFilter:      true,
		ContentSecurityPolicy: "default-src 'none'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	})
	return s.Handler
}

// newIPRateLimiter limits by client IP using an in-memory store.
// rateFormatted: "10-M", "100-H", "5-S". Empty disables limiting.
func newIPRateLimiter(rateFormatted string) (func(http.Handler) http.Handler, error) {
	if rateFormatted == "" {
		return noopMiddleware, nil
	}
	rate, err := limiter.NewRateFromFormatted(rateFormatted)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(memory.NewStore(), rate)
	return stdlib.NewMiddleware(instance, stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusTooManyRequests, "rate limit exceeded")
	})).Handler, nil
}

func noopMiddleware(next http.Handler) http.Handler {
	return next
}
