package rest

import (
	"net/http"
	"time"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
)

// CookieOptions control the sessionId cookie attributes.
type CookieOptions struct {
	Domain string
	Secure bool
}

func (o CookieOptions) set(w http.ResponseWriter, id string, expires time.Time, now time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    id,
		Path:     "/",
		Domain:   o.Domain,
		Expires:  expires,
		MaxAge:   int(expires.Sub(now).Seconds()),
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (o CookieOptions) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   o.Domain,
		MaxAge:   -1,
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionCookie(r *http.Request) string {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
