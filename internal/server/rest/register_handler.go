package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rlocatelli9/daily-diet-api/internal/logging"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
)

// RegisterHandler serves /register: sign-up, sign-in, sign-out and the
// session listing.
type RegisterHandler struct {
	accounts Accounts
	cookies  CookieOptions
	validate *validator.Validate
	log      logging.Logger
	now      func() time.Time
}

func NewRegisterHandler(accounts Accounts, cookies CookieOptions, log logging.Logger) *RegisterHandler {
	return &RegisterHandler{
		accounts: accounts,
		cookies:  cookies,
		validate: validator.New(),
		log:      log,
		now:      time.Now,
	}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type signinRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

type accountResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type sessionsResponse struct {
	Sessions []*models.SessionView `json:"sessions"`
}

func (h *RegisterHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (h *RegisterHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var body signupRequest
	if !h.decode(w, r, &body) {
		return
	}

	user, session, err := h.accounts.SignUp(r.Context(), body.Username, body.Email, body.Password)
	recordAuthAttempt("signup", err == nil)
	if err != nil {
		h.log.Warn(r.Context(), "signup failed", "error", err)
		writeServiceError(w, err, msgUserNotFound)
		return
	}

	h.cookies.set(w, session.ID, session.Expires, h.now())
	writeJSON(w, http.StatusCreated, accountResponse{Username: user.Username, Email: user.Email})
}

func (h *RegisterHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signinRequest
	if !h.decode(w, r, &body) {
		return
	}

	user, session, err := h.accounts.SignIn(r.Context(), body.Email, body.Password)
	recordAuthAttempt("signin", err == nil)
	if err != nil {
		h.log.Warn(r.Context(), "signin failed", "error", err)
		writeServiceError(w, err, msgUserNotFound)
		return
	}

	h.cookies.set(w, session.ID, session.Expires, h.now())
	writeJSON(w, http.StatusOK, accountResponse{Username: user.Username, Email: user.Email})
}

func (h *RegisterHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.SignOut(r.Context(), SessionIDFromContext(r.Context())); err != nil {
		writeServiceError(w, err, msgNotFoundSession)
		return
	}
	h.cookies.clear(w)
	w.WriteHeader(http.StatusCreated)
}

func (h *RegisterHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	views, err := h.accounts.ListSessions(r.Context())
	if err != nil {
		writeServiceError(w, err, msgNotFoundSession)
		return
	}
	writeJSON(w, http.StatusOK, sessionsResponse{Sessions: views})
}
