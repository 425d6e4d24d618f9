package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// UsersHandler serves /users.
type UsersHandler struct {
	accounts Accounts
}

func NewUsersHandler(accounts Accounts) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, err, msgUserNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: list})
}

func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeErr(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	if err := h.accounts.SoftDelete(r.Context(), id); err != nil {
		writeServiceError(w, err, msgUserNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
