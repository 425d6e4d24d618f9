package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
)

const (
	msgNotFoundSession = "Not found session"
	msgExpiredSession  = "Expired session"
	msgUserNotFound    = "User not found"
	msgWrongPassword   = "The password is incorrect"
	msgBadIdentity     = "User not found. Please try again after the login."
	msgMealNotFound    = "Meal not found"
	msgInternal        = "internal error"
)

type dataResponse struct {
	Data any `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Error: message})
}

// writeServiceError maps a service error to its status and message.
// notFound is the message used for common.ErrorNotFound.
func writeServiceError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		writeErr(w, http.StatusUnauthorized, msgNotFoundSession)
	case errors.Is(err, common.ErrorSessionExpired):
		writeErr(w, http.StatusUnauthorized, msgExpiredSession)
	case errors.Is(err, common.ErrorUserNotFound):
		writeErr(w, http.StatusUnauthorized, msgUserNotFound)
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeErr(w, http.StatusUnauthorized, msgWrongPassword)
	case errors.Is(err, common.ErrorDecryption):
		writeErr(w, http.StatusBadRequest, msgBadIdentity)
	case errors.Is(err, common.ErrorValidation):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeErr(w, http.StatusNotFound, notFound)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeErr(w, http.StatusConflict, "User already exists")
	case errors.Is(err, common.ErrorUnavailable):
		writeErr(w, http.StatusServiceUnavailable, "Export is not configured")
	default:
		writeErr(w, http.StatusInternalServerError, msgInternal)
	}
}
