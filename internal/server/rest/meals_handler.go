package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
)

// MealsHandler serves /meals. Every handler decrypts the owner from the
// request identity first and stops on failure.
type MealsHandler struct {
	meals    Meals
	gate     SessionGate
	validate *validator.Validate
}

func NewMealsHandler(meals Meals, gate SessionGate) *MealsHandler {
	return &MealsHandler{meals: meals, gate: gate, validate: validator.New()}
}

type createMealRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Type        string    `json:"type" validate:"required,max=50"`
	DateTime    time.Time `json:"datetime"`
	InDiet      bool      `json:"inDiet"`
}

type updateMealRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	Type        *string    `json:"type" validate:"omitempty,min=1,max=50"`
	DateTime    *time.Time `json:"datetime"`
	InDiet      *bool      `json:"inDiet"`
}

// owner returns the decrypted owner id. When it returns false the response
// has been written and the handler must return.
func (h *MealsHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, err := h.gate.OwnerFromIdentity(IdentityFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, msgUserNotFound)
		return "", false
	}
	return owner, true
}

func mealID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeErr(w, http.StatusNotFound, msgMealNotFound)
		return "", false
	}
	return id, true
}

func (h *MealsHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
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

func (h *MealsHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var body createMealRequest
	if !h.decode(w, r, &body) {
		return
	}
	if body.DateTime.IsZero() {
		writeErr(w, http.StatusBadRequest, "datetime is required")
		return
	}

	m, err := h.meals.Create(r.Context(), owner, &models.Meal{
		Title:       body.Title,
		Description: body.Description,
		Type:        body.Type,
		DateTime:    body.DateTime,
		InDiet:      body.InDiet,
	})
	if err != nil {
		writeServiceError(w, err, msgMealNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, dataResponse{Data: m})
}

func (h *MealsHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	list, err := h.meals.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err, msgMealNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: list})
}

func (h *MealsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	m, err := h.meals.Metrics(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err, msgMealNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: m})
}

func (h *MealsHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := mealID(w, r)
	if !ok {
		return
	}

	m, err := h.meals.Get(r.Context(), owner, id)
	if err != nil {
		writeServiceError(w, err, msgMealNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: m})
}

func (h *MealsHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := mealID(w, r)
	if !ok {
		return
	}

	var body updateMealRequest
	if !h.decode(w, r, &body) {
		return
	}

	m, err := h.meals.Update(r.Context(), owner, id, models.MealPatch{
		Title:       body.Title,
		Description: body.Description,
		Type:        body.Type,
		DateTime:    body.DateTime,
		InDiet:      body.InDiet,
	})
	if err != nil {
		writeServiceError(w, err, msgMealNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: m})
}

func (h *MealsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}
	id, ok := mealID(w, r)
	if !ok {
		return
	}

	if err := h.meals.Delete(r.Context(), owner, id); err != nil {
		writeServiceError(w, err, msgMealNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MealsHandler) Export(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	res, err := h.meals.Export(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err, msgMealNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: res})
}
