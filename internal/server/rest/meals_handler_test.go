package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rlocatelli9/daily-diet-api/internal/common"
	"github.com/rlocatelli9/daily-diet-api/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mealUUID = "33333333-3333-3333-3333-333333333333"

func seedMeal(h *harness, id, owner string, inDiet bool) *models.Meal {
	m := &models.Meal{
		ID:       id,
		Owner:    owner,
		Title:    "Lunch",
		Type:     "lunch",
		DateTime: fixedNow,
		InDiet:   inDiet,
	}
	h.meals.meals[id] = m
	return m
}

type mealEnvelope struct {
	Data models.Meal `json:"data"`
}

func TestMeals_UndecryptableIdentityStopsRequest(t *testing.T) {
	h := newHarness()
	seedMeal(h, mealUUID, ownerID, true)
	r := h.router(t)

	// An identity that cannot be decrypted never reaches the meal store.
	h.gate.sessions[liveSession].UserID = ""
	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/meals", ""},
		{http.MethodGet, "/meals/list", ""},
		{http.MethodGet, "/meals/metrics", ""},
		{http.MethodGet, "/meals/" + mealUUID, ""},
		{http.MethodDelete, "/meals/delete/" + mealUUID, ""},
		{http.MethodPost, "/meals/export", ""},
		{http.MethodPut, "/meals/" + mealUUID, `{"title":"x"}`},
		{http.MethodPost, "/meals", `{"title":"x","type":"snack","datetime":"2024-03-01T10:00:00Z","inDiet":true}`},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := do(t, r, rt.method, rt.path, liveSession, rt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "User not found. Please try again after the login.", decodeError(t, rec.Body.Bytes()))
		})
	}
	assert.Zero(t, h.meals.callCount())
}

func TestMeals_OwnerFromIdentity(t *testing.T) {
	h := newHarness()
	r := h.router(t)

	rec := do(t, r, http.MethodGet, "/meals", liveSession, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{ownerID}, h.meals.owners)
}

func TestMeals_Create(t *testing.T) {
	h := newHarness()
	r := h.router(t)

	rec := do(t, r, http.MethodPost, "/meals", liveSession,
		`{"title":"Salad","description":"greens","type":"lunch","datetime":"2024-03-01T10:00:00Z","inDiet":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got mealEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Salad", got.Data.Title)
	assert.Equal(t, ownerID, got.Data.Owner)
	assert.False(t, got.Data.InDiet)
	require.NotNil(t, got.Data.Description)
	assert.Equal(t, "greens", *got.Data.Description)
	assert.True(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC).Equal(got.Data.DateTime))
}

func TestMeals_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing title", body: `{"type":"lunch","datetime":"2024-03-01T10:00:00Z"}`},
		{name: "missing type", body: `{"title":"Salad","datetime":"2024-03-01T10:00:00Z"}`},
		{name: "missing datetime", body: `{"title":"Salad","type":"lunch"}`},
		{name: "bad datetime", body: `{"title":"Salad","type":"lunch","datetime":"yesterday"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			rec := do(t, h.router(t), http.MethodPost, "/meals", liveSession, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, h.meals.callCount())
		})
	}
}

func TestMeals_Get(t *testing.T) {
	h := newHarness()
	seedMeal(h, mealUUID, ownerID, true)
	seedMeal(h, "44444444-4444-4444-4444-444444444444", "someone-else", true)
	r := h.router(t)

	rec := do(t, r, http.MethodGet, "/meals/"+mealUUID, liveSession, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/meals/44444444-4444-4444-4444-444444444444", liveSession, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Meal not found", decodeError(t, rec.Body.Bytes()))

	rec = do(t, r, http.MethodGet, "/meals/not-a-uuid", liveSession, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Meal not found", decodeError(t, rec.Body.Bytes()))
}

func TestMeals_UpdateHonorsExplicitFalse(t *testing.T) {
	h := newHarness()
	seedMeal(h, mealUUID, ownerID, true)
	r := h.router(t)

	rec := do(t, r, http.MethodPut, "/meals/"+mealUUID, liveSession, `{"inDiet":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, h.meals.patch.InDiet)
	assert.False(t, *h.meals.patch.InDiet)
	assert.Nil(t, h.meals.patch.Title)

	var got mealEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Data.InDiet)
	assert.Equal(t, "Lunch", got.Data.Title)
}

func TestMeals_UpdateErrors(t *testing.T) {
	h := newHarness()
	seedMeal(h, mealUUID, ownerID, true)
	r := h.router(t)

	rec := do(t, r, http.MethodPut, "/meals/"+mealUUID, liveSession, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, "/meals/55555555-5555-5555-5555-555555555555", liveSession, `{"title":"Dinner"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Meal not found", decodeError(t, rec.Body.Bytes()))
}

func TestMeals_Delete(t *testing.T) {
	h := newHarness()
	seedMeal(h, mealUUID, ownerID, true)
	r := h.router(t)

	rec := do(t, r, http.MethodDelete, "/meals/delete/"+mealUUID, liveSession, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, r, http.MethodDelete, "/meals/delete/"+mealUUID, liveSession, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMeals_Metrics(t *testing.T) {
	h := newHarness()
	seedMeal(h, "a", ownerID, true)
	seedMeal(h, "b", ownerID, true)
	seedMeal(h, "c", ownerID, false)
	seedMeal(h, "d", "someone-else", true)

	rec := do(t, h.router(t), http.MethodGet, "/meals/metrics", liveSession, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Data models.Metrics `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Data.Total)
	assert.Equal(t, 2, got.Data.In)
	assert.Equal(t, 1, got.Data.Out)
}

func TestMeals_Export(t *testing.T) {
	h := newHarness()
	rec := do(t, h.router(t), http.MethodPost, "/meals/export", liveSession, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"url":"https://s3.example/x"`)

	h = newHarness()
	h.meals.exportErr = common.ErrorUnavailable
	rec = do(t, h.router(t), http.MethodPost, "/meals/export", liveSession, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Export is not configured", decodeError(t, rec.Body.Bytes()))
}

func TestMealsHandler_TamperedIdentity(t *testing.T) {
	h := newHarness()
	handler := NewMealsHandler(h.meals, h.gate)

	for _, identity := range []string{"", "garbage", "00:zz", "00112233445566778899aabbccddeeff:00"} {
		t.Run(identity, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/meals", nil)
			req = req.WithContext(WithIdentity(req.Context(), identity))
			rec := httptest.NewRecorder()

			handler.List(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Zero(t, h.meals.callCount())
}
