package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/dailydiet/internal/model"
	"github.com/hitoshi/dailydiet/internal/validate"
)

// MealServiceInterface は食事ハンドラーが必要とするサービスインターフェース。
type MealServiceInterface interface {
	Create(ctx context.Context, userID string, fields model.MealFields) (*model.Meal, error)
	// Update は該当する食事が無くてもエラーを返さない。
	Update(ctx context.Context, userID, mealID string, fields model.MealFields) error
	Delete(ctx context.Context, userID, mealID string) error
	Get(ctx context.Context, userID, mealID string) (*model.Meal, error)
	List(ctx context.Context, userID string) ([]*model.Meal, error)
	Metrics(ctx context.Context, userID string) (*model.MealMetrics, error)
}

// mealResponse は食事のレスポンス。キーはテーブルのカラム名に揃える。
type mealResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Time         string     `json:"time"`
	IsInsideDiet bool       `json:"is_inside_diet"`
	UserID       string     `json:"fk_user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// metricsResponse は集計結果のレスポンス。
type metricsResponse struct {
	TotalMeals            int `json:"totalMeals"`
	InDietMeals           int `json:"inDietMeals"`
	OutOfDietMeals        int `json:"outOfDietMeals"`
	HighestInDietSequence int `json:"highestInDietSequence"`
}

func toMealResponse(m *model.Meal) mealResponse {
	return mealResponse{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Time:         m.Time,
		IsInsideDiet: m.IsInsideDiet,
		UserID:       m.UserID,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// MealHandler は食事記録のHTTPハンドラー。
// すべてのメソッドはセッションガードの内側で呼ばれる前提。
type MealHandler struct {
	service MealServiceInterface
}

// NewMealHandler はMealHandlerを生成する。
func NewMealHandler(service MealServiceInterface) *MealHandler {
	return &MealHandler{service: service}
}

// Create は食事を記録する。
// POST /meals
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	fields, err := validate.MealBody(r.Body)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if _, err := h.service.Create(r.Context(), userID, fields); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Update は食事を上書きする。対象が無い場合も201を返す。
// PUT /meals/{id}
func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	mealID, err := validate.MealID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	fields, err := validate.MealBody(r.Body)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Update(r.Context(), userID, mealID, fields); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Delete は食事を削除する。
// DELETE /meals/{id}
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	mealID, err := validate.MealID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), userID, mealID); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Get は食事を1件返す。
// GET /meals/{id}
func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	mealID, err := validate.MealID(chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	meal, err := h.service.Get(r.Context(), userID, mealID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]mealResponse{"meal": toMealResponse(meal)})
}

// List はユーザーの食事を全件返す。
// GET /meals
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	meals, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := make([]mealResponse, 0, len(meals))
	for _, m := range meals {
		resp = append(resp, toMealResponse(m))
	}
	writeJSON(w, http.StatusOK, map[string][]mealResponse{"meals": resp})
}

// Metrics はユーザーの食事の集計を返す。
// GET /meals/metrics
func (h *MealHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	m, err := h.service.Metrics(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]metricsResponse{"metrics": {
		TotalMeals:            m.TotalMeals,
		InDietMeals:           m.InDietMeals,
		OutOfDietMeals:        m.OutOfDietMeals,
		HighestInDietSequence: m.HighestInDietSequence,
	}})
}
