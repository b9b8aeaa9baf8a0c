package adaptor

import (
	"net/http"

	"movie-theater/internal/dto/request"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type FoodHandler struct {
	service usecase.FoodService
	log     *zap.Logger
}

func NewFoodHandler(service usecase.FoodService, log *zap.Logger) *FoodHandler {
	return &FoodHandler{
		service: service,
		log:     log.With(zap.String("handler", "food")),
	}
}

// GetFoodItems handles GET /api/fooditem?category=
func (h *FoodHandler) GetFoodItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.GetFoodItems(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		handleServiceError(w, h.log, err, "get food items")
		return
	}

	utils.ResponseSuccess(w, "Food items retrieved successfully", items)
}

// GetFoodItemByID handles GET /api/fooditem/{id}
func (h *FoodHandler) GetFoodItemByID(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetFoodItemByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get food item")
		return
	}

	utils.ResponseSuccess(w, "Food item retrieved successfully", item)
}

// CreateFoodItem handles POST /api/fooditem
func (h *FoodHandler) CreateFoodItem(w http.ResponseWriter, r *http.Request) {
	var req request.FoodItemRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.service.CreateFoodItem(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create food item")
		return
	}

	utils.ResponseCreated(w, "Food item created successfully", item)
}

// UpdateFoodItem handles PUT /api/fooditem/{id}
func (h *FoodHandler) UpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	var req request.FoodItemUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	item, err := h.service.UpdateFoodItem(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update food item")
		return
	}

	utils.ResponseSuccess(w, "Food item updated successfully", item)
}

// DeleteFoodItem handles DELETE /api/fooditem/{id}
func (h *FoodHandler) DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteFoodItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete food item")
		return
	}

	utils.ResponseSuccess(w, "Food item deleted successfully", nil)
}
