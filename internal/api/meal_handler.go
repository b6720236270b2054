package api

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// MealHandler serves the owner's meal collection.
type MealHandler struct {
	mealService service.MealService
}

// NewMealHandler creates a new MealHandler.
func NewMealHandler(mealService service.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

// --- DTOs ---

type CreateMealRequest struct {
	Name       string            `json:"name" binding:"required"`
	Categories []domain.Category `json:"categories" binding:"required,min=1"`
}

type FavoriteRequest struct {
	IsFavorite *bool `json:"isFavorite" binding:"required"`
}

type MealResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Categories []domain.Category `json:"categories"`
	IsFavorite bool              `json:"isFavorite"`
	LastEaten  *time.Time        `json:"lastEaten,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// MapMealToResponse converts a domain.Meal to MealResponse DTO.
func MapMealToResponse(m *domain.Meal) MealResponse {
	return MealResponse{
		ID:         m.ID,
		Name:       m.Name,
		Categories: m.Categories,
		IsFavorite: m.IsFavorite,
		LastEaten:  m.LastEaten,
		CreatedAt:  m.CreatedAt,
	}
}

func MapMealsToResponse(meals []domain.Meal) []MealResponse {
	responses := make([]MealResponse, len(meals))
	for i := range meals {
		responses[i] = MapMealToResponse(&meals[i])
	}
	return responses
}

// ListMeals handles GET /api/v1/meals
func (h *MealHandler) ListMeals(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	meals, err := h.mealService.ListMeals(c.Request.Context(), owner)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMealsToResponse(meals))
}

// CreateMeal handles POST /api/v1/meals
func (h *MealHandler) CreateMeal(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	meal, err := h.mealService.CreateMeal(c.Request.Context(), owner, req.Name, req.Categories)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapMealToResponse(meal))
}

// DeleteMeal handles DELETE /api/v1/meals/:id
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if err := h.mealService.RemoveMeal(c.Request.Context(), owner, c.Param("id")); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetFavorite handles PUT /api/v1/meals/:id/favorite
func (h *MealHandler) SetFavorite(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	meals, err := h.mealService.SetFavorite(c.Request.Context(), owner, c.Param("id"), *req.IsFavorite)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMealsToResponse(meals))
}

// MarkEaten handles POST /api/v1/meals/:id/eaten
func (h *MealHandler) MarkEaten(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	meals, err := h.mealService.MarkEaten(c.Request.Context(), owner, c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapMealsToResponse(meals))
}

// SeedDemoMeals handles POST /api/v1/meals/seed
func (h *MealHandler) SeedDemoMeals(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	added, err := h.mealService.SeedDemoMeals(c.Request.Context(), owner)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}
