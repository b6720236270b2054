package api

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/service"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves the owner's current weekly plan.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// GenerateRequest is optional; an empty body uses the configured quotas.
type GenerateRequest struct {
	Quotas *domain.Quotas `json:"quotas"`
}

// SwapRequest optionally forces the category of the replacement.
type SwapRequest struct {
	Category domain.Category `json:"category"`
}

// bindOptionalJSON binds the body only if one was sent.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(obj); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return false
	}
	return true
}

func slotIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid day index format")
		return 0, false
	}
	return index, true
}

// GetPlan handles GET /api/v1/plan
func (h *PlanHandler) GetPlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), owner)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// GeneratePlan handles POST /api/v1/plan/generate
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	var req GenerateRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	result, err := h.planService.GeneratePlan(c.Request.Context(), owner, req.Quotas)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ClearPlan handles DELETE /api/v1/plan
func (h *PlanHandler) ClearPlan(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	if err := h.planService.ClearPlan(c.Request.Context(), owner); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SwapSlot handles POST /api/v1/plan/days/:index/swap
func (h *PlanHandler) SwapSlot(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	index, ok := slotIndex(c)
	if !ok {
		return
	}
	var req SwapRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	plan, err := h.planService.SwapSlot(c.Request.Context(), owner, index, req.Category)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ToggleEaten handles POST /api/v1/plan/days/:index/eaten
func (h *PlanHandler) ToggleEaten(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	index, ok := slotIndex(c)
	if !ok {
		return
	}
	plan, err := h.planService.ToggleEaten(c.Request.Context(), owner, index)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// ArchiveDownloadURL handles GET /api/v1/plan/archive/:key/url
func (h *PlanHandler) ArchiveDownloadURL(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}
	url, err := h.planService.ArchiveDownloadURL(c.Request.Context(), owner, c.Param("key"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
