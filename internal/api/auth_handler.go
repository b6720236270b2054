package api

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	IsDemo    bool             `json:"isDemo"`
	Reminder  *domain.Reminder `json:"reminder,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ReminderRequest struct {
	Enabled   bool   `json:"enabled"`
	Weekday   int    `json:"weekday" binding:"min=0,max=6"`
	Hour      int    `json:"hour" binding:"min=0,max=23"`
	Minute    int    `json:"minute" binding:"min=0,max=59"`
	PushToken string `json:"pushToken"`
}

// --- Handler Methods ---

// Register creates an account and logs it in.
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ctx := c.Request.Context()
	if _, err := h.authService.Register(ctx, req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrHashingFailed) {
			abortWithError(c, http.StatusInternalServerError, "Could not process registration")
			return
		}
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	token, user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, LoginResponse{Token: token, User: MapUserToResponse(user)})
}

// Login authenticates a user and returns a JWT token.
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrTokenGeneration) {
			abortWithError(c, http.StatusInternalServerError, "Could not process login")
			return
		}
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// Demo signs in with a fresh account pre-filled with demo meals.
// @Router /auth/demo [post]
func (h *AuthHandler) Demo(c *gin.Context) {
	token, user, err := h.authService.Demo(c.Request.Context())
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, LoginResponse{Token: token, User: MapUserToResponse(user)})
}

// Me returns the authenticated user.
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// SetReminder stores the weekly reminder preference.
// @Router /me/reminder [put]
func (h *AuthHandler) SetReminder(c *gin.Context) {
	userID, ok := ownerID(c)
	if !ok {
		return
	}
	var req ReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.SetReminder(c.Request.Context(), userID, domain.Reminder{
		Enabled:   req.Enabled,
		Weekday:   req.Weekday,
		Hour:      req.Hour,
		Minute:    req.Minute,
		PushToken: req.PushToken,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		IsDemo:    user.IsDemo,
		Reminder:  user.Reminder,
		CreatedAt: user.CreatedAt,
	}
}
