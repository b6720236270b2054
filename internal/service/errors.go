package service

import (
	"alcyxob/meal-planner/internal/planner"
	"errors"
)

// --- Error Definitions ---
var (
	ErrDuplicateMeal  = errors.New("a meal with this name already exists")
	ErrInvalidMeal    = errors.New("meal needs a name and at least one of meat, fish, veg")
	ErrMealNotFound   = errors.New("meal not found")
	ErrInvalidQuotas  = errors.New("invalid category quotas")
	ErrSlotOutOfRange = errors.New("plan slot index out of range")
	ErrNoCandidates   = planner.ErrNoCandidates
	ErrInvalidSlot    = planner.ErrInvalidCategory
	ErrOwnerRequired  = errors.New("owner ID is required")
	ErrArchiveMissing = errors.New("archived plan not found")

	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid email or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrInvalidReminder      = errors.New("invalid reminder settings")
)
