package repository

import (
	"alcyxob/meal-planner/internal/domain" // Import our defined domain models
	"context"
	"time"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// MealRepository persists meals keyed by owner.
type MealRepository interface {
	// Create stores a new meal and assigns ID and CreatedAt. It returns
	// ErrDuplicate if the owner already has a meal with the same NameKey.
	Create(ctx context.Context, meal *domain.Meal) (string, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Meal, error)
	Delete(ctx context.Context, id, ownerID string) error
	SetFavorite(ctx context.Context, id string, isFavorite bool) error
	SetLastEaten(ctx context.Context, id string, at time.Time) error
}

// PlanRepository persists one current plan document per owner.
type PlanRepository interface {
	// Get returns ErrNotFound when the owner never stored a plan.
	Get(ctx context.Context, ownerID string) (*domain.Plan, error)
	// Put upserts the plan. A nil or empty plan clears days and start date.
	Put(ctx context.Context, ownerID string, plan *domain.Plan) error
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	SetReminder(ctx context.Context, id string, reminder *domain.Reminder) error
}

// Repositories bundles the stores of one persistence driver.
type Repositories struct {
	Meals MealRepository
	Plans PlanRepository
	Users UserRepository
}
