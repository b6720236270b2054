package service

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/repository"
	"context"
	"errors"
	"fmt"
)

// PlannerSession is the working state of one owner: the meal collection,
// the quotas for the next generation and the current plan. Operations
// mutate it in place and keep it consistent with the stores.
type PlannerSession struct {
	OwnerID string
	Meals   []domain.Meal
	Quotas  domain.Quotas
	Plan    *domain.Plan
}

func (s *PlannerSession) mealIndex(id string) int {
	for i := range s.Meals {
		if s.Meals[i].ID == id {
			return i
		}
	}
	return -1
}

// hasName reports whether the collection already holds a meal with the same NameKey.
func (s *PlannerSession) hasName(name string) bool {
	key := domain.NameKey(name)
	for i := range s.Meals {
		if domain.NameKey(s.Meals[i].Name) == key {
			return true
		}
	}
	return false
}

// mutateWithRollback applies mutate to target, then runs write. If write
// fails, target is restored to its snapshot and the error returned.
func mutateWithRollback[T any](target *T, mutate func(*T), write func() error) error {
	snapshot := *target
	mutate(target)
	if err := write(); err != nil {
		*target = snapshot
		return err
	}
	return nil
}

// sessionLoader assembles sessions from the stores.
type sessionLoader struct {
	meals repository.MealRepository
	plans repository.PlanRepository
}

func (l sessionLoader) load(ctx context.Context, ownerID string, withPlan bool) (*PlannerSession, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	sess := &PlannerSession{OwnerID: ownerID, Quotas: domain.DefaultQuotas()}
	if err := l.refreshMeals(ctx, sess); err != nil {
		return nil, err
	}
	if !withPlan {
		return sess, nil
	}

	plan, err := l.plans.Get(ctx, ownerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		plan = &domain.Plan{OwnerID: ownerID, Days: []domain.PlanSlot{}}
	case err != nil:
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	sess.Plan = plan
	return sess, nil
}

func (l sessionLoader) refreshMeals(ctx context.Context, sess *PlannerSession) error {
	meals, err := l.meals.ListByOwner(ctx, sess.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to list meals: %w", err)
	}
	sess.Meals = meals
	return nil
}
