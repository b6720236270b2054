package service

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// demoMeals seed a fresh or anonymous account.
var demoMeals = []struct {
	Name     string
	Category domain.Category
}{
	{"Käsespätzle", domain.CategoryVeg},
	{"Schnitzel mit Pommes", domain.CategoryMeat},
	{"Lachs mit Spinat", domain.CategoryFish},
	{"Gemüsecurry", domain.CategoryVeg},
	{"Rindergulasch", domain.CategoryMeat},
	{"Forelle Müllerin", domain.CategoryFish},
	{"Kartoffelsuppe", domain.CategoryVeg},
	{"Currywurst", domain.CategoryMeat},
	{"Bratwurst mit Sauerkraut", domain.CategoryMeat},
	{"Thunfischsalat", domain.CategoryFish},
}

type MealService interface {
	ListMeals(ctx context.Context, ownerID string) ([]domain.Meal, error)
	CreateMeal(ctx context.Context, ownerID, name string, categories []domain.Category) (*domain.Meal, error)
	RemoveMeal(ctx context.Context, ownerID, mealID string) error
	// SetFavorite returns the collection as it stands after the call, rolled back on failure.
	SetFavorite(ctx context.Context, ownerID, mealID string, isFavorite bool) ([]domain.Meal, error)
	// MarkEaten stamps now as the meal's last-eaten date.
	MarkEaten(ctx context.Context, ownerID, mealID string) ([]domain.Meal, error)
	SeedDemoMeals(ctx context.Context, ownerID string) (int, error)
}

// mealService implements the MealService interface.
type mealService struct {
	sessionLoader
	logger *zap.Logger
	now    func() time.Time
}

// NewMealService creates a new instance of mealService.
func NewMealService(mealRepo repository.MealRepository, planRepo repository.PlanRepository, logger *zap.Logger) MealService {
	return &mealService{
		sessionLoader: sessionLoader{meals: mealRepo, plans: planRepo},
		logger:        logger,
		now:           time.Now,
	}
}

func (s *mealService) ListMeals(ctx context.Context, ownerID string) ([]domain.Meal, error) {
	sess, err := s.load(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	return sess.Meals, nil
}

// CreateMeal validates, de-duplicates and stores a new meal.
func (s *mealService) CreateMeal(ctx context.Context, ownerID, name string, categories []domain.Category) (*domain.Meal, error) {
	sess, err := s.load(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	return s.create(ctx, sess, name, categories)
}

func (s *mealService) create(ctx context.Context, sess *PlannerSession, name string, categories []domain.Category) (*domain.Meal, error) {
	name = strings.TrimSpace(name)
	cats := domain.NormalizeCategories(categories)
	if name == "" || len(cats) == 0 {
		return nil, ErrInvalidMeal
	}
	if sess.hasName(name) {
		return nil, ErrDuplicateMeal
	}

	meal := &domain.Meal{
		OwnerID:    sess.OwnerID,
		Name:       name,
		Categories: cats,
	}
	if _, err := s.meals.Create(ctx, meal); err != nil {
		// Lost a race against a concurrent create
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateMeal
		}
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	sess.Meals = append(sess.Meals, *meal)
	return meal, nil
}

func (s *mealService) RemoveMeal(ctx context.Context, ownerID, mealID string) error {
	if ownerID == "" {
		return ErrOwnerRequired
	}
	if err := s.meals.Delete(ctx, mealID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMealNotFound
		}
		return err
	}
	return nil
}

func (s *mealService) SetFavorite(ctx context.Context, ownerID, mealID string, isFavorite bool) ([]domain.Meal, error) {
	sess, err := s.load(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	i := sess.mealIndex(mealID)
	if i < 0 {
		return nil, ErrMealNotFound
	}

	err = mutateWithRollback(&sess.Meals[i],
		func(m *domain.Meal) { m.IsFavorite = isFavorite },
		func() error { return s.meals.SetFavorite(ctx, mealID, isFavorite) },
	)
	if err != nil {
		s.logger.Error("favorite toggle failed, rolled back",
			zap.String("mealId", mealID), zap.Bool("isFavorite", isFavorite), zap.Error(err))
		return sess.Meals, fmt.Errorf("failed to update favorite: %w", err)
	}
	return sess.Meals, nil
}

func (s *mealService) MarkEaten(ctx context.Context, ownerID, mealID string) ([]domain.Meal, error) {
	sess, err := s.load(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	i := sess.mealIndex(mealID)
	if i < 0 {
		return nil, ErrMealNotFound
	}

	now := s.now().UTC()
	sess.Meals[i].LastEaten = &now
	if err := s.meals.SetLastEaten(ctx, mealID, now); err != nil {
		s.logger.Error("failed to mark meal eaten", zap.String("mealId", mealID), zap.Error(err))
		// The previous date is not kept, so reconcile from the store.
		if rerr := s.refreshMeals(ctx, sess); rerr != nil {
			s.logger.Warn("refetch after failed eaten update", zap.Error(rerr))
		}
		return sess.Meals, fmt.Errorf("failed to update last eaten: %w", err)
	}
	return sess.Meals, nil
}

// SeedDemoMeals adds the demo dishes, skipping names the owner already has.
func (s *mealService) SeedDemoMeals(ctx context.Context, ownerID string) (int, error) {
	sess, err := s.load(ctx, ownerID, false)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, demo := range demoMeals {
		_, err := s.create(ctx, sess, demo.Name, []domain.Category{demo.Category})
		switch {
		case errors.Is(err, ErrDuplicateMeal):
			continue
		case err != nil:
			return added, err
		}
		added++
	}
	s.logger.Info("seeded demo meals", zap.String("ownerId", ownerID), zap.Int("added", added))
	return added, nil
}
