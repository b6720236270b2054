package planner

import (
	"alcyxob/meal-planner/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickSwap_NeverReturnsCurrentMeal(t *testing.T) {
	meals := []domain.Meal{
		meal("m1", domain.CategoryMeat),
		meal("m2", domain.CategoryMeat),
		meal("m3", domain.CategoryMeat),
		meal("f1", domain.CategoryFish),
	}
	current := domain.SlotFromMeal(meals[0])
	for seed := uint64(0); seed < 100; seed++ {
		got, err := newTestEngine(seed).PickSwap(meals, current, "")
		require.NoError(t, err)
		assert.NotEqual(t, "m1", got.ID)
		assert.True(t, got.HasCategory(domain.CategoryMeat))
	}
}

func TestPickSwap_OnlyItselfFails(t *testing.T) {
	meals := []domain.Meal{meal("f1", domain.CategoryFish), meal("m1", domain.CategoryMeat)}
	_, err := newTestEngine(1).PickSwap(meals, domain.SlotFromMeal(meals[0]), "")
	assert.ErrorIs(t, err, ErrNoCandidates)
}

func TestPickSwap_BrotzeitDrawsFromWholeCollection(t *testing.T) {
	meals := []domain.Meal{meal("f1", domain.CategoryFish), meal("v1", domain.CategoryVeg)}
	slot := newTestEngine(1).brotzeitSlot()

	seen := map[string]bool{}
	for seed := uint64(0); seed < 50; seed++ {
		got, err := newTestEngine(seed).PickSwap(meals, slot, "")
		require.NoError(t, err)
		seen[got.ID] = true
	}
	assert.Len(t, seen, 2)
}

func TestPickSwap_DesiredCategoryOverridesSlot(t *testing.T) {
	meals := []domain.Meal{meal("m1", domain.CategoryMeat), meal("v1", domain.CategoryVeg)}
	got, err := newTestEngine(4).PickSwap(meals, domain.SlotFromMeal(meals[0]), domain.CategoryVeg)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.ID)
}

func TestPickSwap_InvalidCategory(t *testing.T) {
	meals := []domain.Meal{meal("m1", domain.CategoryMeat)}
	_, err := newTestEngine(4).PickSwap(meals, domain.PlanSlot{}, "dessert")
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestPickSwap_PlaceholderUsesItsLabel(t *testing.T) {
	meals := []domain.Meal{meal("v1", domain.CategoryVeg), meal("m1", domain.CategoryMeat)}
	slot := newTestEngine(1).placeholderSlot(domain.CategoryVeg)
	got, err := newTestEngine(2).PickSwap(meals, slot, "")
	require.NoError(t, err)
	assert.Equal(t, "v1", got.ID)
}

func TestSwapTarget_NoCategory(t *testing.T) {
	assert.Equal(t, domain.Category(""), SwapTarget(domain.PlanSlot{Kind: domain.SlotMeal}, ""))
	_, err := newTestEngine(1).PickSwap([]domain.Meal{meal("a", domain.CategoryMeat)}, domain.PlanSlot{ID: "x"}, "")
	assert.ErrorIs(t, err, ErrNoCandidates)
}
