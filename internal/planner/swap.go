package planner

import (
	"alcyxob/meal-planner/internal/domain"
	"errors"
	"fmt"
)

var (
	ErrNoCandidates    = errors.New("no other meals available in this category")
	ErrInvalidCategory = errors.New("invalid category")
)

// SwapTarget resolves which category a slot swap draws from. An empty
// result means the slot carries no usable category.
func SwapTarget(current domain.PlanSlot, desired domain.Category) domain.Category {
	if desired != "" {
		return desired
	}
	if current.Kind == domain.SlotBrotzeit {
		return domain.CategoryBrotzeit
	}
	if len(current.Categories) > 0 {
		return current.Categories[0]
	}
	return ""
}

// SwapCandidates lists the meals that may replace current. Brotzeit draws
// from the whole collection.
func SwapCandidates(meals []domain.Meal, current domain.PlanSlot, target domain.Category) []domain.Meal {
	var out []domain.Meal
	if target == "" {
		return out
	}
	for _, m := range meals {
		if m.ID == current.ID {
			continue
		}
		if target == domain.CategoryBrotzeit || m.HasCategory(target) {
			out = append(out, m)
		}
	}
	return out
}

// PickSwap picks a replacement for current uniformly at random.
func (e *Engine) PickSwap(meals []domain.Meal, current domain.PlanSlot, desired domain.Category) (domain.Meal, error) {
	if desired != "" && !desired.IsMealCategory() && desired != domain.CategoryBrotzeit {
		return domain.Meal{}, fmt.Errorf("%w: %q", ErrInvalidCategory, desired)
	}
	target := SwapTarget(current, desired)
	candidates := SwapCandidates(meals, current, target)
	if len(candidates) == 0 {
		return domain.Meal{}, ErrNoCandidates
	}
	return candidates[e.rng.IntN(len(candidates))], nil
}
