package planner

import (
	"alcyxob/meal-planner/internal/domain"
	"fmt"
	"slices"
	"time"
)

// Score constants model "meal fatigue". Changing them changes plan behaviour.
const (
	baseScore         = 10.0
	favoriteBonus     = 150.0
	untriedBonus      = 30.0
	resurfaceBonus    = 20.0
	recentFactor      = 0.1 // eaten less than recentDays ago
	lastWeekFactor    = 0.5 // eaten less than lastWeekDays ago
	minScore          = 1.0
	recentDays        = 2.0
	lastWeekDays      = 5.0
	resurfaceAfterDay = 14.0
)

// Score returns the selection weight of a meal at time now. It is never below 1.
func Score(m domain.Meal, now time.Time) float64 {
	score := baseScore
	if m.IsFavorite {
		score += favoriteBonus
	}
	if m.LastEaten == nil {
		score += untriedBonus
	} else {
		daysAgo := now.Sub(*m.LastEaten).Hours() / 24
		switch {
		case daysAgo < recentDays:
			score *= recentFactor
		case daysAgo < lastWeekDays:
			score *= lastWeekFactor
		case daysAgo > resurfaceAfterDay:
			score += resurfaceBonus
		}
	}
	return max(minScore, score)
}

// Selection is the outcome of one SelectWeighted call.
type Selection struct {
	Slots    []domain.PlanSlot
	Warnings []string
}

// SelectWeighted draws count meals from pool by roulette selection without
// replacement. An exhausted working pool is refilled, so repeats appear only
// when supply is scarce. An empty pool falls back to fallback with a warning;
// if fallback is empty too, count placeholders are returned.
func (e *Engine) SelectWeighted(pool []domain.Meal, count int, fallback []domain.Meal, label domain.Category) Selection {
	var sel Selection
	if count <= 0 {
		return sel
	}

	source := pool
	if len(source) == 0 {
		if len(fallback) == 0 {
			sel.Warnings = append(sel.Warnings, fmt.Sprintf("no meals available for '%s'", label))
			for i := 0; i < count; i++ {
				sel.Slots = append(sel.Slots, e.placeholderSlot(label))
			}
			return sel
		}
		sel.Warnings = append(sel.Warnings, fmt.Sprintf("no meals found for '%s', random alternatives chosen", label))
		source = fallback
	}

	now := e.Now()
	working := slices.Clone(source)
	for i := 0; i < count; i++ {
		if len(working) == 0 {
			working = slices.Clone(source)
		}
		idx := e.draw(working, now)
		sel.Slots = append(sel.Slots, domain.SlotFromMeal(working[idx]))
		working = slices.Delete(working, idx, idx+1)
	}
	return sel
}

// draw returns the index of the candidate whose cumulative weight first
// reaches a uniform value in [0, total). Iteration order breaks ties.
func (e *Engine) draw(pool []domain.Meal, now time.Time) int {
	scores := make([]float64, len(pool))
	total := 0.0
	for i, m := range pool {
		scores[i] = Score(m, now)
		total += scores[i]
	}

	remaining := e.rng.Float64() * total
	for i, s := range scores {
		remaining -= s
		if remaining <= 0 {
			return i
		}
	}
	// Float rounding left a sliver above zero.
	return len(pool) - 1
}
