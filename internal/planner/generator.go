package planner

import (
	"alcyxob/meal-planner/internal/domain"
)

// Assembly is a freshly generated plan before it is persisted.
type Assembly struct {
	Days          []domain.PlanSlot
	HasDuplicates bool
	Warnings      []string
}

// Partition groups meals by category tag. Multi-tagged meals appear in every matching pool.
func Partition(meals []domain.Meal) map[domain.Category][]domain.Meal {
	pools := make(map[domain.Category][]domain.Meal, len(domain.MealCategories))
	for _, m := range meals {
		for _, c := range domain.MealCategories {
			if m.HasCategory(c) {
				pools[c] = append(pools[c], m)
			}
		}
	}
	return pools
}

// Assemble builds a shuffled week from the collection according to q.
// Callers validate that q sums to domain.PlanDays beforehand.
func (e *Engine) Assemble(meals []domain.Meal, q domain.Quotas) Assembly {
	var out Assembly
	pools := Partition(meals)

	days := make([]domain.PlanSlot, 0, domain.PlanDays)
	for _, c := range domain.MealCategories {
		sel := e.SelectWeighted(pools[c], q.For(c), meals, c)
		days = append(days, sel.Slots...)
		out.Warnings = append(out.Warnings, sel.Warnings...)
	}
	for i := 0; i < q.Brotzeit; i++ {
		days = append(days, e.brotzeitSlot())
	}

	e.Shuffle(days)
	if len(days) > domain.PlanDays {
		days = days[:domain.PlanDays]
	}

	out.Days = days
	out.HasDuplicates = HasDuplicates(days)
	return out
}

// Shuffle permutes slots in place (Fisher-Yates).
func (e *Engine) Shuffle(slots []domain.PlanSlot) {
	for i := len(slots) - 1; i > 0; i-- {
		j := e.rng.IntN(i + 1)
		slots[i], slots[j] = slots[j], slots[i]
	}
}

// HasDuplicates reports whether any meal ID occurs more than once.
func HasDuplicates(slots []domain.PlanSlot) bool {
	counts := make(map[string]int, len(slots))
	for _, s := range slots {
		if !s.HasMeal() {
			continue
		}
		counts[s.ID]++
		if counts[s.ID] > 1 {
			return true
		}
	}
	return false
}
