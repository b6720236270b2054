// internal/domain/plan.go
package domain

import (
	"fmt"
	"time"
)

// PlanDays is the fixed length of a generated plan.
const PlanDays = 7

// SlotKind distinguishes real meal slots from synthetic ones.
type SlotKind string

const (
	SlotMeal        SlotKind = "meal"
	SlotBrotzeit    SlotKind = "brotzeit"
	SlotPlaceholder SlotKind = "placeholder" // Category pool and collection were empty
)

// PlanSlot is one day of a plan. Meal fields are a snapshot taken at assignment time.
type PlanSlot struct {
	ID         string     `bson:"id" json:"id"` // Meal ID, or a generated ID for synthetic slots
	Kind       SlotKind   `bson:"kind" json:"kind"`
	Name       string     `bson:"name" json:"name"`
	Categories []Category `bson:"categories" json:"categories"`
	IsFavorite bool       `bson:"isFavorite" json:"isFavorite"`
	LastEaten  *time.Time `bson:"lastEaten,omitempty" json:"lastEaten,omitempty"`
	IsEaten    bool       `bson:"isEaten" json:"isEaten"`
}

// HasMeal reports whether the slot is backed by a stored meal.
func (s PlanSlot) HasMeal() bool {
	return s.Kind == SlotMeal || s.Kind == ""
}

// SlotFromMeal snapshots a meal into a plan slot.
func SlotFromMeal(m Meal) PlanSlot {
	cats := make([]Category, len(m.Categories))
	copy(cats, m.Categories)
	return PlanSlot{
		ID:         m.ID,
		Kind:       SlotMeal,
		Name:       m.Name,
		Categories: cats,
		IsFavorite: m.IsFavorite,
		LastEaten:  m.LastEaten,
	}
}

// Plan is the single current weekly plan of an owner.
type Plan struct {
	OwnerID   string     `bson:"_id" json:"ownerId"`
	Days      []PlanSlot `bson:"days" json:"days"`
	StartDate *time.Time `bson:"startDate" json:"startDate"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// IsEmpty reports whether there is nothing to archive or mutate.
func (p *Plan) IsEmpty() bool {
	return p == nil || len(p.Days) == 0
}

// Clone returns a copy whose slot slice can be mutated independently.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := *p
	out.Days = make([]PlanSlot, len(p.Days))
	copy(out.Days, p.Days)
	return &out
}

// DayDate returns the theoretical date of slot i (startDate + i days).
func (p *Plan) DayDate(i int) (time.Time, bool) {
	if p == nil || p.StartDate == nil {
		return time.Time{}, false
	}
	return p.StartDate.AddDate(0, 0, i), true
}

// Quotas sets how many slots of each category a generated plan gets.
type Quotas struct {
	Meat     int `json:"meat" mapstructure:"meat"`
	Fish     int `json:"fish" mapstructure:"fish"`
	Veg      int `json:"veg" mapstructure:"veg"`
	Brotzeit int `json:"brotzeit" mapstructure:"brotzeit"`
}

// DefaultQuotas matches the initial configuration of a new session.
func DefaultQuotas() Quotas {
	return Quotas{Meat: 2, Fish: 2, Veg: 2, Brotzeit: 1}
}

// Total sums all quotas.
func (q Quotas) Total() int {
	return q.Meat + q.Fish + q.Veg + q.Brotzeit
}

// For returns the quota of a meal category.
func (q Quotas) For(c Category) int {
	switch c {
	case CategoryMeat:
		return q.Meat
	case CategoryFish:
		return q.Fish
	case CategoryVeg:
		return q.Veg
	case CategoryBrotzeit:
		return q.Brotzeit
	}
	return 0
}

// Validate checks that quotas are non-negative and fill exactly one week.
func (q Quotas) Validate() error {
	if q.Meat < 0 || q.Fish < 0 || q.Veg < 0 || q.Brotzeit < 0 {
		return fmt.Errorf("quotas must be non-negative: %+v", q)
	}
	if q.Total() != PlanDays {
		return fmt.Errorf("quotas must sum to %d, got %d", PlanDays, q.Total())
	}
	return nil
}
