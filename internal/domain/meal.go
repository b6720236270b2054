// internal/domain/meal.go
package domain

import (
	"strings"
	"time"
)

// Category tags a meal (meat, fish, veg) or marks a plan-only slot (brotzeit).
type Category string

const (
	CategoryMeat     Category = "meat"
	CategoryFish     Category = "fish"
	CategoryVeg      Category = "veg"
	CategoryBrotzeit Category = "brotzeit" // Plan-only, never stored on a meal
)

// MealCategories lists the tags a meal may carry, in planning order.
var MealCategories = []Category{CategoryMeat, CategoryFish, CategoryVeg}

// IsMealCategory reports whether c may be stored on a meal.
func (c Category) IsMealCategory() bool {
	switch c {
	case CategoryMeat, CategoryFish, CategoryVeg:
		return true
	}
	return false
}

// Meal is a dish in a user's collection.
type Meal struct {
	ID         string     `bson:"_id,omitempty" json:"id"`
	OwnerID    string     `bson:"ownerId" json:"ownerId"`
	Name       string     `bson:"name" json:"name"`
	NameKey    string     `bson:"nameKey" json:"-"` // Lowercased, trimmed name; unique per owner
	Categories []Category `bson:"categories" json:"categories"`
	IsFavorite bool       `bson:"isFavorite" json:"isFavorite"`
	LastEaten  *time.Time `bson:"lastEaten,omitempty" json:"lastEaten,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`

	// Category is the single-tag field written by older clients. Read-only.
	LegacyCategory Category `bson:"category,omitempty" json:"-"`
}

// HasCategory reports whether the meal carries tag c.
func (m *Meal) HasCategory(c Category) bool {
	for _, mc := range m.Categories {
		if mc == c {
			return true
		}
	}
	return false
}

// Normalize fills Categories from the legacy single-tag field when needed.
func (m *Meal) Normalize() {
	if len(m.Categories) == 0 && m.LegacyCategory != "" {
		m.Categories = []Category{m.LegacyCategory}
	}
	m.LegacyCategory = ""
	if m.NameKey == "" {
		m.NameKey = NameKey(m.Name)
	}
}

// NameKey returns the comparison key used for the per-owner uniqueness rule.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeCategories keeps the first occurrence of each valid meal tag.
// Unknown values and brotzeit are dropped.
func NormalizeCategories(in []Category) []Category {
	out := make([]Category, 0, len(in))
	seen := make(map[Category]bool, len(in))
	for _, c := range in {
		c = Category(strings.ToLower(strings.TrimSpace(string(c))))
		if !c.IsMealCategory() || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
