// Package planner holds the pure meal-planning logic: weighted selection,
// weekly plan assembly and swap candidate picks. It performs no I/O.
package planner

import (
	"alcyxob/meal-planner/internal/domain"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Rand is the randomness the planner draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// globalRand uses the goroutine-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Engine carries the injectable collaborators of the planning algorithms.
type Engine struct {
	rng   Rand
	now   func() time.Time
	newID func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand replaces the random source, e.g. with a seeded *rand.Rand in tests.
func WithRand(r Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the generator used for synthetic slot IDs.
func WithIDGenerator(f func() string) Option {
	return func(e *Engine) { e.newID = f }
}

// NewEngine creates an Engine using the global random source and wall clock by default.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rng:   globalRand{},
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine's current time in UTC.
func (e *Engine) Now() time.Time {
	return e.now().UTC()
}

func (e *Engine) brotzeitSlot() domain.PlanSlot {
	return domain.PlanSlot{
		ID:         "brotzeit-" + e.newID(),
		Kind:       domain.SlotBrotzeit,
		Name:       "Brotzeit",
		Categories: []domain.Category{domain.CategoryBrotzeit},
	}
}

func (e *Engine) placeholderSlot(label domain.Category) domain.PlanSlot {
	return domain.PlanSlot{
		ID:         "placeholder-" + string(label) + "-" + e.newID(),
		Kind:       domain.SlotPlaceholder,
		Name:       "Add a meal (" + string(label) + ")",
		Categories: []domain.Category{label},
	}
}
