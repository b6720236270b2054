package service

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/planner"
	"alcyxob/meal-planner/internal/repository"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

var errStoreDown = errors.New("store unavailable")

var fixedNow = time.Date(2024, 3, 18, 12, 0, 0, 0, time.UTC)

func newTestEngine(seed uint64) *planner.Engine {
	n := 0
	return planner.NewEngine(
		planner.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
		planner.WithClock(func() time.Time { return fixedNow }),
		planner.WithIDGenerator(func() string { n++; return fmt.Sprintf("gen-%d", n) }),
	)
}

// fakeMealRepo is an in-memory MealRepository safe for concurrent use.
type fakeMealRepo struct {
	mu           sync.Mutex
	meals        []domain.Meal
	nextID       int
	failList     bool
	failFavorite bool
	failEaten    map[string]bool
	eatenCalls   int
}

func newFakeMealRepo(meals ...domain.Meal) *fakeMealRepo {
	return &fakeMealRepo{meals: meals, failEaten: map[string]bool{}}
}

func (r *fakeMealRepo) Create(_ context.Context, meal *domain.Meal) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domain.NameKey(meal.Name)
	for _, m := range r.meals {
		if m.OwnerID == meal.OwnerID && domain.NameKey(m.Name) == key {
			return "", repository.ErrDuplicate
		}
	}
	r.nextID++
	meal.ID = fmt.Sprintf("meal-%d", r.nextID)
	meal.NameKey = key
	meal.CreatedAt = fixedNow
	r.meals = append(r.meals, *meal)
	return meal.ID, nil
}

func (r *fakeMealRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Meal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errStoreDown
	}
	out := []domain.Meal{}
	for _, m := range r.meals {
		if m.OwnerID == ownerID {
			if m.LastEaten != nil {
				at := *m.LastEaten
				m.LastEaten = &at
			}
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMealRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.meals {
		if m.ID == id && m.OwnerID == ownerID {
			r.meals = append(r.meals[:i], r.meals[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeMealRepo) find(id string) *domain.Meal {
	for i := range r.meals {
		if r.meals[i].ID == id {
			return &r.meals[i]
		}
	}
	return nil
}

func (r *fakeMealRepo) SetFavorite(_ context.Context, id string, isFavorite bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failFavorite {
		return errStoreDown
	}
	m := r.find(id)
	if m == nil {
		return repository.ErrNotFound
	}
	m.IsFavorite = isFavorite
	return nil
}

func (r *fakeMealRepo) SetLastEaten(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eatenCalls++
	if r.failEaten[id] {
		return errStoreDown
	}
	m := r.find(id)
	if m == nil {
		return repository.ErrNotFound
	}
	m.LastEaten = &at
	return nil
}

func (r *fakeMealRepo) get(id string) domain.Meal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.find(id)
}

// fakePlanRepo stores plans by owner.
type fakePlanRepo struct {
	mu      sync.Mutex
	plans   map[string]*domain.Plan
	failGet bool
	failPut bool
	puts    int
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[string]*domain.Plan{}}
}

func (r *fakePlanRepo) Get(_ context.Context, ownerID string) (*domain.Plan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet {
		return nil, errStoreDown
	}
	p, ok := r.plans[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *fakePlanRepo) Put(_ context.Context, ownerID string, plan *domain.Plan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts++
	if r.failPut {
		return errStoreDown
	}
	if plan.IsEmpty() {
		r.plans[ownerID] = &domain.Plan{OwnerID: ownerID, Days: []domain.PlanSlot{}}
		return nil
	}
	r.plans[ownerID] = plan.Clone()
	return nil
}

// fakeUserRepo keys users by lowercased email.
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return "", repository.ErrDuplicate
		}
	}
	r.nextID++
	stored := *user
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) SetReminder(_ context.Context, id string, reminder *domain.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	rem := *reminder
	u.Reminder = &rem
	return nil
}

// fakeStorage records uploaded objects.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) PutObject(_ context.Context, key, _ string, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	return "https://files.example.test/" + key + "?sig=1", nil
}

func storedMeal(id, owner, name string, cats ...domain.Category) domain.Meal {
	return domain.Meal{ID: id, OwnerID: owner, Name: name, NameKey: domain.NameKey(name), Categories: cats}
}
