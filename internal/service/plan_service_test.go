package service

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/storage"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type planFixture struct {
	meals   *fakeMealRepo
	plans   *fakePlanRepo
	storage *fakeStorage
	svc     PlanService
}

func newPlanFixture(t *testing.T, meals ...domain.Meal) *planFixture {
	t.Helper()
	f := &planFixture{
		meals:   newFakeMealRepo(meals...),
		plans:   newFakePlanRepo(),
		storage: newFakeStorage(),
	}
	f.svc = NewPlanService(f.meals, f.plans, newTestEngine(7), f.storage, domain.DefaultQuotas(), 3, zaptest.NewLogger(t))
	return f
}

func sampleCollection(owner string) []domain.Meal {
	var out []domain.Meal
	for i, c := range []domain.Category{domain.CategoryMeat, domain.CategoryFish, domain.CategoryVeg} {
		for j := 0; j < 3; j++ {
			id := fmt.Sprintf("m%d%d", i, j)
			out = append(out, storedMeal(id, owner, fmt.Sprintf("%s %d", c, j), c))
		}
	}
	return out
}

func TestGeneratePlan_Persists(t *testing.T) {
	ctx := context.Background()
	f := newPlanFixture(t, sampleCollection("u1")...)

	res, err := f.svc.GeneratePlan(ctx, "u1", nil)
	require.NoError(t, err)
	require.Len(t, res.Plan.Days, domain.PlanDays)
	require.NotNil(t, res.Plan.StartDate)
	assert.True(t, res.Plan.StartDate.Equal(fixedNow))
	assert.False(t, res.HasDuplicates)
	assert.Empty(t, res.Warnings)
	assert.Empty(t, res.ArchiveKey, "nothing to archive on first run")

	kinds := map[domain.SlotKind]int{}
	for _, d := range res.Plan.Days {
		kinds[d.Kind]++
	}
	assert.Equal(t, 6, kinds[domain.SlotMeal])
	assert.Equal(t, 1, kinds[domain.SlotBrotzeit])

	stored, err := f.svc.GetPlan(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, res.Plan.Days, stored.Days)
}

func TestGeneratePlan_EmptyCollection(t *testing.T) {
	f := newPlanFixture(t)

	res, err := f.svc.GeneratePlan(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Len(t, res.Plan.Days, domain.PlanDays)
	assert.Len(t, res.Warnings, 3)
	for _, d := range res.Plan.Days {
		assert.NotEqual(t, domain.SlotMeal, d.Kind)
	}
}

func TestGeneratePlan_CustomQuotas(t *testing.T) {
	f := newPlanFixture(t, sampleCollection("u1")...)

	res, err := f.svc.GeneratePlan(context.Background(), "u1", &domain.Quotas{Meat: 7})
	require.NoError(t, err)
	for _, d := range res.Plan.Days {
		assert.Contains(t, d.Categories, domain.CategoryMeat)
	}
	assert.True(t, res.HasDuplicates, "three meat meals cannot fill seven days")
}

func TestGeneratePlan_InvalidQuotas(t *testing.T) {
	f := newPlanFixture(t)
	_, err := f.svc.GeneratePlan(context.Background(), "u1", &domain.Quotas{Meat: 3, Fish: 3})
	assert.ErrorIs(t, err, ErrInvalidQuotas)
	assert.Zero(t, f.plans.puts)
}

func TestGeneratePlan_ArchivesPreviousPlan(t *testing.T) {
	ctx := context.Background()
	meals := sampleCollection("u1")
	f := newPlanFixture(t, meals...)

	start := fixedNow.AddDate(0, 0, -7)
	old := &domain.Plan{OwnerID: "u1", StartDate: &start}
	for i := 0; i < 5; i++ {
		old.Days = append(old.Days, domain.SlotFromMeal(meals[i]))
	}
	old.Days = append(old.Days,
		domain.PlanSlot{ID: "brotzeit-x", Kind: domain.SlotBrotzeit, Name: "Brotzeit"},
		domain.SlotFromMeal(meals[0]), // planned twice, latest day wins
	)
	old.Days[2].IsEaten = true
	require.NoError(t, f.plans.Put(ctx, "u1", old))

	res, err := f.svc.GeneratePlan(ctx, "u1", nil)
	require.NoError(t, err)
	require.NotEmpty(t, res.ArchiveKey)

	assert.True(t, f.meals.get(meals[0].ID).LastEaten.Equal(start.AddDate(0, 0, 6)))
	for i := 1; i < 5; i++ {
		got := f.meals.get(meals[i].ID).LastEaten
		require.NotNil(t, got, meals[i].ID)
		assert.True(t, got.Equal(start.AddDate(0, 0, i)), "day %d", i)
	}
	assert.Nil(t, f.meals.get(meals[5].ID).LastEaten, "unplanned meals untouched")
	assert.Equal(t, 5, f.meals.eatenCalls, "one write per distinct meal, none for brotzeit")

	var snapshot domain.Plan
	require.Len(t, f.storage.objects, 1)
	for key, body := range f.storage.objects {
		assert.True(t, strings.HasPrefix(key, "plans/u1/"))
		require.NoError(t, json.Unmarshal(body, &snapshot))
	}
	assert.Len(t, snapshot.Days, 7)
}

func TestGeneratePlan_ArchiveFailuresAreTolerated(t *testing.T) {
	ctx := context.Background()
	meals := sampleCollection("u1")
	f := newPlanFixture(t, meals...)
	f.meals.failEaten[meals[1].ID] = true

	start := fixedNow.AddDate(0, 0, -7)
	old := &domain.Plan{OwnerID: "u1", StartDate: &start, Days: []domain.PlanSlot{
		domain.SlotFromMeal(meals[0]),
		domain.SlotFromMeal(meals[1]),
		domain.SlotFromMeal(meals[2]),
	}}
	require.NoError(t, f.plans.Put(ctx, "u1", old))

	_, err := f.svc.GeneratePlan(ctx, "u1", nil)
	require.NoError(t, err)
	assert.NotNil(t, f.meals.get(meals[0].ID).LastEaten)
	assert.Nil(t, f.meals.get(meals[1].ID).LastEaten)
	assert.NotNil(t, f.meals.get(meals[2].ID).LastEaten)
}

func TestGeneratePlan_SaveFailure(t *testing.T) {
	f := newPlanFixture(t, sampleCollection("u1")...)
	f.plans.failPut = true
	_, err := f.svc.GeneratePlan(context.Background(), "u1", nil)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestGeneratePlan_StorageDisabled(t *testing.T) {
	ctx := context.Background()
	meals := sampleCollection("u1")
	plans := newFakePlanRepo()
	svc := NewPlanService(newFakeMealRepo(meals...), plans, newTestEngine(1), storage.Disabled{}, domain.DefaultQuotas(), 0, zaptest.NewLogger(t))

	start := fixedNow.AddDate(0, 0, -7)
	require.NoError(t, plans.Put(ctx, "u1", &domain.Plan{OwnerID: "u1", StartDate: &start, Days: []domain.PlanSlot{domain.SlotFromMeal(meals[0])}}))

	res, err := svc.GeneratePlan(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Empty(t, res.ArchiveKey)

	_, err = svc.ArchiveDownloadURL(ctx, "u1", "anything.json")
	assert.ErrorIs(t, err, ErrArchiveMissing)
}

func TestArchiveDownloadURL_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	meals := sampleCollection("u1")
	f := newPlanFixture(t, meals...)
	start := fixedNow.AddDate(0, 0, -7)
	require.NoError(t, f.plans.Put(ctx, "u1", &domain.Plan{OwnerID: "u1", StartDate: &start, Days: []domain.PlanSlot{domain.SlotFromMeal(meals[0])}}))
	res, err := f.svc.GeneratePlan(ctx, "u1", nil)
	require.NoError(t, err)

	url, err := f.svc.ArchiveDownloadURL(ctx, "u1", res.ArchiveKey)
	require.NoError(t, err)
	assert.Contains(t, url, "plans/u1/"+res.ArchiveKey)

	_, err = f.svc.ArchiveDownloadURL(ctx, "u2", res.ArchiveKey)
	assert.Error(t, err)
	_, err = f.svc.ArchiveDownloadURL(ctx, "u1", "../u2/"+res.ArchiveKey)
	assert.ErrorIs(t, err, ErrArchiveMissing)
}

func seedPlan(t *testing.T, f *planFixture, days ...domain.PlanSlot) {
	t.Helper()
	start := fixedNow
	require.NoError(t, f.plans.Put(context.Background(), "u1", &domain.Plan{OwnerID: "u1", StartDate: &start, Days: days}))
	f.plans.puts = 0
}

func TestSwapSlot(t *testing.T) {
	ctx := context.Background()
	meals := sampleCollection("u1")
	f := newPlanFixture(t, meals...)
	seedPlan(t, f, domain.SlotFromMeal(meals[0]), domain.SlotFromMeal(meals[3]))

	plan, err := f.svc.SwapSlot(ctx, "u1", 0, "")
	require.NoError(t, err)
	assert.NotEqual(t, meals[0].ID, plan.Days[0].ID)
	assert.Contains(t, plan.Days[0].Categories, domain.CategoryMeat)
	assert.Equal(t, meals[3].ID, plan.Days[1].ID)

	plan, err = f.svc.SwapSlot(ctx, "u1", 1, domain.CategoryVeg)
	require.NoError(t, err)
	assert.Contains(t, plan.Days[1].Categories, domain.CategoryVeg)
	assert.Equal(t, 2, f.plans.puts)
}

func TestSwapSlot_NoCandidatesLeavesPlan(t *testing.T) {
	ctx := context.Background()
	only := storedMeal("m1", "u1", "Gulasch", domain.CategoryMeat)
	f := newPlanFixture(t, only)
	seedPlan(t, f, domain.SlotFromMeal(only))

	_, err := f.svc.SwapSlot(ctx, "u1", 0, "")
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Zero(t, f.plans.puts)

	plan, err := f.svc.GetPlan(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "m1", plan.Days[0].ID)
}

func TestSwapSlot_Errors(t *testing.T) {
	ctx := context.Background()
	meals := sampleCollection("u1")
	f := newPlanFixture(t, meals...)
	seedPlan(t, f, domain.SlotFromMeal(meals[0]))

	_, err := f.svc.SwapSlot(ctx, "u1", 5, "")
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
	_, err = f.svc.SwapSlot(ctx, "u1", -1, "")
	assert.ErrorIs(t, err, ErrSlotOutOfRange)
	_, err = f.svc.SwapSlot(ctx, "u1", 0, "dessert")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestToggleEaten(t *testing.T) {
	ctx := context.Background()
	meals := sampleCollection("u1")
	f := newPlanFixture(t, meals...)
	seedPlan(t, f, domain.SlotFromMeal(meals[0]))

	plan, err := f.svc.ToggleEaten(ctx, "u1", 0)
	require.NoError(t, err)
	assert.True(t, plan.Days[0].IsEaten)
	eaten := f.meals.get(meals[0].ID).LastEaten
	require.NotNil(t, eaten)
	assert.True(t, eaten.Equal(fixedNow))

	plan, err = f.svc.ToggleEaten(ctx, "u1", 0)
	require.NoError(t, err)
	assert.False(t, plan.Days[0].IsEaten)
	assert.NotNil(t, f.meals.get(meals[0].ID).LastEaten, "unmarking keeps the date")
	assert.Equal(t, 1, f.meals.eatenCalls)
}

func TestToggleEaten_SyntheticSlot(t *testing.T) {
	f := newPlanFixture(t)
	seedPlan(t, f, domain.PlanSlot{ID: "brotzeit-1", Kind: domain.SlotBrotzeit, Name: "Brotzeit"})

	plan, err := f.svc.ToggleEaten(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.True(t, plan.Days[0].IsEaten)
	assert.Zero(t, f.meals.eatenCalls)
}

func TestToggleEaten_SaveFailureIsLogged(t *testing.T) {
	meals := sampleCollection("u1")
	f := newPlanFixture(t, meals...)
	seedPlan(t, f, domain.SlotFromMeal(meals[0]))
	f.plans.failPut = true

	plan, err := f.svc.ToggleEaten(context.Background(), "u1", 0)
	require.NoError(t, err)
	assert.True(t, plan.Days[0].IsEaten)
	assert.NotNil(t, f.meals.get(meals[0].ID).LastEaten)
}

func TestClearPlan(t *testing.T) {
	ctx := context.Background()
	meals := sampleCollection("u1")
	f := newPlanFixture(t, meals...)
	seedPlan(t, f, domain.SlotFromMeal(meals[0]))

	require.NoError(t, f.svc.ClearPlan(ctx, "u1"))
	plan, err := f.svc.GetPlan(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, plan.IsEmpty())
	assert.Nil(t, f.meals.get(meals[0].ID).LastEaten, "clearing does not archive")
}
