package service

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/planner"
	"alcyxob/meal-planner/internal/repository"
	"alcyxob/meal-planner/internal/storage"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const archiveKeyPrefix = "plans"

// GenerateResult is returned by GeneratePlan.
type GenerateResult struct {
	Plan          *domain.Plan `json:"plan"`
	HasDuplicates bool         `json:"hasDuplicates"`
	Warnings      []string     `json:"warnings"`
	ArchiveKey    string       `json:"archiveKey,omitempty"` // Snapshot of the outgoing plan, if stored
}

type PlanService interface {
	GetPlan(ctx context.Context, ownerID string) (*domain.Plan, error)
	// GeneratePlan archives the current plan and replaces it. nil quotas use the configured defaults.
	GeneratePlan(ctx context.Context, ownerID string, quotas *domain.Quotas) (*GenerateResult, error)
	SwapSlot(ctx context.Context, ownerID string, index int, desired domain.Category) (*domain.Plan, error)
	ToggleEaten(ctx context.Context, ownerID string, index int) (*domain.Plan, error)
	ClearPlan(ctx context.Context, ownerID string) error
	ArchiveDownloadURL(ctx context.Context, ownerID, key string) (string, error)
}

// planService implements the PlanService interface.
type planService struct {
	sessionLoader
	engine             *planner.Engine
	fileStorage        storage.FileStorage
	defaults           domain.Quotas
	archiveConcurrency int
	logger             *zap.Logger
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	mealRepo repository.MealRepository,
	planRepo repository.PlanRepository,
	engine *planner.Engine,
	fileStorage storage.FileStorage,
	defaults domain.Quotas,
	archiveConcurrency int,
	logger *zap.Logger,
) PlanService {
	if archiveConcurrency <= 0 {
		archiveConcurrency = domain.PlanDays
	}
	if fileStorage == nil {
		fileStorage = storage.Disabled{}
	}
	return &planService{
		sessionLoader:      sessionLoader{meals: mealRepo, plans: planRepo},
		engine:             engine,
		fileStorage:        fileStorage,
		defaults:           defaults,
		archiveConcurrency: archiveConcurrency,
		logger:             logger,
	}
}

func (s *planService) GetPlan(ctx context.Context, ownerID string) (*domain.Plan, error) {
	if ownerID == "" {
		return nil, ErrOwnerRequired
	}
	plan, err := s.plans.Get(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) {
		return &domain.Plan{OwnerID: ownerID, Days: []domain.PlanSlot{}}, nil
	}
	return plan, err
}

func (s *planService) GeneratePlan(ctx context.Context, ownerID string, quotas *domain.Quotas) (*GenerateResult, error) {
	q := s.defaults
	if quotas != nil {
		q = *quotas
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuotas, err)
	}

	sess, err := s.load(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	sess.Quotas = q

	result := &GenerateResult{}
	if !sess.Plan.IsEmpty() {
		s.archive(ctx, sess)
		result.ArchiveKey = s.storeSnapshot(ctx, sess.Plan)
	}

	assembly := s.engine.Assemble(sess.Meals, sess.Quotas)
	start := s.engine.Now()
	plan := &domain.Plan{
		OwnerID:   ownerID,
		Days:      assembly.Days,
		StartDate: &start,
		UpdatedAt: start,
	}
	if err := s.plans.Put(ctx, ownerID, plan); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	sess.Plan = plan

	result.Plan = plan
	result.HasDuplicates = assembly.HasDuplicates
	result.Warnings = assembly.Warnings
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	s.logger.Info("generated plan",
		zap.String("ownerId", ownerID),
		zap.Bool("hasDuplicates", result.HasDuplicates),
		zap.Int("warnings", len(result.Warnings)))
	return result, nil
}

// archive stamps every meal of the outgoing plan with its theoretical date,
// whether or not it was marked eaten. Writes run concurrently; a failed
// write is logged and skipped. The session's meals are refreshed afterwards.
func (s *planService) archive(ctx context.Context, sess *PlannerSession) {
	plan := sess.Plan
	if plan.StartDate == nil {
		return
	}

	// A meal planned twice keeps its latest day.
	dates := make(map[string]time.Time)
	for i, slot := range plan.Days {
		if !slot.HasMeal() {
			continue
		}
		day, _ := plan.DayDate(i)
		dates[slot.ID] = day
	}

	ids := make([]string, 0, len(dates))
	for id := range dates {
		ids = append(ids, id)
	}
	written := make([]bool, len(ids))

	var g errgroup.Group
	g.SetLimit(s.archiveConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			if err := s.meals.SetLastEaten(ctx, id, dates[id]); err != nil {
				s.logger.Warn("failed to archive meal", zap.String("mealId", id), zap.Error(err))
				return nil
			}
			written[i] = true
			return nil
		})
	}
	_ = g.Wait()

	if err := s.refreshMeals(ctx, sess); err != nil {
		s.logger.Warn("refetch after archive failed, using local dates", zap.Error(err))
		for i, id := range ids {
			if j := sess.mealIndex(id); written[i] && j >= 0 {
				at := dates[id]
				sess.Meals[j].LastEaten = &at
			}
		}
	}
}

// storeSnapshot uploads the outgoing plan as JSON and returns its key.
// An empty key means storage is disabled or the upload failed.
func (s *planService) storeSnapshot(ctx context.Context, plan *domain.Plan) string {
	if _, disabled := s.fileStorage.(storage.Disabled); disabled {
		return ""
	}
	body, err := json.Marshal(plan)
	if err != nil {
		s.logger.Warn("failed to encode plan snapshot", zap.Error(err))
		return ""
	}
	name := uuid.NewString() + ".json"
	key := path.Join(archiveKeyPrefix, plan.OwnerID, name)
	if err := s.fileStorage.PutObject(ctx, key, "application/json", body); err != nil {
		s.logger.Warn("failed to store plan snapshot", zap.String("key", key), zap.Error(err))
		return ""
	}
	return name
}

func (s *planService) ArchiveDownloadURL(ctx context.Context, ownerID, name string) (string, error) {
	if ownerID == "" {
		return "", ErrOwnerRequired
	}
	if name == "" || strings.ContainsAny(name, "/\\") || !strings.HasSuffix(name, ".json") {
		return "", ErrArchiveMissing
	}
	// Keys are always scoped to the caller's own prefix.
	key := path.Join(archiveKeyPrefix, ownerID, name)
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrStorageDisabled) {
			return "", ErrArchiveMissing
		}
		return "", err
	}
	return url, nil
}

func (s *planService) SwapSlot(ctx context.Context, ownerID string, index int, desired domain.Category) (*domain.Plan, error) {
	sess, err := s.load(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.Plan.Days) {
		return nil, ErrSlotOutOfRange
	}

	replacement, err := s.engine.PickSwap(sess.Meals, sess.Plan.Days[index], desired)
	if err != nil {
		return nil, err
	}

	updated := sess.Plan.Clone()
	updated.Days[index] = domain.SlotFromMeal(replacement)
	updated.UpdatedAt = s.engine.Now()
	if err := s.plans.Put(ctx, ownerID, updated); err != nil {
		return nil, fmt.Errorf("failed to save swapped plan: %w", err)
	}
	sess.Plan = updated
	return updated, nil
}

// ToggleEaten flips a slot's eaten flag. Only false→true stamps the meal's
// last-eaten date; unmarking leaves the date in place. Store failures are
// logged and the session reconciled from the store.
func (s *planService) ToggleEaten(ctx context.Context, ownerID string, index int) (*domain.Plan, error) {
	sess, err := s.load(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.Plan.Days) {
		return nil, ErrSlotOutOfRange
	}

	updated := sess.Plan.Clone()
	slot := &updated.Days[index]
	wasEaten := slot.IsEaten
	slot.IsEaten = !wasEaten
	updated.UpdatedAt = s.engine.Now()
	sess.Plan = updated

	if err := s.plans.Put(ctx, ownerID, updated); err != nil {
		s.logger.Error("failed to save plan after eaten toggle", zap.Int("index", index), zap.Error(err))
	}

	if !wasEaten && slot.HasMeal() {
		now := s.engine.Now()
		if err := s.meals.SetLastEaten(ctx, slot.ID, now); err != nil {
			s.logger.Error("failed to update last eaten", zap.String("mealId", slot.ID), zap.Error(err))
		}
		if err := s.refreshMeals(ctx, sess); err != nil {
			s.logger.Warn("meal refresh after eaten toggle failed", zap.Error(err))
		}
	}
	return updated, nil
}

func (s *planService) ClearPlan(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return ErrOwnerRequired
	}
	return s.plans.Put(ctx, ownerID, nil)
}
