package sqlite

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/repository"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PlanRepository implements repository.PlanRepository on SQLite.
// Slots are stored as a JSON document per owner.
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sql.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Get retrieves the current plan of an owner.
func (r *PlanRepository) Get(ctx context.Context, ownerID string) (*domain.Plan, error) {
	var (
		days      string
		startDate sql.NullString
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT days, start_date, updated_at FROM plans WHERE owner_id = ?`, ownerID,
	).Scan(&days, &startDate, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	plan := &domain.Plan{OwnerID: ownerID, Days: []domain.PlanSlot{}}
	if err := json.Unmarshal([]byte(days), &plan.Days); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan days: %w", err)
	}
	if plan.StartDate, err = parseTimePtr(startDate); err != nil {
		return nil, fmt.Errorf("bad plan start_date: %w", err)
	}
	if plan.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("bad plan updated_at: %w", err)
	}
	return plan, nil
}

// Put upserts the owner's plan. A nil or empty plan clears it.
func (r *PlanRepository) Put(ctx context.Context, ownerID string, plan *domain.Plan) error {
	if ownerID == "" {
		return errors.New("owner ID is required to store a plan")
	}
	days := []domain.PlanSlot{}
	var startDate *time.Time
	if plan != nil && len(plan.Days) > 0 {
		days = plan.Days
		startDate = plan.StartDate
	}
	data, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to marshal plan days: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO plans (owner_id, days, start_date, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET
			days = excluded.days,
			start_date = excluded.start_date,
			updated_at = excluded.updated_at`,
		ownerID, string(data), formatTimePtr(startDate), formatTime(time.Now()),
	)
	return err
}
