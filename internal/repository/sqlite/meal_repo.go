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

	"github.com/google/uuid"
)

// MealRepository implements repository.MealRepository on SQLite.
type MealRepository struct {
	db *sql.DB
}

// NewMealRepository creates a new MealRepository.
func NewMealRepository(db *sql.DB) *MealRepository {
	return &MealRepository{db: db}
}

// Create inserts a new meal. The (owner_id, name_key) constraint rejects duplicates.
func (r *MealRepository) Create(ctx context.Context, meal *domain.Meal) (string, error) {
	if meal.Name == "" || meal.OwnerID == "" || len(meal.Categories) == 0 {
		return "", errors.New("meal name, owner ID and categories are required")
	}
	cats, err := json.Marshal(meal.Categories)
	if err != nil {
		return "", fmt.Errorf("failed to marshal categories: %w", err)
	}

	meal.ID = uuid.NewString()
	meal.NameKey = domain.NameKey(meal.Name)
	meal.CreatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO meals (id, owner_id, name, name_key, categories, is_favorite, last_eaten, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		meal.ID, meal.OwnerID, meal.Name, meal.NameKey, string(cats),
		meal.IsFavorite, formatTimePtr(meal.LastEaten), formatTime(meal.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	return meal.ID, nil
}

// ListByOwner retrieves all meals of an owner, oldest first.
func (r *MealRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Meal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_id, name, name_key, categories, is_favorite, last_eaten, created_at
		FROM meals WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meals := []domain.Meal{}
	for rows.Next() {
		var (
			m         domain.Meal
			cats      string
			lastEaten sql.NullString
			createdAt string
		)
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Name, &m.NameKey, &cats, &m.IsFavorite, &lastEaten, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cats), &m.Categories); err != nil {
			return nil, fmt.Errorf("meal %s: bad categories: %w", m.ID, err)
		}
		if m.LastEaten, err = parseTimePtr(lastEaten); err != nil {
			return nil, fmt.Errorf("meal %s: bad last_eaten: %w", m.ID, err)
		}
		if m.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("meal %s: bad created_at: %w", m.ID, err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// Delete removes a meal, ensuring it belongs to the specified owner.
func (r *MealRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ? AND owner_id = ?`, id, ownerID)
	return affectedOne(res, err)
}

// SetFavorite updates the favorite flag.
func (r *MealRepository) SetFavorite(ctx context.Context, id string, isFavorite bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE meals SET is_favorite = ? WHERE id = ?`, isFavorite, id)
	return affectedOne(res, err)
}

// SetLastEaten updates the last-eaten timestamp.
func (r *MealRepository) SetLastEaten(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE meals SET last_eaten = ? WHERE id = ?`, formatTime(at), id)
	return affectedOne(res, err)
}

func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
