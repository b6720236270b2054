package sqlite

import (
	"alcyxob/meal-planner/internal/domain"
	"alcyxob/meal-planner/internal/repository"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRepository implements repository.UserRepository on SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Emails are unique.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return "", errors.New("user email and password hash are required")
	}
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, is_demo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.IsDemo, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", repository.ErrDuplicate
		}
		return "", err
	}
	return user.ID, nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, `email = ?`, strings.ToLower(strings.TrimSpace(email)))
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `id = ?`, id)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	var (
		u         domain.User
		reminder  sql.NullString
		createdAt string
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, is_demo, reminder, created_at, updated_at FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsDemo, &reminder, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if reminder.Valid && reminder.String != "" {
		u.Reminder = &domain.Reminder{}
		if err := json.Unmarshal([]byte(reminder.String), u.Reminder); err != nil {
			return nil, err
		}
	}
	if u.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetReminder stores the weekly reminder preference. nil removes it.
func (r *UserRepository) SetReminder(ctx context.Context, id string, reminder *domain.Reminder) error {
	var value sql.NullString
	if reminder != nil {
		data, err := json.Marshal(reminder)
		if err != nil {
			return err
		}
		value = sql.NullString{String: string(data), Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET reminder = ?, updated_at = ? WHERE id = ?`, value, formatTime(time.Now()), id)
	return affectedOne(res, err)
}
